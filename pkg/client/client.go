package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
)

const defaultTimeout = 30 * time.Second

// HTTPError is returned for a non 2xx response. its message is the response body verbatim.
type HTTPError struct {
	StatusCode int
	Body       string
}

// Error implements error interface
func (e *HTTPError) Error() string {
	return e.Body
}

// Options stores options for the client
type Options struct {
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to a network shaper backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        klog.Logger
}

// New creates a new Client for the backend at baseURL, opts may be nil
func New(baseURL string, opts *Options) *Client {
	httpClient := &http.Client{Timeout: defaultTimeout}
	if opts != nil {
		if opts.HTTPClient != nil {
			httpClient = opts.HTTPClient
		} else if opts.Timeout != 0 {
			httpClient.Timeout = opts.Timeout
		}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		log:        klog.NewKlogr().WithName("shaper-client"),
	}
}

// Refresh returns the settings currently programmed by the backend
func (c *Client) Refresh(ctx context.Context) (*netem.RefreshPayload, error) {
	data, err := c.do(ctx, http.MethodGet, "/refresh", nil)
	if err != nil {
		return nil, err
	}
	return netem.ParseRefreshPayload(data)
}

// Apply sends p to the backend
func (c *Client) Apply(ctx context.Context, p *netem.ApplyPayload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "failed to serialize apply payload")
	}
	_, err = c.do(ctx, http.MethodPost, "/apply", body)
	return err
}

// Remove removes every setting programmed by the backend and returns the resulting settings
func (c *Client) Remove(ctx context.Context) (*netem.RefreshPayload, error) {
	data, err := c.do(ctx, http.MethodPost, "/remove", nil)
	if err != nil {
		return nil, err
	}
	return netem.ParseRefreshPayload(data)
}

// Devices lists the devices of the backend host
func (c *Client) Devices(ctx context.Context) (*netem.DevicesPayload, error) {
	data, err := c.do(ctx, http.MethodGet, "/nics", nil)
	if err != nil {
		return nil, err
	}
	p := &netem.DevicesPayload{}
	if err = json.Unmarshal(data, p); err != nil {
		return nil, errors.Wrap(err, "failed to parse devices")
	}
	return p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request %s %s", method, path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.V(4).Info("sending request", "method", method, "url", req.URL.String())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	c.log.V(4).Info("received response", "status", resp.StatusCode, "requestID", resp.Header.Get("X-Request-Id"))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
