package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/config"
	netwrappers "github.com/k8snetworkplumbingwg/network-shaper/pkg/net"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/shaper"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/utils"
)

const (
	opRefresh = "refresh"
	opApply   = "apply"
	opRemove  = "remove"
	opDevices = "devices"

	msgApplied = "Settings applied successfully"
)

// Server structure defines data for server
type Server struct {
	Options *Options
	Addr    string

	service shaper.Service
	engine  *gin.Engine
	limiter *RateLimiter
	metrics *metrics
}

// NewServer creates a new *Server instance backed by the shaper service described by o
func NewServer(o *Options) (*Server, error) {
	cfg, err := config.Load(o.Shaper.ConfigPath)
	if err != nil {
		return nil, err
	}
	klog.InfoS("loaded config", "path", o.Shaper.ConfigPath,
		"inbound", cfg.Inbound.Device, "outbound", cfg.Outbound.Device, "single", o.Shaper.Single)

	host := cfg.Host
	if o.Host != "" {
		host = o.Host
	}
	port := cfg.Port
	if o.Port != 0 {
		port = o.Port
	}

	svc := shaper.NewServiceImpl(o.Shaper, cfg, netwrappers.NewNetlinkProviderImpl())
	s := New(o, svc)
	s.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	return s, nil
}

// New creates a new *Server instance serving service
func New(o *Options, service shaper.Service) *Server {
	gin.SetMode(gin.ReleaseMode)

	node, err := utils.GetHostname(o.HostnameOverride)
	if err != nil {
		klog.ErrorS(err, "failed to get hostname, metrics will have an empty node label")
	}

	s := &Server{
		Options: o,
		service: service,
		engine:  gin.New(),
		limiter: NewRateLimiter(o.RequestsPerSecond, o.Burst),
		metrics: newMetrics(node),
	}
	s.engine.HandleMethodNotAllowed = true
	s.engine.Use(gin.Recovery(), RequestIDMiddleware(), LoggerMiddleware())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	// expose the current netem configuration, may be requested using any HTTP method
	s.engine.Any("/refresh", s.refresh)

	mutating := s.engine.Group("/", RateLimitMiddleware(s.limiter))
	{
		mutating.POST("/apply", s.apply)
		mutating.POST("/remove", s.remove)
	}

	s.engine.GET("/nics", s.devices)
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
}

// Handler returns the http.Handler serving the API
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run restores the persisted settings and serves the API until provided context is done
func (s *Server) Run(ctx context.Context) error {
	klog.InfoS("Restoring shaping")
	if err := s.service.Restore(ctx); err != nil {
		return errors.Wrap(err, "failed to restore shaping")
	}

	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.Addr)
	}
	return s.Serve(ctx, listener)
}

// Serve serves the API on listener until provided context is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{Handler: s.engine, ReadHeaderTimeout: s.Options.ReadHeaderTimeout}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	klog.InfoS("Listening", "address", fmt.Sprintf("http://%s", listener.Addr()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	klog.InfoS("waiting for pending requests to complete")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Options.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// fail writes err as a plain text body, 400 for errors caused by the request and 500 otherwise
func (s *Server) fail(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	result := resultError
	if shaper.IsBadRequest(err) {
		status = http.StatusBadRequest
		result = resultBadRequest
	}
	s.metrics.observe(op, result)

	klog.ErrorS(err, "request failed", "op", op, "requestID", c.GetString(requestIDKey))
	c.String(status, err.Error())
}

func (s *Server) refresh(c *gin.Context) {
	p, err := s.service.Refresh(c.Request.Context())
	if err != nil {
		s.fail(c, opRefresh, errors.Wrap(err, "Failed to read netem configuration"))
		return
	}
	s.metrics.observe(opRefresh, resultSuccess)
	c.JSON(http.StatusOK, p)
}

func (s *Server) apply(c *gin.Context) {
	var p netem.ApplyPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		s.metrics.observe(opApply, resultBadRequest)
		c.String(http.StatusBadRequest, "Failed to parse request: %s", err.Error())
		return
	}

	if err := s.service.Apply(c.Request.Context(), &p); err != nil {
		s.fail(c, opApply, err)
		return
	}
	s.metrics.observe(opApply, resultSuccess)
	klog.InfoS(msgApplied, "requestID", c.GetString(requestIDKey))
	c.String(http.StatusOK, msgApplied)
}

func (s *Server) remove(c *gin.Context) {
	p, err := s.service.Remove(c.Request.Context())
	if err != nil {
		s.fail(c, opRemove, err)
		return
	}
	s.metrics.observe(opRemove, resultSuccess)
	c.JSON(http.StatusOK, p)
}

func (s *Server) devices(c *gin.Context) {
	p, err := s.service.Devices(c.Request.Context())
	if err != nil {
		s.fail(c, opDevices, errors.Wrap(err, "Failed to list devices"))
		return
	}
	s.metrics.observe(opDevices, resultSuccess)
	c.JSON(http.StatusOK, p)
}
