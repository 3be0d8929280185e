package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/client"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
)

const refreshBody = `{
  "host": "0.0.0.0", "port": 80, "allow_no_ip": true,
  "inbound": {"device": "eth0", "label": "LAN", "netem": {
    "delay": 10, "delay_unit": "ms", "delay_jitter": 2, "delay_jitter_unit": "ms", "delay_corr": 0,
    "reorder_pct": 0, "reorder_corr": 0, "reorder_gap": 0,
    "rate": 0, "rate_unit": "kbit", "rate_pkt_overhead": 0, "rate_cell_size": 0, "rate_cell_overhead": 0,
    "corrupt_pct": 0, "corrupt_corr": 0, "dupe_pct": 0, "dupe_corr": 0, "loss_pct": 5, "loss_corr": 0}},
  "outbound": {"device": "eth1", "label": "WAN", "netem": {
    "delay": 0, "delay_jitter": 0, "delay_corr": 0,
    "reorder_pct": 0, "reorder_corr": 0, "reorder_gap": 0,
    "rate": 0, "rate_pkt_overhead": 0, "rate_cell_size": 0, "rate_cell_overhead": 0,
    "corrupt_pct": 0, "corrupt_corr": 0, "dupe_pct": 0, "dupe_corr": 0, "loss_pct": 0, "loss_corr": 0}}
}`

type request struct {
	method string
	path   string
	body   string
}

var _ = Describe("Client tests", func() {
	var (
		ts       *httptest.Server
		c        *client.Client
		requests []request
		status   int
		response string
		ctx      = context.Background()
	)

	BeforeEach(func() {
		requests = nil
		status = http.StatusOK
		response = ""
		ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			requests = append(requests, request{method: r.Method, path: r.URL.Path, body: string(body)})
			w.WriteHeader(status)
			_, _ = w.Write([]byte(response))
		}))
		DeferCleanup(ts.Close)
		c = client.New(ts.URL+"/", nil)
	})

	Context("Refresh()", func() {
		It("parses the refresh payload", func() {
			response = refreshBody
			p, err := c.Refresh(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(requests).To(Equal([]request{{method: http.MethodGet, path: "/refresh", body: ""}}))
			Expect(*p.Inbound.Device).To(Equal("eth0"))
			Expect(netem.FloatValue(p.Inbound.Netem.LossPct)).To(Equal(float64(5)))
		})

		It("returns the body verbatim on failure", func() {
			status = http.StatusInternalServerError
			response = "Failed to read netem configuration: boom"

			_, err := c.Refresh(ctx)
			Expect(err).To(MatchError("Failed to read netem configuration: boom"))
			var httpErr *client.HTTPError
			Expect(err).To(BeAssignableToTypeOf(httpErr))
			Expect(err.(*client.HTTPError).StatusCode).To(Equal(http.StatusInternalServerError))
		})

		It("reports a malformed payload", func() {
			response = "not json"
			_, err := c.Refresh(ctx)
			Expect(err).To(MatchError(netem.ErrMalformedPayload))
		})
	})

	Context("Apply()", func() {
		It("posts the payload as JSON", func() {
			response = "Settings applied successfully"
			p := &netem.ApplyPayload{Device: "eth0", Netem: &netem.NetemParams{Delay: netem.Float(10)}}

			Expect(c.Apply(ctx, p)).To(Succeed())
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].method).To(Equal(http.MethodPost))
			Expect(requests[0].path).To(Equal("/apply"))
			Expect(requests[0].body).To(MatchJSON(`{"allow_no_ip":false,"device":"eth0","netem":{"delay":10}}`))
		})

		It("accepts any 2xx status", func() {
			status = http.StatusAccepted
			Expect(c.Apply(ctx, &netem.ApplyPayload{})).To(Succeed())
		})

		It("returns the body verbatim on failure", func() {
			status = http.StatusBadRequest
			response = "Inbound and outbound devices must not be the same"
			Expect(c.Apply(ctx, &netem.ApplyPayload{})).To(MatchError(response))
		})
	})

	Context("Remove()", func() {
		It("posts to /remove and parses the result", func() {
			response = refreshBody
			p, err := c.Remove(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(requests[0].method).To(Equal(http.MethodPost))
			Expect(requests[0].path).To(Equal("/remove"))
			Expect(*p.Outbound.Device).To(Equal("eth1"))
		})
	})

	Context("Devices()", func() {
		It("lists the devices", func() {
			data, _ := json.Marshal(netem.DevicesPayload{
				AllowNoIP:  true,
				AllDevices: []netem.NIC{{Name: "eth0", IP: "10.0.0.1", Label: "eth0: 10.0.0.1"}, {Name: "eth1", Label: "eth1"}},
			})
			response = string(data)

			p, err := c.Devices(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(requests[0].path).To(Equal("/nics"))
			Expect(p.AllowNoIP).To(BeTrue())
			Expect(p.AllDevices).To(HaveLen(2))
		})
	})

	Context("Pull() and Push()", func() {
		It("pulls the backend settings into the model", func() {
			response = refreshBody
			m := netem.NewModel()

			Expect(client.Pull(ctx, c, m)).To(Succeed())
			Expect(m.Device(netem.Inbound)).To(Equal("eth0"))
			Expect(m.AllowNoIP()).To(BeTrue())
			Expect(m.SectionToggle(netem.Inbound, netem.SectionDelay)).To(BeTrue())
			Expect(m.IsEnabled(netem.Inbound, "delay.correlation")).To(BeTrue())
		})

		It("leaves the model unchanged on failure", func() {
			status = http.StatusInternalServerError
			response = "boom"
			m := netem.NewModel()
			Expect(m.SelectDevice(netem.Inbound, "eth9")).To(Succeed())

			Expect(client.Pull(ctx, c, m)).To(MatchError("boom"))
			Expect(m.Device(netem.Inbound)).To(Equal("eth9"))
		})

		It("does not send anything when no device is selected", func() {
			m := netem.NewModel()
			Expect(m.SelectDevice(netem.Inbound, "eth0")).To(Succeed())

			err := client.Push(ctx, c, m)
			Expect(err).To(MatchError(netem.ErrNoDeviceSelected))
			Expect(err).To(MatchError("Please select an outbound device"))
			Expect(requests).To(BeEmpty())
		})

		It("pushes the model to the backend", func() {
			m := netem.NewModel()
			Expect(m.SelectDevice(netem.Inbound, "eth0")).To(Succeed())
			Expect(m.SelectDevice(netem.Outbound, "eth1")).To(Succeed())
			Expect(m.SetSectionToggle(netem.Outbound, netem.SectionLoss, true)).To(Succeed())
			Expect(m.SetField(netem.Outbound, "loss.percent", 2)).To(Succeed())

			Expect(client.Push(ctx, c, m)).To(Succeed())
			Expect(requests).To(HaveLen(1))

			var sent map[string]interface{}
			Expect(json.Unmarshal([]byte(requests[0].body), &sent)).To(Succeed())
			Expect(sent).To(HaveKey("inbound"))
			Expect(sent["outbound"]).To(HaveKeyWithValue("device", "eth1"))
			Expect(sent["outbound"]).To(HaveKeyWithValue("netem", HaveKeyWithValue("loss_pct", float64(2))))
		})
	})
})
