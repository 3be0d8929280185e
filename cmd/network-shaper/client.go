package main

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/client"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
)

// clientOptions stores options shared by the commands talking to a backend
type clientOptions struct {
	Server  string
	Timeout time.Duration
	Single  bool
}

// AddFlags adds command line flags into command
func (o *clientOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Server, "server", "s", o.Server, "Base URL of the network-shaper backend.")
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "Timeout of a request to the backend.")
	fs.BoolVar(&o.Single, "single-device", o.Single, "The backend shapes a single device.")
}

func newClientOptions() *clientOptions {
	return &clientOptions{
		Server:  "http://127.0.0.1",
		Timeout: 30 * time.Second,
	}
}

func (o *clientOptions) client() *client.Client {
	return client.New(o.Server, &client.Options{Timeout: o.Timeout})
}

func (o *clientOptions) newModel() *netem.Model {
	if o.Single {
		return netem.NewSingleModel()
	}
	return netem.NewModel()
}
