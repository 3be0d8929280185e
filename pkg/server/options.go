package server

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/shaper"
)

// Options stores option for the command
type Options struct {
	// Host and Port override the listen address of the persisted config if set
	Host string
	Port int
	// RequestsPerSecond and Burst limit mutating requests per client IP
	RequestsPerSecond float64
	Burst             int
	ShutdownTimeout   time.Duration
	// ReadHeaderTimeout bounds the time a client may take to send request headers
	ReadHeaderTimeout time.Duration
	// HostnameOverride is the node name reported in metrics instead of the hostname
	HostnameOverride string

	Shaper *shaper.Options
}

// AddFlags adds command line flags into command
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.SortFlags = false
	fs.StringVar(&o.Host, "host", o.Host, "If non-empty, address to listen on instead of the configured one.")
	fs.IntVar(&o.Port, "port", o.Port, "If non-zero, port to listen on instead of the configured one.")
	fs.Float64Var(&o.RequestsPerSecond, "rate-limit", o.RequestsPerSecond, "Mutating requests per second allowed per client IP.")
	fs.IntVar(&o.Burst, "rate-limit-burst", o.Burst, "Burst of mutating requests allowed per client IP.")
	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Time to wait for pending requests on shutdown.")
	fs.DurationVar(&o.ReadHeaderTimeout, "read-header-timeout", o.ReadHeaderTimeout, "Time allowed to read the headers of a request.")
	fs.StringVar(&o.HostnameOverride, "hostname-override", o.HostnameOverride,
		"If non-empty, will use this string as identification instead of the actual hostname.")
	o.Shaper.AddFlags(fs)
}

// NewOptions initializes Options
func NewOptions() *Options {
	return &Options{
		RequestsPerSecond: 5,
		Burst:             10,
		ShutdownTimeout:   5 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		Shaper:            shaper.NewOptions(),
	}
}
