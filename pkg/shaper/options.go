package shaper

import (
	"github.com/spf13/pflag"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/config"
)

const (
	TCDriverNetlink = "netlink"
	TCDriverCmdline = "cmdline"
)

// Options stores options of the shaper service
type Options struct {
	// ConfigPath is the path of the persisted shaper config
	ConfigPath string
	// RulesPath is a directory to store the applied tc rules per device for troubleshooting
	RulesPath string
	// TCDriver is the driver used to program tc, one of netlink, cmdline
	TCDriver string
	// NetNS is the path of the network namespace holding the devices, current namespace if empty
	NetNS string
	// Single serves a single device instead of an inbound and an outbound device
	Single bool
}

// AddFlags adds command line flags into command
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigPath, "config", "c", o.ConfigPath, "Path to configuration file.")
	fs.StringVar(&o.RulesPath, "rules-path", o.RulesPath, "If non-empty, will use this path to store the applied tc rules for troubleshooting.")
	fs.StringVar(&o.TCDriver, "tc-driver", o.TCDriver, "TC driver to use, one of: netlink, cmdline.")
	fs.StringVar(&o.NetNS, "netns", o.NetNS, "If non-empty, path of the network namespace holding the shaped devices.")
	fs.BoolVar(&o.Single, "single-device", o.Single, "Shape a single device instead of an inbound and an outbound device.")
}

// NewOptions initializes Options
func NewOptions() *Options {
	return &Options{
		ConfigPath: config.DefaultPath,
		TCDriver:   TCDriverNetlink,
	}
}
