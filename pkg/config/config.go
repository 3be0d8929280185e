package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/utils"
)

const (
	// DefaultPath is the default location of the persisted shaper config
	DefaultPath = "/etc/network-shaper.json"

	DefaultHost = "0.0.0.0"
	DefaultPort = 80
)

// DeviceConfig is the persisted state of one traffic direction
type DeviceConfig struct {
	Device string            `json:"device" yaml:"device"`
	Label  string            `json:"label" yaml:"label"`
	Netem  netem.NetemParams `json:"netem" yaml:"netem"`
}

// ShaperConfig is the persisted state of the shaper backend
type ShaperConfig struct {
	Host      string       `json:"host" yaml:"host"`
	Port      int          `json:"port" yaml:"port"`
	AllowNoIP bool         `json:"allow_no_ip" yaml:"allow_no_ip"`
	Inbound   DeviceConfig `json:"inbound" yaml:"inbound"`
	Outbound  DeviceConfig `json:"outbound" yaml:"outbound"`
}

// Default returns the config used when none is persisted
func Default() *ShaperConfig {
	return &ShaperConfig{
		Host:     DefaultHost,
		Port:     DefaultPort,
		Inbound:  DeviceConfig{Device: "eth0", Label: "Inbound", Netem: *netem.ZeroParams()},
		Outbound: DeviceConfig{Device: "eth1", Label: "Outbound", Netem: *netem.ZeroParams()},
	}
}

// Direction returns the DeviceConfig of dir. the single direction is kept in the inbound entry.
func (c *ShaperConfig) Direction(dir netem.Direction) *DeviceConfig {
	if dir == netem.Outbound {
		return &c.Outbound
	}
	return &c.Inbound
}

// Load reads the config at path. a missing file yields the default config.
// JSON is accepted as it is a subset of YAML.
func Load(path string) (*ShaperConfig, error) {
	cfg := Default()

	exists, err := utils.PathExists(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat config %s", path)
	}
	if !exists {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	return cfg, nil
}

// Save persists the config at path, as JSON if path has a .json extension, as YAML otherwise
func (c *ShaperConfig) Save(path string) error {
	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.Wrap(err, "failed to serialize config")
	}
	return errors.Wrapf(utils.WriteFileAtomic(path, data, 0o644), "failed to write config %s", path)
}
