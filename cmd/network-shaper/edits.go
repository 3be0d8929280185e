package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
)

// edits are the changes requested on the command line, applied to a model pulled from the backend.
// Targets are prefixed with the direction ("inbound.", "inbound=") unless the model is single.
type edits struct {
	Devices       []string
	Enable        []string
	Disable       []string
	Set           []string
	Distributions []string
	AllowNoIP     bool

	allowNoIPChanged bool
}

// AddFlags adds command line flags into command
func (e *edits) AddFlags(fs *pflag.FlagSet) {
	fs.StringArrayVar(&e.Devices, "device", nil, "Device of a direction, as inbound=eth0 (or eth0 with --single-device).")
	fs.StringArrayVar(&e.Enable, "enable", nil, "Turn a section on, as inbound.delay (or delay with --single-device).")
	fs.StringArrayVar(&e.Disable, "disable", nil, "Turn a section off, as outbound.loss (or loss with --single-device).")
	fs.StringArrayVar(&e.Set, "set", nil, "Set a field, as inbound.delay.time=100 (or delay.time=100 with --single-device).")
	fs.StringArrayVar(&e.Distributions, "distribution", nil,
		"Delay distribution of a direction, one of uniform, normal, pareto, paretonormal, or empty to clear.")
	fs.BoolVar(&e.AllowNoIP, "allow-no-ip", e.AllowNoIP, "List devices without an IPv4 address on the backend.")
}

// apply applies e to m in order: devices, toggles, fields, distributions. m may be partially
// modified on error.
func (e *edits) apply(m *netem.Model) error {
	single := m.IsSingle()

	for _, arg := range e.Devices {
		dir, name, err := splitAssignment(single, arg)
		if err != nil {
			return errors.Wrap(err, "invalid --device")
		}
		if err = m.SelectDevice(dir, name); err != nil {
			return err
		}
	}

	for _, toggle := range []struct {
		args []string
		on   bool
	}{{e.Enable, true}, {e.Disable, false}} {
		for _, arg := range toggle.args {
			dir, section, err := splitPath(single, arg)
			if err != nil {
				return errors.Wrap(err, "invalid section")
			}
			if err = m.SetSectionToggle(dir, netem.Section(section), toggle.on); err != nil {
				return err
			}
		}
	}

	for _, arg := range e.Set {
		target, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return errors.Errorf("invalid --set %q: expected path=value", arg)
		}
		dir, path, err := splitPath(single, target)
		if err != nil {
			return errors.Wrap(err, "invalid --set")
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return errors.Errorf("invalid --set %q: %q is not a number", arg, raw)
		}
		if err = m.SetField(dir, path, value); err != nil {
			return err
		}
	}

	for _, arg := range e.Distributions {
		dir, name, err := splitAssignment(single, arg)
		if err != nil {
			return errors.Wrap(err, "invalid --distribution")
		}
		if err = m.SetDistribution(dir, netem.Distribution(name)); err != nil {
			return err
		}
	}

	if e.allowNoIPChanged {
		m.SetAllowNoIP(e.AllowNoIP)
	}
	return nil
}

// parseDirection maps a direction name to a Direction
func parseDirection(name string) (netem.Direction, error) {
	switch d := netem.Direction(strings.ToLower(name)); d {
	case netem.Inbound, netem.Outbound:
		return d, nil
	}
	return netem.Single, errors.Errorf("unknown direction %q, expected inbound or outbound", name)
}

// splitPath splits "inbound.delay.time" into its direction and "delay.time"
func splitPath(single bool, arg string) (netem.Direction, string, error) {
	if single {
		return netem.Single, arg, nil
	}
	head, rest, ok := strings.Cut(arg, ".")
	if !ok || rest == "" {
		return netem.Single, "", errors.Errorf("%q has no direction prefix", arg)
	}
	dir, err := parseDirection(head)
	return dir, rest, err
}

// splitAssignment splits "inbound=eth0" into its direction and "eth0"
func splitAssignment(single bool, arg string) (netem.Direction, string, error) {
	if single {
		return netem.Single, arg, nil
	}
	head, rest, ok := strings.Cut(arg, "=")
	if !ok {
		return netem.Single, "", errors.Errorf("%q has no direction prefix", arg)
	}
	dir, err := parseDirection(head)
	return dir, rest, err
}
