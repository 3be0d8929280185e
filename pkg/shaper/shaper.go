package shaper

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
	"k8s.io/klog/v2"
	"k8s.io/utils/exec"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/config"
	multinet "github.com/k8snetworkplumbingwg/network-shaper/pkg/net"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc"
	cmdlinedriver "github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/driver/cmdline"
	netlinkdriver "github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/driver/netlink"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/generator"
	tctypes "github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/utils"
)

// Service is the shaper backend
type Service interface {
	// Refresh reads the netem settings currently programmed on the devices
	Refresh(ctx context.Context) (*netem.RefreshPayload, error)
	// Apply programs the netem settings of every direction of p and persists them
	Apply(ctx context.Context, p *netem.ApplyPayload) error
	// Remove deletes netem from every device and returns the resulting settings
	Remove(ctx context.Context) (*netem.RefreshPayload, error)
	// Devices lists the devices of the host
	Devices(ctx context.Context) (*netem.DevicesPayload, error)
	// Restore programs the persisted netem settings
	Restore(ctx context.Context) error
}

// TCFactory creates a TC for a device
type TCFactory func(device string) (tc.TC, error)

// NewServiceImpl creates a new ServiceImpl
func NewServiceImpl(opts *Options, cfg *config.ShaperConfig, netlinkProvider multinet.NetlinkProvider) *ServiceImpl {
	s := &ServiceImpl{
		opts:            *opts,
		cfg:             cfg,
		generator:       generator.NewSimpleTCGenerator(),
		netlinkProvider: netlinkProvider,
		log:             klog.NewKlogr().WithName("shaper"),
	}
	s.createTCFn = s.createTC
	return s
}

// ServiceImpl implements Service over tc drivers
type ServiceImpl struct {
	mu sync.Mutex // serializes requests, protects cfg

	opts            Options
	cfg             *config.ShaperConfig
	generator       generator.Generator
	netlinkProvider multinet.NetlinkProvider
	createTCFn      TCFactory
	log             klog.Logger
}

// WithTCFactory overrides the way TC instances are created
func (s *ServiceImpl) WithTCFactory(f TCFactory) *ServiceImpl {
	s.createTCFn = f
	return s
}

// WithGenerator overrides the generator of tc objects
func (s *ServiceImpl) WithGenerator(g generator.Generator) *ServiceImpl {
	s.generator = g
	return s
}

// Config returns a copy of the current config
func (s *ServiceImpl) Config() config.ShaperConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.cfg
}

func (s *ServiceImpl) directions() []netem.Direction {
	if s.opts.Single {
		return []netem.Direction{netem.Single}
	}
	return []netem.Direction{netem.Inbound, netem.Outbound}
}

// Refresh implements Service interface
func (s *ServiceImpl) Refresh(ctx context.Context) (*netem.RefreshPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refresh(), nil
}

// refresh stores the live netem of every device in the config and returns the refresh payload.
// the persisted settings are reported for a device which cannot be read.
func (s *ServiceImpl) refresh() *netem.RefreshPayload {
	allowNoIP := s.cfg.AllowNoIP
	p := &netem.RefreshPayload{
		Host:      s.cfg.Host,
		Port:      s.cfg.Port,
		AllowNoIP: &allowNoIP,
	}

	for _, dir := range s.directions() {
		dc := s.cfg.Direction(dir)
		params, err := s.readNetem(dc.Device)
		if err != nil {
			s.log.Error(err, "failed to read current netem, reporting persisted settings",
				"direction", dir.String(), "device", dc.Device)
			params = s.normalize(&dc.Netem)
		}
		dc.Netem = *params

		device := dc.Device
		current := dc.Netem
		p.SetDirection(dir, &netem.RefreshDirection{Device: &device, Label: dc.Label, Netem: &current})
	}
	return p
}

func (s *ServiceImpl) readNetem(device string) (*netem.NetemParams, error) {
	tcAPI, err := s.createTCFn(device)
	if err != nil {
		return nil, err
	}
	qdiscs, err := tcAPI.QDiscList()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list qdiscs of %s", device)
	}
	return generator.ParamsFromQDisc(tctypes.FindRootNetem(qdiscs)), nil
}

// Apply implements Service interface
func (s *ServiceImpl) Apply(ctx context.Context, p *netem.ApplyPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil {
		return badRequest("Failed to parse request: empty body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bodies := make(map[netem.Direction]*netem.ApplyDirection)
	for _, dir := range s.directions() {
		body := p.Direction(dir)
		if body == nil {
			return badRequest("Failed to parse request: missing %s settings", dir)
		}
		if body.Device == "" {
			return badRequest("%s", &netem.ValidationError{Kind: netem.NoDeviceSelected, Direction: dir})
		}
		bodies[dir] = body
	}

	if !s.opts.Single && bodies[netem.Inbound].Device == bodies[netem.Outbound].Device {
		return badRequest("Inbound and outbound devices must not be the same")
	}

	for _, dir := range s.directions() {
		if err := s.checkLink(bodies[dir].Device); err != nil {
			return badRequest("Invalid %s network interface name %s: %v", dir, bodies[dir].Device, err)
		}
	}

	newCfg := *s.cfg
	newCfg.AllowNoIP = p.AllowNoIP
	for _, dir := range s.directions() {
		body := bodies[dir]
		params, err := s.apply(body.Device, &body.Netem)
		if err != nil {
			return badRequest("Failed to apply %s settings: %v", dir, err)
		}

		dc := newCfg.Direction(dir)
		dc.Device = body.Device
		if body.Label != "" {
			dc.Label = body.Label
		}
		dc.Netem = *params
	}

	s.log.V(2).Info("config changed", "diff", cmp.Diff(s.cfg, &newCfg))
	s.cfg = &newCfg
	s.save()
	s.log.Info("Settings applied successfully")
	return nil
}

// apply generates and actuates netem for device, returns the settings as reported by refresh
func (s *ServiceImpl) apply(device string, params *netem.NetemParams) (*netem.NetemParams, error) {
	objs, err := s.generator.GenerateFromParams(params)
	if err != nil {
		return nil, err
	}
	s.log.V(5).Info("generated tc objects", "device", device, "objects", objs)

	if err = s.actuate(device, objs); err != nil {
		return nil, err
	}

	netemQdisc, _ := objs.QDisc.(*tctypes.NetemQDisc)
	return generator.ParamsFromQDisc(netemQdisc), nil
}

func (s *ServiceImpl) actuate(device string, objs *generator.Objects) error {
	tcAPI, err := s.createTCFn(device)
	if err != nil {
		return err
	}
	if err = tc.NewActuatorTCImpl(tcAPI, klog.NewKlogr().WithName("tc-actuator")).Actuate(objs); err != nil {
		return err
	}

	// optionally save rules to file
	if err = s.saveDeviceRules(device, objs); err != nil {
		s.log.Error(err, "failed to save device rules", "device", device)
	}
	return nil
}

// saveDeviceRules saves device tc objects to file if RulesPath option is set
func (s *ServiceImpl) saveDeviceRules(device string, objs *generator.Objects) error {
	if s.opts.RulesPath == "" {
		return nil
	}

	fullPath := filepath.Join(s.opts.RulesPath, fmt.Sprintf("%s.rules", device))
	s.log.V(4).Info("saving device rules", "path", fullPath)
	fileActuator := tc.NewActuatorFileWriterImpl(device, fullPath, klog.NewKlogr().WithName("actuator-file-writer"))
	return fileActuator.Actuate(objs)
}

func (s *ServiceImpl) save() {
	if s.opts.ConfigPath == "" {
		return
	}
	if err := s.cfg.Save(s.opts.ConfigPath); err != nil {
		s.log.Error(err, "failed to save config", "path", s.opts.ConfigPath)
	}
}

// Remove implements Service interface
func (s *ServiceImpl) Remove(ctx context.Context) (*netem.RefreshPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("Removing netem configuration")
	for _, dir := range s.directions() {
		dc := s.cfg.Direction(dir)
		if err := s.actuate(dc.Device, &generator.Objects{}); err != nil {
			s.log.Error(err, "failed to remove netem", "direction", dir.String(), "device", dc.Device)
			continue
		}
		dc.Netem = *netem.ZeroParams()
	}
	s.save()

	return s.refresh(), nil
}

// Devices implements Service interface
func (s *ServiceImpl) Devices(ctx context.Context) (*netem.DevicesPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &netem.DevicesPayload{
		AllowNoIP:     s.cfg.AllowNoIP,
		InboundLabel:  s.cfg.Inbound.Label,
		OutboundLabel: s.cfg.Outbound.Label,
		AllDevices:    []netem.NIC{},
	}

	err := tc.RunInNetNS(s.opts.NetNS, func() error {
		links, err := s.netlinkProvider.LinkList()
		if err != nil {
			return errors.Wrap(err, "failed to list links")
		}

		for _, link := range links {
			name := link.Attrs().Name
			addrs, err := s.netlinkProvider.AddrList(link, unix.AF_INET)
			if err != nil {
				s.log.Error(err, "failed to list addresses", "device", name)
			}
			ip := utils.FirstIPv4(addrsToIPs(addrs))

			switch {
			case ip != "":
				p.AllDevices = append(p.AllDevices, netem.NIC{Name: name, IP: ip, Label: fmt.Sprintf("%s: %s", name, ip)})
			case s.cfg.AllowNoIP:
				p.AllDevices = append(p.AllDevices, netem.NIC{Name: name, Label: name})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Restore implements Service interface
func (s *ServiceImpl) Restore(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opts.Single && s.cfg.Inbound.Device == s.cfg.Outbound.Device {
		return errors.New("you must specify different devices for inbound and outbound traffic")
	}

	for _, dir := range s.directions() {
		dc := s.cfg.Direction(dir)
		if err := s.checkLink(dc.Device); err != nil {
			return errors.Wrapf(err, "invalid %s network interface name: %s", dir, dc.Device)
		}
		s.log.Info("restoring shaping", "direction", dir.String(), "device", dc.Device)
		if _, err := s.apply(dc.Device, &dc.Netem); err != nil {
			return errors.Wrapf(err, "failed to restore %s settings", dir)
		}
	}
	return nil
}

func (s *ServiceImpl) checkLink(device string) error {
	return tc.RunInNetNS(s.opts.NetNS, func() error {
		_, err := s.netlinkProvider.LinkByName(device)
		return err
	})
}

// createTC creates a new tc.TC given tc Driver type and device
func (s *ServiceImpl) createTC(device string) (tc.TC, error) {
	var tcAPI tc.TC

	switch s.opts.TCDriver {
	case TCDriverNetlink:
		tcAPI = netlinkdriver.NewTcNetlinkImpl(
			device, klog.NewKlogr().WithName("tc-netlink-driver"), s.netlinkProvider)
	case TCDriverCmdline:
		tcAPI = cmdlinedriver.NewTcCmdLineImpl(
			device, klog.NewKlogr().WithName("tc-cmdline-driver"), exec.New())
	default:
		return nil, errors.Errorf("unknown TC driver: %s", s.opts.TCDriver)
	}

	if s.opts.NetNS != "" {
		tcAPI = tc.NewNetNSTC(tcAPI, s.opts.NetNS)
	}
	return tcAPI, nil
}

func addrsToIPs(addrs []netlink.Addr) []net.IP {
	ips := make([]net.IP, 0, len(addrs))
	for i := range addrs {
		if addrs[i].IPNet != nil {
			ips = append(ips, addrs[i].IP)
		}
	}
	return ips
}

// normalize converts params to the fully populated ms/kbit form reported by refresh
func (s *ServiceImpl) normalize(params *netem.NetemParams) *netem.NetemParams {
	objs, err := s.generator.GenerateFromParams(params)
	if err != nil {
		s.log.Error(err, "failed to normalize netem settings")
		return netem.ZeroParams()
	}
	netemQdisc, _ := objs.QDisc.(*tctypes.NetemQDisc)
	return generator.ParamsFromQDisc(netemQdisc)
}
