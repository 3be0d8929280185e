package netem

import (
	"encoding/json"
)

const (
	// DefaultTimeUnit is the unit of delay and jitter values sent by the model
	DefaultTimeUnit = "ms"
	// DefaultRateUnit is the unit of rate values sent by the model
	DefaultRateUnit = "kbit"
)

// NetemParams is the netem object exchanged with the backend. Numeric fields are pointers so the
// sparse apply body and the full refresh body share one type.
type NetemParams struct {
	Delay           *float64 `json:"delay,omitempty" yaml:"delay,omitempty"`
	DelayUnit       string   `json:"delay_unit,omitempty" yaml:"delay_unit,omitempty"`
	DelayJitter     *float64 `json:"delay_jitter,omitempty" yaml:"delay_jitter,omitempty"`
	DelayJitterUnit string   `json:"delay_jitter_unit,omitempty" yaml:"delay_jitter_unit,omitempty"`
	DelayCorr       *float64 `json:"delay_corr,omitempty" yaml:"delay_corr,omitempty"`
	Distribution    string   `json:"distribution,omitempty" yaml:"distribution,omitempty"`

	ReorderPct  *float64 `json:"reorder_pct,omitempty" yaml:"reorder_pct,omitempty"`
	ReorderCorr *float64 `json:"reorder_corr,omitempty" yaml:"reorder_corr,omitempty"`
	ReorderGap  *int64   `json:"reorder_gap,omitempty" yaml:"reorder_gap,omitempty"`

	Rate             *float64 `json:"rate,omitempty" yaml:"rate,omitempty"`
	RateUnit         string   `json:"rate_unit,omitempty" yaml:"rate_unit,omitempty"`
	RatePktOverhead  *int64   `json:"rate_pkt_overhead,omitempty" yaml:"rate_pkt_overhead,omitempty"`
	RateCellSize     *int64   `json:"rate_cell_size,omitempty" yaml:"rate_cell_size,omitempty"`
	RateCellOverhead *int64   `json:"rate_cell_overhead,omitempty" yaml:"rate_cell_overhead,omitempty"`

	CorruptPct  *float64 `json:"corrupt_pct,omitempty" yaml:"corrupt_pct,omitempty"`
	CorruptCorr *float64 `json:"corrupt_corr,omitempty" yaml:"corrupt_corr,omitempty"`
	DupePct     *float64 `json:"dupe_pct,omitempty" yaml:"dupe_pct,omitempty"`
	DupeCorr    *float64 `json:"dupe_corr,omitempty" yaml:"dupe_corr,omitempty"`
	LossPct     *float64 `json:"loss_pct,omitempty" yaml:"loss_pct,omitempty"`
	LossCorr    *float64 `json:"loss_corr,omitempty" yaml:"loss_corr,omitempty"`
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v
func Int(v int64) *int64 {
	return &v
}

// FloatValue returns the value of p or 0 if p is nil
func FloatValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// IntValue returns the value of p or 0 if p is nil
func IntValue(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// wireField maps a numeric key of NetemParams to a field path of Settings
type wireField struct {
	key   string
	path  string
	float func(p *NetemParams) **float64
	int   func(p *NetemParams) **int64
}

func (w wireField) value(p *NetemParams) (float64, bool) {
	if w.int != nil {
		v := *w.int(p)
		if v == nil {
			return 0, false
		}
		return float64(*v), true
	}
	v := *w.float(p)
	if v == nil {
		return 0, false
	}
	return *v, true
}

func (w wireField) assign(p *NetemParams, v float64) {
	if w.int != nil {
		*w.int(p) = Int(int64(v))
		return
	}
	*w.float(p) = Float(v)
}

// wireFields lists the numeric netem keys in wire order
var wireFields = []wireField{
	{key: "delay", path: "delay.time", float: func(p *NetemParams) **float64 { return &p.Delay }},
	{key: "delay_jitter", path: "delay.jitter", float: func(p *NetemParams) **float64 { return &p.DelayJitter }},
	{key: "delay_corr", path: "delay.correlation", float: func(p *NetemParams) **float64 { return &p.DelayCorr }},
	{key: "reorder_pct", path: "reorder.percent", float: func(p *NetemParams) **float64 { return &p.ReorderPct }},
	{key: "reorder_corr", path: "reorder.correlation", float: func(p *NetemParams) **float64 { return &p.ReorderCorr }},
	{key: "reorder_gap", path: "reorder.gap", int: func(p *NetemParams) **int64 { return &p.ReorderGap }},
	{key: "rate", path: "rate.speed", float: func(p *NetemParams) **float64 { return &p.Rate }},
	{key: "rate_pkt_overhead", path: "rate.packetOverhead", int: func(p *NetemParams) **int64 { return &p.RatePktOverhead }},
	{key: "rate_cell_size", path: "rate.cellSize", int: func(p *NetemParams) **int64 { return &p.RateCellSize }},
	{key: "rate_cell_overhead", path: "rate.cellOverhead", int: func(p *NetemParams) **int64 { return &p.RateCellOverhead }},
	{key: "corrupt_pct", path: "corrupt.percent", float: func(p *NetemParams) **float64 { return &p.CorruptPct }},
	{key: "corrupt_corr", path: "corrupt.correlation", float: func(p *NetemParams) **float64 { return &p.CorruptCorr }},
	{key: "dupe_pct", path: "dupe.percent", float: func(p *NetemParams) **float64 { return &p.DupePct }},
	{key: "dupe_corr", path: "dupe.correlation", float: func(p *NetemParams) **float64 { return &p.DupeCorr }},
	{key: "loss_pct", path: "loss.percent", float: func(p *NetemParams) **float64 { return &p.LossPct }},
	{key: "loss_corr", path: "loss.correlation", float: func(p *NetemParams) **float64 { return &p.LossCorr }},
}

// ApplyDirection is the apply body of one direction
type ApplyDirection struct {
	Device string      `json:"device"`
	Label  string      `json:"label,omitempty"`
	Netem  NetemParams `json:"netem"`
}

// ApplyPayload is the body of POST /apply. The dual shape uses Inbound and Outbound,
// the single shape uses Device and Netem.
type ApplyPayload struct {
	AllowNoIP bool            `json:"allow_no_ip"`
	Inbound   *ApplyDirection `json:"inbound,omitempty"`
	Outbound  *ApplyDirection `json:"outbound,omitempty"`
	Device    string          `json:"device,omitempty"`
	Netem     *NetemParams    `json:"netem,omitempty"`
}

// IsSingle returns true if p uses the flat single-direction shape
func (p *ApplyPayload) IsSingle() bool {
	return p.Inbound == nil && p.Outbound == nil
}

// Direction returns the body of dir, nil if the payload does not carry it
func (p *ApplyPayload) Direction(dir Direction) *ApplyDirection {
	switch dir {
	case Inbound:
		return p.Inbound
	case Outbound:
		return p.Outbound
	case Single:
		if p.Netem == nil {
			return nil
		}
		return &ApplyDirection{Device: p.Device, Netem: *p.Netem}
	}
	return nil
}

// RefreshDirection is the refresh body of one direction
type RefreshDirection struct {
	Device *string      `json:"device"`
	Label  string       `json:"label,omitempty"`
	Netem  *NetemParams `json:"netem"`
}

// RefreshPayload is the body returned by /refresh and /remove
type RefreshPayload struct {
	Host      string            `json:"host,omitempty"`
	Port      int               `json:"port,omitempty"`
	AllowNoIP *bool             `json:"allow_no_ip,omitempty"`
	Inbound   *RefreshDirection `json:"inbound,omitempty"`
	Outbound  *RefreshDirection `json:"outbound,omitempty"`
	Device    *string           `json:"device,omitempty"`
	Label     string            `json:"label,omitempty"`
	Netem     *NetemParams      `json:"netem,omitempty"`
}

// Direction returns the body of dir, nil if the payload does not carry it
func (p *RefreshPayload) Direction(dir Direction) *RefreshDirection {
	switch dir {
	case Inbound:
		return p.Inbound
	case Outbound:
		return p.Outbound
	case Single:
		if p.Device == nil && p.Netem == nil {
			return nil
		}
		return &RefreshDirection{Device: p.Device, Label: p.Label, Netem: p.Netem}
	}
	return nil
}

// SetDirection stores body as the refresh body of dir
func (p *RefreshPayload) SetDirection(dir Direction, body *RefreshDirection) {
	switch dir {
	case Inbound:
		p.Inbound = body
	case Outbound:
		p.Outbound = body
	case Single:
		p.Device = body.Device
		p.Label = body.Label
		p.Netem = body.Netem
	}
}

// ParseRefreshPayload decodes a refresh body
func ParseRefreshPayload(data []byte) (*RefreshPayload, error) {
	p := &RefreshPayload{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, malformed(Single, "", err.Error())
	}
	return p, nil
}

// NIC is one entry of the /nics listing
type NIC struct {
	Name  string `json:"name"`
	IP    string `json:"ip"`
	Label string `json:"label"`
}

// DevicesPayload is the body returned by /nics
type DevicesPayload struct {
	AllowNoIP     bool   `json:"allow_no_ip"`
	InboundLabel  string `json:"inbound_label"`
	OutboundLabel string `json:"outbound_label"`
	AllDevices    []NIC  `json:"all_devices"`
}

// settingsToParams renders the toggled-on sections of s
func settingsToParams(s *Settings) NetemParams {
	p := NetemParams{
		DelayUnit:       DefaultTimeUnit,
		DelayJitterUnit: DefaultTimeUnit,
		RateUnit:        DefaultRateUnit,
	}
	for _, w := range wireFields {
		spec := fieldSpecs[w.path]
		if !*s.toggle(spec.section) {
			continue
		}
		w.assign(&p, spec.get(s))
	}
	if s.Delay.Enabled && s.Delay.Distribution != DistributionNone {
		p.Distribution = string(s.Delay.Distribution)
	}
	return p
}

// paramsToSettings validates a full netem object and converts it to Settings with derived toggles
func paramsToSettings(dir Direction, p *NetemParams) (Settings, error) {
	s := Settings{}
	for _, w := range wireFields {
		v, ok := w.value(p)
		if !ok {
			return Settings{}, malformed(dir, w.key, "missing netem key")
		}
		spec := fieldSpecs[w.path]
		if reason := spec.check(v); reason != "" {
			return Settings{}, malformed(dir, w.key, reason)
		}
		spec.set(&s, v)
	}

	dist := Distribution(p.Distribution)
	if !dist.IsValid() {
		return Settings{}, malformed(dir, "distribution", "unknown distribution "+p.Distribution)
	}
	s.Delay.Distribution = dist

	s.Delay.Enabled = s.Delay.Time > 0
	s.Reorder.Enabled = s.Reorder.Percent > 0
	s.Rate.Enabled = s.Rate.Speed > 0
	s.Corrupt.Enabled = s.Corrupt.Percent > 0
	s.Dupe.Enabled = s.Dupe.Percent > 0
	s.Loss.Enabled = s.Loss.Percent > 0
	return s, nil
}

// SettingsToParams converts s into a full netem object carrying every key, regardless of toggles
func SettingsToParams(s *Settings) *NetemParams {
	p := &NetemParams{
		DelayUnit:       DefaultTimeUnit,
		DelayJitterUnit: DefaultTimeUnit,
		RateUnit:        DefaultRateUnit,
		Distribution:    string(s.Delay.Distribution),
	}
	for _, w := range wireFields {
		w.assign(p, fieldSpecs[w.path].get(s))
	}
	return p
}

// ZeroParams returns a full netem object with every key set to zero
func ZeroParams() *NetemParams {
	return SettingsToParams(&Settings{})
}
