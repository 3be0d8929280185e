package netem

// directionState is the per direction state held by Model
type directionState struct {
	settings Settings
	device   string
}

// Model holds the netem settings and selected device of one or two directions.
// It is a plain value object: no locking, no I/O. Enablement is recomputed on every query.
type Model struct {
	directions []Direction
	states     map[Direction]*directionState
	allowNoIP  bool
}

// NewModel creates a Model with an Inbound and an Outbound direction
func NewModel() *Model {
	return newModel(Inbound, Outbound)
}

// NewSingleModel creates a Model with the Single implicit direction only
func NewSingleModel() *Model {
	return newModel(Single)
}

func newModel(dirs ...Direction) *Model {
	m := &Model{
		directions: dirs,
		states:     make(map[Direction]*directionState, len(dirs)),
	}
	for _, d := range dirs {
		m.states[d] = &directionState{}
	}
	return m
}

// IsSingle returns true if m has the Single direction only
func (m *Model) IsSingle() bool {
	return len(m.directions) == 1 && m.directions[0] == Single
}

// Directions returns the directions of m in order
func (m *Model) Directions() []Direction {
	return append([]Direction(nil), m.directions...)
}

func (m *Model) state(dir Direction) (*directionState, error) {
	st, ok := m.states[dir]
	if !ok {
		return nil, unknownField(dir, "", "unknown direction")
	}
	return st, nil
}

// SetField sets the value of a dotted field path, "*.enabled" paths take 0 or 1.
// Dependent fields and sections are left untouched.
func (m *Model) SetField(dir Direction, path string, value float64) error {
	st, err := m.state(dir)
	if err != nil {
		return err
	}
	spec, ok := fieldSpecs[path]
	if !ok {
		return unknownField(dir, path, "no such field")
	}
	if reason := spec.check(value); reason != "" {
		return outOfRange(dir, path, reason)
	}
	spec.set(&st.settings, value)
	return nil
}

// Field returns the value of a dotted field path
func (m *Model) Field(dir Direction, path string) (float64, error) {
	st, err := m.state(dir)
	if err != nil {
		return 0, err
	}
	spec, ok := fieldSpecs[path]
	if !ok {
		return 0, unknownField(dir, path, "no such field")
	}
	return spec.get(&st.settings), nil
}

// IsEnabled returns whether path is currently editable in dir. Unknown directions and paths are never enabled.
func (m *Model) IsEnabled(dir Direction, path string) bool {
	st, ok := m.states[dir]
	if !ok {
		return false
	}
	return st.settings.IsEnabled(path)
}

// SetSectionToggle sets the user toggle of section
func (m *Model) SetSectionToggle(dir Direction, section Section, on bool) error {
	st, err := m.state(dir)
	if err != nil {
		return err
	}
	t := st.settings.toggle(section)
	if t == nil {
		return unknownField(dir, string(section), "no such section")
	}
	*t = on
	return nil
}

// SectionToggle returns the user toggle of section
func (m *Model) SectionToggle(dir Direction, section Section) bool {
	st, ok := m.states[dir]
	if !ok {
		return false
	}
	t := st.settings.toggle(section)
	return t != nil && *t
}

// SetDistribution sets the delay distribution, DistributionNone clears it
func (m *Model) SetDistribution(dir Direction, dist Distribution) error {
	st, err := m.state(dir)
	if err != nil {
		return err
	}
	if !dist.IsValid() {
		return outOfRange(dir, "delay.distribution", "unknown distribution "+string(dist))
	}
	st.settings.Delay.Distribution = dist
	return nil
}

// SelectDevice records the device of dir. An empty name clears the selection, which is
// reported by ToApplyPayload.
func (m *Model) SelectDevice(dir Direction, name string) error {
	st, err := m.state(dir)
	if err != nil {
		return err
	}
	st.device = name
	return nil
}

// Device returns the selected device of dir
func (m *Model) Device(dir Direction) string {
	st, ok := m.states[dir]
	if !ok {
		return ""
	}
	return st.device
}

// Settings returns a copy of the settings of dir
func (m *Model) Settings(dir Direction) (Settings, error) {
	st, err := m.state(dir)
	if err != nil {
		return Settings{}, err
	}
	return st.settings, nil
}

// SetAllowNoIP sets the allow_no_ip flag sent with the apply payload
func (m *Model) SetAllowNoIP(allow bool) {
	m.allowNoIP = allow
}

// AllowNoIP returns the allow_no_ip flag
func (m *Model) AllowNoIP() bool {
	return m.allowNoIP
}

// ToApplyPayload builds the apply body from the current state. Every direction must have
// a device selected; only fields of toggled-on sections are included.
func (m *Model) ToApplyPayload() (*ApplyPayload, error) {
	for _, d := range m.directions {
		if m.states[d].device == "" {
			return nil, &ValidationError{Kind: NoDeviceSelected, Direction: d}
		}
	}

	p := &ApplyPayload{AllowNoIP: m.allowNoIP}
	for _, d := range m.directions {
		st := m.states[d]
		params := settingsToParams(&st.settings)
		switch d {
		case Inbound:
			p.Inbound = &ApplyDirection{Device: st.device, Netem: params}
		case Outbound:
			p.Outbound = &ApplyDirection{Device: st.device, Netem: params}
		case Single:
			p.Device = st.device
			p.Netem = &params
		}
	}
	return p, nil
}

// ApplyRefreshResponse replaces the settings and device of every direction from a refresh body.
// The whole payload is validated first, on error the model is left unchanged.
func (m *Model) ApplyRefreshResponse(p *RefreshPayload) error {
	if p == nil {
		return malformed(Single, "", "empty payload")
	}

	next := make(map[Direction]*directionState, len(m.directions))
	for _, d := range m.directions {
		body := p.Direction(d)
		if body == nil {
			return malformed(d, "", "missing direction")
		}
		if body.Device == nil {
			return malformed(d, "device", "missing key")
		}
		if body.Netem == nil {
			return malformed(d, "netem", "missing key")
		}
		s, err := paramsToSettings(d, body.Netem)
		if err != nil {
			return err
		}
		next[d] = &directionState{settings: s, device: *body.Device}
	}

	m.states = next
	if p.AllowNoIP != nil {
		m.allowNoIP = *p.AllowNoIP
	}
	return nil
}
