package netem

// Enablement of sub-fields is a pure function of sibling values. Nothing here is stored.

// JitterEnabled returns true if delay.jitter is editable
func (s *Settings) JitterEnabled() bool {
	return s.Delay.Time > 0
}

// DelayCorrelationEnabled returns true if delay.correlation is editable
func (s *Settings) DelayCorrelationEnabled() bool {
	return s.JitterEnabled() && s.Delay.Jitter > 0
}

// DistributionEnabled returns true if delay.distribution is meaningful
func (s *Settings) DistributionEnabled() bool {
	return s.DelayCorrelationEnabled()
}

// ReorderEnabled returns true if the reorder section may be used. netem reorders only delayed packets.
func (s *Settings) ReorderEnabled() bool {
	return s.JitterEnabled() && s.Delay.Jitter > 0
}

// ReorderDetailsEnabled returns true if reorder.correlation and reorder.gap are editable
func (s *Settings) ReorderDetailsEnabled() bool {
	return s.Reorder.Percent > 0
}

// PacketOverheadEnabled returns true if rate.packetOverhead is editable
func (s *Settings) PacketOverheadEnabled() bool {
	return s.Rate.Speed > 0
}

// CellSizeEnabled returns true if rate.cellSize is editable
func (s *Settings) CellSizeEnabled() bool {
	return s.PacketOverheadEnabled() && s.Rate.PacketOverhead != 0
}

// CellOverheadEnabled returns true if rate.cellOverhead is editable
func (s *Settings) CellOverheadEnabled() bool {
	return s.CellSizeEnabled() && s.Rate.CellSize > 0
}

// IsEnabled returns the enablement of a dotted field path or a section name. Primary fields and
// the sections other than reorder are always enabled, "reorder" and "reorder.enabled" answer the
// reorder section gate and unknown paths are never enabled.
// Section toggles are not taken into account.
func (s *Settings) IsEnabled(path string) bool {
	switch path {
	case "delay.time", "reorder.percent", "rate.speed",
		"corrupt.percent", "dupe.percent", "loss.percent":
		return true
	case "delay", "rate", "corrupt", "dupe", "loss",
		"delay.enabled", "rate.enabled", "corrupt.enabled", "dupe.enabled", "loss.enabled":
		return true
	case "delay.jitter":
		return s.JitterEnabled()
	case "delay.correlation":
		return s.DelayCorrelationEnabled()
	case "delay.distribution":
		return s.DistributionEnabled()
	case "reorder", "reorder.enabled":
		return s.ReorderEnabled()
	case "reorder.correlation", "reorder.gap":
		return s.ReorderDetailsEnabled()
	case "rate.packetOverhead":
		return s.PacketOverheadEnabled()
	case "rate.cellSize":
		return s.CellSizeEnabled()
	case "rate.cellOverhead":
		return s.CellOverheadEnabled()
	case "corrupt.correlation":
		return s.Corrupt.Percent > 0
	case "dupe.correlation":
		return s.Dupe.Percent > 0
	case "loss.correlation":
		return s.Loss.Percent > 0
	}
	return false
}
