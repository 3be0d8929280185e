package types

import (
	"strconv"
)

// NetemAttrs holds netem qdisc options. A zero value means the option is not set.
type NetemAttrs struct {
	// Latency in microseconds
	Latency uint32
	// Jitter in microseconds
	Jitter uint32
	// percentages below are in the range [0, 100]
	DelayCorr    float64
	Distribution string

	ReorderPct  float64
	ReorderCorr float64
	Gap         uint32

	CorruptPct    float64
	CorruptCorr   float64
	DuplicatePct  float64
	DuplicateCorr float64
	LossPct       float64
	LossCorr      float64

	// Rate in bit/s
	Rate           uint64
	PacketOverhead int32
	CellSize       uint32
	CellOverhead   int32

	Limit uint32
}

// IsEmpty returns true if no impairment is set
func (na *NetemAttrs) IsEmpty() bool {
	return na.Latency == 0 && na.ReorderPct == 0 && na.CorruptPct == 0 &&
		na.DuplicatePct == 0 && na.LossPct == 0 && na.Rate == 0
}

// GenCmdLineArgs returns the netem options as tc command line args. An option which depends
// on another one is emitted only if the one it depends on is set.
func (na *NetemAttrs) GenCmdLineArgs() []string {
	var args []string

	if na.Limit != 0 {
		args = append(args, "limit", strconv.FormatUint(uint64(na.Limit), 10))
	}

	if na.Latency != 0 {
		args = append(args, "delay", fmtTime(na.Latency))
		if na.Jitter != 0 {
			args = append(args, fmtTime(na.Jitter))
			if na.DelayCorr != 0 {
				args = append(args, fmtPercent(na.DelayCorr))
			}
			if na.Distribution != "" {
				args = append(args, "distribution", na.Distribution)
			}
		}

		// reorder requires delay
		if na.ReorderPct != 0 {
			args = append(args, "reorder", fmtPercent(na.ReorderPct))
			if na.ReorderCorr != 0 {
				args = append(args, fmtPercent(na.ReorderCorr))
			}
			if na.Gap != 0 {
				args = append(args, "gap", strconv.FormatUint(uint64(na.Gap), 10))
			}
		}
	}

	args = appendPercentArgs(args, "corrupt", na.CorruptPct, na.CorruptCorr)
	args = appendPercentArgs(args, "duplicate", na.DuplicatePct, na.DuplicateCorr)
	args = appendPercentArgs(args, "loss", na.LossPct, na.LossCorr)

	if na.Rate != 0 {
		args = append(args, "rate", fmtRate(na.Rate))
		if na.PacketOverhead != 0 {
			args = append(args, strconv.FormatInt(int64(na.PacketOverhead), 10))
			if na.CellSize != 0 {
				args = append(args, strconv.FormatUint(uint64(na.CellSize), 10))
				if na.CellOverhead != 0 {
					args = append(args, strconv.FormatInt(int64(na.CellOverhead), 10))
				}
			}
		}
	}
	return args
}

func appendPercentArgs(args []string, name string, pct, corr float64) []string {
	if pct == 0 {
		return args
	}
	args = append(args, name, fmtPercent(pct))
	if corr != 0 {
		args = append(args, fmtPercent(corr))
	}
	return args
}

// NetemQDisc is a netem qdisc
type NetemQDisc struct {
	QDiscAttrs
	NetemAttrs
}

// Attrs implements QDisc interface
func (n *NetemQDisc) Attrs() *QDiscAttrs {
	return &n.QDiscAttrs
}

// Type implements QDisc interface
func (n *NetemQDisc) Type() QDiscType {
	return QDiscNetemType
}

// Equals implements QDisc interface. Handle is not compared as it is allocated by the kernel,
// Limit is compared only if set on both.
func (n *NetemQDisc) Equals(other QDisc) bool {
	otherNetem, ok := other.(*NetemQDisc)
	if !ok {
		return false
	}
	if !sameParent(&n.QDiscAttrs, &otherNetem.QDiscAttrs) {
		return false
	}

	first := n.NetemAttrs
	second := otherNetem.NetemAttrs
	if first.Limit == 0 || second.Limit == 0 {
		first.Limit = 0
		second.Limit = 0
	}
	return first == second
}

// GenCmdLineArgs implements CmdLineGenerator interface
func (n *NetemQDisc) GenCmdLineArgs() []string {
	args := n.QDiscAttrs.GenCmdLineArgs()
	args = append(args, string(QDiscNetemType))
	return append(args, n.NetemAttrs.GenCmdLineArgs()...)
}

// NewNetemQDisc creates a new NetemQDisc object
func NewNetemQDisc(qDiscAttrs *QDiscAttrs, netemAttrs *NetemAttrs) *NetemQDisc {
	return &NetemQDisc{
		QDiscAttrs: *qDiscAttrs,
		NetemAttrs: *netemAttrs,
	}
}

// NewNetemQDiscBuilder returns a new NetemQDiscBuilder
func NewNetemQDiscBuilder() *NetemQDiscBuilder {
	return &NetemQDiscBuilder{qDiscAttrsBuilder: NewQDiscAttrsBuilder()}
}

// NetemQDiscBuilder is a NetemQDisc builder
type NetemQDiscBuilder struct {
	qDiscAttrsBuilder *QDiscAttrsBuilder
	netemAttrs        NetemAttrs
}

// WithParent adds Parent to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithParent(p uint32) *NetemQDiscBuilder {
	nb.qDiscAttrsBuilder.WithParent(p)
	return nb
}

// WithHandle adds Handle to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithHandle(h uint32) *NetemQDiscBuilder {
	nb.qDiscAttrsBuilder.WithHandle(h)
	return nb
}

// WithDelay adds latency and jitter (microseconds) and delay correlation to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithDelay(latency, jitter uint32, corr float64) *NetemQDiscBuilder {
	nb.netemAttrs.Latency = latency
	nb.netemAttrs.Jitter = jitter
	nb.netemAttrs.DelayCorr = corr
	return nb
}

// WithDistribution adds delay distribution to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithDistribution(dist string) *NetemQDiscBuilder {
	nb.netemAttrs.Distribution = dist
	return nb
}

// WithReorder adds reorder to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithReorder(pct, corr float64, gap uint32) *NetemQDiscBuilder {
	nb.netemAttrs.ReorderPct = pct
	nb.netemAttrs.ReorderCorr = corr
	nb.netemAttrs.Gap = gap
	return nb
}

// WithCorrupt adds corrupt to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithCorrupt(pct, corr float64) *NetemQDiscBuilder {
	nb.netemAttrs.CorruptPct = pct
	nb.netemAttrs.CorruptCorr = corr
	return nb
}

// WithDuplicate adds duplicate to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithDuplicate(pct, corr float64) *NetemQDiscBuilder {
	nb.netemAttrs.DuplicatePct = pct
	nb.netemAttrs.DuplicateCorr = corr
	return nb
}

// WithLoss adds loss to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithLoss(pct, corr float64) *NetemQDiscBuilder {
	nb.netemAttrs.LossPct = pct
	nb.netemAttrs.LossCorr = corr
	return nb
}

// WithRate adds rate (bit/s) and its overheads to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithRate(rate uint64, packetOverhead int32, cellSize uint32, cellOverhead int32) *NetemQDiscBuilder {
	nb.netemAttrs.Rate = rate
	nb.netemAttrs.PacketOverhead = packetOverhead
	nb.netemAttrs.CellSize = cellSize
	nb.netemAttrs.CellOverhead = cellOverhead
	return nb
}

// WithLimit adds queue limit (packets) to NetemQDiscBuilder
func (nb *NetemQDiscBuilder) WithLimit(limit uint32) *NetemQDiscBuilder {
	nb.netemAttrs.Limit = limit
	return nb
}

// Build builds and returns a new NetemQDisc instance
// Note: calling Build() multiple times will not return a completely
// new object on each call. that is, pointer/slice/map types will not be deep copied.
// to create several objects, different builders should be used.
func (nb *NetemQDiscBuilder) Build() *NetemQDisc {
	attrs := nb.qDiscAttrsBuilder.Build()
	return NewNetemQDisc(attrs, &nb.netemAttrs)
}
