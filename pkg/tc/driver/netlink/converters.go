package netlink

import (
	"math"

	"github.com/vishvananda/netlink"
	klog "k8s.io/klog/v2"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
)

/*
Helpers (for converters below)
*/

// u32ValFromPtr returns defaultVal if p is nil, else returns the value of p
func u32ValFromPtr(p *uint32, defaultVal uint32) uint32 {
	var v = defaultVal

	if p != nil {
		v = *p
	}
	return v
}

// ticksToUsec converts kernel packet scheduler ticks to microseconds
func ticksToUsec(ticks uint32) uint32 {
	if ticks == 0 {
		return 0
	}
	return uint32(math.Round(float64(ticks) / netlink.TickInUsec()))
}

// u32ToPercent converts a netlink probability to a percentage with two decimals
func u32ToPercent(p uint32) float64 {
	if p == 0 {
		return 0
	}
	return math.Round(float64(p)/math.MaxUint32*100*100) / 100
}

/*
Converters
*/

// netemToNlNetem converts NetemQDisc to netlink Netem
func netemToNlNetem(q *types.NetemQDisc, linkIdx int, log klog.Logger) *netlink.Netem {
	if q.Distribution != "" || q.PacketOverhead != 0 || q.CellSize != 0 || q.CellOverhead != 0 {
		log.V(2).Info("netlink driver ignores delay distribution and rate overheads",
			"distribution", q.Distribution, "packetOverhead", q.PacketOverhead,
			"cellSize", q.CellSize, "cellOverhead", q.CellOverhead)
	}

	return netlink.NewNetem(
		netlink.QdiscAttrs{
			LinkIndex: linkIdx,
			Handle:    u32ValFromPtr(q.Handle, 0),
			Parent:    u32ValFromPtr(q.Parent, netlink.HANDLE_ROOT),
		},
		netlink.NetemQdiscAttrs{
			Latency:       q.Latency,
			Jitter:        q.Jitter,
			DelayCorr:     float32(q.DelayCorr),
			Limit:         q.Limit,
			Loss:          float32(q.LossPct),
			LossCorr:      float32(q.LossCorr),
			Gap:           q.Gap,
			Duplicate:     float32(q.DuplicatePct),
			DuplicateCorr: float32(q.DuplicateCorr),
			ReorderProb:   float32(q.ReorderPct),
			ReorderCorr:   float32(q.ReorderCorr),
			CorruptProb:   float32(q.CorruptPct),
			CorruptCorr:   float32(q.CorruptCorr),
			// netlink rate is in bytes per second
			Rate64: q.Rate / 8,
		})
}

// nlNetemToNetem converts netlink Netem to NetemQDisc
func nlNetemToNetem(nq *netlink.Netem) *types.NetemQDisc {
	return types.NewNetemQDiscBuilder().
		WithParent(nq.Parent).
		WithHandle(nq.Handle).
		WithDelay(ticksToUsec(nq.Latency), ticksToUsec(nq.Jitter), u32ToPercent(nq.DelayCorr)).
		WithReorder(u32ToPercent(nq.ReorderProb), u32ToPercent(nq.ReorderCorr), nq.Gap).
		WithCorrupt(u32ToPercent(nq.CorruptProb), u32ToPercent(nq.CorruptCorr)).
		WithDuplicate(u32ToPercent(nq.Duplicate), u32ToPercent(nq.DuplicateCorr)).
		WithLoss(u32ToPercent(nq.Loss), u32ToPercent(nq.LossCorr)).
		WithRate(nq.Rate64*8, 0, 0, 0).
		WithLimit(nq.Limit).
		Build()
}

// qdiscToNlGenericQdisc converts QDisc to netlink GenericQdisc
func qdiscToNlGenericQdisc(qd types.QDisc, linkIdx int) *netlink.GenericQdisc {
	return &netlink.GenericQdisc{
		QdiscAttrs: netlink.QdiscAttrs{
			LinkIndex: linkIdx,
			Handle:    u32ValFromPtr(qd.Attrs().Handle, 0),
			Parent:    u32ValFromPtr(qd.Attrs().Parent, netlink.HANDLE_ROOT),
		},
		QdiscType: string(qd.Type()),
	}
}

// nlQdiscToGenericQdisc converts netlink Qdisc to GenericQDisc
func nlQdiscToGenericQdisc(qd netlink.Qdisc) *types.GenericQDisc {
	return types.NewGenericQdisc(
		types.NewQDiscAttrsBuilder().
			WithParent(qd.Attrs().Parent).
			WithHandle(qd.Attrs().Handle).Build(),
		types.QDiscType(qd.Type()))
}
