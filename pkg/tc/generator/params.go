package generator

import (
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
	tctypes "github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
)

// ParamsFromQDisc converts a netem QDisc back to netem parameters carrying every key.
// Time is reported in ms and rate in kbit. A nil qdisc yields all zero parameters.
func ParamsFromQDisc(q *tctypes.NetemQDisc) *netem.NetemParams {
	if q == nil {
		return netem.ZeroParams()
	}

	return &netem.NetemParams{
		Delay:           netem.Float(usecToMs(q.Latency)),
		DelayUnit:       DefaultTimeUnit,
		DelayJitter:     netem.Float(usecToMs(q.Jitter)),
		DelayJitterUnit: DefaultTimeUnit,
		DelayCorr:       netem.Float(q.DelayCorr),
		Distribution:    q.Distribution,

		ReorderPct:  netem.Float(q.ReorderPct),
		ReorderCorr: netem.Float(q.ReorderCorr),
		ReorderGap:  netem.Int(int64(q.Gap)),

		Rate:             netem.Float(float64(q.Rate) / ValidRateUnits[DefaultRateUnit]),
		RateUnit:         DefaultRateUnit,
		RatePktOverhead:  netem.Int(int64(q.PacketOverhead)),
		RateCellSize:     netem.Int(int64(q.CellSize)),
		RateCellOverhead: netem.Int(int64(q.CellOverhead)),

		CorruptPct:  netem.Float(q.CorruptPct),
		CorruptCorr: netem.Float(q.CorruptCorr),
		DupePct:     netem.Float(q.DuplicatePct),
		DupeCorr:    netem.Float(q.DuplicateCorr),
		LossPct:     netem.Float(q.LossPct),
		LossCorr:    netem.Float(q.LossCorr),
	}
}

func usecToMs(usec uint32) float64 {
	return float64(usec) / ValidTimeUnits[DefaultTimeUnit]
}
