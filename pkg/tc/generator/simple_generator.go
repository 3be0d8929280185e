package generator

import (
	"math"

	"github.com/pkg/errors"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/netem"
	tctypes "github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
)

// NewSimpleTCGenerator creates a new SimpleTCGenerator instance
func NewSimpleTCGenerator() *SimpleTCGenerator {
	return &SimpleTCGenerator{}
}

// SimpleTCGenerator is a simple implementation for Generator interface
type SimpleTCGenerator struct{}

// GenerateFromParams implements Generator interface
// It renders a root netem QDisc for the provided parameters. Options that netem would ignore
// are dropped so the result compares equal to what the kernel reports back:
//  1. jitter, delay correlation, distribution and reorder require delay
//  2. delay correlation and distribution require jitter
//  3. correlations and reorder gap require their percentage
//  4. cell size requires packet overhead and cell overhead requires cell size
//
// QDisc is nil if no impairment is set.
func (s *SimpleTCGenerator) GenerateFromParams(params *netem.NetemParams) (*Objects, error) {
	tcObj := &Objects{QDisc: nil}
	if params == nil {
		return tcObj, nil
	}

	builder := tctypes.NewNetemQDiscBuilder().WithParent(tctypes.HandleRoot)

	latency, err := timeParam("delay", netem.FloatValue(params.Delay), params.DelayUnit)
	if err != nil {
		return nil, err
	}
	if latency > 0 {
		jitter, err := timeParam("delay_jitter", netem.FloatValue(params.DelayJitter), params.DelayJitterUnit)
		if err != nil {
			return nil, err
		}
		corr, err := percentParam("delay_corr", params.DelayCorr)
		if err != nil {
			return nil, err
		}
		if jitter == 0 {
			corr = 0
		}
		builder.WithDelay(latency, jitter, corr)

		if params.Distribution != "" {
			if !netem.Distribution(params.Distribution).IsValid() {
				return nil, errors.Errorf("unknown distribution: %s", params.Distribution)
			}
			if jitter > 0 {
				builder.WithDistribution(params.Distribution)
			}
		}

		reorderPct, reorderCorr, err := percentPair("reorder_pct", params.ReorderPct, "reorder_corr", params.ReorderCorr)
		if err != nil {
			return nil, err
		}
		gap := netem.IntValue(params.ReorderGap)
		if gap < 0 || gap > math.MaxUint32 {
			return nil, errors.Errorf("reorder_gap out of range: %d", gap)
		}
		if reorderPct == 0 {
			gap = 0
		}
		builder.WithReorder(reorderPct, reorderCorr, uint32(gap))
	}

	corruptPct, corruptCorr, err := percentPair("corrupt_pct", params.CorruptPct, "corrupt_corr", params.CorruptCorr)
	if err != nil {
		return nil, err
	}
	builder.WithCorrupt(corruptPct, corruptCorr)

	dupePct, dupeCorr, err := percentPair("dupe_pct", params.DupePct, "dupe_corr", params.DupeCorr)
	if err != nil {
		return nil, err
	}
	builder.WithDuplicate(dupePct, dupeCorr)

	lossPct, lossCorr, err := percentPair("loss_pct", params.LossPct, "loss_corr", params.LossCorr)
	if err != nil {
		return nil, err
	}
	builder.WithLoss(lossPct, lossCorr)

	if err := withRate(builder, params); err != nil {
		return nil, err
	}

	qdisc := builder.Build()
	if qdisc.IsEmpty() {
		return tcObj, nil
	}
	tcObj.QDisc = qdisc
	return tcObj, nil
}

func withRate(builder *tctypes.NetemQDiscBuilder, params *netem.NetemParams) error {
	rate := netem.FloatValue(params.Rate)
	if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return errors.Errorf("rate out of range: %v", rate)
	}
	bps := math.Round(RateToBps(rate, params.RateUnit))
	if bps == 0 {
		return nil
	}
	if bps >= math.MaxUint64 {
		return errors.Errorf("rate out of range: %v%s", rate, params.RateUnit)
	}

	pktOverhead := netem.IntValue(params.RatePktOverhead)
	if pktOverhead < math.MinInt32 || pktOverhead > math.MaxInt32 {
		return errors.Errorf("rate_pkt_overhead out of range: %d", pktOverhead)
	}
	cellSize := netem.IntValue(params.RateCellSize)
	if cellSize < 0 || cellSize > math.MaxUint32 {
		return errors.Errorf("rate_cell_size out of range: %d", cellSize)
	}
	cellOverhead := netem.IntValue(params.RateCellOverhead)
	if cellOverhead < math.MinInt32 || cellOverhead > math.MaxInt32 {
		return errors.Errorf("rate_cell_overhead out of range: %d", cellOverhead)
	}

	if pktOverhead == 0 {
		cellSize = 0
	}
	if cellSize == 0 {
		cellOverhead = 0
	}
	builder.WithRate(uint64(bps), int32(pktOverhead), uint32(cellSize), int32(cellOverhead))
	return nil
}

// timeParam converts a time value to microseconds
func timeParam(key string, value float64, unit string) (uint32, error) {
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.Errorf("%s out of range: %v", key, value)
	}
	usec := math.Round(TimeToUsec(value, unit))
	if usec > math.MaxUint32 {
		return 0, errors.Errorf("%s out of range: %v%s", key, value, unit)
	}
	return uint32(usec), nil
}

func percentParam(key string, value *float64) (float64, error) {
	v := netem.FloatValue(value)
	if v < 0 || v > 100 || math.IsNaN(v) {
		return 0, errors.Errorf("%s must be between 0 and 100, got %v", key, v)
	}
	return v, nil
}

// percentPair validates a percentage and its correlation. correlation is dropped if percentage is zero.
func percentPair(pctKey string, pct *float64, corrKey string, corr *float64) (float64, float64, error) {
	p, err := percentParam(pctKey, pct)
	if err != nil {
		return 0, 0, err
	}
	c, err := percentParam(corrKey, corr)
	if err != nil {
		return 0, 0, err
	}
	if p == 0 {
		c = 0
	}
	return p, c, nil
}
