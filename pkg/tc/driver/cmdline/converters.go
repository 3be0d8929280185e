package cmdline

import (
	"math"
	"regexp"
	"strconv"

	"github.com/pkg/errors"

	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/generator"
	"github.com/k8snetworkplumbingwg/network-shaper/pkg/tc/types"
)

const (
	numberRE  = `(\d+(?:\.\d+)?)`
	percentRE = numberRE + `%`
	timeRE    = numberRE + `(us|ms|s)`
)

var (
	limitRE     = regexp.MustCompile(`\blimit\s+(\d+)`)
	delayRE     = regexp.MustCompile(`\bdelay\s+` + timeRE + `(?:\s+` + timeRE + `(?:\s+` + percentRE + `)?)?`)
	reorderRE   = regexp.MustCompile(`\breorder\s+` + percentRE + `(?:\s+` + percentRE + `)?`)
	gapRE       = regexp.MustCompile(`\bgap\s+(\d+)`)
	corruptRE   = regexp.MustCompile(`\bcorrupt\s+` + percentRE + `(?:\s+` + percentRE + `)?`)
	duplicateRE = regexp.MustCompile(`\bduplicate\s+` + percentRE + `(?:\s+` + percentRE + `)?`)
	lossRE      = regexp.MustCompile(`\bloss\s+(?:random\s+)?` + percentRE + `(?:\s+` + percentRE + `)?`)
	rateRE      = regexp.MustCompile(`\brate\s+` + numberRE + `([kmgt]?bit|[kmgt]?bps)` +
		`(?:\s+packetoverhead\s+(-?\d+))?(?:\s+cellsize\s+(\d+))?(?:\s+celloverhead\s+(-?\d+))?`)
)

// parseNetemOptions parses the options of a netem qdisc line (lower-cased) into NetemAttrs
func parseNetemOptions(opts string) (*types.NetemAttrs, error) {
	attrs := &types.NetemAttrs{}
	p := &optionParser{}

	if m := limitRE.FindStringSubmatch(opts); m != nil {
		attrs.Limit = p.u32(m[1])
	}

	if m := delayRE.FindStringSubmatch(opts); m != nil {
		attrs.Latency = p.usec(m[1], m[2])
		if m[3] != "" {
			attrs.Jitter = p.usec(m[3], m[4])
		}
		attrs.DelayCorr = p.f64(m[5])
	}

	if m := reorderRE.FindStringSubmatch(opts); m != nil {
		attrs.ReorderPct = p.f64(m[1])
		attrs.ReorderCorr = p.f64(m[2])
	}
	if m := gapRE.FindStringSubmatch(opts); m != nil {
		attrs.Gap = p.u32(m[1])
	}

	if m := corruptRE.FindStringSubmatch(opts); m != nil {
		attrs.CorruptPct = p.f64(m[1])
		attrs.CorruptCorr = p.f64(m[2])
	}
	if m := duplicateRE.FindStringSubmatch(opts); m != nil {
		attrs.DuplicatePct = p.f64(m[1])
		attrs.DuplicateCorr = p.f64(m[2])
	}
	if m := lossRE.FindStringSubmatch(opts); m != nil {
		attrs.LossPct = p.f64(m[1])
		attrs.LossCorr = p.f64(m[2])
	}

	if m := rateRE.FindStringSubmatch(opts); m != nil {
		attrs.Rate = uint64(math.Round(generator.RateToBps(p.f64(m[1]), m[2])))
		attrs.PacketOverhead = p.i32(m[3])
		attrs.CellSize = p.u32(m[4])
		attrs.CellOverhead = p.i32(m[5])
	}

	if p.err != nil {
		return nil, p.err
	}
	return attrs, nil
}

// optionParser converts regex captures, an empty capture is zero. The first error is kept.
type optionParser struct {
	err error
}

func (p *optionParser) f64(s string) float64 {
	if s == "" || p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = errors.Wrapf(err, "invalid number %q", s)
	}
	return v
}

func (p *optionParser) u32(s string) uint32 {
	if s == "" || p.err != nil {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		p.err = errors.Wrapf(err, "invalid number %q", s)
	}
	return uint32(v)
}

func (p *optionParser) i32(s string) int32 {
	if s == "" || p.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		p.err = errors.Wrapf(err, "invalid number %q", s)
	}
	return int32(v)
}

func (p *optionParser) usec(value, unit string) uint32 {
	return uint32(math.Round(generator.TimeToUsec(p.f64(value), unit)))
}
