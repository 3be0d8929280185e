package types

import (
	"fmt"
	"strconv"
)

// CmdLineGenerator is an interface for generating tc command line args for a tc object
type CmdLineGenerator interface {
	// GenCmdLineArgs returns tc command line arguments which can be incorporated
	// when invoking tc command via shell
	GenCmdLineArgs() []string
}

// fmtMajorMinor formats a 32bit handle as tc major:minor
func fmtMajorMinor(h uint32) string {
	return fmt.Sprintf("%x:%x", h>>16, h&0xffff)
}

// fmtTime formats microseconds using the largest tc time unit that keeps the value integral
func fmtTime(usec uint32) string {
	switch {
	case usec != 0 && usec%1000000 == 0:
		return fmt.Sprintf("%ds", usec/1000000)
	case usec != 0 && usec%1000 == 0:
		return fmt.Sprintf("%dms", usec/1000)
	}
	return fmt.Sprintf("%dus", usec)
}

// fmtPercent formats a percentage as accepted by tc
func fmtPercent(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// fmtRate formats a rate in bit/s using the largest tc rate unit that keeps the value integral
func fmtRate(bps uint64) string {
	switch {
	case bps != 0 && bps%1000000000 == 0:
		return fmt.Sprintf("%dgbit", bps/1000000000)
	case bps != 0 && bps%1000000 == 0:
		return fmt.Sprintf("%dmbit", bps/1000000)
	case bps != 0 && bps%1000 == 0:
		return fmt.Sprintf("%dkbit", bps/1000)
	}
	return fmt.Sprintf("%dbit", bps)
}
