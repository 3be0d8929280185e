package generator

import (
	"strings"
)

const (
	// DefaultTimeUnit is used when a time unit is missing or unknown
	DefaultTimeUnit = "ms"
	// DefaultRateUnit is used when a rate unit is missing or unknown
	DefaultRateUnit = "kbit"
)

// ValidTimeUnits maps tc(8) time units to microseconds
var ValidTimeUnits = map[string]float64{
	"us":   1,
	"usec": 1,
	"ms":   1000,
	"msec": 1000,
	"s":    1000000,
	"sec":  1000000,
}

// ValidRateUnits maps tc(8) rate units to bit/s
var ValidRateUnits = map[string]float64{
	"bit":  1,
	"kbit": 1e3,
	"mbit": 1e6,
	"gbit": 1e9,
	"tbit": 1e12,
	"bps":  8,
	"kbps": 8e3,
	"mbps": 8e6,
	"gbps": 8e9,
	"tbps": 8e12,
}

// GetTimeUnit returns unit normalized, DefaultTimeUnit if unit is not a valid time unit
func GetTimeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if _, ok := ValidTimeUnits[u]; ok {
		return u
	}
	return DefaultTimeUnit
}

// GetRateUnit returns unit normalized, DefaultRateUnit if unit is not a valid rate unit
func GetRateUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if _, ok := ValidRateUnits[u]; ok {
		return u
	}
	return DefaultRateUnit
}

// TimeToUsec converts value expressed in unit to microseconds
func TimeToUsec(value float64, unit string) float64 {
	return value * ValidTimeUnits[GetTimeUnit(unit)]
}

// RateToBps converts value expressed in unit to bit/s
func RateToBps(value float64, unit string) float64 {
	return value * ValidRateUnits[GetRateUnit(unit)]
}
