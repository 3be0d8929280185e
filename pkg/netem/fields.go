package netem

import (
	"fmt"
	"math"
	"strconv"
)

type fieldKind int

const (
	kindToggle fieldKind = iota
	kindFloat
	kindInt
)

// fieldSpec describes one settable path of Settings
type fieldSpec struct {
	section Section
	kind    fieldKind
	min     float64
	max     float64
	get     func(s *Settings) float64
	set     func(s *Settings, v float64)
}

func toggleField(section Section) fieldSpec {
	return fieldSpec{
		section: section,
		kind:    kindToggle,
		min:     0,
		max:     1,
		get: func(s *Settings) float64 {
			if *s.toggle(section) {
				return 1
			}
			return 0
		},
		set: func(s *Settings, v float64) { *s.toggle(section) = v == 1 },
	}
}

func floatField(section Section, min, max float64, ptr func(s *Settings) *float64) fieldSpec {
	return fieldSpec{
		section: section,
		kind:    kindFloat,
		min:     min,
		max:     max,
		get:     func(s *Settings) float64 { return *ptr(s) },
		set:     func(s *Settings, v float64) { *ptr(s) = v },
	}
}

func intField(section Section, min, max float64, ptr func(s *Settings) *int64) fieldSpec {
	return fieldSpec{
		section: section,
		kind:    kindInt,
		min:     min,
		max:     max,
		get:     func(s *Settings) float64 { return float64(*ptr(s)) },
		set:     func(s *Settings, v float64) { *ptr(s) = int64(v) },
	}
}

var unbounded = math.MaxFloat64

var fieldSpecs = map[string]fieldSpec{
	"delay.enabled":     toggleField(SectionDelay),
	"delay.time":        floatField(SectionDelay, 0, unbounded, func(s *Settings) *float64 { return &s.Delay.Time }),
	"delay.jitter":      floatField(SectionDelay, 0, unbounded, func(s *Settings) *float64 { return &s.Delay.Jitter }),
	"delay.correlation": floatField(SectionDelay, 0, 100, func(s *Settings) *float64 { return &s.Delay.Correlation }),

	"reorder.enabled":     toggleField(SectionReorder),
	"reorder.percent":     floatField(SectionReorder, 0, 100, func(s *Settings) *float64 { return &s.Reorder.Percent }),
	"reorder.correlation": floatField(SectionReorder, 0, 100, func(s *Settings) *float64 { return &s.Reorder.Correlation }),
	"reorder.gap":         intField(SectionReorder, 0, math.MaxUint32, func(s *Settings) *int64 { return &s.Reorder.Gap }),

	"rate.enabled":        toggleField(SectionRate),
	"rate.speed":          floatField(SectionRate, 0, unbounded, func(s *Settings) *float64 { return &s.Rate.Speed }),
	"rate.packetOverhead": intField(SectionRate, -100, 100, func(s *Settings) *int64 { return &s.Rate.PacketOverhead }),
	"rate.cellSize":       intField(SectionRate, 0, 1000, func(s *Settings) *int64 { return &s.Rate.CellSize }),
	"rate.cellOverhead":   intField(SectionRate, -100, 100, func(s *Settings) *int64 { return &s.Rate.CellOverhead }),

	"corrupt.enabled":     toggleField(SectionCorrupt),
	"corrupt.percent":     floatField(SectionCorrupt, 0, 100, func(s *Settings) *float64 { return &s.Corrupt.Percent }),
	"corrupt.correlation": floatField(SectionCorrupt, 0, 100, func(s *Settings) *float64 { return &s.Corrupt.Correlation }),

	"dupe.enabled":     toggleField(SectionDupe),
	"dupe.percent":     floatField(SectionDupe, 0, 100, func(s *Settings) *float64 { return &s.Dupe.Percent }),
	"dupe.correlation": floatField(SectionDupe, 0, 100, func(s *Settings) *float64 { return &s.Dupe.Correlation }),

	"loss.enabled":     toggleField(SectionLoss),
	"loss.percent":     floatField(SectionLoss, 0, 100, func(s *Settings) *float64 { return &s.Loss.Percent }),
	"loss.correlation": floatField(SectionLoss, 0, 100, func(s *Settings) *float64 { return &s.Loss.Correlation }),
}

// sectionFields lists the value paths of each section in display order
var sectionFields = map[Section][]string{
	SectionDelay:   {"delay.time", "delay.jitter", "delay.correlation"},
	SectionReorder: {"reorder.percent", "reorder.correlation", "reorder.gap"},
	SectionRate:    {"rate.speed", "rate.packetOverhead", "rate.cellSize", "rate.cellOverhead"},
	SectionCorrupt: {"corrupt.percent", "corrupt.correlation"},
	SectionDupe:    {"dupe.percent", "dupe.correlation"},
	SectionLoss:    {"loss.percent", "loss.correlation"},
}

// FieldPaths returns the numeric field paths of section, nil if section is unknown
func FieldPaths(section Section) []string {
	paths := sectionFields[section]
	if paths == nil {
		return nil
	}
	return append([]string(nil), paths...)
}

// check validates v against the bounds of the field, returns the reason of a violation
func (f fieldSpec) check(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "value must be a finite number"
	}
	switch f.kind {
	case kindToggle:
		if v != 0 && v != 1 {
			return "toggle accepts 0 or 1"
		}
		return ""
	case kindInt:
		if v != math.Trunc(v) {
			return fmt.Sprintf("%s is not an integer", formatValue(v))
		}
	}
	if v < f.min || v > f.max {
		if f.max == unbounded {
			return fmt.Sprintf("%s is below %s", formatValue(v), formatValue(f.min))
		}
		return fmt.Sprintf("%s is outside [%s, %s]", formatValue(v), formatValue(f.min), formatValue(f.max))
	}
	return ""
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
