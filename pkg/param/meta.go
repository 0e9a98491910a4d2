// Package param holds off-RT parameter metadata: the physical range,
// units, and display formatting for module parameters that are always
// stored and transported on the wire as normalized values in [0,1].
//
// Nothing in this package is RT-safe or RT-called; modules keep their
// own atomic normalized cell (see pkg/track) and consult ParamMeta only
// when control code needs to present or parse a plain-unit value.
package param

import (
	"fmt"
	"strconv"
)

// Formatter renders a plain (denormalized) value for display.
type Formatter func(plain float64) string

// Parser parses a plain value back out of a display string.
type Parser func(string) (float64, error)

// Meta describes one module parameter's physical range and presentation.
// It never holds a live value; Module.GetParam/SetParam own that.
type Meta struct {
	Index     uint16
	Name      string
	Unit      string
	Min       float64
	Max       float64
	LogScale  bool
	Default   float64 // plain units
	format    Formatter
	parse     Parser
}

// New creates Meta for a linear parameter over [min,max] with a plain
// default value.
func New(index uint16, name string, min, max, def float64) Meta {
	return Meta{Index: index, Name: name, Min: min, Max: max, Default: def}
}

// Logarithmic marks the metadata as a log-scale parameter (a flag for
// consumers of LogScale) and returns the receiver for chaining, matching
// the builder idiom used elsewhere in this module. Normalize,
// Denormalize, Format and Parse map linearly over [Min,Max] whether or
// not the flag is set.
func (m Meta) Logarithmic() Meta {
	m.LogScale = true
	return m
}

// WithUnit attaches a unit suffix used by the default formatter.
func (m Meta) WithUnit(unit string) Meta {
	m.Unit = unit
	return m
}

// WithFormatter overrides value formatting and parsing.
func (m Meta) WithFormatter(format Formatter, parse Parser) Meta {
	m.format = format
	m.parse = parse
	return m
}

// Normalize converts a plain value into the [0,1] wire representation.
func (m Meta) Normalize(plain float64) float64 {
	if m.Max <= m.Min {
		return 0
	}
	n := (plain - m.Min) / (m.Max - m.Min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// Denormalize converts a [0,1] wire value into plain units.
func (m Meta) Denormalize(normalized float64) float64 {
	return m.Min + normalized*(m.Max-m.Min)
}

// DefaultNormalized returns the default value in [0,1].
func (m Meta) DefaultNormalized() float64 {
	return m.Normalize(m.Default)
}

// Format renders normalized using the metadata's formatter, or a plain
// default ("%.2f <unit>") if none was set.
func (m Meta) Format(normalized float64) string {
	plain := m.Denormalize(normalized)
	if m.format != nil {
		return m.format(plain)
	}
	if m.Unit != "" {
		return fmt.Sprintf("%.2f %s", plain, m.Unit)
	}
	return fmt.Sprintf("%.2f", plain)
}

// Parse converts a display string into a normalized [0,1] value.
func (m Meta) Parse(s string) (float64, error) {
	var plain float64
	var err error
	if m.parse != nil {
		plain, err = m.parse(s)
	} else {
		plain, err = strconv.ParseFloat(s, 64)
	}
	if err != nil {
		return 0, err
	}
	return m.Normalize(plain), nil
}
