// Package units parses unit-tagged physical quantities from trace files and
// converts them to the canonical units the aggregation table uses: time in
// megayears, volumetric rates in cubic metres per second.
package units

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Canonical unit names.
const (
	Megayear            = "Myr"
	CubicMetrePerSecond = "m^3 s^-1"
)

// Conversion factors to seconds. The year is the Julian year (365.25 days),
// matching the solver's unit system.
const (
	secondsPerYear = 31557600.0
	yearsPerMyr    = 1e6
)

// ErrUnitMismatch reports a quantity whose unit cannot be converted to the
// requested canonical unit.
var ErrUnitMismatch = errors.New("unit mismatch")

// Quantity is a scalar with its declared unit, as written in a trace file:
// "13.2 Myr", "1e-13 m^3 s^-1", or a bare number (empty Unit).
type Quantity struct {
	Value float64
	Unit  string
}

// Parse splits a quantity string into its numeric value and unit suffix.
// The first whitespace-separated token must be the number; everything after
// it is the unit, verbatim.
func Parse(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, fmt.Errorf("empty quantity")
	}

	num := s
	unit := ""
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		num = s[:i]
		unit = strings.TrimSpace(s[i+1:])
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("bad quantity %q: %v", s, err)
	}
	return Quantity{Value: v, Unit: unit}, nil
}

// Megayears converts a time quantity to megayears.
func (q Quantity) Megayears() (float64, error) {
	switch q.Unit {
	case "Myr":
		return q.Value, nil
	case "Gyr":
		return q.Value * 1e3, nil
	case "kyr":
		return q.Value * 1e-3, nil
	case "yr":
		return q.Value / yearsPerMyr, nil
	case "s":
		return q.Value / (secondsPerYear * yearsPerMyr), nil
	default:
		return 0, fmt.Errorf("%w: cannot express %q in %s", ErrUnitMismatch, q.Unit, Megayear)
	}
}

// CubicMetresPerSecond converts a volumetric rate quantity to m^3/s.
func (q Quantity) CubicMetresPerSecond() (float64, error) {
	switch normalizeRate(q.Unit) {
	case "m^3/s":
		return q.Value, nil
	case "cm^3/s":
		return q.Value * 1e-6, nil
	default:
		return 0, fmt.Errorf("%w: cannot express %q in %s", ErrUnitMismatch, q.Unit, CubicMetrePerSecond)
	}
}

// Bare returns the numeric value in whatever unit the quantity declared.
// Used for fields the table keeps in their native unit (temperature,
// density, dimensionless fractions).
func (q Quantity) Bare() float64 {
	return q.Value
}

// normalizeRate collapses the spellings the solver emits for volume rates
// ("m^3 s^-1", "m^3/s", "m3/s") into one lookup key.
func normalizeRate(unit string) string {
	u := strings.Join(strings.Fields(unit), " ")
	u = strings.ReplaceAll(u, " s^-1", "/s")
	u = strings.ReplaceAll(u, "m3", "m^3")
	return u
}
