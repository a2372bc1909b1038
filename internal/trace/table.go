// Package trace loads solver trace files (YAML sequences of timestamped,
// unit-tagged snapshots) into a single in-memory table and provides the
// ranking, filtering and reduction operations the chart renderer needs.
package trace

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Column names. The set is closed; operations addressing a column outside
// it fail rather than silently returning zeros.
const (
	ColID          = "id"
	ColRate        = "rate"
	ColTemperature = "temperature"
	ColDensity     = "density"
	ColIonFraction = "ionized_hydrogen_fraction"
	ColScaleFactor = "scale_factor"
	ColTime        = "time"
	ColRecomb      = "recomb"
	ColCollIon     = "coll_ion"
	ColRateLog10   = "rate_log10"
)

// Columns is the canonical column order, used by the CSV cache and the
// SQLite archive.
var Columns = []string{
	ColID, ColRate, ColTemperature, ColDensity, ColIonFraction,
	ColScaleFactor, ColTime, ColRecomb, ColCollIon, ColRateLog10,
}

// Record is one simulation time-step after unit normalization: time in
// megayears, the recombination and collisional-ionization rates in m^3/s,
// everything else in its declared unit. ID identifies the source file and
// RateLog10 is derived at load time.
type Record struct {
	ID          int
	Rate        float64
	Temperature float64
	Density     float64
	IonFraction float64
	ScaleFactor float64
	TimeMyr     float64
	Recomb      float64
	CollIon     float64
	RateLog10   float64
}

var columnGetters = map[string]func(Record) float64{
	ColID:          func(r Record) float64 { return float64(r.ID) },
	ColRate:        func(r Record) float64 { return r.Rate },
	ColTemperature: func(r Record) float64 { return r.Temperature },
	ColDensity:     func(r Record) float64 { return r.Density },
	ColIonFraction: func(r Record) float64 { return r.IonFraction },
	ColScaleFactor: func(r Record) float64 { return r.ScaleFactor },
	ColTime:        func(r Record) float64 { return r.TimeMyr },
	ColRecomb:      func(r Record) float64 { return r.Recomb },
	ColCollIon:     func(r Record) float64 { return r.CollIon },
	ColRateLog10:   func(r Record) float64 { return r.RateLog10 },
}

// Table is an ordered collection of records from one or more trace files.
type Table struct {
	Rows []Record
}

// Concat appends the rows of all tables in argument order.
func Concat(tables ...Table) Table {
	var out Table
	for _, t := range tables {
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out
}

// Len returns the row count.
func (t Table) Len() int { return len(t.Rows) }

// Column extracts a column as a float slice.
func (t Table) Column(col string) ([]float64, error) {
	get, ok := columnGetters[col]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", col)
	}
	vs := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		vs[i] = get(r)
	}
	return vs, nil
}

// TopK returns the k rows with the largest values in col, largest first.
// k larger than the table selects everything.
func (t Table) TopK(col string, k int) (Table, error) {
	return t.rank(col, k, true)
}

// BottomK returns the k rows with the smallest values in col, smallest
// first.
func (t Table) BottomK(col string, k int) (Table, error) {
	return t.rank(col, k, false)
}

func (t Table) rank(col string, k int, desc bool) (Table, error) {
	get, ok := columnGetters[col]
	if !ok {
		return Table{}, fmt.Errorf("unknown column %q", col)
	}
	if k < 0 {
		return Table{}, fmt.Errorf("negative k %d", k)
	}

	rows := make([]Record, len(t.Rows))
	copy(rows, t.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return get(rows[i]) > get(rows[j])
		}
		return get(rows[i]) < get(rows[j])
	})

	if k < len(rows) {
		rows = rows[:k]
	}
	return Table{Rows: rows}, nil
}

// Filter keeps the rows for which pred holds on col, preserving order.
func (t Table) Filter(col string, pred func(float64) bool) (Table, error) {
	get, ok := columnGetters[col]
	if !ok {
		return Table{}, fmt.Errorf("unknown column %q", col)
	}
	var out Table
	for _, r := range t.Rows {
		if pred(get(r)) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out, nil
}

// Mean reduces a column to its arithmetic mean.
func (t Table) Mean(col string) (float64, error) {
	vs, err := t.Column(col)
	if err != nil {
		return 0, err
	}
	if len(vs) == 0 {
		return 0, fmt.Errorf("mean of empty table")
	}
	return stat.Mean(vs, nil), nil
}

// IDs returns the distinct source ids in first-appearance order.
func (t Table) IDs() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, r := range t.Rows {
		if !seen[r.ID] {
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	return ids
}
