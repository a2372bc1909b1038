package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/banshee-data/simvis/internal/fsutil"
)

// The CSV cache lets an aggregation run be reused without re-parsing the
// source YAML. Floats are written with the shortest representation that
// round-trips exactly, so ReadCSV(WriteCSV(t)) == t bit for bit.

// WriteCSV writes the table in canonical column order with a header row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(Columns))
	for _, r := range t.Rows {
		row[0] = strconv.Itoa(r.ID)
		vals := [...]float64{
			r.Rate, r.Temperature, r.Density, r.IonFraction,
			r.ScaleFactor, r.TimeMyr, r.Recomb, r.CollIon, r.RateLog10,
		}
		for i, v := range vals {
			row[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table previously written by WriteCSV. The header must
// match the canonical column order exactly.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return Table{}, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) != len(Columns) {
		return Table{}, fmt.Errorf("csv header has %d columns, want %d", len(header), len(Columns))
	}
	for i, col := range Columns {
		if header[i] != col {
			return Table{}, fmt.Errorf("csv column %d is %q, want %q", i, header[i], col)
		}
	}

	var t Table
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read csv row: %w", err)
		}

		var row Record
		if row.ID, err = strconv.Atoi(rec[0]); err != nil {
			return Table{}, fmt.Errorf("csv id %q: %w", rec[0], err)
		}
		vals := make([]float64, len(rec)-1)
		for i, s := range rec[1:] {
			if vals[i], err = strconv.ParseFloat(s, 64); err != nil {
				return Table{}, fmt.Errorf("csv %s %q: %w", Columns[i+1], s, err)
			}
		}
		row.Rate = vals[0]
		row.Temperature = vals[1]
		row.Density = vals[2]
		row.IonFraction = vals[3]
		row.ScaleFactor = vals[4]
		row.TimeMyr = vals[5]
		row.Recomb = vals[6]
		row.CollIon = vals[7]
		row.RateLog10 = vals[8]
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteCSVFile writes the cache to a path through the given filesystem.
func WriteCSVFile(fsys fsutil.FileSystem, path string, t Table) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create cache %s: %w", path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSVFile reads a cache previously written with WriteCSVFile.
func ReadCSVFile(fsys fsutil.FileSystem, path string) (Table, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open cache %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}
