package trace

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/simvis/internal/fsutil"
	"github.com/banshee-data/simvis/internal/units"
)

// rawEntry mirrors one element of the on-disk YAML sequence. The solver
// field arrives as a string holding a nested YAML document of
// "name: quantity" pairs, exactly as the solver serializes it.
type rawEntry struct {
	Time    string `yaml:"time"`
	Recomb  string `yaml:"recomb"`
	CollIon string `yaml:"coll_ion"`
	Solver  string `yaml:"solver"`
}

// solverFields are the scalar names expected inside every solver payload.
var solverFields = []string{
	ColRate, ColTemperature, ColDensity, ColIonFraction, ColScaleFactor,
}

// IDFromFilename extracts the numeric source id from a trace filename,
// which must be of the form trace_<id>.yml (or .yaml).
func IDFromFilename(path string) (int, error) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(strings.TrimSuffix(base, ".yml"), ".yaml")
	rest, ok := strings.CutPrefix(name, "trace_")
	if !ok {
		return 0, fmt.Errorf("trace filename %q: want trace_<id>.yml", base)
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("trace filename %q: bad id %q", base, rest)
	}
	return id, nil
}

// LoadFile reads one trace file into a table tagged with the id embedded
// in its filename. Any malformed entry fails the whole load; there is no
// partial-row recovery.
func LoadFile(fsys fsutil.FileSystem, path string) (Table, error) {
	id, err := IDFromFilename(path)
	if err != nil {
		return Table{}, err
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read trace %s: %w", path, err)
	}

	var entries []rawEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return Table{}, fmt.Errorf("parse trace %s: %w", path, err)
	}

	t := Table{Rows: make([]Record, 0, len(entries))}
	for i, e := range entries {
		rec, err := convertEntry(e, id)
		if err != nil {
			return Table{}, fmt.Errorf("trace %s entry %d: %w", path, i, err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// LoadFiles loads every path and concatenates the results in argument
// order. A single bad file aborts the load.
func LoadFiles(fsys fsutil.FileSystem, paths []string) (Table, error) {
	tables := make([]Table, 0, len(paths))
	for _, p := range paths {
		t, err := LoadFile(fsys, p)
		if err != nil {
			return Table{}, err
		}
		tables = append(tables, t)
	}
	return Concat(tables...), nil
}

func convertEntry(e rawEntry, id int) (Record, error) {
	rec := Record{ID: id}

	tq, err := parseField("time", e.Time)
	if err != nil {
		return Record{}, err
	}
	if rec.TimeMyr, err = tq.Megayears(); err != nil {
		return Record{}, fmt.Errorf("field time: %w", err)
	}

	rq, err := parseField("recomb", e.Recomb)
	if err != nil {
		return Record{}, err
	}
	if rec.Recomb, err = rq.CubicMetresPerSecond(); err != nil {
		return Record{}, fmt.Errorf("field recomb: %w", err)
	}

	cq, err := parseField("coll_ion", e.CollIon)
	if err != nil {
		return Record{}, err
	}
	if rec.CollIon, err = cq.CubicMetresPerSecond(); err != nil {
		return Record{}, fmt.Errorf("field coll_ion: %w", err)
	}

	if strings.TrimSpace(e.Solver) == "" {
		return Record{}, fmt.Errorf("missing field solver")
	}
	// Decode into yaml.Node values so bare numbers and quoted quantity
	// strings both come through as their scalar text.
	var solver map[string]yaml.Node
	if err := yaml.Unmarshal([]byte(e.Solver), &solver); err != nil {
		return Record{}, fmt.Errorf("field solver: %w", err)
	}

	for _, name := range solverFields {
		q, err := parseField(name, solver[name].Value)
		if err != nil {
			return Record{}, err
		}
		v := q.Bare()
		switch name {
		case ColRate:
			rec.Rate = v
		case ColTemperature:
			rec.Temperature = v
		case ColDensity:
			rec.Density = v
		case ColIonFraction:
			rec.IonFraction = v
		case ColScaleFactor:
			rec.ScaleFactor = v
		}
	}

	rec.RateLog10 = math.Log10(rec.Rate)
	return rec, nil
}

func parseField(name, raw string) (units.Quantity, error) {
	if strings.TrimSpace(raw) == "" {
		return units.Quantity{}, fmt.Errorf("missing field %s", name)
	}
	q, err := units.Parse(raw)
	if err != nil {
		return units.Quantity{}, fmt.Errorf("field %s: %w", name, err)
	}
	return q, nil
}
