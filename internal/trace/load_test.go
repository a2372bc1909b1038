package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/simvis/internal/fsutil"
)

const sampleTrace = `- time: "1 Myr"
  recomb: "2e-13 m^3 s^-1"
  coll_ion: "5e-14 m^3 s^-1"
  solver: |
    rate: "1e12"
    temperature: "1e4 K"
    density: "0.5"
    ionized_hydrogen_fraction: "0.755"
    scale_factor: "1.0"
- time: "2 Myr"
  recomb: "3e-13 m^3 s^-1"
  coll_ion: "6e-14 m^3 s^-1"
  solver: |
    rate: "1e10"
    temperature: "2e4 K"
    density: 0.25
    ionized_hydrogen_fraction: 0.8
    scale_factor: 1.0
`

func TestIDFromFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		want    int
		wantErr bool
	}{
		{"plain", "trace_3.yml", 3, false},
		{"with directory", "runs/a/trace_12.yml", 12, false},
		{"yaml extension", "trace_7.yaml", 7, false},
		{"zero padded", "trace_007.yml", 7, false},
		{"missing prefix", "run_3.yml", 0, true},
		{"non-numeric id", "trace_abc.yml", 0, true},
		{"no id", "trace_.yml", 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, err := IDFromFilename(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("converts units and derives rate_log10", func(t *testing.T) {
		t.Parallel()
		fsys := fsutil.NewMemoryFileSystem()
		require.NoError(t, fsys.WriteFile("trace_5.yml", []byte(sampleTrace), 0644))

		tbl, err := LoadFile(fsys, "trace_5.yml")
		require.NoError(t, err)
		require.Equal(t, 2, tbl.Len())

		r := tbl.Rows[0]
		assert.Equal(t, 5, r.ID)
		assert.Equal(t, 1.0, r.TimeMyr)
		assert.InDelta(t, 2e-13, r.Recomb, 1e-25)
		assert.InDelta(t, 5e-14, r.CollIon, 1e-25)
		assert.Equal(t, 1e12, r.Rate)
		assert.Equal(t, 1e4, r.Temperature)
		assert.Equal(t, 0.5, r.Density)
		assert.Equal(t, 0.755, r.IonFraction)
		assert.InDelta(t, 12.0, r.RateLog10, 1e-12)

		// bare YAML numbers in the solver payload work too
		assert.Equal(t, 0.25, tbl.Rows[1].Density)
	})

	t.Run("time in seconds converts to megayears", func(t *testing.T) {
		t.Parallel()
		doc := `- time: "3.15576e13 s"
  recomb: "1e-13 m^3/s"
  coll_ion: "1e-14 m^3/s"
  solver: |
    rate: "1"
    temperature: "1"
    density: "1"
    ionized_hydrogen_fraction: "1"
    scale_factor: "1"
`
		fsys := fsutil.NewMemoryFileSystem()
		require.NoError(t, fsys.WriteFile("trace_1.yml", []byte(doc), 0644))

		tbl, err := LoadFile(fsys, "trace_1.yml")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, tbl.Rows[0].TimeMyr, 1e-9)
	})

	t.Run("missing solver field fails the whole load", func(t *testing.T) {
		t.Parallel()
		doc := `- time: "1 Myr"
  recomb: "1e-13 m^3/s"
  coll_ion: "1e-14 m^3/s"
  solver: |
    rate: "1"
    temperature: "1"
`
		fsys := fsutil.NewMemoryFileSystem()
		require.NoError(t, fsys.WriteFile("trace_1.yml", []byte(doc), 0644))

		_, err := LoadFile(fsys, "trace_1.yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing field")
	})

	t.Run("wrong unit dimension fails", func(t *testing.T) {
		t.Parallel()
		doc := `- time: "1 m"
  recomb: "1e-13 m^3/s"
  coll_ion: "1e-14 m^3/s"
  solver: |
    rate: "1"
    temperature: "1"
    density: "1"
    ionized_hydrogen_fraction: "1"
    scale_factor: "1"
`
		fsys := fsutil.NewMemoryFileSystem()
		require.NoError(t, fsys.WriteFile("trace_1.yml", []byte(doc), 0644))

		_, err := LoadFile(fsys, "trace_1.yml")
		assert.Error(t, err)
	})

	t.Run("bad filename id fails before reading", func(t *testing.T) {
		t.Parallel()
		fsys := fsutil.NewMemoryFileSystem()
		_, err := LoadFile(fsys, "notes.yml")
		assert.Error(t, err)
	})
}

func TestLoadFilesConcatenates(t *testing.T) {
	t.Parallel()

	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, fsys.WriteFile("trace_1.yml", []byte(sampleTrace), 0644))
	require.NoError(t, fsys.WriteFile("trace_2.yml", []byte(sampleTrace), 0644))

	tbl, err := LoadFiles(fsys, []string{"trace_1.yml", "trace_2.yml"})
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, []int{1, 2}, tbl.IDs())
}
