package archive

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/simvis/internal/trace"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testTable() trace.Table {
	return trace.Table{Rows: []trace.Record{
		{
			ID: 1, Rate: 1e12, Temperature: 1e4, Density: 0.5,
			IonFraction: 0.755, ScaleFactor: 1, TimeMyr: 1,
			Recomb: 2e-13, CollIon: 5e-14, RateLog10: 12,
		},
		{
			ID: 2, Rate: 1e10, Temperature: 2e4, Density: 0.25,
			IonFraction: 0.8, ScaleFactor: 1, TimeMyr: 2,
			Recomb: 3e-13, CollIon: 6e-14, RateLog10: 10,
		},
	}}
}

func TestSaveAndLoadRun(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	want := testTable()

	runID, err := s.SaveRun(want, []string{"trace_1.yml", "trace_2.yml"})
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	got, err := s.LoadRun(runID)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("archived table mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRunUnknownID(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	_, err := s.LoadRun("no-such-run")
	assert.Error(t, err)
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)

	id1, err := s.SaveRun(testTable(), []string{"trace_1.yml"})
	require.NoError(t, err)
	id2, err := s.SaveRun(trace.Table{}, []string{"trace_2.yml", "trace_3.yml"})
	require.NoError(t, err)

	runs, err := s.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	ids := []string{runs[0].RunID, runs[1].RunID}
	assert.Contains(t, ids, id1)
	assert.Contains(t, ids, id2)

	for _, r := range runs {
		switch r.RunID {
		case id1:
			assert.Equal(t, 2, r.RowCount)
			assert.Equal(t, []string{"trace_1.yml"}, r.Sources)
		case id2:
			assert.Equal(t, 0, r.RowCount)
			assert.Equal(t, []string{"trace_2.yml", "trace_3.yml"}, r.Sources)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "archive.db")

	s, err := Open(path)
	require.NoError(t, err)
	runID, err := s.SaveRun(testTable(), []string{"trace_1.yml"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// reopen runs migrations again; ErrNoChange must be tolerated
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.LoadRun(runID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}
