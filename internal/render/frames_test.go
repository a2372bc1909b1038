package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/simvis/internal/fsutil"
	"github.com/banshee-data/simvis/internal/geom"
)

func newTestFrameSet(fsys fsutil.FileSystem) *FrameSet {
	return &FrameSet{
		FS:           fsys,
		Canvas:       testCanvas(),
		Palette:      []geom.Color{{R: 1, A: 1}, {G: 1, A: 1}},
		DefaultColor: geom.DefaultColor,
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	t.Run("lexicographic order within a directory", func(t *testing.T) {
		t.Parallel()
		fsys := fsutil.NewMemoryFileSystem()
		require.NoError(t, fsys.WriteFile("run/b.txt", []byte("Point 0 0"), 0644))
		require.NoError(t, fsys.WriteFile("run/a.txt", []byte("Point 0 0"), 0644))

		groups, err := newTestFrameSet(fsys).Discover([]string{"run"})
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, []string{"run/a.txt"}, groups[0].Files)
		assert.Equal(t, []string{"run/b.txt"}, groups[1].Files)
	})

	t.Run("same position across directories shares a frame", func(t *testing.T) {
		t.Parallel()
		fsys := fsutil.NewMemoryFileSystem()
		require.NoError(t, fsys.WriteFile("run1/f0.txt", nil, 0644))
		require.NoError(t, fsys.WriteFile("run1/f1.txt", nil, 0644))
		require.NoError(t, fsys.WriteFile("run2/f0.txt", nil, 0644))

		groups, err := newTestFrameSet(fsys).Discover([]string{"run1", "run2"})
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, []string{"run1/f0.txt", "run2/f0.txt"}, groups[0].Files)
		// run2 has no second frame
		assert.Equal(t, []string{"run1/f1.txt", ""}, groups[1].Files)
	})

	t.Run("missing directory fails", func(t *testing.T) {
		t.Parallel()
		fsys := fsutil.NewMemoryFileSystem()
		_, err := newTestFrameSet(fsys).Discover([]string{"nope"})
		assert.Error(t, err)
	})
}

func TestRenderAll(t *testing.T) {
	t.Parallel()

	t.Run("one zero-padded image per frame file", func(t *testing.T) {
		t.Parallel()
		fsys := fsutil.NewMemoryFileSystem()
		require.NoError(t, fsys.WriteFile("run/s0.txt", []byte("Circle 0.5 0.5 0.1\n"), 0644))
		require.NoError(t, fsys.WriteFile("run/s1.txt", []byte("Circle 0.2 0.2 0.05\n"), 0644))

		n, err := newTestFrameSet(fsys).RenderAll("plots", []string{"run"})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.True(t, fsys.Exists("plots/frame_0000.png"))
		assert.True(t, fsys.Exists("plots/frame_0001.png"))
	})

	t.Run("malformed shape aborts the run", func(t *testing.T) {
		t.Parallel()
		fsys := fsutil.NewMemoryFileSystem()
		require.NoError(t, fsys.WriteFile("run/s0.txt", []byte("Blob 1 2 3\n"), 0644))

		_, err := newTestFrameSet(fsys).RenderAll("plots", []string{"run"})
		require.Error(t, err)
		assert.ErrorIs(t, err, geom.ErrUnsupportedKind)
	})

	t.Run("empty palette rejected", func(t *testing.T) {
		t.Parallel()
		fsys := fsutil.NewMemoryFileSystem()
		fr := newTestFrameSet(fsys)
		fr.Palette = nil
		_, err := fr.RenderAll("plots", []string{"run"})
		assert.Error(t, err)
	})
}
