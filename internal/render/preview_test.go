package render

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalPreview(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX true/false")
	}

	img := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, os.WriteFile(img, []byte("not-a-real-png"), 0644))

	t.Run("both commands succeed", func(t *testing.T) {
		t.Parallel()
		tp := &TerminalPreview{ScalerCmd: "true", ViewerCmd: "true", Width: 800}
		assert.NoError(t, tp.Show(img))
	})

	t.Run("scaler failure is fatal", func(t *testing.T) {
		t.Parallel()
		tp := &TerminalPreview{ScalerCmd: "false", ViewerCmd: "true", Width: 800}
		assert.Error(t, tp.Show(img))
	})

	t.Run("viewer failure is fatal", func(t *testing.T) {
		t.Parallel()
		tp := &TerminalPreview{ScalerCmd: "true", ViewerCmd: "false", Width: 800}
		assert.Error(t, tp.Show(img))
	})

	t.Run("missing tool is fatal", func(t *testing.T) {
		t.Parallel()
		tp := &TerminalPreview{ScalerCmd: "definitely-not-installed-scaler", ViewerCmd: "true", Width: 800}
		assert.Error(t, tp.Show(img))
	})
}
