package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/simvis/internal/fsutil"
	"github.com/banshee-data/simvis/internal/geom"
	"github.com/banshee-data/simvis/internal/trace"
)

func chartTable() trace.Table {
	return trace.Table{Rows: []trace.Record{
		{ID: 1, TimeMyr: 1, Recomb: 2e-3, Temperature: 1e4},
		{ID: 1, TimeMyr: 2, Recomb: 3e-3, Temperature: 2e4},
		{ID: 2, TimeMyr: 1, Recomb: 5e-2, Temperature: 3e4},
	}}
}

func chartConfig() ChartConfig {
	return ChartConfig{
		XColumn:      trace.ColTime,
		YColumn:      trace.ColRecomb,
		HueColumn:    trace.ColID,
		YMin:         1e-4,
		YMax:         1,
		WidthInches:  10,
		HeightInches: 6,
		Palette:      []geom.Color{{R: 1, A: 1}, {B: 1, A: 1}},
	}
}

func TestTraceChart(t *testing.T) {
	t.Parallel()

	t.Run("log axis with fixed limits", func(t *testing.T) {
		t.Parallel()
		p, dropped, err := TraceChart(chartConfig(), chartTable())
		require.NoError(t, err)
		assert.Equal(t, 0, dropped)
		assert.Equal(t, 1e-4, p.Y.Min)
		assert.Equal(t, 1.0, p.Y.Max)
	})

	t.Run("non-positive y rows dropped", func(t *testing.T) {
		t.Parallel()
		tbl := chartTable()
		tbl.Rows = append(tbl.Rows, trace.Record{ID: 2, TimeMyr: 3, Recomb: 0})

		_, dropped, err := TraceChart(chartConfig(), tbl)
		require.NoError(t, err)
		assert.Equal(t, 1, dropped)
	})

	t.Run("continuous hue column", func(t *testing.T) {
		t.Parallel()
		cfg := chartConfig()
		cfg.HueColumn = trace.ColTemperature
		_, dropped, err := TraceChart(cfg, chartTable())
		require.NoError(t, err)
		assert.Equal(t, 0, dropped)
	})

	t.Run("no hue column", func(t *testing.T) {
		t.Parallel()
		cfg := chartConfig()
		cfg.HueColumn = ""
		_, _, err := TraceChart(cfg, chartTable())
		require.NoError(t, err)
	})

	t.Run("unknown column errors", func(t *testing.T) {
		t.Parallel()
		cfg := chartConfig()
		cfg.YColumn = "pressure"
		_, _, err := TraceChart(cfg, chartTable())
		assert.Error(t, err)
	})

	t.Run("bad log limits error", func(t *testing.T) {
		t.Parallel()
		cfg := chartConfig()
		cfg.YMin = 0
		_, _, err := TraceChart(cfg, chartTable())
		assert.Error(t, err)
	})
}

func TestTraceChartSaves(t *testing.T) {
	t.Parallel()

	fsys := fsutil.NewMemoryFileSystem()
	p, _, err := TraceChart(chartConfig(), chartTable())
	require.NoError(t, err)

	require.NoError(t, Save(fsys, p, 10, 6, "chart.png"))
	data, err := fsys.ReadFile("chart.png")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestInteractiveChart(t *testing.T) {
	t.Parallel()

	t.Run("writes one series per id", func(t *testing.T) {
		t.Parallel()
		fsys := fsutil.NewMemoryFileSystem()
		require.NoError(t, InteractiveChart(fsys, "chart.html", chartConfig(), chartTable()))

		data, err := fsys.ReadFile("chart.html")
		require.NoError(t, err)
		html := string(data)
		assert.Contains(t, html, "trace 1")
		assert.Contains(t, html, "trace 2")
		assert.Contains(t, strings.ToLower(html), "log")
	})

	t.Run("unknown column errors", func(t *testing.T) {
		t.Parallel()
		fsys := fsutil.NewMemoryFileSystem()
		cfg := chartConfig()
		cfg.XColumn = "nope"
		assert.Error(t, InteractiveChart(fsys, "chart.html", cfg, chartTable()))
	})
}
