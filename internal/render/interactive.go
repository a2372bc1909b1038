package render

import (
	"fmt"
	"log"
	"os/exec"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/simvis/internal/fsutil"
	"github.com/banshee-data/simvis/internal/trace"
)

// InteractiveChart writes a self-contained go-echarts HTML page for the
// same chart TraceChart renders to PNG, one scatter series per source id
// with the Y axis on a log scale. This is what "show" mode opens in the
// browser.
func InteractiveChart(fsys fsutil.FileSystem, path string, cfg ChartConfig, t trace.Table) error {
	xs, err := t.Column(cfg.XColumn)
	if err != nil {
		return err
	}
	ys, err := t.Column(cfg.YColumn)
	if err != nil {
		return err
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("%s over %s", cfg.YColumn, cfg.XColumn),
			Width:     "1100px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s over %s", cfg.YColumn, cfg.XColumn),
			Subtitle: fmt.Sprintf("%d rows from %d trace file(s)", t.Len(), len(t.IDs())),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: cfg.XColumn, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: cfg.YColumn,
			Type: "log",
			Min:  cfg.YMin,
			Max:  cfg.YMax,
		}),
	)

	for _, id := range t.IDs() {
		var data []opts.ScatterData
		for i, r := range t.Rows {
			if r.ID != id || ys[i] <= 0 {
				continue
			}
			data = append(data, opts.ScatterData{Value: []interface{}{xs[i], ys[i]}})
		}
		scatter.AddSeries(fmt.Sprintf("trace %d", id), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	}

	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := scatter.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("render chart %s: %w", path, err)
	}
	return f.Close()
}

// OpenBrowser opens a URL or file path with the platform's default
// browser opener.
func OpenBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	log.Printf("opening %s", url)
	if err := exec.Command(cmd, args...).Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}
