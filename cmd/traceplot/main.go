// Command traceplot aggregates solver trace files into one table and
// plots a log-scale scatter chart from it.
//
// Usage:
//
//	traceplot [flags] <output.png> <trace_N.yml>... [show]
//
// Every trace file's rows are unit-normalized, tagged with the id from
// its filename and concatenated. The table is cached as CSV (and
// optionally archived to SQLite) before plotting. The trailing literal
// "show" additionally writes an interactive HTML chart and opens it in
// the browser.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/simvis/internal/archive"
	"github.com/banshee-data/simvis/internal/config"
	"github.com/banshee-data/simvis/internal/fsutil"
	"github.com/banshee-data/simvis/internal/render"
	"github.com/banshee-data/simvis/internal/trace"
	"github.com/banshee-data/simvis/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a render config JSON file")
	cachePath   = flag.String("cache", "out.df", "CSV cache path for the aggregated table (empty disables)")
	archivePath = flag.String("archive", "", "SQLite archive path (empty disables archiving)")
	xColumn     = flag.String("x", trace.ColTime, "X axis column")
	yColumn     = flag.String("y", trace.ColRecomb, "Y axis column (log scale)")
	hueColumn   = flag.String("hue", trace.ColID, "Hue column (empty disables)")
	rankColumn  = flag.String("rank", trace.ColDensity, "Column used for the top/bottom report")
	topK        = flag.Int("top-k", 0, "Keep only the k largest rows by the rank column (0 keeps all)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <output.png> <trace_N.yml>... [show]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println("traceplot", version.String())
		return
	}

	args := flag.Args()
	show := false
	if n := len(args); n > 0 && args[n-1] == "show" {
		show = true
		args = args[:n-1]
	}
	if len(args) < 2 {
		flag.Usage()
		os.Exit(2)
	}
	outPath, tracePaths := args[0], args[1:]

	cfg := config.Empty()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	fsys := fsutil.OSFileSystem{}

	tbl, err := trace.LoadFiles(fsys, tracePaths)
	if err != nil {
		log.Fatalf("failed to load traces: %v", err)
	}
	log.Printf("loaded %d row(s) from %d file(s), ids %v", tbl.Len(), len(tracePaths), tbl.IDs())

	reportRankedColumn(tbl, *rankColumn)

	if *topK > 0 {
		if tbl, err = tbl.TopK(*rankColumn, *topK); err != nil {
			log.Fatalf("top-k failed: %v", err)
		}
		log.Printf("kept top %d row(s) by %s", tbl.Len(), *rankColumn)
	}

	if *cachePath != "" {
		if err := trace.WriteCSVFile(fsys, *cachePath, tbl); err != nil {
			log.Fatalf("failed to write cache: %v", err)
		}
		log.Printf("cached table to %s", *cachePath)
	}

	if *archivePath != "" {
		store, err := archive.Open(*archivePath)
		if err != nil {
			log.Fatalf("failed to open archive: %v", err)
		}
		runID, err := store.SaveRun(tbl, tracePaths)
		store.Close()
		if err != nil {
			log.Fatalf("failed to archive run: %v", err)
		}
		log.Printf("archived run %s to %s", runID, *archivePath)
	}

	chartCfg := render.ChartConfig{
		XColumn:      *xColumn,
		YColumn:      *yColumn,
		HueColumn:    *hueColumn,
		YMin:         cfg.GetChartYMin(),
		YMax:         cfg.GetChartYMax(),
		WidthInches:  cfg.GetWidthInches(),
		HeightInches: cfg.GetHeightInches(),
		Palette:      cfg.GetPalette(),
	}

	p, dropped, err := render.TraceChart(chartCfg, tbl)
	if err != nil {
		log.Fatalf("failed to build chart: %v", err)
	}
	if dropped > 0 {
		log.Printf("dropped %d row(s) with non-positive %s (log axis)", dropped, *yColumn)
	}
	if err := render.Save(fsys, p, chartCfg.WidthInches, chartCfg.HeightInches, outPath); err != nil {
		log.Fatalf("failed to save chart: %v", err)
	}
	log.Printf("wrote %s", outPath)

	if show {
		htmlPath := htmlSibling(outPath)
		if err := render.InteractiveChart(fsys, htmlPath, chartCfg, tbl); err != nil {
			log.Fatalf("failed to write interactive chart: %v", err)
		}
		if err := render.OpenBrowser(htmlPath); err != nil {
			log.Fatalf("failed to open chart: %v", err)
		}
	}
}

// reportRankedColumn prints the extremes of the rank column, the quick
// sanity check to eyeball before trusting a chart.
func reportRankedColumn(tbl trace.Table, col string) {
	top, err := tbl.TopK(col, 1)
	if err != nil {
		log.Fatalf("rank column: %v", err)
	}
	bot, _ := tbl.BottomK(col, 1)
	if top.Len() > 0 {
		topVal, _ := top.Column(col)
		botVal, _ := bot.Column(col)
		log.Printf("%s range: [%g, %g]", col, botVal[0], topVal[0])
	}
}

func htmlSibling(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
}
