// Command shapeplot renders directories of shape dump files (one frame
// per file) onto a fixed-extent 2D canvas, one PNG per frame.
//
// Usage:
//
//	shapeplot [flags] <output-dir> <input-dir>... [show]
//
// Each input directory is one simulation run; the N-th file (in
// lexicographic order) of every run is composited into frame N, with each
// run tinted by a palette color. The trailing literal "show" opens every
// rendered frame in the terminal instead of only writing files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/simvis/internal/config"
	"github.com/banshee-data/simvis/internal/fsutil"
	"github.com/banshee-data/simvis/internal/render"
	"github.com/banshee-data/simvis/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a render config JSON file")
	zoom        = flag.Bool("zoom", false, "Use the zoomed canvas extent instead of the whole domain")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <output-dir> <input-dir>... [show]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println("shapeplot", version.String())
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
	outDir, inputDirs := args[0], args[1:]

	cfg := config.Empty()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	extent := cfg.GetDomainExtent()
	if *zoom {
		extent = cfg.GetZoomExtent()
	}

	fr := &render.FrameSet{
		FS: fsutil.OSFileSystem{},
		Canvas: render.CanvasConfig{
			Extent:       extent,
			WidthInches:  cfg.GetWidthInches(),
			HeightInches: cfg.GetHeightInches(),
			PointRadius:  cfg.GetPointRadius(),
		},
		Palette:      cfg.GetPalette(),
		DefaultColor: cfg.GetDefaultColor(),
	}
	if show {
		fr.Preview = &render.TerminalPreview{
			ScalerCmd: cfg.GetPreviewScaler(),
			ViewerCmd: cfg.GetPreviewViewer(),
			Width:     cfg.GetPreviewWidth(),
		}
	}

	n, err := fr.RenderAll(outDir, inputDirs)
	if err != nil {
		log.Fatalf("render failed: %v", err)
	}
	log.Printf("rendered %d frame(s) from %d run(s) into %s", n, len(inputDirs), outDir)
}
