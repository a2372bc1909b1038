package render

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/banshee-data/simvis/internal/fsutil"
	"github.com/banshee-data/simvis/internal/geom"
)

// FrameSet renders a sequence of frames from one or more input
// directories. Files in each directory are discovered and sorted
// lexicographically; the N-th file of every directory forms frame N, and
// each directory's batch gets a tint cycling through the palette so runs
// can be told apart on the shared canvas.
type FrameSet struct {
	FS           fsutil.FileSystem
	Canvas       CanvasConfig
	Palette      []geom.Color
	DefaultColor geom.Color

	// Preview, when non-nil, is invoked after every written frame. A
	// preview failure aborts the run.
	Preview *TerminalPreview
}

// FrameGroup is one frame's input files: Files[i] is the contribution of
// the i-th input directory, empty when that directory has fewer frames.
type FrameGroup struct {
	Index int
	Files []string
}

// Discover builds the frame groups for a set of input directories.
func (fr *FrameSet) Discover(dirs []string) ([]FrameGroup, error) {
	perDir := make([][]string, len(dirs))
	maxFrames := 0
	for i, dir := range dirs {
		names, err := fr.FS.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("discover frames in %s: %w", dir, err)
		}
		perDir[i] = names
		if len(names) > maxFrames {
			maxFrames = len(names)
		}
	}

	groups := make([]FrameGroup, 0, maxFrames)
	for idx := 0; idx < maxFrames; idx++ {
		g := FrameGroup{Index: idx, Files: make([]string, len(dirs))}
		for i, names := range perDir {
			if idx < len(names) {
				g.Files[i] = filepath.Join(dirs[i], names[idx])
			}
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// RenderAll discovers frames under dirs and writes one PNG per frame into
// outDir, named by zero-padded frame index. The output directory is
// created if absent. Returns the number of frames written.
func (fr *FrameSet) RenderAll(outDir string, dirs []string) (int, error) {
	if len(fr.Palette) == 0 {
		return 0, fmt.Errorf("empty tint palette")
	}

	groups, err := fr.Discover(dirs)
	if err != nil {
		return 0, err
	}
	if err := fr.FS.MkdirAll(outDir, 0755); err != nil {
		return 0, fmt.Errorf("create output dir %s: %w", outDir, err)
	}

	for _, g := range groups {
		out := filepath.Join(outDir, fmt.Sprintf("frame_%04d.png", g.Index))
		if err := fr.renderGroup(g, out); err != nil {
			return g.Index, err
		}
	}
	return len(groups), nil
}

func (fr *FrameSet) renderGroup(g FrameGroup, out string) error {
	var batches []Batch
	for i, path := range g.Files {
		if path == "" {
			continue
		}
		shapes, err := fr.parseShapeFile(path)
		if err != nil {
			return err
		}
		batches = append(batches, Batch{
			Label:  filepath.Base(filepath.Dir(path)),
			Tint:   fr.Palette[i%len(fr.Palette)],
			Shapes: shapes,
		})
	}

	p, stats, err := Shapes(fr.Canvas, batches)
	if err != nil {
		return fmt.Errorf("frame %d: %w", g.Index, err)
	}
	if stats.SkippedPolygons > 0 {
		log.Printf("frame %d: skipped %d polygon(s); polygon rendering is disabled", g.Index, stats.SkippedPolygons)
	}

	if err := Save(fr.FS, p, fr.Canvas.WidthInches, fr.Canvas.HeightInches, out); err != nil {
		return err
	}
	log.Printf("wrote %s (%d patches, %d points)", out, stats.Patches, stats.Points)

	if fr.Preview != nil {
		if err := fr.Preview.Show(out); err != nil {
			return fmt.Errorf("preview %s: %w", out, err)
		}
	}
	return nil
}

func (fr *FrameSet) parseShapeFile(path string) ([]geom.Shape, error) {
	f, err := fr.FS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapes %s: %w", path, err)
	}
	defer f.Close()

	shapes, err := geom.ParseFile(f, fr.DefaultColor)
	if err != nil {
		return nil, fmt.Errorf("parse shapes %s: %w", path, err)
	}
	return shapes, nil
}
