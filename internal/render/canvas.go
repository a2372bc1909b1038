// Package render turns parsed shapes and aggregated trace tables into
// images: fixed-extent 2D canvases of outlined patches and scatter layers,
// log-scale trace charts, and (for interactive use) go-echarts HTML pages.
package render

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/simvis/internal/fsutil"
	"github.com/banshee-data/simvis/internal/geom"
)

// circleSegments is the outline resolution for circle patches.
const circleSegments = 64

// CanvasConfig carries everything the shape canvas needs; there is no
// shared figure state between render passes.
type CanvasConfig struct {
	// Extent is the fixed world-space window; shapes outside it are
	// clipped by the axes, not dropped.
	Extent geom.Extent

	// Output size in inches.
	WidthInches  float64
	HeightInches float64

	// PointRadius is the world-space radius Point markers render at.
	PointRadius float64
}

// Batch is one source file's worth of shapes plus the tint that visually
// groups them. Tinting happens here so parsed shapes keep their base color.
type Batch struct {
	Label  string
	Tint   geom.Color
	Shapes []geom.Shape
}

// Stats reports what a canvas render actually drew.
type Stats struct {
	Patches         int
	Points          int
	SkippedPolygons int
}

// Shapes composites all batches onto one canvas. Circles and triangles
// become outlined (unfilled) patches; points become a scatter layer.
// General polygons are accepted but not drawn: the upstream renderer has
// that branch disabled, so they are counted in Stats instead of silently
// vanishing.
func Shapes(cfg CanvasConfig, batches []Batch) (*plot.Plot, Stats, error) {
	if !cfg.Extent.Valid() {
		return nil, Stats{}, fmt.Errorf("degenerate canvas extent %+v", cfg.Extent)
	}

	p := plot.New()
	p.X.Min, p.X.Max = cfg.Extent.MinX, cfg.Extent.MaxX
	p.Y.Min, p.Y.Max = cfg.Extent.MinY, cfg.Extent.MaxY

	var stats Stats
	for _, b := range batches {
		var pts plotter.XYs
		var legendThumb plot.Thumbnailer

		for _, s := range b.Shapes {
			c := s.Color.Mix(b.Tint)
			switch s.Kind {
			case geom.KindPoint:
				x, y := s.Center()
				pts = append(pts, plotter.XY{X: x, Y: y})
			case geom.KindCircle:
				ln, err := outline(circlePoints(s), c)
				if err != nil {
					return nil, Stats{}, err
				}
				p.Add(ln)
				legendThumb = ln
				stats.Patches++
			case geom.KindTriangle:
				ln, err := outline(ringPoints(s.Vertices()), c)
				if err != nil {
					return nil, Stats{}, err
				}
				p.Add(ln)
				legendThumb = ln
				stats.Patches++
			case geom.KindPolygon:
				stats.SkippedPolygons++
			}
		}

		if len(pts) > 0 {
			sc, err := plotter.NewScatter(pts)
			if err != nil {
				return nil, Stats{}, fmt.Errorf("scatter layer: %w", err)
			}
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			sc.GlyphStyle.Color = geom.DefaultColor.Mix(b.Tint).RGBA()
			sc.GlyphStyle.Radius = pointGlyphRadius(cfg)
			p.Add(sc)
			legendThumb = sc
			stats.Points += len(pts)
		}

		if b.Label != "" && legendThumb != nil {
			p.Legend.Add(b.Label, legendThumb)
		}
	}

	p.Legend.Top = true
	return p, stats, nil
}

// Save renders a plot to a raster file through the filesystem abstraction.
// The format follows the path extension (".png" in practice).
func Save(fsys fsutil.FileSystem, p *plot.Plot, widthInches, heightInches float64, path string) error {
	wt, err := p.WriterTo(vg.Length(widthInches)*vg.Inch, vg.Length(heightInches)*vg.Inch, format(path))
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func format(path string) string {
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		return ext
	}
	return "png"
}

func outline(pts plotter.XYs, c geom.Color) (*plotter.Line, error) {
	ln, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("patch outline: %w", err)
	}
	ln.Color = c.RGBA()
	ln.Width = vg.Points(1)
	return ln, nil
}

// circlePoints approximates a circle outline with a closed polyline.
func circlePoints(s geom.Shape) plotter.XYs {
	x, y := s.Center()
	r := s.Radius()
	pts := make(plotter.XYs, circleSegments+1)
	for i := 0; i <= circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = plotter.XY{X: x + r*math.Cos(a), Y: y + r*math.Sin(a)}
	}
	return pts
}

// ringPoints closes a vertex list back to its first corner.
func ringPoints(vs []geom.Vertex) plotter.XYs {
	pts := make(plotter.XYs, 0, len(vs)+1)
	for _, v := range vs {
		pts = append(pts, plotter.XY{X: v.X, Y: v.Y})
	}
	pts = append(pts, pts[0])
	return pts
}

// pointGlyphRadius converts the configured world-space point radius into
// paper units for the scatter glyphs.
func pointGlyphRadius(cfg CanvasConfig) vg.Length {
	frac := cfg.PointRadius / cfg.Extent.Width()
	r := vg.Length(frac*cfg.WidthInches) * vg.Inch
	if r < vg.Points(1) {
		return vg.Points(1)
	}
	return r
}
