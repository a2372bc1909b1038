package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/simvis/internal/geom"
	"github.com/banshee-data/simvis/internal/trace"
)

// ChartConfig describes one trace scatter chart.
type ChartConfig struct {
	XColumn   string
	YColumn   string
	HueColumn string // "" disables hue coloring

	// Y axis: log scale with fixed limits. YMin must be positive.
	YMin, YMax float64

	WidthInches  float64
	HeightInches float64

	// Palette colors categorical hues (the id column); continuous hue
	// columns get an HSL ramp instead.
	Palette []geom.Color
}

// TraceChart builds a scatter chart of one table column against another,
// Y on a log scale. When HueColumn is the source id, each id becomes its
// own legended series; any other hue column colors points by their
// normalized value. Rows with non-positive Y are dropped (they cannot
// appear on a log axis) and reported in the returned count.
func TraceChart(cfg ChartConfig, t trace.Table) (*plot.Plot, int, error) {
	if cfg.YMin <= 0 || cfg.YMax <= cfg.YMin {
		return nil, 0, fmt.Errorf("bad log-axis limits [%v, %v]", cfg.YMin, cfg.YMax)
	}

	xs, err := t.Column(cfg.XColumn)
	if err != nil {
		return nil, 0, err
	}
	ys, err := t.Column(cfg.YColumn)
	if err != nil {
		return nil, 0, err
	}

	p := plot.New()
	p.X.Label.Text = cfg.XColumn
	p.Y.Label.Text = cfg.YColumn
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Min, p.Y.Max = cfg.YMin, cfg.YMax

	dropped := 0
	if cfg.HueColumn == trace.ColID {
		dropped, err = addSeriesPerID(p, cfg, t, xs, ys)
	} else if cfg.HueColumn != "" {
		dropped, err = addContinuousHue(p, cfg, t, xs, ys)
	} else {
		dropped, err = addPlainSeries(p, cfg, xs, ys)
	}
	if err != nil {
		return nil, 0, err
	}

	p.Legend.Top = true
	return p, dropped, nil
}

func addSeriesPerID(p *plot.Plot, cfg ChartConfig, t trace.Table, xs, ys []float64) (int, error) {
	dropped := 0
	for si, id := range t.IDs() {
		var pts plotter.XYs
		for i, r := range t.Rows {
			if r.ID != id {
				continue
			}
			if ys[i] <= 0 {
				dropped++
				continue
			}
			pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		}
		if len(pts) == 0 {
			continue
		}
		sc, err := newChartScatter(pts, seriesColor(cfg.Palette, si))
		if err != nil {
			return 0, err
		}
		p.Add(sc)
		p.Legend.Add(fmt.Sprintf("trace %d", id), sc)
	}
	return dropped, nil
}

func addContinuousHue(p *plot.Plot, cfg ChartConfig, t trace.Table, xs, ys []float64) (int, error) {
	hues, err := t.Column(cfg.HueColumn)
	if err != nil {
		return 0, err
	}
	if len(hues) == 0 {
		return 0, nil
	}

	lo, hi := hues[0], hues[0]
	for _, h := range hues {
		if h < lo {
			lo = h
		}
		if h > hi {
			hi = h
		}
	}

	dropped := 0
	for i := range xs {
		if ys[i] <= 0 {
			dropped++
			continue
		}
		frac := 0.0
		if hi > lo {
			frac = (hues[i] - lo) / (hi - lo)
		}
		sc, err := newChartScatter(plotter.XYs{{X: xs[i], Y: ys[i]}}, rampColor(frac))
		if err != nil {
			return 0, err
		}
		p.Add(sc)
	}
	return dropped, nil
}

func addPlainSeries(p *plot.Plot, cfg ChartConfig, xs, ys []float64) (int, error) {
	var pts plotter.XYs
	dropped := 0
	for i := range xs {
		if ys[i] <= 0 {
			dropped++
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(pts) == 0 {
		return dropped, nil
	}
	sc, err := newChartScatter(pts, seriesColor(cfg.Palette, 0))
	if err != nil {
		return 0, err
	}
	p.Add(sc)
	return dropped, nil
}

func newChartScatter(pts plotter.XYs, c color.Color) (*plotter.Scatter, error) {
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("chart scatter: %w", err)
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Radius = vg.Points(2)
	return sc, nil
}

func seriesColor(palette []geom.Color, i int) color.Color {
	if len(palette) == 0 {
		return color.RGBA{A: 255}
	}
	return palette[i%len(palette)].RGBA()
}

// rampColor maps a normalized value onto an HSL sweep, giving continuous
// hue columns a perceptible gradient.
func rampColor(frac float64) color.Color {
	// Sweep from blue (cold) to red (hot) rather than the full wheel so
	// the extremes stay distinguishable.
	hue := (1 - frac) * 2.0 / 3.0
	r, g, b := hslToRGB(hue, 0.7, 0.5)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// hslToRGB converts HSL to RGB (0-255 range).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
