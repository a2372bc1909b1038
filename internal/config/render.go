// Package config loads the JSON render configuration. All knobs the
// renderers used to keep as globals (palette, canvas extents, image size,
// preview commands, chart limits) live here, with explicit defaults
// supplied by the getter methods so partial config files are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/banshee-data/simvis/internal/geom"
)

// Extent mirrors geom.Extent in the JSON schema.
type Extent struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// RenderConfig is the root render configuration. Fields are pointers so a
// JSON file only overrides what it mentions; use the Get* methods to read
// values with defaults applied.
type RenderConfig struct {
	// Shape canvas
	Palette      []string `json:"palette,omitempty"`       // hex tints, e.g. "#1f77b4"
	DefaultColor *string  `json:"default_color,omitempty"` // hex, shapes without a color segment
	DomainExtent *Extent  `json:"domain_extent,omitempty"` // whole-domain view
	ZoomExtent   *Extent  `json:"zoom_extent,omitempty"`   // zoomed view
	WidthInches  *float64 `json:"width_inches,omitempty"`
	HeightInches *float64 `json:"height_inches,omitempty"`
	PointRadius  *float64 `json:"point_radius,omitempty"` // world units for Point markers

	// Terminal preview subprocesses
	PreviewScaler *string `json:"preview_scaler,omitempty"`
	PreviewViewer *string `json:"preview_viewer,omitempty"`
	PreviewWidth  *int    `json:"preview_width,omitempty"` // scaled pixel width

	// Trace chart
	ChartYMin *float64 `json:"chart_y_min,omitempty"`
	ChartYMax *float64 `json:"chart_y_max,omitempty"`
}

// Defaults. The palette is the matplotlib tab10 cycle the solver's plots
// have always used; extents match the unit simulation box.
var defaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

const (
	defaultDefaultColor = "#000000"
	defaultWidthInches  = 8.0
	defaultHeightInches = 8.0
	defaultPointRadius  = 0.002
	defaultScaler       = "magick"
	defaultViewer       = "icat"
	defaultPreviewWidth = 800
	defaultChartYMin    = 1e-4
	defaultChartYMax    = 1.0
)

var (
	defaultDomainExtent = Extent{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}
	defaultZoomExtent   = Extent{MinX: 0.4, MinY: 0.4, MaxX: 0.6, MaxY: 0.6}
)

// Empty returns a RenderConfig with every field unset.
func Empty() *RenderConfig {
	return &RenderConfig{}
}

// Load reads a RenderConfig from a JSON file. The path must have a .json
// extension and the file must be under 1MB; omitted fields keep their
// defaults.
func Load(path string) (*RenderConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every set field; unset fields are always valid because
// the defaults are.
func (c *RenderConfig) Validate() error {
	for _, hex := range c.Palette {
		if _, err := ParseHexColor(hex); err != nil {
			return fmt.Errorf("palette: %w", err)
		}
	}
	if c.DefaultColor != nil {
		if _, err := ParseHexColor(*c.DefaultColor); err != nil {
			return fmt.Errorf("default_color: %w", err)
		}
	}
	if c.DomainExtent != nil && !toGeomExtent(*c.DomainExtent).Valid() {
		return fmt.Errorf("domain_extent: degenerate bounding box")
	}
	if c.ZoomExtent != nil && !toGeomExtent(*c.ZoomExtent).Valid() {
		return fmt.Errorf("zoom_extent: degenerate bounding box")
	}
	if c.WidthInches != nil && *c.WidthInches <= 0 {
		return fmt.Errorf("width_inches must be positive, got %v", *c.WidthInches)
	}
	if c.HeightInches != nil && *c.HeightInches <= 0 {
		return fmt.Errorf("height_inches must be positive, got %v", *c.HeightInches)
	}
	if c.PointRadius != nil && *c.PointRadius <= 0 {
		return fmt.Errorf("point_radius must be positive, got %v", *c.PointRadius)
	}
	if c.PreviewWidth != nil && *c.PreviewWidth <= 0 {
		return fmt.Errorf("preview_width must be positive, got %v", *c.PreviewWidth)
	}
	if c.ChartYMin != nil && *c.ChartYMin <= 0 {
		return fmt.Errorf("chart_y_min must be positive on a log axis, got %v", *c.ChartYMin)
	}
	if c.ChartYMin != nil && c.ChartYMax != nil && *c.ChartYMax <= *c.ChartYMin {
		return fmt.Errorf("chart_y_max %v must exceed chart_y_min %v", *c.ChartYMax, *c.ChartYMin)
	}
	return nil
}

// GetPalette returns the tint cycle as parsed colors.
func (c *RenderConfig) GetPalette() []geom.Color {
	hexes := c.Palette
	if len(hexes) == 0 {
		hexes = defaultPalette
	}
	out := make([]geom.Color, len(hexes))
	for i, h := range hexes {
		col, err := ParseHexColor(h)
		if err != nil {
			// Validate catches this for loaded configs; a hand-built
			// config with bad hex falls back to the default color.
			col = geom.DefaultColor
		}
		out[i] = col
	}
	return out
}

// GetDefaultColor returns the color for shapes without a color segment.
func (c *RenderConfig) GetDefaultColor() geom.Color {
	hex := defaultDefaultColor
	if c.DefaultColor != nil {
		hex = *c.DefaultColor
	}
	col, err := ParseHexColor(hex)
	if err != nil {
		return geom.DefaultColor
	}
	return col
}

// GetDomainExtent returns the whole-domain canvas window.
func (c *RenderConfig) GetDomainExtent() geom.Extent {
	if c.DomainExtent != nil {
		return toGeomExtent(*c.DomainExtent)
	}
	return toGeomExtent(defaultDomainExtent)
}

// GetZoomExtent returns the zoomed canvas window.
func (c *RenderConfig) GetZoomExtent() geom.Extent {
	if c.ZoomExtent != nil {
		return toGeomExtent(*c.ZoomExtent)
	}
	return toGeomExtent(defaultZoomExtent)
}

// GetWidthInches returns the output image width.
func (c *RenderConfig) GetWidthInches() float64 {
	if c.WidthInches != nil {
		return *c.WidthInches
	}
	return defaultWidthInches
}

// GetHeightInches returns the output image height.
func (c *RenderConfig) GetHeightInches() float64 {
	if c.HeightInches != nil {
		return *c.HeightInches
	}
	return defaultHeightInches
}

// GetPointRadius returns the world-space radius Point shapes render at.
func (c *RenderConfig) GetPointRadius() float64 {
	if c.PointRadius != nil {
		return *c.PointRadius
	}
	return defaultPointRadius
}

// GetPreviewScaler returns the image-scaling command for terminal preview.
func (c *RenderConfig) GetPreviewScaler() string {
	if c.PreviewScaler != nil {
		return *c.PreviewScaler
	}
	return defaultScaler
}

// GetPreviewViewer returns the terminal image viewer command.
func (c *RenderConfig) GetPreviewViewer() string {
	if c.PreviewViewer != nil {
		return *c.PreviewViewer
	}
	return defaultViewer
}

// GetPreviewWidth returns the pixel width previews are scaled to.
func (c *RenderConfig) GetPreviewWidth() int {
	if c.PreviewWidth != nil {
		return *c.PreviewWidth
	}
	return defaultPreviewWidth
}

// GetChartYMin returns the lower Y limit of the trace chart.
func (c *RenderConfig) GetChartYMin() float64 {
	if c.ChartYMin != nil {
		return *c.ChartYMin
	}
	return defaultChartYMin
}

// GetChartYMax returns the upper Y limit of the trace chart.
func (c *RenderConfig) GetChartYMax() float64 {
	if c.ChartYMax != nil {
		return *c.ChartYMax
	}
	return defaultChartYMax
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" into a geom.Color.
func ParseHexColor(s string) (geom.Color, error) {
	if len(s) == 0 || s[0] != '#' || (len(s) != 7 && len(s) != 9) {
		return geom.Color{}, fmt.Errorf("bad hex color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 64)
	if err != nil {
		return geom.Color{}, fmt.Errorf("bad hex color %q", s)
	}
	c := geom.Color{A: 1}
	if len(s) == 9 {
		c.A = float64(v&0xff) / 255
		v >>= 8
	}
	c.B = float64(v&0xff) / 255
	v >>= 8
	c.G = float64(v&0xff) / 255
	v >>= 8
	c.R = float64(v&0xff) / 255
	return c, nil
}

func toGeomExtent(e Extent) geom.Extent {
	return geom.Extent{MinX: e.MinX, MinY: e.MinY, MaxX: e.MaxX, MaxY: e.MaxY}
}
