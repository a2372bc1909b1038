package geom

// Extent is an axis-aligned world-space bounding box, used as the fixed
// canvas window for a render pass.
type Extent struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Valid reports whether the extent spans a positive area.
func (e Extent) Valid() bool {
	return e.MaxX > e.MinX && e.MaxY > e.MinY
}

// Width returns the horizontal span.
func (e Extent) Width() float64 { return e.MaxX - e.MinX }

// Height returns the vertical span.
func (e Extent) Height() float64 { return e.MaxY - e.MinY }
