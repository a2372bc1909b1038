package geom

import "image/color"

// Color is an RGBA color with float64 channels in [0,1].
// Alpha is never gamma-encoded.
type Color struct {
	R, G, B, A float64
}

// Opaque black, used when a shape line carries no color segment and the
// caller supplies nothing better.
var DefaultColor = Color{R: 0, G: 0, B: 0, A: 1}

// Mix blends a tint into c by channel-wise averaging of R, G and B.
// The result keeps c's alpha; the tint's alpha is ignored, so tinting a
// batch of shapes never changes their translucency.
func (c Color) Mix(tint Color) Color {
	return Color{
		R: (c.R + tint.R) / 2,
		G: (c.G + tint.G) / 2,
		B: (c.B + tint.B) / 2,
		A: c.A,
	}
}

// RGBA converts to an 8-bit image/color value for the plot backends.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: clamp8(c.R),
		G: clamp8(c.G),
		B: clamp8(c.B),
		A: clamp8(c.A),
	}
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
