package imgops

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// fcolor is a colour with channels in [0, 1].
type fcolor struct {
	r, g, b, a float64
}

func toF(c Color) fcolor {
	return fcolor{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
}

func fromBytes(p []uint8) fcolor {
	return fcolor{float64(p[0]) / 255, float64(p[1]) / 255, float64(p[2]) / 255, float64(p[3]) / 255}
}

// mix moves every channel, alpha included, from c towards o by t.
func (c fcolor) mix(o fcolor, t float64) fcolor {
	return fcolor{
		r: c.r + (o.r-c.r)*t,
		g: c.g + (o.g-c.g)*t,
		b: c.b + (o.b-c.b)*t,
		a: c.a + (o.a-c.a)*t,
	}
}

// linear converts the colour channels from sRGB to linear RGB.
func (c fcolor) linear() fcolor {
	r, g, b := colorful.Color{R: c.r, G: c.g, B: c.b}.LinearRgb()
	return fcolor{r, g, b, c.a}
}

// srgb converts the colour channels from linear RGB back to sRGB.
func (c fcolor) srgb() fcolor {
	s := colorful.LinearRgb(c.r, c.g, c.b)
	return fcolor{s.R, s.G, s.B, c.a}
}

func (c fcolor) put(p []uint8) {
	p[0] = clampByte(math.Round(c.r * 255))
	p[1] = clampByte(math.Round(c.g * 255))
	p[2] = clampByte(math.Round(c.b * 255))
	p[3] = clampByte(math.Round(c.a * 255))
}

// gradient is a linear ramp between two colours.
type gradient struct {
	from, to fcolor
}

// At returns the colour at t, clamped to [0, 1].
func (g gradient) At(t float64) fcolor {
	t = math.Max(0, math.Min(1, t))
	return g.from.mix(g.to, t)
}
