package imgops

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color is a non-premultiplied 8 bit per channel RGBA colour.
type Color struct {
	R, G, B, A uint8
}

// WideKey is the lookup key used by colour replacement. Tag separates
// colours that share an RGBA value but belong to different logical groups.
type WideKey struct {
	Color
	Tag uint8
}

// NRGBA returns the colour as a stdlib color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// RGB returns the colour with alpha forced to fully opaque.
func (c Color) RGB() Color {
	c.A = 255
	return c
}

// Hex returns rrggbb when the colour is opaque and rrggbbaa otherwise.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Hex returns the colour hex of the key, with the tag appended as a fifth
// byte when it is non-zero.
func (k WideKey) Hex() string {
	if k.Tag == 0 {
		return k.Color.Hex()
	}
	return fmt.Sprintf("%02x%02x%02x%02x%02x", k.R, k.G, k.B, k.A, k.Tag)
}

// namedColors are accepted wherever a colour is parsed. Printing always
// produces hex.
var namedColors = map[string]Color{
	"black":   {0, 0, 0, 255},
	"white":   {255, 255, 255, 255},
	"red":     {255, 0, 0, 255},
	"green":   {0, 255, 0, 255},
	"blue":    {0, 0, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"magenta": {255, 0, 255, 255},
	"cyan":    {0, 255, 255, 255},
	"orange":  {255, 165, 0, 255},
	"pink":    {255, 192, 203, 255},
	"gray":    {128, 128, 128, 255},
	"grey":    {128, 128, 128, 255},
	"clear":   {0, 0, 0, 0},
}

// ParseColor parses a colour given as 3, 4, 6 or 8 hex digits or as one of
// a small set of colour names. A missing alpha component means opaque.
func ParseColor(s string) (Color, error) {
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	switch len(s) {
	case 3, 4:
		v, err := parseHex(s)
		if err != nil {
			return Color{}, err
		}
		c := Color{R: v[0] * 17, G: v[1] * 17, B: v[2] * 17, A: 255}
		if len(s) == 4 {
			c.A = v[3] * 17
		}
		return c, nil
	case 6, 8:
		v, err := parseHex(s)
		if err != nil {
			return Color{}, err
		}
		c := Color{R: v[0]<<4 | v[1], G: v[2]<<4 | v[3], B: v[4]<<4 | v[5], A: 255}
		if len(s) == 8 {
			c.A = v[6]<<4 | v[7]
		}
		return c, nil
	}
	return Color{}, fmt.Errorf("%w: bad colour %q", ErrMalformed, s)
}

// ParseWideKey parses a colour as ParseColor does, additionally accepting
// 10 hex digits where the last byte is the key tag.
func ParseWideKey(s string) (WideKey, error) {
	if len(s) != 10 {
		c, err := ParseColor(s)
		return WideKey{Color: c}, err
	}
	v, err := parseHex(s)
	if err != nil {
		return WideKey{}, err
	}
	return WideKey{
		Color: Color{R: v[0]<<4 | v[1], G: v[2]<<4 | v[3], B: v[4]<<4 | v[5], A: v[6]<<4 | v[7]},
		Tag:   v[8]<<4 | v[9],
	}, nil
}

// parseHex returns the nibble values of a string of hex digits.
func parseHex(s string) ([]uint8, error) {
	out := make([]uint8, len(s))
	for i := 0; i < len(s); i++ {
		v, err := strconv.ParseUint(s[i:i+1], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: bad colour %q", ErrMalformed, s)
		}
		out[i] = uint8(v)
	}
	return out, nil
}

// FadeTable maps an input channel value to its faded output value.
type FadeTable [256]uint8

// newFadeTable builds the table for fading a channel towards target by
// amount, where 0 leaves the channel as is and 1 replaces it with target.
func newFadeTable(target uint8, amount float64) FadeTable {
	var t FadeTable
	for v := 0; v < 256; v++ {
		f := float64(v) + float64((float64(target)-float64(v))*amount)
		t[v] = clampByte(math.Round(f))
	}
	return t
}

// clampByte clamps f into [0, 255] and converts it, truncating any fraction.
func clampByte(f float64) uint8 {
	if f <= 0 || math.IsNaN(f) {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(f)
}
