package imgops

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Parse turns a directive string into operations. Each operation is
// introduced by '?'; text before the first '?' counts as an operation when
// it is not empty. Parse never fails: an empty token becomes a
// NullOperation and a token that cannot be read becomes an ErrorOperation
// holding a *ParseError, so every token keeps its position.
func Parse(directives string) []Operation {
	if directives == "" {
		return nil
	}
	tokens := strings.Split(directives, "?")
	if tokens[0] == "" {
		tokens = tokens[1:]
	}
	ops := make([]Operation, 0, len(tokens))
	for _, tok := range tokens {
		ops = append(ops, ParseOperation(tok))
	}
	return ops
}

// ParseOperation parses a single token, without its leading '?'.
func ParseOperation(token string) Operation {
	if token == "" {
		return NullOperation{}
	}
	op := parseOperation(token)
	if e, ok := op.(ErrorOperation); ok {
		var pe *ParseError
		if !errors.As(e.Err, &pe) {
			e.Err = &ParseError{Token: token, Err: e.Err}
		}
		return e
	}
	return op
}

// args reads the parameters of a token. The first failure sticks and later
// reads return zero values.
type args struct {
	bits []string
	err  error
}

func (a *args) fail(format string, v ...interface{}) {
	if a.err == nil {
		a.err = fmt.Errorf("%w: "+format, append([]interface{}{ErrMalformed}, v...)...)
	}
}

// between checks the parameter count, not counting the name.
func (a *args) between(lo, hi int) bool {
	n := len(a.bits) - 1
	if n < lo || n > hi {
		if lo == hi {
			a.fail("want %d parameters, got %d", lo, n)
		} else {
			a.fail("want %d to %d parameters, got %d", lo, hi, n)
		}
		return false
	}
	return true
}

func (a *args) has(i int) bool { return i < len(a.bits) }

func (a *args) str(i int) string {
	if !a.has(i) || a.bits[i] == "" {
		a.fail("parameter %d is empty", i)
		return ""
	}
	return a.bits[i]
}

func (a *args) float(i int) float64 {
	s := a.str(i)
	if a.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		a.fail("parameter %d: %q is not a number", i, s)
	}
	return f
}

func (a *args) int(i int) int {
	s := a.str(i)
	if a.err != nil {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		a.fail("parameter %d: %q is not an integer", i, s)
	}
	return v
}

func (a *args) color(i int) Color {
	s := a.str(i)
	if a.err != nil {
		return Color{}
	}
	c, err := ParseColor(s)
	if err != nil && a.err == nil {
		a.err = err
	}
	return c
}

func (a *args) key(i int) WideKey {
	s := a.str(i)
	if a.err != nil {
		return WideKey{}
	}
	k, err := ParseWideKey(s)
	if err != nil && a.err == nil {
		a.err = err
	}
	return k
}

// point reads an optional pair of coordinates starting at i.
func (a *args) point(i int) image.Point {
	var p image.Point
	if a.has(i) {
		p.X = a.int(i)
	}
	if a.has(i + 1) {
		p.Y = a.int(i + 1)
	}
	return p
}

func parseOperation(token string) Operation {
	a := &args{bits: splitAny(token, "=;")}
	name := a.bits[0]

	var op Operation
	switch name {
	case "hueshift":
		if a.between(1, 1) {
			op = HueShiftDegrees(a.float(1))
		}
	case "saturation":
		if a.between(1, 1) {
			op = SaturationShift100(a.float(1))
		}
	case "brightness":
		if a.between(1, 1) {
			op = BrightnessMultiply100(a.float(1))
		}
	case "fade":
		if a.between(2, 2) {
			op = NewFadeToColor(a.color(1), a.float(2))
		}
	case "scanlines":
		if a.between(4, 4) {
			op = NewScanLines(a.color(1), a.float(2), a.color(3), a.float(4))
		}
	case "setcolor":
		if a.between(1, 1) {
			op = SetColor{Color: a.color(1)}
		}
	case "replace":
		if (len(a.bits)-1)%2 != 0 {
			a.fail("replace wants pairs of colours")
			break
		}
		m := make(map[WideKey]Color, (len(a.bits)-1)/2)
		for i := 1; i+1 < len(a.bits); i += 2 {
			m[a.key(i)] = a.color(i + 1)
		}
		op = ColorReplace{Map: m}
	case "addmask", "submask":
		if a.between(1, 3) {
			mode := MaskAdditive
			if name == "submask" {
				mode = MaskSubtractive
			}
			op = NewAlphaMask(mode, strings.Split(a.str(1), "+"), a.point(2))
		}
	case "blendmult", "blendscreen":
		if a.between(1, 3) {
			mode := BlendMultiply
			if name == "blendscreen" {
				mode = BlendScreen
			}
			op = NewBlend(mode, strings.Split(a.str(1), "+"), a.point(2))
		}
	case "multiply":
		if a.between(1, 1) {
			op = Multiply{Color: a.color(1)}
		}
	case "border", "outline":
		if a.between(2, 4) {
			start := a.color(2)
			end := start
			if a.has(3) {
				end = a.color(3)
			}
			transparent := false
			if a.has(4) {
				if a.str(4) != "transparent" {
					a.fail("unknown border flag %q", a.bits[4])
				}
				transparent = true
			}
			op = NewBorder(a.int(1), start, end, name == "outline", transparent)
		}
	case "scalenearest", "scalebilinear", "scalebicubic", "scale", "scalenearestpixel":
		if a.between(1, 2) {
			sx := a.float(1)
			sy := sx
			if a.has(2) {
				sy = a.float(2)
			}
			op = NewScale(scaleModes[name], sx, sy)
		}
	case "crop":
		if a.between(4, 4) {
			op = Crop{Rect: image.Rect(a.int(1), a.int(2), a.int(3), a.int(4))}
		}
	case "flipx", "flipy", "flipxy":
		if a.between(0, 0) {
			op = Flip{Mode: flipModes[name]}
		}
	case "setpixel", "blendpixel":
		if a.between(3, 3) {
			p := image.Pt(a.int(1), a.int(2))
			c := a.color(3)
			if name == "setpixel" {
				op = SetPixel{At: p, Color: c}
			} else {
				op = BlendPixel{At: p, Color: c}
			}
		}
	case "copyinto", "drawinto":
		if a.between(1, 3) {
			img := a.str(1)
			p := a.point(2)
			if name == "copyinto" {
				op = NewCopyInto(img, p)
			} else {
				op = NewDrawInto(img, p)
			}
		}
	default:
		return ErrorOperation{Err: &ParseError{Token: token, Err: fmt.Errorf("%w %q", ErrUnknownOperation, name)}}
	}

	if a.err != nil {
		return ErrorOperation{Err: &ParseError{Token: token, Err: a.err}}
	}
	return op
}

var scaleModes = map[string]ScaleMode{
	"scalenearest":      ScaleNearest,
	"scalebilinear":     ScaleBilinear,
	"scalebicubic":      ScaleBicubic,
	"scale":             ScaleBilinear,
	"scalenearestpixel": ScaleNearestPixel,
}

var flipModes = map[string]FlipMode{
	"flipx":  FlipX,
	"flipy":  FlipY,
	"flipxy": FlipXY,
}

// splitAny splits s at every byte in seps, keeping empty fields.
func splitAny(s, seps string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(seps, s[i]) >= 0 {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
