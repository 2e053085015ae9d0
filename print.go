package imgops

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Print writes operations as a directive string. Every operation is
// preceded by '?'; an empty sequence prints as "". Null and error
// operations print as an empty token.
func Print(ops []Operation) string {
	var b strings.Builder
	for _, op := range ops {
		b.WriteByte('?')
		b.WriteString(PrintOperation(op))
	}
	return b.String()
}

// PrintOperation writes a single operation without its leading '?'.
// Parsing the result gives back an identical operation.
func PrintOperation(op Operation) string {
	switch op := op.(type) {
	case HueShift:
		return "hueshift=" + formatInverse(op.Amount, op.Amount*360, hueFromDegrees)
	case SaturationShift:
		return "saturation=" + formatInverse(op.Amount, op.Amount*100, saturationFromPercent)
	case BrightnessMultiply:
		return "brightness=" + formatInverse(op.Multiplier, (op.Multiplier-1)*100, multiplierFromPercent)
	case FadeToColor:
		return "fade=" + printFade(op)
	case ScanLines:
		return "scanlines=" + printFade(op.Fade1) + ";" + printFade(op.Fade2)
	case SetColor:
		return "setcolor=" + op.Color.Hex()
	case ColorReplace:
		return printReplace(op)
	case AlphaMask:
		name := "addmask"
		if op.Mode == MaskSubtractive {
			name = "submask"
		}
		return fmt.Sprintf("%s=%s;%d;%d", name, strings.Join(op.Images, "+"), op.Offset.X, op.Offset.Y)
	case Blend:
		name := "blendmult"
		if op.Mode == BlendScreen {
			name = "blendscreen"
		}
		return fmt.Sprintf("%s=%s;%d;%d", name, strings.Join(op.Images, "+"), op.Offset.X, op.Offset.Y)
	case Multiply:
		return "multiply=" + op.Color.Hex()
	case Border:
		name := "border"
		if op.OutlineOnly {
			name = "outline"
		}
		s := fmt.Sprintf("%s=%d;%s;%s", name, op.Pixels, op.Start.Hex(), op.End.Hex())
		if op.IncludeTransparent {
			s += ";transparent"
		}
		return s
	case Scale:
		f := op.factor()
		return fmt.Sprintf("%s=%s;%s", scaleNames[op.Mode], formatFloat(f.X), formatFloat(f.Y))
	case Crop:
		r := op.Rect
		return fmt.Sprintf("crop=%d;%d;%d;%d", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
	case Flip:
		return flipNames[op.Mode]
	case SetPixel:
		return fmt.Sprintf("setpixel=%d;%d;%s", op.At.X, op.At.Y, op.Color.Hex())
	case BlendPixel:
		return fmt.Sprintf("blendpixel=%d;%d;%s", op.At.X, op.At.Y, op.Color.Hex())
	case CopyInto:
		return fmt.Sprintf("copyinto=%s;%d;%d", op.Image, op.Offset.X, op.Offset.Y)
	case DrawInto:
		return fmt.Sprintf("drawinto=%s;%d;%d", op.Image, op.Offset.X, op.Offset.Y)
	}
	return ""
}

var scaleNames = map[ScaleMode]string{
	ScaleNearest:      "scalenearest",
	ScaleBilinear:     "scalebilinear",
	ScaleBicubic:      "scalebicubic",
	ScaleNearestPixel: "scalenearestpixel",
}

var flipNames = map[FlipMode]string{
	FlipX:  "flipx",
	FlipY:  "flipy",
	FlipXY: "flipxy",
}

func printFade(f FadeToColor) string {
	return f.Color.RGB().Hex() + ";" + formatFloat(f.Amount)
}

// printReplace writes pairs sorted by key so output is stable.
func printReplace(op ColorReplace) string {
	keys := make([]WideKey, 0, len(op.Map))
	for k := range op.Map {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })

	var b strings.Builder
	b.WriteString("replace")
	for _, k := range keys {
		b.WriteByte(';')
		b.WriteString(k.Hex())
		b.WriteByte('=')
		b.WriteString(op.Map[k].Hex())
	}
	return b.String()
}

func keyLess(a, b WideKey) bool {
	ka := [5]uint8{a.R, a.G, a.B, a.A, a.Tag}
	kb := [5]uint8{b.R, b.G, b.B, b.A, b.Tag}
	for i := range ka {
		if ka[i] != kb[i] {
			return ka[i] < kb[i]
		}
	}
	return false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatInverse prints a human unit value u such that fwd(u) == v, starting
// from guess and stepping outward one ulp at a time.
func formatInverse(v, guess float64, fwd func(float64) float64) string {
	if fwd(guess) == v {
		return formatFloat(guess)
	}
	up, down := guess, guess
	for i := 0; i < 64; i++ {
		up = math.Nextafter(up, math.Inf(1))
		if fwd(up) == v {
			return formatFloat(up)
		}
		down = math.Nextafter(down, math.Inf(-1))
		if fwd(down) == v {
			return formatFloat(down)
		}
	}
	return formatFloat(guess)
}
