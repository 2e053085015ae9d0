package imgops

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// Kind identifies the variant of an Operation.
type Kind int

const (
	KindNull Kind = iota
	KindError
	KindHueShift
	KindSaturationShift
	KindBrightnessMultiply
	KindFadeToColor
	KindScanLines
	KindSetColor
	KindColorReplace
	KindAlphaMask
	KindBlend
	KindMultiply
	KindBorder
	KindScale
	KindCrop
	KindFlip
	KindSetPixel
	KindBlendPixel
	KindCopyInto
	KindDrawInto
)

var kindNames = [...]string{
	KindNull:               "null",
	KindError:              "error",
	KindHueShift:           "hueshift",
	KindSaturationShift:    "saturation",
	KindBrightnessMultiply: "brightness",
	KindFadeToColor:        "fade",
	KindScanLines:          "scanlines",
	KindSetColor:           "setcolor",
	KindColorReplace:       "replace",
	KindAlphaMask:          "mask",
	KindBlend:              "blend",
	KindMultiply:           "multiply",
	KindBorder:             "border",
	KindScale:              "scale",
	KindCrop:               "crop",
	KindFlip:               "flip",
	KindSetPixel:           "setpixel",
	KindBlendPixel:         "blendpixel",
	KindCopyInto:           "copyinto",
	KindDrawInto:           "drawinto",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Operation is one step of an image pipeline. The set of implementations is
// closed: it is exactly the types declared in this file.
type Operation interface {
	Kind() Kind
	operation()
}

// Vec2 is a pair of scale factors.
type Vec2 struct {
	X, Y float64
}

// NullOperation does nothing.
type NullOperation struct{}

// ErrorOperation carries a failure from parsing or construction. Applying it
// returns Err.
type ErrorOperation struct {
	Err error
}

// HueShift rotates the hue of every visible pixel. Amount is a fraction of a
// full turn.
type HueShift struct {
	Amount float64
}

// SaturationShift adds Amount to the HSV saturation of every visible pixel.
type SaturationShift struct {
	Amount float64
}

// BrightnessMultiply multiplies the R, G and B channels by Multiplier.
type BrightnessMultiply struct {
	Multiplier float64
}

// FadeToColor fades R, G and B towards Color by Amount. The tables are
// precomputed by NewFadeToColor and must match Color and Amount.
type FadeToColor struct {
	Color  Color
	Amount float64

	R, G, B FadeTable
}

// ScanLines applies Fade1 to even rows and Fade2 to odd rows, counting from
// the top row.
type ScanLines struct {
	Fade1, Fade2 FadeToColor
}

// SetColor overwrites R, G and B of every pixel.
type SetColor struct {
	Color Color
}

// ColorReplace replaces pixels whose colour matches a key exactly.
type ColorReplace struct {
	Map map[WideKey]Color
}

// MaskMode selects how mask alpha combines with image alpha.
type MaskMode int

const (
	MaskAdditive MaskMode = iota
	MaskSubtractive
)

// AlphaMask combines the alpha of the named mask images with the image
// alpha. Pixel (x, y) of the image lines up with pixel (x, y) + Offset of
// each mask.
type AlphaMask struct {
	Mode   MaskMode
	Images []string
	Offset image.Point
}

// BlendMode selects the blend math used by Blend.
type BlendMode int

const (
	BlendMultiply BlendMode = iota
	BlendScreen
)

// Blend blends the named images into the image, lined up as for AlphaMask.
type Blend struct {
	Mode   BlendMode
	Images []string
	Offset image.Point
}

// Multiply multiplies every channel, alpha included, by Color.
type Multiply struct {
	Color Color
}

// Border grows the image by Pixels on every side and fills the new space
// near opaque pixels with a gradient from Start (outer edge) to End (inner
// edge).
type Border struct {
	Pixels             int
	Start, End         Color
	OutlineOnly        bool
	IncludeTransparent bool
}

// ScaleMode selects the resampling algorithm.
type ScaleMode int

const (
	ScaleNearest ScaleMode = iota
	ScaleBilinear
	ScaleBicubic
	// ScaleNearestPixel is nearest neighbour resampling by RawScale,
	// ignoring any pre-scaling applied to Scale.
	ScaleNearestPixel
)

// Scale resizes the image.
type Scale struct {
	Mode     ScaleMode
	Scale    Vec2
	RawScale Vec2
}

// Crop keeps only Rect of the image.
type Crop struct {
	Rect image.Rectangle
}

// FlipMode selects the mirror axis.
type FlipMode int

const (
	FlipX FlipMode = iota
	FlipY
	FlipXY
)

// Flip mirrors the image.
type Flip struct {
	Mode FlipMode
}

// SetPixel overwrites a single pixel. Points outside the image are ignored.
type SetPixel struct {
	At    image.Point
	Color Color
}

// BlendPixel draws Color over a single pixel. Points outside the image are
// ignored.
type BlendPixel struct {
	At    image.Point
	Color Color
}

// CopyInto overwrites the image with the named image placed at Offset.
type CopyInto struct {
	Image  string
	Offset image.Point
}

// DrawInto draws the named image over the image at Offset.
type DrawInto struct {
	Image  string
	Offset image.Point
}

func (NullOperation) Kind() Kind      { return KindNull }
func (ErrorOperation) Kind() Kind     { return KindError }
func (HueShift) Kind() Kind           { return KindHueShift }
func (SaturationShift) Kind() Kind    { return KindSaturationShift }
func (BrightnessMultiply) Kind() Kind { return KindBrightnessMultiply }
func (FadeToColor) Kind() Kind        { return KindFadeToColor }
func (ScanLines) Kind() Kind          { return KindScanLines }
func (SetColor) Kind() Kind           { return KindSetColor }
func (ColorReplace) Kind() Kind       { return KindColorReplace }
func (AlphaMask) Kind() Kind          { return KindAlphaMask }
func (Blend) Kind() Kind              { return KindBlend }
func (Multiply) Kind() Kind           { return KindMultiply }
func (Border) Kind() Kind             { return KindBorder }
func (Scale) Kind() Kind              { return KindScale }
func (Crop) Kind() Kind               { return KindCrop }
func (Flip) Kind() Kind               { return KindFlip }
func (SetPixel) Kind() Kind           { return KindSetPixel }
func (BlendPixel) Kind() Kind         { return KindBlendPixel }
func (CopyInto) Kind() Kind           { return KindCopyInto }
func (DrawInto) Kind() Kind           { return KindDrawInto }

func (NullOperation) operation()      {}
func (ErrorOperation) operation()     {}
func (HueShift) operation()           {}
func (SaturationShift) operation()    {}
func (BrightnessMultiply) operation() {}
func (FadeToColor) operation()        {}
func (ScanLines) operation()          {}
func (SetColor) operation()           {}
func (ColorReplace) operation()       {}
func (AlphaMask) operation()          {}
func (Blend) operation()              {}
func (Multiply) operation()           {}
func (Border) operation()             {}
func (Scale) operation()              {}
func (Crop) operation()               {}
func (Flip) operation()               {}
func (SetPixel) operation()           {}
func (BlendPixel) operation()         {}
func (CopyInto) operation()           {}
func (DrawInto) operation()           {}

// unit conversions, shared by the constructors and the printer
func hueFromDegrees(deg float64) float64        { return deg / 360 }
func saturationFromPercent(pct float64) float64 { return pct / 100 }
func multiplierFromPercent(pct float64) float64 { return 1 + float64(pct/100) }

func invalid(format string, a ...interface{}) Operation {
	return ErrorOperation{Err: fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidParameter}, a...)...)}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// HueShiftDegrees returns a HueShift of deg degrees, in [-360, 360].
func HueShiftDegrees(deg float64) Operation {
	if !finite(deg) || deg < -360 || deg > 360 {
		return invalid("hue shift of %v degrees outside [-360, 360]", deg)
	}
	return HueShift{Amount: hueFromDegrees(deg)}
}

// SaturationShift100 returns a SaturationShift of pct percent, in
// [-100, 100].
func SaturationShift100(pct float64) Operation {
	if !finite(pct) || pct < -100 || pct > 100 {
		return invalid("saturation shift of %v%% outside [-100, 100]", pct)
	}
	return SaturationShift{Amount: saturationFromPercent(pct)}
}

// BrightnessMultiply100 returns a BrightnessMultiply where 0 leaves the
// image unchanged, 100 doubles it and -100 blacks it out.
func BrightnessMultiply100(pct float64) Operation {
	if !finite(pct) || pct < -100 {
		return invalid("brightness of %v%% below -100", pct)
	}
	return BrightnessMultiply{Multiplier: multiplierFromPercent(pct)}
}

// NewFadeToColor returns a FadeToColor with its lookup tables built. The
// alpha of c is ignored.
func NewFadeToColor(c Color, amount float64) Operation {
	if !finite(amount) || amount < 0 || amount > 1 {
		return invalid("fade amount %v outside [0, 1]", amount)
	}
	return newFade(c, amount)
}

func newFade(c Color, amount float64) FadeToColor {
	c = c.RGB()
	return FadeToColor{
		Color:  c,
		Amount: amount,
		R:      newFadeTable(c.R, amount),
		G:      newFadeTable(c.G, amount),
		B:      newFadeTable(c.B, amount),
	}
}

// NewScanLines returns a ScanLines built from two fades.
func NewScanLines(c1 Color, amount1 float64, c2 Color, amount2 float64) Operation {
	f1, ok := NewFadeToColor(c1, amount1).(FadeToColor)
	if !ok {
		return NewFadeToColor(c1, amount1)
	}
	f2, ok := NewFadeToColor(c2, amount2).(FadeToColor)
	if !ok {
		return NewFadeToColor(c2, amount2)
	}
	return ScanLines{Fade1: f1, Fade2: f2}
}

// NewColorReplace returns a ColorReplace holding a copy of m.
func NewColorReplace(m map[WideKey]Color) Operation {
	cp := make(map[WideKey]Color, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return ColorReplace{Map: cp}
}

// NewAlphaMask returns an AlphaMask over the named images.
func NewAlphaMask(mode MaskMode, images []string, offset image.Point) Operation {
	if mode != MaskAdditive && mode != MaskSubtractive {
		return invalid("mask mode %d", mode)
	}
	if err := checkNames(images); err != nil {
		return ErrorOperation{Err: err}
	}
	return AlphaMask{Mode: mode, Images: append([]string(nil), images...), Offset: offset}
}

// NewBlend returns a Blend over the named images.
func NewBlend(mode BlendMode, images []string, offset image.Point) Operation {
	if mode != BlendMultiply && mode != BlendScreen {
		return invalid("blend mode %d", mode)
	}
	if err := checkNames(images); err != nil {
		return ErrorOperation{Err: err}
	}
	return Blend{Mode: mode, Images: append([]string(nil), images...), Offset: offset}
}

// NewBorder returns a Border, or an outline when outlineOnly is set.
func NewBorder(pixels int, start, end Color, outlineOnly, includeTransparent bool) Operation {
	if pixels < 0 {
		return invalid("border of %d pixels", pixels)
	}
	return Border{Pixels: pixels, Start: start, End: end, OutlineOnly: outlineOnly, IncludeTransparent: includeTransparent}
}

// NewScale returns a Scale whose nominal and raw factors are equal. Factors
// must be finite; those that are not positive are rejected when the
// operation is applied.
func NewScale(mode ScaleMode, sx, sy float64) Operation {
	if mode < ScaleNearest || mode > ScaleNearestPixel {
		return invalid("scale mode %d", mode)
	}
	if !finite(sx) || !finite(sy) {
		return invalid("scale factor %v,%v is not finite", sx, sy)
	}
	v := Vec2{X: sx, Y: sy}
	return Scale{Mode: mode, Scale: v, RawScale: v}
}

// PreScaled returns s with its nominal factor multiplied by f. RawScale is
// left alone, so ScaleNearestPixel is unaffected.
func (s Scale) PreScaled(f float64) Scale {
	s.Scale = Vec2{X: s.Scale.X * f, Y: s.Scale.Y * f}
	return s
}

// factor is the factor the engine scales by.
func (s Scale) factor() Vec2 {
	if s.Mode == ScaleNearestPixel {
		return s.RawScale
	}
	return s.Scale
}

// NewCopyInto returns a CopyInto of the named image.
func NewCopyInto(name string, offset image.Point) Operation {
	if err := checkPlacement(name, offset); err != nil {
		return ErrorOperation{Err: err}
	}
	return CopyInto{Image: name, Offset: offset}
}

// NewDrawInto returns a DrawInto of the named image.
func NewDrawInto(name string, offset image.Point) Operation {
	if err := checkPlacement(name, offset); err != nil {
		return ErrorOperation{Err: err}
	}
	return DrawInto{Image: name, Offset: offset}
}

func checkPlacement(name string, offset image.Point) error {
	if offset.X < 0 || offset.Y < 0 {
		return fmt.Errorf("%w: negative offset %v", ErrInvalidParameter, offset)
	}
	return checkNames([]string{name})
}

// checkNames rejects image names that could not be written as a directive.
func checkNames(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: no image names", ErrInvalidParameter)
	}
	for _, n := range names {
		if n == "" || strings.ContainsAny(n, "?;=+") {
			return fmt.Errorf("%w: image name %q", ErrInvalidParameter, n)
		}
	}
	return nil
}
