package imgops

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Apply runs ops over img in order and returns the result. Operations that
// keep the image size work on img in place, so img must not be used after
// the call; on failure the partly processed image is dropped and the error
// is an *OperationError naming the failed operation. References are looked
// up through r, which may be nil when ops need none.
func Apply(ops []Operation, img *image.NRGBA, r Resolver, opts ...Option) (*image.NRGBA, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return cfg.apply(ops, img, r)
}

// ApplyOperation runs a single operation over img.
func ApplyOperation(op Operation, img *image.NRGBA, r Resolver, opts ...Option) (*image.NRGBA, error) {
	return Apply([]Operation{op}, img, r, opts...)
}

// ApplyDirectives parses directives and applies them to img.
func ApplyDirectives(directives string, img *image.NRGBA, r Resolver, opts ...Option) (*image.NRGBA, error) {
	return Apply(Parse(directives), img, r, opts...)
}

func (c *config) apply(ops []Operation, img *image.NRGBA, r Resolver) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrGeometry)
	}
	for i, op := range ops {
		if op == nil {
			op = NullOperation{}
		}
		out, err := c.applyOne(op, img, r)
		if err != nil {
			if op.Kind() == KindError {
				c.logger.Warn("deferred operation error", slog.Int("index", i), slog.Any("err", err))
			}
			return nil, &OperationError{Index: i, Kind: op.Kind(), Token: PrintOperation(op), Err: err}
		}
		c.logger.Debug("applied operation", slog.Int("index", i), slog.String("kind", op.Kind().String()),
			slog.Int("width", out.Rect.Dx()), slog.Int("height", out.Rect.Dy()))
		img = out
	}
	return img, nil
}

func (c *config) applyOne(op Operation, img *image.NRGBA, r Resolver) (*image.NRGBA, error) {
	switch op := op.(type) {
	case NullOperation:
	case ErrorOperation:
		if op.Err == nil {
			return nil, fmt.Errorf("%w: error operation without cause", ErrMalformed)
		}
		return nil, op.Err
	case HueShift:
		hueShift(img, op.Amount)
	case SaturationShift:
		saturationShift(img, op.Amount)
	case BrightnessMultiply:
		forEachPixel(img, func(_, _ int, p []uint8) {
			for i := 0; i < 3; i++ {
				p[i] = clampByte(math.Round(float64(p[i]) * op.Multiplier))
			}
		})
	case FadeToColor:
		forEachPixel(img, func(_, _ int, p []uint8) { fade(&op, p) })
	case ScanLines:
		forEachPixel(img, func(_, y int, p []uint8) {
			if y%2 == 0 {
				fade(&op.Fade1, p)
			} else {
				fade(&op.Fade2, p)
			}
		})
	case SetColor:
		forEachPixel(img, func(_, _ int, p []uint8) {
			p[0], p[1], p[2] = op.Color.R, op.Color.G, op.Color.B
		})
	case ColorReplace:
		forEachPixel(img, func(_, _ int, p []uint8) {
			key := WideKey{Color: Color{R: p[0], G: p[1], B: p[2], A: p[3]}}
			if to, ok := op.Map[key]; ok {
				p[0], p[1], p[2], p[3] = to.R, to.G, to.B, to.A
			}
		})
	case AlphaMask:
		masks, err := resolveAll(r, op.Images)
		if err != nil {
			return nil, err
		}
		alphaMask(img, op, masks)
	case Blend:
		layers, err := resolveAll(r, op.Images)
		if err != nil {
			return nil, err
		}
		blend(img, op, layers)
	case Multiply:
		m := [4]int{int(op.Color.R), int(op.Color.G), int(op.Color.B), int(op.Color.A)}
		forEachPixel(img, func(_, _ int, p []uint8) {
			for i := range m {
				p[i] = uint8(int(p[i]) * m[i] / 255)
			}
		})
	case Border:
		return border(img, op)
	case Scale:
		return c.scale(img, op)
	case Crop:
		return crop(img, op.Rect)
	case Flip:
		flip(img, op.Mode)
	case SetPixel:
		if inside(img, op.At.X, op.At.Y) {
			p := pixel(img, op.At.X, op.At.Y)
			p[0], p[1], p[2], p[3] = op.Color.R, op.Color.G, op.Color.B, op.Color.A
		}
	case BlendPixel:
		if inside(img, op.At.X, op.At.Y) {
			col := op.Color
			over(pixel(img, op.At.X, op.At.Y), []uint8{col.R, col.G, col.B, col.A})
		}
	case CopyInto:
		src, err := resolve(r, op.Image)
		if err != nil {
			return nil, err
		}
		copyInto(img, src, op.Offset, false)
	case DrawInto:
		src, err := resolve(r, op.Image)
		if err != nil {
			return nil, err
		}
		copyInto(img, src, op.Offset, true)
	default:
		return nil, fmt.Errorf("%w: unsupported operation %T", ErrUnknownOperation, op)
	}
	return img, nil
}

func fade(op *FadeToColor, p []uint8) {
	p[0] = op.R[p[0]]
	p[1] = op.G[p[1]]
	p[2] = op.B[p[2]]
}

// hueShift rotates the HSV hue of every pixel that is not fully
// transparent by amount turns.
func hueShift(img *image.NRGBA, amount float64) {
	forEachPixel(img, func(_, _ int, p []uint8) {
		if p[3] == 0 {
			return
		}
		h, s, v := rgbOf(p).Hsv()
		h = math.Mod(h+amount*360, 360)
		if h < 0 {
			h += 360
		}
		p[0], p[1], p[2] = colorful.Hsv(h, s, v).Clamped().RGB255()
	})
}

// saturationShift adds amount to the HSV saturation of every pixel that is
// not fully transparent.
func saturationShift(img *image.NRGBA, amount float64) {
	forEachPixel(img, func(_, _ int, p []uint8) {
		if p[3] == 0 {
			return
		}
		h, s, v := rgbOf(p).Hsv()
		s = math.Max(0, math.Min(1, s+amount))
		p[0], p[1], p[2] = colorful.Hsv(h, s, v).Clamped().RGB255()
	})
}

func rgbOf(p []uint8) colorful.Color {
	return colorful.Color{R: float64(p[0]) / 255, G: float64(p[1]) / 255, B: float64(p[2]) / 255}
}

func (c *config) scale(img *image.NRGBA, op Scale) (*image.NRGBA, error) {
	f := op.factor()
	switch op.Mode {
	case ScaleNearest, ScaleNearestPixel:
		return ResampleNearest(img, f)
	case ScaleBilinear:
		return ResampleBilinear(img, f, c.rounding)
	case ScaleBicubic:
		return ResampleBicubic(img, f, c.rounding)
	}
	return nil, fmt.Errorf("%w: scale mode %d", ErrInvalidParameter, op.Mode)
}

// crop returns a copy of rect of img. rect must be non-empty and lie inside
// the image.
func crop(img *image.NRGBA, rect image.Rectangle) (*image.NRGBA, error) {
	w, h := size(img)
	if rect.Empty() || !rect.In(image.Rect(0, 0, w, h)) {
		return nil, fmt.Errorf("%w: crop %v outside %dx%d image", ErrGeometry, rect, w, h)
	}
	out := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for y := 0; y < rect.Dy(); y++ {
		start := (rect.Min.Y+y)*img.Stride + rect.Min.X*4
		copy(out.Pix[y*out.Stride:], img.Pix[start:start+rect.Dx()*4])
	}
	return out, nil
}

// flip mirrors img in place.
func flip(img *image.NRGBA, mode FlipMode) {
	w, h := size(img)
	if mode == FlipX || mode == FlipXY {
		for y := 0; y < h; y++ {
			for x := 0; x < w/2; x++ {
				swap(pixel(img, x, y), pixel(img, w-1-x, y))
			}
		}
	}
	if mode == FlipY || mode == FlipXY {
		for y := 0; y < h/2; y++ {
			for x := 0; x < w; x++ {
				swap(pixel(img, x, y), pixel(img, x, h-1-y))
			}
		}
	}
}

func swap(a, b []uint8) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}
