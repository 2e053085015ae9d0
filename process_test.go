package imgops

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestApplyExample(t *testing.T) {
	img := solid(1, 1, color.NRGBA{255, 0, 0, 255})
	out := mustApply(t, "?hueshift=180?brightness=-100", img, nil)
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("pixel = %v, want opaque black", got)
	}
}

func TestApplyPixelOps(t *testing.T) {
	tests := []struct {
		name       string
		directives string
		in, want   color.NRGBA
	}{
		{"setcolor keeps alpha", "?setcolor=00ff00", color.NRGBA{9, 9, 9, 77}, color.NRGBA{0, 255, 0, 77}},
		{"setcolor ignores colour alpha", "?setcolor=00ff0000", color.NRGBA{9, 9, 9, 77}, color.NRGBA{0, 255, 0, 77}},
		{"brightness 0", "?brightness=0", color.NRGBA{100, 200, 50, 77}, color.NRGBA{100, 200, 50, 77}},
		{"brightness 100", "?brightness=100", color.NRGBA{100, 200, 50, 77}, color.NRGBA{200, 255, 100, 77}},
		{"brightness -100", "?brightness=-100", color.NRGBA{100, 200, 50, 77}, color.NRGBA{0, 0, 0, 77}},
		{"hue shift", "?hueshift=180", color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 255, 255, 255}},
		{"hue full turn", "?hueshift=360", color.NRGBA{255, 0, 0, 200}, color.NRGBA{255, 0, 0, 200}},
		{"hue skips transparent", "?hueshift=180", color.NRGBA{255, 0, 0, 0}, color.NRGBA{255, 0, 0, 0}},
		{"desaturate", "?saturation=-100", color.NRGBA{255, 0, 0, 255}, color.NRGBA{255, 255, 255, 255}},
		{"fade full", "?fade=000000;1", color.NRGBA{200, 100, 50, 128}, color.NRGBA{0, 0, 0, 128}},
		{"fade none", "?fade=000000;0", color.NRGBA{200, 100, 50, 128}, color.NRGBA{200, 100, 50, 128}},
		{"multiply", "?multiply=646464c8", color.NRGBA{255, 200, 0, 255}, color.NRGBA{100, 78, 0, 200}},
		{"replace", "?replace;ff0000=00ff0080", color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 255, 0, 128}},
		{"replace needs exact alpha", "?replace;ff0000=00ff00", color.NRGBA{255, 0, 0, 128}, color.NRGBA{255, 0, 0, 128}},
		{"setpixel", "?setpixel=0;0;01020304", color.NRGBA{9, 9, 9, 9}, color.NRGBA{1, 2, 3, 4}},
		{"setpixel outside", "?setpixel=5;0;01020304", color.NRGBA{9, 9, 9, 9}, color.NRGBA{9, 9, 9, 9}},
		{"blendpixel half", "?blendpixel=0;0;00000080", color.NRGBA{255, 255, 255, 255}, color.NRGBA{127, 127, 127, 255}},
		{"blendpixel outside", "?blendpixel=-1;0;000000", color.NRGBA{255, 255, 255, 255}, color.NRGBA{255, 255, 255, 255}},
		{"null", "?", color.NRGBA{1, 2, 3, 4}, color.NRGBA{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustApply(t, tt.directives, solid(1, 1, tt.in), nil)
			if got := out.NRGBAAt(0, 0); got != tt.want {
				t.Errorf("pixel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetColorIdempotent(t *testing.T) {
	once := mustApply(t, "?setcolor=336699", pattern(4, 4), nil)
	twice := mustApply(t, "?setcolor=336699?setcolor=336699", pattern(4, 4), nil)
	if !samePixels(once, twice) {
		t.Error("applying setcolor twice differs from once")
	}
}

func TestScanLines(t *testing.T) {
	out := mustApply(t, "?scanlines=000000;1;ffffff;0", solid(2, 3, color.NRGBA{200, 200, 200, 90}), nil)
	want := []color.NRGBA{{0, 0, 0, 90}, {200, 200, 200, 90}, {0, 0, 0, 90}}
	for y, w := range want {
		if got := out.NRGBAAt(1, y); got != w {
			t.Errorf("row %d = %v, want %v", y, got, w)
		}
	}
}

func TestFlip(t *testing.T) {
	src := pattern(3, 2)
	out := mustApply(t, "?flipx", Clone(src), nil)
	if out.NRGBAAt(0, 1) != src.NRGBAAt(2, 1) {
		t.Error("flipx did not mirror columns")
	}
	out = mustApply(t, "?flipy", Clone(src), nil)
	if out.NRGBAAt(2, 0) != src.NRGBAAt(2, 1) {
		t.Error("flipy did not mirror rows")
	}
	out = mustApply(t, "?flipxy", Clone(src), nil)
	if out.NRGBAAt(0, 0) != src.NRGBAAt(2, 1) {
		t.Error("flipxy did not mirror both axes")
	}
	out = mustApply(t, "?flipxy?flipxy", Clone(src), nil)
	if !samePixels(out, src) {
		t.Error("flipxy twice is not the identity")
	}
}

func TestCrop(t *testing.T) {
	src := pattern(4, 4)
	out := mustApply(t, "?crop=1;1;3;4", Clone(src), nil)
	if out.Rect.Dx() != 2 || out.Rect.Dy() != 3 {
		t.Fatalf("crop size %v, want 2x3", out.Rect.Size())
	}
	if out.NRGBAAt(0, 0) != src.NRGBAAt(1, 1) || out.NRGBAAt(1, 2) != src.NRGBAAt(2, 3) {
		t.Error("crop copied the wrong pixels")
	}

	for _, d := range []string{"?crop=0;0;5;4", "?crop=-1;0;2;2", "?crop=1;1;1;3"} {
		_, err := ApplyDirectives(d, pattern(4, 4), nil)
		if !errors.Is(err, ErrGeometry) {
			t.Errorf("%s: error %v, want ErrGeometry", d, err)
		}
	}
}

func TestApplyErrorPosition(t *testing.T) {
	out, err := ApplyDirectives("?flipx?bogus?flipy", pattern(2, 2), nil)
	if out != nil {
		t.Error("failed Apply returned an image")
	}
	var oe *OperationError
	if !errors.As(err, &oe) {
		t.Fatalf("error %v is not an *OperationError", err)
	}
	if oe.Index != 1 || oe.Kind != KindError {
		t.Errorf("failed at %d (%v), want 1 (error)", oe.Index, oe.Kind)
	}
	if !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("error %v, want ErrUnknownOperation", err)
	}
}

func TestApplyNilImage(t *testing.T) {
	if _, err := Apply(nil, nil, nil); !errors.Is(err, ErrGeometry) {
		t.Errorf("error %v, want ErrGeometry", err)
	}
}

func TestApplyBadOption(t *testing.T) {
	if _, err := Apply(nil, pattern(1, 1), nil, WithRounding(Rounding(7))); err == nil {
		t.Error("unknown rounding mode accepted")
	}
}

func TestReferenceResolution(t *testing.T) {
	mask := solid(2, 2, color.NRGBA{A: 255})
	for _, d := range []string{"?addmask=m", "?blendmult=m", "?copyinto=m", "?drawinto=m"} {
		t.Run(d, func(t *testing.T) {
			_, err := ApplyDirectives(d, pattern(2, 2), nil)
			if !errors.Is(err, ErrReferenceMissing) {
				t.Errorf("nil resolver: error %v, want ErrReferenceMissing", err)
			}
			_, err = ApplyDirectives(d, pattern(2, 2), MapResolver{"other": mask})
			if !errors.Is(err, ErrReferenceMissing) {
				t.Errorf("missing name: error %v, want ErrReferenceMissing", err)
			}
			if _, err := ApplyDirectives(d, pattern(2, 2), MapResolver{"m": mask}); err != nil {
				t.Errorf("with image: %v", err)
			}
		})
	}
}

func TestAlphaMask(t *testing.T) {
	r := MapResolver{
		"dot":  solid(1, 1, color.NRGBA{A: 255}),
		"half": solid(1, 1, color.NRGBA{A: 100}),
	}
	out := mustApply(t, "?submask=dot", solid(2, 2, color.NRGBA{10, 20, 30, 255}), r)
	if got := out.NRGBAAt(0, 0).A; got != 0 {
		t.Errorf("masked alpha = %d, want 0", got)
	}
	if got := out.NRGBAAt(1, 1).A; got != 255 {
		t.Errorf("uncovered alpha = %d, want 255", got)
	}

	out = mustApply(t, "?addmask=half", solid(1, 1, color.NRGBA{10, 20, 30, 0}), r)
	if got := out.NRGBAAt(0, 0).A; got != 100 {
		t.Errorf("additive alpha = %d, want 100", got)
	}
	out = mustApply(t, "?addmask=half+dot", solid(1, 1, color.NRGBA{10, 20, 30, 200}), r)
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("additive with two masks = %v", got)
	}
}

func TestBlend(t *testing.T) {
	r := MapResolver{
		"white": solid(1, 1, color.NRGBA{255, 255, 255, 255}),
		"none":  solid(1, 1, color.NRGBA{}),
	}
	in := color.NRGBA{200, 100, 50, 255}
	out := mustApply(t, "?blendmult=white", solid(1, 1, in), r)
	if got := out.NRGBAAt(0, 0); got != in {
		t.Errorf("multiply by white = %v, want %v", got, in)
	}
	out = mustApply(t, "?blendscreen=none", solid(1, 1, in), r)
	if got := out.NRGBAAt(0, 0); got != in {
		t.Errorf("screen with zero = %v, want %v", got, in)
	}
	out = mustApply(t, "?blendmult=none", solid(2, 1, in), r)
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{}) {
		t.Errorf("multiply by zero = %v", got)
	}
	if got := out.NRGBAAt(1, 0); got != in {
		t.Errorf("uncovered pixel = %v, want %v", got, in)
	}
}

func TestCopyAndDrawInto(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	src := pattern(2, 2)
	r := MapResolver{"src": src, "clear": solid(1, 1, color.NRGBA{})}

	out := mustApply(t, "?copyinto=src;2;2", solid(3, 3, white), r)
	if out.NRGBAAt(2, 2) != src.NRGBAAt(0, 0) {
		t.Error("copyinto did not place the top-left corner at the offset")
	}
	if out.NRGBAAt(1, 1) != white {
		t.Error("copyinto touched pixels outside the overlap")
	}

	out = mustApply(t, "?copyinto=clear", solid(1, 1, white), r)
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{}) {
		t.Errorf("copyinto of a clear pixel = %v, want clear", got)
	}
	out = mustApply(t, "?drawinto=clear", solid(1, 1, white), r)
	if got := out.NRGBAAt(0, 0); got != white {
		t.Errorf("drawinto of a clear pixel = %v, want %v", got, white)
	}
}

func TestBorder(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}
	green := color.NRGBA{0, 255, 0, 255}

	out := mustApply(t, "?border=1;0000ff;00ff00", solid(1, 1, red), nil)
	if out.Rect.Dx() != 3 || out.Rect.Dy() != 3 {
		t.Fatalf("border size %v, want 3x3", out.Rect.Size())
	}
	tests := []struct {
		p    image.Point
		want color.NRGBA
	}{
		{image.Pt(1, 1), red},
		{image.Pt(1, 0), green},
		{image.Pt(0, 1), green},
		{image.Pt(0, 0), blue},
		{image.Pt(2, 2), blue},
	}
	for _, tt := range tests {
		if got := out.NRGBAAt(tt.p.X, tt.p.Y); got != tt.want {
			t.Errorf("border pixel %v = %v, want %v", tt.p, got, tt.want)
		}
	}

	out = mustApply(t, "?outline=1;0000ff", solid(1, 1, red), nil)
	if got := out.NRGBAAt(1, 1); got.A != 0 {
		t.Errorf("outline kept the image pixel %v", got)
	}
	if got := out.NRGBAAt(1, 0); got != blue {
		t.Errorf("outline pixel = %v, want %v", got, blue)
	}

	src := pattern(2, 2)
	out = mustApply(t, "?border=0;0000ff", Clone(src), nil)
	if !samePixels(out, src) {
		t.Error("border of 0 pixels changed the image")
	}
}

func TestBorderSkipsInvisible(t *testing.T) {
	img := solid(3, 3, color.NRGBA{})
	out := mustApply(t, "?border=1;ff0000", img, nil)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if got := out.NRGBAAt(x, y); got.A != 0 {
				t.Fatalf("pixel %d,%d = %v around a transparent image", x, y, got)
			}
		}
	}
}

func TestBorderTooLarge(t *testing.T) {
	for _, d := range []string{"?border=2000000000;ffffff", "?outline=200000000;ffffff"} {
		_, err := ApplyDirectives(d, solid(1, 1, color.NRGBA{A: 255}), nil)
		if !errors.Is(err, ErrGeometry) {
			t.Errorf("%s: error %v, want ErrGeometry", d, err)
		}
		var oe *OperationError
		if !errors.As(err, &oe) || oe.Index != 0 {
			t.Errorf("%s: error %v does not name operation 0", d, err)
		}
	}
}

func TestBorderWide(t *testing.T) {
	out := mustApply(t, "?border=100;ff0000;0000ff", solid(1, 1, color.NRGBA{A: 255}), nil)
	if out.Rect.Dx() != 201 || out.Rect.Dy() != 201 {
		t.Fatalf("border size %v, want 201x201", out.Rect.Size())
	}
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("outer corner = %v, want the start colour", got)
	}
	if got := out.NRGBAAt(100, 99); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("inner edge = %v, want the end colour", got)
	}
}

func TestOperationErrorToken(t *testing.T) {
	tests := []struct {
		directives string
		index      int
		token      string
	}{
		{"?flipx?submask=m", 1, "submask=m;0;0"},
		{"?scalebicubic=0", 0, "scalebicubic=0;0"},
		{"?bogus", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.directives, func(t *testing.T) {
			_, err := ApplyDirectives(tt.directives, pattern(2, 2), nil)
			var oe *OperationError
			if !errors.As(err, &oe) {
				t.Fatalf("error %v is not an *OperationError", err)
			}
			if oe.Index != tt.index || oe.Token != tt.token {
				t.Errorf("failed at %d (%q), want %d (%q)", oe.Index, oe.Token, tt.index, tt.token)
			}
			if tt.token != "" && !strings.Contains(err.Error(), tt.token) {
				t.Errorf("error %q does not name %q", err, tt.token)
			}
		})
	}
}
