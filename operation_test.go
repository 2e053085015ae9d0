package imgops

import (
	"errors"
	"image"
	"math"
	"reflect"
	"testing"
)

func TestConstructorUnits(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		want Operation
	}{
		{"hue 180", HueShiftDegrees(180), HueShift{Amount: 0.5}},
		{"hue -90", HueShiftDegrees(-90), HueShift{Amount: -0.25}},
		{"saturation 50", SaturationShift100(50), SaturationShift{Amount: 0.5}},
		{"brightness 0", BrightnessMultiply100(0), BrightnessMultiply{Multiplier: 1}},
		{"brightness 100", BrightnessMultiply100(100), BrightnessMultiply{Multiplier: 2}},
		{"brightness -100", BrightnessMultiply100(-100), BrightnessMultiply{Multiplier: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.op, tt.want) {
				t.Errorf("got %#v, want %#v", tt.op, tt.want)
			}
		})
	}
}

func TestConstructorErrors(t *testing.T) {
	ops := map[string]Operation{
		"hue too large":     HueShiftDegrees(361),
		"hue nan":           HueShiftDegrees(math.NaN()),
		"saturation":        SaturationShift100(200),
		"brightness":        BrightnessMultiply100(-101),
		"fade amount":       NewFadeToColor(Color{}, -0.1),
		"scanline amount":   NewScanLines(Color{}, 0.5, Color{}, 1.5),
		"mask without name": NewAlphaMask(MaskAdditive, nil, image.Point{}),
		"mask mode":         NewAlphaMask(MaskMode(9), []string{"a"}, image.Point{}),
		"blend bad name":    NewBlend(BlendScreen, []string{"a?b"}, image.Point{}),
		"border":            NewBorder(-2, Color{}, Color{}, false, false),
		"scale mode":        NewScale(ScaleMode(-1), 1, 1),
		"copy offset":       NewCopyInto("a", image.Pt(0, -1)),
		"draw name":         NewDrawInto("", image.Point{}),
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			e, ok := op.(ErrorOperation)
			if !ok {
				t.Fatalf("got %#v, want an ErrorOperation", op)
			}
			if !errors.Is(e.Err, ErrInvalidParameter) {
				t.Errorf("error %v, want ErrInvalidParameter", e.Err)
			}
		})
	}
}

func TestFadeForcesOpaque(t *testing.T) {
	f := NewFadeToColor(Color{10, 20, 30, 0}, 0.5).(FadeToColor)
	if f.Color.A != 255 {
		t.Errorf("fade colour alpha = %d, want 255", f.Color.A)
	}
}

func TestColorReplaceCopiesMap(t *testing.T) {
	m := map[WideKey]Color{{Color: Color{A: 255}}: {R: 1, A: 255}}
	op := NewColorReplace(m).(ColorReplace)
	m[WideKey{}] = Color{}
	if len(op.Map) != 1 {
		t.Errorf("ColorReplace shares the caller's map")
	}
}

func TestKindString(t *testing.T) {
	if got := KindHueShift.String(); got != "hueshift" {
		t.Errorf("KindHueShift = %q", got)
	}
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("Kind(99) = %q", got)
	}
	for k := KindNull; k <= KindDrawInto; k++ {
		if k.String() == "" {
			t.Errorf("Kind %d has no name", int(k))
		}
	}
}

func TestReferences(t *testing.T) {
	ops := Parse("?addmask=b+a?blendmult=c+a?copyinto=A?drawinto=b?flipx?bogus")
	got := References(ops)
	want := []string{"A", "a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("References = %v, want %v", got, want)
	}
	if got := References(Parse("?flipx?scale=2")); len(got) != 0 {
		t.Errorf("References without images = %v", got)
	}
}
