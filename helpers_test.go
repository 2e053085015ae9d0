package imgops

import (
	"image"
	"image/color"
	"testing"
)

// solid returns a w x h image filled with c.
func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// pattern returns a w x h image where every pixel differs.
func pattern(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 37),
				G: uint8(y * 53),
				B: uint8((x + y) * 11),
				A: uint8(255 - x - y),
			})
		}
	}
	return img
}

func mustApply(t *testing.T, directives string, img *image.NRGBA, r Resolver) *image.NRGBA {
	t.Helper()
	out, err := ApplyDirectives(directives, img, r)
	if err != nil {
		t.Fatalf("ApplyDirectives(%q) failed: %v", directives, err)
	}
	return out
}

func samePixels(a, b *image.NRGBA) bool {
	if a.Rect.Dx() != b.Rect.Dx() || a.Rect.Dy() != b.Rect.Dy() {
		return false
	}
	for y := 0; y < a.Rect.Dy(); y++ {
		for x := 0; x < a.Rect.Dx(); x++ {
			if a.NRGBAAt(a.Rect.Min.X+x, a.Rect.Min.Y+y) != b.NRGBAAt(b.Rect.Min.X+x, b.Rect.Min.Y+y) {
				return false
			}
		}
	}
	return true
}
