package imgops

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ToNRGBA returns img as a zero-origin *image.NRGBA, the buffer type the
// engine works on. A zero-origin NRGBA is returned as is; anything else is
// copied.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		if n.Rect.Min == (image.Point{}) {
			return n
		}
		return Clone(n)
	}
	b := img.Bounds()
	dst := image.NewNRGBA(b.Sub(b.Min))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// maxPixels bounds the area of any image an operation allocates.
const maxPixels = 1 << 28

// newImage allocates a zero-origin w x h image, refusing empty images and
// images larger than maxPixels.
func newImage(w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 || w > maxPixels || h > maxPixels || w*h > maxPixels {
		return nil, fmt.Errorf("%w: cannot allocate a %dx%d image", ErrGeometry, w, h)
	}
	return image.NewNRGBA(image.Rect(0, 0, w, h)), nil
}

// Clone returns a zero-origin copy of img.
func Clone(img *image.NRGBA) *image.NRGBA {
	w, h := size(img)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
	}
	return dst
}

// size returns the width and height of img.
func size(img *image.NRGBA) (int, int) {
	return img.Rect.Dx(), img.Rect.Dy()
}

// pixel returns the four bytes of the pixel at (x, y), counted from the
// top-left of img whatever its origin. The caller checks bounds.
func pixel(img *image.NRGBA, x, y int) []uint8 {
	i := y*img.Stride + x*4
	return img.Pix[i : i+4 : i+4]
}

// inside reports whether (x, y) is a pixel of img.
func inside(img *image.NRGBA, x, y int) bool {
	w, h := size(img)
	return x >= 0 && y >= 0 && x < w && y < h
}

// forEachPixel calls fn for every pixel of img, row by row.
func forEachPixel(img *image.NRGBA, fn func(x, y int, p []uint8)) {
	w, h := size(img)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fn(x, y, pixel(img, x, y))
		}
	}
}

// clampedPixel returns the pixel at (x, y) with coordinates clamped to the
// image edges.
func clampedPixel(img *image.NRGBA, x, y int) []uint8 {
	w, h := size(img)
	return pixel(img, clampInt(x, 0, w-1), clampInt(y, 0, h-1))
}
