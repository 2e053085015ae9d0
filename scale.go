package imgops

import (
	"fmt"
	"image"
	"math"
)

// Resampling runs in float32. Every intermediate product is converted
// explicitly so the compiler cannot fuse it into a multiply-add, which keeps
// output identical across platforms.

// scaledSize returns round(w*sx) x round(h*sy), at least 1 x 1.
func scaledSize(w, h int, sx, sy float32) (int, int, error) {
	fw := math.Round(float64(float32(float32(w) * sx)))
	fh := math.Round(float64(float32(float32(h) * sy)))
	if fw > maxPixels || fh > maxPixels {
		return 0, 0, fmt.Errorf("%w: scaled size %vx%v too large", ErrGeometry, fw, fh)
	}
	dw, dh := int(fw), int(fh)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	return dw, dh, nil
}

func checkScale(src *image.NRGBA, s Vec2) error {
	if src.Rect.Empty() {
		return fmt.Errorf("%w: cannot scale an empty image", ErrGeometry)
	}
	sx, sy := float64(float32(s.X)), float64(float32(s.Y))
	if !(sx > 0) || !(sy > 0) || math.IsInf(sx, 0) || math.IsInf(sy, 0) {
		return fmt.Errorf("%w: scale factor %v,%v must be positive", ErrGeometry, s.X, s.Y)
	}
	return nil
}

// sourceCoord maps an output coordinate back into the source image and
// splits it into whole and fractional parts.
func sourceCoord(d int, s float32) (int, float32) {
	pos := float32(float32(d) / s)
	ip := float32(math.Floor(float64(pos)))
	return int(ip), pos - ip
}

// ResampleNearest resamples src by (sx, sy), sampling input pixel
// (floor(x/sx), floor(y/sy)) clamped to the image for output pixel (x, y).
func ResampleNearest(src *image.NRGBA, s Vec2) (*image.NRGBA, error) {
	if err := checkScale(src, s); err != nil {
		return nil, err
	}
	sx, sy := float32(s.X), float32(s.Y)
	w, h := size(src)
	dw, dh, err := scaledSize(w, h, sx, sy)
	if err != nil {
		return nil, err
	}
	dst, err := newImage(dw, dh)
	if err != nil {
		return nil, err
	}
	for y := 0; y < dh; y++ {
		iy, _ := sourceCoord(y, sy)
		for x := 0; x < dw; x++ {
			ix, _ := sourceCoord(x, sx)
			copy(pixel(dst, x, y), clampedPixel(src, ix, iy))
		}
	}
	return dst, nil
}

// ResampleBilinear resamples src by (sx, sy), interpolating linearly between
// the four source pixels around each mapped coordinate.
func ResampleBilinear(src *image.NRGBA, s Vec2, r Rounding) (*image.NRGBA, error) {
	if err := checkScale(src, s); err != nil {
		return nil, err
	}
	sx, sy := float32(s.X), float32(s.Y)
	w, h := size(src)
	dw, dh, err := scaledSize(w, h, sx, sy)
	if err != nil {
		return nil, err
	}
	dst, err := newImage(dw, dh)
	if err != nil {
		return nil, err
	}
	for y := 0; y < dh; y++ {
		iy, fy := sourceCoord(y, sy)
		for x := 0; x < dw; x++ {
			ix, fx := sourceCoord(x, sx)
			p00 := clampedPixel(src, ix, iy)
			p10 := clampedPixel(src, ix+1, iy)
			p01 := clampedPixel(src, ix, iy+1)
			p11 := clampedPixel(src, ix+1, iy+1)
			out := pixel(dst, x, y)
			for c := 0; c < 4; c++ {
				top := lerp32(fx, float32(p00[c]), float32(p10[c]))
				bottom := lerp32(fx, float32(p01[c]), float32(p11[c]))
				out[c] = toByte(lerp32(fy, top, bottom), r)
			}
		}
	}
	return dst, nil
}

// ResampleBicubic resamples src by (sx, sy) with Catmull-Rom cubic convolution
// over the 4x4 neighbourhood of each mapped coordinate. Neighbours outside
// the image take the value of the nearest edge pixel.
func ResampleBicubic(src *image.NRGBA, s Vec2, r Rounding) (*image.NRGBA, error) {
	if err := checkScale(src, s); err != nil {
		return nil, err
	}
	sx, sy := float32(s.X), float32(s.Y)
	w, h := size(src)
	dw, dh, err := scaledSize(w, h, sx, sy)
	if err != nil {
		return nil, err
	}
	dst, err := newImage(dw, dh)
	if err != nil {
		return nil, err
	}
	var rows [4][4]float32 // [row][channel]
	for y := 0; y < dh; y++ {
		iy, fy := sourceCoord(y, sy)
		for x := 0; x < dw; x++ {
			ix, fx := sourceCoord(x, sx)
			for j := 0; j < 4; j++ {
				a := clampedPixel(src, ix-1, iy+j-1)
				b := clampedPixel(src, ix, iy+j-1)
				c := clampedPixel(src, ix+1, iy+j-1)
				d := clampedPixel(src, ix+2, iy+j-1)
				for ch := 0; ch < 4; ch++ {
					rows[j][ch] = cubic32(fx, float32(a[ch]), float32(b[ch]), float32(c[ch]), float32(d[ch]))
				}
			}
			out := pixel(dst, x, y)
			for ch := 0; ch < 4; ch++ {
				v := cubic32(fy, rows[0][ch], rows[1][ch], rows[2][ch], rows[3][ch])
				out[ch] = toByte(v, r)
			}
		}
	}
	return dst, nil
}

// lerp32 returns a*(1-t) + b*t.
func lerp32(t, a, b float32) float32 {
	return float32(a*float32(1-t)) + float32(b*t)
}

// cubic32 is Catmull-Rom interpolation between b and c at x in [0, 1):
// b + 0.5*x*(c - a + x*(2a - 5b + 4c - d + x*(3(b - c) + d - a)))
func cubic32(x, a, b, c, d float32) float32 {
	inner := float32(3*(b-c)) + d - a
	inner = float32(x * inner)
	mid := float32(2*a) - float32(5*b) + float32(4*c) - d + inner
	mid = float32(x * mid)
	outer := c - a + mid
	return b + float32(float32(0.5*x)*outer)
}

// toByte clamps v to [0, 255] and applies the rounding rule.
func toByte(v float32, r Rounding) uint8 {
	f := float64(v)
	if r == RoundNearest {
		f = math.Round(f)
	}
	return clampByte(f)
}
