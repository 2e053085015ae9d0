package imgops

import (
	"fmt"
	"image"
	"math"
)

// over draws src over dst, both non-premultiplied.
func over(dst, src []uint8) {
	switch src[3] {
	case 0:
		return
	case 255:
		copy(dst, src)
		return
	}
	sa := float64(src[3]) / 255
	da := float64(dst[3]) / 255 * (1 - sa)
	oa := sa + da
	for i := 0; i < 3; i++ {
		dst[i] = clampByte(math.Round((float64(src[i])*sa + float64(dst[i])*da) / oa))
	}
	dst[3] = clampByte(math.Round(oa * 255))
}

// alphaMask combines mask alpha into img. Pixels no mask covers are left
// alone.
func alphaMask(img *image.NRGBA, op AlphaMask, masks []*image.NRGBA) {
	forEachPixel(img, func(x, y int, p []uint8) {
		mx, my := x+op.Offset.X, y+op.Offset.Y
		covered := false
		var m uint8
		for _, mask := range masks {
			if !inside(mask, mx, my) {
				continue
			}
			covered = true
			if a := pixel(mask, mx, my)[3]; a > m {
				m = a
			}
		}
		if !covered {
			return
		}
		switch op.Mode {
		case MaskAdditive:
			p[3] = uint8(clampInt(int(p[3])+int(m), 0, 255))
		case MaskSubtractive:
			p[3] = uint8(clampInt(int(p[3])-int(m), 0, 255))
		}
	})
}

// blend combines the blend images into img channel by channel, alpha
// included. Pixels no blend image covers are left alone.
func blend(img *image.NRGBA, op Blend, layers []*image.NRGBA) {
	forEachPixel(img, func(x, y int, p []uint8) {
		bx, by := x+op.Offset.X, y+op.Offset.Y
		var f [4]float64
		for c := range f {
			f[c] = float64(p[c]) / 255
		}
		covered := false
		for _, layer := range layers {
			if !inside(layer, bx, by) {
				continue
			}
			covered = true
			q := pixel(layer, bx, by)
			for c := range f {
				b := float64(q[c]) / 255
				switch op.Mode {
				case BlendMultiply:
					f[c] *= b
				case BlendScreen:
					f[c] = 1 - (1-f[c])*(1-b)
				}
			}
		}
		if !covered {
			return
		}
		for c := range f {
			p[c] = clampByte(math.Round(f[c] * 255))
		}
	})
}

// copyInto places src with its top-left corner at off, overwriting img
// where they overlap. With draw set src is drawn over img instead.
func copyInto(img, src *image.NRGBA, off image.Point, draw bool) {
	sw, sh := size(src)
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			dx, dy := x+off.X, y+off.Y
			if !inside(img, dx, dy) {
				continue
			}
			if draw {
				over(pixel(img, dx, dy), pixel(src, x, y))
			} else {
				copy(pixel(img, dx, dy), pixel(src, x, y))
			}
		}
	}
}

// border returns img grown by op.Pixels on every side with the border
// gradient painted around its visible pixels.
func border(img *image.NRGBA, op Border) (*image.NRGBA, error) {
	p := op.Pixels
	if p <= 0 {
		return img, nil
	}
	if p > maxPixels {
		return nil, fmt.Errorf("%w: border of %d pixels", ErrGeometry, p)
	}
	w, h := size(img)
	out, err := newImage(w+2*p, h+2*p)
	if err != nil {
		return nil, err
	}
	copyInto(out, img, image.Pt(p, p), false)

	ramp := gradient{from: toF(op.End), to: toF(op.Start)}
	span := float64(2*p - 1)
	forEachPixel(out, func(x, y int, px []uint8) {
		empty := px[3] == 0 || (op.IncludeTransparent && px[3] != 255)
		if !empty {
			if op.OutlineOnly {
				px[0], px[1], px[2], px[3] = 0, 0, 0, 0
			}
			return
		}
		dist := nearestVisible(img, x-p, y-p, p)
		if dist < 0 {
			return
		}
		c := ramp.At(float64(dist-1) / span)
		if px[3] != 0 {
			pa := float64(px[3]) / 255
			if op.OutlineOnly {
				c.a = (1 - pa) * math.Min(pa, 0.5) * 2
			} else {
				a := c.a + pa*(1-c.a)
				c = c.linear().mix(fromBytes(px).linear(), pa).srgb()
				c.a = a
			}
		}
		c.put(px)
	})
	return out, nil
}

// nearestVisible returns the smallest Manhattan distance from (x, y) to a
// pixel of img with non-zero alpha within the square of radius r, or -1.
func nearestVisible(img *image.NRGBA, x, y, r int) int {
	w, h := size(img)
	best := -1
	// only the part of the square that overlaps img
	for j := max(-r, -y); j <= min(r, h-1-y); j++ {
		for i := max(-r, -x); i <= min(r, w-1-x); i++ {
			if pixel(img, x+i, y+j)[3] == 0 {
				continue
			}
			d := abs(i) + abs(j)
			if best < 0 || d < best {
				best = d
			}
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
