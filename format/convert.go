package format

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ToRGB writes src into dst as packed RGB rows of width w.
//
// Alpha is dropped. When src and the w×h buffer differ in size only the
// overlapping top-left region is copied and the rest of dst is left as is.
func ToRGB(dst []byte, w, h int, src image.Image) error {
	if w <= 0 || h <= 0 {
		return ErrInvalidImage
	}
	if len(dst) < 3*w*h {
		return ErrBufferTooSmall
	}

	b := src.Bounds()
	cw, ch := min(w, b.Dx()), min(h, b.Dy())
	if cw <= 0 || ch <= 0 {
		return nil
	}
	stride := 3 * w

	switch s := src.(type) {
	case *image.RGBA:
		copyRGBX(dst, stride, s.Pix[s.PixOffset(b.Min.X, b.Min.Y):], s.Stride, cw, ch)
	case *image.NRGBA:
		copyRGBX(dst, stride, s.Pix[s.PixOffset(b.Min.X, b.Min.Y):], s.Stride, cw, ch)
	case *image.YCbCr:
		for y := range ch {
			row := dst[y*stride : y*stride+3*cw]
			for x := range cw {
				yi := s.YOffset(b.Min.X+x, b.Min.Y+y)
				ci := s.COffset(b.Min.X+x, b.Min.Y+y)
				row[x*3], row[x*3+1], row[x*3+2] = color.YCbCrToRGB(s.Y[yi], s.Cb[ci], s.Cr[ci])
			}
		}
	case *image.Gray:
		for y := range ch {
			row := dst[y*stride : y*stride+3*cw]
			g := s.Pix[s.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := range cw {
				row[x*3], row[x*3+1], row[x*3+2] = g[x], g[x], g[x]
			}
		}
	default:
		tmp := image.NewNRGBA(image.Rect(0, 0, cw, ch))
		draw.Draw(tmp, tmp.Bounds(), src, b.Min, draw.Src)
		copyRGBX(dst, stride, tmp.Pix, tmp.Stride, cw, ch)
	}
	return nil
}

// copyRGBX copies the first three bytes of every 4-byte source pixel.
func copyRGBX(dst []byte, dstStride int, src []byte, srcStride, w, h int) {
	for y := range h {
		d := dst[y*dstStride : y*dstStride+3*w]
		s := src[y*srcStride : y*srcStride+4*w]
		for x := range w {
			d[x*3] = s[x*4]
			d[x*3+1] = s[x*4+1]
			d[x*3+2] = s[x*4+2]
		}
	}
}
