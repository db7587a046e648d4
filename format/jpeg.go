package format

import (
	"bufio"
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"io"

	"github.com/gen2brain/jpegn"
	"github.com/rwcarlsen/goexif/exif"
)

// jpegBackend decodes with jpegn. Files jpegn rejects, such as extended
// sequential, 12-bit or bare CMYK streams, go through image/jpeg and are
// rotated here instead.
type jpegBackend struct {
	opts jpegn.Options
}

// jpegState is the probe result handed to Decode.
type jpegState struct {
	data        []byte
	orientation int
	std         bool
}

// JPEG returns the JPEG backend. Images are rotated according to their EXIF
// orientation, and the probed dimensions already account for the rotation.
func JPEG() Backend {
	return &jpegBackend{opts: jpegn.Options{
		ToRGBA:         true,
		UpsampleMethod: jpegn.CatmullRom,
		AutoRotate:     true,
	}}
}

func (b *jpegBackend) Name() string    { return "jpeg" }
func (b *jpegBackend) Consuming() bool { return false }

// Probe reads the whole file once the SOI marker matched, since APP
// segments may push the frame header arbitrarily far into it.
func (b *jpegBackend) Probe(r *bufio.Reader) (*Image, bool) {
	if !peekMagic(r, "\xff\xd8\xff") {
		return nil, false
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false
	}

	st := &jpegState{data: data, orientation: orientation(data)}
	cfg, err := jpegn.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if cfg, err = jpeg.DecodeConfig(bytes.NewReader(data)); err != nil {
			return nil, false
		}
		st.std = true
	}

	w, h := cfg.Width, cfg.Height
	if transposed(st.orientation) {
		w, h = h, w
	}
	return &Image{
		SourceWidth:  w,
		SourceHeight: h,
		BufferWidth:  w,
		BufferHeight: h,
		State:        st,
	}, true
}

func (b *jpegBackend) Decode(img *Image, buf []byte) error {
	st, ok := img.State.(*jpegState)
	if !ok {
		return errNoStream
	}

	if !st.std {
		opts := b.opts
		src, err := jpegn.Decode(bytes.NewReader(st.data), &opts)
		if err == nil {
			return ToRGB(buf, img.BufferWidth, img.BufferHeight, src)
		}
		if !errors.Is(err, jpegn.ErrUnsupported) {
			return err
		}
	}

	src, err := jpeg.Decode(bytes.NewReader(st.data))
	if err != nil {
		return err
	}
	return ToRGB(buf, img.BufferWidth, img.BufferHeight, orient(src, st.orientation))
}

func (b *jpegBackend) Close(img *Image) {
	img.State = nil
}

// orientation returns the EXIF orientation tag found in data, or 1 when the
// file carries none.
func orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

// transposed reports whether an orientation swaps width and height.
func transposed(o int) bool {
	return o >= 5 && o <= 8
}

// orient returns src as it should be displayed under EXIF orientation o.
func orient(src image.Image, o int) image.Image {
	if o < 2 || o > 8 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if transposed(o) {
		dw, dh = h, w
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := range h {
		for x := range w {
			var dx, dy int
			switch o {
			case 2:
				dx, dy = w-1-x, y
			case 3:
				dx, dy = w-1-x, h-1-y
			case 4:
				dx, dy = x, h-1-y
			case 5:
				dx, dy = y, x
			case 6:
				dx, dy = h-1-y, x
			case 7:
				dx, dy = h-1-y, w-1-x
			case 8:
				dx, dy = y, w-1-x
			}
			dst.Set(dx, dy, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
