package format

import (
	"bufio"
	"bytes"
	"io"

	"golang.org/x/image/tiff"
)

// tiffBackend reads the whole stream during the probe because TIFF
// directories may live anywhere in the file. It is consuming and must be
// registered last.
type tiffBackend struct{}

// TIFF returns the TIFF backend.
func TIFF() Backend {
	return tiffBackend{}
}

func (tiffBackend) Name() string    { return "tiff" }
func (tiffBackend) Consuming() bool { return true }

func (tiffBackend) Probe(r *bufio.Reader) (*Image, bool) {
	if !peekMagic(r, "II*\x00", "MM\x00*") {
		return nil, false
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false
	}
	cfg, err := tiff.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	return &Image{
		SourceWidth:  cfg.Width,
		SourceHeight: cfg.Height,
		BufferWidth:  cfg.Width,
		BufferHeight: cfg.Height,
		State:        data,
	}, true
}

func (tiffBackend) Decode(img *Image, buf []byte) error {
	data, ok := img.State.([]byte)
	if !ok {
		return errNoStream
	}
	src, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return ToRGB(buf, img.BufferWidth, img.BufferHeight, src)
}

func (tiffBackend) Close(img *Image) {
	img.State = nil
}
