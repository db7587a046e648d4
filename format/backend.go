package format

import (
	"bufio"
	"bytes"
	"image"
	"image/gif"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// match reports whether b starts with magic. A '?' in magic matches any byte.
func match(magic string, b []byte) bool {
	if len(b) < len(magic) {
		return false
	}
	for i := range len(magic) {
		if magic[i] != '?' && magic[i] != b[i] {
			return false
		}
	}
	return true
}

// peekMagic reports whether the stream starts with any of the magic strings.
func peekMagic(r *bufio.Reader, magics ...string) bool {
	for _, m := range magics {
		b, err := r.Peek(len(m))
		if err == nil && match(m, b) {
			return true
		}
	}
	return false
}

// peekWindow returns up to ProbeWindow bytes without advancing the stream.
// Short files return whatever is available.
func peekWindow(r *bufio.Reader) []byte {
	b, _ := r.Peek(min(ProbeWindow, r.Size()))
	return b
}

// streamBackend adapts an image/... style decoder pair. Probing checks the
// magic bytes and reads the header from the peeked window, so the stream
// stays at its start for Decode.
type streamBackend struct {
	name   string
	magic  []string
	config func(io.Reader) (image.Config, error)
	decode func(io.Reader) (image.Image, error)
}

func (b *streamBackend) Name() string    { return b.name }
func (b *streamBackend) Consuming() bool { return false }

func (b *streamBackend) Probe(r *bufio.Reader) (*Image, bool) {
	if !peekMagic(r, b.magic...) {
		return nil, false
	}
	cfg, err := b.config(bytes.NewReader(peekWindow(r)))
	if err != nil {
		return nil, false
	}
	return &Image{
		SourceWidth:  cfg.Width,
		SourceHeight: cfg.Height,
		BufferWidth:  cfg.Width,
		BufferHeight: cfg.Height,
		State:        r,
	}, true
}

func (b *streamBackend) Decode(img *Image, buf []byte) error {
	r, ok := img.State.(io.Reader)
	if !ok {
		return errNoStream
	}
	src, err := b.decode(r)
	if err != nil {
		return err
	}
	return ToRGB(buf, img.BufferWidth, img.BufferHeight, src)
}

func (b *streamBackend) Close(img *Image) {
	img.State = nil
}

// BMP returns the Windows bitmap backend.
func BMP() Backend {
	return &streamBackend{
		name:   "bmp",
		magic:  []string{"BM"},
		config: bmp.DecodeConfig,
		decode: bmp.Decode,
	}
}

// PNG returns the PNG backend.
func PNG() Backend {
	return &streamBackend{
		name:   "png",
		magic:  []string{"\x89PNG\r\n\x1a\n"},
		config: png.DecodeConfig,
		decode: png.Decode,
	}
}

// WebP returns the WebP backend.
func WebP() Backend {
	return &streamBackend{
		name:   "webp",
		magic:  []string{"RIFF????WEBPVP8"},
		config: webp.DecodeConfig,
		decode: webp.Decode,
	}
}

// GIF returns the GIF backend. Only the first frame is decoded.
func GIF() Backend {
	return &streamBackend{
		name:   "gif",
		magic:  []string{"GIF87a", "GIF89a"},
		config: gif.DecodeConfig,
		decode: gif.Decode,
	}
}
