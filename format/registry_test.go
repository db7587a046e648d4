package format

import (
	"bufio"
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// testImage returns a w×h image whose pixels encode their coordinates.
func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	return img
}

// writeFile writes data to a file in a fresh temp dir and returns its path.
func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func encode(t *testing.T, fn func(io.Writer, image.Image) error, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := fn(&buf, img); err != nil {
		t.Fatalf("encode error = %v", err)
	}
	return buf.Bytes()
}

func encodePNG(w io.Writer, img image.Image) error  { return png.Encode(w, img) }
func encodeBMP(w io.Writer, img image.Image) error  { return bmp.Encode(w, img) }
func encodeTIFF(w io.Writer, img image.Image) error { return tiff.Encode(w, img, nil) }
func encodeGIF(w io.Writer, img image.Image) error  { return gif.Encode(w, img, nil) }
func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
}

func TestDefault_Order(t *testing.T) {
	want := []string{"jpeg", "bmp", "png", "webp", "gif", "tiff"}
	if got := Default().Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRegister_ConsumingLast(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(PNG()); err != nil {
		t.Fatalf("Register(png) error = %v", err)
	}
	if err := r.Register(TIFF()); err != nil {
		t.Fatalf("Register(tiff) error = %v", err)
	}
	if err := r.Register(GIF()); !errors.Is(err, ErrProbeOrder) {
		t.Errorf("Register(gif) after tiff error = %v, want ErrProbeOrder", err)
	}
	if err := r.Register(TIFF()); !errors.Is(err, ErrProbeOrder) {
		t.Errorf("second consuming Register error = %v, want ErrProbeOrder", err)
	}
	if got := r.Names(); !slices.Equal(got, []string{"png", "tiff"}) {
		t.Errorf("Names() = %v, want [png tiff]", got)
	}
}

func TestOpen_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.png")
	_, err := Default().Open(path)

	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("Open() error = %v, want *OpenError", err)
	}
	if openErr.Path != path {
		t.Errorf("Path = %q, want %q", openErr.Path, path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("OpenError should unwrap to os.ErrNotExist")
	}
}

func TestOpen_UnknownFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("definitely not an image")},
		{"empty", nil},
		{"png magic only", []byte("\x89PNG\r\n\x1a\n")},
		{"tiff magic only", []byte("II*\x00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "file.bin", tt.data)
			_, err := Default().Open(path)

			var fmtErr *FormatError
			if !errors.As(err, &fmtErr) {
				t.Fatalf("Open() error = %v, want *FormatError", err)
			}
			if !errors.Is(err, ErrUnknownFormat) {
				t.Error("FormatError should match ErrUnknownFormat")
			}
		})
	}
}

func TestOpenDecode_Lossless(t *testing.T) {
	src := testImage(7, 5)

	tests := []struct {
		backend string
		encode  func(io.Writer, image.Image) error
	}{
		{"png", encodePNG},
		{"bmp", encodeBMP},
		{"tiff", encodeTIFF},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			reg := Default()
			path := writeFile(t, "img", encode(t, tt.encode, src))

			img, err := reg.Open(path)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if img.Backend.Name() != tt.backend {
				t.Errorf("Backend = %s, want %s", img.Backend.Name(), tt.backend)
			}
			if img.SourceWidth != 7 || img.SourceHeight != 5 {
				t.Errorf("source = %dx%d, want 7x5", img.SourceWidth, img.SourceHeight)
			}
			if img.Pix != nil {
				t.Error("Pix allocated before Decode")
			}

			if err := reg.Decode(img); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(img.Pix) != 3*7*5 {
				t.Fatalf("len(Pix) = %d, want %d", len(img.Pix), 3*7*5)
			}
			for y := range 5 {
				for x := range 7 {
					off := y*img.Stride() + x*3
					c := src.NRGBAAt(x, y)
					if img.Pix[off] != c.R || img.Pix[off+1] != c.G || img.Pix[off+2] != c.B {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, img.Pix[off:off+3], c)
					}
				}
			}
			if img.State != nil {
				t.Error("backend state not released after Decode")
			}
		})
	}
}

func TestOpenDecode_Lossy(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := range 8 {
		for x := range 16 {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	tests := []struct {
		backend string
		encode  func(io.Writer, image.Image) error
		tol     int
	}{
		{"jpeg", encodeJPEG, 8},
		{"gif", encodeGIF, 2},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			reg := Default()
			img, err := reg.Open(writeFile(t, "img", encode(t, tt.encode, src)))
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if img.Backend.Name() != tt.backend {
				t.Errorf("Backend = %s, want %s", img.Backend.Name(), tt.backend)
			}
			if img.BufferWidth != 16 || img.BufferHeight != 8 {
				t.Errorf("buffer = %dx%d, want 16x8", img.BufferWidth, img.BufferHeight)
			}
			if err := reg.Decode(img); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			for i := 0; i < len(img.Pix); i += 3 {
				if absDiff(img.Pix[i], 255) > tt.tol || absDiff(img.Pix[i+1], 0) > tt.tol || absDiff(img.Pix[i+2], 0) > tt.tol {
					t.Fatalf("pixel %d = %v, want ~(255,0,0)", i/3, img.Pix[i:i+3])
				}
			}
		})
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestDecode_Truncated(t *testing.T) {
	data := encode(t, encodePNG, testImage(32, 32))
	reg := Default()

	img, err := reg.Open(writeFile(t, "cut.png", data[:len(data)/2]))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	err = reg.Decode(img)

	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("Decode() error = %v, want *DecodeError", err)
	}
	if decErr.Backend != "png" {
		t.Errorf("Backend = %q, want png", decErr.Backend)
	}
	if img.Pix == nil {
		t.Error("Pix should stay allocated after a failed decode")
	}
	if err := img.Close(); err != nil {
		t.Errorf("Close() after Decode error = %v", err)
	}
}

func TestJPEG_OrientationSwapsDimensions(t *testing.T) {
	data := encode(t, encodeJPEG, testImage(12, 4))

	// APP1 carrying a big-endian IFD0 with Orientation = 6.
	payload := []byte("Exif\x00\x00" +
		"MM\x00\x2a\x00\x00\x00\x08" +
		"\x00\x01" +
		"\x01\x12\x00\x03\x00\x00\x00\x01\x00\x06\x00\x00" +
		"\x00\x00\x00\x00")
	app1 := append([]byte{0xFF, 0xE1, 0, byte(len(payload) + 2)}, payload...)
	rotated := slices.Concat(data[:2], app1, data[2:])

	if o := orientation(rotated); o != 6 {
		t.Fatalf("orientation() = %d, want 6", o)
	}

	reg := Default()
	img, err := reg.Open(writeFile(t, "rot.jpg", rotated))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if img.SourceWidth != 4 || img.SourceHeight != 12 {
		t.Errorf("source = %dx%d, want 4x12", img.SourceWidth, img.SourceHeight)
	}
	if err := reg.Decode(img); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
}

func TestOrientation(t *testing.T) {
	if o := orientation([]byte("no exif here")); o != 1 {
		t.Errorf("orientation() = %d, want 1", o)
	}
	for o, want := range map[int]bool{1: false, 4: false, 5: true, 8: true, 9: false} {
		if got := transposed(o); got != want {
			t.Errorf("transposed(%d) = %v, want %v", o, got, want)
		}
	}
}

func TestProbe_DoesNotConsume(t *testing.T) {
	data := encode(t, encodePNG, testImage(3, 3))
	br := bufio.NewReaderSize(bytes.NewReader(data), ProbeWindow)

	for _, b := range []Backend{JPEG(), BMP(), WebP(), GIF()} {
		if _, ok := b.Probe(br); ok {
			t.Fatalf("%s matched a PNG stream", b.Name())
		}
	}
	if _, ok := PNG().Probe(br); !ok {
		t.Fatal("png backend did not match after the earlier probes")
	}
	if br.Buffered() == 0 {
		t.Fatal("stream was not buffered by probing")
	}
	head, _ := br.Peek(8)
	if !bytes.Equal(head, data[:8]) {
		t.Error("stream advanced during non-consuming probes")
	}
}

func TestImage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		img     Image
		wantErr bool
	}{
		{"exact", Image{SourceWidth: 4, SourceHeight: 3, BufferWidth: 4, BufferHeight: 3}, false},
		{"larger buffer", Image{SourceWidth: 4, SourceHeight: 3, BufferWidth: 8, BufferHeight: 4}, false},
		{"zero source", Image{SourceWidth: 0, SourceHeight: 3, BufferWidth: 4, BufferHeight: 3}, true},
		{"buffer too narrow", Image{SourceWidth: 4, SourceHeight: 3, BufferWidth: 3, BufferHeight: 3}, true},
		{"buffer too short", Image{SourceWidth: 4, SourceHeight: 3, BufferWidth: 4, BufferHeight: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.img.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidImage) {
				t.Errorf("Validate() error = %v, want ErrInvalidImage", err)
			}
		})
	}
}

func TestImage_AllocAndBuffer(t *testing.T) {
	img := &Image{SourceWidth: 3, SourceHeight: 2, BufferWidth: 4, BufferHeight: 2}
	img.Alloc()
	if len(img.Pix) != 24 {
		t.Fatalf("len(Pix) = %d, want 24", len(img.Pix))
	}
	pix := img.Pix
	img.Alloc()
	if &img.Pix[0] != &pix[0] {
		t.Error("Alloc reallocated a buffer of the right size")
	}

	buf, err := img.Buffer()
	if err != nil {
		t.Fatalf("Buffer() error = %v", err)
	}
	if buf.Width() != 4 || buf.Height() != 2 || buf.Stride() != 12 {
		t.Errorf("Buffer() = %dx%d stride %d, want 4x2 stride 12", buf.Width(), buf.Height(), buf.Stride())
	}
}

func TestImage_CloseIdempotent(t *testing.T) {
	closes := 0
	img := &Image{Backend: countingBackend{n: &closes}, State: "state"}
	_ = img.Close()
	_ = img.Close()
	if closes != 1 {
		t.Errorf("backend Close called %d times, want 1", closes)
	}
	if img.State != nil {
		t.Error("State not cleared")
	}
}

// countingBackend records how often Close is called.
type countingBackend struct{ n *int }

func (countingBackend) Name() string { return "counting" }

func (countingBackend) Consuming() bool { return false }

func (countingBackend) Probe(*bufio.Reader) (*Image, bool) { return nil, false }

func (countingBackend) Decode(*Image, []byte) error { return nil }

func (b countingBackend) Close(*Image) { *b.n++ }

// greedyBackend drains the stream it is given and never matches.
type greedyBackend struct{ read *int }

func (greedyBackend) Name() string { return "greedy" }

func (greedyBackend) Consuming() bool { return false }

func (b greedyBackend) Probe(r *bufio.Reader) (*Image, bool) {
	n, _ := io.Copy(io.Discard, r)
	*b.read += int(n)
	return nil, false
}

func (greedyBackend) Decode(*Image, []byte) error { return nil }

func (greedyBackend) Close(*Image) {}

func TestOpen_FreshStreamPerBackend(t *testing.T) {
	data := encode(t, encodePNG, testImage(5, 4))
	path := writeFile(t, "a.png", data)

	read := 0
	reg := NewRegistry()
	for _, b := range []Backend{greedyBackend{read: &read}, PNG()} {
		if err := reg.Register(b); err != nil {
			t.Fatal(err)
		}
	}

	img, err := reg.Open(path)
	if err != nil {
		t.Fatalf("Open() after a draining probe error = %v", err)
	}
	if read != len(data) {
		t.Errorf("greedy probe read %d bytes, want %d", read, len(data))
	}
	if err := reg.Decode(img); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
}

// jpegSegment returns a JPEG marker segment carrying payload.
func jpegSegment(marker byte, payload []byte) []byte {
	n := len(payload) + 2
	return append([]byte{0xFF, marker, byte(n >> 8), byte(n)}, payload...)
}

// withSOF1 rewrites the baseline frame header of data as extended sequential.
func withSOF1(t *testing.T, data []byte) []byte {
	t.Helper()
	out := slices.Clone(data)
	for i := 2; i+3 < len(out) && out[i] == 0xFF; {
		if out[i+1] == 0xC0 {
			out[i+1] = 0xC1
			return out
		}
		i += 2 + (int(out[i+2])<<8 | int(out[i+3]))
	}
	t.Fatal("no SOF0 segment found")
	return nil
}

func TestJPEG_LargeAppSegments(t *testing.T) {
	data := encode(t, encodeJPEG, testImage(8, 6))
	icc := bytes.Repeat([]byte{0x5A}, 65533)
	big := slices.Concat(data[:2], jpegSegment(0xE2, icc), jpegSegment(0xE2, icc), data[2:])
	if len(big) <= 2*ProbeWindow {
		t.Fatalf("fixture is only %d bytes", len(big))
	}

	reg := Default()
	img, err := reg.Open(writeFile(t, "big.jpg", big))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if img.Backend.Name() != "jpeg" || img.SourceWidth != 8 || img.SourceHeight != 6 {
		t.Errorf("Open() = %s %dx%d, want jpeg 8x6", img.Backend.Name(), img.SourceWidth, img.SourceHeight)
	}
	if err := reg.Decode(img); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
}

func TestJPEG_StdlibFallback(t *testing.T) {
	data := withSOF1(t, encode(t, encodeJPEG, testImage(12, 4)))
	ref, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("image/jpeg rejected the fixture: %v", err)
	}

	// APP1 carrying a big-endian IFD0 with Orientation = 6.
	exifPayload := []byte("Exif\x00\x00" +
		"MM\x00\x2a\x00\x00\x00\x08" +
		"\x00\x01" +
		"\x01\x12\x00\x03\x00\x00\x00\x01\x00\x06\x00\x00" +
		"\x00\x00\x00\x00")

	tests := []struct {
		name string
		data []byte
		w, h int
		src  func(x, y int) (int, int)
	}{
		{"upright", data, 12, 4, func(x, y int) (int, int) { return x, y }},
		{"rotated", slices.Concat(data[:2], jpegSegment(0xE1, exifPayload), data[2:]), 4, 12,
			func(x, y int) (int, int) { return y, 3 - x }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := Default()
			img, err := reg.Open(writeFile(t, "sof1.jpg", tt.data))
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if img.Backend.Name() != "jpeg" {
				t.Errorf("Backend = %s, want jpeg", img.Backend.Name())
			}
			if img.SourceWidth != tt.w || img.SourceHeight != tt.h {
				t.Fatalf("source = %dx%d, want %dx%d", img.SourceWidth, img.SourceHeight, tt.w, tt.h)
			}
			if err := reg.Decode(img); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			for y := range tt.h {
				for x := range tt.w {
					sx, sy := tt.src(x, y)
					r, g, b, _ := ref.At(sx, sy).RGBA()
					off := y*img.Stride() + x*3
					got := img.Pix[off : off+3]
					if absDiff(got[0], uint8(r>>8)) > 1 || absDiff(got[1], uint8(g>>8)) > 1 || absDiff(got[2], uint8(b>>8)) > 1 {
						t.Fatalf("pixel (%d,%d) = %v, want source (%d,%d) = %d,%d,%d",
							x, y, got, sx, sy, r>>8, g>>8, b>>8)
					}
				}
			}
		})
	}
}

func TestOrient(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = uint8(i + 1) // 1 2 3 / 4 5 6
	}

	tests := []struct {
		o    int
		want []uint8
		w    int
	}{
		{1, []uint8{1, 2, 3, 4, 5, 6}, 3},
		{2, []uint8{3, 2, 1, 6, 5, 4}, 3},
		{3, []uint8{6, 5, 4, 3, 2, 1}, 3},
		{4, []uint8{4, 5, 6, 1, 2, 3}, 3},
		{5, []uint8{1, 4, 2, 5, 3, 6}, 2},
		{6, []uint8{4, 1, 5, 2, 6, 3}, 2},
		{7, []uint8{6, 3, 5, 2, 4, 1}, 2},
		{8, []uint8{3, 6, 2, 5, 1, 4}, 2},
	}
	for _, tt := range tests {
		got := orient(src, tt.o)
		if got.Bounds().Dx() != tt.w {
			t.Errorf("orient(%d) width = %d, want %d", tt.o, got.Bounds().Dx(), tt.w)
			continue
		}
		var vals []uint8
		b := got.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, _, _, _ := got.At(x, y).RGBA()
				vals = append(vals, uint8(r>>8))
			}
		}
		if !slices.Equal(vals, tt.want) {
			t.Errorf("orient(%d) = %v, want %v", tt.o, vals, tt.want)
		}
	}
}
