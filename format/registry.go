package format

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ProbeWindow is the buffer size of the stream handed to each probe, and
// therefore the most a backend can peek at before reading.
const ProbeWindow = 64 << 10

// Backend recognizes and decodes one image format.
type Backend interface {
	// Name is a short identifier such as "png".
	Name() string

	// Consuming reports whether Probe reads the whole file before it can
	// reject it. Consuming backends must be registered last, so a file is
	// read in full only after every cheaper probe has missed.
	Consuming() bool

	// Probe inspects r, a stream positioned at the start of the file, and
	// returns a shell with dimensions filled in when it holds this format.
	// Every attempt gets its own stream, and the stream of a miss is
	// discarded, so Probe may read as far as it needs. A non-consuming
	// backend reads past its signature only once the signature matched.
	Probe(r *bufio.Reader) (*Image, bool)

	// Decode fills buf, which holds 3*BufferWidth*BufferHeight bytes, with
	// the packed RGB pixels of img.
	Decode(img *Image, buf []byte) error

	// Close releases the decoder state of img. It never touches img.Pix.
	Close(img *Image)
}

// Registry dispatches files to backends in registration order.
//
// Example:
//
//	reg := format.Default()
//	img, err := reg.Open("photo.jpg")
//	if err != nil {
//	    return err
//	}
//	defer img.Close()
//	if err := reg.Decode(img); err != nil {
//	    return err
//	}
type Registry struct {
	mu        sync.RWMutex
	backends  []Backend
	consuming string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default returns a new registry holding the built-in backends in their
// probe order.
func Default() *Registry {
	r := NewRegistry()
	for _, b := range []Backend{JPEG(), BMP(), PNG(), WebP(), GIF(), TIFF()} {
		if err := r.Register(b); err != nil {
			panic(err)
		}
	}
	return r
}

// Register appends b to the probe order.
// It returns ErrProbeOrder if a consuming backend is already registered.
func (r *Registry) Register(b Backend) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.consuming != "" {
		return fmt.Errorf("%w: %s after %s", ErrProbeOrder, b.Name(), r.consuming)
	}
	if b.Consuming() {
		r.consuming = b.Name()
	}
	r.backends = append(r.backends, b)
	return nil
}

// Names returns the backend names in probe order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.backends))
	for i, b := range r.backends {
		names[i] = b.Name()
	}
	return names
}

// Open probes path with every backend in order. The file is opened afresh
// for each attempt, so a probe that read part of it never affects the next.
//
// It returns *OpenError when the file cannot be opened and *FormatError when
// no backend recognizes it. On success the returned image owns the file;
// call Decode, then Close.
func (r *Registry) Open(path string) (*Image, error) {
	name := filepath.Clean(path)

	r.mu.RLock()
	backends := r.backends
	r.mu.RUnlock()

	var br *bufio.Reader
	for _, b := range backends {
		f, err := os.Open(name)
		if err != nil {
			return nil, &OpenError{Path: path, Err: err}
		}
		if br == nil {
			br = bufio.NewReaderSize(f, ProbeWindow)
		} else {
			br.Reset(f)
		}

		img, ok := b.Probe(br)
		if !ok {
			_ = f.Close()
			continue
		}
		img.Path = path
		img.Backend = b
		img.file = f

		if err := img.Validate(); err != nil {
			_ = img.Close()
			return nil, &DecodeError{Path: path, Backend: b.Name(), Err: err}
		}
		return img, nil
	}

	if len(backends) == 0 {
		// Report unreadable files as such even without backends.
		f, err := os.Open(name)
		if err != nil {
			return nil, &OpenError{Path: path, Err: err}
		}
		_ = f.Close()
	}
	return nil, &FormatError{Path: path}
}

// Decode allocates img.Pix and runs the backend decoder. The image is
// closed afterwards whatever the outcome; Pix remains valid.
// Failures are returned as *DecodeError.
func (r *Registry) Decode(img *Image) error {
	defer func() { _ = img.Close() }()

	if img.Backend == nil {
		return &DecodeError{Path: img.Path, Backend: "none", Err: errNoStream}
	}
	img.Alloc()
	if err := img.Backend.Decode(img, img.Pix); err != nil {
		return &DecodeError{Path: img.Path, Backend: img.Backend.Name(), Err: err}
	}
	return nil
}
