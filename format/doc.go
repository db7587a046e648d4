// Package format probes and decodes image files into packed RGB buffers.
//
// A [Registry] holds an ordered list of [Backend] values. Opening a file hands
// each backend, in registration order, its own freshly opened buffered stream;
// the first backend that recognizes the file returns an [Image] shell
// carrying the decoded dimensions. The caller then asks the registry to
// decode the shell, which allocates the pixel buffer and fills it.
//
// # Probe order
//
// Most backends decide from a signature peeked within the first [ProbeWindow]
// bytes and read further only after it matched. A consuming backend reads
// the whole file before it can reject it and must therefore be registered
// last. [Registry.Register] enforces this and returns [ErrProbeOrder]
// otherwise.
//
// The default registry tries, in order:
//
//	jpeg  github.com/gen2brain/jpegn, image/jpeg fallback, EXIF orientation via goexif
//	bmp   golang.org/x/image/bmp
//	png   image/png
//	webp  golang.org/x/image/webp
//	gif   image/gif (first frame)
//	tiff  golang.org/x/image/tiff (consuming)
//
// # Errors
//
// Failures are reported as [*OpenError], [*FormatError] or [*DecodeError] so
// that callers can log the cause and move on to the next file.
package format
