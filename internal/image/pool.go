package image

import "sync"

// Pool is a thread-safe pool for reusing ImageBuf instances.
//
// Pool groups buffers by their dimensions, stride and format. Presenters use
// it to keep surface buffers alive across window resizes that flip back and
// forth between a few sizes.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*ImageBuf
	maxSize int // max buffers per bucket
}

// poolKey identifies a bucket of identical buffer layouts.
type poolKey struct {
	width  int
	height int
	stride int
	format Format
}

// NewPool creates a new image buffer pool with the given maximum buffers per bucket.
// A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*ImageBuf),
		maxSize: maxPerBucket,
	}
}

// Get retrieves a tightly packed buffer from the pool or creates a new one.
func (p *Pool) Get(width, height int, format Format) (*ImageBuf, error) {
	return p.GetWithStride(width, height, format, format.RowBytes(width))
}

// GetWithStride retrieves a buffer with the given stride from the pool or
// creates a new one. Reused buffers are cleared, padding included.
func (p *Pool) GetWithStride(width, height int, format Format, stride int) (*ImageBuf, error) {
	key := poolKey{width: width, height: height, stride: stride, format: format}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()

		buf.Clear()
		return buf, nil
	}
	p.mu.Unlock()

	return NewImageBuf(width, height, format, stride)
}

// Put returns an image buffer to the pool for reuse.
// If buf is nil or the pool bucket is at max capacity, the buffer is discarded.
func (p *Pool) Put(buf *ImageBuf) {
	if buf == nil {
		return
	}

	key := poolKey{
		width:  buf.width,
		height: buf.height,
		stride: buf.stride,
		format: buf.format,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}
