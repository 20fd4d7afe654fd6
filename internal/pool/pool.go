// Package pool provides reusable buffers for matching hot paths.
// Buffers are cleared on checkout and on return, and are owned exclusively by the
// caller between the two.
package pool

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

const (
	// DefaultOrdinalCapacity is the initial capacity of pooled ordinal buffers.
	DefaultOrdinalCapacity = 16

	// maxRetainedOrdinals caps the capacity of buffers kept in the pool so a single
	// pathological key distribution does not pin a large slice forever.
	maxRetainedOrdinals = 1 << 16
)

var bitmapPool = sync.Pool{
	New: func() any {
		return roaring.New()
	},
}

var ordinalPool = sync.Pool{
	New: func() any {
		buf := make([]uint32, 0, DefaultOrdinalCapacity)
		return &buf
	},
}

// GetBitmap retrieves an empty bitmap from the pool. Call PutBitmap when done.
func GetBitmap() *roaring.Bitmap {
	b := bitmapPool.Get().(*roaring.Bitmap)
	b.Clear()
	return b
}

// PutBitmap clears b and returns it to the pool.
func PutBitmap(b *roaring.Bitmap) {
	if b == nil {
		return
	}
	b.Clear()
	bitmapPool.Put(b)
}

// WithBitmap runs fn with a pooled bitmap and returns it on every exit path.
func WithBitmap(fn func(b *roaring.Bitmap) error) error {
	b := GetBitmap()
	defer PutBitmap(b)
	return fn(b)
}

// GetOrdinals retrieves an empty ordinal buffer with at least the given capacity.
func GetOrdinals(capacity int) *[]uint32 {
	buf := ordinalPool.Get().(*[]uint32)
	if cap(*buf) < capacity {
		*buf = make([]uint32, 0, capacity)
	}
	*buf = (*buf)[:0]
	return buf
}

// PutOrdinals returns buf to the pool.
func PutOrdinals(buf *[]uint32) {
	if buf == nil {
		return
	}
	if cap(*buf) > maxRetainedOrdinals {
		return
	}
	*buf = (*buf)[:0]
	ordinalPool.Put(buf)
}
