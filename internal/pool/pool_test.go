package pool

import (
	"errors"
	"sync"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBitmap_ReturnsEmptyBitmap(t *testing.T) {
	b := GetBitmap()
	b.AddMany([]uint32{1, 2, 3})
	PutBitmap(b)

	again := GetBitmap()
	defer PutBitmap(again)

	assert.True(t, again.IsEmpty())
}

func TestPutBitmap_Nil(t *testing.T) {
	assert.NotPanics(t, func() { PutBitmap(nil) })
}

func TestWithBitmap(t *testing.T) {
	t.Run("passes an empty bitmap", func(t *testing.T) {
		err := WithBitmap(func(b *roaring.Bitmap) error {
			assert.True(t, b.IsEmpty())
			b.Add(42)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("propagates error", func(t *testing.T) {
		boom := errors.New("boom")
		err := WithBitmap(func(b *roaring.Bitmap) error {
			b.Add(7)
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})
}

func TestGetOrdinals(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
	}{
		{name: "default capacity", capacity: 0},
		{name: "small capacity", capacity: 4},
		{name: "grows beyond default", capacity: 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := GetOrdinals(tt.capacity)
			defer PutOrdinals(buf)

			assert.Len(t, *buf, 0)
			assert.GreaterOrEqual(t, cap(*buf), tt.capacity)

			*buf = append(*buf, 1, 2, 3)
		})
	}
}

func TestPutOrdinals_DropsOversizedBuffers(t *testing.T) {
	big := make([]uint32, 0, maxRetainedOrdinals+1)
	assert.NotPanics(t, func() { PutOrdinals(&big) })
	assert.NotPanics(t, func() { PutOrdinals(nil) })
}

func TestPool_ConcurrentCheckout(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n uint32) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b := GetBitmap()
				b.Add(n)
				if b.GetCardinality() != 1 {
					t.Errorf("bitmap shared between goroutines: cardinality %d", b.GetCardinality())
				}
				PutBitmap(b)

				buf := GetOrdinals(8)
				*buf = append(*buf, n)
				if len(*buf) != 1 {
					t.Errorf("ordinal buffer shared between goroutines: len %d", len(*buf))
				}
				PutOrdinals(buf)
			}
		}(uint32(i))
	}
	wg.Wait()
}
