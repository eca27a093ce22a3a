package search

import (
	"testing"

	"github.com/matryer/is"
)

func TestStoreAndLookup(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(12)
	is.Equal(tt.Capacity(), 4096)
	is.Equal(tt.Size(), 0)

	_, ok := tt.lookup(12345)
	is.True(!ok)

	tt.store(12345, TableEntry{score: -77, depth: 3, flag: TTLower, play: 4})
	e, ok := tt.lookup(12345)
	is.True(ok)
	is.Equal(e.score, int32(-77))
	is.Equal(e.depth, uint8(3))
	is.Equal(e.flag, uint8(TTLower))
	is.Equal(e.move(), 4)
	is.Equal(tt.Size(), 1)

	// same slot, different key: a type 2 collision.
	other := uint64(12345 + 4096)
	_, ok = tt.lookup(other)
	is.True(!ok)
	is.Equal(tt.t2collisions.Load(), uint64(1))

	// overwriting does not grow the table.
	tt.store(other, TableEntry{score: 5, depth: 1, flag: TTExact, play: -1})
	is.Equal(tt.Size(), 1)
	_, ok = tt.lookup(12345)
	is.True(!ok)
	e, ok = tt.lookup(other)
	is.True(ok)
	is.Equal(e.move(), -1)

	is.Equal(tt.lookups.Load(), uint64(5))
	is.Equal(tt.hits.Load(), uint64(2))
}

func TestReset(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(12)
	tt.store(1, TableEntry{flag: TTExact})
	tt.store(2, TableEntry{flag: TTExact})
	is.Equal(tt.Size(), 2)
	tt.Reset(12)
	is.Equal(tt.Size(), 0)
	_, ok := tt.lookup(1)
	is.True(!ok)

	// sizes are clamped.
	tt.Reset(2)
	is.Equal(tt.Capacity(), 1<<minSizePowerOf2)
}

func TestSizeForMemory(t *testing.T) {
	is := is.New(t)
	p := SizeForMemory(0.01)
	is.True(p >= minSizePowerOf2)
	is.True(p <= maxSizePowerOf2)
	is.Equal(SizeForMemory(0), minSizePowerOf2)
}
