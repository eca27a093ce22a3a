package search

import (
	"math"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

const entrySize = 16

const (
	minSizePowerOf2 = 12
	maxSizePowerOf2 = 24
)

// 16 bytes (entrySize)
type TableEntry struct {
	key   uint64
	score int32
	depth uint8
	flag  uint8
	// column of the best move, or -1.
	play int8
}

func (t TableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag != 0
}

func (t TableEntry) move() int {
	return int(t.play)
}

// TranspositionTable maps position hashes to search results. It is a
// fixed-size array; a store overwrites whatever was in its slot.
type TranspositionTable struct {
	table        []TableEntry
	sizePowerOf2 int
	sizeMask     uint64
	occupied     int

	created atomic.Uint64
	lookups atomic.Uint64
	hits    atomic.Uint64
	// "type 2" collisions. A type 2 collision happens when two positions share
	// the same slot. A type 1 collision happens when two positions share the
	// same overall hash; we can't detect those, but they should be
	// vanishingly rare with 64-bit keys.
	t2collisions atomic.Uint64
}

// SizeForMemory returns the power of two for a table taking about
// fractionOfMemory of system memory, clamped to a sane range.
func SizeForMemory(fractionOfMemory float64) int {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	p := minSizePowerOf2
	if desiredNElems > 1 {
		p = int(math.Log2(desiredNElems))
	}
	return clampSizePowerOf2(p)
}

func clampSizePowerOf2(p int) int {
	if p < minSizePowerOf2 {
		return minSizePowerOf2
	}
	if p > maxSizePowerOf2 {
		return maxSizePowerOf2
	}
	return p
}

func (t *TranspositionTable) lookup(zval uint64) (TableEntry, bool) {
	t.lookups.Add(1)
	idx := zval & t.sizeMask
	entry := t.table[idx]
	if entry.key != zval || !entry.valid() {
		if entry.valid() {
			// There is another unrelated node at this position.
			t.t2collisions.Add(1)
		}
		return TableEntry{}, false
	}
	t.hits.Add(1)
	return entry, true
}

func (t *TranspositionTable) store(zval uint64, tentry TableEntry) {
	idx := zval & t.sizeMask
	tentry.key = zval
	if !t.table[idx].valid() {
		t.occupied++
	}
	// just overwrite whatever is there.
	t.table[idx] = tentry
	t.created.Add(1)
}

// Reset empties the table, reallocating it only if the size changed.
func (t *TranspositionTable) Reset(sizePowerOf2 int) {
	t.sizePowerOf2 = clampSizePowerOf2(sizePowerOf2)
	numElems := 1 << t.sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}
	log.Debug().Int("num-elems", numElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.occupied = 0
	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}

// Size returns the number of occupied slots.
func (t *TranspositionTable) Size() int {
	return t.occupied
}

// Capacity returns the number of slots.
func (t *TranspositionTable) Capacity() int {
	return len(t.table)
}
