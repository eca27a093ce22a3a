package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/connect4/board"
)

const bignum = 1<<63 - 2

// number of distinct occupants, including board.Empty.
const numOccupants = 3

// Zobrist generates a hash for a position: the occupied squares plus the side
// to move.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	// posTable[square][occupant]; the Empty column is always zero so empty
	// squares never contribute.
	posTable  [][numOccupants]uint64
	sideTable [numOccupants]uint64

	rows int
	cols int
}

func (z *Zobrist) Initialize(rows, cols int) {
	z.rows = rows
	z.cols = cols
	z.posTable = make([][numOccupants]uint64, rows*cols)
	for i := range z.posTable {
		z.posTable[i][board.PlayerA] = frand.Uint64n(bignum) + 1
		z.posTable[i][board.PlayerB] = frand.Uint64n(bignum) + 1
	}
	z.sideTable[board.PlayerA] = frand.Uint64n(bignum) + 1
	z.sideTable[board.PlayerB] = frand.Uint64n(bignum) + 1
}

// Fits returns true if the tables were built for a board of these
// dimensions.
func (z *Zobrist) Fits(rows, cols int) bool {
	return z.posTable != nil && z.rows == rows && z.cols == cols
}

// Hash computes the key of a position from scratch.
func (z *Zobrist) Hash(b *board.Board) uint64 {
	key := uint64(0)
	for r := 0; r < z.rows; r++ {
		for c := 0; c < z.cols; c++ {
			occ := b.At(r, c)
			if occ == board.Empty {
				continue
			}
			key ^= z.posTable[r*z.cols+c][occ]
		}
	}
	key ^= z.sideTable[b.SideToMove()]
	return key
}

// AddMove returns key updated for a single square changing from oldOcc to
// newOcc and the side to move changing from oldSide to newSide. XOR is its
// own inverse, so the same call with the occupants and sides swapped undoes
// it.
func (z *Zobrist) AddMove(key uint64, row, col int, oldOcc, newOcc,
	oldSide, newSide board.Cell) uint64 {

	sq := row*z.cols + col
	key ^= z.posTable[sq][oldOcc]
	key ^= z.posTable[sq][newOcc]
	key ^= z.sideTable[oldSide]
	key ^= z.sideTable[newSide]
	return key
}
