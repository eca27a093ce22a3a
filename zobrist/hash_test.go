package zobrist

import (
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/domino14/connect4/board"
)

func newZobrist(b *board.Board) *Zobrist {
	z := &Zobrist{}
	z.Initialize(b.Rows(), b.Cols())
	return z
}

func TestHashAfterMakingPlay(t *testing.T) {
	is := is.New(t)
	b := board.NewStandard()
	z := newZobrist(b)
	h := z.Hash(b)

	row, _, err := b.Apply(3)
	is.NoErr(err)
	h1 := z.AddMove(h, row, 3, board.Empty, board.PlayerA, board.PlayerA, board.PlayerB)
	is.Equal(h1, z.Hash(b))
	is.True(h1 != h)
}

func TestPlayAndUnplay(t *testing.T) {
	is := is.New(t)
	b := board.NewStandard()
	z := newZobrist(b)

	for game := 0; game < 100; game++ {
		for b.Undo() {
		}
		key := z.Hash(b)
		keys := []uint64{key}
		for !b.Terminal() {
			moves := b.LegalMoves()
			col := moves[frand.Intn(len(moves))]
			mover := b.SideToMove()
			row, _, err := b.Apply(col)
			is.NoErr(err)
			key = z.AddMove(key, row, col, board.Empty, mover, mover, b.SideToMove())
			is.Equal(key, z.Hash(b))
			keys = append(keys, key)
		}
		// unwind the whole game and check every intermediate key.
		for i := len(keys) - 1; i > 0; i-- {
			last, ok := b.LastMove()
			is.True(ok)
			sideBefore := b.SideToMove()
			is.True(b.Undo())
			key = z.AddMove(key, last.Row, last.Col, last.Mover, board.Empty,
				sideBefore, b.SideToMove())
			is.Equal(key, keys[i-1])
			is.Equal(key, z.Hash(b))
		}
	}
}

func TestFits(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	is.True(!z.Fits(6, 7))
	z.Initialize(6, 7)
	is.True(z.Fits(6, 7))
	is.True(!z.Fits(7, 6))
}
