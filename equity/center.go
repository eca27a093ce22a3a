package equity

import (
	"github.com/domino14/connect4/board"
)

// CenterControl values pieces by how close their column is to the middle of
// the board; central pieces take part in more lines. A piece in column c of
// an n-column board is worth min(c, n-1-c).
type CenterControl struct{}

func (CenterControl) Evaluate(b *board.Board, side board.Cell) int {
	score := 0
	cols := b.Cols()
	for _, p := range b.Moves() {
		w := min(p.Col, cols-1-p.Col)
		if p.Mover == side {
			score += w
		} else {
			score -= w
		}
	}
	return score
}
