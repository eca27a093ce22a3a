package equity

import (
	"github.com/domino14/connect4/board"
)

// windowScores[n] is the value of a window holding n pieces of one side and
// nothing of the other.
var windowScores = [board.WinLength + 1]int{0, 10, 100, 1000, 10000}

// LinePotential scores every horizontal, vertical and diagonal window of
// WinLength squares. A window holding only one side's pieces (and empties)
// is worth 10^pieces to that side; mixed and empty windows are worth
// nothing.
type LinePotential struct{}

func (LinePotential) Evaluate(b *board.Board, side board.Cell) int {
	score := 0
	rows, cols := b.Rows(), b.Cols()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c <= cols-board.WinLength {
				score += window(b, side, r, c, 0, 1)
			}
			if r <= rows-board.WinLength {
				score += window(b, side, r, c, 1, 0)
			}
			if r <= rows-board.WinLength && c <= cols-board.WinLength {
				score += window(b, side, r, c, 1, 1)
			}
			if r <= rows-board.WinLength && c >= board.WinLength-1 {
				score += window(b, side, r, c, 1, -1)
			}
		}
	}
	return score
}

func window(b *board.Board, side board.Cell, row, col, dr, dc int) int {
	ours, theirs := 0, 0
	for i := 0; i < board.WinLength; i++ {
		switch b.At(row+dr*i, col+dc*i) {
		case board.Empty:
		case side:
			ours++
		default:
			theirs++
		}
	}
	switch {
	case ours > 0 && theirs == 0:
		return windowScores[ours]
	case theirs > 0 && ours == 0:
		return -windowScores[theirs]
	}
	return 0
}
