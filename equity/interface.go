package equity

import (
	"github.com/domino14/connect4/board"
)

// Evaluator statically scores a non-terminal position. Positive scores
// favor side.
type Evaluator interface {
	Evaluate(b *board.Board, side board.Cell) int
}
