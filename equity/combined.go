package equity

import (
	"fmt"

	"github.com/domino14/connect4/board"
)

// Combined sums the scores of several evaluators.
type Combined struct {
	evaluators []Evaluator
}

func NewCombined(evaluators ...Evaluator) *Combined {
	return &Combined{evaluators: evaluators}
}

func (c *Combined) Evaluate(b *board.Board, side board.Cell) int {
	score := 0
	for _, e := range c.evaluators {
		score += e.Evaluate(b, side)
	}
	return score
}

const (
	LinePotentialName = "line-potential"
	CombinedName      = "combined"
)

// ByName returns one of the built-in evaluators.
func ByName(name string) (Evaluator, error) {
	switch name {
	case LinePotentialName, "":
		return LinePotential{}, nil
	case CombinedName:
		return NewCombined(LinePotential{}, CenterControl{}), nil
	}
	return nil, fmt.Errorf("unknown evaluator %q", name)
}
