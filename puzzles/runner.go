package puzzles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/search"
)

type Result struct {
	Puzzle Puzzle
	// Chosen is the engine's 1-based column, or 0 if it found none.
	Chosen  int
	Passed  bool
	Stats   search.Stats
	Elapsed time.Duration
}

// Check reports whether a 1-based column answers the puzzle.
func (p Puzzle) Check(col int) bool {
	if lo.Contains(p.Avoid, col) {
		return false
	}
	if len(p.Expect) > 0 {
		return lo.Contains(p.Expect, col)
	}
	return col > 0
}

// Run solves every puzzle of the suite. One solver is reused throughout.
func Run(ctx context.Context, s *Suite, opts ...search.Option) ([]Result, error) {
	var solver *search.Solver
	results := make([]Result, 0, len(s.Puzzles))
	for _, p := range s.Puzzles {
		b, err := p.Position()
		if err != nil {
			return nil, err
		}
		cfg, err := p.SearchConfig(b)
		if err != nil {
			return nil, err
		}
		if solver == nil {
			if solver, err = search.NewSolver(cfg, opts...); err != nil {
				return nil, err
			}
		} else if err = solver.SetConfig(cfg); err != nil {
			return nil, err
		}

		ts := time.Now()
		col, ok, err := solver.SelectMove(ctx, b)
		if err != nil {
			return nil, err
		}
		res := Result{Puzzle: p, Stats: solver.Stats(), Elapsed: time.Since(ts)}
		if ok {
			res.Chosen = col + 1
		}
		res.Passed = p.Check(res.Chosen)
		log.Debug().Str("puzzle", p.Name).Int("chosen", res.Chosen).Bool("passed", res.Passed).
			Msg("puzzle-result")
		results = append(results, res)
	}
	return results, nil
}

// Report renders results as a table.
func Report(results []Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-28s %-6s %-6s %-7s %-8s %s\n", "Puzzle", "Type", "Depth", "Chosen", "Result", "Nodes")
	for _, r := range results {
		verdict := "FAIL"
		if r.Passed {
			verdict = "ok"
		}
		fmt.Fprintf(&sb, "%-28s %-6s %-6d %-7d %-8s %d\n", r.Puzzle.Name, r.Puzzle.Type,
			r.Puzzle.Depth, r.Chosen, verdict, r.Stats.Nodes)
	}
	passed := lo.CountBy(results, func(r Result) bool { return r.Passed })
	fmt.Fprintf(&sb, "Passed %d of %d\n", passed, len(results))
	return sb.String()
}

// CreatePuzzlesFromGame walks through a game and turns every position where
// the side to move can win on the spot, or has exactly one move that does
// not hand the opponent an immediate win, into a puzzle. moves are 0-based.
func CreatePuzzlesFromGame(rows, cols int, moves []int, depth int) ([]Puzzle, error) {
	b, err := board.New(rows, cols)
	if err != nil {
		return nil, err
	}
	puzzles := []Puzzle{}
	for i := 0; i <= len(moves); i++ {
		if i > 0 {
			if _, _, err := b.Apply(moves[i-1]); err != nil {
				return nil, fmt.Errorf("move %d: %w", i, err)
			}
		}
		if b.Terminal() {
			break
		}
		p := Puzzle{
			Moves: b.MoveString(),
			Depth: depth,
		}
		if rows != board.StandardRows || cols != board.StandardCols {
			p.Rows, p.Cols = rows, cols
		}
		if wins := winningMoves(b); len(wins) > 0 {
			p.Name = fmt.Sprintf("win-after-%d", i)
			p.Type = PuzzleWin
			p.Expect = toOneBased(wins)
			puzzles = append(puzzles, p)
			continue
		}
		safe, unsafe := partitionMoves(b)
		if len(safe) == 1 && len(unsafe) > 0 {
			p.Name = fmt.Sprintf("forced-after-%d", i)
			p.Type = PuzzleBlock
			p.Expect = toOneBased(safe)
			puzzles = append(puzzles, p)
		} else if len(safe) > 1 && len(unsafe) > 0 {
			p.Name = fmt.Sprintf("avoid-after-%d", i)
			p.Type = PuzzleAvoid
			p.Avoid = toOneBased(unsafe)
			puzzles = append(puzzles, p)
		}
	}
	return puzzles, nil
}

func winningMoves(b *board.Board) []int {
	return lo.Filter(b.LegalMoves(), func(col int, _ int) bool {
		_, outcome, err := b.Apply(col)
		if err != nil {
			return false
		}
		b.Undo()
		return outcome == board.Win
	})
}

// partitionMoves splits the legal moves by whether they allow the opponent
// to win immediately.
func partitionMoves(b *board.Board) ([]int, []int) {
	return lo.FilterReject(b.LegalMoves(), func(col int, _ int) bool {
		if _, _, err := b.Apply(col); err != nil {
			return false
		}
		defer b.Undo()
		return b.Terminal() || len(winningMoves(b)) == 0
	})
}

func toOneBased(cols []int) []int {
	return lo.Map(cols, func(c int, _ int) int { return c + 1 })
}
