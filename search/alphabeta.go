package search

import (
	"github.com/domino14/connect4/board"
)

// searchRoot runs a single pass to depth plies from the board's current
// position and returns its value and the best column.
func (s *Solver) searchRoot(key uint64, depth int, maximizing bool) (int, int, error) {
	s.nodes.Add(1)
	hashMove := -1
	if s.transpositionTableOptim {
		// the previous pass left its best move here.
		if e, ok := s.ttable.lookup(key); ok {
			hashMove = e.move()
		}
	}
	α, β := -HugeNumber, HugeNumber
	best, bestMove := initialBest(maximizing), -1

	for i, col := range s.orderer.order(s.legalMoves(key), hashMove) {
		v, won, err := s.pvs(key, col, depth, α, β, maximizing, i == 0)
		if err != nil {
			return 0, -1, err
		}
		if won {
			return v, col, nil
		}
		if better(v, best, maximizing) {
			best, bestMove = v, col
		}
		if maximizing {
			α = max(α, best)
		} else {
			β = min(β, best)
		}
	}
	s.store(key, best, depth, TTExact, bestMove)
	return best, bestMove, nil
}

// alphabeta returns the minimax value of the position with key, searched to
// depth plies, from the searching side's point of view.
func (s *Solver) alphabeta(key uint64, depth int, α, β int) (int, error) {
	s.nodes.Add(1)
	b := s.board
	hashMove := -1

	if s.transpositionTableOptim {
		if e, ok := s.ttable.lookup(key); ok {
			if int(e.depth) >= depth {
				score := int(e.score)
				switch e.flag {
				case TTExact:
					return score, nil
				case TTLower:
					if score >= β {
						return score, nil
					}
					α = max(α, score)
				case TTUpper:
					if score <= α {
						return score, nil
					}
					β = min(β, score)
				}
			}
			// a shallower entry still tells us which move to try first.
			hashMove = e.move()
		}
	}
	// Classify against the window actually searched, after any narrowing
	// above.
	alphaOrig, betaOrig := α, β

	if b.Terminal() {
		v := s.terminalScore(b.Winner(), depth)
		s.store(key, v, depth, TTExact, -1)
		return v, nil
	}
	if depth == 0 {
		v := s.evaluate(key)
		s.store(key, v, depth, TTExact, -1)
		return v, nil
	}

	maximizing := b.SideToMove() == s.cfg.SearchingSide
	best, bestMove := initialBest(maximizing), -1

	for i, col := range s.orderer.order(s.legalMoves(key), hashMove) {
		v, won, err := s.pvs(key, col, depth, α, β, maximizing, i == 0)
		if err != nil {
			return 0, err
		}
		if won {
			// nothing beats winning on the spot.
			return v, nil
		}
		if better(v, best, maximizing) {
			best, bestMove = v, col
		}
		if maximizing {
			α = max(α, best)
		} else {
			β = min(β, best)
		}
		if β <= α {
			break
		}
	}

	var flag uint8
	if best <= alphaOrig {
		flag = TTUpper
	} else if best >= betaOrig {
		flag = TTLower
	} else {
		flag = TTExact
	}
	s.store(key, best, depth, flag, bestMove)
	return best, nil
}

// pvs searches the first child with the full window. Later children are
// probed with a null window first and only re-searched with the full window
// if the probe lands strictly inside it.
func (s *Solver) pvs(key uint64, col, depth, α, β int, maximizing, first bool) (int, bool, error) {
	if first {
		return s.searchChild(key, col, depth, α, β)
	}
	var v int
	var won bool
	var err error
	if maximizing {
		v, won, err = s.searchChild(key, col, depth, α, α+1)
	} else {
		v, won, err = s.searchChild(key, col, depth, β-1, β)
	}
	if err != nil || won {
		return v, won, err
	}
	if v > α && v < β {
		return s.searchChild(key, col, depth, α, β)
	}
	return v, false, nil
}

// searchChild plays col, searches the resulting position and takes the move
// back. won is true if col ended the game with a win for the side that
// played it; v is then the terminal score and nothing below was searched.
func (s *Solver) searchChild(key uint64, col, depth, α, β int) (v int, won bool, err error) {
	b := s.board
	mover := b.SideToMove()
	row, outcome, err := b.Apply(col)
	if err != nil {
		return 0, false, err
	}
	defer b.Undo()

	if outcome == board.Win {
		return s.terminalScore(mover, depth-1), true, nil
	}
	childKey := s.zobrist.AddMove(key, row, col, board.Empty, mover, mover, b.SideToMove())
	v, err = s.alphabeta(childKey, depth-1, α, β)
	return v, false, err
}

func (s *Solver) evaluate(key uint64) int {
	if v, ok := s.evalCache[key]; ok {
		return v
	}
	v := s.evaluator.Evaluate(s.board, s.cfg.SearchingSide)
	s.evalCache[key] = v
	return v
}

// legalMoves returns the cached legal moves for key. Callers must not modify
// the returned slice.
func (s *Solver) legalMoves(key uint64) []int {
	if m, ok := s.movesCache[key]; ok {
		return m
	}
	m := s.board.LegalMoves()
	s.movesCache[key] = m
	return m
}

func (s *Solver) store(key uint64, score, depth int, flag uint8, bestMove int) {
	if !s.transpositionTableOptim {
		return
	}
	s.ttable.store(key, TableEntry{
		score: int32(score),
		depth: uint8(depth),
		flag:  flag,
		play:  int8(bestMove),
	})
}

func initialBest(maximizing bool) int {
	if maximizing {
		return -HugeNumber
	}
	return HugeNumber
}

func better(v, best int, maximizing bool) bool {
	if maximizing {
		return v > best
	}
	return v < best
}
