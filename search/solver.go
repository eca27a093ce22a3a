// Package search picks moves with a depth-limited minimax search: alpha-beta
// pruning, principal variation search, iterative deepening and a
// transposition table keyed by Zobrist hashes.
package search

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/equity"
	"github.com/domino14/connect4/zobrist"
)

const (
	HugeNumber = int(1 << 30)
	// WinScore is the base value of a won position. The remaining depth is
	// added so faster wins and slower losses are preferred.
	WinScore = 1000
)

// Stats describes the most recent decision.
type Stats struct {
	Nodes        uint64
	Depth        int
	Score        int
	BestMove     int
	TTEntries    int
	TTLookups    uint64
	TTHits       uint64
	TTCollisions uint64
	Elapsed      time.Duration
}

// Solver owns all of the working memory of a search. A Solver can be reused
// for any number of decisions but must not be used by two goroutines at once;
// give every concurrent game its own.
type Solver struct {
	cfg       Config
	zobrist   *zobrist.Zobrist
	evaluator equity.Evaluator
	ttable    *TranspositionTable
	orderer   moveOrderer

	evalCache  map[uint64]int
	movesCache map[uint64][]int

	// the board being searched, only set during SelectMove.
	board *board.Board

	ttSizePowerOf2          int
	transpositionTableOptim bool

	nodes     atomic.Uint64
	lastStats Stats
}

type Option func(*Solver)

// WithEvaluator replaces the default LinePotential leaf evaluator.
func WithEvaluator(e equity.Evaluator) Option {
	return func(s *Solver) { s.evaluator = e }
}

// WithTableSizePowerOf2 sets the number of transposition table slots to
// 2^p. Without it, the table is sized from system memory.
func WithTableSizePowerOf2(p int) Option {
	return func(s *Solver) { s.ttSizePowerOf2 = p }
}

// NewSolver validates cfg and creates a solver.
func NewSolver(cfg Config, opts ...Option) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		cfg:                     cfg,
		zobrist:                 &zobrist.Zobrist{},
		evaluator:               equity.LinePotential{},
		ttable:                  &TranspositionTable{},
		evalCache:               make(map[uint64]int),
		movesCache:              make(map[uint64][]int),
		transpositionTableOptim: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ttSizePowerOf2 == 0 {
		s.ttSizePowerOf2 = SizeForMemory(0.01)
	}
	s.ttable.Reset(s.ttSizePowerOf2)
	return s, nil
}

func (s *Solver) Config() Config {
	return s.cfg
}

// SetConfig changes the configuration for subsequent decisions.
func (s *Solver) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

func (s *Solver) SetTranspositionTableOptim(tt bool) {
	s.transpositionTableOptim = tt
}

// TableSize returns the number of occupied transposition table slots.
func (s *Solver) TableSize() int {
	return s.ttable.Size()
}

// Stats returns statistics of the last decision.
func (s *Solver) Stats() Stats {
	return s.lastStats
}

// Evaluate statically scores b for the searching side.
func (s *Solver) Evaluate(b *board.Board) int {
	return s.evaluator.Evaluate(b, s.cfg.SearchingSide)
}

func (s *Solver) reset(b *board.Board) {
	if !s.zobrist.Fits(b.Rows(), b.Cols()) {
		log.Debug().Int("rows", b.Rows()).Int("cols", b.Cols()).Msg("creating zobrist hash")
		s.zobrist.Initialize(b.Rows(), b.Cols())
	}
	if len(s.orderer.rank) != b.Cols() {
		s.orderer = newMoveOrderer(b.Cols())
	}
	s.ttable.Reset(s.ttSizePowerOf2)
	clear(s.evalCache)
	clear(s.movesCache)
	s.nodes.Store(0)
	s.lastStats = Stats{BestMove: -1}
}

// SelectMove searches b and returns the chosen column. ok is false when the
// position is over or has no legal moves. b is mutated during the search and
// restored before SelectMove returns.
//
// In iterative mode ctx is checked between passes only; once it is done the
// best move of the deepest completed pass is returned. At least one pass
// always completes.
func (s *Solver) SelectMove(ctx context.Context, b *board.Board) (int, bool, error) {
	s.reset(b)
	if b.Terminal() || len(b.LegalMoves()) == 0 {
		return -1, false, nil
	}
	tstart := time.Now()
	s.board = b
	defer func() { s.board = nil }()

	maximizing := b.SideToMove() == s.cfg.SearchingSide
	if col, ok := s.immediateWin(); ok {
		log.Debug().Int("column", col).Msg("immediate-win")
		s.lastStats.BestMove = col
		s.lastStats.Score = s.terminalScore(b.SideToMove(), s.cfg.MaxDepth-1)
		s.lastStats.Elapsed = time.Since(tstart)
		return col, true, nil
	}

	rootKey := s.zobrist.Hash(b)
	bestMove := -1
	g := &errgroup.Group{}
	done := make(chan struct{})

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	g.Go(func() error {
		defer close(done)
		start := 1
		if s.cfg.Mode == Fixed {
			start = s.cfg.MaxDepth
		}
		for p := start; p <= s.cfg.MaxDepth; p++ {
			if p > start && ctx.Err() != nil {
				log.Info().Int("completed-plies", p-1).Err(ctx.Err()).Msg("search-time-boxed")
				break
			}
			log.Debug().Int("plies", p).Msg("deepening-iteratively")
			val, col, err := s.searchRoot(rootKey, p, maximizing)
			if err != nil {
				return err
			}
			bestMove = col
			s.lastStats.Depth = p
			s.lastStats.Score = val
			log.Debug().Int("score", val).Int("ply", p).Int("column", col).Msg("best-val")
		}
		return nil
	})

	err := g.Wait()
	s.lastStats.BestMove = bestMove
	s.lastStats.Nodes = s.nodes.Load()
	s.lastStats.TTEntries = s.ttable.Size()
	s.lastStats.TTLookups = s.ttable.lookups.Load()
	s.lastStats.TTHits = s.ttable.hits.Load()
	s.lastStats.TTCollisions = s.ttable.t2collisions.Load()
	s.lastStats.Elapsed = time.Since(tstart)

	log.Debug().
		Uint64("ttable-created", s.ttable.created.Load()).
		Uint64("ttable-lookups", s.lastStats.TTLookups).
		Uint64("ttable-hits", s.lastStats.TTHits).
		Uint64("ttable-t2collisions", s.lastStats.TTCollisions).
		Uint64("nodes", s.lastStats.Nodes).
		Float64("time-elapsed-sec", s.lastStats.Elapsed.Seconds()).
		Msg("solve-returning")

	if err != nil {
		return -1, false, err
	}
	return bestMove, bestMove >= 0, nil
}

// immediateWin returns the first column that wins on the spot for the side
// to move.
func (s *Solver) immediateWin() (int, bool) {
	b := s.board
	for _, col := range s.orderer.order(b.LegalMoves(), -1) {
		_, outcome, err := b.Apply(col)
		if err != nil {
			continue
		}
		b.Undo()
		if outcome == board.Win {
			return col, true
		}
	}
	return -1, false
}

// terminalScore scores a finished game from the searching side's point of
// view. remaining is the depth left when the game ended.
func (s *Solver) terminalScore(winner board.Cell, remaining int) int {
	switch winner {
	case s.cfg.SearchingSide:
		return WinScore + remaining
	case board.Empty:
		return 0
	}
	return -WinScore - remaining
}
