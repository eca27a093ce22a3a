package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/search"
)

const numShards = 32

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameExists    = errors.New("game already exists")
	ErrNotEngineTurn = errors.New("not the engine's turn")
)

// SessionOptions describes how new sessions are set up.
type SessionOptions struct {
	Rows int
	Cols int
	// Search.SearchingSide is the side the engine plays.
	Search        search.Config
	SolverOptions []search.Option
	// TimeBudget bounds iterative deepening per engine move; zero means no
	// limit.
	TimeBudget time.Duration
}

func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Rows: board.StandardRows,
		Cols: board.StandardCols,
		Search: search.Config{
			MaxDepth:      6,
			Mode:          search.Iterative,
			SearchingSide: board.PlayerB,
		},
		// every session owns a table, so keep them small.
		SolverOptions: []search.Option{search.WithTableSizePowerOf2(16)},
	}
}

// Session is one game with its own engine. All methods are safe for
// concurrent use; requests against one session are serialized.
type Session struct {
	mu         sync.Mutex
	id         string
	board      *board.Board
	solver     *search.Solver
	engineSide board.Cell
	timeBudget time.Duration
}

func NewSession(id string, opts SessionOptions) (*Session, error) {
	b, err := board.New(opts.Rows, opts.Cols)
	if err != nil {
		return nil, err
	}
	solver, err := search.NewSolver(opts.Search, opts.SolverOptions...)
	if err != nil {
		return nil, err
	}
	return &Session{
		id:         id,
		board:      b,
		solver:     solver,
		engineSide: opts.Search.SearchingSide,
		timeBudget: opts.TimeBudget,
	}, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) EngineSide() board.Cell {
	return s.engineSide
}

// Play applies a move for whichever side is to move.
func (s *Session) Play(col int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ApplyMove(s.board, col)
}

// BotMove has the engine choose and play a move. col is -1 if the game is
// already over.
func (s *Session) BotMove(ctx context.Context) (int, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.board.Terminal() && s.board.SideToMove() != s.engineSide {
		return -1, StateOf(s.board), ErrNotEngineTurn
	}
	col, ok, err := s.search(ctx)
	if err != nil || !ok {
		return -1, StateOf(s.board), err
	}
	st, err := ApplyMove(s.board, col)
	return col, st, err
}

// Hint returns the engine's choice for the side to move without playing it.
func (s *Session) Hint(ctx context.Context) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.solver.Config()
	defer func() {
		if err := s.solver.SetConfig(cfg); err != nil {
			log.Err(err).Msg("restoring-solver-config")
		}
	}()
	hintCfg := cfg
	hintCfg.SearchingSide = s.board.SideToMove()
	if err := s.solver.SetConfig(hintCfg); err != nil {
		return -1, false, err
	}
	return s.search(ctx)
}

func (s *Session) search(ctx context.Context) (int, bool, error) {
	if s.timeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeBudget)
		defer cancel()
	}
	return s.solver.SelectMove(ctx, s.board)
}

// SetSearch replaces the engine's configuration. The engine plays
// cfg.SearchingSide from then on.
func (s *Session) SetSearch(cfg search.Config, timeBudget time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.solver.SetConfig(cfg); err != nil {
		return err
	}
	s.engineSide = cfg.SearchingSide
	s.timeBudget = timeBudget
	return nil
}

// SearchConfig returns the engine's configuration and time budget.
func (s *Session) SearchConfig() (search.Config, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.solver.Config(), s.timeBudget
}

// Evaluate is the static evaluation of the current position from the
// engine's point of view.
func (s *Session) Evaluate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.solver.Evaluate(s.board)
}

// Undo takes back the last move; false if there was none.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Undo()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StateOf(s.board)
}

// Board returns a snapshot of the session's board.
func (s *Session) Board() *board.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Copy()
}

// LastStats returns the engine statistics of the session's last search.
func (s *Session) LastStats() search.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.solver.Stats()
}

type registryShard struct {
	sync.RWMutex
	sessions map[string]*Session
}

// Registry maps game ids to sessions. It is sharded by the hash of the id
// so that unrelated games rarely contend.
type Registry struct {
	shards [numShards]registryShard
	opts   SessionOptions
}

func NewRegistry(opts SessionOptions) *Registry {
	r := &Registry{opts: opts}
	for i := range r.shards {
		r.shards[i].sessions = make(map[string]*Session)
	}
	return r
}

func (r *Registry) shard(id string) *registryShard {
	return &r.shards[xxhash.Sum64String(id)%numShards]
}

// Create starts a new game. An empty id gets a generated one.
func (r *Registry) Create(id string) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	}
	sess, err := NewSession(id, r.opts)
	if err != nil {
		return nil, err
	}
	sh := r.shard(id)
	sh.Lock()
	defer sh.Unlock()
	if _, ok := sh.sessions[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrGameExists, id)
	}
	sh.sessions[id] = sess
	log.Debug().Str("game-id", id).Msg("created-game")
	return sess, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	sh := r.shard(id)
	sh.RLock()
	defer sh.RUnlock()
	sess, ok := sh.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return sess, nil
}

func (r *Registry) Delete(id string) error {
	sh := r.shard(id)
	sh.Lock()
	defer sh.Unlock()
	if _, ok := sh.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	delete(sh.sessions, id)
	return nil
}

// Len returns the number of live games.
func (r *Registry) Len() int {
	n := 0
	for i := range r.shards {
		r.shards[i].RLock()
		n += len(r.shards[i].sessions)
		r.shards[i].RUnlock()
	}
	return n
}
