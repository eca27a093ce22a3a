// Package game is the surface any transport talks to: it creates boards,
// applies moves, asks the engine for moves and shapes a board into a plain
// State.
package game

import (
	"context"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/search"
)

// State is a snapshot of a game for outside consumers.
type State struct {
	// Board is top row first; 0 is empty, 1 and 2 are the two sides.
	Board         [][]int `json:"board" yaml:"board"`
	CurrentPlayer int     `json:"current_player" yaml:"current_player"`
	GameOver      bool    `json:"game_over" yaml:"game_over"`
	// Winner is 0 for a draw or an unfinished game.
	Winner     int `json:"winner" yaml:"winner"`
	MoveCount  int `json:"move_count" yaml:"move_count"`
	LastColumn int `json:"last_column" yaml:"last_column"`
}

// NewGame returns an empty standard board with PlayerA to move.
func NewGame() *board.Board {
	return board.NewStandard()
}

func NewGameWithSize(rows, cols int) (*board.Board, error) {
	return board.New(rows, cols)
}

// ApplyMove drops a piece in col for the side to move. The error wraps
// board.ErrInvalidMove for full, out-of-range or post-game moves.
func ApplyMove(b *board.Board, col int) (State, error) {
	if _, _, err := b.Apply(col); err != nil {
		return StateOf(b), err
	}
	return StateOf(b), nil
}

// SelectMove runs a one-off search with a fresh solver. Callers that make
// many decisions should keep a search.Solver around instead.
func SelectMove(ctx context.Context, b *board.Board, cfg search.Config, opts ...search.Option) (int, bool, error) {
	s, err := search.NewSolver(cfg, opts...)
	if err != nil {
		return -1, false, err
	}
	return s.SelectMove(ctx, b)
}

func StateOf(b *board.Board) State {
	st := State{
		Board:         b.Grid(),
		CurrentPlayer: int(b.SideToMove()),
		GameOver:      b.Terminal(),
		Winner:        int(b.Winner()),
		MoveCount:     b.NumMoves(),
		LastColumn:    -1,
	}
	if last, ok := b.LastMove(); ok {
		st.LastColumn = last.Col
	}
	return st
}
