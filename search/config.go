package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/connect4/board"
)

// MaxSearchDepth bounds the configured depth; it must fit a table entry.
const MaxSearchDepth = 64

var (
	ErrUnknownSearchMode = errors.New("unknown search mode")
	ErrInvalidDepth      = errors.New("invalid search depth")
	ErrInvalidSide       = errors.New("invalid searching side")
)

// Mode selects how a decision is searched.
type Mode int

const (
	// Fixed runs a single pass at the maximum depth.
	Fixed Mode = iota
	// Iterative runs passes at depth 1, 2, ... up to the maximum, each one
	// ordering moves by the results of the one before.
	Iterative
)

func (m Mode) String() string {
	switch m {
	case Fixed:
		return "fixed"
	case Iterative:
		return "iterative"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "fixed-depth":
		return Fixed, nil
	case "iterative", "id", "iterative-deepening":
		return Iterative, nil
	}
	return Fixed, fmt.Errorf("%w: %q", ErrUnknownSearchMode, s)
}

// ParseSide accepts a, b, 1, 2 and the traditional colors.
func ParseSide(s string) (board.Cell, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "1", "red", "first":
		return board.PlayerA, nil
	case "b", "2", "yellow", "second":
		return board.PlayerB, nil
	}
	return board.Empty, fmt.Errorf("%w: %q", ErrInvalidSide, s)
}

type Config struct {
	MaxDepth      int
	Mode          Mode
	SearchingSide board.Cell
}

func (c Config) Validate() error {
	if c.MaxDepth < 1 || c.MaxDepth > MaxSearchDepth {
		return fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidDepth, c.MaxDepth, MaxSearchDepth)
	}
	if c.Mode != Fixed && c.Mode != Iterative {
		return fmt.Errorf("%w: %v", ErrUnknownSearchMode, c.Mode)
	}
	if c.SearchingSide != board.PlayerA && c.SearchingSide != board.PlayerB {
		return fmt.Errorf("%w: %v", ErrInvalidSide, c.SearchingSide)
	}
	return nil
}
