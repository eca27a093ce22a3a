// Package puzzles loads suites of positions with known answers and checks
// the engine against them.
package puzzles

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/search"
)

//go:embed default_puzzles.yaml
var defaultSuite []byte

var ErrBadPuzzle = errors.New("bad puzzle")

type PuzzleType string

const (
	// the side to move has a winning move.
	PuzzleWin PuzzleType = "win"
	// the side to move has exactly one move that does not lose at once.
	PuzzleBlock PuzzleType = "block"
	// some move hands the opponent a win.
	PuzzleAvoid PuzzleType = "avoid"
)

// Puzzle is a position and its answers. Columns in Moves, Expect and Avoid
// are 1-based, as a player would type them.
type Puzzle struct {
	Name  string     `yaml:"name"`
	Type  PuzzleType `yaml:"type"`
	Moves string     `yaml:"moves"`
	Rows  int        `yaml:"rows,omitempty"`
	Cols  int        `yaml:"cols,omitempty"`
	Depth int        `yaml:"depth"`
	Mode  string     `yaml:"mode,omitempty"`
	// the engine must pick one of Expect, if given, and none of Avoid.
	Expect []int `yaml:"expect,omitempty"`
	Avoid  []int `yaml:"avoid,omitempty"`
}

type Suite struct {
	Name    string   `yaml:"name"`
	Puzzles []Puzzle `yaml:"puzzles"`
}

// Position replays the puzzle's moves.
func (p Puzzle) Position() (*board.Board, error) {
	moves, err := board.ParseMoves(p.Moves)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadPuzzle, p.Name, err)
	}
	rows, cols := p.Rows, p.Cols
	if rows == 0 {
		rows = board.StandardRows
	}
	if cols == 0 {
		cols = board.StandardCols
	}
	b, err := board.FromMoves(rows, cols, moves)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadPuzzle, p.Name, err)
	}
	return b, nil
}

// SearchConfig is the engine configuration the puzzle is meant to be solved
// with: the side to move searches.
func (p Puzzle) SearchConfig(b *board.Board) (search.Config, error) {
	mode := search.Iterative
	if p.Mode != "" {
		var err error
		if mode, err = search.ParseMode(p.Mode); err != nil {
			return search.Config{}, err
		}
	}
	cfg := search.Config{MaxDepth: p.Depth, Mode: mode, SearchingSide: b.SideToMove()}
	return cfg, cfg.Validate()
}

func (p Puzzle) validate() error {
	if len(p.Expect) == 0 && len(p.Avoid) == 0 {
		return fmt.Errorf("%w: %s has no answers", ErrBadPuzzle, p.Name)
	}
	b, err := p.Position()
	if err != nil {
		return err
	}
	if b.Terminal() {
		return fmt.Errorf("%w: %s: the game is already over", ErrBadPuzzle, p.Name)
	}
	if _, err := p.SearchConfig(b); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBadPuzzle, p.Name, err)
	}
	return nil
}

func LoadSuite(r io.Reader) (*Suite, error) {
	s := &Suite{}
	if err := yaml.NewDecoder(r).Decode(s); err != nil {
		return nil, err
	}
	for _, p := range s.Puzzles {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func LoadSuiteFile(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSuite(f)
}

// DefaultSuite returns the built-in suite.
func DefaultSuite() (*Suite, error) {
	s := &Suite{}
	if err := yaml.Unmarshal(defaultSuite, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Write serializes a suite as YAML.
func (s *Suite) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
