// Package board implements the grid for a gravity connection game: pieces
// drop to the lowest open row of a column and four in a row wins.
package board

import (
	"errors"
	"fmt"
)

const (
	StandardRows = 6
	StandardCols = 7
	// WinLength is the number of colinear same-owner cells that wins.
	WinLength = 4
)

var (
	ErrInvalidMove       = errors.New("invalid move")
	ErrInvalidDimensions = errors.New("invalid board dimensions")
)

// Cell is the occupant of a square. The same values double as the side to
// move.
type Cell uint8

const (
	Empty Cell = iota
	PlayerA
	PlayerB
)

func (c Cell) String() string {
	switch c {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	}
	return "."
}

// Opponent returns the other side. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return Empty
}

// Outcome is the result of applying a move.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Win
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Draw:
		return "draw"
	}
	return "ongoing"
}

// Placement is a single entry in the move log.
type Placement struct {
	Row   int
	Col   int
	Mover Cell
}

// the four axes: horizontal, vertical, and the two diagonals.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// Board is the mutable game state. Row 0 is the top row. A Board is mutated
// in place by Apply and Undo and is not safe for concurrent use.
type Board struct {
	rows    int
	cols    int
	squares []Cell
	// heights[c] is the number of pieces in column c.
	heights []int

	onturn   Cell
	terminal bool
	winner   Cell
	log      []Placement
}

// New creates an empty rows x cols board with PlayerA to move.
func New(rows, cols int) (*Board, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}
	return &Board{
		rows:    rows,
		cols:    cols,
		squares: make([]Cell, rows*cols),
		heights: make([]int, cols),
		onturn:  PlayerA,
		log:     make([]Placement, 0, rows*cols),
	}, nil
}

// NewStandard creates an empty 6x7 board.
func NewStandard() *Board {
	b, _ := New(StandardRows, StandardCols)
	return b
}

// FromMoves replays a sequence of columns on a fresh board.
func FromMoves(rows, cols int, moves []int) (*Board, error) {
	b, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	for i, c := range moves {
		if _, _, err := b.Apply(c); err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	return b, nil
}

func (b *Board) Rows() int        { return b.rows }
func (b *Board) Cols() int        { return b.cols }
func (b *Board) SideToMove() Cell { return b.onturn }
func (b *Board) Terminal() bool   { return b.terminal }
func (b *Board) Winner() Cell     { return b.winner }
func (b *Board) NumMoves() int    { return len(b.log) }

// At returns the occupant of the given square.
func (b *Board) At(row, col int) Cell {
	return b.squares[row*b.cols+col]
}

// LastMove returns the most recent placement, if any.
func (b *Board) LastMove() (Placement, bool) {
	if len(b.log) == 0 {
		return Placement{}, false
	}
	return b.log[len(b.log)-1], true
}

// Moves returns a copy of the move log.
func (b *Board) Moves() []Placement {
	m := make([]Placement, len(b.log))
	copy(m, b.log)
	return m
}

// CanPlay returns true if the column is on the board and has room.
func (b *Board) CanPlay(col int) bool {
	return col >= 0 && col < b.cols && b.heights[col] < b.rows
}

// IsFull returns true if no column has room.
func (b *Board) IsFull() bool {
	return len(b.log) == b.rows*b.cols
}

// LegalMoves returns the columns with room remaining, in ascending order.
func (b *Board) LegalMoves() []int {
	moves := make([]int, 0, b.cols)
	for c := 0; c < b.cols; c++ {
		if b.heights[c] < b.rows {
			moves = append(moves, c)
		}
	}
	return moves
}

// Apply drops a piece for the side to move into col and returns the row it
// landed in.
func (b *Board) Apply(col int) (int, Outcome, error) {
	if b.terminal {
		return -1, Ongoing, fmt.Errorf("%w: the game is over", ErrInvalidMove)
	}
	if col < 0 || col >= b.cols {
		return -1, Ongoing, fmt.Errorf("%w: column %d is out of range", ErrInvalidMove, col)
	}
	if b.heights[col] >= b.rows {
		return -1, Ongoing, fmt.Errorf("%w: column %d is full", ErrInvalidMove, col)
	}
	row := b.rows - 1 - b.heights[col]
	mover := b.onturn
	b.squares[row*b.cols+col] = mover
	b.heights[col]++
	b.log = append(b.log, Placement{Row: row, Col: col, Mover: mover})

	if b.winsThrough(row, col) {
		b.terminal = true
		b.winner = mover
		return row, Win, nil
	}
	if b.IsFull() {
		b.terminal = true
		b.winner = Empty
		return row, Draw, nil
	}
	b.onturn = mover.Opponent()
	return row, Ongoing, nil
}

// Undo takes back the last move. It returns false if there is nothing to
// undo. Only the most recent move can have ended the game, so the terminal
// flag and winner are always cleared.
func (b *Board) Undo() bool {
	if len(b.log) == 0 {
		return false
	}
	last := b.log[len(b.log)-1]
	b.log = b.log[:len(b.log)-1]
	b.squares[last.Row*b.cols+last.Col] = Empty
	b.heights[last.Col]--
	b.onturn = last.Mover
	b.terminal = false
	b.winner = Empty
	return true
}

func (b *Board) winsThrough(row, col int) bool {
	owner := b.squares[row*b.cols+col]
	for _, d := range directions {
		count := 1
		count += b.run(row, col, d[0], d[1], owner)
		count += b.run(row, col, -d[0], -d[1], owner)
		if count >= WinLength {
			return true
		}
	}
	return false
}

// run counts contiguous owner cells stepping from (row, col), not including
// the start cell.
func (b *Board) run(row, col, dr, dc int, owner Cell) int {
	n := 0
	for i := 1; i < WinLength; i++ {
		r, c := row+dr*i, col+dc*i
		if r < 0 || r >= b.rows || c < 0 || c >= b.cols {
			break
		}
		if b.squares[r*b.cols+c] != owner {
			break
		}
		n++
	}
	return n
}

// Copy returns an independent snapshot of the board.
func (b *Board) Copy() *Board {
	n := &Board{
		rows:     b.rows,
		cols:     b.cols,
		squares:  make([]Cell, len(b.squares)),
		heights:  make([]int, len(b.heights)),
		onturn:   b.onturn,
		terminal: b.terminal,
		winner:   b.winner,
		log:      make([]Placement, len(b.log), cap(b.log)),
	}
	copy(n.squares, b.squares)
	copy(n.heights, b.heights)
	copy(n.log, b.log)
	return n
}

// Grid returns the board as rows of small integers, top row first:
// 0 is empty and 1/2 are the two sides.
func (b *Board) Grid() [][]int {
	g := make([][]int, b.rows)
	for r := 0; r < b.rows; r++ {
		g[r] = make([]int, b.cols)
		for c := 0; c < b.cols; c++ {
			g[r][c] = int(b.squares[r*b.cols+c])
		}
	}
	return g
}
