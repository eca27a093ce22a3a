package board

import (
	"fmt"
	"strconv"
	"strings"
)

// ToDisplayText renders the board with 1-based column labels underneath.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		sb.WriteString("|")
		for c := 0; c < b.cols; c++ {
			sb.WriteString(" ")
			sb.WriteString(b.At(r, c).String())
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString("+" + strings.Repeat("--", b.cols) + "-+\n ")
	for c := 0; c < b.cols; c++ {
		label := strconv.Itoa(c + 1)
		sb.WriteString(fmt.Sprintf("%2s", label[len(label)-1:]))
	}
	sb.WriteString("\n")
	switch {
	case b.terminal && b.winner != Empty:
		sb.WriteString(fmt.Sprintf("Game over: %v wins\n", b.winner))
	case b.terminal:
		sb.WriteString("Game over: draw\n")
	default:
		sb.WriteString(fmt.Sprintf("%v to move\n", b.onturn))
	}
	return sb.String()
}

// MoveString renders the move log as space-separated 1-based columns.
func (b *Board) MoveString() string {
	parts := make([]string, len(b.log))
	for i, p := range b.log {
		parts[i] = strconv.Itoa(p.Col + 1)
	}
	return strings.Join(parts, " ")
}

// ParseMoves parses a MoveString back into 0-based columns.
func ParseMoves(s string) ([]int, error) {
	fields := strings.Fields(s)
	moves := make([]int, len(fields))
	for i, f := range fields {
		c, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad column %q: %w", f, err)
		}
		moves[i] = c - 1
	}
	return moves, nil
}
