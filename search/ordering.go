package search

import (
	"sort"

	"github.com/samber/lo"
)

// moveOrderer ranks columns from the center outward. Central columns take
// part in the most lines, so they tend to produce early cutoffs.
type moveOrderer struct {
	rank []int
}

func newMoveOrderer(cols int) moveOrderer {
	order := centerOut(cols)
	rank := make([]int, cols)
	for i, c := range order {
		rank[c] = i
	}
	return moveOrderer{rank: rank}
}

// centerOut returns the columns by distance from the middle, left before
// right on ties: 3 2 4 1 5 0 6 for seven columns.
func centerOut(cols int) []int {
	order := lo.Range(cols)
	dist := func(c int) int {
		d := 2*c - (cols - 1)
		if d < 0 {
			return -d
		}
		return d
	}
	sort.SliceStable(order, func(i, j int) bool {
		return dist(order[i]) < dist(order[j])
	})
	return order
}

// order returns a new slice with the legal moves in search order: the hash
// move first if it is still legal, then the rest center-out.
func (o moveOrderer) order(legal []int, hashMove int) []int {
	moves := make([]int, 0, len(legal))
	hashMoveLegal := hashMove >= 0 && lo.Contains(legal, hashMove)
	if hashMoveLegal {
		moves = append(moves, hashMove)
	}
	rest := lo.Filter(legal, func(c int, _ int) bool {
		return !hashMoveLegal || c != hashMove
	})
	sort.Slice(rest, func(i, j int) bool {
		return o.rank[rest[i]] < o.rank[rest[j]]
	})
	return append(moves, rest...)
}
