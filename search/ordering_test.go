package search

import (
	"sort"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

func TestCenterOut(t *testing.T) {
	is := is.New(t)
	is.Equal(centerOut(7), []int{3, 2, 4, 1, 5, 0, 6})
	is.Equal(centerOut(6), []int{2, 3, 1, 4, 0, 5})
	is.Equal(centerOut(1), []int{0})
}

func TestOrderHashMoveFirst(t *testing.T) {
	is := is.New(t)
	o := newMoveOrderer(7)
	is.Equal(o.order([]int{0, 1, 2, 3, 4, 5, 6}, 5), []int{5, 3, 2, 4, 1, 0, 6})
	is.Equal(o.order([]int{0, 1, 2, 3, 4, 5, 6}, -1), []int{3, 2, 4, 1, 5, 0, 6})
	// a hash move that is no longer legal is ignored.
	is.Equal(o.order([]int{0, 1, 2, 4, 5, 6}, 3), []int{2, 4, 1, 5, 0, 6})
}

func TestOrderIsAPermutation(t *testing.T) {
	is := is.New(t)
	o := newMoveOrderer(7)
	for i := 0; i < 500; i++ {
		legal := []int{}
		for c := 0; c < 7; c++ {
			if frand.Intn(3) > 0 {
				legal = append(legal, c)
			}
		}
		hashMove := frand.Intn(9) - 1
		ordered := o.order(legal, hashMove)
		is.Equal(len(ordered), len(legal))
		sorted := append([]int{}, ordered...)
		sort.Ints(sorted)
		is.Equal(sorted, legal)
	}
}
