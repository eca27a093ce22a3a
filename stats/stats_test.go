package stats

import (
	"math"
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.Equal(s.Iterations(), len(c.scores))
	}
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(math.Abs(ZVal(95)-1.959964) < 1e-5)
	is.True(math.Abs(ZVal(99)-2.575829) < 1e-5)
}

func TestTally(t *testing.T) {
	is := is.New(t)
	tl := Tally{Wins: 6, Draws: 2, Losses: 2}
	is.Equal(tl.Games(), 10)
	is.True(FuzzyEqual(tl.Score(), 0.7))
	lo, hi := tl.ScoreInterval(95)
	is.True(lo < 0.7 && hi > 0.7)
	is.True(lo >= 0 && hi <= 1)

	is.True(FuzzyEqual(Tally{}.Score(), 0.5))
	is.True(FuzzyEqual(EloDifference(0.5), 0))
	is.True(EloDifference(0.75) > 190 && EloDifference(0.75) < 191)
	is.True(math.IsInf(EloDifference(1), 1))

	// an all-win tally has no spread.
	lo, hi = Tally{Wins: 4}.ScoreInterval(95)
	is.True(FuzzyEqual(lo, 1))
	is.True(FuzzyEqual(hi, 1))
}
