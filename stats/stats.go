// Package stats keeps running statistics for self-play matches.
package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance (Welford's algorithm).
type Statistic struct {
	n    int
	last float64
	mean float64
	// sum of squared differences from the mean
	m2 float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.n++
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
}

func (s *Statistic) Mean() float64 {
	return s.mean
}

func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

func (s *Statistic) Iterations() int {
	return s.n
}

// ConfidenceInterval returns the bounds of the mean at the given confidence
// percentage, using the normal approximation.
func (s *Statistic) ConfidenceInterval(pct float64) (float64, float64) {
	half := ZVal(pct) * s.StandardError()
	return s.mean - half, s.mean + half
}

// Tally counts match results from one side's point of view.
type Tally struct {
	Wins   int
	Draws  int
	Losses int
}

func (t Tally) Games() int {
	return t.Wins + t.Draws + t.Losses
}

// Score is the fraction of points won, counting a draw as half a point.
func (t Tally) Score() float64 {
	n := t.Games()
	if n == 0 {
		return 0.5
	}
	return (float64(t.Wins) + 0.5*float64(t.Draws)) / float64(n)
}

// ScoreInterval returns the normal-approximation interval of Score at the
// given confidence percentage, clamped to [0, 1].
func (t Tally) ScoreInterval(pct float64) (float64, float64) {
	n := t.Games()
	if n == 0 {
		return 0, 1
	}
	st := &Statistic{}
	for i := 0; i < t.Wins; i++ {
		st.Push(1)
	}
	for i := 0; i < t.Draws; i++ {
		st.Push(0.5)
	}
	for i := 0; i < t.Losses; i++ {
		st.Push(0)
	}
	lo, hi := st.ConfidenceInterval(pct)
	return math.Max(0, lo), math.Min(1, hi)
}

// EloDifference converts a score into a rating difference. Perfect and
// zero scores are infinite.
func EloDifference(score float64) float64 {
	if score <= 0 {
		return math.Inf(-1)
	}
	if score >= 1 {
		return math.Inf(1)
	}
	return -400 * math.Log10(1/score-1)
}
