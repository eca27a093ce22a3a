package automatic

import (
	"fmt"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"

	"github.com/domino14/connect4/stats"
)

const confidence = 95

// Summary aggregates game results. Tallies are from the first player's
// point of view.
type Summary struct {
	Names [2]string
	Tally stats.Tally
	// results of the player who moved first, whoever it was.
	FirstMover stats.Tally
	Lengths    stats.Statistic

	lengths []float64
}

func NewSummary(p1, p2 string) *Summary {
	return &Summary{Names: [2]string{p1, p2}}
}

func (s *Summary) Games() int {
	return s.Tally.Games()
}

func (s *Summary) Add(res GameResult) {
	switch res.Winner {
	case "":
		s.Tally.Draws++
		s.FirstMover.Draws++
	case s.Names[0]:
		s.Tally.Wins++
	default:
		s.Tally.Losses++
	}
	switch {
	case res.Winner == "":
	case res.Winner == res.PlayerA:
		s.FirstMover.Wins++
	default:
		s.FirstMover.Losses++
	}
	s.Lengths.Push(float64(res.Plies))
	s.lengths = append(s.lengths, float64(res.Plies))
}

func (s *Summary) String() string {
	var ss strings.Builder
	n := s.Games()
	fmt.Fprintf(&ss, "Games played: %d\n", n)
	if n == 0 {
		return ss.String()
	}
	pct := func(x int) float64 { return 100 * float64(x) / float64(n) }
	fmt.Fprintf(&ss, "%v wins: %d (%.3f%%)\n", s.Names[0], s.Tally.Wins, pct(s.Tally.Wins))
	fmt.Fprintf(&ss, "%v wins: %d (%.3f%%)\n", s.Names[1], s.Tally.Losses, pct(s.Tally.Losses))
	fmt.Fprintf(&ss, "Draws: %d (%.3f%%)\n", s.Tally.Draws, pct(s.Tally.Draws))

	lo95, hi95 := s.Tally.ScoreInterval(confidence)
	fmt.Fprintf(&ss, "%v score: %.3f (%d%% CI %.3f - %.3f), Elo difference %+.1f\n",
		s.Names[0], s.Tally.Score(), confidence, lo95, hi95, stats.EloDifference(s.Tally.Score()))
	fmt.Fprintf(&ss, "Player who went first wins: %d (%.3f%%)\n",
		s.FirstMover.Wins, pct(s.FirstMover.Wins))
	fmt.Fprintf(&ss, "Game length: mean %.2f plies, stdev %.2f, min %v, max %v\n",
		s.Lengths.Mean(), s.Lengths.Stdev(), lo.Min(s.lengths), lo.Max(s.lengths))

	ss.WriteString("\nGame length histogram:\n")
	hist := histogram.Hist(10, s.lengths)
	if err := histogram.Fprint(&ss, hist, histogram.Linear(40)); err != nil {
		fmt.Fprintf(&ss, "(histogram unavailable: %v)\n", err)
	}
	return ss.String()
}
