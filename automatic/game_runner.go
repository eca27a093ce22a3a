// Package automatic plays engines against each other: single games, large
// concurrent matches with a CSV log, and analysis of those logs.
package automatic

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/search"
)

// Player is an engine configuration taking part in a match. The searching
// side of its config is overwritten with whichever side it plays.
type Player struct {
	Name          string
	Search        search.Config
	SolverOptions []search.Option
}

// GameResult is one finished game, one row of the match log.
type GameResult struct {
	GameID  int
	PlayerA string
	PlayerB string
	// Winner is the winning player's name, or empty for a draw.
	Winner string
	Plies  int
	Moves  string
}

func (g GameResult) record() []string {
	winner := g.Winner
	if winner == "" {
		winner = drawToken
	}
	return []string{strconv.Itoa(g.GameID), g.PlayerA, g.PlayerB, winner,
		strconv.Itoa(g.Plies), g.Moves}
}

// GameRunner plays games between two players. A GameRunner is used by one
// goroutine at a time.
type GameRunner struct {
	players     [2]Player
	solvers     [2]*search.Solver
	rows, cols  int
	randomPlies int
	timeBudget  time.Duration
}

func NewGameRunner(players [2]Player, rows, cols, randomPlies int, timeBudget time.Duration) (*GameRunner, error) {
	r := &GameRunner{
		players:     players,
		rows:        rows,
		cols:        cols,
		randomPlies: randomPlies,
		timeBudget:  timeBudget,
	}
	for i, p := range players {
		s, err := search.NewSolver(p.Search, p.SolverOptions...)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", p.Name, err)
		}
		r.solvers[i] = s
	}
	return r, nil
}

// PlayGame plays one game to the end. In even games players[0] moves first.
func (r *GameRunner) PlayGame(ctx context.Context, gameID int) (GameResult, error) {
	b, err := board.New(r.rows, r.cols)
	if err != nil {
		return GameResult{}, err
	}
	first := gameID % 2
	// sides[i] is the index of the player who plays side i+1.
	sides := [2]int{first, 1 - first}
	for i, side := range []board.Cell{board.PlayerA, board.PlayerB} {
		cfg := r.players[sides[i]].Search
		cfg.SearchingSide = side
		if err := r.solvers[sides[i]].SetConfig(cfg); err != nil {
			return GameResult{}, err
		}
	}

	for i := 0; i < r.randomPlies && !b.Terminal(); i++ {
		moves := b.LegalMoves()
		if _, _, err := b.Apply(moves[frand.Intn(len(moves))]); err != nil {
			return GameResult{}, err
		}
	}

	for !b.Terminal() {
		pidx := sides[b.SideToMove()-1]
		col, ok, err := r.selectMove(ctx, pidx, b)
		if err != nil {
			return GameResult{}, err
		}
		if !ok {
			break
		}
		if _, _, err := b.Apply(col); err != nil {
			return GameResult{}, err
		}
	}

	res := GameResult{
		GameID:  gameID,
		PlayerA: r.players[sides[0]].Name,
		PlayerB: r.players[sides[1]].Name,
		Plies:   b.NumMoves(),
		Moves:   b.MoveString(),
	}
	if w := b.Winner(); w != board.Empty {
		res.Winner = r.players[sides[w-1]].Name
	}
	log.Debug().Int("game", gameID).Str("winner", res.Winner).Int("plies", res.Plies).
		Msg("game-over")
	return res, nil
}

func (r *GameRunner) selectMove(ctx context.Context, pidx int, b *board.Board) (int, bool, error) {
	if r.timeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeBudget)
		defer cancel()
	}
	return r.solvers[pidx].SelectMove(ctx, b)
}
