package automatic

import (
	"context"
	"encoding/csv"
	"errors"
	"expvar"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const drawToken = "draw"

var logHeader = []string{"gameID", "playerA", "playerB", "winner", "plies", "moves"}

var (
	GamesPlayed *expvar.Int
	playing     atomic.Bool

	ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")
)

func init() {
	GamesPlayed = expvar.NewInt("connect4GamesPlayed")
}

// MatchOptions describes a match between two players.
type MatchOptions struct {
	Players  [2]Player
	NumGames int
	// Threads bounds the number of games played at once; 0 means one per
	// CPU.
	Threads     int
	Rows        int
	Cols        int
	RandomPlies int
	TimeBudget  time.Duration
}

// PlayMatch plays opts.NumGames games, writing one CSV row per game to
// logWriter if it is not nil, and returns the summary. Players alternate
// moving first. When ctx is done no new games are started and the games
// in progress are finished.
func PlayMatch(ctx context.Context, opts MatchOptions, logWriter io.Writer) (*Summary, error) {
	if !playing.CompareAndSwap(false, true) {
		return nil, ErrAlreadyPlaying
	}
	defer playing.Store(false)

	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	log.Info().Int("games", opts.NumGames).Int("threads", threads).Msg("starting-match")

	var w *csv.Writer
	if logWriter != nil {
		w = csv.NewWriter(logWriter)
		if err := w.Write(logHeader); err != nil {
			return nil, err
		}
	}

	summary := NewSummary(opts.Players[0].Name, opts.Players[1].Name)
	results := make(chan GameResult, 100)
	loggerDone := make(chan error, 1)
	go func() {
		var werr error
		for res := range results {
			summary.Add(res)
			if w != nil && werr == nil {
				werr = w.Write(res.record())
			}
		}
		if w != nil && werr == nil {
			w.Flush()
			werr = w.Error()
		}
		loggerDone <- werr
	}()

	// runners are not safe for concurrent use; each worker takes one from
	// the pool.
	runners := make(chan *GameRunner, threads)
	for i := 0; i < threads; i++ {
		r, err := NewGameRunner(opts.Players, opts.Rows, opts.Cols, opts.RandomPlies, opts.TimeBudget)
		if err != nil {
			close(results)
			<-loggerDone
			return nil, err
		}
		runners <- r
	}

	g := &errgroup.Group{}
	g.SetLimit(threads)
gameLoop:
	for i := 0; i < opts.NumGames; i++ {
		select {
		case <-ctx.Done():
			log.Info().Int("queued", i).Msg("got stop signal, not starting more games")
			break gameLoop
		default:
		}
		gameID := i
		g.Go(func() error {
			r := <-runners
			defer func() { runners <- r }()
			res, err := r.PlayGame(ctx, gameID)
			if err != nil {
				return err
			}
			GamesPlayed.Add(1)
			results <- res
			return nil
		})
	}
	err := g.Wait()
	close(results)
	if lerr := <-loggerDone; err == nil {
		err = lerr
	}
	if err != nil {
		return nil, err
	}
	log.Info().Int("games", summary.Games()).Msg("match-finished")
	return summary, nil
}
