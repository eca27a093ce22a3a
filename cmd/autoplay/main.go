// autoplay plays the engine against itself at two search depths and prints
// a summary of the match.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connect4/automatic"
	"github.com/domino14/connect4/config"
	"github.com/domino14/connect4/search"
)

func main() {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	sconf, err := cfg.SearchConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("bad-search-config")
	}
	// the challenger searches one ply shallower unless the depth is already
	// minimal.
	weaker := sconf
	if weaker.MaxDepth > 1 {
		weaker.MaxDepth--
	}
	opts := automatic.MatchOptions{
		Players: [2]automatic.Player{
			{Name: fmt.Sprintf("depth-%d", sconf.MaxDepth), Search: sconf, SolverOptions: cfg.SolverOptions()},
			{Name: fmt.Sprintf("depth-%d", weaker.MaxDepth), Search: weaker, SolverOptions: cfg.SolverOptions()},
		},
		NumGames:    cfg.GetInt(config.ConfigAutoplayGames),
		Threads:     cfg.GetInt(config.ConfigAutoplayThreads),
		Rows:        cfg.GetInt(config.ConfigRows),
		Cols:        cfg.GetInt(config.ConfigCols),
		RandomPlies: cfg.GetInt(config.ConfigAutoplayRandomPlies),
		TimeBudget:  cfg.GetDuration(config.ConfigTimeBudget),
	}
	if weaker.MaxDepth == sconf.MaxDepth {
		opts.Players[1].Name += "-b"
		opts.Players[1].Search.Mode = search.Fixed
	}

	f, err := os.Create(cfg.GetString(config.ConfigAutoplayLogfile))
	if err != nil {
		log.Fatal().Err(err).Msg("creating-logfile")
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := automatic.PlayMatch(ctx, opts, f)
	if err != nil {
		log.Error().Err(err).Msg("match-failed")
		return
	}
	fmt.Print(summary.String())
}
