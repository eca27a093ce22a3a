package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/equity"
	"github.com/domino14/connect4/search"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.NoErr(cfg.Validate())
	sc, err := cfg.SearchConfig()
	is.NoErr(err)
	is.Equal(sc, search.Config{MaxDepth: 6, Mode: search.Iterative, SearchingSide: board.PlayerB})
	is.Equal(cfg.GetInt(ConfigRows), 6)
	is.Equal(cfg.GetInt(ConfigCols), 7)
	is.Equal(cfg.GetDuration(ConfigTimeBudget), time.Duration(0))
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	err := cfg.Load([]string{"--max-depth", "9", "--search-mode", "fixed", "--engine-side", "a",
		"--time-budget", "2s", "--debug"})
	is.NoErr(err)
	sc, err := cfg.SearchConfig()
	is.NoErr(err)
	is.Equal(sc.MaxDepth, 9)
	is.Equal(sc.Mode, search.Fixed)
	is.Equal(sc.SearchingSide, board.PlayerA)
	is.Equal(cfg.GetDuration(ConfigTimeBudget), 2*time.Second)
	is.True(cfg.GetBool(ConfigDebug))
}

func TestLoadLeavesCommand(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--max-depth", "4", "autoplay", "-games", "3"}))
	is.Equal(cfg.GetInt(ConfigMaxDepth), 4)
	is.Equal(cfg.Args(), []string{"autoplay", "-games", "3"})
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("CONNECT4_MAX_DEPTH", "3")
	t.Setenv("CONNECT4_SEARCH_MODE", "fixed")
	cfg := &Config{}
	is.NoErr(cfg.Load(nil))
	is.Equal(cfg.GetInt(ConfigMaxDepth), 3)

	// flags win over the environment.
	is.NoErr(cfg.Load([]string{"--max-depth", "5"}))
	is.Equal(cfg.GetInt(ConfigMaxDepth), 5)
	is.Equal(cfg.GetString(ConfigSearchMode), "fixed")
}

func TestLoadConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "connect4.yaml")
	is.NoErr(os.WriteFile(path, []byte("max-depth: 4\nrows: 5\ncols: 5\n"), 0o644))
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--config-file", path}))
	is.Equal(cfg.GetInt(ConfigMaxDepth), 4)
	is.Equal(cfg.GetInt(ConfigRows), 5)
	is.Equal(cfg.GetInt(ConfigCols), 5)
}

func TestValidation(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	err := cfg.Load([]string{"--search-mode", "breadth-first"})
	is.True(errors.Is(err, search.ErrUnknownSearchMode))

	err = cfg.Load([]string{"--max-depth", "0"})
	is.True(errors.Is(err, search.ErrInvalidDepth))

	err = cfg.Load([]string{"--rows", "0"})
	is.True(errors.Is(err, ErrInvalidConfig))

	err = cfg.Load([]string{"--engine-side", "c"})
	is.True(errors.Is(err, search.ErrInvalidSide))

	err = cfg.Load([]string{"--evaluator", "material"})
	is.True(errors.Is(err, ErrInvalidConfig))
}

func TestSolverOptions(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Set(ConfigTTSizePower, 14)
	sc, err := cfg.SearchConfig()
	is.NoErr(err)
	s, err := search.NewSolver(sc, cfg.SolverOptions()...)
	is.NoErr(err)
	is.Equal(s.TableSize(), 0)

	cfg.Set(ConfigEvaluator, equity.CombinedName)
	is.Equal(len(cfg.SolverOptions()), 2)
}
