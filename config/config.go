package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/equity"
	"github.com/domino14/connect4/search"
)

const (
	ConfigDebug               = "debug"
	ConfigConfigFile          = "config-file"
	ConfigMaxDepth            = "max-depth"
	ConfigSearchMode          = "search-mode"
	ConfigEngineSide          = "engine-side"
	ConfigRows                = "rows"
	ConfigCols                = "cols"
	ConfigTTSizePower         = "tt-size-power"
	ConfigTTMemoryFraction    = "tt-memory-fraction"
	ConfigTimeBudget          = "time-budget"
	ConfigAutoplayGames       = "autoplay-games"
	ConfigAutoplayThreads     = "autoplay-threads"
	ConfigAutoplayLogfile     = "autoplay-logfile"
	ConfigAutoplayRandomPlies = "autoplay-random-plies"
	ConfigPuzzleFile          = "puzzle-file"
	ConfigCPUProfile          = "cpu-profile"
	ConfigMemProfile          = "mem-profile"
	ConfigEvaluator           = "evaluator"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config wraps a viper instance. Settings come, in increasing priority,
// from defaults, an optional YAML config file, CONNECT4_ environment
// variables and command-line flags.
type Config struct {
	*viper.Viper
	args []string
}

func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigMaxDepth, 6)
	c.SetDefault(ConfigSearchMode, "iterative")
	c.SetDefault(ConfigEngineSide, "b")
	c.SetDefault(ConfigRows, board.StandardRows)
	c.SetDefault(ConfigCols, board.StandardCols)
	c.SetDefault(ConfigTTSizePower, 0)
	c.SetDefault(ConfigTTMemoryFraction, 0.01)
	c.SetDefault(ConfigTimeBudget, time.Duration(0))
	c.SetDefault(ConfigAutoplayGames, 100)
	c.SetDefault(ConfigAutoplayThreads, 0)
	c.SetDefault(ConfigAutoplayLogfile, "/tmp/connect4-autoplay.csv")
	c.SetDefault(ConfigAutoplayRandomPlies, 2)
	c.SetDefault(ConfigPuzzleFile, "")
	c.SetDefault(ConfigCPUProfile, "")
	c.SetDefault(ConfigMemProfile, "")
	c.SetDefault(ConfigEvaluator, equity.LinePotentialName)
}

// Load parses args and reads the environment and an optional config file.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("connect4", pflag.ContinueOnError)
	// flags end at the first command word.
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigConfigFile, "", "path to a YAML config file")
	fs.Int(ConfigMaxDepth, 6, "maximum search depth in plies")
	fs.String(ConfigSearchMode, "iterative", "search mode: fixed or iterative")
	fs.String(ConfigEngineSide, "b", "the side the engine plays in the shell: a or b")
	fs.Int(ConfigRows, board.StandardRows, "board rows")
	fs.Int(ConfigCols, board.StandardCols, "board columns")
	fs.Int(ConfigTTSizePower, 0, "transposition table size as a power of 2; 0 sizes it from memory")
	fs.Float64(ConfigTTMemoryFraction, 0.01, "fraction of system memory for the transposition table")
	fs.Duration(ConfigTimeBudget, 0, "time budget per move for iterative deepening; 0 for none")
	fs.Int(ConfigAutoplayGames, 100, "number of self-play games")
	fs.Int(ConfigAutoplayThreads, 0, "self-play concurrency; 0 for the number of CPUs")
	fs.String(ConfigAutoplayLogfile, "/tmp/connect4-autoplay.csv", "self-play CSV log")
	fs.Int(ConfigAutoplayRandomPlies, 2, "random plies played before engines take over")
	fs.String(ConfigPuzzleFile, "", "puzzle suite YAML file; empty for the built-in suite")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a heap profile to this file on exit")
	fs.String(ConfigEvaluator, equity.LinePotentialName, "static evaluator: line-potential or combined")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("connect4")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if cf := c.GetString(ConfigConfigFile); cf != "" {
		c.SetConfigFile(cf)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return c.Validate()
}

// Args returns the arguments left over after the flags, if any.
func (c *Config) Args() []string {
	return c.args
}

// Validate checks the settings that are needed to build a search config and
// a board.
func (c *Config) Validate() error {
	if c.GetInt(ConfigRows) < 1 || c.GetInt(ConfigCols) < 1 {
		return fmt.Errorf("%w: board must be at least 1x1", ErrInvalidConfig)
	}
	if f := c.GetFloat64(ConfigTTMemoryFraction); f <= 0 || f > 0.5 {
		return fmt.Errorf("%w: %s must be in (0, 0.5]", ErrInvalidConfig, ConfigTTMemoryFraction)
	}
	if c.GetInt(ConfigAutoplayGames) < 0 || c.GetInt(ConfigAutoplayThreads) < 0 {
		return fmt.Errorf("%w: autoplay settings must not be negative", ErrInvalidConfig)
	}
	if _, err := equity.ByName(c.GetString(ConfigEvaluator)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	_, err := c.SearchConfig()
	return err
}

// SearchConfig builds the engine configuration from the settings.
func (c *Config) SearchConfig() (search.Config, error) {
	mode, err := search.ParseMode(c.GetString(ConfigSearchMode))
	if err != nil {
		return search.Config{}, err
	}
	side, err := search.ParseSide(c.GetString(ConfigEngineSide))
	if err != nil {
		return search.Config{}, err
	}
	sc := search.Config{
		MaxDepth:      c.GetInt(ConfigMaxDepth),
		Mode:          mode,
		SearchingSide: side,
	}
	return sc, sc.Validate()
}

// SolverOptions returns the solver options the settings call for.
func (c *Config) SolverOptions() []search.Option {
	p := c.GetInt(ConfigTTSizePower)
	if p == 0 {
		p = search.SizeForMemory(c.GetFloat64(ConfigTTMemoryFraction))
	}
	opts := []search.Option{search.WithTableSizePowerOf2(p)}
	if ev, err := equity.ByName(c.GetString(ConfigEvaluator)); err == nil {
		opts = append(opts, search.WithEvaluator(ev))
	}
	return opts
}

// SanitizedSettings returns all settings, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
