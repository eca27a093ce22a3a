package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connect4/automatic"
	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/config"
	"github.com/domino14/connect4/game"
	"github.com/domino14/connect4/puzzles"
	"github.com/domino14/connect4/search"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

// parseColumn parses a 1-based column as typed by a player.
func parseColumn(s string) (int, error) {
	c, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad column %q", s)
	}
	return c - 1, nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	opts := sc.sessionOpts
	var err error
	if opts.Rows, err = cmd.options.IntDefault("rows", opts.Rows); err != nil {
		return nil, err
	}
	if opts.Cols, err = cmd.options.IntDefault("cols", opts.Cols); err != nil {
		return nil, err
	}
	if side := cmd.options.String("side"); side != "" {
		if opts.Search.SearchingSide, err = search.ParseSide(side); err != nil {
			return nil, err
		}
	}
	sess, err := game.NewSession(shellGameID, opts)
	if err != nil {
		return nil, err
	}
	if moves := cmd.options.String("moves"); moves != "" {
		cols, err := board.ParseMoves(moves)
		if err != nil {
			return nil, err
		}
		for _, c := range cols {
			if _, err := sess.Play(c); err != nil {
				return nil, err
			}
		}
	}
	sc.sessionOpts = opts
	sc.session = sess
	log.Debug().Int("rows", opts.Rows).Int("cols", opts.Cols).
		Str("engine", opts.Search.SearchingSide.String()).Msg("new-game")
	return msg(sess.Board().ToDisplayText()), nil
}

// play applies the given moves in order. If the engine is then on turn it
// replies.
func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: play <column> [column...]")
	}
	for _, a := range cmd.args {
		col, err := parseColumn(a)
		if err != nil {
			return nil, err
		}
		if _, err := sc.session.Play(col); err != nil {
			return nil, err
		}
	}
	st := sc.session.State()
	if st.GameOver || board.Cell(st.CurrentPlayer) != sc.session.EngineSide() {
		return msg(sc.session.Board().ToDisplayText()), nil
	}
	return sc.bot(cmd)
}

func (sc *ShellController) bot(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	col, st, err := sc.session.BotMove(context.Background())
	if err != nil {
		return nil, err
	}
	if col < 0 {
		return nil, errors.New("the game is over")
	}
	var sb strings.Builder
	sb.WriteString(sc.session.Board().ToDisplayText())
	fmt.Fprintf(&sb, "Engine played column %d\n", col+1)
	sb.WriteString(statsText(sc.session.LastStats()))
	if st.GameOver && board.Cell(st.Winner) == sc.session.EngineSide() {
		sb.WriteString("The engine wins.\n")
	}
	return msg(sb.String()), nil
}

func statsText(s search.Stats) string {
	return fmt.Sprintf("depth %d, score %d, %d nodes in %v; tt %d entries, %d/%d hits\n",
		s.Depth, s.Score, s.Nodes, s.Elapsed.Round(time.Microsecond),
		s.TTEntries, s.TTHits, s.TTLookups)
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	n := 1
	if len(cmd.args) > 0 {
		var err error
		if n, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	for i := 0; i < n; i++ {
		if !sc.session.Undo() {
			break
		}
	}
	return msg(sc.session.Board().ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	b := sc.session.Board()
	return msg(b.ToDisplayText() + "Moves: " + b.MoveString()), nil
}

func (sc *ShellController) state(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	bts, err := json.Marshal(sc.session.State())
	if err != nil {
		return nil, err
	}
	return msg(string(bts)), nil
}

func (sc *ShellController) hint(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	col, ok, err := sc.session.Hint(context.Background())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("the game is over")
	}
	return msg(fmt.Sprintf("Best move: column %d\n%s", col+1,
		statsText(sc.session.LastStats()))), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	return msg(fmt.Sprintf("Static evaluation for %v: %d",
		sc.session.EngineSide(), sc.session.Evaluate())), nil
}

// set changes search settings for the current and future games.
func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	opts := sc.sessionOpts
	if sc.session != nil {
		opts.Search, opts.TimeBudget = sc.session.SearchConfig()
	}
	if len(cmd.args) == 0 {
		return msg(fmt.Sprintf("depth %d\nmode %v\nside %v\ntime %v",
			opts.Search.MaxDepth, opts.Search.Mode, opts.Search.SearchingSide, opts.TimeBudget)), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <depth|mode|side|time> <value>")
	}
	key, val := cmd.args[0], cmd.args[1]
	var err error
	switch key {
	case "depth":
		opts.Search.MaxDepth, err = strconv.Atoi(val)
	case "mode":
		opts.Search.Mode, err = search.ParseMode(val)
	case "side":
		opts.Search.SearchingSide, err = search.ParseSide(val)
	case "time":
		opts.TimeBudget, err = time.ParseDuration(val)
	default:
		return nil, fmt.Errorf("unknown setting %v", key)
	}
	if err != nil {
		return nil, err
	}
	if err := opts.Search.Validate(); err != nil {
		return nil, err
	}
	if sc.session != nil {
		if err := sc.session.SetSearch(opts.Search, opts.TimeBudget); err != nil {
			return nil, err
		}
	}
	sc.sessionOpts = opts
	return msg("set " + key + " to " + val), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 && cmd.args[0] == "stop" {
		if !sc.autoplaying() {
			return nil, errors.New("no automatic game playing is running")
		}
		sc.autoplayCancel()
		<-sc.autoplayDone
		return msg("stopped automatic game playing"), nil
	}
	if sc.autoplaying() {
		return nil, automatic.ErrAlreadyPlaying
	}

	opts, logfile, err := sc.matchOptions(cmd.options)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(logfile)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	sc.autoplayCancel = cancel
	sc.autoplayDone = make(chan struct{})

	go func() {
		defer close(sc.autoplayDone)
		defer f.Close()
		summary, err := automatic.PlayMatch(ctx, opts, f)
		if err != nil {
			sc.showError(err)
			return
		}
		sc.showMessage(summary.String())
	}()
	return msg(fmt.Sprintf("automatic game playing started: %d games, %v vs %v; logging to %v",
		opts.NumGames, opts.Players[0].Name, opts.Players[1].Name, logfile)), nil
}

func (sc *ShellController) autoplaying() bool {
	if sc.autoplayDone == nil {
		return false
	}
	select {
	case <-sc.autoplayDone:
		return false
	default:
		return true
	}
}

func (sc *ShellController) matchOptions(options CmdOptions) (automatic.MatchOptions, string, error) {
	cfg := sc.config
	opts := automatic.MatchOptions{
		Rows:       sc.sessionOpts.Rows,
		Cols:       sc.sessionOpts.Cols,
		TimeBudget: sc.sessionOpts.TimeBudget,
	}
	var err error
	if opts.NumGames, err = options.IntDefault("games", cfg.GetInt(config.ConfigAutoplayGames)); err != nil {
		return opts, "", err
	}
	if opts.Threads, err = options.IntDefault("threads", cfg.GetInt(config.ConfigAutoplayThreads)); err != nil {
		return opts, "", err
	}
	if opts.RandomPlies, err = options.IntDefault("plies", cfg.GetInt(config.ConfigAutoplayRandomPlies)); err != nil {
		return opts, "", err
	}
	for i := range opts.Players {
		sconf := sc.sessionOpts.Search
		suffix := strconv.Itoa(i + 1)
		if sconf.MaxDepth, err = options.IntDefault("depth"+suffix, sconf.MaxDepth); err != nil {
			return opts, "", err
		}
		if m := options.String("mode" + suffix); m != "" {
			if sconf.Mode, err = search.ParseMode(m); err != nil {
				return opts, "", err
			}
		}
		opts.Players[i] = automatic.Player{
			Name:          fmt.Sprintf("p%d-%v-%d", i+1, sconf.Mode, sconf.MaxDepth),
			Search:        sconf,
			SolverOptions: sc.sessionOpts.SolverOptions,
		}
	}
	logfile := options.String("logfile")
	if logfile == "" {
		logfile = cfg.GetString(config.ConfigAutoplayLogfile)
	}
	return opts, logfile, nil
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	path := sc.config.GetString(config.ConfigAutoplayLogfile)
	if len(cmd.args) > 0 {
		path = cmd.args[0]
	}
	out, err := automatic.AnalyzeLogFile(path)
	if err != nil {
		return nil, err
	}
	return msg(out), nil
}

// puzzles runs a puzzle suite, or with the generate argument turns the
// current game into puzzles.
func (sc *ShellController) puzzles(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 && cmd.args[0] == "generate" {
		return sc.generatePuzzles(cmd)
	}
	var suite *puzzles.Suite
	var err error
	path := cmd.options.String("file")
	if path == "" {
		path = sc.config.GetString(config.ConfigPuzzleFile)
	}
	if path == "" {
		suite, err = puzzles.DefaultSuite()
	} else {
		suite, err = puzzles.LoadSuiteFile(path)
	}
	if err != nil {
		return nil, err
	}
	results, err := puzzles.Run(context.Background(), suite, sc.sessionOpts.SolverOptions...)
	if err != nil {
		return nil, err
	}
	return msg(puzzles.Report(results)), nil
}

func (sc *ShellController) generatePuzzles(cmd *shellcmd) (*Response, error) {
	if sc.session == nil {
		return nil, errNoGame
	}
	depth, err := cmd.options.IntDefault("depth", sc.sessionOpts.Search.MaxDepth)
	if err != nil {
		return nil, err
	}
	b := sc.session.Board()
	moves := make([]int, 0, b.NumMoves())
	for _, p := range b.Moves() {
		moves = append(moves, p.Col)
	}
	ps, err := puzzles.CreatePuzzlesFromGame(b.Rows(), b.Cols(), moves, depth)
	if err != nil {
		return nil, err
	}
	suite := &puzzles.Suite{Name: "generated", Puzzles: ps}
	if out := cmd.options.String("out"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := suite.Write(f); err != nil {
			return nil, err
		}
		return msg(fmt.Sprintf("wrote %d puzzles to %v", len(ps), out)), nil
	}
	var sb strings.Builder
	if err := suite.Write(&sb); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}
