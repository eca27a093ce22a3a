// Package shell is an interactive console for playing against the engine,
// running self-play matches and solving puzzles.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connect4/config"
	"github.com/domino14/connect4/game"
)

const shellGameID = "shell"

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game in progress; use new")
	errExiting           = errors.New("exiting")
)

type ShellController struct {
	l *readline.Instance
	// out is used when there is no terminal, e.g. for one-shot commands.
	out io.Writer

	config     *config.Config
	execPath   string
	gitVersion string

	sessionOpts game.SessionOptions
	session     *game.Session

	autoplayCancel context.CancelFunc
	autoplayDone   chan struct{}
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := newController(cfg, os.Stderr)
	sc.execPath = execPath
	sc.gitVersion = gitVersion
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[33mconnect4>\033[0m ",
		HistoryFile:     "/tmp/connect4-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

// newController builds a controller that writes to w and has no line
// editor.
func newController(cfg *config.Config, w io.Writer) *ShellController {
	sc := &ShellController{out: w, config: cfg}
	opts, err := sessionOptions(cfg)
	if err != nil {
		log.Err(err).Msg("bad-session-options; using defaults")
		opts = game.DefaultSessionOptions()
	}
	sc.sessionOpts = opts
	return sc
}

// sessionOptions builds the options for new games from the settings.
func sessionOptions(cfg *config.Config) (game.SessionOptions, error) {
	sconf, err := cfg.SearchConfig()
	if err != nil {
		return game.SessionOptions{}, err
	}
	return game.SessionOptions{
		Rows:          cfg.GetInt(config.ConfigRows),
		Cols:          cfg.GetInt(config.ConfigCols),
		Search:        sconf,
		SolverOptions: cfg.SolverOptions(),
		TimeBudget:    cfg.GetDuration(config.ConfigTimeBudget),
	}, nil
}

func (sc *ShellController) writer() io.Writer {
	if sc.l != nil {
		return sc.l.Stderr()
	}
	return sc.out
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.writer())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			opt := fields[i][1:]
			options[opt] = append(options[opt], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{
		cmd:     cmd,
		args:    args,
		options: options,
	}, nil
}

func (sc *ShellController) standardModeSwitch(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "quit":
		return nil, errExiting
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "bot":
		return sc.bot(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "state":
		return sc.state(cmd)
	case "set":
		return sc.set(cmd)
	case "hint":
		return sc.hint(cmd)
	case "eval":
		return sc.eval(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "analyze":
		return sc.analyze(cmd)
	case "puzzles":
		return sc.puzzles(cmd)
	default:
		return nil, fmt.Errorf("command %v not found", cmd.cmd)
	}
}

// Execute runs a single command line, as given on the command line of the
// binary. A match started by the command is played to the end.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if err := sc.dispatch(line); errors.Is(err, errExiting) {
		sig <- syscall.SIGINT
		return
	}
	if sc.autoplaying() {
		<-sc.autoplayDone
	}
}

func (sc *ShellController) dispatch(line string) error {
	resp, err := sc.standardModeSwitch(strings.TrimSpace(line))
	if errors.Is(err, errNoData) {
		return nil
	}
	if err != nil {
		if !errors.Is(err, errExiting) {
			sc.showError(err)
		}
		return err
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	if sc.gitVersion != "" {
		sc.showMessage("connect4 " + sc.gitVersion)
	}

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		if err := sc.dispatch(line); errors.Is(err, errExiting) {
			sig <- syscall.SIGINT
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any background work.
func (sc *ShellController) Cleanup() {
	if sc.autoplayCancel != nil {
		sc.autoplayCancel()
		<-sc.autoplayDone
	}
}
