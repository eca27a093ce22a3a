package shell

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/connect4/config"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

// Next returns what was written since the last call.
func (s *syncBuffer) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.buf.String()
	s.buf.Reset()
	return out
}

func newTestController() (*ShellController, *syncBuffer) {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigTTSizePower, 14)
	cfg.Set(config.ConfigMaxDepth, 3)
	out := &syncBuffer{}
	return newController(cfg, out), out
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -logfile /path/to/log.txt",
			&shellcmd{"autoplay", nil, CmdOptions{"logfile": {"/path/to/log.txt"}}},
			nil},
		{"autoplay stop",
			&shellcmd{"autoplay", []string{"stop"}, CmdOptions{}},
			nil},
		{"autoplay now please -games 10 ",
			&shellcmd{"autoplay",
				[]string{"now", "please"},
				CmdOptions{"games": {"10"}}},
			nil,
		},
		{`new -moves "1 2 3"`,
			&shellcmd{"new", nil, CmdOptions{"moves": {"1 2 3"}}},
			nil},
		{"autoplay now please -games",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestPlayAgainstEngine(t *testing.T) {
	is := is.New(t)
	sc, out := newTestController()

	is.NoErr(sc.dispatch("new -side b"))
	is.True(strings.Contains(out.Next(), "A to move"))

	is.NoErr(sc.dispatch("play 4"))
	is.True(strings.Contains(out.Next(), "Engine played column"))
	st := sc.session.State()
	is.Equal(st.MoveCount, 2)
	is.Equal(st.CurrentPlayer, 1)

	is.NoErr(sc.dispatch("undo 2"))
	is.Equal(sc.session.State().MoveCount, 0)

	is.NoErr(sc.dispatch("state"))
	is.True(strings.Contains(out.Next(), `"move_count":0`))
}

func TestEngineTakesWin(t *testing.T) {
	is := is.New(t)
	sc, out := newTestController()
	is.NoErr(sc.dispatch(`new -side a -moves "1 1 2 2 3 3"`))
	out.Next()
	is.NoErr(sc.dispatch("bot"))
	res := out.Next()
	is.True(strings.Contains(res, "Engine played column 4"))
	is.True(strings.Contains(res, "The engine wins."))
	is.True(sc.session.State().GameOver)

	err := sc.dispatch("bot")
	is.True(err != nil)
}

func TestHintBlocks(t *testing.T) {
	is := is.New(t)
	sc, out := newTestController()
	is.NoErr(sc.dispatch(`new -side a -moves "1 7 2 7 3"`))
	out.Next()
	// B is on turn, not the engine.
	is.True(sc.dispatch("bot") != nil)
	out.Next()
	is.NoErr(sc.dispatch("hint"))
	is.True(strings.Contains(out.Next(), "Best move: column 4"))
	// the hint does not change who the engine plays.
	is.NoErr(sc.dispatch("set"))
	is.True(strings.Contains(out.Next(), "side A"))
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc, out := newTestController()
	is.NoErr(sc.dispatch("set depth 5"))
	is.NoErr(sc.dispatch("set mode fixed"))
	is.NoErr(sc.dispatch("set time 250ms"))
	is.NoErr(sc.dispatch("new"))
	cfg, budget := sc.session.SearchConfig()
	is.Equal(cfg.MaxDepth, 5)
	is.Equal(cfg.Mode.String(), "fixed")
	is.Equal(budget.Milliseconds(), int64(250))
	out.Next()

	is.True(sc.dispatch("set depth 0") != nil)
	is.True(sc.dispatch("set mode sideways") != nil)
	is.True(sc.dispatch("set color red") != nil)
	cfg, _ = sc.session.SearchConfig()
	is.Equal(cfg.MaxDepth, 5)
}

func TestErrors(t *testing.T) {
	is := is.New(t)
	sc, out := newTestController()
	is.True(errors.Is(sc.dispatch("play 4"), errNoGame))
	is.True(strings.Contains(out.Next(), "Error: "))
	is.True(sc.dispatch("frobnicate") != nil)
	is.NoErr(sc.dispatch("new"))
	is.True(sc.dispatch("play 8") != nil)
	is.True(sc.dispatch("play x") != nil)
	is.True(errors.Is(sc.dispatch("exit"), errExiting))
	is.NoErr(sc.dispatch("   "))
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, out := newTestController()
	is.NoErr(sc.dispatch("help"))
	is.True(strings.Contains(out.Next(), "Commands:"))
	is.NoErr(sc.dispatch("help set"))
	is.True(strings.Contains(out.Next(), "iterative"))
	is.NoErr(sc.dispatch("help nothing"))
	is.True(strings.Contains(out.Next(), "There is no help text"))
}

func TestPuzzles(t *testing.T) {
	is := is.New(t)
	sc, out := newTestController()
	is.NoErr(sc.dispatch("puzzles"))
	is.True(strings.Contains(out.Next(), "Passed 7 of 7"))

	is.NoErr(sc.dispatch(`new -moves "1 7 2 7 3 7"`))
	out.Next()
	path := filepath.Join(t.TempDir(), "gen.yaml")
	is.NoErr(sc.dispatch("puzzles generate -depth 3 -out " + path))
	is.True(strings.Contains(out.Next(), "wrote 2 puzzles"))
	is.NoErr(sc.dispatch("puzzles -file " + path))
	is.True(strings.Contains(out.Next(), "Passed 2 of 2"))
}

func TestAutoplay(t *testing.T) {
	is := is.New(t)
	sc, out := newTestController()
	is.True(sc.dispatch("autoplay stop") != nil)

	path := filepath.Join(t.TempDir(), "games.csv")
	is.NoErr(sc.dispatch("autoplay -games 4 -threads 2 -depth1 2 -depth2 1 -plies 2 -logfile " + path))
	<-sc.autoplayDone
	res := out.Next()
	is.True(strings.Contains(res, "automatic game playing started"))
	is.True(strings.Contains(res, "Games played: 4"))

	is.NoErr(sc.dispatch("analyze " + path))
	is.True(strings.Contains(out.Next(), "Games played: 4"))
	sc.Cleanup()
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	sc, _ := newTestController()
	c := NewShellCompleter(sc)

	m, n := c.Do([]rune("pl"), 2)
	is.Equal(n, 2)
	is.Equal(m, [][]rune{[]rune("ay")})

	m, _ = c.Do([]rune("set mo"), 6)
	is.Equal(m, [][]rune{[]rune("de")})

	m, _ = c.Do([]rune("new -side "), 10)
	is.Equal(len(m), 2)

	is.NoErr(sc.dispatch("new"))
	m, _ = c.Do([]rune("play "), 5)
	is.Equal(len(m), 7)
}
