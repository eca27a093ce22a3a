package game

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/connect4/board"
	"github.com/domino14/connect4/search"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func testOptions() SessionOptions {
	opts := DefaultSessionOptions()
	opts.Search.MaxDepth = 4
	opts.SolverOptions = []search.Option{search.WithTableSizePowerOf2(12)}
	return opts
}

func TestApplyMoveState(t *testing.T) {
	is := is.New(t)
	b := NewGame()
	st := StateOf(b)
	is.Equal(st.CurrentPlayer, 1)
	is.Equal(st.LastColumn, -1)
	is.Equal(len(st.Board), 6)

	st, err := ApplyMove(b, 3)
	is.NoErr(err)
	is.Equal(st.Board[5][3], 1)
	is.Equal(st.CurrentPlayer, 2)
	is.Equal(st.MoveCount, 1)
	is.Equal(st.LastColumn, 3)

	_, err = ApplyMove(b, 9)
	is.True(errors.Is(err, board.ErrInvalidMove))

	for _, c := range []int{6, 0, 6, 1, 6, 2} {
		st, err = ApplyMove(b, c)
		is.NoErr(err)
	}
	is.True(st.GameOver)
	is.Equal(st.Winner, 1)
	_, err = ApplyMove(b, 4)
	is.True(errors.Is(err, board.ErrInvalidMove))
}

func TestSelectMove(t *testing.T) {
	is := is.New(t)
	b := NewGame()
	for _, c := range []int{0, 0, 1, 1, 2, 2} {
		_, err := ApplyMove(b, c)
		is.NoErr(err)
	}
	cfg := search.Config{MaxDepth: 4, Mode: search.Fixed, SearchingSide: board.PlayerA}
	col, ok, err := SelectMove(context.Background(), b, cfg, search.WithTableSizePowerOf2(12))
	is.NoErr(err)
	is.True(ok)
	is.Equal(col, 3)

	cfg.Mode = search.Mode(4)
	_, _, err = SelectMove(context.Background(), b, cfg)
	is.True(errors.Is(err, search.ErrUnknownSearchMode))
}

func TestNewGameWithSize(t *testing.T) {
	is := is.New(t)
	b, err := NewGameWithSize(5, 4)
	is.NoErr(err)
	st := StateOf(b)
	is.Equal(len(st.Board), 5)
	is.Equal(len(st.Board[0]), 4)
	_, err = NewGameWithSize(0, 4)
	is.True(errors.Is(err, board.ErrInvalidDimensions))
}

func TestRegistry(t *testing.T) {
	is := is.New(t)
	r := NewRegistry(testOptions())
	sess, err := r.Create("")
	is.NoErr(err)
	is.True(sess.ID() != "")
	is.Equal(r.Len(), 1)

	got, err := r.Get(sess.ID())
	is.NoErr(err)
	is.Equal(got, sess)

	_, err = r.Create(sess.ID())
	is.True(errors.Is(err, ErrGameExists))

	_, err = r.Get("nope")
	is.True(errors.Is(err, ErrGameNotFound))
	is.True(errors.Is(r.Delete("nope"), ErrGameNotFound))

	is.NoErr(r.Delete(sess.ID()))
	is.Equal(r.Len(), 0)
}

func TestSessionPlayAndBot(t *testing.T) {
	is := is.New(t)
	r := NewRegistry(testOptions())
	sess, err := r.Create("g1")
	is.NoErr(err)

	_, _, err = sess.BotMove(context.Background())
	is.True(errors.Is(err, ErrNotEngineTurn))

	_, err = sess.Play(3)
	is.NoErr(err)
	col, st, err := sess.BotMove(context.Background())
	is.NoErr(err)
	is.True(col >= 0 && col < 7)
	is.Equal(st.MoveCount, 2)
	is.Equal(st.CurrentPlayer, 1)
	is.Equal(st.LastColumn, col)

	hint, ok, err := sess.Hint(context.Background())
	is.NoErr(err)
	is.True(ok)
	is.True(hint >= 0 && hint < 7)
	// a hint does not change the engine's side or the board.
	is.Equal(sess.State().MoveCount, 2)
	is.Equal(sess.EngineSide(), board.PlayerB)

	is.True(sess.Undo())
	is.True(sess.Undo())
	is.True(!sess.Undo())
	is.Equal(sess.State().MoveCount, 0)
}

func TestBotMoveOnFinishedGame(t *testing.T) {
	is := is.New(t)
	sess, err := NewSession("done", testOptions())
	is.NoErr(err)
	for _, c := range []int{0, 6, 1, 6, 2, 6, 3} {
		_, err = sess.Play(c)
		is.NoErr(err)
	}
	col, st, err := sess.BotMove(context.Background())
	is.NoErr(err)
	is.Equal(col, -1)
	is.True(st.GameOver)
}

func TestConcurrentSessions(t *testing.T) {
	is := is.New(t)
	r := NewRegistry(testOptions())
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := r.Create(fmt.Sprintf("game-%d", i))
			if err != nil {
				errs <- err
				return
			}
			for !sess.State().GameOver {
				st := sess.State()
				if st.CurrentPlayer == int(board.PlayerA) {
					legal := sess.Board().LegalMoves()
					if _, err := sess.Play(legal[i%len(legal)]); err != nil {
						errs <- err
						return
					}
					continue
				}
				if _, _, err := sess.BotMove(context.Background()); err != nil {
					errs <- err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		is.NoErr(err)
	}
	is.Equal(r.Len(), 8)
}

func TestSessionSetSearch(t *testing.T) {
	is := is.New(t)
	sess, err := NewSession("cfg", testOptions())
	is.NoErr(err)
	is.Equal(sess.Evaluate(), 0)

	cfg, _ := sess.SearchConfig()
	cfg.SearchingSide = board.PlayerA
	cfg.MaxDepth = 2
	is.NoErr(sess.SetSearch(cfg, 0))
	is.Equal(sess.EngineSide(), board.PlayerA)

	// the engine now moves first.
	col, st, err := sess.BotMove(context.Background())
	is.NoErr(err)
	is.True(col >= 0)
	is.Equal(st.MoveCount, 1)
	// its own piece counts for it.
	is.True(sess.Evaluate() > 0)

	bad := cfg
	bad.MaxDepth = 0
	is.True(errors.Is(sess.SetSearch(bad, 0), search.ErrInvalidDepth))
	got, _ := sess.SearchConfig()
	is.Equal(got, cfg)
}
