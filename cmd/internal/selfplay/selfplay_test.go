package selfplay

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/owarelab/oware/cmd/internal/opt"
	"github.com/owarelab/oware/logs"
	"github.com/owarelab/oware/notation"
	"github.com/owarelab/oware/oware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(games int) *Config {
	p1, _ := opt.ParsePlayer("intermediate:1")
	p2, _ := opt.ParsePlayer("rand")
	return &Config{
		Games:   games,
		Initial: []*oware.Board{oware.New()},
		P1:      p1,
		P2:      p2,
		Minimax: &opt.Minimax{},
		Swap:    true,
		Threads: 3,
		Seed:    11,
		Cutoff:  200,
	}
}

func TestSimulate(t *testing.T) {
	st, err := Simulate(context.Background(), testConfig(4))
	require.NoError(t, err)
	require.Len(t, st.Games, 8)
	assert.Equal(t, 8, st.Count())
	assert.Equal(t, st.Player1+st.Player2, st.Players[0].Wins+st.Players[1].Wins)

	swapped := 0
	for _, r := range st.Games {
		_, over := r.Match.Ending()
		assert.True(t, over)
		if r.spec.swapped {
			swapped++
			assert.Equal(t, "rand", r.Match.Seat(oware.Player1).ID)
		} else {
			assert.Equal(t, "intermediate:1", r.Match.Seat(oware.Player1).ID)
		}
		assert.LessOrEqual(t, len(r.Match.Moves()), 200)
	}
	assert.Equal(t, 4, swapped)
	for _, ps := range st.Players {
		assert.Equal(t, ps.Wins, ps.AsPlayer1+ps.AsPlayer2)
		assert.Equal(t, ps.Wins, ps.Majority+ps.Banked+ps.Adjudicated)
	}
}

func TestSimulateIsReproducible(t *testing.T) {
	moves := func() map[[2]int]string {
		st, err := Simulate(context.Background(), testConfig(2))
		require.NoError(t, err)
		out := make(map[[2]int]string)
		for _, r := range st.Games {
			out[[2]int{r.spec.oi, r.spec.i}] = notation.FormatMoves(r.Match.Moves())
		}
		return out
	}
	assert.Equal(t, moves(), moves())
}

func TestSimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simulate(ctx, testConfig(50))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulateBadPlayer(t *testing.T) {
	c := testConfig(1)
	c.Minimax = &opt.Minimax{Weights: "not json"}
	_, err := Simulate(context.Background(), c)
	assert.Error(t, err)
}

func TestWriteAndLogGames(t *testing.T) {
	st, err := Simulate(context.Background(), testConfig(1))
	require.NoError(t, err)

	dir := t.TempDir()
	for _, r := range st.Games {
		require.NoError(t, writeGame(dir, &r))
	}
	f, err := os.Open(filepath.Join(dir, "0-1.txt"))
	require.NoError(t, err)
	defer f.Close()
	rec, err := notation.ParseRecord(f)
	require.NoError(t, err)
	assert.Equal(t, "0.1", rec.FindTag("Round"))
	assert.Equal(t, "rand", rec.FindTag("Player1"))

	repo, err := logs.Open("sqlite3", filepath.Join(dir, "games.db"))
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, logGames(repo, st.Games))
	gs, err := repo.RecentGames(10)
	require.NoError(t, err)
	assert.Len(t, gs, 2)
	r, err := repo.Rating("rand")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Games)
}

func TestPrintSummary(t *testing.T) {
	st := Stats{Player1: 1200, Player2: 3, Ties: 1}
	st.Players[0] = PlayerStats{Wins: 1201, AsPlayer1: 1200, AsPlayer2: 1, Majority: 1201}
	st.Players[1] = PlayerStats{Wins: 2, AsPlayer2: 2, Banked: 2}
	var buf bytes.Buffer
	printSummary(&buf, "intermediate", "beginner", &st)
	assert.Contains(t, buf.String(), "1,200")
	assert.Contains(t, buf.String(), "games=1,204 ties=1")
}

func TestBinomTest(t *testing.T) {
	assert.InDelta(t, 0.5, binomTest(1, 0, 0.5), 1e-9)
	assert.InDelta(t, 0.25, binomTest(2, 0, 0.5), 1e-9)
	assert.InDelta(t, 0.75, binomTest(1, 1, 0.5), 1e-9)
	assert.InDelta(t, 1, binomTest(0, 3, 0.5), 1e-9)
}
