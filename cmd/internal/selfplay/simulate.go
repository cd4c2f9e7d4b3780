package selfplay

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/owarelab/oware/cmd/internal/opt"
	"github.com/owarelab/oware/match"
	"github.com/owarelab/oware/oware"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Games int

	Verbose bool

	Initial []*oware.Board

	P1, P2  opt.Player
	Minimax *opt.Minimax

	Swap    bool
	Threads int
	Seed    int64
	Cutoff  int
}

// IDs returns the seat IDs used for the two players.
func (c *Config) IDs() (string, string) {
	return opt.SeatIDs(c.P1.String(), c.P2.String())
}

type PlayerStats struct {
	Wins        int
	AsPlayer1   int
	AsPlayer2   int
	Majority    int
	Banked      int
	Adjudicated int
}

type Stats struct {
	Players          [2]PlayerStats
	Player1, Player2 int
	Ties             int
	Cutoff           int

	Games []Result `json:"-"`
}

func (s *Stats) Count() int {
	return s.Player1 + s.Player2 + s.Ties
}

type gameSpec struct {
	opening *oware.Board
	oi      int
	i       int
	seed    int64
	swapped bool
}

type Result struct {
	spec  gameSpec
	Match *match.Match
}

func Simulate(ctx context.Context, c *Config) (Stats, error) {
	var st Stats
	id1, _ := c.IDs()

	grp, ctx := errgroup.WithContext(ctx)
	specs := make(chan gameSpec)
	rc := make(chan Result)

	grp.Go(func() error {
		defer close(specs)
		r := rand.New(rand.NewSource(c.Seed))
		for oi, pos := range c.Initial {
			n := c.Games
			if c.Swap {
				n *= 2
			}
			for i := 0; i < n; i++ {
				spec := gameSpec{
					opening: pos,
					oi:      oi,
					i:       i,
					seed:    r.Int63(),
					swapped: c.Swap && i%2 == 1,
				}
				select {
				case specs <- spec:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		return nil
	})

	threads := c.Threads
	if threads <= 0 {
		threads = 1
	}
	var wg sync.WaitGroup
	wg.Add(threads)
	for i := 0; i < threads; i++ {
		grp.Go(func() error {
			defer wg.Done()
			return worker(ctx, c, specs, rc)
		})
	}
	go func() {
		wg.Wait()
		close(rc)
	}()

	for r := range rc {
		m := r.Match
		e, _ := m.Ending()
		if c.Verbose {
			log.Info().
				Int("opening", r.spec.oi).
				Int("game", r.spec.i).
				Int("moves", len(m.Moves())).
				Str("player1", m.Seat(oware.Player1).ID).
				Stringer("winner", m.Winner()).
				Stringer("reason", e.Reason).
				Msg("game")
		}
		if e.Reason == oware.MoveLimit {
			st.Cutoff++
		}
		switch m.Winner() {
		case oware.Draw:
			st.Ties++
			st.Games = append(st.Games, r)
			continue
		case oware.Player1:
			st.Player1++
		case oware.Player2:
			st.Player2++
		}
		o, _ := m.Outcome()
		pst := &st.Players[1]
		if o.WinnerID == id1 {
			pst = &st.Players[0]
		}
		pst.Wins++
		if m.Winner() == oware.Player1 {
			pst.AsPlayer1++
		} else {
			pst.AsPlayer2++
		}
		switch e.Reason {
		case oware.CaptureMajority:
			pst.Majority++
		case oware.NoMoves:
			pst.Banked++
		case oware.MoveLimit:
			pst.Adjudicated++
		}
		st.Games = append(st.Games, r)
	}
	return st, grp.Wait()
}

func worker(ctx context.Context, c *Config, specs <-chan gameSpec, out chan<- Result) error {
	id1, id2 := c.IDs()
	for g := range specs {
		s1, err := c.P1.Build(g.seed, c.Minimax)
		if err != nil {
			return err
		}
		s2, err := c.P2.Build(g.seed+1, c.Minimax)
		if err != nil {
			return err
		}
		seats := [2]match.Seat{{ID: id1, Strategy: s1}, {ID: id2, Strategy: s2}}
		if g.swapped {
			seats[0], seats[1] = seats[1], seats[0]
		}
		m, err := match.New(match.Config{
			Player1:  seats[0],
			Player2:  seats[1],
			Position: g.opening,
			MaxMoves: c.Cutoff,
		})
		if err != nil {
			return fmt.Errorf("opening %d: %w", g.oi, err)
		}
		m.Start()
		if _, err := m.Run(); err != nil {
			return fmt.Errorf("game %d/%d: %w", g.oi, g.i, err)
		}
		select {
		case out <- Result{spec: g, Match: m}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
