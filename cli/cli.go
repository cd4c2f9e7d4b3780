package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/owarelab/oware/match"
	"github.com/owarelab/oware/notation"
	"github.com/owarelab/oware/oware"
)

type CLI struct {
	m *match.Match

	Position *oware.Board
	MaxMoves int
	Out      io.Writer
	Player1  match.Seat
	Player2  match.Seat
}

func isRuleError(err error) bool {
	return errors.Is(err, oware.ErrNotYourPit) ||
		errors.Is(err, oware.ErrEmptyPit) ||
		errors.Is(err, oware.ErrMustFeed)
}

// Play runs a game to completion, asking each seat's strategy for
// moves. Illegal moves are reported and asked for again.
func (c *CLI) Play() (*match.Match, error) {
	m, err := match.New(match.Config{
		Player1:  c.Player1,
		Player2:  c.Player2,
		Position: c.Position,
		MaxMoves: c.MaxMoves,
	})
	if err != nil {
		return nil, err
	}
	c.m = m
	m.Start()
	for {
		b := m.Board()
		c.render(b)
		if m.State() == match.Finished {
			c.reportEnd(m)
			return m, nil
		}
		n := len(m.Moves())
		evs, err := m.Step()
		if err != nil {
			if isRuleError(err) {
				fmt.Fprintln(c.Out, "illegal move:", err)
				continue
			}
			return m, err
		}
		for _, ev := range evs {
			if ev.Kind != match.MoveMade {
				continue
			}
			if ev.Result.Player == oware.Player1 {
				fmt.Fprintf(c.Out, "%d. %s", n/2+1, notation.FormatMove(ev.Result.Pit))
			} else {
				fmt.Fprintf(c.Out, "%d. ... %s", n/2+1, notation.FormatMove(ev.Result.Pit))
			}
			if ev.Result.Seeds > 0 {
				fmt.Fprintf(c.Out, " (captured %d)", ev.Result.Seeds)
			}
			if ev.Result.GrandSlam {
				fmt.Fprintf(c.Out, " (grand slam, no capture)")
			}
			fmt.Fprintln(c.Out)
		}
	}
}

func (c *CLI) reportEnd(m *match.Match) {
	e, _ := m.Ending()
	fmt.Fprintf(c.Out, "Game Over! ")
	if w := m.Winner(); w == oware.Draw {
		fmt.Fprintf(c.Out, "Draw.")
	} else {
		fmt.Fprintf(c.Out, "%s (%s) wins by ", m.Seat(w).ID, w)
		switch e.Reason {
		case oware.CaptureMajority:
			fmt.Fprintf(c.Out, "capturing a majority")
		case oware.NoMoves:
			fmt.Fprintf(c.Out, "seeds count after a stalemate")
		case oware.MoveLimit:
			fmt.Fprintf(c.Out, "seeds count at the move limit")
		}
	}
	if e.Reason == oware.NoMoves && e.Awarded > 0 {
		fmt.Fprintf(c.Out, "\n%s banked %d seeds", e.Banker, e.Awarded)
	}
	b := m.Board()
	fmt.Fprintf(c.Out, "\ncaptured: player1=%d player2=%d\n",
		b.Captured(oware.Player1),
		b.Captured(oware.Player2))
}

func (c *CLI) Match() *match.Match {
	return c.m
}

func (c *CLI) render(b *oware.Board) {
	RenderBoard(c.Out, b)
}

// RenderBoard draws player2's row above player1's, each read in sowing
// order, so seeds travel counter-clockwise.
func RenderBoard(out io.Writer, b *oware.Board) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "[%s to play]\n", b.ToMove())
	w := tabwriter.NewWriter(out, 4, 8, 1, '\t', 0)
	fmt.Fprintf(w, "\t")
	for i := oware.NumPits - 1; i >= oware.PitsPerPlayer; i-- {
		fmt.Fprintf(w, "%s.\t", notation.FormatMove(i))
	}
	fmt.Fprintf(w, "\n2.\t")
	for i := oware.NumPits - 1; i >= oware.PitsPerPlayer; i-- {
		fmt.Fprintf(w, "[%d]\t", b.Seeds(i))
	}
	fmt.Fprintf(w, "\n1.\t")
	for i := 0; i < oware.PitsPerPlayer; i++ {
		fmt.Fprintf(w, "[%d]\t", b.Seeds(i))
	}
	fmt.Fprintf(w, "\n\t")
	for i := 0; i < oware.PitsPerPlayer; i++ {
		fmt.Fprintf(w, "%s.\t", notation.FormatMove(i))
	}
	fmt.Fprintf(w, "\n")
	w.Flush()
	fmt.Fprintf(out, "captured: 1:%d 2:%d\n",
		b.Captured(oware.Player1), b.Captured(oware.Player2))
}
