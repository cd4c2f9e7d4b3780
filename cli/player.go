package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/owarelab/oware/ai"
	"github.com/owarelab/oware/notation"
	"github.com/owarelab/oware/oware"
)

// NewCLIPlayer returns a strategy that reads moves from in. It gives
// up with ai.NoMove once in is exhausted.
func NewCLIPlayer(out io.Writer, in *bufio.Reader) ai.Strategy {
	return &cliPlayer{out, in}
}

type cliPlayer struct {
	out io.Writer
	in  *bufio.Reader
}

func (c *cliPlayer) Name() string { return "human" }

func (c *cliPlayer) ChooseMove(b *oware.Board) int {
	for {
		fmt.Fprintf(c.out, "%s> ", b.ToMove())
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(c.out)
			return ai.NoMove
		}
		m, err := notation.ParseMove(line)
		if err != nil {
			fmt.Fprintln(c.out, "parse error: ", err)
			continue
		}
		return m
	}
}
