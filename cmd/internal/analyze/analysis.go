package analyze

import (
	"fmt"
	"io"

	"github.com/owarelab/oware/ai"
	"github.com/owarelab/oware/cli"
	"github.com/owarelab/oware/notation"
	"github.com/owarelab/oware/oware"
)

type Analyzer interface {
	Analyze(out io.Writer, b *oware.Board) error
}

type minimaxAnalysis struct {
	cmd     *Command
	ai      *ai.MinimaxAI
	weights ai.Weights
}

func (m *minimaxAnalysis) Analyze(out io.Writer, b *oware.Board) error {
	if !m.cmd.quiet {
		cli.RenderBoard(out, b)
		if m.cmd.explain {
			ai.ExplainScore(&m.weights, out, b, b.ToMove())
		}
	}
	if m.cmd.eval {
		fmt.Fprintf(out, " Val=%d\n", ai.MakeEvaluator(&m.weights)(b, b.ToMove()))
		return nil
	}
	pv, val, st := m.ai.Analyze(b)
	fmt.Fprintf(out, "AI analysis:\n")
	fmt.Fprintf(out, " pv=%s\n", notation.FormatMoves(pv))
	fmt.Fprintf(out, " value=%d\n", val)
	fmt.Fprintf(out, " depth=%d evaluated=%d time=%s\n", st.Depth, st.Evaluated, st.Elapsed)
	if m.cmd.position {
		fmt.Fprintf(out, "[Position \"%s\"]\n", notation.FormatPosition(b))
	}
	fmt.Fprintln(out)

	if len(pv) == 0 || m.cmd.quiet {
		return nil
	}
	b = b.Clone()
	for _, pit := range pv {
		if _, err := oware.Execute(b, pit, false); err != nil {
			return fmt.Errorf("illegal move in pv: %s: %w", notation.FormatMove(pit), err)
		}
		if oware.GameOver(b) {
			break
		}
	}
	fmt.Fprintln(out, "Resulting position:")
	cli.RenderBoard(out, b)
	fmt.Fprintln(out)
	return nil
}

type beginnerAnalysis struct {
	cmd *Command
}

func (a *beginnerAnalysis) Analyze(out io.Writer, b *oware.Board) error {
	if !a.cmd.quiet {
		cli.RenderBoard(out, b)
	}
	moves := oware.LegalMoves(b)
	fmt.Fprintf(out, "Beginner ranking:\n")
	for _, c := range ai.Rank(b, moves) {
		fmt.Fprintf(out, " %s score=%d\n", notation.FormatMove(c.Pit), c.Score)
	}
	if len(moves) == 0 {
		fmt.Fprintf(out, " no legal moves\n")
	}
	fmt.Fprintln(out)
	return nil
}
