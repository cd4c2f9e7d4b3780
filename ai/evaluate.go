package ai

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/owarelab/oware/oware"
)

// EvaluationFunc scores b from me's point of view; larger is better
// for me.
type EvaluationFunc func(b *oware.Board, me oware.Player) int64

type Weights struct {
	Captured int64
	Seeds    int64
}

var DefaultWeights = Weights{
	Captured: 10,
	Seeds:    1,
}

func MakeEvaluator(w *Weights) EvaluationFunc {
	return func(b *oware.Board, me oware.Player) int64 {
		return evaluate(w, b, me)
	}
}

var DefaultEvaluate = MakeEvaluator(&DefaultWeights)

func evaluate(w *Weights, b *oware.Board, me oware.Player) int64 {
	opp := me.Opponent()
	captured := int64(b.Captured(me) - b.Captured(opp))
	seeds := int64(b.SideSeeds(me) - b.SideSeeds(opp))
	return w.Captured*captured + w.Seeds*seeds
}

// ExplainScore writes the per-term breakdown of evaluate to out.
func ExplainScore(w *Weights, out io.Writer, b *oware.Board, me oware.Player) {
	tw := tabwriter.NewWriter(out, 4, 8, 1, ' ', 0)
	opp := me.Opponent()
	fmt.Fprintf(tw, "\t%s\t%s\n", me, opp)
	fmt.Fprintf(tw, "captured\t%d\t%d\n", b.Captured(me), b.Captured(opp))
	fmt.Fprintf(tw, "seeds\t%d\t%d\n", b.SideSeeds(me), b.SideSeeds(opp))
	fmt.Fprintf(tw, "score\t%d\t\n", evaluate(w, b, me))
	tw.Flush()
}
