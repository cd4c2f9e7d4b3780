package ai

import (
	"bytes"
	"context"
	"time"

	"github.com/owarelab/oware/notation"
	"github.com/owarelab/oware/oware"
	"github.com/rs/zerolog/log"
)

const (
	MaxEval int64 = 1 << 30
	MinEval       = -MaxEval

	defaultDepth = 3
)

// MinimaxAI is the intermediate opponent: a fixed-depth full-width
// minimax search with no pruning. Each ply hands the move to the other
// side, so alternate plies minimize over the opponent's replies.
type MinimaxAI struct {
	cfg MinimaxConfig
	st  Stats
	me  oware.Player

	ctx context.Context
	err error

	evaluate EvaluationFunc
}

type Stats struct {
	Depth     int
	Generated uint64
	Evaluated uint64
	Terminal  uint64
	Visited   uint64
	Elapsed   time.Duration
}

type MinimaxConfig struct {
	Depth int
	Debug int

	Evaluate EvaluationFunc
}

func NewMinimax(cfg MinimaxConfig) *MinimaxAI {
	m := &MinimaxAI{cfg: cfg}
	if m.cfg.Depth <= 0 {
		m.cfg.Depth = defaultDepth
	}
	m.evaluate = cfg.Evaluate
	if m.evaluate == nil {
		m.evaluate = DefaultEvaluate
	}
	return m
}

func (m *MinimaxAI) Name() string {
	return "intermediate"
}

func formatpv(ms []int) string {
	var out bytes.Buffer
	out.WriteString("[")
	out.WriteString(notation.FormatMoves(ms))
	out.WriteString("]")
	return out.String()
}

func (m *MinimaxAI) ChooseMove(b *oware.Board) int {
	ms, _, _ := m.Analyze(b)
	if len(ms) == 0 {
		return NoMove
	}
	return ms[0]
}

// Analyze searches b and returns the principal variation, its value
// from the point of view of the side to move, and search statistics.
// The variation is empty when there is no legal move.
func (m *MinimaxAI) Analyze(b *oware.Board) ([]int, int64, Stats) {
	pv, v, st, _ := m.AnalyzeContext(context.Background(), b)
	return pv, v, st
}

// AnalyzeContext is Analyze, abandoning the search with ctx's error
// once ctx is done.
func (m *MinimaxAI) AnalyzeContext(ctx context.Context, b *oware.Board) ([]int, int64, Stats, error) {
	start := time.Now()
	m.st = Stats{Depth: m.cfg.Depth}
	m.me = b.ToMove()
	m.ctx, m.err = ctx, nil
	defer func() { m.ctx = nil }()

	moves := oware.LegalMoves(b)
	m.st.Generated += uint64(len(moves))
	var pv []int
	var best int64 = MinEval - 1
	switch len(moves) {
	case 0:
		best = m.evaluate(b, m.me)
		m.st.Evaluated++
	case 1:
		pv = []int{moves[0]}
		best = m.evaluate(child(b, moves[0]), m.me)
		m.st.Evaluated++
	default:
		m.st.Visited++
		for _, mv := range moves {
			rest, v := m.minimax(child(b, mv), m.cfg.Depth-1, false)
			if m.err != nil {
				return nil, 0, m.st, m.err
			}
			if v > best {
				best = v
				pv = append([]int{mv}, rest...)
			}
		}
	}
	m.st.Elapsed = time.Since(start)

	if m.cfg.Debug > 0 {
		log.Debug().
			Int("depth", m.st.Depth).
			Int64("val", best).
			Str("pv", formatpv(pv)).
			Dur("time", m.st.Elapsed).
			Uint64("evaluated", m.st.Evaluated).
			Msg("minimax")
	}
	if m.cfg.Debug > 1 {
		log.Debug().
			Uint64("visited", m.st.Visited).
			Uint64("generated", m.st.Generated).
			Uint64("terminal", m.st.Terminal).
			Msg("minimax stats")
	}
	return pv, best, m.st, nil
}

// child plays pit on a copy of b and hands the copy to the opponent.
func child(b *oware.Board, pit int) *oware.Board {
	c := b.Clone()
	if _, err := oware.Execute(c, pit, true); err != nil {
		panic(err)
	}
	c.NextTurn()
	return c
}

func (m *MinimaxAI) minimax(b *oware.Board, depth int, maximizing bool) ([]int, int64) {
	if depth == 0 || oware.GameOver(b) {
		m.st.Evaluated++
		if depth != 0 {
			m.st.Terminal++
		}
		return nil, m.evaluate(b, m.me)
	}
	if m.err = m.ctx.Err(); m.err != nil {
		return nil, 0
	}
	m.st.Visited++

	moves := oware.LegalMoves(b)
	m.st.Generated += uint64(len(moves))
	var pv []int
	best := MaxEval + 1
	if maximizing {
		best = MinEval - 1
	}
	for _, mv := range moves {
		rest, v := m.minimax(child(b, mv), depth-1, !maximizing)
		if m.err != nil {
			return nil, 0
		}
		if (maximizing && v > best) || (!maximizing && v < best) {
			best = v
			pv = append([]int{mv}, rest...)
		}
	}
	return pv, best
}
