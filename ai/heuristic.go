package ai

import (
	"time"

	"github.com/owarelab/oware/oware"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

const defaultScoredChance = 0.3

type HeuristicConfig struct {
	Seed  int64
	Debug int

	// ScoredChance is the probability of trying a scored choice
	// before falling back to a random move. Zero means 0.3.
	ScoredChance float64
}

// HeuristicAI is the beginner opponent: it sometimes looks one reply
// ahead and otherwise plays at random.
type HeuristicAI struct {
	cfg HeuristicConfig
	r   *rand.Rand
}

func NewHeuristic(cfg HeuristicConfig) *HeuristicAI {
	if cfg.ScoredChance == 0 {
		cfg.ScoredChance = defaultScoredChance
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &HeuristicAI{
		cfg: cfg,
		r:   rand.New(rand.NewSource(uint64(seed))),
	}
}

func (h *HeuristicAI) Name() string {
	return "beginner"
}

type Candidate struct {
	Pit   int
	Score int
}

func (h *HeuristicAI) ChooseMove(b *oware.Board) int {
	moves := oware.LegalMoves(b)
	if len(moves) == 0 {
		return NoMove
	}
	if h.r.Float64() < h.cfg.ScoredChance {
		cs := Rank(b, moves)
		if h.cfg.Debug > 0 {
			log.Debug().Interface("candidates", cs).Msg("beginner scored")
		}
		if cs[0].Score > 0 {
			return cs[0].Pit
		}
	}
	return moves[h.r.Intn(len(moves))]
}

// Rank scores each move and orders them best first. Equal scores keep
// their input order.
func Rank(b *oware.Board, moves []int) []Candidate {
	cs := make([]Candidate, len(moves))
	for i, m := range moves {
		cs[i] = Candidate{Pit: m, Score: ScoreMove(b, m)}
	}
	slices.SortStableFunc(cs, func(a, b Candidate) int {
		return b.Score - a.Score
	})
	return cs
}

// ScoreMove rates pit for the side to move:
//
//	10*captured - 5*(best opponent reply capture) - 2*(own seeds in 2- or 3-seed pits)
func ScoreMove(b *oware.Board, pit int) int {
	after := b.Clone()
	r, err := oware.Execute(after, pit, true)
	if err != nil {
		return 0
	}
	return 10*r.Seeds - 5*bestReplyCapture(after) - 2*vulnerableSeeds(after, r.Player)
}

func bestReplyCapture(after *oware.Board) int {
	reply := after.Clone()
	reply.NextTurn()
	best := 0
	for _, m := range oware.LegalMoves(reply) {
		c := reply.Clone()
		r, err := oware.Execute(c, m, true)
		if err == nil && r.Seeds > best {
			best = r.Seeds
		}
	}
	return best
}

func vulnerableSeeds(b *oware.Board, p oware.Player) int {
	n := 0
	start, end := oware.PitRange(p)
	for i := start; i <= end; i++ {
		if s := b.Seeds(i); s == 2 || s == 3 {
			n += s
		}
	}
	return n
}
