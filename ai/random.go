package ai

import (
	"math/rand"

	"github.com/owarelab/oware/oware"
)

type RandomAI struct {
	r *rand.Rand
}

func (r *RandomAI) ChooseMove(b *oware.Board) int {
	moves := oware.LegalMoves(b)
	if len(moves) == 0 {
		return NoMove
	}
	return moves[r.r.Intn(len(moves))]
}

func (r *RandomAI) Name() string {
	return "random"
}

func NewRandom(seed int64) *RandomAI {
	return &RandomAI{
		r: rand.New(rand.NewSource(seed)),
	}
}
