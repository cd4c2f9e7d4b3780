package ai

import (
	"fmt"
	"strings"

	"github.com/owarelab/oware/oware"
)

// NoMove is returned by ChooseMove when the side to move has no legal
// move. Callers should run end-of-game handling rather than ask again.
const NoMove = -1

// Strategy chooses a pit for the side to move. Implementations must
// not mutate the board they are given.
type Strategy interface {
	ChooseMove(b *oware.Board) int
	Name() string
}

type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
)

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(s) {
	case "beginner", "easy":
		return Beginner, nil
	case "intermediate", "medium":
		return Intermediate, nil
	}
	return 0, fmt.Errorf("unknown difficulty: %q", s)
}

// New returns the opponent for a difficulty level. seed only affects
// the beginner opponent; zero picks a time-based seed.
func New(d Difficulty, seed int64) Strategy {
	switch d {
	case Intermediate:
		return NewMinimax(MinimaxConfig{})
	default:
		return NewHeuristic(HeuristicConfig{Seed: seed})
	}
}
