package rating

import (
	"errors"
	"math"
)

const (
	Default = 1200
	K       = 32
)

var ErrSamePlayer = errors.New("winner and loser cannot be the same player")

// Expected is the expected score of a player rated ra against one
// rated rb.
func Expected(ra, rb int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(rb-ra)/400.0))
}

// Change is the effect of one game on both ratings.
type Change struct {
	WinnerOld int  `json:"winner_old"`
	LoserOld  int  `json:"loser_old"`
	WinnerNew int  `json:"winner_new"`
	LoserNew  int  `json:"loser_new"`
	Draw      bool `json:"draw"`
}

func (c Change) WinnerDelta() int { return c.WinnerNew - c.WinnerOld }
func (c Change) LoserDelta() int  { return c.LoserNew - c.LoserOld }

// Apply computes new ratings after a game. On a draw both sides score
// one half.
func Apply(winner, loser int, draw bool) Change {
	sw, sl := 1.0, 0.0
	if draw {
		sw, sl = 0.5, 0.5
	}
	return Change{
		WinnerOld: winner,
		LoserOld:  loser,
		WinnerNew: update(winner, sw, Expected(winner, loser)),
		LoserNew:  update(loser, sl, Expected(loser, winner)),
		Draw:      draw,
	}
}

func update(r int, actual, expected float64) int {
	return int(math.Floor(float64(r) + K*(actual-expected) + 0.5))
}
