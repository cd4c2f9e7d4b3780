package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/owarelab/oware/oware"
)

var ErrBadMove = errors.New("illegal move notation")

// FormatMove names player1's pits a-f and player2's pits A-F.
func FormatMove(pit int) string {
	if pit < 0 || pit >= oware.NumPits {
		return "-"
	}
	if pit < oware.PitsPerPlayer {
		return string(rune('a' + pit))
	}
	return string(rune('A' + pit - oware.PitsPerPlayer))
}

// ParseMove accepts a pit letter or a decimal pit index.
func ParseMove(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		c := s[0]
		switch {
		case c >= 'a' && c < 'a'+oware.PitsPerPlayer:
			return int(c - 'a'), nil
		case c >= 'A' && c < 'A'+oware.PitsPerPlayer:
			return int(c-'A') + oware.PitsPerPlayer, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= oware.NumPits {
		return 0, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	return n, nil
}

func FormatMoves(ms []int) string {
	bits := make([]string, len(ms))
	for i, m := range ms {
		bits[i] = FormatMove(m)
	}
	return strings.Join(bits, " ")
}

func ParseMoves(s string) ([]int, error) {
	var out []int
	for _, b := range strings.Fields(s) {
		m, err := ParseMove(b)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
