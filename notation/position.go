package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/owarelab/oware/oware"
)

// ParsePosition parses a position string of the form
//
//	4,4,4,4,4,4/4,4,4,4,4,4 0-0 1
//
// The first row holds pits 0-5 and the second pits 6-11, each in
// sowing order. Next come the captured totals and the side to move
// (1 or 2).
func ParsePosition(s string) (*oware.Board, error) {
	words := strings.Fields(s)
	if len(words) != 3 {
		return nil, errors.New("bad position: wrong number of words")
	}
	rows := strings.Split(words[0], "/")
	if len(rows) != 2 {
		return nil, fmt.Errorf("bad position: %d rows", len(rows))
	}
	var pits [oware.NumPits]int
	for r, row := range rows {
		bits := strings.Split(row, ",")
		if len(bits) != oware.PitsPerPlayer {
			return nil, fmt.Errorf("row %d bad length: %d", r+1, len(bits))
		}
		for i, b := range bits {
			n, err := strconv.Atoi(b)
			if err != nil {
				return nil, fmt.Errorf("row %d pit %d: %q", r+1, i+1, b)
			}
			pits[r*oware.PitsPerPlayer+i] = n
		}
	}

	score := strings.Split(words[1], "-")
	if len(score) != 2 {
		return nil, fmt.Errorf("bad captured totals: %s", words[1])
	}
	var captured [2]int
	for i, c := range score {
		n, err := strconv.Atoi(c)
		if err != nil {
			return nil, fmt.Errorf("bad captured totals: %s", words[1])
		}
		captured[i] = n
	}

	var toMove oware.Player
	switch words[2] {
	case "1":
		toMove = oware.Player1
	case "2":
		toMove = oware.Player2
	default:
		return nil, fmt.Errorf("bad turn: %s", words[2])
	}
	return oware.FromPits(pits, captured, toMove)
}

func FormatPosition(b *oware.Board) string {
	var rows [2]string
	pits := b.Pits()
	for r := range rows {
		bits := make([]string, oware.PitsPerPlayer)
		for i := range bits {
			bits[i] = strconv.Itoa(pits[r*oware.PitsPerPlayer+i])
		}
		rows[r] = strings.Join(bits, ",")
	}
	return fmt.Sprintf("%s/%s %d-%d %d",
		rows[0], rows[1],
		b.Captured(oware.Player1), b.Captured(oware.Player2),
		int(b.ToMove())+1)
}
