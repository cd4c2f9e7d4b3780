package owaretest

import (
	"github.com/owarelab/oware/notation"
	"github.com/owarelab/oware/oware"
)

func Moves(s string) []int {
	ms, e := notation.ParseMoves(s)
	if e != nil {
		panic(e)
	}
	return ms
}

// Board parses a position string, panicking on error.
func Board(pos string) *oware.Board {
	b, e := notation.ParsePosition(pos)
	if e != nil {
		panic(e)
	}
	return b
}

// Position plays ms from the starting position.
func Position(ms string) *oware.Board {
	b := oware.New()
	for _, m := range Moves(ms) {
		if _, e := oware.Execute(b, m, false); e != nil {
			panic(e)
		}
	}
	return b
}
