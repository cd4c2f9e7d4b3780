package ai

import (
	"bytes"
	"testing"

	"github.com/owarelab/oware/oware"
	"github.com/owarelab/oware/owaretest"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		pos  string
		me   oware.Player
		want int64
	}{
		{"4,4,4,4,4,4/4,4,4,4,4,4 0-0 1", oware.Player1, 0},
		{"20,0,0,0,0,0/3,0,0,0,0,0 15-10 2", oware.Player1, 10*5 + 17},
		{"20,0,0,0,0,0/3,0,0,0,0,0 15-10 2", oware.Player2, -(10*5 + 17)},
		{"0,0,0,0,0,1/1,0,0,0,0,3 23-20 1", oware.Player1, 10*3 - 3},
	}
	for _, tc := range cases {
		got := DefaultEvaluate(owaretest.Board(tc.pos), tc.me)
		if got != tc.want {
			t.Errorf("evaluate(%q, %s) = %d != %d", tc.pos, tc.me, got, tc.want)
		}
	}

	w := Weights{Seeds: 1}
	assert.Equal(t, int64(17), MakeEvaluator(&w)(owaretest.Board(cases[1].pos), oware.Player1))
}

func TestExplainScore(t *testing.T) {
	var out bytes.Buffer
	b := owaretest.Board("20,0,0,0,0,0/3,0,0,0,0,0 15-10 2")
	ExplainScore(&DefaultWeights, &out, b, oware.Player1)
	assert.Equal(t, ""+
		"         player1 player2\n"+
		"captured 15      10\n"+
		"seeds    20      3\n"+
		"score    67      \n", out.String())
}

func benchmarkEval(b *testing.B, pos string) {
	p := owaretest.Board(pos)
	eval := MakeEvaluator(&DefaultWeights)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eval(p, oware.Player1)
	}
}

func BenchmarkEvalEarlyGame(b *testing.B) {
	benchmarkEval(b, "4,4,0,5,5,5/5,4,0,5,5,5 0-0 1")
}

func BenchmarkEvalMidGame(b *testing.B) {
	benchmarkEval(b, "0,7,1,0,3,9/2,0,0,6,1,4 10-5 1")
}
