package opt

import (
	"flag"
	"testing"

	"github.com/owarelab/oware/ai"
	"github.com/owarelab/oware/owaretest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlayer(t *testing.T) {
	cases := []struct {
		in   string
		want Player
		err  bool
	}{
		{"human", Player{Kind: "human"}, false},
		{"beginner", Player{Kind: "beginner"}, false},
		{"beginner:7", Player{Kind: "beginner", Arg: 7}, false},
		{"intermediate:2", Player{Kind: "intermediate", Arg: 2}, false},
		{"rand:3", Player{Kind: "rand", Arg: 3}, false},
		{"human:1", Player{}, true},
		{"rand:x", Player{}, true},
		{"expert", Player{}, true},
	}
	for _, tc := range cases {
		p, err := ParsePlayer(tc.in)
		if tc.err {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, p)
		assert.Equal(t, tc.in, p.String())
	}
}

func TestBuild(t *testing.T) {
	var mm Minimax
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	mm.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"-weights", `{"captured": 1, "seeds": 0}`}))

	b := owaretest.Board("39,0,0,0,0,2/2,1,4,0,0,0 0-0 1")
	p, _ := ParsePlayer("intermediate:1")
	s, err := p.Build(0, &mm)
	require.NoError(t, err)
	assert.Equal(t, 5, s.ChooseMove(b))

	p, _ = ParsePlayer("rand:9")
	a, err := p.Build(1, &mm)
	require.NoError(t, err)
	c, err := p.Build(2, &mm)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.ChooseMove(b), c.ChooseMove(b))
	}

	p, _ = ParsePlayer("beginner")
	s, err = p.Build(4, &mm)
	require.NoError(t, err)
	assert.IsType(t, &ai.HeuristicAI{}, s)

	_, err = Player{Kind: "human"}.Build(0, &mm)
	assert.Error(t, err)

	mm.Weights = "{"
	_, err = Player{Kind: "intermediate"}.Build(0, &mm)
	assert.Error(t, err)
}

func TestSeatIDs(t *testing.T) {
	a, b := SeatIDs("human", "human")
	assert.Equal(t, "human/1", a)
	assert.Equal(t, "human/2", b)
	a, b = SeatIDs("human", "beginner")
	assert.Equal(t, "human", a)
	assert.Equal(t, "beginner", b)
}

func TestDB(t *testing.T) {
	t.Setenv("OWARE_DB_DRIVER", "")
	t.Setenv("OWARE_DB", "")
	var o DB
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o.AddFlags(fs)
	assert.Equal(t, "sqlite3", o.Driver)
	repo, err := o.Open()
	require.NoError(t, err)
	assert.Nil(t, repo)

	require.NoError(t, fs.Parse([]string{"-db", t.TempDir() + "/games.db"}))
	repo, err = o.Open()
	require.NoError(t, err)
	require.NotNil(t, repo)
	repo.Close()
}
