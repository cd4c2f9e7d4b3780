package notation

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/owarelab/oware/oware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveNotation(t *testing.T) {
	cases := []struct {
		in  string
		pit int
	}{
		{"a", 0},
		{"f", 5},
		{"A", 6},
		{"F", 11},
		{"3", 3},
		{"11", 11},
		{" c ", 2},
	}
	for _, tc := range cases {
		pit, err := ParseMove(tc.in)
		if err != nil {
			t.Errorf("ParseMove(%q): %v", tc.in, err)
			continue
		}
		if pit != tc.pit {
			t.Errorf("ParseMove(%q) = %d, want %d", tc.in, pit, tc.pit)
		}
	}
	for pit := 0; pit < oware.NumPits; pit++ {
		back, err := ParseMove(FormatMove(pit))
		require.NoError(t, err)
		assert.Equal(t, pit, back)
	}

	for _, bad := range []string{"", "g", "G", "12", "-1", "aa", "x"} {
		_, err := ParseMove(bad)
		assert.ErrorIs(t, err, ErrBadMove, "ParseMove(%q)", bad)
	}
	assert.Equal(t, "-", FormatMove(-1))
}

func TestMoves(t *testing.T) {
	ms, err := ParseMoves("c C a 7")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 8, 0, 7}, ms)
	assert.Equal(t, "c C a B", FormatMoves(ms))
}

func TestParsePosition(t *testing.T) {
	b, err := ParsePosition("4,4,0,5,5,5/5,4,4,4,4,4 0-0 2")
	require.NoError(t, err)
	want := [oware.NumPits]int{4, 4, 0, 5, 5, 5, 5, 4, 4, 4, 4, 4}
	assert.Equal(t, want, b.Pits())
	assert.Equal(t, oware.Player2, b.ToMove())

	start := oware.New()
	_, err = oware.Execute(start, 2, false)
	require.NoError(t, err)
	assert.True(t, b.Equal(start))
	assert.Equal(t, "4,4,0,5,5,5/5,4,4,4,4,4 0-0 2", FormatPosition(start))

	b, err = ParsePosition("0,0,0,0,0,1/2,0,0,0,0,0 20-25 1")
	require.NoError(t, err)
	assert.Equal(t, 20, b.Captured(oware.Player1))
	assert.Equal(t, 25, b.Captured(oware.Player2))
}

func TestParsePositionErrors(t *testing.T) {
	bad := []string{
		"",
		"4,4,4,4,4,4/4,4,4,4,4,4 0-0",
		"4,4,4,4,4,4 0-0 1",
		"4,4,4,4,4/4,4,4,4,4,4 0-0 1",
		"4,4,4,4,4,x/4,4,4,4,4,4 0-0 1",
		"4,4,4,4,4,4/4,4,4,4,4,4 0 1",
		"4,4,4,4,4,4/4,4,4,4,4,4 0-0 3",
		"4,4,4,4,4,4/4,4,4,4,4,4 1-0 1",
		"5,4,4,4,4,4/4,4,4,4,4,-1 0-0 1",
	}
	for _, s := range bad {
		if _, err := ParsePosition(s); err == nil {
			t.Errorf("ParsePosition(%q): no error", s)
		}
	}
}

const testGame = `
[Event "Club night"]
[Player1 "ama"]
[Player2 "kofi"]

1. c C {opening}
2. a 7
1-0
`

func TestParseRecord(t *testing.T) {
	rec, err := ParseRecord(bytes.NewBufferString(testGame))
	require.NoError(t, err)
	if !reflect.DeepEqual(rec.Tags, []Tag{
		{"Event", "Club night"},
		{"Player1", "ama"},
		{"Player2", "kofi"},
	}) {
		t.Fatal("tags", rec.Tags)
	}

	ops := []Op{
		&MoveNumber{opCommon{"1."}, 1},
		&Move{opCommon{"c"}, 2},
		&Move{opCommon{"C"}, 8},
		&Comment{opCommon{"{opening}"}, "opening"},
		&MoveNumber{opCommon{"2."}, 2},
		&Move{opCommon{"a"}, 0},
		&Move{opCommon{"7"}, 7},
		&GameOver{opCommon{"1-0"}, oware.Player1},
	}
	assert.Equal(t, ops, rec.Ops)
	assert.Equal(t, []int{2, 8, 0, 7}, rec.Moves())
	w, ok := rec.Result()
	assert.True(t, ok)
	assert.Equal(t, oware.Player1, w)
	assert.Equal(t, "kofi", rec.FindTag("Player2"))
	assert.Equal(t, "", rec.FindTag("Date"))
}

func TestParseRecordBadMove(t *testing.T) {
	_, err := ParseRecord(bytes.NewBufferString("1. c z\n"))
	assert.ErrorIs(t, err, ErrBadMove)
}

func TestParseRecordUnterminatedComment(t *testing.T) {
	for _, in := range []string{"{", "1. c {", "1. c {abc", "[Event \"x\"]\n\n1. c {open\n2. a"} {
		_, err := ParseRecord(bytes.NewBufferString(in))
		assert.ErrorIs(t, err, ErrUnterminatedComment, "ParseRecord(%q)", in)
	}

	rec, err := ParseRecord(bytes.NewBufferString("1. c {}"))
	require.NoError(t, err)
	assert.Equal(t, &Comment{opCommon{"{}"}, ""}, rec.Ops[2])
}

func TestRenderRoundTrip(t *testing.T) {
	moves := []int{2, 8, 0, 7, 5}
	w := oware.Player2
	rec := NewRecord(oware.New(), moves, &w)
	rec.SetTag("Player1", "ama")
	rec.SetTag("Player1", "yaw")

	text := rec.Render()
	back, err := ParseRecord(bytes.NewBufferString(text))
	require.NoError(t, err)
	assert.Equal(t, "yaw", back.FindTag("Player1"))
	assert.Len(t, back.Tags, 1)
	assert.Equal(t, moves, back.Moves())
	got, ok := back.Result()
	assert.True(t, ok)
	assert.Equal(t, oware.Player2, got)
	assert.Equal(t, text, back.Render())
}

func TestReplay(t *testing.T) {
	b := oware.New()
	moves := []int{2, 8, 0, 7}
	for _, m := range moves {
		_, err := oware.Execute(b, m, false)
		require.NoError(t, err)
	}

	rec := NewRecord(oware.New(), moves, nil)
	got, err := rec.Replay()
	require.NoError(t, err)
	assert.True(t, got.Equal(b))

	rec = NewRecord(oware.New(), []int{2, 3}, nil)
	_, err = rec.Replay()
	assert.ErrorIs(t, err, oware.ErrNotYourPit)
}

func TestReplayFromPosition(t *testing.T) {
	start, err := ParsePosition("4,4,0,5,5,5/5,4,4,4,4,4 0-0 2")
	require.NoError(t, err)
	rec := NewRecord(start, []int{8, 1}, nil)
	assert.NotEmpty(t, rec.FindTag("Position"))

	back, err := ParseRecord(bytes.NewBufferString(rec.Render()))
	require.NoError(t, err)
	b, err := back.Replay()
	require.NoError(t, err)
	assert.Equal(t, oware.Player2, b.ToMove())
	assert.Equal(t, 0, b.Seeds(8))
	assert.Equal(t, 0, b.Seeds(1))
}
