package oware

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, pits [NumPits]int, captured [2]int, toMove Player) *Board {
	t.Helper()
	b, err := FromPits(pits, captured, toMove)
	if err != nil {
		t.Fatalf("FromPits(%v, %v): %v", pits, captured, err)
	}
	return b
}

func TestOpeningMove(t *testing.T) {
	b := New()
	r, err := Execute(b, 2, false)
	require.NoError(t, err)

	want := [NumPits]int{4, 4, 0, 5, 5, 5, 5, 4, 4, 4, 4, 4}
	assert.Equal(t, want, b.Pits())
	assert.Equal(t, 6, r.Last)
	assert.Equal(t, 4, r.Sown)
	assert.Zero(t, r.Seeds)
	assert.Empty(t, r.Captures)
	assert.Equal(t, Player2, b.ToMove())
	assert.Equal(t, Player2, r.Next)
}

func TestSimulateKeepsTurn(t *testing.T) {
	b := New()
	r, err := Execute(b, 0, true)
	require.NoError(t, err)
	assert.Equal(t, Player1, b.ToMove())
	assert.Equal(t, Player1, r.Next)
}

func TestIllegalMovesLeaveBoardUnchanged(t *testing.T) {
	var pits [NumPits]int
	pits[0] = 0
	pits[1] = 3
	pits[6] = 5
	b := mustBoard(t, pits, [2]int{20, 20}, Player1)

	cases := []struct {
		pit int
		err error
	}{
		{0, ErrEmptyPit},
		{6, ErrNotYourPit},
		{11, ErrNotYourPit},
	}
	for _, tc := range cases {
		before := *b
		_, err := Execute(b, tc.pit, false)
		if err != tc.err {
			t.Errorf("Execute(%d) = %v, want %v", tc.pit, err, tc.err)
		}
		if IsLegal(b, tc.pit) {
			t.Errorf("IsLegal(%d) = true", tc.pit)
		}
		if !b.Equal(&before) {
			t.Errorf("Execute(%d) mutated board", tc.pit)
		}
	}
}

func TestSowLandingPit(t *testing.T) {
	for n := 1; n <= 47; n++ {
		for _, pit := range []int{0, 3, 5} {
			var pits [NumPits]int
			pits[pit] = n
			// Keep the opponent fed so forced feeding never applies.
			pits[11] = TotalSeeds - n
			b := mustBoard(t, pits, [2]int{}, Player1)
			r, err := Execute(b, pit, true)
			if err != nil {
				t.Fatalf("n=%d pit=%d: %v", n, pit, err)
			}
			want := (pit + (n-1)%(NumPits-1) + 1) % NumPits
			if r.Last != want {
				t.Errorf("n=%d pit=%d: last=%d want %d", n, pit, r.Last, want)
			}
			if b.Seeds(pit) != 0 {
				t.Errorf("n=%d pit=%d: origin holds %d seeds", n, pit, b.Seeds(pit))
			}
		}
	}
}

func TestSowSkipsOriginOnWrap(t *testing.T) {
	var pits [NumPits]int
	pits[1] = 12
	pits[8] = 36
	b := mustBoard(t, pits, [2]int{}, Player1)
	r, err := Execute(b, 1, false)
	require.NoError(t, err)

	assert.Equal(t, 0, b.Seeds(1))
	assert.Equal(t, 2, r.Last)
	want := [NumPits]int{1, 0, 2, 1, 1, 1, 1, 1, 37, 1, 1, 1}
	assert.Equal(t, want, b.Pits())
}

func TestCapture(t *testing.T) {
	// Player1 plays pit 5 (2 seeds): lands in 6 and 7. Pit 7 goes
	// 1->2 and pit 6 goes 2->3, both captured; pit 8 keeps the
	// opponent fed.
	var pits [NumPits]int
	pits[5] = 2
	pits[6] = 2
	pits[7] = 1
	pits[8] = 4
	pits[0] = 39
	b := mustBoard(t, pits, [2]int{}, Player1)

	r, err := Execute(b, 5, false)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 6}, r.Captures)
	assert.Equal(t, 5, r.Seeds)
	assert.False(t, r.GrandSlam)
	assert.Equal(t, 5, b.Captured(Player1))
	assert.Equal(t, 0, b.Seeds(6))
	assert.Equal(t, 0, b.Seeds(7))
	assert.Equal(t, 4, b.Seeds(8))
}

func TestCaptureStopsAtFirstNonCapturable(t *testing.T) {
	var pits [NumPits]int
	pits[4] = 4 // sows 5,6,7,8
	pits[6] = 4 // becomes 5: breaks the chain
	pits[7] = 1 // becomes 2
	pits[8] = 2 // becomes 3
	pits[0] = 37
	b := mustBoard(t, pits, [2]int{}, Player1)

	r, err := Execute(b, 4, false)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 7}, r.Captures)
	assert.Equal(t, 5, b.Captured(Player1))
	assert.Equal(t, 5, b.Seeds(6))
}

func TestCaptureSinglePitOfTwo(t *testing.T) {
	// Last seed lands on an opponent pit that now holds 2; the
	// opponent still has seeds elsewhere.
	var pits [NumPits]int
	pits[10] = 1
	pits[4] = 1
	pits[3] = 5
	pits[6] = 41
	b := mustBoard(t, pits, [2]int{}, Player2)

	r, err := Execute(b, 10, false)
	require.NoError(t, err)
	assert.Equal(t, 11, r.Last)
	assert.Empty(t, r.Captures, "landing on own side never captures")

	pits = [NumPits]int{}
	pits[11] = 1
	pits[0] = 1
	pits[3] = 5
	pits[6] = 41
	b = mustBoard(t, pits, [2]int{}, Player2)
	r, err = Execute(b, 11, false)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Last)
	assert.Equal(t, []int{0}, r.Captures)
	assert.Equal(t, 2, r.Seeds)
	assert.Equal(t, 2, b.Captured(Player2))
	assert.Equal(t, 0, b.Seeds(0))
	assert.Equal(t, 5, b.Seeds(3))
}

func TestGrandSlamCancelsCapture(t *testing.T) {
	var pits [NumPits]int
	pits[5] = 2
	pits[6] = 1
	pits[7] = 2
	pits[0] = 43
	b := mustBoard(t, pits, [2]int{}, Player1)

	r, err := Execute(b, 5, false)
	require.NoError(t, err)
	assert.True(t, r.GrandSlam)
	assert.Empty(t, r.Captures)
	assert.Zero(t, r.Seeds)
	assert.Equal(t, 0, b.Captured(Player1))
	assert.Equal(t, 2, b.Seeds(6))
	assert.Equal(t, 3, b.Seeds(7))
}

func TestForcedFeeding(t *testing.T) {
	// Opponent is empty. Pit 0 (1 seed) stays home; pit 5 (1 seed)
	// feeds; pit 3 (3 seeds) reaches pit 6.
	var pits [NumPits]int
	pits[0] = 1
	pits[3] = 3
	pits[5] = 1
	b := mustBoard(t, pits, [2]int{20, 23}, Player1)

	assert.Equal(t, []int{3, 5}, LegalMoves(b))
	assert.Equal(t, ErrMustFeed, Legal(b, 0))

	before := *b
	_, err := Execute(b, 0, false)
	assert.Equal(t, ErrMustFeed, err)
	assert.True(t, b.Equal(&before))

	for _, m := range LegalMoves(b) {
		c := b.Clone()
		_, err := Execute(c, m, true)
		require.NoError(t, err)
		assert.True(t, c.HasSeeds(Player2), "move %d must feed", m)
	}
}

func TestLegalMovesAscending(t *testing.T) {
	b := New()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, LegalMoves(b))
	b.NextTurn()
	b.SetSeeds(8, 0)
	b.SetSeeds(5, 8)
	assert.Equal(t, []int{6, 7, 9, 10, 11}, LegalMoves(b))
}

func TestWinThreshold(t *testing.T) {
	b := mustBoard(t, New().Pits(), [2]int{0, 0}, Player1)
	assert.False(t, GameOver(b))

	var pits [NumPits]int
	pits[0] = 12
	pits[7] = 11
	b = mustBoard(t, pits, [2]int{SeedsToWin, 0}, Player2)
	e := CheckEnd(b)
	assert.Equal(t, CaptureMajority, e.Reason)
	assert.Equal(t, Player1, Winner(b))
	assert.Equal(t, 23, b.SeedsOnBoard(), "majority end leaves seeds in place")

	b = mustBoard(t, pits, [2]int{0, SeedsToWin}, Player1)
	assert.True(t, GameOver(b))
	assert.Equal(t, Player2, Winner(b))
}

func TestStalemateBanksOtherSide(t *testing.T) {
	// Player1 to move with an empty side: player2's seeds are banked
	// to player2.
	var pits [NumPits]int
	pits[6] = 3
	pits[9] = 2
	b := mustBoard(t, pits, [2]int{22, 21}, Player1)

	e := CheckEnd(b)
	assert.Equal(t, NoMoves, e.Reason)
	assert.Equal(t, Player2, e.Banker)
	assert.Equal(t, 5, e.Awarded)
	assert.Equal(t, 26, b.Captured(Player2))
	assert.Equal(t, 22, b.Captured(Player1))
	assert.Equal(t, 0, b.SeedsOnBoard())
	assert.Equal(t, Player2, Winner(b))
}

func TestStalemateUnableToFeed(t *testing.T) {
	// Player2 is empty and player1 cannot reach them: nothing is
	// awarded and player1's own seeds stay on the board.
	var pits [NumPits]int
	pits[0] = 1
	pits[1] = 1
	b := mustBoard(t, pits, [2]int{23, 23}, Player1)

	e := CheckEnd(b)
	assert.Equal(t, NoMoves, e.Reason)
	assert.Equal(t, Player2, e.Banker)
	assert.Zero(t, e.Awarded)
	assert.Equal(t, 2, b.SeedsOnBoard())
	assert.Equal(t, Draw, Winner(b))
}

func TestAdjourn(t *testing.T) {
	var pits [NumPits]int
	pits[2] = 1
	pits[9] = 2
	b := mustBoard(t, pits, [2]int{20, 25}, Player1)
	e := Adjourn(b)
	assert.Equal(t, MoveLimit, e.Reason)
	assert.Equal(t, 3, e.Awarded)
	assert.Equal(t, 21, b.Captured(Player1))
	assert.Equal(t, 27, b.Captured(Player2))
	assert.Zero(t, b.SeedsOnBoard())
	assert.Equal(t, "move limit", e.Reason.String())
}

func TestConservation(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for g := 0; g < 200; g++ {
		b := New()
		for ply := 0; ply < 300; ply++ {
			if GameOver(b) {
				break
			}
			moves := LegalMoves(b)
			if _, err := Execute(b, moves[r.Intn(len(moves))], false); err != nil {
				t.Fatalf("game %d ply %d: %v", g, ply, err)
			}
			total := b.SeedsOnBoard() + b.Captured(Player1) + b.Captured(Player2)
			if total != TotalSeeds {
				t.Fatalf("game %d ply %d: %d seeds", g, ply, total)
			}
			for i := 0; i < NumPits; i++ {
				if b.Seeds(i) < 0 {
					t.Fatalf("game %d ply %d: pit %d negative", g, ply, i)
				}
			}
		}
		total := b.SeedsOnBoard() + b.Captured(Player1) + b.Captured(Player2)
		if total != TotalSeeds {
			t.Fatalf("game %d end: %d seeds", g, total)
		}
	}
}
