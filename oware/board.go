package oware

import (
	"errors"
	"fmt"
)

const (
	PitsPerPlayer = 6
	NumPits       = 2 * PitsPerPlayer
	StartingSeeds = 4
	TotalSeeds    = NumPits * StartingSeeds
	SeedsToWin    = TotalSeeds/2 + 1
)

// Player identifies a side of the board. Player 0 owns pits 0-5 and
// player 1 owns pits 6-11.
type Player int8

const (
	Player1 Player = 0
	Player2 Player = 1

	// Draw is only ever returned as a winner.
	Draw Player = -1
)

func (p Player) Opponent() Player {
	return 1 - p
}

func (p Player) String() string {
	switch p {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	case Draw:
		return "draw"
	}
	return fmt.Sprintf("Player(%d)", int8(p))
}

// PitIndexError is the panic value for a pit index outside 0-11.
type PitIndexError int

func (e PitIndexError) Error() string {
	return fmt.Sprintf("oware: pit index %d out of range", int(e))
}

func checkPit(i int) {
	if i < 0 || i >= NumPits {
		panic(PitIndexError(i))
	}
}

// Board is a complete game state. The zero value is not a legal
// position; use New or FromPits.
//
// Board has value semantics: copying the struct (or calling Clone)
// yields a fully independent position.
type Board struct {
	pits     [NumPits]int
	captured [2]int
	toMove   Player
}

// Snapshot is a read-only view of a board for presentation layers.
type Snapshot struct {
	Pits     [NumPits]int `json:"pits"`
	Captured [2]int       `json:"captured"`
	ToMove   Player       `json:"to_move"`
}

func New() *Board {
	b := &Board{toMove: Player1}
	for i := range b.pits {
		b.pits[i] = StartingSeeds
	}
	return b
}

var (
	ErrNegativeSeeds = errors.New("negative seed count")
	ErrBadPlayer     = errors.New("side to move must be 0 or 1")
	ErrSeedTotal     = errors.New("seed total is not 48")
)

// FromPits builds an arbitrary position, checking seed conservation.
func FromPits(pits [NumPits]int, captured [2]int, toMove Player) (*Board, error) {
	if toMove != Player1 && toMove != Player2 {
		return nil, ErrBadPlayer
	}
	total := captured[0] + captured[1]
	if captured[0] < 0 || captured[1] < 0 {
		return nil, ErrNegativeSeeds
	}
	for i, n := range pits {
		if n < 0 {
			return nil, fmt.Errorf("pit %d: %w", i, ErrNegativeSeeds)
		}
		total += n
	}
	if total != TotalSeeds {
		return nil, fmt.Errorf("%w: got %d", ErrSeedTotal, total)
	}
	return &Board{pits: pits, captured: captured, toMove: toMove}, nil
}

func (b *Board) Seeds(i int) int {
	checkPit(i)
	return b.pits[i]
}

func (b *Board) SetSeeds(i, n int) {
	checkPit(i)
	b.pits[i] = n
}

func (b *Board) Pits() [NumPits]int {
	return b.pits
}

func (b *Board) Captured(p Player) int {
	return b.captured[p]
}

func (b *Board) AddCaptured(p Player, n int) {
	b.captured[p] += n
}

func (b *Board) ToMove() Player {
	return b.toMove
}

func (b *Board) NextTurn() {
	b.toMove = b.toMove.Opponent()
}

// PitRange returns the inclusive range of pits owned by p.
func PitRange(p Player) (start, end int) {
	if p == Player1 {
		return 0, PitsPerPlayer - 1
	}
	return PitsPerPlayer, NumPits - 1
}

func (b *Board) PitRange(p Player) (start, end int) {
	return PitRange(p)
}

// Owner returns the side owning pit i.
func Owner(i int) Player {
	checkPit(i)
	if i < PitsPerPlayer {
		return Player1
	}
	return Player2
}

func (b *Board) OwnedByMover(i int) bool {
	return Owner(i) == b.toMove
}

func (b *Board) OwnedByOpponent(i int) bool {
	return Owner(i) != b.toMove
}

func (b *Board) HasSeeds(p Player) bool {
	start, end := PitRange(p)
	for i := start; i <= end; i++ {
		if b.pits[i] > 0 {
			return true
		}
	}
	return false
}

func (b *Board) SideSeeds(p Player) int {
	start, end := PitRange(p)
	n := 0
	for i := start; i <= end; i++ {
		n += b.pits[i]
	}
	return n
}

func (b *Board) SeedsOnBoard() int {
	n := 0
	for _, s := range b.pits {
		n += s
	}
	return n
}

func (b *Board) Clone() *Board {
	c := *b
	return &c
}

func (b *Board) Snapshot() Snapshot {
	return Snapshot{Pits: b.pits, Captured: b.captured, ToMove: b.toMove}
}

func (b *Board) Equal(o *Board) bool {
	return *b == *o
}
