package oware

import "errors"

var (
	ErrNotYourPit = errors.New("pit does not belong to the player to move")
	ErrEmptyPit   = errors.New("pit is empty")
	ErrMustFeed   = errors.New("move does not give the opponent any seeds")
)

// Result describes the effect of one executed move.
type Result struct {
	Pit    int    `json:"pit"`
	Player Player `json:"player"`
	Sown   int    `json:"sown"`
	Last   int    `json:"last"`

	// Captures lists the captured pits in scan order, starting at Last.
	Captures []int `json:"captures,omitempty"`
	Seeds    int   `json:"seeds"`

	// GrandSlam is set when a capture was cancelled because it would
	// have emptied the opponent's side.
	GrandSlam bool `json:"grand_slam,omitempty"`

	Next Player `json:"next"`
}

// Legal reports why a move at pit is illegal, or nil if it is legal.
func Legal(b *Board, pit int) error {
	if !b.OwnedByMover(pit) {
		return ErrNotYourPit
	}
	if b.pits[pit] == 0 {
		return ErrEmptyPit
	}
	opp := b.toMove.Opponent()
	if !b.HasSeeds(opp) {
		tmp := b.Clone()
		sow(tmp, pit)
		if !tmp.HasSeeds(opp) {
			return ErrMustFeed
		}
	}
	return nil
}

func IsLegal(b *Board, pit int) bool {
	return Legal(b, pit) == nil
}

// LegalMoves returns the legal pits for the player to move in
// ascending order.
func LegalMoves(b *Board) []int {
	start, end := PitRange(b.toMove)
	moves := make([]int, 0, PitsPerPlayer)
	for i := start; i <= end; i++ {
		if IsLegal(b, i) {
			moves = append(moves, i)
		}
	}
	return moves
}

// Execute plays pit for the side to move. An illegal move returns an
// error and leaves b untouched. In simulate mode the turn does not
// pass to the opponent.
func Execute(b *Board, pit int, simulate bool) (Result, error) {
	if err := Legal(b, pit); err != nil {
		return Result{}, err
	}
	r := sow(b, pit)
	if !simulate {
		b.NextTurn()
	}
	r.Next = b.toMove
	return r, nil
}

// sow performs the pick-up, distribution and capture for pit without
// any legality check or turn change.
func sow(b *Board, pit int) Result {
	r := Result{Pit: pit, Player: b.toMove}
	n := b.pits[pit]
	b.pits[pit] = 0
	r.Sown = n

	i := pit
	for n > 0 {
		i = (i + 1) % NumPits
		if i == pit {
			continue
		}
		b.pits[i]++
		n--
	}
	r.Last = i

	if b.OwnedByOpponent(i) {
		capture(b, &r)
	}
	return r
}

func capture(b *Board, r *Result) {
	var marked []int
	for i := r.Last; b.OwnedByOpponent(i); i = (i - 1 + NumPits) % NumPits {
		if s := b.pits[i]; s != 2 && s != 3 {
			break
		}
		marked = append(marked, i)
	}
	if len(marked) == 0 {
		return
	}

	left := b.SideSeeds(b.toMove.Opponent())
	for _, i := range marked {
		left -= b.pits[i]
	}
	if left == 0 {
		r.GrandSlam = true
		return
	}

	for _, i := range marked {
		r.Seeds += b.pits[i]
		b.captured[b.toMove] += b.pits[i]
		b.pits[i] = 0
	}
	r.Captures = marked
}

type EndReason int

const (
	NotOver EndReason = iota
	// CaptureMajority: one side holds at least SeedsToWin seeds.
	CaptureMajority
	// NoMoves: the side to move has no legal move.
	NoMoves
	// MoveLimit: the game was stopped from outside, see Adjourn.
	MoveLimit
)

func (r EndReason) String() string {
	switch r {
	case NotOver:
		return "not over"
	case CaptureMajority:
		return "majority"
	case NoMoves:
		return "no moves"
	case MoveLimit:
		return "move limit"
	}
	return "unknown"
}

// Ending describes how a game ended. For NoMoves, Banker is the side
// whose leftover seeds were moved into its own captured total.
type Ending struct {
	Reason  EndReason `json:"reason"`
	Banker  Player    `json:"banker"`
	Awarded int       `json:"awarded"`
}

// CheckEnd detects the end of the game. When the side to move has no
// legal move, the seeds on the other side are banked to that side's
// owner and removed from the board; the game is then over.
func CheckEnd(b *Board) Ending {
	if b.captured[Player1] >= SeedsToWin || b.captured[Player2] >= SeedsToWin {
		return Ending{Reason: CaptureMajority}
	}
	if len(LegalMoves(b)) > 0 {
		return Ending{Reason: NotOver}
	}
	other := b.toMove.Opponent()
	e := Ending{Reason: NoMoves, Banker: other}
	start, end := PitRange(other)
	for i := start; i <= end; i++ {
		e.Awarded += b.pits[i]
		b.pits[i] = 0
	}
	b.captured[other] += e.Awarded
	return e
}

func GameOver(b *Board) bool {
	return CheckEnd(b).Reason != NotOver
}

// Winner returns the side with strictly more captured seeds, or Draw.
func Winner(b *Board) Player {
	switch {
	case b.captured[Player1] > b.captured[Player2]:
		return Player1
	case b.captured[Player2] > b.captured[Player1]:
		return Player2
	default:
		return Draw
	}
}

// Adjourn ends a game that is not going to finish by itself, such as
// one cycling with a few seeds left. Each side keeps the seeds on its
// own pits.
func Adjourn(b *Board) Ending {
	e := Ending{Reason: MoveLimit, Banker: Draw}
	for i := 0; i < NumPits; i++ {
		p := Owner(i)
		b.captured[p] += b.pits[i]
		e.Awarded += b.pits[i]
		b.pits[i] = 0
	}
	return e
}
