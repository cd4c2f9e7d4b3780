package match

import (
	"fmt"

	"github.com/owarelab/oware/oware"
)

type EventKind int

const (
	GameStarted EventKind = iota
	MoveMade
	GameEnded
)

func (k EventKind) String() string {
	switch k {
	case GameStarted:
		return "started"
	case MoveMade:
		return "move"
	case GameEnded:
		return "ended"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is returned to the caller after every change to a match. Seat
// is the seat to move for GameStarted, the mover for MoveMade and the
// winner (empty on a draw) for GameEnded.
type Event struct {
	Kind   EventKind      `json:"kind"`
	Seat   string         `json:"seat,omitempty"`
	Result *oware.Result  `json:"result,omitempty"`
	Ending *oware.Ending  `json:"ending,omitempty"`
	Winner *oware.Player  `json:"winner,omitempty"`
	Board  oware.Snapshot `json:"board"`
}
