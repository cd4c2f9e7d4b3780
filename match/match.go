package match

import (
	"errors"
	"fmt"
	"time"

	"github.com/owarelab/oware/ai"
	"github.com/owarelab/oware/notation"
	"github.com/owarelab/oware/oware"
	"github.com/rs/zerolog"
)

var (
	ErrNotActive     = errors.New("match is not active")
	ErrNotYourTurn   = errors.New("the seat to move is played by a strategy")
	ErrAwaitingInput = errors.New("the seat to move is waiting for input")
	ErrGameOver      = errors.New("position is already decided")
	ErrMissingID     = errors.New("both seats need an id")
)

// Seat is one side of a match. A nil Strategy means moves for the seat
// are supplied by the caller through Play.
type Seat struct {
	ID       string
	Strategy ai.Strategy
}

type Config struct {
	Player1 Seat
	Player2 Seat

	// Position is the starting board; nil means the standard start.
	Position *oware.Board
	Logger   *zerolog.Logger

	// MaxMoves adjourns the game after that many moves. Zero means no
	// limit.
	MaxMoves int
}

type State int

const (
	Pending State = iota
	Active
	Finished
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Active:
		return "active"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Outcome is the result of a finished match. On a draw WinnerID and
// LoserID hold player1 and player2.
type Outcome struct {
	WinnerID string `json:"winner_id" db:"winner"`
	LoserID  string `json:"loser_id" db:"loser"`
	Draw     bool   `json:"draw" db:"draw"`
}

// Match owns the board for one game and drives turns between its two
// seats.
type Match struct {
	seats [2]Seat
	start *oware.Board
	board *oware.Board
	moves []int
	state State

	maxMoves int
	started  time.Time
	ending   oware.Ending
	winner   oware.Player

	log zerolog.Logger
}

func New(cfg Config) (*Match, error) {
	if cfg.Player1.ID == "" || cfg.Player2.ID == "" {
		return nil, ErrMissingID
	}
	m := &Match{
		seats:    [2]Seat{cfg.Player1, cfg.Player2},
		maxMoves: cfg.MaxMoves,
		winner:   oware.Draw,
		log:      zerolog.Nop(),
	}
	if cfg.Logger != nil {
		m.log = *cfg.Logger
	}
	if cfg.Position != nil {
		b := cfg.Position.Clone()
		if b.Captured(oware.Player1) >= oware.SeedsToWin ||
			b.Captured(oware.Player2) >= oware.SeedsToWin ||
			len(oware.LegalMoves(b)) == 0 {
			return nil, ErrGameOver
		}
		m.start = b
	} else {
		m.start = oware.New()
	}
	m.board = m.start.Clone()
	return m, nil
}

// Start activates the match. Calling it again restarts from the
// starting position.
func (m *Match) Start() Event {
	m.board = m.start.Clone()
	m.moves = nil
	m.state = Active
	m.started = time.Now()
	m.ending = oware.Ending{}
	m.winner = oware.Draw
	m.log.Debug().
		Str("player1", m.seats[0].ID).
		Str("player2", m.seats[1].ID).
		Msg("match started")
	return Event{
		Kind:  GameStarted,
		Seat:  m.seats[m.board.ToMove()].ID,
		Board: m.board.Snapshot(),
	}
}

// Play makes a move for a caller-driven seat. A rule violation is
// returned unchanged and leaves the board as it was.
func (m *Match) Play(pit int) ([]Event, error) {
	if m.state != Active {
		return nil, ErrNotActive
	}
	if m.seats[m.board.ToMove()].Strategy != nil {
		return nil, ErrNotYourTurn
	}
	if pit < 0 || pit >= oware.NumPits {
		return nil, oware.ErrNotYourPit
	}
	return m.move(pit)
}

// Step asks the strategy of the seat to move for a move and plays it.
// A strategy with no move ends the game.
func (m *Match) Step() ([]Event, error) {
	if m.state != Active {
		return nil, ErrNotActive
	}
	seat := m.seats[m.board.ToMove()]
	if seat.Strategy == nil {
		return nil, ErrAwaitingInput
	}
	pit := seat.Strategy.ChooseMove(m.board.Clone())
	if pit == ai.NoMove {
		e := oware.CheckEnd(m.board)
		if e.Reason == oware.NotOver {
			return nil, fmt.Errorf("%s: no move with legal moves available", seat.Strategy.Name())
		}
		return []Event{m.finish(e)}, nil
	}
	evs, err := m.move(pit)
	if err != nil {
		return nil, fmt.Errorf("%s: pit %d: %w", seat.Strategy.Name(), pit, err)
	}
	return evs, nil
}

// Run steps strategy seats until the game ends or a caller-driven
// seat is to move.
func (m *Match) Run() ([]Event, error) {
	var out []Event
	for m.state == Active && m.seats[m.board.ToMove()].Strategy != nil {
		evs, err := m.Step()
		out = append(out, evs...)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func (m *Match) move(pit int) ([]Event, error) {
	seat := m.seats[m.board.ToMove()]
	r, err := oware.Execute(m.board, pit, false)
	if err != nil {
		return nil, err
	}
	m.moves = append(m.moves, pit)
	m.log.Debug().
		Str("seat", seat.ID).
		Str("move", notation.FormatMove(pit)).
		Int("captured", r.Seeds).
		Msg("move")
	evs := []Event{{
		Kind:   MoveMade,
		Seat:   seat.ID,
		Result: &r,
		Board:  m.board.Snapshot(),
	}}
	if e := oware.CheckEnd(m.board); e.Reason != oware.NotOver {
		evs = append(evs, m.finish(e))
	} else if m.maxMoves > 0 && len(m.moves) >= m.maxMoves {
		evs = append(evs, m.finish(oware.Adjourn(m.board)))
	}
	return evs, nil
}

func (m *Match) finish(e oware.Ending) Event {
	m.state = Finished
	m.ending = e
	m.winner = oware.Winner(m.board)
	w := m.winner
	m.log.Debug().
		Stringer("reason", e.Reason).
		Stringer("winner", m.winner).
		Int("player1", m.board.Captured(oware.Player1)).
		Int("player2", m.board.Captured(oware.Player2)).
		Msg("match ended")
	ev := Event{
		Kind:   GameEnded,
		Ending: &e,
		Winner: &w,
		Board:  m.board.Snapshot(),
	}
	if m.winner != oware.Draw {
		ev.Seat = m.seats[m.winner].ID
	}
	return ev
}

func (m *Match) State() State { return m.state }

// Board returns a copy of the current board.
func (m *Match) Board() *oware.Board { return m.board.Clone() }

func (m *Match) Seat(p oware.Player) Seat { return m.seats[p] }

// ToMove returns the seat whose turn it is.
func (m *Match) ToMove() Seat { return m.seats[m.board.ToMove()] }

func (m *Match) Moves() []int {
	return append([]int(nil), m.moves...)
}

func (m *Match) Ending() (oware.Ending, bool) {
	return m.ending, m.state == Finished
}

func (m *Match) Winner() oware.Player { return m.winner }

func (m *Match) Outcome() (Outcome, bool) {
	if m.state != Finished {
		return Outcome{}, false
	}
	if m.winner == oware.Draw {
		return Outcome{WinnerID: m.seats[0].ID, LoserID: m.seats[1].ID, Draw: true}, true
	}
	return Outcome{
		WinnerID: m.seats[m.winner].ID,
		LoserID:  m.seats[m.winner.Opponent()].ID,
	}, true
}

// Record returns the game so far in record notation.
func (m *Match) Record() *notation.Record {
	var w *oware.Player
	if m.state == Finished {
		w = &m.winner
	}
	r := notation.NewRecord(m.start, m.moves, w)
	tags := []notation.Tag{
		{Name: "Player1", Value: m.seats[0].ID},
		{Name: "Player2", Value: m.seats[1].ID},
	}
	if !m.started.IsZero() {
		tags = append(tags, notation.Tag{Name: "Date", Value: m.started.Format("2006.01.02")})
	}
	if m.state == Finished {
		tags = append(tags, notation.Tag{Name: "Score", Value: fmt.Sprintf("%d-%d",
			m.board.Captured(oware.Player1), m.board.Captured(oware.Player2))})
	}
	r.Tags = append(tags, r.Tags...)
	return r
}
