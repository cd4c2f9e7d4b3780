package logs

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/owarelab/oware/match"
	"github.com/owarelab/oware/oware"
	"github.com/owarelab/oware/rating"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

type Repository struct {
	db *sqlx.DB
}

type Game struct {
	ID        string    `db:"id" json:"id"`
	Timestamp time.Time `db:"time" json:"time"`
	Player1   string    `db:"player1" json:"player1"`
	Player2   string    `db:"player2" json:"player2"`
	Result    string    `db:"result" json:"result"`
	Reason    string    `db:"reason" json:"reason"`
	Winner    string    `db:"winner" json:"winner"`
	Moves     int       `db:"moves" json:"moves"`
	Captured1 int       `db:"captured1" json:"captured1"`
	Captured2 int       `db:"captured2" json:"captured2"`
	Record    string    `db:"record" json:"record,omitempty"`
}

type PlayerGame struct {
	ID       string `db:"id" json:"id"`
	Player   string `db:"player" json:"player"`
	Opponent string `db:"opponent" json:"opponent"`
	Seat     string `db:"seat" json:"seat"`
	Win      string `db:"win" json:"win"`
	Result   string `db:"result" json:"result"`
	Moves    int    `db:"moves" json:"moves"`
}

type Rating struct {
	Player string `db:"player" json:"player"`
	Rating int    `db:"rating" json:"rating"`
	Games  int    `db:"games" json:"games"`
}

// Open connects to a game log. driver is "sqlite3" or "pgx"; the
// schema is created if it does not exist.
func Open(driver, dsn string) (*Repository, error) {
	view, ok := createPlayerView[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver: %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	}
	for _, stmt := range []struct{ name, sql string }{
		{"game table", createGameTable},
		{"rating table", createRatingTable},
		{"player_games view", view},
	} {
		if _, err := db.Exec(stmt.sql); err != nil {
			db.Close()
			return nil, fmt.Errorf("create %s: %w", stmt.name, err)
		}
	}
	return &Repository{db: db}, nil
}

// GameFromMatch builds the log row for a finished match.
func GameFromMatch(id string, m *match.Match) (*Game, error) {
	e, over := m.Ending()
	if !over {
		return nil, errors.New("match is not finished")
	}
	b := m.Board()
	rec := m.Record()
	g := &Game{
		ID:        id,
		Timestamp: time.Now().UTC(),
		Player1:   m.Seat(oware.Player1).ID,
		Player2:   m.Seat(oware.Player2).ID,
		Reason:    e.Reason.String(),
		Moves:     len(m.Moves()),
		Captured1: b.Captured(oware.Player1),
		Captured2: b.Captured(oware.Player2),
		Record:    rec.Render(),
	}
	switch m.Winner() {
	case oware.Player1:
		g.Result = "1-0"
		g.Winner = g.Player1
	case oware.Player2:
		g.Result = "0-1"
		g.Winner = g.Player2
	default:
		g.Result = "1/2-1/2"
	}
	return g, nil
}

func (r *Repository) InsertGame(g *Game) error {
	return r.insertGame(r.db, g)
}

func (r *Repository) insertGame(ex sqlx.Ext, g *Game) error {
	_, err := sqlx.NamedExec(ex, insertGame, g)
	return err
}

func (r *Repository) InsertGames(gs []*Game) error {
	txn, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer txn.Rollback()
	for _, g := range gs {
		if e := r.insertGame(txn, g); e != nil {
			return fmt.Errorf("insert %s: %w", g.ID, e)
		}
	}
	return txn.Commit()
}

func (r *Repository) RecentGames(limit int) ([]Game, error) {
	var gs []Game
	err := r.db.Select(&gs, r.db.Rebind(selectRecentGames), limit)
	return gs, err
}

func (r *Repository) PlayerGames(player string) ([]PlayerGame, error) {
	var gs []PlayerGame
	err := r.db.Select(&gs, r.db.Rebind(selectPlayerGames), player)
	return gs, err
}

// Rating returns a player's stored rating, or a fresh default rating
// for an unknown player.
func (r *Repository) Rating(player string) (Rating, error) {
	return r.rating(r.db, player)
}

func (r *Repository) rating(q sqlx.Queryer, player string) (Rating, error) {
	var out Rating
	err := sqlx.Get(q, &out, r.db.Rebind(selectRating), player)
	if errors.Is(err, sql.ErrNoRows) {
		return Rating{Player: player, Rating: rating.Default}, nil
	}
	return out, err
}

// RecordOutcome applies the Elo update for a finished match to both
// players in one transaction.
func (r *Repository) RecordOutcome(o match.Outcome) (rating.Change, error) {
	if o.WinnerID == "" || o.LoserID == "" {
		return rating.Change{}, errors.New("both players are required")
	}
	if o.WinnerID == o.LoserID {
		return rating.Change{}, rating.ErrSamePlayer
	}
	txn, err := r.db.Beginx()
	if err != nil {
		return rating.Change{}, err
	}
	defer txn.Rollback()

	w, err := r.rating(txn, o.WinnerID)
	if err != nil {
		return rating.Change{}, fmt.Errorf("read %s: %w", o.WinnerID, err)
	}
	l, err := r.rating(txn, o.LoserID)
	if err != nil {
		return rating.Change{}, fmt.Errorf("read %s: %w", o.LoserID, err)
	}
	c := rating.Apply(w.Rating, l.Rating, o.Draw)
	w.Rating, w.Games = c.WinnerNew, w.Games+1
	l.Rating, l.Games = c.LoserNew, l.Games+1
	for _, row := range []*Rating{&w, &l} {
		if _, err := txn.NamedExec(upsertRating, row); err != nil {
			return rating.Change{}, fmt.Errorf("update %s: %w", row.Player, err)
		}
	}
	return c, txn.Commit()
}

func (r *Repository) Leaderboard(limit int) ([]Rating, error) {
	var rs []Rating
	err := r.db.Select(&rs, r.db.Rebind(selectLeaderboard), limit)
	return rs, err
}

func (r *Repository) Close() {
	r.db.Close()
}
