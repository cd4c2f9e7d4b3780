package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/owarelab/oware/ai"
	"github.com/owarelab/oware/logs"
	"github.com/owarelab/oware/match"
	"github.com/owarelab/oware/notation"
	"github.com/owarelab/oware/oware"
	"github.com/rs/zerolog"
)

type Config struct {
	// Repo stores finished games and ratings. It may be nil.
	Repo     *logs.Repository
	Logger   zerolog.Logger
	MaxMoves int
}

// Server hosts a single human-against-computer match over HTTP and
// pushes its progress to websocket clients.
type Server struct {
	cfg Config
	hub *Hub

	mu       sync.Mutex
	m        *match.Match
	id       string
	seq      int
	recorded bool
}

func NewServer(cfg Config) *Server {
	return &Server{cfg: cfg, hub: NewHub()}
}

func (s *Server) Hub() *Hub { return s.hub }

type startRequest struct {
	Player     string `json:"player"`
	Difficulty string `json:"difficulty"`
	Seed       int64  `json:"seed"`
	// Seat is 1 or 2; the computer takes the other one.
	Seat     int    `json:"seat"`
	Position string `json:"position"`
}

type moveRequest struct {
	Move string `json:"move"`
}

type StatusResponse struct {
	ID       string          `json:"id,omitempty"`
	State    string          `json:"state"`
	Player1  string          `json:"player1,omitempty"`
	Player2  string          `json:"player2,omitempty"`
	ToMove   string          `json:"to_move,omitempty"`
	Board    *oware.Snapshot `json:"board,omitempty"`
	Position string          `json:"position,omitempty"`
	Legal    []string        `json:"legal"`
	Moves    []string        `json:"moves"`
	Reason   string          `json:"reason,omitempty"`
	Winner   string          `json:"winner,omitempty"`
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, http.StatusOK, s.status())
	})
	r.Post("/api/start", s.handleStart)
	r.Post("/api/move", s.handleMove)
	r.Get("/api/ratings", s.handleRatings)
	r.Get("/api/games", s.handleGames)
	r.Get("/ws", s.serveWS)
	return r
}

// computerPrefix marks the seat IDs of computer players.
const computerPrefix = "ai:"

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Player == "" {
		writeError(w, http.StatusBadRequest, "player is required")
		return
	}
	if strings.HasPrefix(req.Player, computerPrefix) {
		writeError(w, http.StatusBadRequest, "player names starting with "+computerPrefix+" are reserved")
		return
	}
	d := ai.Beginner
	if req.Difficulty != "" {
		var err error
		if d, err = ai.ParseDifficulty(req.Difficulty); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	cfg := match.Config{MaxMoves: s.cfg.MaxMoves, Logger: &s.cfg.Logger}
	if req.Position != "" {
		b, err := notation.ParsePosition(req.Position)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cfg.Position = b
	}
	human := match.Seat{ID: req.Player}
	computer := match.Seat{ID: computerPrefix + d.String(), Strategy: ai.New(d, req.Seed)}
	switch req.Seat {
	case 0, 1:
		cfg.Player1, cfg.Player2 = human, computer
	case 2:
		cfg.Player1, cfg.Player2 = computer, human
	default:
		writeError(w, http.StatusBadRequest, "seat must be 1 or 2")
		return
	}
	m, err := match.New(cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.m = m
	s.id = fmt.Sprintf("web-%s-%d", time.Now().UTC().Format("20060102T150405"), s.seq)
	s.recorded = false
	evs := []match.Event{m.Start()}
	more, err := m.Run()
	evs = append(evs, more...)
	s.publish(evs)
	if err != nil {
		s.cfg.Logger.Error().Err(err).Str("game", s.id).Msg("computer move failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.cfg.Logger.Info().
		Str("game", s.id).
		Str("player1", cfg.Player1.ID).
		Str("player2", cfg.Player2.ID).
		Msg("game started")
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	pit, err := notation.ParseMove(req.Move)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		writeError(w, http.StatusConflict, "no game in progress")
		return
	}
	evs, err := s.m.Play(pit)
	switch {
	case errors.Is(err, match.ErrNotActive), errors.Is(err, match.ErrNotYourTurn):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	more, err := s.m.Run()
	evs = append(evs, more...)
	s.publish(evs)
	if err != nil {
		s.cfg.Logger.Error().Err(err).Str("game", s.id).Msg("computer move failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Repo == nil {
		writeJSON(w, http.StatusOK, []logs.Rating{})
		return
	}
	if player := r.URL.Query().Get("player"); player != "" {
		rt, err := s.cfg.Repo.Rating(player)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, rt)
		return
	}
	rs, err := s.cfg.Repo.Leaderboard(queryLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rs == nil {
		rs = []logs.Rating{}
	}
	writeJSON(w, http.StatusOK, rs)
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Repo == nil {
		writeJSON(w, http.StatusOK, []logs.Game{})
		return
	}
	if player := r.URL.Query().Get("player"); player != "" {
		gs, err := s.cfg.Repo.PlayerGames(player)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if gs == nil {
			gs = []logs.PlayerGame{}
		}
		writeJSON(w, http.StatusOK, gs)
		return
	}
	gs, err := s.cfg.Repo.RecentGames(queryLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if gs == nil {
		gs = []logs.Game{}
	}
	writeJSON(w, http.StatusOK, gs)
}

func queryLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}

// publish broadcasts events and stores the game once it has ended.
// s.mu must be held.
func (s *Server) publish(evs []match.Event) {
	for _, ev := range evs {
		s.hub.Broadcast("event", ev)
		if ev.Kind == match.GameEnded {
			s.record()
		}
	}
	s.hub.Broadcast("status", s.status())
}

func (s *Server) record() {
	if s.recorded || s.cfg.Repo == nil {
		return
	}
	s.recorded = true
	log := s.cfg.Logger.With().Str("game", s.id).Logger()
	g, err := logs.GameFromMatch(s.id, s.m)
	if err != nil {
		log.Error().Err(err).Msg("build game log")
		return
	}
	if err := s.cfg.Repo.InsertGame(g); err != nil {
		log.Error().Err(err).Msg("insert game")
		return
	}
	o, _ := s.m.Outcome()
	c, err := s.cfg.Repo.RecordOutcome(o)
	if err != nil {
		log.Error().Err(err).Msg("update ratings")
		return
	}
	log.Info().
		Str("result", g.Result).
		Str("reason", g.Reason).
		Int("winner_delta", c.WinnerDelta()).
		Int("loser_delta", c.LoserDelta()).
		Msg("game recorded")
}

// status describes the current match. s.mu must be held.
func (s *Server) status() StatusResponse {
	if s.m == nil {
		return StatusResponse{State: match.Pending.String(), Legal: []string{}, Moves: []string{}}
	}
	b := s.m.Board()
	snap := b.Snapshot()
	st := StatusResponse{
		ID:       s.id,
		State:    s.m.State().String(),
		Player1:  s.m.Seat(oware.Player1).ID,
		Player2:  s.m.Seat(oware.Player2).ID,
		Board:    &snap,
		Position: notation.FormatPosition(b),
		Legal:    []string{},
		Moves:    []string{},
	}
	for _, pit := range s.m.Moves() {
		st.Moves = append(st.Moves, notation.FormatMove(pit))
	}
	if e, over := s.m.Ending(); over {
		st.Reason = e.Reason.String()
		if w := s.m.Winner(); w != oware.Draw {
			st.Winner = s.m.Seat(w).ID
		}
		return st
	}
	st.ToMove = s.m.ToMove().ID
	for _, pit := range oware.LegalMoves(b) {
		st.Legal = append(st.Legal, notation.FormatMove(pit))
	}
	return st
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: s.hub, send: make(chan []byte, 16)}
	s.hub.Register(client)

	s.mu.Lock()
	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(s.status())})
	s.mu.Unlock()

	go func() {
		defer conn.Close()
		if err := writeWithHeartbeat(conn, client.send); err != nil {
			s.cfg.Logger.Debug().Err(err).Msg("websocket write")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			s.mu.Lock()
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(s.status())})
			s.mu.Unlock()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
