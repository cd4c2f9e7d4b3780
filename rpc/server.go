package rpc

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/owarelab/oware/ai"
	"github.com/owarelab/oware/notation"
	"github.com/owarelab/oware/oware"
	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MaxDepth bounds the search depth a client may ask for. The search is
// full width, so each extra ply multiplies its cost by up to six.
const MaxDepth = 8

// Server answers engine RPCs. It is safe for concurrent use.
type Server struct {
	beginner struct {
		sync.Mutex
		*ai.HeuristicAI
	}
	log zerolog.Logger
}

func NewServer(log zerolog.Logger, seed int64) *Server {
	s := &Server{log: log}
	s.beginner.HeuristicAI = ai.NewHeuristic(ai.HeuristicConfig{Seed: seed})
	return s
}

func parsePosition(pos string) (*oware.Board, error) {
	if pos == "" {
		return oware.New(), nil
	}
	b, err := notation.ParsePosition(pos)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "position: %v", err)
	}
	return b, nil
}

func (s *Server) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	b, err := parsePosition(req.Position)
	if err != nil {
		return nil, err
	}
	d := ai.Intermediate
	if req.Difficulty != "" {
		if d, err = ai.ParseDifficulty(req.Difficulty); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
	}
	if req.Depth < 0 || req.Depth > MaxDepth {
		return nil, status.Errorf(codes.InvalidArgument, "depth %d not in 0-%d", req.Depth, MaxDepth)
	}

	var resp AnalyzeResponse
	for _, m := range oware.LegalMoves(b) {
		resp.Legal = append(resp.Legal, int32(m))
	}

	switch d {
	case ai.Beginner:
		s.beginner.Lock()
		m := s.beginner.ChooseMove(b)
		s.beginner.Unlock()
		resp.Move = int32(m)
		if m != ai.NoMove {
			resp.Pv = []string{notation.FormatMove(m)}
			resp.Value = int64(ai.ScoreMove(b, m))
		}
	default:
		player := ai.NewMinimax(ai.MinimaxConfig{Depth: int(req.Depth), Debug: 1})
		pv, value, st, err := player.AnalyzeContext(ctx, b)
		if err != nil {
			return nil, status.FromContextError(err).Err()
		}
		resp.Move = ai.NoMove
		if len(pv) > 0 {
			resp.Move = int32(pv[0])
		}
		for _, m := range pv {
			resp.Pv = append(resp.Pv, notation.FormatMove(m))
		}
		resp.Value = value
		resp.Evaluated = st.Evaluated
	}
	s.log.Info().
		Str("position", notation.FormatPosition(b)).
		Stringer("difficulty", d).
		Int32("move", resp.Move).
		Int64("value", resp.Value).
		Msg("analyze")
	return &resp, nil
}

func (s *Server) Play(ctx context.Context, req *PlayRequest) (*PlayResponse, error) {
	b, err := parsePosition(req.Position)
	if err != nil {
		return nil, err
	}
	if oware.GameOver(b.Clone()) {
		return nil, status.Error(codes.FailedPrecondition, "game is already over")
	}
	if req.Pit < 0 || req.Pit >= oware.NumPits {
		return nil, status.Errorf(codes.InvalidArgument, "pit %d out of range", req.Pit)
	}
	r, err := oware.Execute(b, int(req.Pit), false)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp := PlayResponse{
		Captured:  int32(r.Seeds),
		GrandSlam: r.GrandSlam,
	}
	if e := oware.CheckEnd(b); e.Reason != oware.NotOver {
		resp.GameOver = true
		resp.Winner = int32(oware.Winner(b))
		resp.Reason = e.Reason.String()
	}
	resp.Position = notation.FormatPosition(b)
	return &resp, nil
}

// Serve runs the engine on lis, accepting at most maxConns concurrent
// connections when maxConns is positive. It stops when ctx is done.
func Serve(ctx context.Context, lis net.Listener, srv EngineServer, maxConns int) error {
	if maxConns > 0 {
		lis = netutil.LimitListener(lis, maxConns)
	}
	g := grpc.NewServer(ServerOption())
	RegisterEngineServer(g, srv)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			g.GracefulStop()
		case <-done:
		}
	}()
	err := g.Serve(lis)
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}
