package opt

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/owarelab/oware/ai"
	"github.com/owarelab/oware/logs"
)

type Minimax struct {
	Debug   int
	Depth   int
	Weights string
}

func (o *Minimax) AddFlags(flags *flag.FlagSet) {
	flags.IntVar(&o.Debug, "debug", 0, "debug level")
	flags.IntVar(&o.Depth, "depth", 0, "minimax depth")
	flags.StringVar(&o.Weights, "weights", "", "JSON-encoded evaluation weights")
}

// ParseWeights returns the -weights value, or the default weights.
func (o *Minimax) ParseWeights() (ai.Weights, error) {
	w := ai.DefaultWeights
	if o.Weights != "" {
		if err := json.Unmarshal([]byte(o.Weights), &w); err != nil {
			return w, fmt.Errorf("parse weights: %w", err)
		}
	}
	return w, nil
}

func (o *Minimax) BuildConfig() (ai.MinimaxConfig, error) {
	w, err := o.ParseWeights()
	if err != nil {
		return ai.MinimaxConfig{}, err
	}
	return ai.MinimaxConfig{
		Depth:    o.Depth,
		Debug:    o.Debug,
		Evaluate: ai.MakeEvaluator(&w),
	}, nil
}

// Player is a parsed player argument such as "beginner:7" or
// "intermediate:4".
type Player struct {
	Kind string
	// Arg is the seed for beginner and rand and the depth for
	// intermediate. Zero means unset.
	Arg int64
}

func ParsePlayer(s string) (Player, error) {
	kind, arg, hasArg := strings.Cut(s, ":")
	p := Player{Kind: kind}
	switch kind {
	case "human":
		if hasArg {
			return p, fmt.Errorf("player %q takes no argument", s)
		}
		return p, nil
	case "beginner", "intermediate", "rand":
	default:
		return p, fmt.Errorf("unparseable player: %q", s)
	}
	if hasArg {
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return p, fmt.Errorf("player %q: %w", s, err)
		}
		p.Arg = n
	}
	return p, nil
}

func (p Player) String() string {
	if p.Arg == 0 {
		return p.Kind
	}
	return fmt.Sprintf("%s:%d", p.Kind, p.Arg)
}

// Build constructs the strategy for p. seed is used by the randomized
// players when p does not name a seed of its own. Human players are
// built by the caller.
func (p Player) Build(seed int64, mm *Minimax) (ai.Strategy, error) {
	if p.Arg != 0 {
		seed = p.Arg
	}
	switch p.Kind {
	case "beginner":
		return ai.NewHeuristic(ai.HeuristicConfig{Seed: seed, Debug: mm.Debug}), nil
	case "rand":
		return ai.NewRandom(seed), nil
	case "intermediate":
		cfg, err := mm.BuildConfig()
		if err != nil {
			return nil, err
		}
		if p.Arg != 0 {
			cfg.Depth = int(p.Arg)
		}
		return ai.NewMinimax(cfg), nil
	}
	return nil, fmt.Errorf("cannot build player %q", p.Kind)
}

// SeatIDs names the two seats after their player arguments, keeping
// the names distinct when both sides are the same.
func SeatIDs(p1, p2 string) (string, string) {
	if p1 == p2 {
		return p1 + "/1", p2 + "/2"
	}
	return p1, p2
}

// DB selects the game log. The defaults come from OWARE_DB_DRIVER and
// OWARE_DB.
type DB struct {
	Driver string
	DSN    string
}

func (o *DB) AddFlags(flags *flag.FlagSet) {
	driver := os.Getenv("OWARE_DB_DRIVER")
	if driver == "" {
		driver = "sqlite3"
	}
	flags.StringVar(&o.Driver, "db-driver", driver, "database driver (sqlite3 or pgx)")
	flags.StringVar(&o.DSN, "db", os.Getenv("OWARE_DB"), "game log database; empty disables logging")
}

// Open returns nil when no database is configured.
func (o *DB) Open() (*logs.Repository, error) {
	if o.DSN == "" {
		return nil, nil
	}
	return logs.Open(o.Driver, o.DSN)
}

func GameID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
