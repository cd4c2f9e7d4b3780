package selfplay

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/owarelab/oware/cmd/internal/opt"
	"github.com/owarelab/oware/logs"
	"github.com/owarelab/oware/notation"
	"github.com/owarelab/oware/oware"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Command struct {
	p1   string
	p2   string
	seed int64

	games  int
	cutoff int
	swap   bool

	position string
	openings string

	threads int

	out     string
	summary string
	verbose bool

	mmopt opt.Minimax
	db    opt.DB
}

func (*Command) Name() string     { return "selfplay" }
func (*Command) Synopsis() string { return "Play two AIs against each other and report results" }
func (*Command) Usage() string {
	return `selfplay [flags]
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.p1, "p1", "intermediate", "player1")
	flags.StringVar(&c.p2, "p2", "beginner", "player2")

	flags.Int64Var(&c.seed, "seed", 0, "starting random seed")
	flags.IntVar(&c.games, "games", 10, "number of games to play per opening/seat")
	flags.IntVar(&c.cutoff, "cutoff", 300, "adjourn games after how many moves")
	flags.BoolVar(&c.swap, "swap", true, "swap seats each game")
	flags.StringVar(&c.position, "position", "", "position to start games from")
	flags.StringVar(&c.openings, "openings", "", "file of openings, one position per line")
	flags.IntVar(&c.threads, "threads", runtime.NumCPU(), "number of parallel games")
	flags.StringVar(&c.out, "out", "", "directory to write game records to")
	flags.StringVar(&c.summary, "summary", "", "write summary JSON file")
	flags.BoolVar(&c.verbose, "v", false, "log every game")
	c.mmopt.AddFlags(flags)
	c.db.AddFlags(flags)
}

func readOpenings(path string) ([]*oware.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []*oware.Board
	r := bufio.NewScanner(f)
	for r.Scan() {
		line := r.Text()
		if line == "" {
			continue
		}
		pos, err := notation.ParsePosition(line)
		if err != nil {
			return nil, fmt.Errorf("parse position: %q: %w", line, err)
		}
		out = append(out, pos)
	}
	return out, r.Err()
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.seed == 0 {
		c.seed = time.Now().Unix()
	}
	p1, err := opt.ParsePlayer(c.p1)
	if err == nil && p1.Kind == "human" {
		err = fmt.Errorf("selfplay needs two AIs")
	}
	if err != nil {
		log.Error().Err(err).Msg("-p1")
		return subcommands.ExitUsageError
	}
	p2, err := opt.ParsePlayer(c.p2)
	if err == nil && p2.Kind == "human" {
		err = fmt.Errorf("selfplay needs two AIs")
	}
	if err != nil {
		log.Error().Err(err).Msg("-p2")
		return subcommands.ExitUsageError
	}

	var openings []*oware.Board
	if c.position != "" {
		b, err := notation.ParsePosition(c.position)
		if err != nil {
			log.Error().Err(err).Msg("-position")
			return subcommands.ExitUsageError
		}
		openings = []*oware.Board{b}
	}
	if c.openings != "" {
		if openings, err = readOpenings(c.openings); err != nil {
			log.Error().Err(err).Msg("-openings")
			return subcommands.ExitUsageError
		}
	}
	if len(openings) == 0 {
		openings = []*oware.Board{oware.New()}
	}

	repo, err := c.db.Open()
	if err != nil {
		log.Error().Err(err).Msg("open game log")
		return subcommands.ExitFailure
	}
	if repo != nil {
		defer repo.Close()
	}

	cfg := &Config{
		Games:   c.games,
		Verbose: c.verbose,
		Initial: openings,
		P1:      p1,
		P2:      p2,
		Minimax: &c.mmopt,
		Swap:    c.swap,
		Threads: c.threads,
		Seed:    c.seed,
		Cutoff:  c.cutoff,
	}
	start := time.Now()
	st, err := Simulate(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("selfplay")
		return subcommands.ExitFailure
	}

	if c.out != "" {
		if c.summary == "" {
			c.summary = path.Join(c.out, "summary.json")
		}
		for _, r := range st.Games {
			if err := writeGame(c.out, &r); err != nil {
				log.Error().Err(err).Msg("write record")
			}
		}
	}
	if c.summary != "" {
		if err := c.writeSummary(c.summary, &st); err != nil {
			log.Error().Err(err).Msg("writing summary")
		}
	}
	if repo != nil {
		if err := logGames(repo, st.Games); err != nil {
			log.Error().Err(err).Msg("log games")
			return subcommands.ExitFailure
		}
	}

	log.Info().
		Int("games", st.Count()).
		Int64("seed", c.seed).
		Int("ties", st.Ties).
		Int("cutoff", st.Cutoff).
		Dur("elapsed", time.Since(start)).
		Msg("done")
	id1, id2 := cfg.IDs()
	printSummary(os.Stdout, id1, id2, &st)
	return subcommands.ExitSuccess
}

func printSummary(w io.Writer, id1, id2 string, st *Stats) {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	p.Fprintf(tw, "\tplayer1\tplayer2\tsum\tmajority\tbanked\tadjudicated\n")
	for i, id := range []string{id1, id2} {
		ps := st.Players[i]
		p.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			id, ps.AsPlayer1, ps.AsPlayer2, ps.Wins, ps.Majority, ps.Banked, ps.Adjudicated)
	}
	p.Fprintf(tw, "sum\t%d\t%d\t%d\t\t\t\n", st.Player1, st.Player2, st.Player1+st.Player2)
	tw.Flush()

	a, b := int64(st.Players[0].Wins), int64(st.Players[1].Wins)
	if a < b {
		a, b = b, a
	}
	p.Fprintf(w, "games=%d ties=%d adjourned=%d p[one-sided]=%.4f\n",
		st.Count(), st.Ties, st.Cutoff, binomTest(a, b, 0.5))
}

func writeGame(d string, r *Result) error {
	if err := os.MkdirAll(d, 0755); err != nil {
		return err
	}
	rec := r.Match.Record()
	rec.SetTag("Round", fmt.Sprintf("%d.%d", r.spec.oi, r.spec.i))
	p := path.Join(d, fmt.Sprintf("%d-%d.txt", r.spec.oi, r.spec.i))
	return os.WriteFile(p, []byte(rec.Render()), 0644)
}

func logGames(repo *logs.Repository, rs []Result) error {
	var gs []*logs.Game
	for _, r := range rs {
		g, err := logs.GameFromMatch(opt.GameID(fmt.Sprintf("selfplay-%d-%d", r.spec.oi, r.spec.i)), r.Match)
		if err != nil {
			return err
		}
		gs = append(gs, g)
	}
	if err := repo.InsertGames(gs); err != nil {
		return err
	}
	for _, r := range rs {
		o, _ := r.Match.Outcome()
		if _, err := repo.RecordOutcome(o); err != nil {
			return err
		}
	}
	return nil
}

type Summary struct {
	Cmdline []string
	Player1 string
	Player2 string
	Seed    int64
	Stats   *Stats
}

func (c *Command) writeSummary(path string, stats *Stats) error {
	bs, err := json.MarshalIndent(&Summary{
		Cmdline: os.Args,
		Player1: c.p1,
		Player2: c.p2,
		Seed:    c.seed,
		Stats:   stats,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bs, 0644)
}
