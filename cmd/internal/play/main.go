package play

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/owarelab/oware/ai"
	"github.com/owarelab/oware/cli"
	"github.com/owarelab/oware/cmd/internal/opt"
	"github.com/owarelab/oware/logs"
	"github.com/owarelab/oware/match"
	"github.com/owarelab/oware/notation"
	"github.com/rs/zerolog/log"
)

type Command struct {
	p1       string
	p2       string
	position string
	maxMoves int
	seed     int64
	out      string

	mmopt opt.Minimax
	db    opt.DB
}

func (*Command) Name() string     { return "play" }
func (*Command) Synopsis() string { return "Play Oware from the command line" }
func (*Command) Usage() string {
	return `play [flags]

Play Oware on the command-line, against a human or AI. Players are one of
human, beginner[:seed], intermediate[:depth] or rand[:seed].
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.p1, "p1", "human", "player1")
	flags.StringVar(&c.p2, "p2", "beginner", "player2")
	flags.StringVar(&c.position, "position", "", "starting position")
	flags.IntVar(&c.maxMoves, "max-moves", 0, "adjourn the game after this many moves")
	flags.Int64Var(&c.seed, "seed", 0, "seed for randomized players")
	flags.StringVar(&c.out, "out", "", "write the game record to file")
	c.mmopt.AddFlags(flags)
	c.db.AddFlags(flags)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in := bufio.NewReader(os.Stdin)
	p1, err := c.seat(in, c.p1)
	if err != nil {
		log.Error().Err(err).Msg("-p1")
		return subcommands.ExitUsageError
	}
	p2, err := c.seat(in, c.p2)
	if err != nil {
		log.Error().Err(err).Msg("-p2")
		return subcommands.ExitUsageError
	}
	p1.ID, p2.ID = opt.SeatIDs(c.p1, c.p2)

	st := &cli.CLI{
		Out:      os.Stdout,
		Player1:  p1,
		Player2:  p2,
		MaxMoves: c.maxMoves,
	}
	if c.position != "" {
		b, err := notation.ParsePosition(c.position)
		if err != nil {
			log.Error().Err(err).Msg("-position")
			return subcommands.ExitUsageError
		}
		st.Position = b
	}

	repo, err := c.db.Open()
	if err != nil {
		log.Error().Err(err).Msg("open game log")
		return subcommands.ExitFailure
	}
	if repo != nil {
		defer repo.Close()
	}

	m, err := st.Play()
	if err != nil {
		log.Error().Err(err).Msg("play")
		return subcommands.ExitFailure
	}
	if c.out != "" {
		if err := os.WriteFile(c.out, []byte(m.Record().Render()), 0644); err != nil {
			log.Error().Err(err).Str("path", c.out).Msg("write record")
			return subcommands.ExitFailure
		}
	}
	if repo != nil && m.State() == match.Finished {
		if err := save(repo, m); err != nil {
			log.Error().Err(err).Msg("log game")
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func (c *Command) seat(in *bufio.Reader, s string) (match.Seat, error) {
	p, err := opt.ParsePlayer(s)
	if err != nil {
		return match.Seat{}, err
	}
	var strat ai.Strategy
	if p.Kind == "human" {
		strat = cli.NewCLIPlayer(os.Stdout, in)
	} else if strat, err = p.Build(c.seed, &c.mmopt); err != nil {
		return match.Seat{}, err
	}
	return match.Seat{Strategy: strat}, nil
}

func save(repo *logs.Repository, m *match.Match) error {
	g, err := logs.GameFromMatch(opt.GameID("play"), m)
	if err != nil {
		return err
	}
	if err := repo.InsertGame(g); err != nil {
		return err
	}
	o, _ := m.Outcome()
	ch, err := repo.RecordOutcome(o)
	if err != nil {
		return err
	}
	fmt.Printf("ratings: %s %d (%+d), %s %d (%+d)\n",
		o.WinnerID, ch.WinnerNew, ch.WinnerDelta(),
		o.LoserID, ch.LoserNew, ch.LoserDelta())
	return nil
}
