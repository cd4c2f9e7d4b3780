package ratings

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/owarelab/oware/cmd/internal/opt"
	"github.com/owarelab/oware/logs"
	"github.com/rs/zerolog/log"
)

type Command struct {
	limit  int
	player string
	db     opt.DB
}

func (*Command) Name() string     { return "ratings" }
func (*Command) Synopsis() string { return "Print the rating leaderboard" }
func (*Command) Usage() string {
	return `ratings [flags]

Print the leaderboard, or with -player one player's rating and games.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.IntVar(&c.limit, "limit", 20, "number of players to list")
	flags.StringVar(&c.player, "player", "", "show a single player")
	c.db.AddFlags(flags)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	repo, err := c.db.Open()
	if err != nil {
		log.Error().Err(err).Msg("open game log")
		return subcommands.ExitFailure
	}
	if repo == nil {
		log.Error().Msg("no database: set -db or OWARE_DB")
		return subcommands.ExitUsageError
	}
	defer repo.Close()
	if err := c.print(os.Stdout, repo); err != nil {
		log.Error().Err(err).Msg("ratings")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *Command) print(out io.Writer, repo *logs.Repository) error {
	tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	defer tw.Flush()
	if c.player != "" {
		r, err := repo.Rating(c.player)
		if err != nil {
			return err
		}
		gs, err := repo.PlayerGames(c.player)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%d\t(%d games)\n", r.Player, r.Rating, r.Games)
		for _, g := range gs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d moves\n", g.ID, g.Seat, g.Opponent, g.Win, g.Moves)
		}
		return nil
	}
	rs, err := repo.Leaderboard(c.limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(tw, "#\tplayer\trating\tgames\n")
	for i, r := range rs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", i+1, r.Player, r.Rating, r.Games)
	}
	return nil
}
