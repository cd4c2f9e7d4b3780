package analyze

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/owarelab/oware/ai"
	"github.com/owarelab/oware/cmd/internal/opt"
	"github.com/owarelab/oware/notation"
	"github.com/owarelab/oware/oware"
	"github.com/rs/zerolog/log"
)

type Command struct {
	/* Output options */
	position bool
	quiet    bool

	/* Options to select which position(s) to analyze */
	record    string
	move      int
	all       bool
	variation string

	/* Engine options */
	beginner bool
	eval     bool
	explain  bool
	mmopt    opt.Minimax
}

func (*Command) Name() string     { return "analyze" }
func (*Command) Synopsis() string { return "Evaluate an Oware position" }
func (*Command) Usage() string {
	return `analyze [options] [POSITION]

Evaluate a position given on the command line, or taken from a game
record with -record. Without either, the starting position is analyzed.

Use -move to select a position partway through a record and -variation
to play additional moves prior to analysis.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.BoolVar(&c.position, "print-position", false, "print the analyzed position")
	flags.BoolVar(&c.quiet, "quiet", false, "don't print board diagrams")

	flags.StringVar(&c.record, "record", "", "game record to analyze")
	flags.IntVar(&c.move, "move", -1, "number of record moves to play before analyzing")
	flags.BoolVar(&c.all, "all", false, "analyze every position in the record")
	flags.StringVar(&c.variation, "variation", "", "apply the listed moves after the given position")

	flags.BoolVar(&c.beginner, "beginner", false, "rank moves the way the beginner opponent does")
	flags.BoolVar(&c.eval, "evaluate", false, "only show static evaluation")
	flags.BoolVar(&c.explain, "explain", false, "explain scoring")

	c.mmopt.AddFlags(flags)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	analysis, err := c.buildAnalysis()
	if err != nil {
		log.Error().Err(err).Msg("analyze")
		return subcommands.ExitUsageError
	}
	if err := c.run(os.Stdout, analysis, flag.Arg(0)); err != nil {
		log.Error().Err(err).Msg("analyze")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *Command) run(out io.Writer, analysis Analyzer, arg string) error {
	if c.record == "" {
		b := oware.New()
		var err error
		if arg != "" {
			if b, err = notation.ParsePosition(arg); err != nil {
				return err
			}
		}
		if b, err = applyVariation(b, c.variation); err != nil {
			return fmt.Errorf("-variation: %w", err)
		}
		return analysis.Analyze(out, b)
	}

	f, err := os.Open(c.record)
	if err != nil {
		return err
	}
	defer f.Close()
	rec, err := notation.ParseRecord(f)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	b, err := rec.InitialPosition()
	if err != nil {
		return err
	}
	moves := rec.Moves()

	if c.all {
		for i, pit := range moves {
			if b.ToMove() == oware.Player1 {
				fmt.Fprintf(out, "%d. %s\n", i/2+1, notation.FormatMove(pit))
			} else {
				fmt.Fprintf(out, "%d. ... %s\n", i/2+1, notation.FormatMove(pit))
			}
			if err := analysis.Analyze(out, b); err != nil {
				return err
			}
			if _, err := oware.Execute(b, pit, false); err != nil {
				return fmt.Errorf("move %d: %w", i+1, err)
			}
		}
		return nil
	}

	n := c.move
	if n < 0 || n > len(moves) {
		n = len(moves)
	}
	for i, pit := range moves[:n] {
		if _, err := oware.Execute(b, pit, false); err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	b, err = applyVariation(b, c.variation)
	if err != nil {
		return fmt.Errorf("-variation: %w", err)
	}
	return analysis.Analyze(out, b)
}

func applyVariation(b *oware.Board, variation string) (*oware.Board, error) {
	ms, err := notation.ParseMoves(variation)
	if err != nil {
		return nil, err
	}
	for _, pit := range ms {
		if _, err := oware.Execute(b, pit, false); err != nil {
			return nil, fmt.Errorf("bad move `%s': %w", notation.FormatMove(pit), err)
		}
	}
	return b, nil
}

func (c *Command) buildAnalysis() (Analyzer, error) {
	if c.beginner {
		return &beginnerAnalysis{cmd: c}, nil
	}
	w, err := c.mmopt.ParseWeights()
	if err != nil {
		return nil, err
	}
	cfg, err := c.mmopt.BuildConfig()
	if err != nil {
		return nil, err
	}
	return &minimaxAnalysis{cmd: c, ai: ai.NewMinimax(cfg), weights: w}, nil
}
