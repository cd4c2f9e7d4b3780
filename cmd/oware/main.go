package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/owarelab/oware/cmd/internal/analyze"
	"github.com/owarelab/oware/cmd/internal/play"
	"github.com/owarelab/oware/cmd/internal/ratings"
	"github.com/owarelab/oware/cmd/internal/selfplay"
	"github.com/owarelab/oware/cmd/internal/serve"
	"github.com/owarelab/oware/cmd/internal/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var verbose = flag.Bool("v", false, "enable debug logging")

func main() {
	_ = godotenv.Load()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&play.Command{}, "")
	subcommands.Register(&selfplay.Command{}, "")
	subcommands.Register(&analyze.Command{}, "")
	subcommands.Register(&ratings.Command{}, "")
	subcommands.Register(&serve.Command{}, "servers")
	subcommands.Register(&web.Command{}, "servers")

	flag.Parse()
	setupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := subcommands.Execute(ctx)
	stop()
	os.Exit(int(status))
}

func setupLogging() {
	level := zerolog.InfoLevel
	if s := os.Getenv("OWARE_LOG_LEVEL"); s != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(s))
		if err == nil {
			level = l
		}
	}
	if *verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}
