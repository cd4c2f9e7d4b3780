package web

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/owarelab/oware/cmd/internal/opt"
	"github.com/owarelab/oware/web"
	"github.com/rs/zerolog/log"
)

type Command struct {
	addr     string
	maxMoves int
	db       opt.DB
}

func (*Command) Name() string     { return "web" }
func (*Command) Synopsis() string { return "Host a game against the computer over HTTP" }
func (*Command) Usage() string {
	return `web [flags]

Serve the JSON API and websocket feed for playing against the
computer. Finished games are logged when -db is set.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	addr := os.Getenv("OWARE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	flags.StringVar(&c.addr, "addr", addr, "listen address")
	flags.IntVar(&c.maxMoves, "max-moves", 400, "adjourn games after this many moves")
	c.db.AddFlags(flags)
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	repo, err := c.db.Open()
	if err != nil {
		log.Error().Err(err).Msg("open game log")
		return subcommands.ExitFailure
	}
	if repo != nil {
		defer repo.Close()
	}

	s := web.NewServer(web.Config{
		Repo:     repo,
		Logger:   log.Logger,
		MaxMoves: c.maxMoves,
	})
	go s.Hub().Run(ctx.Done())

	server := &http.Server{
		Addr:    c.addr,
		Handler: s.Handler(),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()
	log.Info().Str("addr", c.addr).Msg("listening")

	status := subcommands.ExitSuccess
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			log.Error().Err(err).Msg("server error")
			status = subcommands.ExitFailure
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		server.Close()
	}
	return status
}
