package serve

import (
	"context"
	"flag"
	"net"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/owarelab/oware/rpc"
	"github.com/rs/zerolog/log"
)

type Command struct {
	addr     string
	maxConns int
	seed     int64
}

func (*Command) Name() string     { return "serve" }
func (*Command) Synopsis() string { return "Serve engine RPCs via GRPC" }
func (*Command) Usage() string {
	return `serve [flags]
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	addr := os.Getenv("OWARE_RPC_ADDR")
	if addr == "" {
		addr = ":55430"
	}
	flags.StringVar(&c.addr, "addr", addr, "bind address")
	flags.IntVar(&c.maxConns, "max-conns", 64, "maximum concurrent connections; 0 for no limit")
	flags.Int64Var(&c.seed, "seed", 0, "seed for the beginner engine")
}

func (c *Command) Execute(ctx context.Context, flag *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	lis, err := net.Listen("tcp", c.addr)
	if err != nil {
		log.Error().Err(err).Str("addr", c.addr).Msg("failed to listen")
		return subcommands.ExitFailure
	}
	seed := c.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info().Str("addr", lis.Addr().String()).Msg("serving engine RPCs")
	if err := rpc.Serve(ctx, lis, rpc.NewServer(log.Logger, seed), c.maxConns); err != nil {
		log.Error().Err(err).Msg("serve")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
