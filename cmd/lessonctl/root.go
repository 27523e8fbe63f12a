package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lesson-market/internal/config"
	"lesson-market/internal/telemetry"
)

type env struct {
	cfg *config.Config
	tel *telemetry.Telemetry
}

var envFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "lessonctl",
		Short:        "Operator tooling for the lessons API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional env file read before the environment")

	root.AddCommand(newSeedCmd(), newWatchOrdersCmd(), newLoadGenCmd())
	return root
}

// setup loads config and telemetry for a subcommand. The returned context
// is cancelled on SIGINT/SIGTERM.
func setup(cmd *cobra.Command, service string) (context.Context, *env, func(), error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	tel, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: service,
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		stop()
		return nil, nil, nil, err
	}

	cleanup := func() {
		stop()
		tel.Shutdown(context.Background())
	}
	return ctx, &env{cfg: cfg, tel: tel}, cleanup, nil
}
