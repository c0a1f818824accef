package cli

import (
	"context"
	"fmt"

	"github.com/genricoloni/island/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the island",
		Long: `Run the island until interrupted.

The web surface serves an overlay page on --addr; the term surface draws
the island in this terminal (press q to quit).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIsland(cmd, opts)
		},
	}
}

func runIsland(cmd *cobra.Command, opts *options) error {
	values, err := loadValues(cmd, opts)
	if err != nil {
		return err
	}

	a := fx.New(app.Options(values))
	if err := a.Err(); err != nil {
		return fmt.Errorf("failed to build island: %w", err)
	}

	startCtx, cancel := context.WithTimeout(cmd.Context(), a.StartTimeout())
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start island: %w", err)
	}

	// Wait for SIGINT/SIGTERM or a shutdown from the terminal surface
	<-a.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), a.StopTimeout())
	defer cancel()
	return a.Stop(stopCtx)
}
