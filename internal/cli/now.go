package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/genricoloni/island/internal/config"
	"github.com/genricoloni/island/internal/domain"
	"github.com/genricoloni/island/internal/media"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const nowTimeout = 3 * time.Second

// openSource is replaced in tests
var openSource = func(logger *zap.Logger, cfg domain.Config) media.ClosableSource {
	return media.NewSource(logger, cfg)
}

func newNowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Print what is playing right now",
		Long: `Query the configured source once and print the track as YAML.

Exits with an error when no player is active.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNow(cmd, opts)
		},
	}
}

func runNow(cmd *cobra.Command, opts *options) error {
	values, err := loadValues(cmd, opts)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	src := openSource(logger, config.NewAppConfig(logger, values))
	defer src.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), nowTimeout)
	defer cancel()

	track, err := src.NowPlaying(ctx)
	if errors.Is(err, domain.ErrNoPlayer) {
		fmt.Fprintln(cmd.ErrOrStderr(), styleHint.Render("Nothing is playing."))
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", values.Source, err)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(track); err != nil {
		return fmt.Errorf("failed to encode track: %w", err)
	}
	return enc.Close()
}
