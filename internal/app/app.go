// Package app wires the island together with fx.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/genricoloni/island/internal/artwork"
	"github.com/genricoloni/island/internal/config"
	"github.com/genricoloni/island/internal/display"
	"github.com/genricoloni/island/internal/domain"
	"github.com/genricoloni/island/internal/media"
	"github.com/genricoloni/island/internal/poller"
	"github.com/genricoloni/island/internal/presenter"
	"github.com/genricoloni/island/internal/schedule"
	"github.com/genricoloni/island/internal/surface/term"
	"github.com/genricoloni/island/internal/surface/web"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Runner is a surface with a lifecycle
type Runner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Options returns the complete dependency graph for the given configuration
func Options(values config.Values) fx.Option {
	return fx.Options(
		fx.Supply(values),

		// Logger configuration
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),

		fx.Provide(
			NewLogger,
			fx.Annotate(config.NewAppConfig, fx.As(new(domain.Config))),
			fx.Annotate(schedule.NewReal, fx.As(new(schedule.Scheduler))),
			media.ProvideSource,
			display.NewResolution,
			artwork.NewService,
			NewSurface,
			presenter.New,
			func(p *presenter.Presenter) poller.Presenter { return p },
			poller.NewPoller,
		),

		fx.Invoke(registerHooks),
	)
}

// NewLogger builds the zap logger described by values.
// The terminal surface owns stdout, so it logs to a file.
func NewLogger(values config.Values) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(values.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)

	logFile := values.LogFile
	if logFile == "" && values.Surface == "term" {
		logFile = filepath.Join(os.TempDir(), "island.log")
	}
	if logFile != "" {
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{logFile}
	}

	return cfg.Build()
}

// NewSurface builds the surface selected by configuration
func NewSurface(
	logger *zap.Logger,
	cfg domain.Config,
	screen display.Resolution,
	art *artwork.Service,
	shutdown fx.Shutdowner,
) (domain.Surface, Runner) {
	switch cfg.GetSurface() {
	case "term":
		s := term.NewSurface(logger, shutdown)
		return s, s
	default:
		hub := web.NewHub(logger, screen)
		return hub, web.NewServer(logger, cfg, hub, art)
	}
}

// registerHooks starts the surface, then the presenter and poller loops
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	runner Runner,
	p *presenter.Presenter,
	poll *poller.Poller,
) {
	var (
		cancel context.CancelFunc
		wg     sync.WaitGroup
	)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := runner.Start(ctx); err != nil {
				return err
			}

			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop

			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = p.Run(runCtx)
			}()
			go func() {
				defer wg.Done()
				poll.Run(runCtx)
			}()

			logger.Info("Island started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			if cancel != nil {
				cancel()
			}
			wg.Wait()
			return runner.Stop(ctx)
		},
	})
}
