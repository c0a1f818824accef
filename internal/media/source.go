// Package media queries the host for now-playing state.
package media

import (
	"context"

	"github.com/genricoloni/island/internal/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ClosableSource is a Source holding a connection to the host
type ClosableSource interface {
	domain.Source
	Close() error
}

// NewSource builds the source selected by configuration
func NewSource(logger *zap.Logger, cfg domain.Config) ClosableSource {
	switch cfg.GetSource() {
	case "mpd":
		logger.Info("Using MPD source", zap.String("addr", cfg.GetMPDAddr()))
		return NewMPDSource(logger, cfg.GetMPDAddr(), cfg.GetMPDPassword())
	default:
		logger.Info("Using MPRIS source", zap.Strings("players", cfg.GetPlayers()))
		return NewMprisSource(logger, cfg.GetPlayers())
	}
}

// ProvideSource registers the source with the app lifecycle
func ProvideSource(lc fx.Lifecycle, logger *zap.Logger, cfg domain.Config) domain.Source {
	src := NewSource(logger, cfg)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return src.Close()
		},
	})
	return src
}
