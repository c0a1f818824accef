// Package poller feeds the presenter from a now-playing source.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/genricoloni/island/internal/domain"
	"go.uber.org/zap"
)

const (
	// Interval is the fixed poll cadence
	Interval = time.Second
	// queryTimeout keeps a slow host from overlapping the next tick
	queryTimeout = 900 * time.Millisecond
	// warningInterval rate-limits repeated query failure warnings
	warningInterval = 5 * time.Second
)

// Presenter receives the outcome of each poll
type Presenter interface {
	Present(track domain.Track)
	Dismiss()
}

// Poller queries the host for now-playing state on a fixed cadence
type Poller struct {
	logger    *zap.Logger
	source    domain.Source
	presenter Presenter

	mu          sync.Mutex
	lastWarning time.Time
	now         func() time.Time
}

// NewPoller creates a poller feeding presenter from source
func NewPoller(logger *zap.Logger, source domain.Source, presenter Presenter) *Poller {
	return &Poller{
		logger:    logger,
		source:    source,
		presenter: presenter,
		now:       time.Now,
	}
}

// Run polls every Interval until ctx is cancelled. Polls never overlap.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(Interval)
	defer ticker.Stop()

	p.logger.Info("Poller started", zap.Duration("interval", Interval))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick runs a single poll and dispatches its result
func (p *Poller) tick(ctx context.Context) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	track, err := p.source.NowPlaying(queryCtx)
	if err != nil {
		p.logQueryFailure(err)
		p.presenter.Dismiss()
		return
	}

	if track.IsPlaying {
		p.presenter.Present(track)
		return
	}
	p.presenter.Dismiss()
}

// logQueryFailure logs a failed poll, at most one warning per warningInterval.
// A missing player is the normal idle case and only logged at debug.
func (p *Poller) logQueryFailure(err error) {
	if errors.Is(err, domain.ErrNoPlayer) {
		p.logger.Debug("No media player available")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Sub(p.lastWarning) >= warningInterval {
		p.logger.Warn("Now-playing query failed", zap.Error(err))
		p.lastWarning = now
	}
}
