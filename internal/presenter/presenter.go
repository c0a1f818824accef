// Package presenter drives the island between its idle clock and the
// now-playing view.
package presenter

import (
	"context"
	"time"

	"github.com/genricoloni/island/internal/domain"
	"github.com/genricoloni/island/internal/schedule"
	"go.uber.org/zap"
)

// Pill widths in px
const (
	ExpandedWidth  = 200
	CollapsedWidth = 40
	IdleWidth      = 160
)

// SpotifyPlayer is the player whose tracks render with cover art
const SpotifyPlayer = "Spotify"

const (
	transitionDuration = 1400 * time.Millisecond
	// revealDelay matches the expand tween so media appears on a fully open pill
	revealDelay       = 1400 * time.Millisecond
	idleWidenDuration = 800 * time.Millisecond
	clockInterval     = time.Second

	dateLayout = "Jan 02, 2006"
	timeLayout = "3:04:05 PM"
)

var (
	expandEase   = domain.Ease{Name: "elastic.out", Amplitude: 0.5, Period: 0.3}
	collapseEase = domain.Ease{Name: "elastic.out", Amplitude: 0.1, Period: 0.7}
)

// State is a snapshot of the presenter state machine
type State struct {
	Mode      domain.Mode
	Animating bool
	// Track is the last track rendered, or domain.EmptyTrack
	Track domain.Track
}

// Presenter owns the island state. All state changes happen on the goroutine
// running Run; public methods and timer callbacks hand work to it.
type Presenter struct {
	logger  *zap.Logger
	surface domain.Surface
	sched   schedule.Scheduler
	loc     *time.Location

	inbox chan func()
	done  chan struct{}

	// Owned by the run loop
	state      State
	gen        uint64
	clockID    uint64
	clock      schedule.Timer
	reveal     schedule.Timer
	transition schedule.Timer
}

// New creates a presenter rendering to surface
func New(logger *zap.Logger, surface domain.Surface, sched schedule.Scheduler) *Presenter {
	return &Presenter{
		logger:  logger,
		surface: surface,
		sched:   sched,
		loc:     time.Local,
		inbox:   make(chan func()),
		done:    make(chan struct{}),
		state:   State{Mode: domain.ModeIdle},
	}
}

// Run enters Idle with the clock running and processes work until ctx is done
func (p *Presenter) Run(ctx context.Context) error {
	defer close(p.done)

	p.logger.Info("Presenter started")
	p.startClock()
	p.surface.Tween(domain.Tween{Width: IdleWidth, Ease: expandEase, Duration: idleWidenDuration})

	for {
		select {
		case <-ctx.Done():
			p.stopTimers()
			p.logger.Info("Presenter stopped")
			return ctx.Err()
		case fn := <-p.inbox:
			fn()
		}
	}
}

// Present shows track, expanding the island if it differs from the one displayed
func (p *Presenter) Present(track domain.Track) {
	p.call(func() { p.present(track) })
}

// Dismiss collapses the island back to the clock if a track is displayed
func (p *Presenter) Dismiss() {
	p.call(p.dismiss)
}

// State returns the current state
func (p *Presenter) State() State {
	var s State
	if !p.call(func() { s = p.state }) {
		return p.state
	}
	return s
}

// call runs fn on the loop and waits for it to finish.
// It returns false if the loop has exited.
func (p *Presenter) call(fn func()) bool {
	finished := make(chan struct{})
	select {
	case p.inbox <- func() { fn(); close(finished) }:
	case <-p.done:
		return false
	}
	select {
	case <-finished:
		return true
	case <-p.done:
		return false
	}
}

func (p *Presenter) present(track domain.Track) {
	if p.state.Track.SameAs(track) {
		return
	}
	if p.state.Animating {
		p.logger.Debug("Transition in flight, ignoring track", zap.String("title", track.Title))
		return
	}

	p.logger.Info("Expanding",
		zap.String("player", track.PlayerName),
		zap.String("title", track.Title),
		zap.String("artist", track.Artist))

	gen := p.beginTransition()
	p.stopClock()

	p.state.Mode = domain.ModeExpanded
	p.state.Track = track

	p.surface.Tween(domain.Tween{Width: ExpandedWidth, Ease: expandEase, Duration: transitionDuration})
	p.transition = p.sched.AfterFunc(transitionDuration, func() {
		p.call(func() { p.finishExpand(gen) })
	})
	p.reveal = p.sched.AfterFunc(revealDelay, func() {
		p.call(func() { p.revealMedia(gen, track) })
	})
}

func (p *Presenter) dismiss() {
	if p.state.Track.Title == "" {
		return
	}
	if p.state.Mode != domain.ModeExpanded || p.state.Animating {
		return
	}

	p.logger.Info("Collapsing", zap.String("title", p.state.Track.Title))

	gen := p.beginTransition()
	p.surface.Tween(domain.Tween{Width: CollapsedWidth, Ease: collapseEase, Duration: transitionDuration})
	p.transition = p.sched.AfterFunc(transitionDuration, func() {
		p.call(func() { p.finishCollapse(gen) })
	})
}

// beginTransition clears the content, locks out other transitions and
// invalidates callbacks of earlier ones
func (p *Presenter) beginTransition() uint64 {
	p.gen++
	if p.reveal != nil {
		p.reveal.Stop()
		p.reveal = nil
	}
	p.surface.SetContent(domain.Content{})
	p.state.Animating = true
	return p.gen
}

func (p *Presenter) finishExpand(gen uint64) {
	if gen != p.gen {
		return
	}
	p.transition = nil
	p.state.Animating = false
}

func (p *Presenter) finishCollapse(gen uint64) {
	if gen != p.gen {
		return
	}
	p.transition = nil
	p.state.Track = domain.EmptyTrack
	p.state.Animating = false
	p.state.Mode = domain.ModeIdle

	p.startClock()
	p.surface.Tween(domain.Tween{Width: IdleWidth, Ease: expandEase, Duration: idleWidenDuration})
}

func (p *Presenter) revealMedia(gen uint64, track domain.Track) {
	if gen != p.gen || p.state.Mode != domain.ModeExpanded {
		return
	}
	p.reveal = nil

	view := domain.MediaView{
		Title:     track.Title,
		Artist:    track.Artist,
		CoverArt:  track.CoverArt,
		Player:    track.PlayerName,
		ShowCover: track.PlayerName == SpotifyPlayer,
	}
	p.surface.SetContent(domain.Content{Kind: domain.ContentMedia, Media: view})

	last := domain.TargetText
	if view.ShowCover {
		last = domain.TargetCover
	}
	p.surface.FadeIn(domain.FadeGroup{Targets: []string{domain.TargetName, domain.TargetBadge, last}})
}

func (p *Presenter) startClock() {
	p.stopClock()
	p.clockID++
	id := p.clockID

	p.renderClock(id)
	p.clock = p.sched.Every(clockInterval, func() {
		p.call(func() { p.renderClock(id) })
	})
}

func (p *Presenter) stopClock() {
	if p.clock != nil {
		p.clock.Stop()
		p.clock = nil
	}
}

func (p *Presenter) renderClock(id uint64) {
	if id != p.clockID || p.state.Mode != domain.ModeIdle {
		return
	}
	now := p.sched.Now().In(p.loc)
	p.surface.SetContent(domain.Content{
		Kind: domain.ContentClock,
		Clock: domain.ClockView{
			Date: now.Format(dateLayout),
			Time: now.Format(timeLayout),
		},
	})
}

func (p *Presenter) stopTimers() {
	p.stopClock()
	for _, t := range []schedule.Timer{p.reveal, p.transition} {
		if t != nil {
			t.Stop()
		}
	}
	p.reveal, p.transition = nil, nil
}
