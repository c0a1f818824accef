package term

import (
	"context"
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/island/internal/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It is set before p.Run() and cleared once the program exits.
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Surface draws the island in the terminal
type Surface struct {
	logger   *zap.Logger
	shutdown fx.Shutdowner
	ref      *programRef
	opts     []tea.ProgramOption

	done chan struct{}
}

// NewSurface creates a terminal surface. Quitting the program shuts the app down.
func NewSurface(logger *zap.Logger, shutdown fx.Shutdowner) *Surface {
	return &Surface{
		logger:   logger,
		shutdown: shutdown,
		ref:      &programRef{},
		opts:     []tea.ProgramOption{tea.WithAltScreen()},
	}
}

// SetContent implements domain.Surface
func (s *Surface) SetContent(c domain.Content) {
	s.ref.Send(contentMsg(c))
}

// Tween implements domain.Surface
func (s *Surface) Tween(t domain.Tween) {
	s.ref.Send(tweenMsg(t))
}

// FadeIn implements domain.Surface
func (s *Surface) FadeIn(g domain.FadeGroup) {
	s.ref.Send(fadeMsg(g))
}

// Start launches the bubbletea program
func (s *Surface) Start(ctx context.Context) error {
	p := tea.NewProgram(newModel(time.Now), s.opts...)
	s.ref.Set(p)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		defer s.ref.Clear()

		_, err := p.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			s.logger.Error("Terminal surface stopped", zap.Error(err))
		}
		if err := s.shutdown.Shutdown(); err != nil {
			s.logger.Debug("Shutdown already in progress", zap.Error(err))
		}
	}()

	s.logger.Info("Terminal surface started")
	return nil
}

// Stop quits the program and waits for the terminal to be restored
func (s *Surface) Stop(ctx context.Context) error {
	s.ref.mu.Lock()
	p := s.ref.p
	s.ref.mu.Unlock()
	if p != nil {
		p.Quit()
	}

	if s.done == nil {
		return nil
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
