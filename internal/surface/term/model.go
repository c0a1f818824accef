// Package term renders the island in a terminal.
package term

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/genricoloni/island/internal/domain"
	"github.com/genricoloni/island/internal/easing"
)

const (
	// pxPerCol maps pill widths in px to terminal columns
	pxPerCol      = 8
	minCols       = 5
	frameInterval = time.Second / 30
	fadeDuration  = 500 * time.Millisecond
)

type contentMsg domain.Content

type tweenMsg domain.Tween

type fadeMsg domain.FadeGroup

type frameMsg time.Time

var (
	pillStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"}).
			Align(lipgloss.Center)

	faintStyle  = lipgloss.NewStyle().Faint(true)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	artistStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "245"})
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "40"})
)

// model is the bubbletea model of the pill
type model struct {
	now func() time.Time

	cols float64

	// running tween
	from, to  float64
	start     time.Time
	duration  time.Duration
	ease      easing.Func
	animating bool

	content   domain.Content
	fading    map[string]bool
	fadeUntil time.Time

	// ticking is true while a frame tick is pending
	ticking bool
}

func newModel(now func() time.Time) model {
	return model{
		now:  now,
		cols: minCols,
		ease: easing.Linear,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case contentMsg:
		m.content = domain.Content(msg)
		m.fading = nil
	case tweenMsg:
		m.from = m.cols
		m.to = colsFor(msg.Width)
		m.start = m.now()
		m.duration = msg.Duration
		m.ease = easing.Resolve(msg.Ease)
		m.animating = true
		m = m.step()
		return m.schedule()
	case fadeMsg:
		m.fading = make(map[string]bool, len(msg.Targets))
		for _, target := range msg.Targets {
			m.fading[target] = true
		}
		m.fadeUntil = m.now().Add(fadeDuration)
		return m.schedule()
	case frameMsg:
		m.ticking = false
		m = m.step()
		return m.schedule()
	}
	return m, nil
}

// schedule keeps exactly one frame tick pending while anything moves
func (m model) schedule() (tea.Model, tea.Cmd) {
	if m.ticking || (!m.animating && m.fading == nil) {
		return m, nil
	}
	m.ticking = true
	return m, tick()
}

// step advances the tween and expires the fade
func (m model) step() model {
	now := m.now()

	if m.animating {
		progress := 1.0
		if m.duration > 0 {
			progress = float64(now.Sub(m.start)) / float64(m.duration)
		}
		if progress >= 1 {
			m.cols = m.to
			m.animating = false
		} else {
			m.cols = m.from + (m.to-m.from)*m.ease(progress)
		}
	}

	if m.fading != nil && !now.Before(m.fadeUntil) {
		m.fading = nil
	}
	return m
}

func colsFor(px int) float64 {
	return math.Max(minCols, float64(px)/pxPerCol)
}

// width is the current inner width in columns
func (m model) width() int {
	return int(math.Max(minCols, math.Round(m.cols)))
}

func (m model) View() string {
	w := m.width()
	return pillStyle.Width(w).Render(m.inner(w))
}

func (m model) inner(w int) string {
	switch m.content.Kind {
	case domain.ContentClock:
		c := m.content.Clock
		return ansi.Truncate(c.Date+"  "+c.Time, w, "…")
	case domain.ContentMedia:
		return m.media(w)
	default:
		return ""
	}
}

func (m model) media(w int) string {
	v := m.content.Media

	badge := m.style(domain.TargetBadge, badgeStyle).Render("♫")
	parts := []string{badge, m.style(domain.TargetName, titleStyle).Render(v.Title)}
	if v.ShowCover {
		parts = append(parts, m.style(domain.TargetCover, lipgloss.NewStyle()).Render("▣"))
	} else {
		parts = append(parts, m.style(domain.TargetText, artistStyle).Render(v.Artist))
	}
	return ansi.Truncate(strings.Join(parts, " "), w, "…")
}

// style dims target while its fade-in runs
func (m model) style(target string, base lipgloss.Style) lipgloss.Style {
	if m.fading[target] {
		return base.Inherit(faintStyle)
	}
	return base
}
