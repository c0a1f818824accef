// Package web serves the island to a browser or webview overlay.
package web

import (
	"sync"

	"github.com/genricoloni/island/internal/display"
	"github.com/genricoloni/island/internal/domain"
	"github.com/genricoloni/island/internal/easing"
	"github.com/genricoloni/island/internal/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Frame types sent to overlay clients
const (
	FrameSnapshot = "snapshot"
	FrameContent  = "content"
	FrameTween    = "tween"
	FrameFade     = "fade"
)

const (
	// easingSamples is the number of segments of the CSS linear() curve
	easingSamples = 40
	// sendBuffer is how many frames a client may lag before it is dropped
	sendBuffer = 32
)

// Frame is one update pushed to the overlay
type Frame struct {
	Type       string              `json:"type"`
	HTML       string              `json:"html,omitempty"`
	Width      int                 `json:"width,omitempty"`
	Left       int                 `json:"left,omitempty"`
	DurationMS int64               `json:"duration_ms,omitempty"`
	Easing     string              `json:"easing,omitempty"`
	Targets    []string            `json:"targets,omitempty"`
	Screen     *display.Resolution `json:"screen,omitempty"`
}

type client struct {
	id   string
	send chan Frame
}

// Hub is the web Surface: it keeps the latest island state and fans
// updates out to connected overlays
type Hub struct {
	logger   *zap.Logger
	renderer *render.HTMLRenderer
	screen   display.Resolution

	mu      sync.Mutex
	clients map[string]*client
	html    string
	width   int
	// cover is the art source of the last media view, the only one /art serves
	cover   string
	closed  bool
}

var _ domain.Surface = (*Hub)(nil)

// NewHub creates a hub rendering cover art through the /art proxy
func NewHub(logger *zap.Logger, screen display.Resolution) *Hub {
	return &Hub{
		logger:   logger,
		renderer: render.NewHTMLRenderer(true),
		screen:   screen,
		clients:  make(map[string]*client),
	}
}

// SetContent renders c and broadcasts it
func (h *Hub) SetContent(c domain.Content) {
	html, err := h.renderer.Render(c)
	if err != nil {
		h.logger.Error("Failed to render content", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.html = html
	if c.Kind == domain.ContentMedia {
		h.cover = c.Media.CoverArt
	}
	h.broadcastLocked(Frame{Type: FrameContent, HTML: html})
}

// Tween broadcasts a width animation
func (h *Hub) Tween(t domain.Tween) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.width = t.Width
	h.broadcastLocked(Frame{
		Type:       FrameTween,
		Width:      t.Width,
		Left:       h.leftOf(t.Width),
		DurationMS: t.Duration.Milliseconds(),
		Easing:     easing.CSSLinear(t.Ease, easingSamples),
	})
}

// FadeIn broadcasts an entrance fade group
func (h *Hub) FadeIn(g domain.FadeGroup) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(Frame{Type: FrameFade, Targets: g.Targets})
}

// leftOf is the x offset in screen px that centres a pill of width on the screen
func (h *Hub) leftOf(width int) int {
	if width >= h.screen.Width {
		return 0
	}
	return (h.screen.Width - width) / 2
}

// servesCover reports whether src is the cover of the last rendered track
func (h *Hub) servesCover(src string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return src != "" && src == h.cover
}

// register adds a client and returns the snapshot it should start from
func (h *Hub) register() (*client, Frame, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, Frame{}, false
	}

	c := &client{id: uuid.NewString(), send: make(chan Frame, sendBuffer)}
	h.clients[c.id] = c

	screen := h.screen
	snap := Frame{Type: FrameSnapshot, HTML: h.html, Width: h.width, Left: h.leftOf(h.width), Screen: &screen}

	h.logger.Info("Overlay connected", zap.String("client", c.id), zap.Int("clients", len(h.clients)))
	return c, snap, true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	h.logger.Info("Overlay disconnected", zap.String("client", c.id), zap.Int("clients", len(h.clients)))
}

// broadcastLocked never blocks: a client whose buffer is full is dropped
func (h *Hub) broadcastLocked(f Frame) {
	for id, c := range h.clients {
		select {
		case c.send <- f:
		default:
			h.logger.Warn("Overlay too slow, dropping", zap.String("client", id))
			delete(h.clients, id)
			close(c.send)
		}
	}
}

// Close disconnects every client
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
	return nil
}
