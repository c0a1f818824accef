package web

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/genricoloni/island/internal/artwork"
	"github.com/genricoloni/island/internal/domain"
	"github.com/rs/cors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

//go:embed overlay.html
var overlayPage []byte

const writeTimeout = 5 * time.Second

// Server exposes the overlay page, the frame stream and the cover proxy
type Server struct {
	logger *zap.Logger
	hub    *Hub
	art    *artwork.Service
	addr   string
	srv    *http.Server
}

// NewServer creates the overlay server listening on the configured address
func NewServer(logger *zap.Logger, cfg domain.Config, hub *Hub, art *artwork.Service) *Server {
	s := &Server{
		logger: logger,
		hub:    hub,
		art:    art,
		addr:   cfg.GetListenAddr(),
	}
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes.
// Cross-origin reads are refused: only pages served by this server may use them.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleStream)
	mux.HandleFunc("/art", s.handleArt)

	return cors.New(cors.Options{
		AllowOriginRequestFunc: sameOrigin,
		AllowedMethods:         []string{http.MethodGet},
	}).Handler(mux)
}

// Start binds the listener and serves in the background
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.logger.Info("Overlay server listening", zap.String("url", "http://"+ln.Addr().String()))

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Overlay server failed", zap.Error(err))
		}
	}()
	return nil
}

// Stop disconnects overlays and shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Overlay server stopping")
	return multierr.Combine(
		s.hub.Close(),
		s.srv.Shutdown(ctx),
	)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(overlayPage)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	// Accept rejects an Origin whose host differs from the request host
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	c, snapshot, ok := s.hub.register()
	if !ok {
		conn.Close(websocket.StatusGoingAway, "shutting down")
		return
	}
	defer s.hub.unregister(c)

	// Overlays never send; CloseRead handles pings and cancels ctx on close
	ctx := conn.CloseRead(r.Context())

	if err := s.write(ctx, conn, snapshot); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-c.send:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "disconnected")
				return
			}
			if err := s.write(ctx, conn, f); err != nil {
				s.logger.Debug("Overlay write failed", zap.String("client", c.id), zap.Error(err))
				return
			}
		}
	}
}

func (s *Server) write(ctx context.Context, conn *websocket.Conn, f Frame) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, f)
}

func (s *Server) handleArt(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("src")
	if src == "" {
		http.Error(w, "missing src", http.StatusBadRequest)
		return
	}
	if !s.hub.servesCover(src) {
		s.logger.Debug("Refusing artwork not on display", zap.String("src", src))
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	data, err := s.art.Thumbnail(r.Context(), src)
	if err != nil {
		s.logger.Debug("Artwork unavailable", zap.String("src", src), zap.Error(err))
		http.Error(w, "artwork unavailable", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "max-age=3600")
	_, _ = w.Write(data)
}

// sameOrigin allows an Origin only when it names this server
func sameOrigin(r *http.Request, origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && strings.EqualFold(u.Host, r.Host)
}
