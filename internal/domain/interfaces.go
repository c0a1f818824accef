package domain

import "context"

// Source is the host capability that reports current playback.
// Implementations query D-Bus/MPRIS or MPD.
type Source interface {
	// NowPlaying returns the current playback snapshot.
	// It returns ErrNoPlayer when nothing can be reported.
	NowPlaying(ctx context.Context) (Track, error)
}

// Surface is the rendering target of the island.
// Calls never block on the consumer; a surface with no viewers drops them.
type Surface interface {
	// SetContent replaces the inner content of the island
	SetContent(c Content)

	// Tween animates the width of the pill container
	Tween(t Tween)

	// FadeIn runs a synchronized entrance fade over the given targets
	FadeIn(g FadeGroup)
}

// Config defines the interface for application configuration
type Config interface {
	// GetSurface returns the surface kind ("web" or "term")
	GetSurface() string

	// GetListenAddr returns the address of the web surface
	GetListenAddr() string

	// GetSource returns the source kind ("mpris" or "mpd")
	GetSource() string

	// GetMPDAddr returns the MPD server address
	GetMPDAddr() string

	// GetMPDPassword returns the MPD password, if any
	GetMPDPassword() string

	// GetPlayers returns the preferred MPRIS players, highest priority first
	GetPlayers() []string

	// GetArtSize returns the cover thumbnail edge in px
	GetArtSize() int

	// GetArtCacheSize returns the number of cached cover thumbnails
	GetArtCacheSize() int
}
