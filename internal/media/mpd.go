package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"

	"github.com/fhs/gompd/mpd"
	"github.com/genricoloni/island/internal/domain"
	"go.uber.org/zap"
)

const mpdPlayerName = "MPD"

// errQueryInFlight is returned while an earlier query still waits on the server
var errQueryInFlight = errors.New("mpd query still running")

// mpdClient is the subset of *mpd.Client the source needs
type mpdClient interface {
	Status() (mpd.Attrs, error)
	CurrentSong() (mpd.Attrs, error)
	Close() error
}

// MPDSource reports now-playing state of a Music Player Daemon
type MPDSource struct {
	logger *zap.Logger
	addr   string

	mu     sync.Mutex
	client mpdClient
	dial   func() (mpdClient, error)
}

// NewMPDSource creates an MPD source for the server at addr
func NewMPDSource(logger *zap.Logger, addr, password string) *MPDSource {
	return &MPDSource{
		logger: logger,
		addr:   addr,
		dial: func() (mpdClient, error) {
			if password != "" {
				return mpd.DialAuthenticated("tcp", addr, password)
			}
			return mpd.Dial("tcp", addr)
		},
	}
}

type mpdResult struct {
	track domain.Track
	err   error
}

// NowPlaying queries status and current song.
// The MPD protocol has no cancellation, so ctx only bounds the wait. At most
// one query runs at a time: a server that never answers holds one goroutine.
func (s *MPDSource) NowPlaying(ctx context.Context) (domain.Track, error) {
	if !s.mu.TryLock() {
		return domain.Track{}, errQueryInFlight
	}

	ch := make(chan mpdResult, 1)
	go func() {
		track, err := s.query()
		s.mu.Unlock()
		ch <- mpdResult{track: track, err: err}
	}()

	select {
	case r := <-ch:
		return r.track, r.err
	case <-ctx.Done():
		return domain.Track{}, fmt.Errorf("mpd query: %w", ctx.Err())
	}
}

// query runs one status round trip; callers hold s.mu
func (s *MPDSource) query() (domain.Track, error) {
	if s.client == nil {
		c, err := s.dial()
		if err != nil {
			return domain.Track{}, fmt.Errorf("failed to connect to mpd at %s: %w", s.addr, err)
		}
		s.client = c
	}

	status, err := s.client.Status()
	if err != nil {
		s.dropClient()
		return domain.Track{}, fmt.Errorf("failed to get mpd status: %w", err)
	}
	if status["state"] != "play" && status["state"] != "pause" {
		return domain.Track{}, domain.ErrNoPlayer
	}

	song, err := s.client.CurrentSong()
	if err != nil {
		s.dropClient()
		return domain.Track{}, fmt.Errorf("failed to get current song: %w", err)
	}

	return trackFromAttrs(status, song), nil
}

// dropClient forgets a broken connection; callers hold s.mu
func (s *MPDSource) dropClient() {
	if err := s.client.Close(); err != nil {
		s.logger.Debug("Failed to close mpd connection", zap.Error(err))
	}
	s.client = nil
}

// trackFromAttrs maps MPD status and song attributes to a Track
func trackFromAttrs(status, song mpd.Attrs) domain.Track {
	track := domain.Track{
		Title:      song["Title"],
		Artist:     song["Artist"],
		IsPlaying:  status["state"] == "play",
		PlayerName: mpdPlayerName,
	}

	if track.Title == "" && song["file"] != "" {
		track.Title = path.Base(song["file"])
	}
	if track.Title == "" {
		track.Title = unknownTitle
	}
	if track.Artist == "" {
		track.Artist = song["AlbumArtist"]
	}
	if track.Artist == "" {
		track.Artist = mpdPlayerName
	}
	return track
}

// Close releases the MPD connection. A connection stuck in a query is left
// to the process exit.
func (s *MPDSource) Close() error {
	if !s.mu.TryLock() {
		s.logger.Warn("MPD query still running, not closing connection")
		return nil
	}
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
