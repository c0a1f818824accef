package media

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/genricoloni/island/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
	unknownTitle     = "Unknown Title"
)

// MprisSource reports now-playing state of MPRIS players on the session bus
type MprisSource struct {
	logger    *zap.Logger
	preferred []string

	mu   sync.Mutex
	conn DBusClient
	dial func() (DBusClient, error)
}

// NewMprisSource creates an MPRIS source; preferred ranks players by bus name substring
func NewMprisSource(logger *zap.Logger, preferred []string) *MprisSource {
	return &MprisSource{
		logger:    logger,
		preferred: preferred,
		dial: func() (DBusClient, error) {
			return NewStdDBusClient()
		},
	}
}

type candidate struct {
	busName  string
	priority int
	track    domain.Track
}

// NowPlaying returns the track of the best player: playing players beat
// paused ones, then the priority ranking decides. Stopped players are skipped.
func (s *MprisSource) NowPlaying(ctx context.Context) (domain.Track, error) {
	conn, err := s.client()
	if err != nil {
		return domain.Track{}, fmt.Errorf("session bus connection failed: %w", err)
	}

	names, err := conn.ListNames(ctx)
	if err != nil {
		// The connection may be gone; redial on the next poll
		s.reset()
		return domain.Track{}, fmt.Errorf("failed to list bus names: %w", err)
	}

	var candidates []candidate
	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}

		track, ok, err := s.fetchTrack(ctx, conn, name)
		if err != nil {
			s.logger.Debug("Skipping player", zap.String("player", name), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{
			busName:  name,
			priority: playerPriority(name, s.preferred),
			track:    track,
		})
	}

	if len(candidates) == 0 {
		return domain.Track{}, domain.ErrNoPlayer
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.track.IsPlaying != b.track.IsPlaying {
			return a.track.IsPlaying
		}
		return a.priority < b.priority
	})

	best := candidates[0]
	s.logger.Debug("Selected player",
		zap.String("player", best.track.PlayerName),
		zap.String("bus", best.busName),
		zap.Int("candidates", len(candidates)))
	return best.track, nil
}

// fetchTrack reads one player. ok is false for stopped players.
func (s *MprisSource) fetchTrack(ctx context.Context, conn DBusClient, busName string) (domain.Track, bool, error) {
	statusVariant, err := conn.GetProperty(ctx, busName, mprisPath, mprisPlayerIface, "PlaybackStatus")
	if err != nil {
		return domain.Track{}, false, fmt.Errorf("failed to get playback status: %w", err)
	}

	status, ok := statusVariant.Value().(string)
	if !ok {
		return domain.Track{}, false, fmt.Errorf("invalid playback status format")
	}
	if status == "Stopped" {
		return domain.Track{}, false, nil
	}

	variant, err := conn.GetProperty(ctx, busName, mprisPath, mprisPlayerIface, "Metadata")
	if err != nil {
		return domain.Track{}, false, fmt.Errorf("failed to get metadata: %w", err)
	}

	// SAFE CAST: some players report an empty or non-map Metadata between tracks
	metadata, _ := variant.Value().(map[string]dbus.Variant)

	track := s.parseMetadata(metadata, busName)
	track.IsPlaying = status == "Playing"
	return track, true, nil
}

// parseMetadata converts MPRIS metadata to a Track, filling the gaps
// players commonly leave
func (s *MprisSource) parseMetadata(metadata map[string]dbus.Variant, busName string) domain.Track {
	track := domain.Track{
		Title:      unknownTitle,
		PlayerName: displayName(busName),
	}

	if titleVar, ok := metadata["xesam:title"]; ok {
		if title, ok := titleVar.Value().(string); ok && title != "" {
			track.Title = title
		}
	}

	track.Artist = firstString(metadata["xesam:artist"])
	if track.Artist == "" {
		track.Artist = firstString(metadata["xesam:albumArtist"])
	}
	if track.Artist == "" {
		track.Artist = track.PlayerName
	}

	if artVar, ok := metadata["mpris:artUrl"]; ok {
		if artURL, ok := artVar.Value().(string); ok {
			track.CoverArt = artURL
		}
	}

	return track
}

// firstString extracts the first entry of an "as" field.
// Some non-compliant players send a plain string instead.
func firstString(v dbus.Variant) string {
	switch val := v.Value().(type) {
	case []string:
		if len(val) > 0 {
			return val[0]
		}
	case string:
		return val
	}
	return ""
}

func (s *MprisSource) client() (DBusClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return s.conn, nil
	}
	conn, err := s.dial()
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return conn, nil
}

func (s *MprisSource) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return
	}
	if err := s.conn.Close(); err != nil {
		s.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
	}
	s.conn = nil
}

// Close releases the bus connection
func (s *MprisSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
