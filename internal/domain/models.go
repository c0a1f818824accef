package domain

import (
	"errors"
	"time"
)

// ErrNoPlayer is returned by a Source when no usable player is on the host
var ErrNoPlayer = errors.New("no media player found")

// Track is a now-playing snapshot as reported by the host
type Track struct {
	// Title of the track
	Title string `yaml:"title"`
	// Artist name
	Artist string `yaml:"artist"`
	// CoverArt is the URL (http, https or file) of the artwork
	CoverArt string `yaml:"cover_art"`
	// IsPlaying is true only while playback is running
	IsPlaying bool `yaml:"is_playing"`
	// PlayerName is the display name of the reporting player (e.g. "Spotify")
	PlayerName string `yaml:"player_name"`
}

// EmptyTrack is the sentinel meaning "nothing displayed"
var EmptyTrack = Track{}

// SameAs reports whether t and other would render identically.
// Only Title, Artist and CoverArt take part in the comparison.
func (t Track) SameAs(other Track) bool {
	return t.Title == other.Title &&
		t.Artist == other.Artist &&
		t.CoverArt == other.CoverArt
}

// Mode is the visual mode of the island
type Mode int

const (
	// ModeIdle shows the clock in a narrow pill
	ModeIdle Mode = iota
	// ModeExpanded shows media in a wide pill
	ModeExpanded
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeExpanded:
		return "expanded"
	default:
		return "unknown"
	}
}

// ContentKind selects which subtree the content container holds
type ContentKind int

const (
	ContentEmpty ContentKind = iota
	ContentClock
	ContentMedia
)

// Content is what the content container displays.
// The zero value clears the container.
type Content struct {
	Kind  ContentKind
	Clock ClockView
	Media MediaView
}

// ClockView is the idle date/time pair
type ClockView struct {
	Date string
	Time string
}

// MediaView is the now-playing markup model
type MediaView struct {
	Title    string
	Artist   string
	CoverArt string
	Player   string
	// ShowCover selects the cover-art branch; otherwise artist text is shown
	ShowCover bool
}

// Ease describes an easing curve understood by every surface
type Ease struct {
	// Name of the curve, e.g. "elastic.out"
	Name      string
	Amplitude float64
	Period    float64
}

// Tween is a width animation of the pill container
type Tween struct {
	Width    int // target width in px
	Ease     Ease
	Duration time.Duration
}

// Fade targets inside the content container
const (
	TargetName  = "name"
	TargetBadge = "badge"
	TargetCover = "cover"
	TargetText  = "text"
)

// FadeGroup fades its targets from transparent to opaque, all starting together
type FadeGroup struct {
	Targets []string
}
