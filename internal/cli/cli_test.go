package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/genricoloni/island/internal/domain"
	"github.com/genricoloni/island/internal/media"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type stubSource struct {
	track  domain.Track
	err    error
	closed bool
}

func (s *stubSource) NowPlaying(ctx context.Context) (domain.Track, error) {
	return s.track, s.err
}

func (s *stubSource) Close() error {
	s.closed = true
	return nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ISLAND_SURFACE", "ISLAND_PLAYERS", "ISLAND_ADDR", "ISLAND_SOURCE", "ISLAND_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"island", "dev", "Commit", "OS/Arch"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestNow(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		source        *stubSource
		expectedError string
		want          domain.Track
		wantSource    string
	}{
		{
			name: "Prints Track",
			args: []string{"now"},
			source: &stubSource{track: domain.Track{
				Title: "Song", Artist: "Band", IsPlaying: true, PlayerName: "Spotify",
			}},
			want: domain.Track{
				Title: "Song", Artist: "Band", IsPlaying: true, PlayerName: "Spotify",
			},
			wantSource: "mpris",
		},
		{
			name:       "Source Flag",
			args:       []string{"now", "--source", "mpd"},
			source:     &stubSource{track: domain.Track{Title: "Song", PlayerName: "MPD"}},
			want:       domain.Track{Title: "Song", PlayerName: "MPD"},
			wantSource: "mpd",
		},
		{
			name:          "Nothing Playing",
			args:          []string{"now"},
			source:        &stubSource{err: domain.ErrNoPlayer},
			expectedError: "no media player found",
		},
		{
			name:          "Query Failure",
			args:          []string{"now"},
			source:        &stubSource{err: errors.New("bus gone")},
			expectedError: "failed to query mpris",
		},
		{
			name:          "Invalid Source Flag",
			args:          []string{"now", "--source", "cd"},
			expectedError: "unknown source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			var gotSource string
			orig := openSource
			openSource = func(logger *zap.Logger, cfg domain.Config) media.ClosableSource {
				gotSource = cfg.GetSource()
				return tt.source
			}
			t.Cleanup(func() { openSource = orig })

			out, _, err := execute(t, tt.args...)
			if tt.expectedError != "" {
				if err == nil || !strings.Contains(err.Error(), tt.expectedError) {
					t.Fatalf("expected error containing '%s', got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var got domain.Track
			if err := yaml.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("output is not YAML: %v\n%s", err, out)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("track mismatch (-want +got):\n%s", diff)
			}
			if gotSource != tt.wantSource {
				t.Errorf("expected source %q, got %q", tt.wantSource, gotSource)
			}
			if !tt.source.closed {
				t.Error("expected source to be closed")
			}
		})
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	clearEnv(t)

	var got domain.Config
	orig := openSource
	openSource = func(logger *zap.Logger, cfg domain.Config) media.ClosableSource {
		got = cfg
		return &stubSource{track: domain.Track{Title: "Song"}}
	}
	t.Cleanup(func() { openSource = orig })

	_, _, err := execute(t, "now", "--surface", "term", "--players", "Spotify, VLC", "--addr", ":9000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.GetSurface() != "term" {
		t.Errorf("expected surface term, got %s", got.GetSurface())
	}
	if got.GetListenAddr() != ":9000" {
		t.Errorf("expected addr :9000, got %s", got.GetListenAddr())
	}
	if diff := cmp.Diff([]string{"spotify", "vlc"}, got.GetPlayers()); diff != "" {
		t.Errorf("players mismatch (-want +got):\n%s", diff)
	}
	if got.GetSource() != "mpris" {
		t.Errorf("expected untouched source mpris, got %s", got.GetSource())
	}
}
