package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/genricoloni/island/internal/config"
	"github.com/genricoloni/island/internal/domain"
	"go.uber.org/fx"
)

type stubSource struct{}

func (stubSource) NowPlaying(ctx context.Context) (domain.Track, error) {
	return domain.Track{}, domain.ErrNoPlayer
}

func testValues() config.Values {
	v := config.Defaults()
	v.ListenAddr = "127.0.0.1:0"
	return v
}

// TestAppGraphValidity verifies that the dependency graph is resolvable
// for every surface kind.
func TestAppGraphValidity(t *testing.T) {
	for _, surface := range []string{"web", "term"} {
		t.Run(surface, func(t *testing.T) {
			v := testValues()
			v.Surface = surface
			if err := fx.ValidateApp(Options(v)); err != nil {
				t.Errorf("Dependency graph is not valid: %v", err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name          string
		values        func() config.Values
		expectedError string
		wantFile      string
	}{
		{
			name:   "Defaults",
			values: config.Defaults,
		},
		{
			name: "Log File",
			values: func() config.Values {
				v := config.Defaults()
				v.LogFile = filepath.Join(dir, "island.log")
				return v
			},
			wantFile: filepath.Join(dir, "island.log"),
		},
		{
			name: "Invalid Level",
			values: func() config.Values {
				v := config.Defaults()
				v.LogLevel = "loud"
				return v
			},
			expectedError: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.values())
			if tt.expectedError != "" {
				if err == nil || !strings.Contains(err.Error(), tt.expectedError) {
					t.Fatalf("expected error containing '%s', got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to create logger: %v", err)
			}

			logger.Info("Test logger initialization")
			_ = logger.Sync()

			if tt.wantFile != "" {
				data, err := os.ReadFile(tt.wantFile)
				if err != nil {
					t.Fatalf("expected log file: %v", err)
				}
				if !strings.Contains(string(data), "Test logger initialization") {
					t.Errorf("expected log line in file, got %q", data)
				}
			}
		})
	}
}

// TestEndToEndStartup starts and stops the web island with a stub source
func TestEndToEndStartup(t *testing.T) {
	app := fx.New(
		Options(testValues()),
		fx.Decorate(func(domain.Source) domain.Source { return stubSource{} }),
		fx.NopLogger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := app.Start(ctx); err != nil {
		t.Fatalf("App failed to start: %v", err)
	}
	if err := app.Stop(ctx); err != nil {
		t.Fatalf("App failed to stop: %v", err)
	}
}
