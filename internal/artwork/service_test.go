package artwork

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

// createTestJPEG generates a simple JPEG image for testing
func createTestJPEG(width, height int, col color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, col)
		}
	}

	buf := new(bytes.Buffer)
	err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 80})
	if err != nil {
		panic("failed to create test JPEG: " + err.Error())
	}
	return buf.Bytes()
}

// stubConfig satisfies domain.Config for the art settings
type stubConfig struct {
	artSize   int
	cacheSize int
}

func (s stubConfig) GetSurface() string     { return "web" }
func (s stubConfig) GetListenAddr() string  { return "127.0.0.1:0" }
func (s stubConfig) GetSource() string      { return "mpris" }
func (s stubConfig) GetMPDAddr() string     { return "" }
func (s stubConfig) GetMPDPassword() string { return "" }
func (s stubConfig) GetPlayers() []string   { return nil }
func (s stubConfig) GetArtSize() int        { return s.artSize }
func (s stubConfig) GetArtCacheSize() int   { return s.cacheSize }

func TestThumbnailer_Process(t *testing.T) {
	tests := []struct {
		name          string
		imageData     []byte
		expectedError string
	}{
		{name: "Success - Landscape", imageData: createTestJPEG(300, 200, color.RGBA{R: 255, A: 255})},
		{name: "Success - Tiny", imageData: createTestJPEG(1, 1, color.RGBA{G: 255, A: 255})},
		{name: "Error - Invalid Image Data", imageData: []byte("not-an-image"), expectedError: "failed to decode image"},
		{name: "Error - Corrupted JPEG", imageData: []byte{0xFF, 0xD8, 0xFF, 0x00, 0x00}, expectedError: "failed to decode image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewThumbnailer(zap.NewNop(), 64).Process(tt.imageData)

			if tt.expectedError != "" {
				if err == nil || !strings.Contains(err.Error(), tt.expectedError) {
					t.Fatalf("expected error containing '%s', got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			img, _, err := image.Decode(bytes.NewReader(result))
			if err != nil {
				t.Fatalf("result is not a valid image: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
				t.Errorf("expected 64x64, got %dx%d", b.Dx(), b.Dy())
			}
		})
	}
}

func TestService_ThumbnailIsCached(t *testing.T) {
	var hits atomic.Int32
	art := createTestJPEG(100, 100, color.RGBA{B: 255, A: 255})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(art)
	}))
	defer server.Close()

	svc, err := NewService(zap.NewNop(), stubConfig{artSize: 32, cacheSize: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := svc.Thumbnail(context.Background(), server.URL+"/cover.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Thumbnail(context.Background(), server.URL+"/cover.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("cached thumbnail differs from the original")
	}
	if hits.Load() != 1 {
		t.Errorf("expected a single upstream fetch, got %d", hits.Load())
	}
}

func TestService_FetchErrorIsNotCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc, err := NewService(zap.NewNop(), stubConfig{artSize: 32, cacheSize: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.Thumbnail(context.Background(), server.URL); err == nil {
			t.Fatal("expected error, got nil")
		}
	}
	if hits.Load() != 2 {
		t.Errorf("failed fetches must be retried, got %d upstream hits", hits.Load())
	}
}
