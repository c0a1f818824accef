package web

import (
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/island/internal/display"
	"github.com/genricoloni/island/internal/domain"
	"go.uber.org/zap"
)

func newTestHub() *Hub {
	return NewHub(zap.NewNop(), display.Resolution{Width: 2560, Height: 1440})
}

func TestHub_SnapshotReflectsLatestState(t *testing.T) {
	hub := newTestHub()

	hub.Tween(domain.Tween{Width: 200, Duration: 1400 * time.Millisecond})
	hub.SetContent(domain.Content{Kind: domain.ContentClock, Clock: domain.ClockView{Date: "Oct 15, 2026", Time: "3:04:05 PM"}})

	_, snap, ok := hub.register()
	if !ok {
		t.Fatal("register failed on an open hub")
	}
	if snap.Type != FrameSnapshot {
		t.Errorf("expected snapshot frame, got %s", snap.Type)
	}
	if snap.Width != 200 {
		t.Errorf("expected width 200, got %d", snap.Width)
	}
	if !strings.Contains(snap.HTML, "3:04:05 PM") {
		t.Errorf("snapshot misses the clock: %q", snap.HTML)
	}
	if snap.Screen == nil || snap.Screen.Width != 2560 {
		t.Errorf("expected screen geometry in snapshot, got %+v", snap.Screen)
	}
	if snap.Left != 1180 {
		t.Errorf("expected pill centred at 1180, got %d", snap.Left)
	}
}

func TestHub_CentresPillOnScreen(t *testing.T) {
	tests := []struct {
		name     string
		screen   display.Resolution
		width    int
		wantLeft int
	}{
		{"Wide Screen Expanded", display.Resolution{Width: 2560, Height: 1440}, 200, 1180},
		{"Full HD Collapsed", display.Resolution{Width: 1920, Height: 1080}, 40, 940},
		{"Full HD Idle", display.Resolution{Width: 1920, Height: 1080}, 160, 880},
		{"Pill Wider Than Screen", display.Resolution{Width: 100, Height: 100}, 200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub(zap.NewNop(), tt.screen)
			c, _, _ := hub.register()

			hub.Tween(domain.Tween{Width: tt.width, Duration: time.Second})

			f := <-c.send
			if f.Left != tt.wantLeft {
				t.Errorf("expected left %d, got %d", tt.wantLeft, f.Left)
			}
		})
	}
}

func TestHub_ServesOnlyDisplayedCover(t *testing.T) {
	hub := newTestHub()

	if hub.servesCover("") {
		t.Error("empty src must never be served")
	}

	hub.SetContent(domain.Content{Kind: domain.ContentMedia, Media: domain.MediaView{Title: "A", CoverArt: "https://i.scdn.co/image/a"}})
	if !hub.servesCover("https://i.scdn.co/image/a") {
		t.Error("expected displayed cover to be served")
	}
	if hub.servesCover("file:///home/u/Pictures/x.png") {
		t.Error("expected other sources to be refused")
	}

	// clearing the container during a transition keeps the last cover
	hub.SetContent(domain.Content{})
	if !hub.servesCover("https://i.scdn.co/image/a") {
		t.Error("expected cover to survive a cleared container")
	}

	hub.SetContent(domain.Content{Kind: domain.ContentMedia, Media: domain.MediaView{Title: "B", CoverArt: "https://i.scdn.co/image/b"}})
	if hub.servesCover("https://i.scdn.co/image/a") {
		t.Error("expected previous cover to be refused after a track change")
	}
}

func TestHub_Broadcast(t *testing.T) {
	hub := newTestHub()
	c, _, _ := hub.register()

	hub.SetContent(domain.Content{})
	hub.Tween(domain.Tween{
		Width:    40,
		Ease:     domain.Ease{Name: "elastic.out", Amplitude: 0.1, Period: 0.7},
		Duration: 1400 * time.Millisecond,
	})
	hub.FadeIn(domain.FadeGroup{Targets: []string{domain.TargetName, domain.TargetBadge, domain.TargetCover}})

	content := <-c.send
	if content.Type != FrameContent || content.HTML != "" {
		t.Errorf("expected empty content frame, got %+v", content)
	}

	tween := <-c.send
	if tween.Type != FrameTween || tween.Width != 40 || tween.DurationMS != 1400 {
		t.Errorf("unexpected tween frame %+v", tween)
	}
	if !strings.HasPrefix(tween.Easing, "linear(") {
		t.Errorf("expected css linear() easing, got %q", tween.Easing)
	}

	fade := <-c.send
	if fade.Type != FrameFade || len(fade.Targets) != 3 {
		t.Errorf("unexpected fade frame %+v", fade)
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := newTestHub()
	slow, _, _ := hub.register()
	fast, _, _ := hub.register()

	for i := 0; i < sendBuffer+1; i++ {
		hub.FadeIn(domain.FadeGroup{Targets: []string{domain.TargetName}})
		// Keep the fast client drained
		<-fast.send
	}

	drained := 0
	for range slow.send {
		drained++
	}
	if drained != sendBuffer {
		t.Errorf("expected %d buffered frames before drop, got %d", sendBuffer, drained)
	}

	hub.mu.Lock()
	_, stillThere := hub.clients[slow.id]
	_, fastThere := hub.clients[fast.id]
	hub.mu.Unlock()
	if stillThere {
		t.Error("slow client should have been removed")
	}
	if !fastThere {
		t.Error("fast client should stay connected")
	}
}

func TestHub_Close(t *testing.T) {
	hub := newTestHub()
	c, _, _ := hub.register()

	if err := hub.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := <-c.send; ok {
		t.Error("client channel should be closed")
	}
	if _, _, ok := hub.register(); ok {
		t.Error("register must fail after close")
	}

	// Unregister after close and updates with no clients are harmless
	hub.unregister(c)
	hub.SetContent(domain.Content{})
}
