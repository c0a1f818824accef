package render

import (
	"strings"
	"testing"

	"github.com/genricoloni/island/internal/domain"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name       string
		proxyArt   bool
		content    domain.Content
		contains   []string
		notContain []string
	}{
		{
			name:     "Empty Clears",
			content:  domain.Content{},
			contains: []string{},
		},
		{
			name: "Clock",
			content: domain.Content{Kind: domain.ContentClock, Clock: domain.ClockView{
				Date: "Oct 15, 2026", Time: "3:04:05 PM",
			}},
			contains: []string{`<span class="date">Oct 15, 2026</span>`, `<span class="time">3:04:05 PM</span>`},
		},
		{
			name: "Spotify Branch Has Cover",
			content: domain.Content{Kind: domain.ContentMedia, Media: domain.MediaView{
				Title: "Song", Artist: "Band", CoverArt: "https://i.scdn.co/image/abc", ShowCover: true,
			}},
			contains: []string{
				`<dotlottie-wc class="badge"`,
				`<h3 class="name">Song</h3>`,
				`<img class="cover" src="https://i.scdn.co/image/abc" alt="Song-Band">`,
			},
			notContain: []string{`class="text"`},
		},
		{
			name: "Other Branch Has Artist Text",
			content: domain.Content{Kind: domain.ContentMedia, Media: domain.MediaView{
				Title: "Video", Artist: "Channel", CoverArt: "https://example.com/c.jpg",
			}},
			contains:   []string{`<p class="text">Channel</p>`},
			notContain: []string{"<img"},
		},
		{
			name:     "Proxied Cover Is Query Escaped",
			proxyArt: true,
			content: domain.Content{Kind: domain.ContentMedia, Media: domain.MediaView{
				Title: "Local", CoverArt: "file:///home/me/cover art.png", ShowCover: true,
			}},
			contains: []string{`src="/art?src=file%3a%2f%2f%2fhome%2fme%2fcover%20art.png"`},
		},
		{
			name: "Markup In Title And Artist Is Literal",
			content: domain.Content{Kind: domain.ContentMedia, Media: domain.MediaView{
				Title:  `<img src=x onerror=alert(1)>`,
				Artist: `</p><script>alert(2)</script>`,
			}},
			contains: []string{
				`&lt;img src=x onerror=alert(1)&gt;`,
				`&lt;/p&gt;&lt;script&gt;alert(2)&lt;/script&gt;`,
			},
			notContain: []string{"<img src=x", "<script>"},
		},
		{
			name: "Script URL Cover Is Neutralized",
			content: domain.Content{Kind: domain.ContentMedia, Media: domain.MediaView{
				Title: "T", CoverArt: `javascript:alert(1)`, ShowCover: true,
			}},
			notContain: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewHTMLRenderer(tt.proxyArt).Render(tt.content)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.content.Kind == domain.ContentEmpty && got != "" {
				t.Errorf("expected empty markup, got %q", got)
			}
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("expected markup to contain %q, got:\n%s", s, got)
				}
			}
			for _, s := range tt.notContain {
				if strings.Contains(got, s) {
					t.Errorf("markup must not contain %q, got:\n%s", s, got)
				}
			}
		})
	}
}

func TestRenderUnknownKind(t *testing.T) {
	if _, err := NewHTMLRenderer(false).Render(domain.Content{Kind: domain.ContentKind(42)}); err == nil {
		t.Error("expected error for unknown content kind")
	}
}
