// Package render turns island content into markup.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/genricoloni/island/internal/domain"
)

// BadgeSrc is the looping vector animation shown next to media
const BadgeSrc = "https://lottie.host/daed205f-d595-472a-9ae2-3c3059d7f56a/tH6cS679WV.lottie"

// All interpolation goes through html/template so titles and artists
// from the host are escaped for their context.
var templates = template.Must(template.New("island").Parse(`
{{- define "clock" -}}
<div class="clock"><span class="date">{{.Date}}</span><span class="time">{{.Time}}</span></div>
{{- end -}}
{{- define "media" -}}
<dotlottie-wc class="badge" src="{{.BadgeSrc}}" style="width: 50px;height: 50px" autoplay loop></dotlottie-wc>
<div class="right">
<h3 class="name">{{.Title}}</h3>
{{- if .ShowCover}}
<img class="cover" {{if .ProxyArt}}src="/art?src={{.CoverArt}}"{{else}}src="{{.CoverArt}}"{{end}} alt="{{.Title}}-{{.Artist}}">
{{- else}}
<p class="text">{{.Artist}}</p>
{{- end}}
</div>
{{- end -}}
`))

// HTMLRenderer renders content for the web overlay
type HTMLRenderer struct {
	proxyArt bool
}

// NewHTMLRenderer creates a renderer. With proxyArt, cover images are
// loaded through the /art endpoint instead of straight from the host URL.
func NewHTMLRenderer(proxyArt bool) *HTMLRenderer {
	return &HTMLRenderer{proxyArt: proxyArt}
}

type mediaData struct {
	domain.MediaView
	BadgeSrc string
	ProxyArt bool
}

// Render returns the inner markup of the content container
func (r *HTMLRenderer) Render(c domain.Content) (string, error) {
	var b strings.Builder

	switch c.Kind {
	case domain.ContentEmpty:
		return "", nil
	case domain.ContentClock:
		if err := templates.ExecuteTemplate(&b, "clock", c.Clock); err != nil {
			return "", fmt.Errorf("failed to render clock: %w", err)
		}
	case domain.ContentMedia:
		data := mediaData{MediaView: c.Media, BadgeSrc: BadgeSrc, ProxyArt: r.proxyArt}
		if err := templates.ExecuteTemplate(&b, "media", data); err != nil {
			return "", fmt.Errorf("failed to render media: %w", err)
		}
	default:
		return "", fmt.Errorf("unknown content kind %d", c.Kind)
	}

	return b.String(), nil
}
