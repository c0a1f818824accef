// Package display reports the geometry of the screen the island sits on.
package display

import (
	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

const (
	fallbackWidth  = 1920
	fallbackHeight = 1080
)

// Resolution holds the display dimensions
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewResolution detects the primary screen resolution at startup
func NewResolution(logger *zap.Logger) Resolution {
	return detect(logger, screenshot.NumActiveDisplays, func() (int, int) {
		bounds := screenshot.GetDisplayBounds(0)
		return bounds.Dx(), bounds.Dy()
	})
}

func detect(logger *zap.Logger, count func() int, primary func() (int, int)) Resolution {
	if count() <= 0 {
		logger.Warn("No active displays detected, falling back to 1920x1080")
		return Resolution{Width: fallbackWidth, Height: fallbackHeight}
	}

	w, h := primary()
	if w <= 0 || h <= 0 {
		logger.Warn("Primary display reported no size, falling back to 1920x1080")
		return Resolution{Width: fallbackWidth, Height: fallbackHeight}
	}

	res := Resolution{Width: w, Height: h}
	logger.Info("Screen resolution detected",
		zap.Int("width", res.Width),
		zap.Int("height", res.Height))
	return res
}
