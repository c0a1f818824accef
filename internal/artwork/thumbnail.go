package artwork

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG format support

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// Thumbnailer crops and scales cover art to the square shown in the island
type Thumbnailer struct {
	logger *zap.Logger
	size   int
}

// NewThumbnailer creates a thumbnailer producing size×size JPEGs
func NewThumbnailer(logger *zap.Logger, size int) *Thumbnailer {
	return &Thumbnailer{logger: logger, size: size}
}

// Process decodes imageData and returns a centred square JPEG thumbnail
func (t *Thumbnailer) Process(imageData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// Validate image dimensions to prevent division by zero
	bounds := img.Bounds()
	if bounds.Dy() == 0 || bounds.Dx() == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	thumb := imaging.Fill(img, t.size, t.size, imaging.Center, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	t.logger.Debug("Thumbnail created", zap.Int("size", t.size), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}
