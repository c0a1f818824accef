// Package artwork serves cover art thumbnails for the island.
package artwork

import (
	"context"
	"fmt"

	"github.com/genricoloni/island/internal/domain"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Service fetches, thumbnails and caches cover art by source URL
type Service struct {
	logger  *zap.Logger
	fetcher *Fetcher
	thumbs  *Thumbnailer
	cache   *lru.Cache[string, []byte]
}

// NewService creates the artwork service from configuration
func NewService(logger *zap.Logger, cfg domain.Config) (*Service, error) {
	cache, err := lru.New[string, []byte](cfg.GetArtCacheSize())
	if err != nil {
		return nil, fmt.Errorf("failed to create art cache: %w", err)
	}

	return &Service{
		logger:  logger,
		fetcher: NewFetcher(logger),
		thumbs:  NewThumbnailer(logger, cfg.GetArtSize()),
		cache:   cache,
	}, nil
}

// Thumbnail returns the JPEG thumbnail of the art at src
func (s *Service) Thumbnail(ctx context.Context, src string) ([]byte, error) {
	if data, ok := s.cache.Get(src); ok {
		return data, nil
	}

	raw, err := s.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artwork: %w", err)
	}

	data, err := s.thumbs.Process(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to process artwork: %w", err)
	}

	s.cache.Add(src, data)
	s.logger.Debug("Artwork cached", zap.String("src", src), zap.Int("entries", s.cache.Len()))
	return data, nil
}
