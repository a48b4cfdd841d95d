package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"barokah/internal/domain"
	"barokah/internal/events"
	"barokah/internal/models"
	"barokah/internal/repository"

	"github.com/rs/zerolog"
)

// GalleryService manages the workshop photo gallery shown on the public
// site.
type GalleryService struct {
	store  domain.Store
	bus    domain.EventPublisher
	cache  domain.Cache
	logger *zerolog.Logger
}

func NewGalleryService(store domain.Store, bus domain.EventPublisher, cache domain.Cache, logger *zerolog.Logger) *GalleryService {
	return &GalleryService{store: store, bus: bus, cache: cache, logger: logger}
}

func (s *GalleryService) Images(ctx context.Context) []models.GalleryImage {
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, repository.KeyGallery); err == nil && ok {
			var images []models.GalleryImage
			if json.Unmarshal(raw, &images) == nil {
				return images
			}
		}
	}

	images, err := s.store.ListGalleryImages(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("list gallery images failed")
		return []models.GalleryImage{}
	}
	if s.cache != nil {
		if raw, err := json.Marshal(images); err == nil {
			if err := s.cache.Set(ctx, repository.KeyGallery, raw, catalogTTL); err != nil {
				s.logger.Warn().Err(err).Msg("cache write failed")
			}
		}
	}
	return images
}

func (s *GalleryService) CreateImage(ctx context.Context, image *models.GalleryImage) error {
	image.IsActive = true
	if err := s.store.CreateGalleryImage(ctx, image); err != nil {
		return fmt.Errorf("create gallery image: %w", err)
	}
	s.publish(events.ActionInsert, image.ID)
	return nil
}

func (s *GalleryService) UpdateImage(ctx context.Context, image *models.GalleryImage) error {
	if err := s.store.UpdateGalleryImage(ctx, image); err != nil {
		return fmt.Errorf("update gallery image: %w", err)
	}
	s.publish(events.ActionUpdate, image.ID)
	return nil
}

func (s *GalleryService) DeleteImage(ctx context.Context, id int64) error {
	if err := s.store.DeactivateGalleryImage(ctx, id); err != nil {
		return fmt.Errorf("delete gallery image: %w", err)
	}
	s.publish(events.ActionDelete, id)
	return nil
}

func (s *GalleryService) publish(action string, id int64) {
	if s.bus == nil {
		return
	}
	s.bus.PublishChange(events.TopicGallery, action, strconv.FormatInt(id, 10))
}
