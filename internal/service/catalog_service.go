package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"barokah/internal/domain"
	"barokah/internal/events"
	"barokah/internal/models"
	"barokah/internal/repository"

	"github.com/rs/zerolog"
)

// catalogTTL bounds staleness when the invalidator misses an event, e.g.
// after a cache backend failover.
const catalogTTL = 10 * time.Minute

// CatalogService serves brand/model and problem reference data with a
// read-through cache. The public booking page hits these lists on every
// load, so reads go through the cache; mutations hit the store and publish
// a change event which drops the cached collection.
type CatalogService struct {
	store  domain.Store
	bus    domain.EventPublisher
	cache  domain.Cache
	logger *zerolog.Logger
}

func NewCatalogService(store domain.Store, bus domain.EventPublisher, cache domain.Cache, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{store: store, bus: bus, cache: cache, logger: logger}
}

// Brands returns active brands with their active models nested. Degrades
// to an empty list on store failure.
func (s *CatalogService) Brands(ctx context.Context) []models.PrinterBrand {
	var brands []models.PrinterBrand
	if s.cached(ctx, repository.KeyBrands, &brands) {
		return brands
	}

	brands, err := s.store.ListBrands(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("list brands failed")
		return []models.PrinterBrand{}
	}
	s.fill(ctx, repository.KeyBrands, brands)
	return brands
}

// ProblemCategories returns active categories with their problems nested.
func (s *CatalogService) ProblemCategories(ctx context.Context) []models.ProblemCategory {
	var categories []models.ProblemCategory
	if s.cached(ctx, repository.KeyCategories, &categories) {
		return categories
	}

	categories, err := s.store.ListProblemCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("list problem categories failed")
		return []models.ProblemCategory{}
	}
	s.fill(ctx, repository.KeyCategories, categories)
	return categories
}

func (s *CatalogService) CreateBrand(ctx context.Context, name string) (*models.PrinterBrand, error) {
	brand := models.PrinterBrand{Name: name, IsActive: true}
	if err := s.store.CreateBrand(ctx, &brand); err != nil {
		return nil, fmt.Errorf("create brand: %w", err)
	}
	s.publish(events.TopicBrands, events.ActionInsert, brand.ID)
	return &brand, nil
}

func (s *CatalogService) UpdateBrand(ctx context.Context, id int64, name string) error {
	if err := s.store.UpdateBrand(ctx, id, name); err != nil {
		return fmt.Errorf("update brand: %w", err)
	}
	s.publish(events.TopicBrands, events.ActionUpdate, id)
	return nil
}

// DeleteBrand is a soft delete. Existing bookings keep their reference and
// still render the brand name; only the public pickers lose it.
func (s *CatalogService) DeleteBrand(ctx context.Context, id int64) error {
	if err := s.store.DeactivateBrand(ctx, id); err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	s.publish(events.TopicBrands, events.ActionDelete, id)
	return nil
}

func (s *CatalogService) CreateModel(ctx context.Context, brandID int64, name, modelType string) (*models.PrinterModel, error) {
	model := models.PrinterModel{BrandID: brandID, Name: name, Type: modelType, IsActive: true}
	if err := s.store.CreateModel(ctx, &model); err != nil {
		return nil, fmt.Errorf("create model: %w", err)
	}
	s.publish(events.TopicModels, events.ActionInsert, model.ID)
	return &model, nil
}

func (s *CatalogService) UpdateModel(ctx context.Context, id int64, name, modelType string) error {
	if err := s.store.UpdateModel(ctx, id, name, modelType); err != nil {
		return fmt.Errorf("update model: %w", err)
	}
	s.publish(events.TopicModels, events.ActionUpdate, id)
	return nil
}

func (s *CatalogService) DeleteModel(ctx context.Context, id int64) error {
	if err := s.store.DeactivateModel(ctx, id); err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	s.publish(events.TopicModels, events.ActionDelete, id)
	return nil
}

func (s *CatalogService) CreateProblemCategory(ctx context.Context, name, icon string) (*models.ProblemCategory, error) {
	category := models.ProblemCategory{Name: name, Icon: icon, IsActive: true}
	if err := s.store.CreateProblemCategory(ctx, &category); err != nil {
		return nil, fmt.Errorf("create problem category: %w", err)
	}
	s.publish(events.TopicCategories, events.ActionInsert, category.ID)
	return &category, nil
}

func (s *CatalogService) UpdateProblemCategory(ctx context.Context, id int64, name, icon string) error {
	if err := s.store.UpdateProblemCategory(ctx, id, name, icon); err != nil {
		return fmt.Errorf("update problem category: %w", err)
	}
	s.publish(events.TopicCategories, events.ActionUpdate, id)
	return nil
}

func (s *CatalogService) DeleteProblemCategory(ctx context.Context, id int64) error {
	if err := s.store.DeactivateProblemCategory(ctx, id); err != nil {
		return fmt.Errorf("delete problem category: %w", err)
	}
	s.publish(events.TopicCategories, events.ActionDelete, id)
	return nil
}

func (s *CatalogService) CreateProblem(ctx context.Context, problem *models.Problem) error {
	problem.IsActive = true
	if problem.Severity == "" {
		problem.Severity = "medium"
	}
	if err := s.store.CreateProblem(ctx, problem); err != nil {
		return fmt.Errorf("create problem: %w", err)
	}
	s.publish(events.TopicProblems, events.ActionInsert, problem.ID)
	return nil
}

func (s *CatalogService) UpdateProblem(ctx context.Context, problem *models.Problem) error {
	if err := s.store.UpdateProblem(ctx, problem); err != nil {
		return fmt.Errorf("update problem: %w", err)
	}
	s.publish(events.TopicProblems, events.ActionUpdate, problem.ID)
	return nil
}

func (s *CatalogService) DeleteProblem(ctx context.Context, id int64) error {
	if err := s.store.DeactivateProblem(ctx, id); err != nil {
		return fmt.Errorf("delete problem: %w", err)
	}
	s.publish(events.TopicProblems, events.ActionDelete, id)
	return nil
}

// cached loads key into dst and reports whether it hit. Cache failures are
// logged and treated as misses.
func (s *CatalogService) cached(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return false
	}
	return true
}

func (s *CatalogService) fill(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, catalogTTL); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (s *CatalogService) publish(topic, action string, id int64) {
	if s.bus == nil {
		return
	}
	s.bus.PublishChange(topic, action, strconv.FormatInt(id, 10))
}
