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

// TechnicianService manages the technician roster. Reads are cached like
// the catalog lists; the roster is shown on the public site.
type TechnicianService struct {
	store  domain.Store
	bus    domain.EventPublisher
	cache  domain.Cache
	logger *zerolog.Logger
}

func NewTechnicianService(store domain.Store, bus domain.EventPublisher, cache domain.Cache, logger *zerolog.Logger) *TechnicianService {
	return &TechnicianService{store: store, bus: bus, cache: cache, logger: logger}
}

func (s *TechnicianService) Technicians(ctx context.Context) []models.Technician {
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, repository.KeyTechnicians); err == nil && ok {
			var technicians []models.Technician
			if json.Unmarshal(raw, &technicians) == nil {
				return technicians
			}
		}
	}

	technicians, err := s.store.ListTechnicians(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("list technicians failed")
		return []models.Technician{}
	}
	if s.cache != nil {
		if raw, err := json.Marshal(technicians); err == nil {
			if err := s.cache.Set(ctx, repository.KeyTechnicians, raw, catalogTTL); err != nil {
				s.logger.Warn().Err(err).Msg("cache write failed")
			}
		}
	}
	return technicians
}

func (s *TechnicianService) CreateTechnician(ctx context.Context, technician *models.Technician) error {
	technician.IsActive = true
	if err := s.store.CreateTechnician(ctx, technician); err != nil {
		return fmt.Errorf("create technician: %w", err)
	}
	s.publish(events.ActionInsert, technician.ID)
	return nil
}

func (s *TechnicianService) UpdateTechnician(ctx context.Context, technician *models.Technician) error {
	if err := s.store.UpdateTechnician(ctx, technician); err != nil {
		return fmt.Errorf("update technician: %w", err)
	}
	s.publish(events.ActionUpdate, technician.ID)
	return nil
}

// DeleteTechnician soft deletes. Bookings assigned to the technician keep
// the reference and keep rendering the name.
func (s *TechnicianService) DeleteTechnician(ctx context.Context, id int64) error {
	if err := s.store.DeactivateTechnician(ctx, id); err != nil {
		return fmt.Errorf("delete technician: %w", err)
	}
	s.publish(events.ActionDelete, id)
	return nil
}

func (s *TechnicianService) publish(action string, id int64) {
	if s.bus == nil {
		return
	}
	s.bus.PublishChange(events.TopicTechnicians, action, strconv.FormatInt(id, 10))
}
