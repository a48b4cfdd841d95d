package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"barokah/internal/domain"
	"barokah/internal/events"
	"barokah/internal/models"

	"github.com/rs/zerolog"
)

var (
	// ErrMissingContact rejects submissions without a name or phone; the
	// phone is the customer deduplication key and cannot be empty.
	ErrMissingContact = errors.New("customer name and phone are required")

	// ErrUnknownStatus rejects status values outside the lifecycle enum.
	ErrUnknownStatus = errors.New("unknown booking status")
)

// BookingService drives the booking lifecycle: creation with the seeded
// timeline, status transitions, technician assignment and cost
// finalization.
type BookingService struct {
	store  domain.Store
	bus    domain.EventPublisher
	worker domain.SyncWorker
	logger *zerolog.Logger
}

func NewBookingService(store domain.Store, bus domain.EventPublisher, worker domain.SyncWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{store: store, bus: bus, worker: worker, logger: logger}
}

// CreateBooking runs the whole submission flow and returns the new booking
// code. Catalog names that no longer resolve become NULL references rather
// than errors; an unrecognized problem category falls back to the default
// cost range. Any store failure aborts the creation and is returned to the
// caller, who owns the user-facing message.
func (s *BookingService) CreateBooking(ctx context.Context, form models.BookingForm) (string, error) {
	if strings.TrimSpace(form.CustomerName) == "" || strings.TrimSpace(form.Phone) == "" {
		return "", ErrMissingContact
	}

	customer := models.Customer{
		Name:    form.CustomerName,
		Phone:   form.Phone,
		Email:   form.Email,
		Address: form.Address,
	}
	if err := s.store.UpsertCustomerByPhone(ctx, &customer); err != nil {
		return "", fmt.Errorf("upsert customer: %w", err)
	}

	brandID, err := s.store.BrandIDByName(ctx, form.PrinterBrand)
	if err != nil {
		return "", fmt.Errorf("resolve brand: %w", err)
	}
	modelID, err := s.store.ModelIDByName(ctx, form.PrinterModel)
	if err != nil {
		return "", fmt.Errorf("resolve model: %w", err)
	}
	categoryID, err := s.store.ProblemCategoryIDByName(ctx, form.ProblemCategory)
	if err != nil {
		return "", fmt.Errorf("resolve problem category: %w", err)
	}

	technicianID, err := s.store.FirstAvailableTechnician(ctx)
	if err != nil {
		return "", fmt.Errorf("pick technician: %w", err)
	}

	serviceType := form.ServiceType
	if serviceType == "" {
		serviceType = models.DefaultServiceType
	}

	booking := models.Booking{
		CustomerID:         customer.ID,
		PrinterBrandID:     brandID,
		PrinterModelID:     modelID,
		ProblemCategoryID:  categoryID,
		ProblemDescription: form.ProblemDescription,
		ServiceType:        serviceType,
		AppointmentDate:    form.AppointmentDate,
		AppointmentTime:    form.AppointmentTime,
		TechnicianID:       technicianID,
		EstimatedCost:      models.EstimatedCostFor(form.ProblemCategory),
		Notes:              form.Notes,
	}

	if err := s.store.CreateBooking(ctx, &booking); err != nil {
		return "", fmt.Errorf("create booking: %w", err)
	}

	s.publish(events.TopicCustomers, events.ActionUpdate, customer.Phone)
	s.publish(events.TopicBookings, events.ActionInsert, booking.ID)
	s.publish(events.TopicBookingTimeline, events.ActionInsert, booking.ID)
	s.enqueueAppend(ctx, booking.ID)

	s.logger.Info().Str("booking_id", booking.ID).Str("phone", customer.Phone).Msg("booking created")
	return booking.ID, nil
}

// GetBooking returns (nil, nil) for an unknown code; errors mean the store
// was unreachable, and the two outcomes must stay distinguishable.
func (s *BookingService) GetBooking(ctx context.Context, code string) (*models.BookingDetail, error) {
	return s.store.GetBookingDetail(ctx, code)
}

// ListBookings degrades to an empty list on failure: a broken dashboard
// refresh shows "no data", it does not crash the page.
func (s *BookingService) ListBookings(ctx context.Context) []models.BookingDetail {
	details, err := s.store.ListBookingDetails(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("list bookings failed")
		return []models.BookingDetail{}
	}
	return details
}

// UpdateStatus sets any known status from any current status; transitions
// are not validated against an order, so fast-forwarding is allowed. The
// timeline entry matching the new status is stamped; skipped stages stay
// uncompleted.
func (s *BookingService) UpdateStatus(ctx context.Context, code, status string) (bool, error) {
	if !models.ValidStatus(status) {
		return false, ErrUnknownStatus
	}

	ok, err := s.store.UpdateBookingStatus(ctx, code, status)
	if err != nil || !ok {
		return ok, err
	}

	s.publish(events.TopicBookings, events.ActionUpdate, code)
	s.publish(events.TopicBookingTimeline, events.ActionUpdate, code)
	s.enqueueStatus(ctx, code, status)

	s.logger.Info().Str("booking_id", code).Str("status", status).Msg("booking status updated")
	return true, nil
}

func (s *BookingService) AssignTechnician(ctx context.Context, code string, technicianID int64) (bool, error) {
	ok, err := s.store.AssignTechnician(ctx, code, technicianID)
	if err != nil || !ok {
		return ok, err
	}
	s.publish(events.TopicBookings, events.ActionUpdate, code)
	return true, nil
}

func (s *BookingService) SetActualCost(ctx context.Context, code, actualCost string) (bool, error) {
	ok, err := s.store.UpdateActualCost(ctx, code, actualCost)
	if err != nil || !ok {
		return ok, err
	}
	s.publish(events.TopicBookings, events.ActionUpdate, code)
	return true, nil
}

// Stats aggregates dashboard numbers. Revenue sums completed bookings'
// actual_cost strings with non-digits stripped; the amounts are free-form
// text, so this stays best-effort.
func (s *BookingService) Stats(ctx context.Context) models.DashboardStats {
	stats := models.DashboardStats{ByStatus: make(map[string]int64)}

	counts, err := s.store.BookingStatusCounts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("booking status counts failed")
		return stats
	}
	for status, count := range counts {
		stats.ByStatus[status] = count
		stats.TotalBookings += count
	}

	costs, err := s.store.CompletedActualCosts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("actual cost listing failed")
		return stats
	}
	for _, cost := range costs {
		stats.Revenue += parseRupiah(cost)
	}
	return stats
}

// parseRupiah strips everything but digits: "Rp 150.000" -> 150000.
func parseRupiah(raw string) int64 {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (s *BookingService) publish(topic, action, rowID string) {
	if s.bus == nil {
		return
	}
	s.bus.PublishChange(topic, action, rowID)
}

func (s *BookingService) enqueueAppend(ctx context.Context, bookingID string) {
	if s.worker == nil {
		return
	}
	if err := s.worker.EnqueueAppend(ctx, bookingID); err != nil {
		s.logger.Error().Err(err).Str("booking_id", bookingID).Msg("sheets enqueue error")
	}
}

func (s *BookingService) enqueueStatus(ctx context.Context, bookingID, status string) {
	if s.worker == nil {
		return
	}
	if err := s.worker.EnqueueStatusUpdate(ctx, bookingID, status); err != nil {
		s.logger.Error().Err(err).Str("booking_id", bookingID).Msg("sheets enqueue error")
	}
}
