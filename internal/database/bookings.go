package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"barokah/internal/models"
)

const maxCodeAttempts = 10

// newBookingCode derives a short human-readable code from the clock; retries
// fall back to a random suffix. Codes are stored uppercase and looked up
// case-insensitively.
func newBookingCode(attempt int) string {
	n := time.Now().UnixMilli() % 1_000_000
	if attempt > 0 {
		n = rand.Int63n(1_000_000)
	}
	return fmt.Sprintf("%s%06d", models.BookingCodePrefix, n)
}

// CreateBooking inserts the booking row and seeds the fixed five-stage
// timeline in one transaction. The store allocates the booking code; the
// first stage is marked completed immediately. On success booking.ID carries
// the new code.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	var code string
	for attempt := 0; ; attempt++ {
		if attempt >= maxCodeAttempts {
			return ErrCodeCollision
		}
		code = newBookingCode(attempt)
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM service_bookings WHERE id = ?`, code).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check booking code: %w", err)
		}
		if exists == 0 {
			break
		}
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO service_bookings (
            id, customer_id, printer_brand_id, printer_model_id, problem_category_id,
            problem_description, service_type, appointment_date, appointment_time,
            status, technician_id, estimated_cost, actual_cost, notes, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		code,
		booking.CustomerID,
		booking.PrinterBrandID,
		booking.PrinterModelID,
		booking.ProblemCategoryID,
		booking.ProblemDescription,
		booking.ServiceType,
		booking.AppointmentDate,
		booking.AppointmentTime,
		models.StatusPending,
		booking.TechnicianID,
		booking.EstimatedCost,
		booking.ActualCost,
		booking.Notes,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	for i, stage := range models.TimelineStages {
		completed := i == 0
		var completedAt any
		if completed {
			completedAt = now
		}
		_, err = tx.ExecContext(ctx, `
            INSERT INTO booking_timeline (booking_id, status, title, description, completed, completed_at, created_at)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			code, stage.Status, stage.Title, stage.Description, completed, completedAt, now,
		)
		if err != nil {
			return fmt.Errorf("failed to seed timeline: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}

	booking.ID = code
	booking.Status = models.StatusPending
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

const bookingDetailQuery = `
    SELECT b.id,
           c.id, c.name, c.phone, COALESCE(c.email, ''), COALESCE(c.address, ''),
           COALESCE(pb.name, ''), COALESCE(pm.name, ''), COALESCE(pc.name, ''),
           COALESCE(b.problem_description, ''), b.service_type, b.appointment_date, b.appointment_time,
           b.status, COALESCE(t.name, ''), COALESCE(b.estimated_cost, ''), COALESCE(b.actual_cost, ''),
           COALESCE(b.notes, ''), b.created_at
    FROM service_bookings b
    JOIN customers c ON c.id = b.customer_id
    LEFT JOIN printer_brands pb ON pb.id = b.printer_brand_id
    LEFT JOIN printer_models pm ON pm.id = b.printer_model_id
    LEFT JOIN problem_categories pc ON pc.id = b.problem_category_id
    LEFT JOIN technicians t ON t.id = b.technician_id
`

func scanBookingDetail(row interface{ Scan(...any) error }) (*models.BookingDetail, error) {
	var d models.BookingDetail
	err := row.Scan(
		&d.ID,
		&d.Customer.ID, &d.Customer.Name, &d.Customer.Phone, &d.Customer.Email, &d.Customer.Address,
		&d.PrinterBrand, &d.PrinterModel, &d.ProblemCategory,
		&d.ProblemDescription, &d.ServiceType, &d.AppointmentDate, &d.AppointmentTime,
		&d.Status, &d.Technician, &d.EstimatedCost, &d.ActualCost,
		&d.Notes, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if d.Technician == "" {
		d.Technician = models.TechnicianUnassigned
	}
	return &d, nil
}

// GetBookingDetail assembles the denormalized view for one booking. The code
// is matched case-insensitively. A missing booking returns (nil, nil) so the
// caller can distinguish "not found" from a query failure.
func (db *DB) GetBookingDetail(ctx context.Context, code string) (*models.BookingDetail, error) {
	row := db.QueryRowContext(ctx, bookingDetailQuery+` WHERE UPPER(b.id) = UPPER(?)`, code)
	detail, err := scanBookingDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	timeline, err := db.bookingTimeline(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	detail.Timeline = timeline
	return detail, nil
}

// ListBookingDetails returns all bookings, newest first, with timelines
// attached in a single follow-up query.
func (db *DB) ListBookingDetails(ctx context.Context) ([]models.BookingDetail, error) {
	rows, err := db.QueryContext(ctx, bookingDetailQuery+` ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var details []models.BookingDetail
	byID := make(map[string]int)
	for rows.Next() {
		detail, err := scanBookingDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		byID[detail.ID] = len(details)
		details = append(details, *detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookings: %w", err)
	}
	if len(details) == 0 {
		return details, nil
	}

	timelineRows, err := db.QueryContext(ctx, `
        SELECT id, booking_id, status, title, COALESCE(description, ''), completed, completed_at, created_at
        FROM booking_timeline ORDER BY booking_id, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list timelines: %w", err)
	}
	defer timelineRows.Close()

	for timelineRows.Next() {
		entry, err := scanTimelineEntry(timelineRows)
		if err != nil {
			return nil, err
		}
		if idx, ok := byID[entry.BookingID]; ok {
			details[idx].Timeline = append(details[idx].Timeline, entry)
		}
	}
	if err := timelineRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read timelines: %w", err)
	}

	return details, nil
}

func scanTimelineEntry(rows *sql.Rows) (models.TimelineEntry, error) {
	var e models.TimelineEntry
	var completedAt sql.NullTime
	err := rows.Scan(&e.ID, &e.BookingID, &e.Status, &e.Title, &e.Description, &e.Completed, &completedAt, &e.CreatedAt)
	if err != nil {
		return e, fmt.Errorf("failed to scan timeline entry: %w", err)
	}
	if completedAt.Valid {
		e.CompletedAt = &completedAt.Time
	}
	return e, nil
}

func (db *DB) bookingTimeline(ctx context.Context, bookingID string) ([]models.TimelineEntry, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT id, booking_id, status, title, COALESCE(description, ''), completed, completed_at, created_at
        FROM booking_timeline WHERE booking_id = ? ORDER BY id`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get timeline: %w", err)
	}
	defer rows.Close()

	var timeline []models.TimelineEntry
	for rows.Next() {
		entry, err := scanTimelineEntry(rows)
		if err != nil {
			return nil, err
		}
		timeline = append(timeline, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read timeline: %w", err)
	}
	return timeline, nil
}

// UpdateBookingStatus sets the booking's status and marks the matching
// timeline stage completed. Stages skipped by a fast-forward stay
// uncompleted. Returns false without error when the code is unknown.
func (db *DB) UpdateBookingStatus(ctx context.Context, code, status string) (bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`UPDATE service_bookings SET status = ?, updated_at = ? WHERE UPPER(id) = UPPER(?)`,
		status, now, code)
	if err != nil {
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	// Cancellation has no timeline stage; only the five fixed stages match.
	_, err = tx.ExecContext(ctx, `
        UPDATE booking_timeline SET completed = 1, completed_at = ?
        WHERE UPPER(booking_id) = UPPER(?) AND status = ?`,
		now, code, status)
	if err != nil {
		return false, fmt.Errorf("failed to update timeline: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit status update: %w", err)
	}
	return true, nil
}

// AssignTechnician is a single-field update; assignment stays reassignable.
func (db *DB) AssignTechnician(ctx context.Context, code string, technicianID int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE service_bookings SET technician_id = ?, updated_at = ? WHERE UPPER(id) = UPPER(?)`,
		technicianID, time.Now(), code)
	if err != nil {
		return false, fmt.Errorf("failed to assign technician: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// UpdateActualCost stores the amount as opaque text; no numeric validation.
func (db *DB) UpdateActualCost(ctx context.Context, code, actualCost string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE service_bookings SET actual_cost = ?, updated_at = ? WHERE UPPER(id) = UPPER(?)`,
		actualCost, time.Now(), code)
	if err != nil {
		return false, fmt.Errorf("failed to update actual cost: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// BookingStatusCounts powers the dashboard summary cards.
func (db *DB) BookingStatusCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := db.QueryContext(ctx, `SELECT status, COUNT(*) FROM service_bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan booking count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read booking counts: %w", err)
	}
	return counts, nil
}

// CompletedActualCosts returns the raw actual_cost strings of completed
// bookings for best-effort revenue aggregation.
func (db *DB) CompletedActualCosts(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT COALESCE(actual_cost, '') FROM service_bookings WHERE status = ?`, models.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list actual costs: %w", err)
	}
	defer rows.Close()

	var costs []string
	for rows.Next() {
		var cost string
		if err := rows.Scan(&cost); err != nil {
			return nil, fmt.Errorf("failed to scan actual cost: %w", err)
		}
		costs = append(costs, cost)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read actual costs: %w", err)
	}
	return costs, nil
}
