package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"barokah/internal/models"
)

func (db *DB) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT id, name, phone, email, specialization, experience, rating, is_available, is_active, created_at, updated_at
        FROM technicians WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	var technicians []models.Technician
	for rows.Next() {
		var t models.Technician
		var phone, email, spec sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &phone, &email, &spec, &t.Experience, &t.Rating, &t.IsAvailable, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		t.Phone = phone.String
		t.Email = email.String
		t.Specialization = spec.String
		technicians = append(technicians, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read technicians: %w", err)
	}
	return technicians, nil
}

// FirstAvailableTechnician picks the first active, available technician in
// name order. No load balancing; assignment is advisory and reassignable.
// Returns (nil, nil) when nobody is available.
func (db *DB) FirstAvailableTechnician(ctx context.Context) (*int64, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM technicians WHERE is_available = 1 AND is_active = 1 ORDER BY name LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find available technician: %w", err)
	}
	return &id, nil
}

func (db *DB) CreateTechnician(ctx context.Context, t *models.Technician) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO technicians (name, phone, email, specialization, experience, rating, is_available, is_active, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		t.Name, t.Phone, t.Email, t.Specialization, t.Experience, t.Rating, t.IsAvailable, now, now)
	if err != nil {
		return fmt.Errorf("failed to create technician: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	t.ID = id
	t.IsActive = true
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (db *DB) UpdateTechnician(ctx context.Context, t *models.Technician) error {
	_, err := db.ExecContext(ctx,
		`UPDATE technicians SET name = ?, phone = ?, email = ?, specialization = ?, experience = ?, rating = ?, is_available = ?, updated_at = ?
         WHERE id = ?`,
		t.Name, t.Phone, t.Email, t.Specialization, t.Experience, t.Rating, t.IsAvailable, time.Now(), t.ID)
	if err != nil {
		return fmt.Errorf("failed to update technician: %w", err)
	}
	return nil
}

func (db *DB) DeactivateTechnician(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE technicians SET is_active = 0, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate technician: %w", err)
	}
	return nil
}
