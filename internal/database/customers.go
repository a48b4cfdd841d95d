package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"barokah/internal/models"
)

// UpsertCustomerByPhone creates the customer or, when the phone already
// exists, overwrites name/email/address on the existing row. Last write wins;
// there is no merge logic. The row id is written back into customer.ID.
func (db *DB) UpsertCustomerByPhone(ctx context.Context, customer *models.Customer) error {
	query := `
        INSERT INTO customers (name, phone, email, address, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(phone) DO UPDATE SET
            name = excluded.name,
            email = excluded.email,
            address = excluded.address,
            updated_at = excluded.updated_at
    `
	now := time.Now()
	if _, err := db.ExecContext(ctx, query,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.Address,
		now,
		now,
	); err != nil {
		return fmt.Errorf("failed to upsert customer: %w", err)
	}

	err := db.QueryRowContext(ctx, `SELECT id, created_at FROM customers WHERE phone = ?`, customer.Phone).
		Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to read back customer id: %w", err)
	}
	customer.UpdatedAt = now

	return nil
}

// GetCustomerByPhone returns nil without error when the phone is unknown.
func (db *DB) GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	query := `SELECT id, name, phone, email, address, created_at, updated_at FROM customers WHERE phone = ?`

	var c models.Customer
	err := db.QueryRowContext(ctx, query, phone).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by phone: %w", err)
	}
	return &c, nil
}

// CountCustomers is used by tests and the dashboard stats.
func (db *DB) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}
