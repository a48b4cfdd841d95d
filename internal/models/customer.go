package models

import "time"

// Customer is deduplicated by phone number: a repeat booking with a known phone
// updates name/email/address on the existing row (last write wins).
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
