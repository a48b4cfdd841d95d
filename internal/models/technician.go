package models

import "time"

type Technician struct {
	ID             int64     `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	Phone          string    `json:"phone" yaml:"phone"`
	Email          string    `json:"email" yaml:"email"`
	Specialization string    `json:"specialization" yaml:"specialization"`
	Experience     int64     `json:"experience" yaml:"experience"` // years
	Rating         float64   `json:"rating" yaml:"rating"`
	IsAvailable    bool      `json:"is_available" yaml:"is_available"`
	IsActive       bool      `json:"is_active" yaml:"-"`
	CreatedAt      time.Time `json:"created_at" yaml:"-"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"-"`
}
