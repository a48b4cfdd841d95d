package models

import "time"

type PrinterBrand struct {
	ID        int64          `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Models    []PrinterModel `json:"models,omitempty" yaml:"models"`
	IsActive  bool           `json:"is_active" yaml:"-"`
	CreatedAt time.Time      `json:"created_at" yaml:"-"`
	UpdatedAt time.Time      `json:"updated_at" yaml:"-"`
}

type PrinterModel struct {
	ID        int64     `json:"id" yaml:"id"`
	BrandID   int64     `json:"brand_id" yaml:"-"`
	Name      string    `json:"name" yaml:"name"`
	Type      string    `json:"type" yaml:"type"` // inkjet, laser, multifunction
	IsActive  bool      `json:"is_active" yaml:"-"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

type ProblemCategory struct {
	ID        int64     `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Icon      string    `json:"icon" yaml:"icon"`
	Problems  []Problem `json:"problems,omitempty" yaml:"problems"`
	IsActive  bool      `json:"is_active" yaml:"-"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

type Problem struct {
	ID            int64     `json:"id" yaml:"id"`
	CategoryID    int64     `json:"category_id" yaml:"-"`
	Name          string    `json:"name" yaml:"name"`
	Description   string    `json:"description" yaml:"description"`
	Severity      string    `json:"severity" yaml:"severity"` // low, medium, high
	EstimatedTime string    `json:"estimated_time" yaml:"estimated_time"`
	EstimatedCost string    `json:"estimated_cost" yaml:"estimated_cost"`
	IsActive      bool      `json:"is_active" yaml:"-"`
	CreatedAt     time.Time `json:"created_at" yaml:"-"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"-"`
}

// CatalogSeed is the shape of configs/catalog.yaml, loaded at startup and
// inserted where the corresponding rows do not exist yet.
type CatalogSeed struct {
	Brands      []PrinterBrand    `yaml:"brands"`
	Categories  []ProblemCategory `yaml:"categories"`
	Technicians []Technician      `yaml:"technicians"`
}
