package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"barokah/internal/models"
)

// Catalog reads honor is_active; deletes flip it to 0 instead of removing the
// row, so bookings that reference a retired entry keep their history.

func (db *DB) ListBrands(ctx context.Context) ([]models.PrinterBrand, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT id, name, is_active, created_at, updated_at
        FROM printer_brands WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	var brands []models.PrinterBrand
	byID := make(map[int64]int)
	for rows.Next() {
		var b models.PrinterBrand
		if err := rows.Scan(&b.ID, &b.Name, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		byID[b.ID] = len(brands)
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read brands: %w", err)
	}

	modelRows, err := db.QueryContext(ctx, `
        SELECT id, brand_id, name, type, is_active, created_at, updated_at
        FROM printer_models WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer modelRows.Close()

	for modelRows.Next() {
		var m models.PrinterModel
		if err := modelRows.Scan(&m.ID, &m.BrandID, &m.Name, &m.Type, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		if idx, ok := byID[m.BrandID]; ok {
			brands[idx].Models = append(brands[idx].Models, m)
		}
	}
	if err := modelRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read models: %w", err)
	}

	return brands, nil
}

func (db *DB) CreateBrand(ctx context.Context, brand *models.PrinterBrand) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO printer_brands (name, is_active, created_at, updated_at) VALUES (?, 1, ?, ?)`,
		brand.Name, now, now)
	if err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	brand.ID = id
	brand.IsActive = true
	brand.CreatedAt = now
	brand.UpdatedAt = now
	return nil
}

func (db *DB) UpdateBrand(ctx context.Context, id int64, name string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE printer_brands SET name = ?, updated_at = ? WHERE id = ?`, name, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update brand: %w", err)
	}
	return nil
}

func (db *DB) DeactivateBrand(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE printer_brands SET is_active = 0, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate brand: %w", err)
	}
	return nil
}

func (db *DB) CreateModel(ctx context.Context, model *models.PrinterModel) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO printer_models (brand_id, name, type, is_active, created_at, updated_at) VALUES (?, ?, ?, 1, ?, ?)`,
		model.BrandID, model.Name, model.Type, now, now)
	if err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	model.ID = id
	model.IsActive = true
	model.CreatedAt = now
	model.UpdatedAt = now
	return nil
}

func (db *DB) UpdateModel(ctx context.Context, id int64, name, modelType string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE printer_models SET name = ?, type = ?, updated_at = ? WHERE id = ?`,
		name, modelType, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update model: %w", err)
	}
	return nil
}

func (db *DB) DeactivateModel(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE printer_models SET is_active = 0, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate model: %w", err)
	}
	return nil
}

func (db *DB) ListProblemCategories(ctx context.Context) ([]models.ProblemCategory, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT id, name, icon, is_active, created_at, updated_at
        FROM problem_categories WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list problem categories: %w", err)
	}
	defer rows.Close()

	var categories []models.ProblemCategory
	byID := make(map[int64]int)
	for rows.Next() {
		var c models.ProblemCategory
		var icon sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &icon, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan problem category: %w", err)
		}
		c.Icon = icon.String
		byID[c.ID] = len(categories)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read problem categories: %w", err)
	}

	problemRows, err := db.QueryContext(ctx, `
        SELECT id, category_id, name, description, severity, estimated_time, estimated_cost, is_active, created_at, updated_at
        FROM problems WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	defer problemRows.Close()

	for problemRows.Next() {
		var p models.Problem
		var desc, estTime, estCost sql.NullString
		if err := problemRows.Scan(&p.ID, &p.CategoryID, &p.Name, &desc, &p.Severity, &estTime, &estCost, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan problem: %w", err)
		}
		p.Description = desc.String
		p.EstimatedTime = estTime.String
		p.EstimatedCost = estCost.String
		if idx, ok := byID[p.CategoryID]; ok {
			categories[idx].Problems = append(categories[idx].Problems, p)
		}
	}
	if err := problemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read problems: %w", err)
	}

	return categories, nil
}

func (db *DB) CreateProblemCategory(ctx context.Context, category *models.ProblemCategory) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO problem_categories (name, icon, is_active, created_at, updated_at) VALUES (?, ?, 1, ?, ?)`,
		category.Name, category.Icon, now, now)
	if err != nil {
		return fmt.Errorf("failed to create problem category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	category.ID = id
	category.IsActive = true
	category.CreatedAt = now
	category.UpdatedAt = now
	return nil
}

func (db *DB) UpdateProblemCategory(ctx context.Context, id int64, name, icon string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE problem_categories SET name = ?, icon = ?, updated_at = ? WHERE id = ?`,
		name, icon, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update problem category: %w", err)
	}
	return nil
}

func (db *DB) DeactivateProblemCategory(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE problem_categories SET is_active = 0, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate problem category: %w", err)
	}
	return nil
}

func (db *DB) CreateProblem(ctx context.Context, problem *models.Problem) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO problems (category_id, name, description, severity, estimated_time, estimated_cost, is_active, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		problem.CategoryID, problem.Name, problem.Description, problem.Severity,
		problem.EstimatedTime, problem.EstimatedCost, now, now)
	if err != nil {
		return fmt.Errorf("failed to create problem: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	problem.ID = id
	problem.IsActive = true
	problem.CreatedAt = now
	problem.UpdatedAt = now
	return nil
}

func (db *DB) UpdateProblem(ctx context.Context, problem *models.Problem) error {
	_, err := db.ExecContext(ctx,
		`UPDATE problems SET name = ?, description = ?, severity = ?, estimated_time = ?, estimated_cost = ?, updated_at = ?
         WHERE id = ?`,
		problem.Name, problem.Description, problem.Severity,
		problem.EstimatedTime, problem.EstimatedCost, time.Now(), problem.ID)
	if err != nil {
		return fmt.Errorf("failed to update problem: %w", err)
	}
	return nil
}

func (db *DB) DeactivateProblem(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE problems SET is_active = 0, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate problem: %w", err)
	}
	return nil
}

// BrandIDByName resolves a brand name to its id. A miss returns (nil, nil):
// the booking keeps a NULL reference instead of failing.
func (db *DB) BrandIDByName(ctx context.Context, name string) (*int64, error) {
	return db.idByName(ctx, `SELECT id FROM printer_brands WHERE name = ? AND is_active = 1`, name)
}

func (db *DB) ModelIDByName(ctx context.Context, name string) (*int64, error) {
	return db.idByName(ctx, `SELECT id FROM printer_models WHERE name = ? AND is_active = 1`, name)
}

func (db *DB) ProblemCategoryIDByName(ctx context.Context, name string) (*int64, error) {
	return db.idByName(ctx, `SELECT id FROM problem_categories WHERE name = ? AND is_active = 1`, name)
}

func (db *DB) idByName(ctx context.Context, query, name string) (*int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, query, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve name %q: %w", name, err)
	}
	return &id, nil
}
