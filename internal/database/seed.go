package database

import (
	"context"
	"fmt"

	"barokah/internal/models"
)

// SeedCatalog inserts catalog rows from configs/catalog.yaml that do not
// exist yet, matching by name. Existing rows are left untouched so admin
// edits survive restarts.
func (db *DB) SeedCatalog(ctx context.Context, seed models.CatalogSeed) error {
	for _, brand := range seed.Brands {
		id, err := db.idByName(ctx, `SELECT id FROM printer_brands WHERE name = ?`, brand.Name)
		if err != nil {
			return err
		}
		if id == nil {
			b := models.PrinterBrand{Name: brand.Name}
			if err := db.CreateBrand(ctx, &b); err != nil {
				return err
			}
			id = &b.ID
		}
		for _, model := range brand.Models {
			existing, err := db.idByName(ctx, `SELECT id FROM printer_models WHERE name = ?`, model.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			m := models.PrinterModel{BrandID: *id, Name: model.Name, Type: model.Type}
			if err := db.CreateModel(ctx, &m); err != nil {
				return err
			}
		}
	}

	for _, category := range seed.Categories {
		id, err := db.idByName(ctx, `SELECT id FROM problem_categories WHERE name = ?`, category.Name)
		if err != nil {
			return err
		}
		if id == nil {
			c := models.ProblemCategory{Name: category.Name, Icon: category.Icon}
			if err := db.CreateProblemCategory(ctx, &c); err != nil {
				return err
			}
			id = &c.ID
		}
		for _, problem := range category.Problems {
			existing, err := db.idByName(ctx, `SELECT id FROM problems WHERE name = ?`, problem.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			p := problem
			p.CategoryID = *id
			if err := db.CreateProblem(ctx, &p); err != nil {
				return err
			}
		}
	}

	for _, technician := range seed.Technicians {
		existing, err := db.idByName(ctx, `SELECT id FROM technicians WHERE name = ?`, technician.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		t := technician
		if err := db.CreateTechnician(ctx, &t); err != nil {
			return fmt.Errorf("failed to seed technician %q: %w", t.Name, err)
		}
	}

	return nil
}
