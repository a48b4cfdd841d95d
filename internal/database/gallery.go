package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"barokah/internal/models"
)

func (db *DB) ListGalleryImages(ctx context.Context) ([]models.GalleryImage, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT id, title, alt_text, image_url, category, sort_order, is_active, created_at, updated_at
        FROM gallery_images WHERE is_active = 1 ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery images: %w", err)
	}
	defer rows.Close()

	var images []models.GalleryImage
	for rows.Next() {
		var img models.GalleryImage
		var alt, category sql.NullString
		if err := rows.Scan(&img.ID, &img.Title, &alt, &img.ImageURL, &category, &img.SortOrder, &img.IsActive, &img.CreatedAt, &img.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gallery image: %w", err)
		}
		img.AltText = alt.String
		img.Category = category.String
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read gallery images: %w", err)
	}
	return images, nil
}

func (db *DB) CreateGalleryImage(ctx context.Context, img *models.GalleryImage) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO gallery_images (title, alt_text, image_url, category, sort_order, is_active, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, 1, ?, ?)`,
		img.Title, img.AltText, img.ImageURL, img.Category, img.SortOrder, now, now)
	if err != nil {
		return fmt.Errorf("failed to create gallery image: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	img.ID = id
	img.IsActive = true
	img.CreatedAt = now
	img.UpdatedAt = now
	return nil
}

func (db *DB) UpdateGalleryImage(ctx context.Context, img *models.GalleryImage) error {
	_, err := db.ExecContext(ctx,
		`UPDATE gallery_images SET title = ?, alt_text = ?, image_url = ?, category = ?, sort_order = ?, updated_at = ?
         WHERE id = ?`,
		img.Title, img.AltText, img.ImageURL, img.Category, img.SortOrder, time.Now(), img.ID)
	if err != nil {
		return fmt.Errorf("failed to update gallery image: %w", err)
	}
	return nil
}

func (db *DB) DeactivateGalleryImage(ctx context.Context, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE gallery_images SET is_active = 0, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate gallery image: %w", err)
	}
	return nil
}
