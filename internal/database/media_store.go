package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/LordSri/bragadeesh-portfolio/internal/models"
)

// MediaStore handles media item database operations
type MediaStore struct {
	db *DB
}

// NewMediaStore creates a new media store
func NewMediaStore(db *DB) *MediaStore {
	return &MediaStore{db: db}
}

const mediaColumns = `id, title, description, award, aspect_ratio, exif, before_after, storage_id, file_name, cloudinary_id, cloudinary_url, created_at, updated_at`

// scanMediaItem scans one row into a MediaItem, decoding the JSONB columns
func scanMediaItem(row interface {
	Scan(dest ...interface{}) error
}) (*models.MediaItem, error) {
	item := &models.MediaItem{}
	var (
		award, storageID, fileName, cloudinaryID, cloudinaryURL sql.NullString
		exifJSON, beforeAfterJSON                               []byte
	)

	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &award, &item.AspectRatio,
		&exifJSON, &beforeAfterJSON,
		&storageID, &fileName, &cloudinaryID, &cloudinaryURL,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Award = award.String
	item.StorageID = storageID.String
	item.FileName = fileName.String
	item.CloudinaryID = cloudinaryID.String
	item.CloudinaryURL = cloudinaryURL.String

	if len(exifJSON) > 0 {
		var exif models.ExifData
		if err := json.Unmarshal(exifJSON, &exif); err == nil {
			item.Exif = exif
		}
	}
	if len(beforeAfterJSON) > 0 {
		var pair models.BeforeAfter
		if err := json.Unmarshal(beforeAfterJSON, &pair); err == nil && pair.Valid() {
			item.BeforeAfter = &pair
		}
	}

	return item, nil
}

// List fetches all media items, newest first
func (s *MediaStore) List(ctx context.Context) ([]models.MediaItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM media_items ORDER BY created_at DESC`, mediaColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list media items: %w", err)
	}
	defer rows.Close()

	items := []models.MediaItem{}
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media items: %w", err)
	}

	return items, nil
}

// Get retrieves a media item by ID, nil when not found
func (s *MediaStore) Get(ctx context.Context, id string) (*models.MediaItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM media_items WHERE id = $1`, mediaColumns)

	item, err := scanMediaItem(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media item: %w", err)
	}
	return item, nil
}

// Create inserts a new media item and returns the stored row
func (s *MediaStore) Create(ctx context.Context, params models.CreateMediaParams) (*models.MediaItem, error) {
	exifJSON, err := marshalNullable(params.Exif.Sanitize())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal exif: %w", err)
	}

	var beforeAfterJSON []byte
	if params.BeforeAfter.Valid() {
		beforeAfterJSON, err = json.Marshal(params.BeforeAfter)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal before/after pair: %w", err)
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO media_items (title, description, award, aspect_ratio, exif, before_after, storage_id, file_name, cloudinary_id, cloudinary_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`, mediaColumns)

	item, err := scanMediaItem(s.db.QueryRowContext(ctx, query,
		params.Title,
		params.Description,
		nullString(params.Award),
		string(params.AspectRatio),
		exifJSON,
		beforeAfterJSON,
		nullString(params.StorageID),
		nullString(params.FileName),
		nullString(params.CloudinaryID),
		nullString(params.CloudinaryURL),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create media item: %w", err)
	}

	return item, nil
}

// Update persists only the provided fields. Last writer wins; there is no
// concurrency check. Returns nil when the item does not exist.
func (s *MediaStore) Update(ctx context.Context, params models.UpdateMediaParams) (*models.MediaItem, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argIndex := 1

	if params.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIndex))
		args = append(args, *params.Title)
		argIndex++
	}
	if params.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIndex))
		args = append(args, *params.Description)
		argIndex++
	}
	if params.Award != nil {
		setClauses = append(setClauses, fmt.Sprintf("award = $%d", argIndex))
		args = append(args, nullString(*params.Award))
		argIndex++
	}
	if params.Exif != nil {
		exifJSON, err := marshalNullable(params.Exif.Sanitize())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal exif: %w", err)
		}
		setClauses = append(setClauses, fmt.Sprintf("exif = $%d", argIndex))
		args = append(args, exifJSON)
		argIndex++
	}
	if params.BeforeAfter != nil {
		var beforeAfterJSON []byte
		if params.BeforeAfter.Valid() {
			var err error
			beforeAfterJSON, err = json.Marshal(params.BeforeAfter)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal before/after pair: %w", err)
			}
		}
		setClauses = append(setClauses, fmt.Sprintf("before_after = $%d", argIndex))
		args = append(args, beforeAfterJSON)
		argIndex++
	}

	query := fmt.Sprintf(`
		UPDATE media_items SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIndex, mediaColumns)

	args = append(args, params.ID)

	item, err := scanMediaItem(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update media item: %w", err)
	}

	return item, nil
}

// Delete removes a media item row. The second return value reports whether a
// row was actually deleted, so retrying a delete surfaces as a clean failure.
func (s *MediaStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM media_items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete media item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

// SetCDNLinkage records the CDN identifier and URL for an item after the
// one-time storage migration re-hosts its file
func (s *MediaStore) SetCDNLinkage(ctx context.Context, id, cloudinaryID, cloudinaryURL string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE media_items
		SET cloudinary_id = $1, cloudinary_url = $2, updated_at = NOW()
		WHERE id = $3
	`, cloudinaryID, cloudinaryURL, id)
	if err != nil {
		return false, fmt.Errorf("failed to set CDN linkage: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read linkage update result: %w", err)
	}
	return affected > 0, nil
}

// ListUnmigrated fetches items still on legacy storage without a CDN linkage,
// oldest first so migration progress is stable across runs
func (s *MediaStore) ListUnmigrated(ctx context.Context, limit int) ([]models.MediaItem, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM media_items
		WHERE cloudinary_id IS NULL AND storage_id IS NOT NULL
		ORDER BY created_at ASC
	`, mediaColumns)
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmigrated media items: %w", err)
	}
	defer rows.Close()

	items := []models.MediaItem{}
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media items: %w", err)
	}

	return items, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func marshalNullable(exif models.ExifData) ([]byte, error) {
	if exif == nil {
		return nil, nil
	}
	return json.Marshal(exif)
}
