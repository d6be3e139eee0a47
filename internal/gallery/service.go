// Package gallery orchestrates the media item lifecycle: listing with cached
// src resolution, two-phase uploads, metadata edits, and deletes that span the
// CDN, legacy storage, and the database.
package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/LordSri/bragadeesh-portfolio/internal/cache"
	"github.com/LordSri/bragadeesh-portfolio/internal/cdn"
	"github.com/LordSri/bragadeesh-portfolio/internal/logging"
	"github.com/LordSri/bragadeesh-portfolio/internal/models"
)

var (
	// ErrNotFound is returned when the requested media item does not exist.
	ErrNotFound = errors.New("media item not found")
	// ErrNoUploadBackend is returned when neither a CDN uploader nor legacy
	// storage is configured.
	ErrNoUploadBackend = errors.New("no upload backend configured")
)

// Store defines the metadata persistence used by the gallery service.
type Store interface {
	List(ctx context.Context) ([]models.MediaItem, error)
	Get(ctx context.Context, id string) (*models.MediaItem, error)
	Create(ctx context.Context, params models.CreateMediaParams) (*models.MediaItem, error)
	Update(ctx context.Context, params models.UpdateMediaParams) (*models.MediaItem, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ObjectStorage abstracts the legacy bucket for items without a CDN linkage.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

// UploadRequest describes a single file upload with its initial metadata.
type UploadRequest struct {
	FileName    string
	ContentType string
	Data        []byte
	Title       string
	Description string
	Award       string
	Exif        models.ExifData
	BeforeAfter *models.BeforeAfter
}

// BatchItemError records a per-file failure within a batch upload.
type BatchItemError struct {
	FileName string
	Err      error
}

// Service handles gallery business logic
type Service struct {
	store    Store
	storage  ObjectStorage
	uploader cdn.Uploader
	cache    cache.Cache
	logger   *logging.Logger
}

// NewService creates a new gallery service. storage and uploader may each be
// nil; uploads require at least one of them.
func NewService(store Store, storage ObjectStorage, uploader cdn.Uploader, c cache.Cache, logger *logging.Logger) *Service {
	return &Service{
		store:    store,
		storage:  storage,
		uploader: uploader,
		cache:    c,
		logger:   logger,
	}
}

// List returns all media items newest first, with Src resolved for display.
// Serves from cache when warm.
func (s *Service) List(ctx context.Context) ([]models.MediaItem, error) {
	var cached []models.MediaItem
	if s.cache.Get(cache.MediaListKey, &cached) {
		return cached, nil
	}

	items, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("failed to load media items", logging.WithField("error", err.Error()))
		return nil, fmt.Errorf("failed to load media items: %w", err)
	}

	for i := range items {
		s.resolveSrc(&items[i])
	}

	s.cache.Set(cache.MediaListKey, items)
	return items, nil
}

// Get returns a single media item with Src resolved
func (s *Service) Get(ctx context.Context, id string) (*models.MediaItem, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get media item: %w", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	s.resolveSrc(item)
	return item, nil
}

// Upload runs the two-phase upload: file to the CDN (or legacy storage when no
// CDN is configured), then the metadata row. A phase-two failure removes the
// uploaded file again so no orphan is left behind.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*models.MediaItem, error) {
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("upload is empty")
	}

	params := models.CreateMediaParams{
		Title:       req.Title,
		Description: req.Description,
		Award:       req.Award,
		AspectRatio: s.probeAspectRatio(req),
		Exif:        req.Exif,
		BeforeAfter: req.BeforeAfter,
		FileName:    req.FileName,
	}
	if params.Title == "" {
		params.Title = models.DefaultTitle(req.FileName)
	}

	// Phase one: place the file.
	switch {
	case s.uploader != nil:
		result, err := s.uploader.Upload(ctx, req.FileName, bytes.NewReader(req.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to upload file: %w", err)
		}
		params.CloudinaryID = result.PublicID
		params.CloudinaryURL = result.SecureURL
	case s.storage != nil:
		key := uuid.NewString() + filepath.Ext(req.FileName)
		if err := s.storage.Upload(ctx, key, req.ContentType, bytes.NewReader(req.Data)); err != nil {
			return nil, fmt.Errorf("failed to upload file: %w", err)
		}
		params.StorageID = key
	default:
		return nil, ErrNoUploadBackend
	}

	// Phase two: the metadata row. On failure, take the file back out.
	item, err := s.store.Create(ctx, params)
	if err != nil {
		s.compensateUpload(ctx, params)
		return nil, fmt.Errorf("failed to save media item: %w", err)
	}

	s.resolveSrc(item)
	s.cache.Delete(cache.MediaListKey)

	s.logger.Info("media item uploaded",
		logging.WithField("id", item.ID),
		logging.WithField("fileName", req.FileName))
	return item, nil
}

// BatchUpload uploads files sequentially. One failed file does not stop the
// rest; failures come back alongside the items that made it.
func (s *Service) BatchUpload(ctx context.Context, reqs []UploadRequest) ([]models.MediaItem, []BatchItemError) {
	items := []models.MediaItem{}
	failures := []BatchItemError{}

	for _, req := range reqs {
		item, err := s.Upload(ctx, req)
		if err != nil {
			s.logger.Warn("batch upload item failed",
				logging.WithField("fileName", req.FileName),
				logging.WithField("error", err.Error()))
			failures = append(failures, BatchItemError{FileName: req.FileName, Err: err})
			continue
		}
		items = append(items, *item)
	}

	return items, failures
}

// Update edits the editable metadata subset. Returns ErrNotFound when the item
// does not exist.
func (s *Service) Update(ctx context.Context, params models.UpdateMediaParams) (*models.MediaItem, error) {
	item, err := s.store.Update(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update media item: %w", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}

	s.resolveSrc(item)
	s.cache.Delete(cache.MediaListKey)
	return item, nil
}

// Delete removes the item's file and metadata. File removal failures are
// logged but do not block; the metadata row is authoritative. Deleting an ID
// twice returns ErrNotFound the second time.
func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get media item: %w", err)
	}
	if item == nil {
		return ErrNotFound
	}

	if item.CloudinaryID != "" && s.uploader != nil {
		if err := s.uploader.Delete(ctx, item.CloudinaryID); err != nil {
			s.logger.Warn("failed to delete CDN file",
				logging.WithField("id", id),
				logging.WithField("publicId", item.CloudinaryID),
				logging.WithField("error", err.Error()))
		}
	}
	if item.StorageID != "" && s.storage != nil {
		if err := s.storage.Remove(ctx, item.StorageID); err != nil {
			s.logger.Warn("failed to remove stored file",
				logging.WithField("id", id),
				logging.WithField("storageId", item.StorageID),
				logging.WithField("error", err.Error()))
		}
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete media item: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.cache.Delete(cache.MediaListKey)
	s.logger.Info("media item deleted", logging.WithField("id", id))
	return nil
}

// probeAspectRatio decodes the upload to classify its pixel dimensions.
// Undecodable files fall back to square rather than failing the upload.
func (s *Service) probeAspectRatio(req UploadRequest) models.AspectRatio {
	img, err := imaging.Decode(bytes.NewReader(req.Data))
	if err != nil {
		s.logger.Warn("failed to decode upload for aspect ratio",
			logging.WithField("fileName", req.FileName),
			logging.WithField("error", err.Error()))
		return models.ComputeAspectRatio(0, 0)
	}
	bounds := img.Bounds()
	return models.ComputeAspectRatio(bounds.Dx(), bounds.Dy())
}

// compensateUpload removes the file placed in phase one after phase two fails
func (s *Service) compensateUpload(ctx context.Context, params models.CreateMediaParams) {
	if params.CloudinaryID != "" && s.uploader != nil {
		if err := s.uploader.Delete(ctx, params.CloudinaryID); err != nil {
			s.logger.Warn("failed to remove CDN file after create failure",
				logging.WithField("publicId", params.CloudinaryID),
				logging.WithField("error", err.Error()))
		}
		return
	}
	if params.StorageID != "" && s.storage != nil {
		if err := s.storage.Remove(ctx, params.StorageID); err != nil {
			s.logger.Warn("failed to remove stored file after create failure",
				logging.WithField("storageId", params.StorageID),
				logging.WithField("error", err.Error()))
		}
	}
}

// resolveSrc fills the display URL: the CDN URL when the item has one,
// otherwise the legacy storage URL
func (s *Service) resolveSrc(item *models.MediaItem) {
	if item.CloudinaryURL != "" {
		item.Src = item.CloudinaryURL
		return
	}
	if item.StorageID != "" && s.storage != nil {
		item.Src = s.storage.PublicURL(item.StorageID)
	}
}
