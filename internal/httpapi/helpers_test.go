package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LordSri/bragadeesh-portfolio/internal/cache"
	"github.com/LordSri/bragadeesh-portfolio/internal/cdn"
	"github.com/LordSri/bragadeesh-portfolio/internal/gallery"
	"github.com/LordSri/bragadeesh-portfolio/internal/models"
	"github.com/LordSri/bragadeesh-portfolio/internal/rating"
	"github.com/LordSri/bragadeesh-portfolio/internal/testutil"
)

// passthroughCORS is a no-op stand-in for the server's CORS middleware
func passthroughCORS(next http.HandlerFunc) http.HandlerFunc {
	return next
}

type mockMediaStore struct {
	items   []models.MediaItem
	nextID  int
	listErr error
}

func (m *mockMediaStore) List(ctx context.Context) ([]models.MediaItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.MediaItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *mockMediaStore) Get(ctx context.Context, id string) (*models.MediaItem, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			item := m.items[i]
			return &item, nil
		}
	}
	return nil, nil
}

func (m *mockMediaStore) Create(ctx context.Context, params models.CreateMediaParams) (*models.MediaItem, error) {
	m.nextID++
	item := models.MediaItem{
		ID:            fmt.Sprintf("item-%d", m.nextID),
		Title:         params.Title,
		Description:   params.Description,
		Award:         params.Award,
		AspectRatio:   params.AspectRatio,
		FileName:      params.FileName,
		CloudinaryID:  params.CloudinaryID,
		CloudinaryURL: params.CloudinaryURL,
		StorageID:     params.StorageID,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	m.items = append([]models.MediaItem{item}, m.items...)
	return &item, nil
}

func (m *mockMediaStore) Update(ctx context.Context, params models.UpdateMediaParams) (*models.MediaItem, error) {
	for i := range m.items {
		if m.items[i].ID == params.ID {
			if params.Title != nil {
				m.items[i].Title = *params.Title
			}
			if params.Description != nil {
				m.items[i].Description = *params.Description
			}
			if params.Award != nil {
				m.items[i].Award = *params.Award
			}
			item := m.items[i]
			return &item, nil
		}
	}
	return nil, nil
}

func (m *mockMediaStore) Delete(ctx context.Context, id string) (bool, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type mockRatingStore struct {
	scores map[string]map[string]int
}

func newMockRatingStore() *mockRatingStore {
	return &mockRatingStore{scores: make(map[string]map[string]int)}
}

func (m *mockRatingStore) Upsert(ctx context.Context, mediaItemID, raterID string, score int) (*models.Rating, error) {
	if m.scores[mediaItemID] == nil {
		m.scores[mediaItemID] = make(map[string]int)
	}
	m.scores[mediaItemID][raterID] = score
	return &models.Rating{MediaItemID: mediaItemID, RaterID: raterID, Score: score}, nil
}

func (m *mockRatingStore) GetForRater(ctx context.Context, mediaItemID, raterID string) (*models.Rating, error) {
	score, ok := m.scores[mediaItemID][raterID]
	if !ok {
		return nil, nil
	}
	return &models.Rating{MediaItemID: mediaItemID, RaterID: raterID, Score: score}, nil
}

func (m *mockRatingStore) ListForItem(ctx context.Context, mediaItemID string) ([]int, error) {
	scores := []int{}
	for _, s := range m.scores[mediaItemID] {
		scores = append(scores, s)
	}
	return scores, nil
}

type mockUploader struct {
	deletes   []string
	uploadErr error
	deleteErr error
}

func (m *mockUploader) Upload(ctx context.Context, fileName string, body io.Reader) (*cdn.UploadResult, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return &cdn.UploadResult{
		SecureURL: "https://cdn.test/photos/" + fileName,
		PublicID:  "photos/" + fileName,
	}, nil
}

func (m *mockUploader) UploadFromURL(ctx context.Context, srcURL, fileName string) (*cdn.UploadResult, error) {
	return m.Upload(ctx, fileName, nil)
}

func (m *mockUploader) Delete(ctx context.Context, publicID string) error {
	m.deletes = append(m.deletes, publicID)
	return m.deleteErr
}

func newTestGalleryService(store *mockMediaStore) *gallery.Service {
	return gallery.NewService(store, nil, &mockUploader{}, cache.NewMemory(time.Minute), testutil.NullLogger())
}

func newTestRatingService(store rating.Store, minInterval time.Duration) *rating.Service {
	return rating.NewService(store, cache.NewMemory(time.Minute), minInterval, testutil.NullLogger())
}
