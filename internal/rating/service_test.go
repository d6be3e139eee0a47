package rating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LordSri/bragadeesh-portfolio/internal/cache"
	"github.com/LordSri/bragadeesh-portfolio/internal/models"
	"github.com/LordSri/bragadeesh-portfolio/internal/testutil"
)

type mockStore struct {
	// scores[itemID][raterID]
	scores    map[string]map[string]int
	listCalls int
	upsertErr error
	listErr   error
}

func newMockStore() *mockStore {
	return &mockStore{scores: make(map[string]map[string]int)}
}

func (m *mockStore) Upsert(ctx context.Context, mediaItemID, raterID string, score int) (*models.Rating, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	if m.scores[mediaItemID] == nil {
		m.scores[mediaItemID] = make(map[string]int)
	}
	m.scores[mediaItemID][raterID] = score
	return &models.Rating{
		ID:          "r1",
		MediaItemID: mediaItemID,
		RaterID:     raterID,
		Score:       score,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

func (m *mockStore) GetForRater(ctx context.Context, mediaItemID, raterID string) (*models.Rating, error) {
	score, ok := m.scores[mediaItemID][raterID]
	if !ok {
		return nil, nil
	}
	return &models.Rating{MediaItemID: mediaItemID, RaterID: raterID, Score: score}, nil
}

func (m *mockStore) ListForItem(ctx context.Context, mediaItemID string) ([]int, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	scores := []int{}
	for _, s := range m.scores[mediaItemID] {
		scores = append(scores, s)
	}
	return scores, nil
}

func newTestService(store Store, minInterval time.Duration) *Service {
	return NewService(store, cache.NewMemory(time.Minute), minInterval, testutil.NullLogger())
}

func TestSave_InvalidScore(t *testing.T) {
	svc := newTestService(newMockStore(), 0)

	for _, score := range []int{0, -1, 6, 100} {
		if _, err := svc.Save(context.Background(), "item-1", "rater-1", score); !errors.Is(err, ErrInvalidScore) {
			t.Errorf("Save(score=%d) error = %v, want ErrInvalidScore", score, err)
		}
	}
}

func TestSave_ResubmissionOverwrites(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, 0)

	if _, err := svc.Save(context.Background(), "item-1", "rater-1", 3); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rating, err := svc.Save(context.Background(), "item-1", "rater-1", 5)
	if err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	if rating.Score != 5 {
		t.Errorf("Score = %d, want 5", rating.Score)
	}

	summary, err := svc.Summary(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.Count != 1 {
		t.Errorf("Count = %d, want 1 (resubmission must not add a second rating)", summary.Count)
	}
	if summary.Average != 5.0 {
		t.Errorf("Average = %v, want 5.0 (last write wins)", summary.Average)
	}
}

func TestSave_RateLimited(t *testing.T) {
	svc := newTestService(newMockStore(), time.Minute)

	if _, err := svc.Save(context.Background(), "item-1", "rater-1", 4); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	if _, err := svc.Save(context.Background(), "item-2", "rater-1", 4); !errors.Is(err, ErrRateLimited) {
		t.Errorf("rapid second Save() error = %v, want ErrRateLimited", err)
	}
	// A different rater is unaffected.
	if _, err := svc.Save(context.Background(), "item-1", "rater-2", 4); err != nil {
		t.Errorf("Save() for other rater error = %v, want nil", err)
	}
}

func TestSave_StoreErrorDoesNotConsumeInterval(t *testing.T) {
	store := newMockStore()
	store.upsertErr = errors.New("connection refused")
	svc := newTestService(store, time.Minute)

	_, err := svc.Save(context.Background(), "item-1", "rater-1", 4)
	if err == nil || errors.Is(err, ErrRateLimited) {
		t.Fatalf("Save() error = %v, want store error", err)
	}

	store.upsertErr = nil
	if _, err := svc.Save(context.Background(), "item-1", "rater-1", 4); err != nil {
		t.Errorf("retry Save() error = %v, want nil after a failed write", err)
	}
}

func TestSummary_Average(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, 0)

	svc.Save(context.Background(), "item-1", "rater-1", 5)
	svc.Save(context.Background(), "item-1", "rater-2", 4)
	svc.Save(context.Background(), "item-1", "rater-3", 3)

	summary, err := svc.Summary(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.Average != 4.0 || summary.Count != 3 {
		t.Errorf("Summary() = {%v %d}, want {4.0 3}", summary.Average, summary.Count)
	}
}

func TestSummary_Unrated(t *testing.T) {
	svc := newTestService(newMockStore(), 0)

	summary, err := svc.Summary(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.Average != 0 || summary.Count != 0 {
		t.Errorf("Summary() = {%v %d}, want zero summary for unrated item", summary.Average, summary.Count)
	}
}

func TestSummary_CachedUntilSave(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, 0)

	svc.Save(context.Background(), "item-1", "rater-1", 4)

	if _, err := svc.Summary(context.Background(), "item-1"); err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if _, err := svc.Summary(context.Background(), "item-1"); err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if store.listCalls != 1 {
		t.Errorf("store.ListForItem calls = %d, want 1 (second call should hit cache)", store.listCalls)
	}

	svc.Save(context.Background(), "item-1", "rater-2", 2)

	summary, err := svc.Summary(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if store.listCalls != 2 {
		t.Errorf("store.ListForItem calls = %d, want 2 (save should invalidate cache)", store.listCalls)
	}
	if summary.Average != 3.0 || summary.Count != 2 {
		t.Errorf("Summary() = {%v %d}, want {3.0 2}", summary.Average, summary.Count)
	}
}

func TestSummary_ServedFromWarmCache(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, 0)

	svc.Save(context.Background(), "item-1", "rater-1", 4)
	svc.Save(context.Background(), "item-1", "rater-2", 5)

	first, err := svc.Summary(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	second, err := svc.Summary(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("second Summary() error = %v", err)
	}

	if store.listCalls != 1 {
		t.Fatalf("store.ListForItem calls = %d, want 1 (warm cache must serve the second call)", store.listCalls)
	}
	if second != first {
		t.Errorf("cached Summary() = %+v, want %+v", second, first)
	}
}

func TestGetForRater(t *testing.T) {
	store := newMockStore()
	svc := newTestService(store, 0)

	svc.Save(context.Background(), "item-1", "rater-1", 4)

	rating, err := svc.GetForRater(context.Background(), "item-1", "rater-1")
	if err != nil {
		t.Fatalf("GetForRater() error = %v", err)
	}
	if rating == nil || rating.Score != 4 {
		t.Errorf("GetForRater() = %+v, want score 4", rating)
	}

	unrated, err := svc.GetForRater(context.Background(), "item-1", "rater-9")
	if err != nil {
		t.Fatalf("GetForRater() error = %v", err)
	}
	if unrated != nil {
		t.Errorf("GetForRater() = %+v, want nil for unrated item", unrated)
	}
}
