package database

import (
	"context"
	"testing"

	"github.com/LordSri/bragadeesh-portfolio/internal/models"
	"github.com/LordSri/bragadeesh-portfolio/internal/testutil"
)

func setupMediaStore(t *testing.T) (*MediaStore, context.Context) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(func() { testDB.Close() })

	ctx := context.Background()
	testDB.Cleanup(ctx)
	t.Cleanup(func() { testDB.Cleanup(ctx) })

	db := &DB{DB: testDB.DB}
	return NewMediaStore(db), ctx
}

func createTestItem(t *testing.T, store *MediaStore, ctx context.Context, title string) *models.MediaItem {
	t.Helper()
	item, err := store.Create(ctx, models.CreateMediaParams{
		Title:         title,
		Description:   "test item",
		AspectRatio:   models.AspectWidescreen,
		FileName:      title + ".jpg",
		CloudinaryID:  "photos/" + title,
		CloudinaryURL: "https://cdn.test/photos/" + title + ".jpg",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return item
}

func TestMediaStore_CreateAndGet(t *testing.T) {
	store, ctx := setupMediaStore(t)

	created, err := store.Create(ctx, models.CreateMediaParams{
		Title:       "Sunset",
		Description: "Golden hour at the harbor",
		Award:       "Editor's pick",
		AspectRatio: models.AspectWidescreen,
		Exif: models.ExifData{
			models.ExifCamera: "X100V",
			models.ExifDate:   "2025-06-01",
		},
		BeforeAfter: &models.BeforeAfter{
			Before: "https://cdn.test/before.jpg",
			After:  "https://cdn.test/after.jpg",
		},
		FileName:      "sunset.jpg",
		CloudinaryID:  "photos/sunset",
		CloudinaryURL: "https://cdn.test/photos/sunset.jpg",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create() returned empty ID")
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() = nil, want created item")
	}
	if got.Title != "Sunset" || got.Award != "Editor's pick" {
		t.Errorf("Get() = %+v, want created fields", got)
	}
	if got.AspectRatio != models.AspectWidescreen {
		t.Errorf("AspectRatio = %q, want 16/9", got.AspectRatio)
	}
	if got.Exif[models.ExifCamera] != "X100V" {
		t.Errorf("Exif = %v, want camera preserved", got.Exif)
	}
	if !got.BeforeAfter.Valid() {
		t.Errorf("BeforeAfter = %+v, want valid pair", got.BeforeAfter)
	}
}

func TestMediaStore_Get_NotFound(t *testing.T) {
	store, ctx := setupMediaStore(t)

	got, err := store.Get(ctx, "00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil for missing item", got)
	}
}

func TestMediaStore_List_NewestFirst(t *testing.T) {
	store, ctx := setupMediaStore(t)

	first := createTestItem(t, store, ctx, "first")
	second := createTestItem(t, store, ctx, "second")

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Errorf("List() order = [%s %s], want newest first", items[0].Title, items[1].Title)
	}
}

func TestMediaStore_Update_Partial(t *testing.T) {
	store, ctx := setupMediaStore(t)
	item := createTestItem(t, store, ctx, "original")

	title := "Renamed"
	updated, err := store.Update(ctx, models.UpdateMediaParams{
		ID:    item.ID,
		Title: &title,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("Title = %q, want Renamed", updated.Title)
	}
	if updated.Description != item.Description {
		t.Errorf("Description = %q, want untouched", updated.Description)
	}
	if updated.CloudinaryID != item.CloudinaryID {
		t.Errorf("CloudinaryID = %q, want linkage untouched", updated.CloudinaryID)
	}
}

func TestMediaStore_Update_ClearAward(t *testing.T) {
	store, ctx := setupMediaStore(t)
	item, err := store.Create(ctx, models.CreateMediaParams{
		Title:       "With award",
		AspectRatio: models.AspectSquare,
		Award:       "Winner",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	empty := ""
	updated, err := store.Update(ctx, models.UpdateMediaParams{ID: item.ID, Award: &empty})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Award != "" {
		t.Errorf("Award = %q, want cleared", updated.Award)
	}
}

func TestMediaStore_Update_NotFound(t *testing.T) {
	store, ctx := setupMediaStore(t)

	title := "x"
	updated, err := store.Update(ctx, models.UpdateMediaParams{
		ID:    "00000000-0000-0000-0000-000000000000",
		Title: &title,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated != nil {
		t.Errorf("Update() = %+v, want nil for missing item", updated)
	}
}

func TestMediaStore_Delete(t *testing.T) {
	store, ctx := setupMediaStore(t)
	item := createTestItem(t, store, ctx, "doomed")

	deleted, err := store.Delete(ctx, item.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted {
		t.Fatal("Delete() = false, want true")
	}

	again, err := store.Delete(ctx, item.ID)
	if err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if again {
		t.Error("second Delete() = true, want false")
	}
}

func TestMediaStore_SetCDNLinkageAndListUnmigrated(t *testing.T) {
	store, ctx := setupMediaStore(t)

	legacy, err := store.Create(ctx, models.CreateMediaParams{
		Title:       "Legacy",
		AspectRatio: models.AspectPortrait,
		StorageID:   "legacy.jpg",
		FileName:    "legacy.jpg",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	createTestItem(t, store, ctx, "migrated")

	pending, err := store.ListUnmigrated(ctx, 0)
	if err != nil {
		t.Fatalf("ListUnmigrated() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != legacy.ID {
		t.Fatalf("ListUnmigrated() = %d items, want only the legacy item", len(pending))
	}

	updated, err := store.SetCDNLinkage(ctx, legacy.ID, "photos/legacy", "https://cdn.test/photos/legacy.jpg")
	if err != nil {
		t.Fatalf("SetCDNLinkage() error = %v", err)
	}
	if !updated {
		t.Fatal("SetCDNLinkage() = false, want true")
	}

	pending, err = store.ListUnmigrated(ctx, 0)
	if err != nil {
		t.Fatalf("ListUnmigrated() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("ListUnmigrated() = %d items after linkage, want 0", len(pending))
	}
}
