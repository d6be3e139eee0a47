package models

import (
	"testing"
)

func TestComputeAspectRatio(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		want   AspectRatio
	}{
		{name: "1080p landscape", width: 1920, height: 1080, want: AspectWidescreen},
		{name: "1080p portrait", width: 1080, height: 1920, want: AspectPortrait},
		{name: "exact square", width: 1000, height: 1000, want: AspectSquare},
		{name: "slightly wide stays square", width: 1400, height: 1000, want: AspectSquare},
		{name: "just over widescreen threshold", width: 1410, height: 1000, want: AspectWidescreen},
		{name: "just under portrait threshold", width: 799, height: 1000, want: AspectPortrait},
		{name: "boundary 0.8 stays square", width: 800, height: 1000, want: AspectSquare},
		{name: "zero width falls back to square", width: 0, height: 1080, want: AspectSquare},
		{name: "negative height falls back to square", width: 1920, height: -1, want: AspectSquare},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeAspectRatio(tt.width, tt.height); got != tt.want {
				t.Errorf("ComputeAspectRatio(%d, %d) = %v, want %v", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestDefaultTitle(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{name: "simple jpeg", fileName: "sunset.jpg", want: "sunset"},
		{name: "no extension", fileName: "portrait", want: "portrait"},
		{name: "double extension keeps inner", fileName: "shoot.raw.png", want: "shoot.raw"},
		{name: "path stripped", fileName: "exports/2024/wedding.jpg", want: "wedding"},
		{name: "whitespace trimmed", fileName: "  golden hour.png ", want: "golden hour"},
		{name: "empty falls back", fileName: "", want: "Untitled"},
		{name: "only extension falls back", fileName: ".jpg", want: "Untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultTitle(tt.fileName); got != tt.want {
				t.Errorf("DefaultTitle(%q) = %q, want %q", tt.fileName, got, tt.want)
			}
		})
	}
}

func TestMediaItem_Displayable(t *testing.T) {
	tests := []struct {
		name string
		item MediaItem
		want bool
	}{
		{name: "cdn linkage only", item: MediaItem{CloudinaryID: "photos/abc"}, want: true},
		{name: "legacy storage only", item: MediaItem{StorageID: "abc.jpg"}, want: true},
		{name: "both linkages", item: MediaItem{CloudinaryID: "photos/abc", StorageID: "abc.jpg"}, want: true},
		{name: "neither linkage", item: MediaItem{ID: "x", Title: "orphan"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Displayable(); got != tt.want {
				t.Errorf("Displayable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExifData_Sanitize(t *testing.T) {
	exif := ExifData{
		"camera":   " Canon R5 ",
		"date":     "",
		"":         "dropped",
		"location": "Chennai",
	}

	got := exif.Sanitize()
	if len(got) != 2 {
		t.Fatalf("Sanitize() kept %d entries, want 2: %v", len(got), got)
	}
	if got["camera"] != "Canon R5" {
		t.Errorf("Sanitize() camera = %q, want %q", got["camera"], "Canon R5")
	}
	if got["location"] != "Chennai" {
		t.Errorf("Sanitize() location = %q, want %q", got["location"], "Chennai")
	}
}

func TestExifData_Sanitize_Empty(t *testing.T) {
	if got := (ExifData{}).Sanitize(); got != nil {
		t.Errorf("Sanitize() on empty map = %v, want nil", got)
	}
	if got := (ExifData{" ": " "}).Sanitize(); got != nil {
		t.Errorf("Sanitize() on blank entries = %v, want nil", got)
	}
}

func TestBeforeAfter_Valid(t *testing.T) {
	if (&BeforeAfter{Before: "a", After: "b"}).Valid() != true {
		t.Error("Valid() = false for complete pair")
	}
	if (&BeforeAfter{Before: "a"}).Valid() {
		t.Error("Valid() = true with missing after URL")
	}
	var nilPair *BeforeAfter
	if nilPair.Valid() {
		t.Error("Valid() = true for nil pair")
	}
}
