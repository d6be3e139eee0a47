package models

import (
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// AspectRatio is the coarse layout class assigned to a media item at upload
// time. It drives grid placement only and is never recomputed after creation.
type AspectRatio string

const (
	AspectWidescreen AspectRatio = "16/9"
	AspectPortrait   AspectRatio = "3/4"
	AspectSquare     AspectRatio = "1/1"
)

// IsValidAspectRatio reports whether v is one of the known ratio classes
func IsValidAspectRatio(v AspectRatio) bool {
	switch v {
	case AspectWidescreen, AspectPortrait, AspectSquare:
		return true
	}
	return false
}

// ComputeAspectRatio classifies pixel dimensions into a ratio class.
// Invalid dimensions fall back to square.
func ComputeAspectRatio(width, height int) AspectRatio {
	if width <= 0 || height <= 0 {
		return AspectSquare
	}
	ratio := float64(width) / float64(height)
	if ratio > 1.4 {
		return AspectWidescreen
	}
	if ratio < 0.8 {
		return AspectPortrait
	}
	return AspectSquare
}

// Well-known EXIF display keys. Anything else is carried through untouched.
const (
	ExifCamera   = "camera"
	ExifDate     = "date"
	ExifLocation = "location"
	ExifExposure = "exposure"
)

// ExifData is an open string-keyed map of optional display metadata
type ExifData map[string]string

// Sanitize trims keys and values and drops empty entries. Returns nil when
// nothing survives so the store writes NULL instead of an empty object.
func (e ExifData) Sanitize() ExifData {
	if len(e) == 0 {
		return nil
	}
	out := make(ExifData, len(e))
	for k, v := range e {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// BeforeAfter holds the URL pair driving the comparison-slider view
type BeforeAfter struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Valid reports whether both URLs are present
func (b *BeforeAfter) Valid() bool {
	return b != nil && strings.TrimSpace(b.Before) != "" && strings.TrimSpace(b.After) != ""
}

// MediaItem is a single photo or design artifact with metadata.
// Src is resolved at read time from the CDN URL when present, otherwise from
// the legacy storage path; it is never persisted.
type MediaItem struct {
	ID            string       `json:"id"`
	Src           string       `json:"src"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Award         string       `json:"award,omitempty"`
	AspectRatio   AspectRatio  `json:"aspectRatio"`
	Exif          ExifData     `json:"exif,omitempty"`
	BeforeAfter   *BeforeAfter `json:"beforeAfter,omitempty"`
	StorageID     string       `json:"storageId,omitempty"`
	FileName      string       `json:"fileName,omitempty"`
	CloudinaryID  string       `json:"cloudinaryId,omitempty"`
	CloudinaryURL string       `json:"cloudinaryUrl,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Displayable reports whether the item carries at least one linkage scheme
// that resolves to a renderable URL
func (m *MediaItem) Displayable() bool {
	return m.CloudinaryID != "" || m.StorageID != ""
}

// CreateMediaParams holds the full field set for a new media item. Linkage
// identifiers come from the completed upload; aspect ratio is computed from
// the file's pixel dimensions.
type CreateMediaParams struct {
	Title         string
	Description   string
	Award         string
	AspectRatio   AspectRatio
	Exif          ExifData
	BeforeAfter   *BeforeAfter
	StorageID     string
	FileName      string
	CloudinaryID  string
	CloudinaryURL string
}

// UpdateMediaParams holds the editable subset of fields. Nil pointers leave
// the stored value untouched. Aspect ratio and linkage identifiers are set
// once at creation and cannot be edited.
type UpdateMediaParams struct {
	ID          string
	Title       *string
	Description *string
	Award       *string
	Exif        ExifData
	BeforeAfter *BeforeAfter
}

// DefaultTitle derives a title from an upload filename: the base name minus
// its extension, unicode-normalized. Falls back to "Untitled" when nothing
// usable remains.
func DefaultTitle(fileName string) string {
	base := filepath.Base(strings.TrimSpace(fileName))
	if base == "." || base == string(filepath.Separator) {
		return "Untitled"
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.TrimSpace(norm.NFC.String(name))
	if name == "" {
		return "Untitled"
	}
	return name
}
