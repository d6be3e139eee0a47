// Package cache is the read-through cache for the gallery list and per-item
// rating summaries. Entries are stored JSON-encoded so a value round-trips
// the same way through the memory and Redis backends; writers invalidate on
// every mutation, so the TTL is a backstop rather than the consistency
// mechanism.
package cache

import "time"

// MediaListKey holds the resolved gallery list.
const MediaListKey = "media:list"

// RatingSummaryKey returns the key holding one item's rating summary.
func RatingSummaryKey(mediaItemID string) string {
	return "ratings:summary:" + mediaItemID
}

// Cache is implemented by the memory and Redis backends. Get decodes the
// entry into dest and reports whether a live entry was found and decoded.
type Cache interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{})
	SetWithTTL(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Clear()
}
