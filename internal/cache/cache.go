// Package cache provides optional caching of grounded answers.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"catalog-assistant/internal/catalog"
)

// Cache stores phrased answers keyed by question, search term, and limit.
type Cache interface {
	// GetAnswer retrieves a cached answer by key. Returns nil on a miss.
	GetAnswer(ctx context.Context, key string) (*Answer, error)

	// SetAnswer stores an answer with TTL.
	SetAnswer(ctx context.Context, key string, ans *Answer, ttl time.Duration) error

	// Close closes the cache connection.
	Close() error
}

// Answer is one cached query outcome: the phrased text plus the products it
// was grounded on, so a hit can be redisplayed without re-searching.
type Answer struct {
	Text     string            `json:"text"`
	Products []catalog.Product `json:"products"`
}

// Key derives a stable cache key from the query inputs.
func Key(question, term string, limit int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", question, term, limit)))
	return hex.EncodeToString(sum[:])
}
