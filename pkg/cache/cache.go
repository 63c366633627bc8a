package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/querylens-ai/querylens/pkg/models"
)

// ErrNotFound is returned by a Store when the key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Store is a key-value backend holding serialized query results.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the stored payload, ErrNotFound on a miss, or any other
	// error when the backend is unavailable.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a payload under key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Normalize canonicalizes a query for key derivation: lowercase, surrounding
// whitespace trimmed, internal whitespace runs collapsed to a single space.
// Applied identically on the read and write paths.
func Normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// Key derives the deterministic cache key for a query. Trivially different
// surface forms of the same query collide by construction.
func Key(query string) string {
	sum := sha256.Sum256([]byte(Normalize(query)))
	return fmt.Sprintf("query:%x", sum)
}

// Gateway wraps a Store with the caching policy of the pipeline: every store
// failure degrades to a miss on read and a no-op on write, so the pipeline is
// correct with caching entirely disabled. A nil Gateway or nil Store disables
// caching.
type Gateway struct {
	store  Store
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewGateway creates a Gateway over the given store and entry TTL.
func NewGateway(store Store, ttl time.Duration) *Gateway {
	return &Gateway{store: store, ttl: ttl}
}

// Enabled reports whether lookups and writes reach a backing store.
func (g *Gateway) Enabled() bool {
	return g != nil && g.store != nil
}

// Get looks up the memoized result for query. It returns the parsed record,
// whether it was a hit, and the time spent probing the store.
func (g *Gateway) Get(ctx context.Context, query string) (models.ParsedQuery, bool, time.Duration) {
	if !g.Enabled() {
		return models.ParsedQuery{}, false, 0
	}

	key := Key(query)
	start := time.Now()
	payload, err := g.store.Get(ctx, key)
	elapsed := time.Since(start)

	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("cache lookup failed, treating as miss: %v", err)
		}
		g.misses.Add(1)
		return models.ParsedQuery{}, false, elapsed
	}

	var pq models.ParsedQuery
	if err := json.Unmarshal(payload, &pq); err != nil {
		log.Printf("cache payload for %s is malformed, treating as miss: %v", key, err)
		g.misses.Add(1)
		return models.ParsedQuery{}, false, elapsed
	}

	g.hits.Add(1)
	return pq, true, elapsed
}

// Set memoizes the result for query. Write failures are logged and dropped.
func (g *Gateway) Set(ctx context.Context, query string, pq models.ParsedQuery) {
	if !g.Enabled() {
		return
	}

	payload, err := json.Marshal(pq)
	if err != nil {
		log.Printf("cache marshal failed: %v", err)
		return
	}
	if err := g.store.Set(ctx, Key(query), payload, g.ttl); err != nil {
		log.Printf("cache write failed: %v", err)
	}
}

// Stats returns hit/miss counters accumulated by this gateway.
func (g *Gateway) Stats() models.CacheStats {
	if g == nil {
		return models.CacheStats{}
	}
	return models.CacheStats{Hits: g.hits.Load(), Misses: g.misses.Load()}
}
