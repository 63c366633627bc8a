package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/querylens-ai/querylens/pkg/models"
)

// memStore is an in-memory Store for gateway tests.
type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

// brokenStore fails every operation, as an unreachable backend would.
type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("connection refused")
}

func TestKeyDeterministic(t *testing.T) {
	k1 := Key("blue metal dining table")
	k2 := Key("blue metal dining table")
	k3 := Key("red metal dining table")

	if k1 != k2 {
		t.Error("same query should produce same key")
	}
	if k1 == k3 {
		t.Error("different query should produce different key")
	}
}

func TestKeyNormalization(t *testing.T) {
	base := Key("blue metal dining table")
	variants := []string{
		"Blue Metal Dining Table",
		"  blue metal dining table  ",
		"blue\tmetal   dining\ntable",
	}
	for _, v := range variants {
		if Key(v) != base {
			t.Errorf("surface form %q should collide with the base key", v)
		}
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize("  Blue   METAL \t table ")
	if got != "blue metal table" {
		t.Errorf("unexpected normalization: %q", got)
	}
	if Normalize("") != "" {
		t.Error("empty stays empty")
	}
}

func TestGatewayRoundTrip(t *testing.T) {
	g := NewGateway(newMemStore(), time.Hour)
	ctx := context.Background()
	pq := models.ParsedQuery{ItemType: "sofa", Material: "leather"}

	if _, hit, _ := g.Get(ctx, "leather sofa"); hit {
		t.Fatal("unexpected hit on empty store")
	}

	g.Set(ctx, "leather sofa", pq)

	got, hit, _ := g.Get(ctx, "leather sofa")
	if !hit {
		t.Fatal("expected hit after set")
	}
	if got != pq {
		t.Errorf("expected %+v, got %+v", pq, got)
	}

	// Normalized variants share the entry.
	if _, hit, _ := g.Get(ctx, "  Leather  SOFA "); !hit {
		t.Error("expected hit for normalized variant")
	}
}

func TestGatewayDegradeToMiss(t *testing.T) {
	g := NewGateway(brokenStore{}, time.Hour)
	ctx := context.Background()

	if _, hit, _ := g.Get(ctx, "anything"); hit {
		t.Error("broken store must read as miss")
	}
	// Writes must not propagate errors.
	g.Set(ctx, "anything", models.ParsedQuery{ItemType: "chair"})

	stats := g.Stats()
	if stats.Misses != 1 || stats.Hits != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestGatewayMalformedPayload(t *testing.T) {
	store := newMemStore()
	g := NewGateway(store, time.Hour)
	ctx := context.Background()

	store.data[Key("bad entry")] = []byte("{not json")

	if _, hit, _ := g.Get(ctx, "bad entry"); hit {
		t.Error("malformed payload must read as miss")
	}
}

func TestGatewayDisabled(t *testing.T) {
	var g *Gateway
	if g.Enabled() {
		t.Error("nil gateway must be disabled")
	}
	if _, hit, _ := g.Get(context.Background(), "q"); hit {
		t.Error("nil gateway must miss")
	}
	g.Set(context.Background(), "q", models.ParsedQuery{})

	g = NewGateway(nil, time.Hour)
	if g.Enabled() {
		t.Error("gateway without a store must be disabled")
	}
}
