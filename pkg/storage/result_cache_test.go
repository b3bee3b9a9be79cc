package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trendlens-go/pkg/trends"
)

func TestResultCache_SetGet(t *testing.T) {
	cache := NewResultCache(4, 0)

	cache.Set("a", 1)
	value, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, value)

	_, ok = cache.Get("missing")
	assert.False(t, ok)
}

func TestResultCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewResultCache(2, 0)

	cache.Set("a", 1)
	cache.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	_, _ = cache.Get("a")
	cache.Set("c", 3)

	_, ok := cache.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, cache.Len())
}

func TestResultCache_TTLExpiry(t *testing.T) {
	cache := NewResultCache(4, 20*time.Millisecond)

	cache.Set("a", 1)
	time.Sleep(40 * time.Millisecond)

	_, ok := cache.Get("a")
	assert.False(t, ok, "expired entry should not be returned")
}

func TestFetchKey_Stability(t *testing.T) {
	payload := trends.Payload{
		Keywords:  []string{"Black Friday Deals", "Holiday Sales"},
		Timeframe: "today 12-m",
		Geo:       "US",
	}

	first := FetchKey("interest_over_time", payload)
	second := FetchKey("interest_over_time", payload)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "interest_over_time:")
}

func TestFetchKey_DistinguishesPayloads(t *testing.T) {
	base := trends.Payload{Keywords: []string{"a", "b"}, Geo: "US"}

	keys := map[string]bool{}
	variants := []trends.Payload{
		base,
		{Keywords: []string{"a,b"}, Geo: "US"}, // joined keyword must not collide
		{Keywords: []string{"b", "a"}, Geo: "US"},
		{Keywords: []string{"a", "b"}, Geo: ""},
		{Keywords: []string{"a", "b"}, Geo: "US", Resolution: trends.ResolutionCountry},
	}
	for i, p := range variants {
		key := FetchKey("interest_over_time", p)
		assert.False(t, keys[key], fmt.Sprintf("variant %d collided", i))
		keys[key] = true
	}

	otherKind := FetchKey("interest_by_region", base)
	assert.False(t, keys[otherKind], "kind must be part of the key")
}
