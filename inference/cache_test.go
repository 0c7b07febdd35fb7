package inference

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGet(t *testing.T) {
	cache := NewCache[string]()

	cache.Set("k", "v", time.Minute)
	got, ok := cache.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestCache_MissingKey(t *testing.T) {
	cache := NewCache[int]()

	got, ok := cache.Get("absent")
	assert.False(t, ok)
	assert.Zero(t, got)
}

func TestCache_Expiry(t *testing.T) {
	cache := NewCache[string]()

	cache.Set("k", "v", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := cache.Get("k")
	assert.False(t, ok)
	// expired entry was purged on read
	assert.Equal(t, 0, cache.Len())
}

func TestCache_OverwriteUsesLatestValue(t *testing.T) {
	cache := NewCache[string]()

	cache.Set("k", "first", time.Minute)
	cache.Set("k", "second", time.Minute)

	got, ok := cache.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "second", got)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_NonPositiveTTLExpiresImmediately(t *testing.T) {
	cache := NewCache[string]()

	cache.Set("k", "v", 0)
	_, ok := cache.Get("k")
	assert.False(t, ok)
}
