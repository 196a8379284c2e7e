package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-studio/internal/application/disclosure"
	"github.com/khoahotran/cv-studio/internal/domain/share"
)

func setupCache(t *testing.T) (*redisPublicCVCache, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return &redisPublicCVCache{client: client}, s
}

func TestPublicCVCache_RoundTrip(t *testing.T) {
	cache, s := setupCache(t)
	ctx := context.Background()

	cv := &disclosure.PublicCV{
		Title:        "Platform CV",
		PrivacyLevel: share.PrivacyPersonal,
		IsPrivate:    true,
		DisplayName:  "Jane D.",
		Sections: disclosure.Sections{
			Experience: []disclosure.Experience{{Company: "Acme", Position: "Engineer", Bullets: []string{"shipped"}}},
		},
	}
	require.NoError(t, cache.Set(ctx, "tok", cv, time.Minute))
	assert.True(t, s.Exists(publicCVKeyPrefix+"tok"))

	got, ok, err := cache.Get(ctx, "tok")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Jane D.", got.DisplayName)
	assert.Equal(t, share.PrivacyPersonal, got.PrivacyLevel)
	require.Len(t, got.Sections.Experience, 1)
	assert.Equal(t, []string{"shipped"}, got.Sections.Experience[0].Bullets)
}

func TestPublicCVCache_MissAndExpiry(t *testing.T) {
	cache, s := setupCache(t)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "tok", &disclosure.PublicCV{Title: "x"}, 30*time.Second))
	s.FastForward(31 * time.Second)

	_, ok, err = cache.Get(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPublicCVCache_NonPositiveTTLSkipsWrite(t *testing.T) {
	cache, s := setupCache(t)

	require.NoError(t, cache.Set(context.Background(), "tok", &disclosure.PublicCV{Title: "x"}, 0))
	assert.False(t, s.Exists(publicCVKeyPrefix+"tok"))
}

func TestPublicCVCache_Delete(t *testing.T) {
	cache, s := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "tok", &disclosure.PublicCV{Title: "x"}, time.Minute))
	require.NoError(t, cache.Delete(ctx, "tok"))
	assert.False(t, s.Exists(publicCVKeyPrefix+"tok"))

	require.NoError(t, cache.Delete(ctx, "never-set"))
}
