package share

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_Available(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Hour), now.Add(time.Hour)

	assert.True(t, (&Link{IsActive: true}).Available(now))
	assert.True(t, (&Link{IsActive: true, ExpiresAt: &future}).Available(now))
	assert.False(t, (&Link{IsActive: true, ExpiresAt: &past}).Available(now))
	assert.False(t, (&Link{IsActive: true, ExpiresAt: &now}).Available(now))
	assert.False(t, (&Link{IsActive: false}).Available(now))
}

func TestNewToken(t *testing.T) {
	a, err := NewToken()
	require.NoError(t, err)
	b, err := NewToken()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
}

func TestPrivacyLevel_Parse(t *testing.T) {
	for _, s := range []string{"none", "personal", "full"} {
		p, err := ParsePrivacyLevel(s)
		require.NoError(t, err)
		assert.Equal(t, PrivacyLevel(s), p)
	}
	_, err := ParsePrivacyLevel("partial")
	assert.ErrorIs(t, err, ErrInvalidPrivacyLevel)

	var l Link
	assert.Error(t, json.Unmarshal([]byte(`{"privacy_level":"public"}`), &l))
}
