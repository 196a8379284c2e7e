package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-studio/pkg/apperror"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "cv-studio-test", time.Hour)
	ownerID := uuid.New()

	token, err := svc.GenerateToken(ownerID)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, ownerID, claims.OwnerID)
	assert.Equal(t, "cv-studio-test", claims.Issuer)
}

func TestJWTService_Rejections(t *testing.T) {
	ownerID := uuid.New()
	good, err := NewJWTService("one", "cv-studio", time.Hour).GenerateToken(ownerID)
	require.NoError(t, err)

	noOwner, err := jwt.NewWithClaims(jwt.SigningMethodHS256, OwnerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "cv-studio",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("one"))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, OwnerClaims{
		OwnerID: ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "cv-studio",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("one"))
	require.NoError(t, err)

	cases := []struct {
		name  string
		svc   *JWTService
		token string
	}{
		{"foreign secret", NewJWTService("two", "cv-studio", time.Hour), good},
		{"foreign issuer", NewJWTService("one", "someone-else", time.Hour), good},
		{"other signing method", NewJWTService("one", "cv-studio", time.Hour), hs512},
		{"missing owner", NewJWTService("one", "cv-studio", time.Hour), noOwner},
		{"garbage", NewJWTService("one", "cv-studio", time.Hour), "not-a-token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.svc.ValidateToken(tc.token)
			assert.ErrorIs(t, err, apperror.ErrUnauthorized)
		})
	}
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("secret", "cv-studio", time.Hour)
	token, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(token)
	require.ErrorIs(t, err, apperror.ErrUnauthorized)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "token expired", appErr.Details)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("other", hash))
}
