package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/khoahotran/cv-studio/pkg/apperror"
)

// OwnerClaims identify the single account that owns every profile, document
// and share link reachable with the token.
type OwnerClaims struct {
	OwnerID uuid.UUID `json:"owner_id"`
	jwt.RegisteredClaims
}

// JWTService issues and checks owner access tokens. Tokens from another
// issuer or signed with another method are refused.
type JWTService struct {
	secret   []byte
	issuer   string
	lifespan time.Duration
	now      func() time.Time
}

func NewJWTService(secret, issuer string, lifespan time.Duration) *JWTService {
	return &JWTService{
		secret:   []byte(secret),
		issuer:   issuer,
		lifespan: lifespan,
		now:      time.Now,
	}
}

func (s *JWTService) GenerateToken(ownerID uuid.UUID) (string, error) {
	now := s.now()
	claims := OwnerClaims{
		OwnerID: ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifespan)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("cannot sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken returns the owner claims of a usable token. Every rejection
// is an apperror.ErrUnauthorized; expiry is reported separately in Details.
func (s *JWTService) ValidateToken(token string) (*OwnerClaims, error) {
	claims := &OwnerClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, apperror.NewUnauthorized("token expired", err)
	case err != nil:
		return nil, apperror.NewUnauthorized("invalid token", err)
	case claims.OwnerID == uuid.Nil:
		return nil, apperror.NewUnauthorized("token carries no owner", nil)
	}
	return claims, nil
}
