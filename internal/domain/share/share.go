package share

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PrivacyLevel is the amount of personal information hidden from viewers of
// a shared CV. "none" hides nothing; "full" is full privacy protection.
type PrivacyLevel string

const (
	PrivacyNone     PrivacyLevel = "none"
	PrivacyPersonal PrivacyLevel = "personal"
	PrivacyFull     PrivacyLevel = "full"
)

var ErrInvalidPrivacyLevel = errors.New("invalid privacy level")

func (p PrivacyLevel) Valid() bool {
	switch p {
	case PrivacyNone, PrivacyPersonal, PrivacyFull:
		return true
	}
	return false
}

func ParsePrivacyLevel(s string) (PrivacyLevel, error) {
	p := PrivacyLevel(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPrivacyLevel, s)
	}
	return p, nil
}

func (p *PrivacyLevel) UnmarshalText(b []byte) error {
	v, err := ParsePrivacyLevel(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

type Link struct {
	ID           uuid.UUID    `json:"id"`
	Token        string       `json:"token"`
	DocumentID   uuid.UUID    `json:"document_id"`
	OwnerID      uuid.UUID    `json:"owner_id"`
	PrivacyLevel PrivacyLevel `json:"privacy_level"`
	IsActive     bool         `json:"is_active"`
	ExpiresAt    *time.Time   `json:"expires_at"`
	ViewCount    int64        `json:"view_count"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Available reports whether the link may be served at the given time.
func (l *Link) Available(now time.Time) bool {
	if !l.IsActive {
		return false
	}
	return l.ExpiresAt == nil || now.Before(*l.ExpiresAt)
}

const tokenBytes = 24

// NewToken returns a random URL-safe token.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type Repository interface {
	Save(ctx context.Context, link *Link) error
	FindByToken(ctx context.Context, token string) (*Link, error)
	FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Link, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID, ownerID uuid.UUID) ([]*Link, error)
	Deactivate(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}
