package service

import (
	"context"
	"time"

	"github.com/khoahotran/cv-studio/internal/application/disclosure"
	"github.com/khoahotran/cv-studio/internal/domain/share"
)

// ViewRecorder counts a view of a public link. Counting is at least once.
type ViewRecorder interface {
	RecordView(ctx context.Context, link *share.Link) error
}

// PublicCVCache holds redacted projections keyed by share token.
type PublicCVCache interface {
	Get(ctx context.Context, token string) (*disclosure.PublicCV, bool, error)
	Set(ctx context.Context, token string, cv *disclosure.PublicCV, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}
