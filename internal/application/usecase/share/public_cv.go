package share

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-studio/internal/application/compose"
	"github.com/khoahotran/cv-studio/internal/application/disclosure"
	"github.com/khoahotran/cv-studio/internal/application/service"
	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/internal/domain/share"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

var tracer = otel.Tracer("share_usecase")

type GetPublicCVUseCase struct {
	shareRepo   share.Repository
	docRepo     document.Repository
	profileRepo profile.Repository
	resolver    *compose.Resolver
	views       service.ViewRecorder
	cache       service.PublicCVCache
	cacheTTL    time.Duration
	logger      logger.Logger
	now         func() time.Time
}

// NewGetPublicCVUseCase builds the public link reader. cache may be nil.
func NewGetPublicCVUseCase(
	shareRepo share.Repository,
	docRepo document.Repository,
	profileRepo profile.Repository,
	resolver *compose.Resolver,
	views service.ViewRecorder,
	cache service.PublicCVCache,
	cacheTTL time.Duration,
	log logger.Logger,
) *GetPublicCVUseCase {
	return &GetPublicCVUseCase{
		shareRepo:   shareRepo,
		docRepo:     docRepo,
		profileRepo: profileRepo,
		resolver:    resolver,
		views:       views,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      log,
		now:         time.Now,
	}
}

type GetPublicCVInput struct {
	Token string
}

// Execute returns the redacted CV behind a share token. Unknown tokens are
// not found; inactive or expired links are unavailable. The link is checked
// on every request, so a cached projection is never served for a link that
// has been turned off.
func (uc *GetPublicCVUseCase) Execute(ctx context.Context, input GetPublicCVInput) (*disclosure.PublicCV, error) {
	ctx, span := tracer.Start(ctx, "GetPublicCV")
	defer span.End()

	link, err := uc.shareRepo.FindByToken(ctx, input.Token)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("share_id", link.ID.String()))

	now := uc.now()
	if !link.Available(now) {
		return nil, apperror.NewUnavailable("shared CV", "the link has expired or was deactivated")
	}

	cv, hit := uc.cached(ctx, link)
	if !hit {
		cv, err = uc.build(ctx, link)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		uc.store(ctx, link, cv, now)
	}
	span.SetAttributes(attribute.Bool("cache_hit", hit))

	if err := uc.views.RecordView(ctx, link); err != nil {
		uc.logger.Warn("Failed to record share view",
			zap.String("share_id", link.ID.String()), zap.Error(err))
	}
	return cv, nil
}

func (uc *GetPublicCVUseCase) build(ctx context.Context, link *share.Link) (*disclosure.PublicCV, error) {
	doc, err := uc.docRepo.FindByIDUnscoped(ctx, link.DocumentID)
	if err != nil {
		return nil, err
	}
	resolved, err := uc.resolver.Compose(ctx, doc)
	if err != nil {
		return nil, err
	}
	p, err := uc.profileRepo.GetByUserID(ctx, doc.OwnerID)
	if err != nil {
		return nil, err
	}
	return disclosure.Redact(resolved, p, link.PrivacyLevel), nil
}

func (uc *GetPublicCVUseCase) cached(ctx context.Context, link *share.Link) (*disclosure.PublicCV, bool) {
	if uc.cache == nil {
		return nil, false
	}
	cv, ok, err := uc.cache.Get(ctx, link.Token)
	if err != nil {
		uc.logger.Warn("Public CV cache read failed", zap.String("share_id", link.ID.String()), zap.Error(err))
		return nil, false
	}
	// A projection cached under another level is never served.
	if ok && cv.PrivacyLevel != link.PrivacyLevel {
		return nil, false
	}
	return cv, ok
}

// store caches cv until the configured TTL or the link expiry, whichever
// comes first.
func (uc *GetPublicCVUseCase) store(ctx context.Context, link *share.Link, cv *disclosure.PublicCV, now time.Time) {
	if uc.cache == nil || uc.cacheTTL <= 0 {
		return
	}
	ttl := uc.cacheTTL
	if link.ExpiresAt != nil {
		if left := link.ExpiresAt.Sub(now); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		return
	}
	if err := uc.cache.Set(ctx, link.Token, cv, ttl); err != nil {
		uc.logger.Warn("Public CV cache write failed", zap.String("share_id", link.ID.String()), zap.Error(err))
	}
}
