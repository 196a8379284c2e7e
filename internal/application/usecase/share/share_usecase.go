package share

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-studio/internal/application/service"
	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/share"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

const tokenAttempts = 3

type ShareUseCase struct {
	shareRepo share.Repository
	docRepo   document.Repository
	cache     service.PublicCVCache
	logger    logger.Logger
	now       func() time.Time
}

// NewShareUseCase builds the owner-side share link use cases. cache may be
// nil.
func NewShareUseCase(shareRepo share.Repository, docRepo document.Repository, cache service.PublicCVCache, log logger.Logger) *ShareUseCase {
	return &ShareUseCase{
		shareRepo: shareRepo,
		docRepo:   docRepo,
		cache:     cache,
		logger:    log,
		now:       time.Now,
	}
}

type CreateShareLinkInput struct {
	OwnerID      uuid.UUID
	DocumentID   uuid.UUID
	PrivacyLevel share.PrivacyLevel
	ExpiresAt    *time.Time
}

func (uc *ShareUseCase) ExecuteCreate(ctx context.Context, input CreateShareLinkInput) (*share.Link, error) {
	if !input.PrivacyLevel.Valid() {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("unknown privacy level %q", input.PrivacyLevel), share.ErrInvalidPrivacyLevel)
	}
	now := uc.now().UTC()
	if input.ExpiresAt != nil && !input.ExpiresAt.After(now) {
		return nil, apperror.NewInvalidInput("expires_at must be in the future", nil)
	}
	if _, err := uc.docRepo.FindByID(ctx, input.DocumentID, input.OwnerID); err != nil {
		return nil, err
	}

	link := &share.Link{
		ID:           uuid.New(),
		DocumentID:   input.DocumentID,
		OwnerID:      input.OwnerID,
		PrivacyLevel: input.PrivacyLevel,
		IsActive:     true,
		ExpiresAt:    input.ExpiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var err error
	for range tokenAttempts {
		if link.Token, err = share.NewToken(); err != nil {
			return nil, apperror.NewInternal("failed to generate token", err)
		}
		err = uc.shareRepo.Save(ctx, link)
		if !errors.Is(err, apperror.ErrConflict) {
			break
		}
		uc.logger.Warn("Share token collision, retrying", zap.String("document_id", input.DocumentID.String()))
	}
	if err != nil {
		return nil, fmt.Errorf("save share link failed: %w", err)
	}

	uc.logger.Info("Share link created",
		zap.String("share_id", link.ID.String()),
		zap.String("document_id", link.DocumentID.String()),
		zap.String("privacy_level", string(link.PrivacyLevel)))
	return link, nil
}

type ListShareLinksInput struct {
	OwnerID    uuid.UUID
	DocumentID uuid.UUID
}

func (uc *ShareUseCase) ExecuteList(ctx context.Context, input ListShareLinksInput) ([]*share.Link, error) {
	if _, err := uc.docRepo.FindByID(ctx, input.DocumentID, input.OwnerID); err != nil {
		return nil, err
	}
	return uc.shareRepo.ListByDocument(ctx, input.DocumentID, input.OwnerID)
}

type DeactivateShareLinkInput struct {
	OwnerID uuid.UUID
	ShareID uuid.UUID
}

// ExecuteDeactivate turns a link off for good and evicts its cached view.
func (uc *ShareUseCase) ExecuteDeactivate(ctx context.Context, input DeactivateShareLinkInput) error {
	link, err := uc.shareRepo.FindByID(ctx, input.ShareID, input.OwnerID)
	if err != nil {
		return err
	}
	if err := uc.shareRepo.Deactivate(ctx, link.ID, input.OwnerID); err != nil {
		return fmt.Errorf("deactivate share link failed: %w", err)
	}
	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, link.Token); err != nil {
			uc.logger.Warn("Failed to evict public CV from cache",
				zap.String("share_id", link.ID.String()), zap.Error(err))
		}
	}
	return nil
}
