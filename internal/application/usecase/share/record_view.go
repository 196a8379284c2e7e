package share

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/cv-studio/internal/application/service"
	"github.com/khoahotran/cv-studio/internal/domain/share"
	"github.com/khoahotran/cv-studio/pkg/apperror"
)

type directViewRecorder struct {
	shareRepo share.Repository
}

// NewDirectViewRecorder counts views synchronously in the share store. It is
// used when no message broker is configured.
func NewDirectViewRecorder(repo share.Repository) service.ViewRecorder {
	return &directViewRecorder{shareRepo: repo}
}

func (r *directViewRecorder) RecordView(ctx context.Context, link *share.Link) error {
	return r.shareRepo.IncrementViewCount(ctx, link.ID)
}

// ProcessViewEventUseCase applies a view event delivered by the broker.
// Redelivery may count a view twice. An event that can never succeed fails
// with apperror.ErrInvalidInput or apperror.ErrNotFound.
type ProcessViewEventUseCase struct {
	shareRepo share.Repository
}

func NewProcessViewEventUseCase(repo share.Repository) *ProcessViewEventUseCase {
	return &ProcessViewEventUseCase{shareRepo: repo}
}

type ProcessViewEventInput struct {
	ShareID uuid.UUID
}

func (uc *ProcessViewEventUseCase) Execute(ctx context.Context, input ProcessViewEventInput) error {
	if input.ShareID == uuid.Nil {
		return apperror.NewInvalidInput("view event without share id", nil)
	}
	return uc.shareRepo.IncrementViewCount(ctx, input.ShareID)
}
