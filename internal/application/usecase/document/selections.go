package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

var tracer = otel.Tracer("document_usecase")

type SelectionUseCase struct {
	docRepo       document.Repository
	entityRepo    profile.EntityRepository
	selectionRepo document.SelectionRepository
	logger        logger.Logger
}

func NewSelectionUseCase(docRepo document.Repository, entityRepo profile.EntityRepository, selectionRepo document.SelectionRepository, log logger.Logger) *SelectionUseCase {
	return &SelectionUseCase{
		docRepo:       docRepo,
		entityRepo:    entityRepo,
		selectionRepo: selectionRepo,
		logger:        log,
	}
}

type ListSelectionsInput struct {
	OwnerID    uuid.UUID
	DocumentID uuid.UUID
	Kind       profile.EntityKind
}

// ExecuteList returns the stored selection rows. Entities without a row use
// the defaults and are not listed.
func (uc *SelectionUseCase) ExecuteList(ctx context.Context, input ListSelectionsInput) ([]document.Selection, error) {
	if !input.Kind.Selectable() {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("%q does not take selections", input.Kind), document.ErrSelectionKind)
	}
	if _, err := uc.docRepo.FindByID(ctx, input.DocumentID, input.OwnerID); err != nil {
		return nil, err
	}
	return uc.selectionRepo.ListByKind(ctx, input.DocumentID, input.Kind)
}

type UpsertSelectionsInput struct {
	OwnerID    uuid.UUID
	DocumentID uuid.UUID
	Kind       profile.EntityKind
	// Rows are full replacements of the stored rows, keyed by EntityID.
	Rows []document.Selection
}

type UpsertSelectionsOutput struct {
	Rows []document.Selection
}

// ExecuteUpsert writes a batch of selections for one kind. Either every row
// is committed or the call fails with a single ErrPartialWrite and nothing is
// reported as saved.
func (uc *SelectionUseCase) ExecuteUpsert(ctx context.Context, input UpsertSelectionsInput) (*UpsertSelectionsOutput, error) {
	ctx, span := tracer.Start(ctx, "UpsertSelections")
	defer span.End()
	span.SetAttributes(
		attribute.String("document_id", input.DocumentID.String()),
		attribute.String("kind", string(input.Kind)),
		attribute.Int("rows", len(input.Rows)),
	)

	if !input.Kind.Selectable() {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("%q does not take selections", input.Kind), document.ErrSelectionKind)
	}
	if _, err := uc.docRepo.FindByID(ctx, input.DocumentID, input.OwnerID); err != nil {
		return nil, err
	}

	recs, err := uc.entityRepo.ListByKind(ctx, input.OwnerID, input.Kind)
	if err != nil {
		return nil, err
	}
	owned := make(map[uuid.UUID]bool, len(recs))
	for _, rec := range recs {
		owned[rec.ID] = true
	}

	now := time.Now().UTC()
	rows := make([]document.Selection, len(input.Rows))
	seen := make(map[uuid.UUID]bool, len(input.Rows))
	for i, row := range input.Rows {
		if seen[row.EntityID] {
			return nil, apperror.NewInvalidInput(fmt.Sprintf("entity %s appears more than once", row.EntityID), nil)
		}
		seen[row.EntityID] = true
		if !owned[row.EntityID] {
			return nil, apperror.NewNotFound(string(input.Kind), row.EntityID.String())
		}

		row.DocumentID = input.DocumentID
		row.Kind = input.Kind
		row.UpdatedAt = now
		if err := row.Normalize(); err != nil {
			return nil, apperror.NewInvalidInput(fmt.Sprintf("row %d: %s", i, err), err)
		}
		rows[i] = row
	}

	saved, err := uc.selectionRepo.UpsertBatch(ctx, input.DocumentID, input.Kind, rows)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Selection batch failed", err,
			zap.String("document_id", input.DocumentID.String()),
			zap.String("kind", string(input.Kind)),
			zap.Int("rows", len(rows)))
		return nil, apperror.NewPartialWrite(fmt.Sprintf("%d %s selections not saved", len(rows), input.Kind), err)
	}
	return &UpsertSelectionsOutput{Rows: saved}, nil
}
