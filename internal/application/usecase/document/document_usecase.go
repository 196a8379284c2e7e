package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type DocumentUseCase struct {
	docRepo document.Repository
	logger  logger.Logger
}

func NewDocumentUseCase(repo document.Repository, log logger.Logger) *DocumentUseCase {
	return &DocumentUseCase{docRepo: repo, logger: log}
}

// validationError maps a document validation failure to the error taxonomy:
// layout problems are configuration errors, the rest is bad input.
func validationError(err error) error {
	switch {
	case errors.Is(err, document.ErrTitleRequired), errors.Is(err, document.ErrUnknownMode):
		return apperror.NewInvalidInput(err.Error(), err)
	default:
		return apperror.NewInvalidConfig(err.Error(), err)
	}
}

type CreateDocumentInput struct {
	OwnerID    uuid.UUID
	Title      string
	LayoutMode document.LayoutMode
	Layout     *document.LayoutConfig
}

func (uc *DocumentUseCase) ExecuteCreate(ctx context.Context, input CreateDocumentInput) (*document.Document, error) {
	mode := input.LayoutMode
	if mode == "" && input.Layout != nil {
		mode = input.Layout.Mode
	}
	if mode == "" {
		mode = document.ModeTwoColumn
	}

	now := time.Now().UTC()
	doc := &document.Document{
		ID:         uuid.New(),
		OwnerID:    input.OwnerID,
		Title:      strings.TrimSpace(input.Title),
		LayoutMode: mode,
		Layout:     input.Layout,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := doc.Validate(); err != nil {
		return nil, validationError(err)
	}

	if err := uc.docRepo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document failed: %w", err)
	}
	return doc, nil
}

type GetDocumentInput struct {
	OwnerID    uuid.UUID
	DocumentID uuid.UUID
}

func (uc *DocumentUseCase) ExecuteGet(ctx context.Context, input GetDocumentInput) (*document.Document, error) {
	return uc.docRepo.FindByID(ctx, input.DocumentID, input.OwnerID)
}

type ListDocumentsInput struct {
	OwnerID uuid.UUID
	Page    int
	Limit   int
}

type ListDocumentsOutput struct {
	Documents []*document.Document
	Page      int
	Limit     int
}

func (uc *DocumentUseCase) ExecuteList(ctx context.Context, input ListDocumentsInput) (*ListDocumentsOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = defaultPageSize
	}
	if input.Limit > maxPageSize {
		input.Limit = maxPageSize
	}
	docs, err := uc.docRepo.ListByOwner(ctx, input.OwnerID, input.Limit, (input.Page-1)*input.Limit)
	if err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return &ListDocumentsOutput{Documents: docs, Page: input.Page, Limit: input.Limit}, nil
}

// ExecuteDelete removes a document together with its selections and share
// links.
func (uc *DocumentUseCase) ExecuteDelete(ctx context.Context, input GetDocumentInput) error {
	return uc.docRepo.Delete(ctx, input.DocumentID, input.OwnerID)
}

type SetLayoutInput struct {
	OwnerID    uuid.UUID
	DocumentID uuid.UUID
	// Layout replaces the stored configuration. Nil goes back to the default
	// layout for Mode.
	Layout *document.LayoutConfig
	Mode   document.LayoutMode
}

// ExecuteSetLayout stores a layout after validating it. An invalid layout is
// rejected as a whole; nothing is repaired.
func (uc *DocumentUseCase) ExecuteSetLayout(ctx context.Context, input SetLayoutInput) (*document.Document, error) {
	doc, err := uc.docRepo.FindByID(ctx, input.DocumentID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	switch {
	case input.Layout != nil:
		doc.LayoutMode = input.Layout.Mode
	case input.Mode != "":
		doc.LayoutMode = input.Mode
	}
	doc.SetLayout(input.Layout)
	if err := doc.Validate(); err != nil {
		return nil, validationError(err)
	}
	doc.UpdatedAt = time.Now().UTC()

	if err := uc.docRepo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("update layout failed: %w", err)
	}
	return doc, nil
}

type LayoutOutput struct {
	Mode   document.LayoutMode
	Custom bool
	Pages  []document.PageLayout
}

func (uc *DocumentUseCase) ExecuteGetLayout(ctx context.Context, input GetDocumentInput) (*LayoutOutput, error) {
	doc, err := uc.docRepo.FindByID(ctx, input.DocumentID, input.OwnerID)
	if err != nil {
		return nil, err
	}
	pages, err := doc.ResolveLayout()
	if err != nil {
		return nil, apperror.NewInvalidConfig(fmt.Sprintf("document %s has an unusable layout", doc.ID), err)
	}
	return &LayoutOutput{Mode: doc.LayoutMode, Custom: doc.Layout != nil, Pages: pages}, nil
}
