package document

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/cv-studio/internal/application/compose"
	"github.com/khoahotran/cv-studio/internal/application/disclosure"
	"github.com/khoahotran/cv-studio/internal/application/service"
	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/internal/domain/share"
	"github.com/khoahotran/cv-studio/pkg/apperror"
)

type ComposeUseCase struct {
	docRepo     document.Repository
	profileRepo profile.Repository
	resolver    *compose.Resolver
	renderer    service.Renderer
}

// NewComposeUseCase builds the composition and export use cases. renderer may
// be nil, in which case exports are rejected.
func NewComposeUseCase(docRepo document.Repository, profileRepo profile.Repository, resolver *compose.Resolver, renderer service.Renderer) *ComposeUseCase {
	return &ComposeUseCase{
		docRepo:     docRepo,
		profileRepo: profileRepo,
		resolver:    resolver,
		renderer:    renderer,
	}
}

type ComposeInput struct {
	OwnerID    uuid.UUID
	DocumentID uuid.UUID
}

// Execute returns the owner's editing view of a document: the resolved layout
// and every section's resolved items.
func (uc *ComposeUseCase) Execute(ctx context.Context, input ComposeInput) (*compose.ResolvedDocument, error) {
	doc, err := uc.docRepo.FindByID(ctx, input.DocumentID, input.OwnerID)
	if err != nil {
		return nil, err
	}
	return uc.resolver.Compose(ctx, doc)
}

type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatHTML ExportFormat = "html"
)

type ExportInput struct {
	OwnerID      uuid.UUID
	DocumentID   uuid.UUID
	Format       ExportFormat
	PrivacyLevel share.PrivacyLevel
}

type ExportOutput struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExecuteExport renders the owner's document. The renderer only ever sees the
// redacted projection, so the owner can preview any privacy level. The level
// defaults to none.
func (uc *ComposeUseCase) ExecuteExport(ctx context.Context, input ExportInput) (*ExportOutput, error) {
	ctx, span := tracer.Start(ctx, "Export")
	defer span.End()
	span.SetAttributes(attribute.String("format", string(input.Format)))

	if uc.renderer == nil {
		return nil, apperror.NewInvalidConfig("rendering is not configured", nil)
	}
	level := input.PrivacyLevel
	if level == "" {
		level = share.PrivacyNone
	}
	if !level.Valid() {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("unknown privacy level %q", level), share.ErrInvalidPrivacyLevel)
	}
	if input.Format == "" {
		input.Format = FormatPDF
	}

	resolved, err := uc.Execute(ctx, ComposeInput{OwnerID: input.OwnerID, DocumentID: input.DocumentID})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	p, err := uc.profileRepo.GetByUserID(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	cv := disclosure.Redact(resolved, p, level)

	return Render(ctx, uc.renderer, cv, input.Format)
}

// Render produces the requested format from a redacted CV.
func Render(ctx context.Context, r service.Renderer, cv *disclosure.PublicCV, format ExportFormat) (*ExportOutput, error) {
	var (
		out = &ExportOutput{Filename: filename(cv.Title, format)}
		err error
	)
	switch format {
	case FormatPDF:
		out.ContentType = "application/pdf"
		out.Content, err = r.RenderPDF(ctx, cv)
	case FormatHTML:
		out.ContentType = "text/html; charset=utf-8"
		out.Content, err = r.RenderHTML(ctx, cv)
	default:
		return nil, apperror.NewInvalidInput(fmt.Sprintf("unsupported export format %q", format), nil)
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to render document", err)
	}
	return out, nil
}

func filename(title string, format ExportFormat) string {
	b := make([]rune, 0, len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b = append(b, r)
		case r == ' ':
			b = append(b, '-')
		}
	}
	if len(b) == 0 {
		return "cv." + string(format)
	}
	return string(b) + "." + string(format)
}
