package compose

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

var tracer = otel.Tracer("compose")

// Resolver computes the effective items of a document, one entity kind at a
// time. It only reads.
type Resolver struct {
	entities   profile.EntityRepository
	selections document.SelectionRepository
	logger     logger.Logger
}

func NewResolver(entities profile.EntityRepository, selections document.SelectionRepository, log logger.Logger) *Resolver {
	return &Resolver{
		entities:   entities,
		selections: selections,
		logger:     log,
	}
}

func resolveKind[M any, PM entityPtr[M]](ctx context.Context, r *Resolver, doc *document.Document, spec kindSpec[M]) ([]Item[M], error) {
	recs, err := r.entities.ListByKind(ctx, doc.OwnerID, spec.kind)
	if err != nil {
		return nil, err
	}
	masters, err := profile.DecodeAll[M, PM](recs)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Sprintf("decode %s entities", spec.kind), err)
	}
	sels, err := r.selections.ListByKind(ctx, doc.ID, spec.kind)
	if err != nil {
		return nil, err
	}
	return resolve[M, PM](spec, doc.ID, masters, sels, r.logger), nil
}

func (r *Resolver) WorkExperiences(ctx context.Context, doc *document.Document) ([]Item[profile.WorkExperience], error) {
	return resolveKind(ctx, r, doc, workExperienceSpec)
}

func (r *Resolver) Education(ctx context.Context, doc *document.Document) ([]Item[profile.Education], error) {
	return resolveKind(ctx, r, doc, educationSpec)
}

func (r *Resolver) SkillCategories(ctx context.Context, doc *document.Document) ([]Item[profile.SkillCategory], error) {
	return resolveKind(ctx, r, doc, skillCategorySpec)
}

func (r *Resolver) KeyCompetences(ctx context.Context, doc *document.Document) ([]Item[profile.KeyCompetence], error) {
	return resolveKind(ctx, r, doc, keyCompetenceSpec)
}

func (r *Resolver) Projects(ctx context.Context, doc *document.Document) ([]Item[profile.Project], error) {
	return resolveKind(ctx, r, doc, projectSpec)
}

func (r *Resolver) Certifications(ctx context.Context, doc *document.Document) ([]Item[profile.Certification], error) {
	return resolveKind(ctx, r, doc, certificationSpec)
}

func (r *Resolver) References(ctx context.Context, doc *document.Document) ([]Item[profile.Reference], error) {
	return resolveKind(ctx, r, doc, referenceSpec)
}

// Compose resolves the document's layout and the content of every
// entity-backed section the layout places. Sections missing from the layout
// are not resolved. A stored layout that fails validation is reported, not
// repaired.
func (r *Resolver) Compose(ctx context.Context, doc *document.Document) (*ResolvedDocument, error) {
	ctx, span := tracer.Start(ctx, "Compose")
	defer span.End()
	span.SetAttributes(attribute.String("document_id", doc.ID.String()))

	pages, err := doc.ResolveLayout()
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInvalidConfig(fmt.Sprintf("document %s has an unusable layout", doc.ID), err)
	}

	out := &ResolvedDocument{
		DocumentID: doc.ID,
		OwnerID:    doc.OwnerID,
		Title:      doc.Title,
		Mode:       doc.LayoutMode,
		Pages:      pages,
	}

	g, gctx := errgroup.WithContext(ctx)
	c := &out.Content
	if out.HasSection(document.SectionExperience) {
		g.Go(func() (err error) { c.Experience, err = r.WorkExperiences(gctx, doc); return })
	}
	if out.HasSection(document.SectionEducation) {
		g.Go(func() (err error) { c.Education, err = r.Education(gctx, doc); return })
	}
	if out.HasSection(document.SectionSkills) {
		g.Go(func() (err error) { c.Skills, err = r.SkillCategories(gctx, doc); return })
	}
	if out.HasSection(document.SectionKeyCompetences) {
		g.Go(func() (err error) { c.KeyCompetences, err = r.KeyCompetences(gctx, doc); return })
	}
	if out.HasSection(document.SectionProjects) {
		g.Go(func() (err error) { c.Projects, err = r.Projects(gctx, doc); return })
	}
	if out.HasSection(document.SectionCertifications) {
		g.Go(func() (err error) { c.Certifications, err = r.Certifications(gctx, doc); return })
	}
	if out.HasSection(document.SectionReferences) {
		g.Go(func() (err error) { c.References, err = r.References(gctx, doc); return })
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}
