package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/internal/domain/share"
	"github.com/khoahotran/cv-studio/pkg/apperror"
)

type documentRepo struct{ s *Store }

func cloneDocument(d document.Document) document.Document {
	if d.Layout != nil {
		l := *d.Layout
		l.Pages = make([]document.PageLayout, len(d.Layout.Pages))
		for i, p := range d.Layout.Pages {
			l.Pages[i] = document.PageLayout{
				Sidebar: slices.Clone(p.Sidebar),
				Main:    slices.Clone(p.Main),
			}
		}
		d.Layout = &l
	}
	return d
}

func (r *documentRepo) Save(_ context.Context, doc *document.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.documents[doc.ID]; ok {
		return apperror.NewConflict("document", "id", doc.ID.String())
	}
	r.s.documents[doc.ID] = cloneDocument(*doc)
	return nil
}

func (r *documentRepo) Update(_ context.Context, doc *document.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.documents[doc.ID]
	if !ok || existing.OwnerID != doc.OwnerID {
		return apperror.NewNotFound("document", doc.ID.String())
	}
	r.s.documents[doc.ID] = cloneDocument(*doc)
	return nil
}

// Delete removes the document with its selections and share links.
func (r *documentRepo) Delete(_ context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.documents[id]
	if !ok || d.OwnerID != ownerID {
		return apperror.NewNotFound("document", id.String())
	}
	delete(r.s.documents, id)
	for k := range r.s.selections {
		if k.documentID == id {
			delete(r.s.selections, k)
		}
	}
	for k, l := range r.s.links {
		if l.DocumentID == id {
			delete(r.s.links, k)
		}
	}
	return nil
}

func (r *documentRepo) FindByID(_ context.Context, id uuid.UUID, ownerID uuid.UUID) (*document.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.documents[id]
	if !ok || d.OwnerID != ownerID {
		return nil, apperror.NewNotFound("document", id.String())
	}
	c := cloneDocument(d)
	return &c, nil
}

func (r *documentRepo) FindByIDUnscoped(_ context.Context, id uuid.UUID) (*document.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.documents[id]
	if !ok {
		return nil, apperror.NewNotFound("document", id.String())
	}
	c := cloneDocument(d)
	return &c, nil
}

func (r *documentRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]*document.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*document.Document, 0)
	for _, d := range r.s.documents {
		if d.OwnerID == ownerID {
			c := cloneDocument(d)
			all = append(all, &c)
		}
	}
	slices.SortFunc(all, func(a, b *document.Document) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if offset >= len(all) {
		return []*document.Document{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

type selectionRepo struct{ s *Store }

func cloneSelection(sel document.Selection) document.Selection {
	sel.SelectedIndices = slices.Clone(sel.SelectedIndices)
	if sel.DisplayOrder != nil {
		v := *sel.DisplayOrder
		sel.DisplayOrder = &v
	}
	if sel.DescriptionOverride != nil {
		v := *sel.DescriptionOverride
		sel.DescriptionOverride = &v
	}
	return sel
}

func (r *selectionRepo) ListByKind(_ context.Context, documentID uuid.UUID, kind profile.EntityKind) ([]document.Selection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]document.Selection, 0)
	for k, sel := range r.s.selections {
		if k.documentID == documentID && sel.Kind == kind {
			out = append(out, cloneSelection(sel))
		}
	}
	slices.SortFunc(out, func(a, b document.Selection) int {
		if c := a.UpdatedAt.Compare(b.UpdatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.EntityID[:], b.EntityID[:])
	})
	return out, nil
}

func (r *selectionRepo) UpsertBatch(_ context.Context, documentID uuid.UUID, kind profile.EntityKind, rows []document.Selection) ([]document.Selection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.documents[documentID]; !ok {
		return nil, apperror.NewNotFound("document", documentID.String())
	}
	for _, row := range rows {
		if row.DocumentID != documentID || row.Kind != kind {
			return nil, apperror.NewInvalidInput("selection row does not belong to this batch", nil)
		}
	}
	out := make([]document.Selection, len(rows))
	for i, row := range rows {
		c := cloneSelection(row)
		r.s.selections[selectionKey{documentID, row.EntityID}] = c
		out[i] = cloneSelection(c)
	}
	return out, nil
}

func (r *selectionRepo) DeleteByDocument(_ context.Context, documentID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k := range r.s.selections {
		if k.documentID == documentID {
			delete(r.s.selections, k)
		}
	}
	return nil
}

type shareRepo struct{ s *Store }

func (r *shareRepo) Save(_ context.Context, link *share.Link) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.links {
		if l.Token == link.Token {
			return apperror.NewConflict("share link", "token", "<redacted>")
		}
	}
	r.s.links[link.ID] = *link
	return nil
}

func (r *shareRepo) FindByToken(_ context.Context, token string) (*share.Link, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.links {
		if l.Token == token {
			return &l, nil
		}
	}
	return nil, apperror.NewNotFound("share link", "token")
}

func (r *shareRepo) FindByID(_ context.Context, id uuid.UUID, ownerID uuid.UUID) (*share.Link, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.links[id]
	if !ok || l.OwnerID != ownerID {
		return nil, apperror.NewNotFound("share link", id.String())
	}
	return &l, nil
}

func (r *shareRepo) ListByDocument(_ context.Context, documentID uuid.UUID, ownerID uuid.UUID) ([]*share.Link, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*share.Link, 0)
	for _, l := range r.s.links {
		if l.DocumentID == documentID && l.OwnerID == ownerID {
			c := l
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *share.Link) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r *shareRepo) Deactivate(_ context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.links[id]
	if !ok || l.OwnerID != ownerID {
		return apperror.NewNotFound("share link", id.String())
	}
	l.IsActive = false
	r.s.links[id] = l
	return nil
}

func (r *shareRepo) IncrementViewCount(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.links[id]
	if !ok {
		return apperror.NewNotFound("share link", id.String())
	}
	l.ViewCount++
	r.s.links[id] = l
	return nil
}
