package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is one CV built from the owner's master profile.
type Document struct {
	ID         uuid.UUID     `json:"id"`
	OwnerID    uuid.UUID     `json:"owner_id"`
	Title      string        `json:"title"`
	LayoutMode LayoutMode    `json:"layout_mode"`
	Layout     *LayoutConfig `json:"layout"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// layoutErr is set when a stored layout exists but could not be decoded.
	layoutErr error
}

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrUnreadableLayout = errors.New("stored layout cannot be decoded")
)

// MarkLayoutUnreadable records that the stored layout could not be decoded.
// ResolveLayout reports it until SetLayout replaces the layout.
func (d *Document) MarkLayoutUnreadable(cause error) {
	d.Layout = nil
	d.layoutErr = fmt.Errorf("%w: %v", ErrUnreadableLayout, cause)
}

// SetLayout replaces the stored layout. Nil selects the default for the mode.
func (d *Document) SetLayout(cfg *LayoutConfig) {
	d.Layout = cfg
	d.layoutErr = nil
}

func (d *Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}
	if !d.LayoutMode.Valid() {
		return ErrUnknownMode
	}
	if d.Layout != nil {
		if d.Layout.Mode != d.LayoutMode {
			return ErrModeMismatch
		}
		return d.Layout.Validate()
	}
	return nil
}

// ResolveLayout returns the pages of the document: the stored layout when
// present, otherwise the built-in default for the document's mode. A stored
// layout that is unreadable or invalid is an error; it never degrades to the
// default.
func (d *Document) ResolveLayout() ([]PageLayout, error) {
	if d.layoutErr != nil {
		return nil, d.layoutErr
	}
	cfg := d.Layout
	if cfg == nil {
		def, err := DefaultLayout(d.LayoutMode)
		if err != nil {
			return nil, err
		}
		cfg = &def
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pages := make([]PageLayout, len(cfg.Pages))
	for i, p := range cfg.Pages {
		pages[i] = PageLayout{
			Sidebar: append([]SectionKind{}, p.Sidebar...),
			Main:    append([]SectionKind{}, p.Main...),
		}
	}
	return pages, nil
}

type Repository interface {
	Save(ctx context.Context, doc *Document) error
	Update(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*Document, error)
	// FindByIDUnscoped is only used for share link resolution, where the
	// owner is taken from the stored document.
	FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*Document, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Document, error)
}
