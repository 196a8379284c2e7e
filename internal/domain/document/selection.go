package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/cv-studio/internal/domain/profile"
)

// DisplayMode controls how much of a work experience entry is shown.
type DisplayMode string

const (
	DisplaySimple          DisplayMode = "simple"
	DisplayWithDescription DisplayMode = "with_description"
	DisplayCustom          DisplayMode = "custom"
)

var ErrInvalidDisplayMode = errors.New("invalid display mode")

func (m DisplayMode) Valid() bool {
	switch m {
	case DisplaySimple, DisplayWithDescription, DisplayCustom:
		return true
	}
	return false
}

func (m *DisplayMode) UnmarshalText(b []byte) error {
	v := DisplayMode(b)
	if v == "" {
		*m = ""
		return nil
	}
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDisplayMode, string(b))
	}
	*m = v
	return nil
}

// IndexFilter selects positions of an ordered list. A nil filter keeps every
// element; an empty, non-nil filter keeps none.
type IndexFilter []int

// Apply returns the elements whose index is in the filter, in their original
// order. Out of range and repeated indices are ignored.
func (f IndexFilter) Apply(items []string) []string {
	if f == nil {
		return append([]string(nil), items...)
	}
	keep := make(map[int]bool, len(f))
	for _, i := range f {
		keep[i] = true
	}
	out := make([]string, 0, len(f))
	for i, s := range items {
		if keep[i] {
			out = append(out, s)
		}
	}
	return out
}

// Selection is the per-document override row for one master entity. A
// missing row is equivalent to DefaultSelection.
type Selection struct {
	DocumentID          uuid.UUID          `json:"document_id"`
	EntityID            uuid.UUID          `json:"entity_id"`
	Kind                profile.EntityKind `json:"kind"`
	IsSelected          bool               `json:"is_selected"`
	IsFavorite          bool               `json:"is_favorite"`
	DisplayOrder        *int               `json:"display_order"`
	DescriptionOverride *string            `json:"description_override"`
	// SelectedIndices holds bullet indices for work experience and skill
	// indices for skill categories.
	SelectedIndices IndexFilter `json:"selected_indices"`
	DisplayMode     DisplayMode `json:"display_mode"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func DefaultSelection(documentID, entityID uuid.UUID, kind profile.EntityKind) Selection {
	s := Selection{
		DocumentID: documentID,
		EntityID:   entityID,
		Kind:       kind,
		IsSelected: true,
	}
	if kind == profile.KindWorkExperience {
		s.DisplayMode = DisplayCustom
	}
	return s
}

var (
	ErrSelectionKind     = errors.New("entity kind does not accept selections")
	ErrFieldNotSupported = errors.New("field not supported for entity kind")
	ErrNegativeIndex     = errors.New("selected indices must be non-negative")
)

func supportsDescriptionOverride(k profile.EntityKind) bool {
	switch k {
	case profile.KindWorkExperience, profile.KindEducation, profile.KindProject, profile.KindKeyCompetence:
		return true
	}
	return false
}

func supportsIndices(k profile.EntityKind) bool {
	return k == profile.KindWorkExperience || k == profile.KindSkillCategory
}

// Normalize fills kind defaults and rejects fields the kind does not carry.
func (s *Selection) Normalize() error {
	if !s.Kind.Selectable() {
		return fmt.Errorf("%w: %q", ErrSelectionKind, s.Kind)
	}
	if s.DescriptionOverride != nil && !supportsDescriptionOverride(s.Kind) {
		return fmt.Errorf("%w: description_override on %s", ErrFieldNotSupported, s.Kind)
	}
	if s.SelectedIndices != nil && !supportsIndices(s.Kind) {
		return fmt.Errorf("%w: selected_indices on %s", ErrFieldNotSupported, s.Kind)
	}
	for _, i := range s.SelectedIndices {
		if i < 0 {
			return ErrNegativeIndex
		}
	}
	if s.Kind == profile.KindWorkExperience {
		if s.DisplayMode == "" {
			s.DisplayMode = DisplayCustom
		}
		if !s.DisplayMode.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidDisplayMode, s.DisplayMode)
		}
	} else if s.DisplayMode != "" {
		return fmt.Errorf("%w: display_mode on %s", ErrFieldNotSupported, s.Kind)
	}
	return nil
}

// SelectionRepository is the per-document selection store, keyed by
// (document_id, entity_id).
type SelectionRepository interface {
	ListByKind(ctx context.Context, documentID uuid.UUID, kind profile.EntityKind) ([]Selection, error)
	// UpsertBatch replaces whole rows. Either every row is committed or none is.
	UpsertBatch(ctx context.Context, documentID uuid.UUID, kind profile.EntityKind, rows []Selection) ([]Selection, error)
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}
