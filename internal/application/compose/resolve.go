package compose

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type entityPtr[M any] interface {
	*M
	profile.Entity
}

// kindSpec holds what differs between entity kinds; everything else is
// shared by resolve.
type kindSpec[M any] struct {
	kind profile.EntityKind
	// fallback orders items that have no display order at all. Nil keeps
	// master list order.
	fallback func(a, b *M) int
	// merge applies the selection row to the item.
	merge func(m *M, sel *document.Selection, it *Item[M])
}

type ranked[M any] struct {
	item         Item[M]
	master       *M
	keyed        bool
	key          int
	fromOverride bool
}

// resolve merges masters with the document's selection rows. Deselected
// entities are dropped before ordering. Rows pointing at entities that are not
// in masters are ignored.
func resolve[M any, PM entityPtr[M]](spec kindSpec[M], documentID uuid.UUID, masters []M, selections []document.Selection, log logger.Logger) []Item[M] {
	byEntity := make(map[uuid.UUID]*document.Selection, len(selections))
	for i := range selections {
		byEntity[selections[i].EntityID] = &selections[i]
	}

	matched := make(map[uuid.UUID]bool, len(selections))
	rows := make([]ranked[M], 0, len(masters))
	for i := range masters {
		m := &masters[i]
		meta := PM(m).Base()

		sel := document.DefaultSelection(documentID, meta.ID, spec.kind)
		if row, ok := byEntity[meta.ID]; ok {
			matched[meta.ID] = true
			sel = *row
			if spec.kind == profile.KindWorkExperience && sel.DisplayMode == "" {
				sel.DisplayMode = document.DisplayCustom
			}
		}
		if !sel.IsSelected {
			continue
		}

		r := ranked[M]{
			item: Item[M]{
				Entity:     *m,
				IsSelected: true,
				IsFavorite: sel.IsFavorite,
			},
			master: m,
		}
		switch {
		case sel.DisplayOrder != nil:
			r.keyed, r.key, r.fromOverride = true, *sel.DisplayOrder, true
		case meta.DisplayOrder != nil:
			r.keyed, r.key = true, *meta.DisplayOrder
		}
		if r.keyed {
			key := r.key
			r.item.DisplayOrder = &key
		}
		spec.merge(m, &sel, &r.item)
		rows = append(rows, r)
	}

	for _, sel := range selections {
		if !matched[sel.EntityID] {
			log.Debug("Ignoring orphaned selection",
				zap.String("document_id", documentID.String()),
				zap.String("entity_id", sel.EntityID.String()),
				zap.String("kind", string(spec.kind)))
		}
	}

	// Keyed items come first, by key. On equal keys an explicit per-document
	// order beats one inherited from the master entity. Unkeyed items follow,
	// ordered by the kind's fallback. Anything still equal keeps list order.
	slices.SortStableFunc(rows, func(a, b ranked[M]) int {
		switch {
		case a.keyed && b.keyed:
			if c := cmp.Compare(a.key, b.key); c != 0 {
				return c
			}
			switch {
			case a.fromOverride && !b.fromOverride:
				return -1
			case b.fromOverride && !a.fromOverride:
				return 1
			}
			return 0
		case a.keyed:
			return -1
		case b.keyed:
			return 1
		case spec.fallback != nil:
			return spec.fallback(a.master, b.master)
		}
		return 0
	})

	out := make([]Item[M], len(rows))
	for i, r := range rows {
		out[i] = r.item
	}
	return out
}

func effectiveDescription(base, override *string) *string {
	if override != nil {
		v := *override
		return &v
	}
	if base != nil {
		v := *base
		return &v
	}
	return nil
}

func newestFirst(a, b profile.Date) int {
	return b.Compare(a.Time)
}

var workExperienceSpec = kindSpec[profile.WorkExperience]{
	kind: profile.KindWorkExperience,
	fallback: func(a, b *profile.WorkExperience) int {
		return newestFirst(a.StartDate, b.StartDate)
	},
	merge: func(m *profile.WorkExperience, sel *document.Selection, it *Item[profile.WorkExperience]) {
		it.DisplayMode = sel.DisplayMode
		switch sel.DisplayMode {
		case document.DisplaySimple:
		case document.DisplayWithDescription:
			it.Description = effectiveDescription(m.Description, sel.DescriptionOverride)
		default:
			it.Description = effectiveDescription(m.Description, sel.DescriptionOverride)
			it.Details = sel.SelectedIndices.Apply(m.Bullets)
		}
	},
}

var educationSpec = kindSpec[profile.Education]{
	kind: profile.KindEducation,
	fallback: func(a, b *profile.Education) int {
		return newestFirst(a.StartDate, b.StartDate)
	},
	merge: func(m *profile.Education, sel *document.Selection, it *Item[profile.Education]) {
		it.Description = effectiveDescription(m.Description, sel.DescriptionOverride)
	},
}

var skillCategorySpec = kindSpec[profile.SkillCategory]{
	kind: profile.KindSkillCategory,
	merge: func(m *profile.SkillCategory, sel *document.Selection, it *Item[profile.SkillCategory]) {
		it.Details = sel.SelectedIndices.Apply(m.Skills)
	},
}

var keyCompetenceSpec = kindSpec[profile.KeyCompetence]{
	kind: profile.KindKeyCompetence,
	merge: func(m *profile.KeyCompetence, sel *document.Selection, it *Item[profile.KeyCompetence]) {
		it.Description = effectiveDescription(m.Description, sel.DescriptionOverride)
	},
}

var projectSpec = kindSpec[profile.Project]{
	kind: profile.KindProject,
	merge: func(m *profile.Project, sel *document.Selection, it *Item[profile.Project]) {
		it.Description = effectiveDescription(m.Description, sel.DescriptionOverride)
	},
}

var certificationSpec = kindSpec[profile.Certification]{
	kind:  profile.KindCertification,
	merge: func(*profile.Certification, *document.Selection, *Item[profile.Certification]) {},
}

var referenceSpec = kindSpec[profile.Reference]{
	kind:  profile.KindReference,
	merge: func(*profile.Reference, *document.Selection, *Item[profile.Reference]) {},
}
