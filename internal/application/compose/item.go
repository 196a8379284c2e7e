// Package compose merges a user's master profile with the selection rows of
// one CV document into the ordered content of that document.
package compose

import (
	"github.com/google/uuid"

	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
)

// Item is a master entity as it appears in one document. It is recomputed on
// every resolution and never stored.
type Item[M any] struct {
	Entity     M    `json:"entity"`
	IsSelected bool `json:"is_selected"`
	IsFavorite bool `json:"is_favorite"`
	// DisplayOrder is the key the item was ordered by, nil when it was placed
	// by the kind's fallback ordering.
	DisplayOrder *int `json:"display_order"`
	// Description is the override when set, otherwise the entity's own
	// description. Nil when the kind has none or the display mode hides it.
	Description *string `json:"description"`
	// Details holds the index-filtered bullets (work experience) or skills
	// (skill categories). Nil when the display mode hides them.
	Details     []string             `json:"details"`
	DisplayMode document.DisplayMode `json:"display_mode,omitempty"`
}

// Content is the resolved, ordered content of every entity-backed section.
type Content struct {
	Experience     []Item[profile.WorkExperience] `json:"experience,omitempty"`
	Education      []Item[profile.Education]      `json:"education,omitempty"`
	Skills         []Item[profile.SkillCategory]  `json:"skills,omitempty"`
	KeyCompetences []Item[profile.KeyCompetence]  `json:"key_competences,omitempty"`
	Projects       []Item[profile.Project]        `json:"projects,omitempty"`
	Certifications []Item[profile.Certification]  `json:"certifications,omitempty"`
	References     []Item[profile.Reference]      `json:"references,omitempty"`
}

// ResolvedDocument is a document with its layout and content resolved, ready
// for the disclosure filter.
type ResolvedDocument struct {
	DocumentID uuid.UUID             `json:"document_id"`
	OwnerID    uuid.UUID             `json:"owner_id"`
	Title      string                `json:"title"`
	Mode       document.LayoutMode   `json:"mode"`
	Pages      []document.PageLayout `json:"pages"`
	Content    Content               `json:"content"`
}

// HasSection reports whether the resolved layout places the section anywhere.
func (d *ResolvedDocument) HasSection(kind document.SectionKind) bool {
	for _, p := range d.Pages {
		for _, k := range p.Sidebar {
			if k == kind {
				return true
			}
		}
		for _, k := range p.Main {
			if k == kind {
				return true
			}
		}
	}
	return false
}
