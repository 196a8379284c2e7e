package document

import (
	"errors"
	"fmt"
)

type LayoutMode string

const (
	ModeSingleColumn LayoutMode = "single-column"
	ModeTwoColumn    LayoutMode = "two-column"
)

func (m LayoutMode) Valid() bool {
	return m == ModeSingleColumn || m == ModeTwoColumn
}

// SectionKind names a block placeable in a document layout.
type SectionKind string

const (
	SectionPhoto          SectionKind = "photo"
	SectionContact        SectionKind = "contact"
	SectionLanguages      SectionKind = "languages"
	SectionCertifications SectionKind = "certifications"
	SectionHeader         SectionKind = "header"
	SectionProfile        SectionKind = "profile"
	SectionExperience     SectionKind = "experience"
	SectionEducation      SectionKind = "education"
	SectionSkills         SectionKind = "skills"
	SectionKeyCompetences SectionKind = "keyCompetences"
	SectionProjects       SectionKind = "projects"
	SectionReferences     SectionKind = "references"
)

type Region string

const (
	RegionSidebar Region = "sidebar"
	RegionMain    Region = "main"
)

var sidebarSections = map[SectionKind]bool{
	SectionPhoto:          true,
	SectionContact:        true,
	SectionSkills:         true,
	SectionLanguages:      true,
	SectionEducation:      true,
	SectionCertifications: true,
}

var mainSections = map[SectionKind]bool{
	SectionHeader:         true,
	SectionProfile:        true,
	SectionExperience:     true,
	SectionEducation:      true,
	SectionSkills:         true,
	SectionKeyCompetences: true,
	SectionProjects:       true,
	SectionReferences:     true,
}

func (k SectionKind) Known() bool {
	return sidebarSections[k] || mainSections[k]
}

// AllowedIn reports whether the section may be placed in the region.
func (k SectionKind) AllowedIn(r Region) bool {
	switch r {
	case RegionSidebar:
		return sidebarSections[k]
	case RegionMain:
		return mainSections[k]
	}
	return false
}

type PageLayout struct {
	Sidebar []SectionKind `json:"sidebar"`
	Main    []SectionKind `json:"main"`
}

type LayoutConfig struct {
	Mode  LayoutMode   `json:"mode"`
	Pages []PageLayout `json:"pages"`
}

var (
	ErrUnknownMode         = errors.New("unknown layout mode")
	ErrModeMismatch        = errors.New("layout mode does not match document mode")
	ErrNoPages             = errors.New("layout has no pages")
	ErrUnknownSection      = errors.New("unknown section kind")
	ErrSectionRegion       = errors.New("section kind not allowed in region")
	ErrDuplicateSection    = errors.New("section kind appears more than once")
	ErrSidebarSingleColumn = errors.New("single-column layout cannot have sidebar sections")
)

// Validate reports the first problem in the config. Nothing is corrected.
func (c LayoutConfig) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, c.Mode)
	}
	if len(c.Pages) == 0 {
		return ErrNoPages
	}
	seen := make(map[SectionKind]string)
	for i, page := range c.Pages {
		if c.Mode == ModeSingleColumn && len(page.Sidebar) > 0 {
			return fmt.Errorf("%w: page %d", ErrSidebarSingleColumn, i+1)
		}
		regions := []struct {
			region Region
			kinds  []SectionKind
		}{
			{RegionSidebar, page.Sidebar},
			{RegionMain, page.Main},
		}
		for _, r := range regions {
			for _, kind := range r.kinds {
				where := fmt.Sprintf("page %d %s", i+1, r.region)
				if !kind.Known() {
					return fmt.Errorf("%w: %q at %s", ErrUnknownSection, kind, where)
				}
				if !kind.AllowedIn(r.region) {
					return fmt.Errorf("%w: %q at %s", ErrSectionRegion, kind, where)
				}
				if prev, ok := seen[kind]; ok {
					return fmt.Errorf("%w: %q at %s and %s", ErrDuplicateSection, kind, prev, where)
				}
				seen[kind] = where
			}
		}
	}
	return nil
}

// Sections returns every section kind in the config in page order,
// sidebar before main.
func (c LayoutConfig) Sections() []SectionKind {
	var out []SectionKind
	for _, p := range c.Pages {
		out = append(out, p.Sidebar...)
		out = append(out, p.Main...)
	}
	return out
}

// DefaultLayout returns a fresh copy of the built-in layout for the mode.
func DefaultLayout(mode LayoutMode) (LayoutConfig, error) {
	switch mode {
	case ModeSingleColumn:
		return LayoutConfig{
			Mode: ModeSingleColumn,
			Pages: []PageLayout{{
				Sidebar: []SectionKind{},
				Main: []SectionKind{
					SectionHeader, SectionProfile, SectionExperience, SectionEducation,
					SectionSkills, SectionKeyCompetences, SectionProjects, SectionReferences,
				},
			}},
		}, nil
	case ModeTwoColumn:
		return LayoutConfig{
			Mode: ModeTwoColumn,
			Pages: []PageLayout{{
				Sidebar: []SectionKind{
					SectionPhoto, SectionContact, SectionSkills, SectionLanguages, SectionCertifications,
				},
				Main: []SectionKind{
					SectionHeader, SectionProfile, SectionExperience, SectionEducation,
					SectionKeyCompetences, SectionProjects, SectionReferences,
				},
			}},
		}, nil
	}
	return LayoutConfig{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}
