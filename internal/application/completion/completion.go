// Package completion scores how much of a master profile has been filled in.
package completion

import (
	"math"

	"github.com/khoahotran/cv-studio/internal/domain/profile"
)

// Version identifies the section set below. Bump it together with
// SectionCount when a section is added or removed.
const (
	Version      = 1
	SectionCount = 9
)

type Section string

const (
	SectionWorkExperience   Section = "work_experience"
	SectionEducation        Section = "education"
	SectionSkills           Section = "skills"
	SectionKeyCompetences   Section = "key_competences"
	SectionCertifications   Section = "certifications"
	SectionReferences       Section = "references"
	SectionProjects         Section = "projects"
	SectionHighlights       Section = "highlights"
	SectionMotivationVision Section = "motivation_vision"
)

var listSections = []struct {
	section Section
	kind    profile.EntityKind
}{
	{SectionWorkExperience, profile.KindWorkExperience},
	{SectionEducation, profile.KindEducation},
	{SectionSkills, profile.KindSkillCategory},
	{SectionKeyCompetences, profile.KindKeyCompetence},
	{SectionCertifications, profile.KindCertification},
	{SectionReferences, profile.KindReference},
	{SectionProjects, profile.KindProject},
	{SectionHighlights, profile.KindHighlight},
}

// Snapshot is the part of a master profile the score depends on.
type Snapshot struct {
	Counts     map[profile.EntityKind]int
	Motivation profile.MotivationVision
}

type SectionStatus struct {
	Section    Section `json:"section"`
	Count      int     `json:"count"`
	IsComplete bool    `json:"is_complete"`
}

type Result struct {
	Version   int             `json:"version"`
	Sections  []SectionStatus `json:"sections"`
	Completed int             `json:"completed"`
	Total     int             `json:"total"`
	Percent   int             `json:"percent"`
}

// Calculate scores a snapshot. List sections are complete with one entry; the
// motivation section is complete when vision, mission or career goals is set.
func Calculate(s Snapshot) Result {
	res := Result{
		Version:  Version,
		Sections: make([]SectionStatus, 0, SectionCount),
		Total:    SectionCount,
	}
	for _, ls := range listSections {
		n := s.Counts[ls.kind]
		res.Sections = append(res.Sections, SectionStatus{Section: ls.section, Count: n, IsComplete: n >= 1})
	}
	mv := SectionStatus{Section: SectionMotivationVision}
	if s.Motivation.HasContent() {
		mv.Count, mv.IsComplete = 1, true
	}
	res.Sections = append(res.Sections, mv)

	for _, st := range res.Sections {
		if st.IsComplete {
			res.Completed++
		}
	}
	res.Percent = Percent(res.Completed)
	return res
}

// Percent is round(100 * completed / SectionCount).
func Percent(completed int) int {
	return int(math.Round(100 * float64(completed) / SectionCount))
}
