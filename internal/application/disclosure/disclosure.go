// Package disclosure turns a resolved document into the projection that may
// leave the system under a given privacy level.
//
// Every field of PublicCV is copied in explicitly for the levels that allow
// it. A field that is not mentioned here is never exposed.
package disclosure

import (
	"strings"

	"github.com/khoahotran/cv-studio/internal/application/compose"
	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/internal/domain/share"
)

// AnonymousName replaces the owner's name when it may not be shown.
const AnonymousName = "Anonymous"

type Contact struct {
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	GitHubURL   string `json:"github_url,omitempty"`
}

type Language struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

type Experience struct {
	Company     string        `json:"company"`
	Position    string        `json:"position"`
	Location    string        `json:"location,omitempty"`
	StartDate   profile.Date  `json:"start_date"`
	EndDate     *profile.Date `json:"end_date,omitempty"`
	Current     bool          `json:"current,omitempty"`
	Description string        `json:"description,omitempty"`
	Bullets     []string      `json:"bullets,omitempty"`
	IsFavorite  bool          `json:"is_favorite,omitempty"`
}

type Education struct {
	Institution  string        `json:"institution"`
	Degree       string        `json:"degree,omitempty"`
	FieldOfStudy string        `json:"field_of_study,omitempty"`
	StartDate    profile.Date  `json:"start_date"`
	EndDate      *profile.Date `json:"end_date,omitempty"`
	Description  string        `json:"description,omitempty"`
	IsFavorite   bool          `json:"is_favorite,omitempty"`
}

type SkillCategory struct {
	Name       string   `json:"name"`
	Skills     []string `json:"skills,omitempty"`
	IsFavorite bool     `json:"is_favorite,omitempty"`
}

type KeyCompetence struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	IsFavorite  bool   `json:"is_favorite,omitempty"`
}

type Project struct {
	Name         string        `json:"name"`
	Role         string        `json:"role,omitempty"`
	Description  string        `json:"description,omitempty"`
	URL          string        `json:"url,omitempty"`
	Technologies []string      `json:"technologies,omitempty"`
	StartDate    *profile.Date `json:"start_date,omitempty"`
	EndDate      *profile.Date `json:"end_date,omitempty"`
	IsFavorite   bool          `json:"is_favorite,omitempty"`
}

type Certification struct {
	Name          string        `json:"name"`
	Issuer        string        `json:"issuer,omitempty"`
	IssueDate     *profile.Date `json:"issue_date,omitempty"`
	ExpiryDate    *profile.Date `json:"expiry_date,omitempty"`
	CredentialURL string        `json:"credential_url,omitempty"`
	IsFavorite    bool          `json:"is_favorite,omitempty"`
}

// Reference contact details are third-party data and only pass under
// PrivacyNone.
type Reference struct {
	Name         string `json:"name"`
	Position     string `json:"position,omitempty"`
	Company      string `json:"company,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

type Sections struct {
	Experience     []Experience    `json:"experience,omitempty"`
	Education      []Education     `json:"education,omitempty"`
	Skills         []SkillCategory `json:"skills,omitempty"`
	KeyCompetences []KeyCompetence `json:"key_competences,omitempty"`
	Projects       []Project       `json:"projects,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	References     []Reference     `json:"references,omitempty"`
}

// PublicCV is the only shape handed to renderers and public responses.
type PublicCV struct {
	Title        string                `json:"title"`
	PrivacyLevel share.PrivacyLevel    `json:"privacy_level"`
	IsPrivate    bool                  `json:"is_private"`
	DisplayName  string                `json:"display_name"`
	Headline     string                `json:"headline,omitempty"`
	Summary      string                `json:"summary,omitempty"`
	Location     string                `json:"location,omitempty"`
	PhotoURL     string                `json:"photo_url,omitempty"`
	Contact      *Contact              `json:"contact,omitempty"`
	Languages    []Language            `json:"languages,omitempty"`
	Mode         document.LayoutMode   `json:"mode"`
	Pages        []document.PageLayout `json:"pages"`
	Sections     Sections              `json:"sections"`
}

// effectiveLevel maps anything unrecognised to the most restrictive level.
func effectiveLevel(level share.PrivacyLevel) share.PrivacyLevel {
	if level.Valid() {
		return level
	}
	return share.PrivacyFull
}

// DisplayName returns the name shown for the owner under the given level.
// Under PrivacyFull, or an unknown level, it is always AnonymousName.
func DisplayName(level share.PrivacyLevel, p *profile.Profile) string {
	if p == nil || effectiveLevel(level) == share.PrivacyFull {
		return AnonymousName
	}
	parts := make([]string, 0, 2)
	for _, s := range []string{p.FirstName, p.LastName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return AnonymousName
	}
	return strings.Join(parts, " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Redact builds the public projection of doc. A nil profile is treated as an
// empty one. The headline is a job title and is kept at every level. The
// summary is free text that usually names the owner, so it is only shown
// where the name is.
func Redact(doc *compose.ResolvedDocument, p *profile.Profile, level share.PrivacyLevel) *PublicCV {
	level = effectiveLevel(level)
	if p == nil {
		p = &profile.Profile{}
	}

	out := &PublicCV{
		Title:        doc.Title,
		PrivacyLevel: level,
		IsPrivate:    level == share.PrivacyFull,
		DisplayName:  DisplayName(level, p),
		Headline:     strings.TrimSpace(p.Headline),
		Mode:         doc.Mode,
		Pages:        doc.Pages,
	}
	for _, l := range p.Languages {
		out.Languages = append(out.Languages, Language{Name: l.Name, Level: l.Level})
	}

	switch level {
	case share.PrivacyNone:
		out.Summary = strings.TrimSpace(p.Summary)
		out.Location = p.Location
		out.PhotoURL = deref(p.PhotoURL)
		c := &Contact{
			Email:       p.Email,
			Phone:       p.Phone,
			LinkedInURL: p.LinkedInURL,
			GitHubURL:   p.GitHubURL,
		}
		if *c != (Contact{}) {
			out.Contact = c
		}
	case share.PrivacyPersonal:
		out.Summary = strings.TrimSpace(p.Summary)
		out.Location = p.Location
	}

	out.Sections = redactSections(&doc.Content, level)
	return out
}

func redactSections(c *compose.Content, level share.PrivacyLevel) Sections {
	var s Sections
	for _, it := range c.Experience {
		e := it.Entity
		s.Experience = append(s.Experience, Experience{
			Company:     e.Company,
			Position:    e.Position,
			Location:    e.Location,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Current:     e.Current,
			Description: deref(it.Description),
			Bullets:     it.Details,
			IsFavorite:  it.IsFavorite,
		})
	}
	for _, it := range c.Education {
		e := it.Entity
		s.Education = append(s.Education, Education{
			Institution:  e.Institution,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			Description:  deref(it.Description),
			IsFavorite:   it.IsFavorite,
		})
	}
	for _, it := range c.Skills {
		s.Skills = append(s.Skills, SkillCategory{Name: it.Entity.Name, Skills: it.Details, IsFavorite: it.IsFavorite})
	}
	for _, it := range c.KeyCompetences {
		s.KeyCompetences = append(s.KeyCompetences, KeyCompetence{
			Title:       it.Entity.Title,
			Description: deref(it.Description),
			IsFavorite:  it.IsFavorite,
		})
	}
	for _, it := range c.Projects {
		e := it.Entity
		s.Projects = append(s.Projects, Project{
			Name:         e.Name,
			Role:         e.Role,
			Description:  deref(it.Description),
			URL:          e.URL,
			Technologies: e.Technologies,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			IsFavorite:   it.IsFavorite,
		})
	}
	for _, it := range c.Certifications {
		e := it.Entity
		s.Certifications = append(s.Certifications, Certification{
			Name:          e.Name,
			Issuer:        e.Issuer,
			IssueDate:     e.IssueDate,
			ExpiryDate:    e.ExpiryDate,
			CredentialURL: e.CredentialURL,
			IsFavorite:    it.IsFavorite,
		})
	}
	for _, it := range c.References {
		e := it.Entity
		r := Reference{
			Name:         e.Name,
			Position:     e.Position,
			Company:      e.Company,
			Relationship: e.Relationship,
		}
		if level == share.PrivacyNone {
			r.Email = e.Email
			r.Phone = e.Phone
		}
		s.References = append(s.References, r)
	}
	return s
}
