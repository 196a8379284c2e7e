package http

import (
	"time"

	"github.com/google/uuid"

	documentUC "github.com/khoahotran/cv-studio/internal/application/usecase/document"
	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/internal/domain/share"
)

// Profile DTOs
type ProfileDTO struct {
	FirstName   string                   `json:"first_name"`
	LastName    string                   `json:"last_name"`
	Headline    string                   `json:"headline"`
	Summary     string                   `json:"summary"`
	Email       string                   `json:"email"`
	Phone       string                   `json:"phone"`
	Location    string                   `json:"location"`
	LinkedInURL string                   `json:"linkedin_url"`
	GitHubURL   string                   `json:"github_url"`
	PhotoURL    *string                  `json:"photo_url"`
	Languages   []profile.LanguageSkill  `json:"languages"`
	Motivation  profile.MotivationVision `json:"motivation"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

type UpdateProfileRequest struct {
	FirstName   string                   `json:"first_name"`
	LastName    string                   `json:"last_name"`
	Headline    string                   `json:"headline"`
	Summary     string                   `json:"summary"`
	Email       string                   `json:"email"`
	Phone       string                   `json:"phone"`
	Location    string                   `json:"location"`
	LinkedInURL string                   `json:"linkedin_url"`
	GitHubURL   string                   `json:"github_url"`
	Languages   []profile.LanguageSkill  `json:"languages"`
	Motivation  profile.MotivationVision `json:"motivation"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	dto := ProfileDTO{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Headline:    p.Headline,
		Summary:     p.Summary,
		Email:       p.Email,
		Phone:       p.Phone,
		Location:    p.Location,
		LinkedInURL: p.LinkedInURL,
		GitHubURL:   p.GitHubURL,
		PhotoURL:    p.PhotoURL,
		Languages:   p.Languages,
		Motivation:  p.Motivation,
		UpdatedAt:   p.UpdatedAt,
	}
	if dto.Languages == nil {
		dto.Languages = []profile.LanguageSkill{}
	}
	return dto
}

// Document DTOs
type DocumentDTO struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	LayoutMode   document.LayoutMode `json:"layout_mode"`
	CustomLayout bool                `json:"custom_layout"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func ToDocumentDTO(d *document.Document) DocumentDTO {
	return DocumentDTO{
		ID:           d.ID,
		Title:        d.Title,
		LayoutMode:   d.LayoutMode,
		CustomLayout: d.Layout != nil,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type CreateDocumentRequest struct {
	Title      string                 `json:"title" binding:"required"`
	LayoutMode document.LayoutMode    `json:"layout_mode"`
	Layout     *document.LayoutConfig `json:"layout"`
}

type SetLayoutRequest struct {
	Mode   document.LayoutMode    `json:"mode"`
	Layout *document.LayoutConfig `json:"layout"`
}

type LayoutDTO struct {
	Mode   document.LayoutMode   `json:"mode"`
	Custom bool                  `json:"custom"`
	Pages  []document.PageLayout `json:"pages"`
}

func ToLayoutDTO(out *documentUC.LayoutOutput) LayoutDTO {
	return LayoutDTO{Mode: out.Mode, Custom: out.Custom, Pages: out.Pages}
}

// Selection DTOs
type SelectionRowRequest struct {
	EntityID uuid.UUID `json:"entity_id" binding:"required"`
	// IsSelected defaults to true when omitted.
	IsSelected          *bool                `json:"is_selected"`
	IsFavorite          bool                 `json:"is_favorite"`
	DisplayOrder        *int                 `json:"display_order"`
	DescriptionOverride *string              `json:"description_override"`
	SelectedIndices     document.IndexFilter `json:"selected_indices"`
	DisplayMode         document.DisplayMode `json:"display_mode"`
}

type UpsertSelectionsRequest struct {
	Rows []SelectionRowRequest `json:"rows" binding:"required,dive"`
}

func (req *UpsertSelectionsRequest) ToDomainRows(documentID uuid.UUID, kind profile.EntityKind) []document.Selection {
	rows := make([]document.Selection, len(req.Rows))
	for i, r := range req.Rows {
		selected := true
		if r.IsSelected != nil {
			selected = *r.IsSelected
		}
		rows[i] = document.Selection{
			DocumentID:          documentID,
			EntityID:            r.EntityID,
			Kind:                kind,
			IsSelected:          selected,
			IsFavorite:          r.IsFavorite,
			DisplayOrder:        r.DisplayOrder,
			DescriptionOverride: r.DescriptionOverride,
			SelectedIndices:     r.SelectedIndices,
			DisplayMode:         r.DisplayMode,
		}
	}
	return rows
}

// Share DTOs
type CreateShareLinkRequest struct {
	PrivacyLevel share.PrivacyLevel `json:"privacy_level" binding:"required"`
	ExpiresAt    *time.Time         `json:"expires_at"`
}

type ShareLinkDTO struct {
	ID           uuid.UUID          `json:"id"`
	Token        string             `json:"token"`
	URL          string             `json:"url"`
	DocumentID   uuid.UUID          `json:"document_id"`
	PrivacyLevel share.PrivacyLevel `json:"privacy_level"`
	IsActive     bool               `json:"is_active"`
	ExpiresAt    *time.Time         `json:"expires_at"`
	ViewCount    int64              `json:"view_count"`
	CreatedAt    time.Time          `json:"created_at"`
}

func ToShareLinkDTO(l *share.Link) ShareLinkDTO {
	return ShareLinkDTO{
		ID:           l.ID,
		Token:        l.Token,
		URL:          "/api/public/cv/" + l.Token,
		DocumentID:   l.DocumentID,
		PrivacyLevel: l.PrivacyLevel,
		IsActive:     l.IsActive,
		ExpiresAt:    l.ExpiresAt,
		ViewCount:    l.ViewCount,
		CreatedAt:    l.CreatedAt,
	}
}

func ToShareLinkDTOs(links []*share.Link) []ShareLinkDTO {
	out := make([]ShareLinkDTO, len(links))
	for i, l := range links {
		out[i] = ToShareLinkDTO(l)
	}
	return out
}
