package profile

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type LanguageSkill struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// MotivationVision is the singleton "motivation & vision" section of a profile.
type MotivationVision struct {
	Vision      string `json:"vision"`
	Mission     string `json:"mission"`
	CareerGoals string `json:"career_goals"`
	Motivation  string `json:"motivation"`
}

// HasContent reports whether any field counted towards completion is filled in.
func (m MotivationVision) HasContent() bool {
	for _, s := range []string{m.Vision, m.Mission, m.CareerGoals} {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

type Profile struct {
	OwnerID     uuid.UUID        `json:"owner_id"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Headline    string           `json:"headline"`
	Summary     string           `json:"summary"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	Location    string           `json:"location"`
	LinkedInURL string           `json:"linkedin_url"`
	GitHubURL   string           `json:"github_url"`
	PhotoURL    *string          `json:"photo_url"`
	Languages   []LanguageSkill  `json:"languages"`
	Motivation  MotivationVision `json:"motivation"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type Repository interface {
	GetByUserID(ctx context.Context, ownerID uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
}
