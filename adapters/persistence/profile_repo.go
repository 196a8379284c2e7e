package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

func (r *postgresProfileRepo) GetByUserID(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	query := `
		SELECT owner_id, first_name, last_name, headline, summary, email, phone, location,
		       linkedin_url, github_url, photo_url, languages, motivation, updated_at
		FROM profiles
		WHERE owner_id = $1
	`
	p := &profile.Profile{}
	var languagesBytes, motivationBytes []byte

	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&p.OwnerID,
		&p.FirstName,
		&p.LastName,
		&p.Headline,
		&p.Summary,
		&p.Email,
		&p.Phone,
		&p.Location,
		&p.LinkedInURL,
		&p.GitHubURL,
		&p.PhotoURL,
		&languagesBytes,
		&motivationBytes,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &profile.Profile{
				OwnerID:   ownerID,
				Languages: []profile.LanguageSkill{},
			}, nil
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}

	if err := json.Unmarshal(languagesBytes, &p.Languages); err != nil {
		r.logger.Warn("Failed to unmarshal languages", zap.String("owner_id", ownerID.String()), zap.Error(err))
		p.Languages = []profile.LanguageSkill{}
	}
	if err := json.Unmarshal(motivationBytes, &p.Motivation); err != nil {
		r.logger.Warn("Failed to unmarshal motivation", zap.String("owner_id", ownerID.String()), zap.Error(err))
		p.Motivation = profile.MotivationVision{}
	}

	return p, nil
}

func (r *postgresProfileRepo) Upsert(ctx context.Context, p *profile.Profile) error {
	languages := p.Languages
	if languages == nil {
		languages = []profile.LanguageSkill{}
	}
	languagesBytes, err := json.Marshal(languages)
	if err != nil {
		return apperror.NewInternal("failed to marshal languages", err)
	}
	motivationBytes, err := json.Marshal(p.Motivation)
	if err != nil {
		return apperror.NewInternal("failed to marshal motivation", err)
	}

	query := `
		INSERT INTO profiles (owner_id, first_name, last_name, headline, summary, email, phone, location,
		                      linkedin_url, github_url, photo_url, languages, motivation, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (owner_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			headline = EXCLUDED.headline,
			summary = EXCLUDED.summary,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			linkedin_url = EXCLUDED.linkedin_url,
			github_url = EXCLUDED.github_url,
			photo_url = EXCLUDED.photo_url,
			languages = EXCLUDED.languages,
			motivation = EXCLUDED.motivation,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.Exec(ctx, query,
		p.OwnerID,
		p.FirstName,
		p.LastName,
		p.Headline,
		p.Summary,
		p.Email,
		p.Phone,
		p.Location,
		p.LinkedInURL,
		p.GitHubURL,
		p.PhotoURL,
		languagesBytes,
		motivationBytes,
		p.UpdatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return apperror.NewNotFound("user", p.OwnerID.String())
		}
		return apperror.NewInternal("failed to upsert profile", err)
	}
	return nil
}
