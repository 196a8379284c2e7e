package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/cv-studio/internal/domain/share"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type postgresShareRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresShareRepo(db *pgxpool.Pool, logger logger.Logger) share.Repository {
	return &postgresShareRepo{db: db, logger: logger}
}

const shareColumns = "id, token, document_id, owner_id, privacy_level, is_active, expires_at, view_count, created_at, updated_at"

func scanLink(row pgx.Row) (*share.Link, error) {
	l := &share.Link{}
	err := row.Scan(
		&l.ID,
		&l.Token,
		&l.DocumentID,
		&l.OwnerID,
		&l.PrivacyLevel,
		&l.IsActive,
		&l.ExpiresAt,
		&l.ViewCount,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("share link", "")
		}
		return nil, apperror.NewInternal("failed to scan share link row", err)
	}
	return l, nil
}

func (r *postgresShareRepo) Save(ctx context.Context, link *share.Link) error {
	query := `
		INSERT INTO share_links (id, token, document_id, owner_id, privacy_level, is_active, expires_at, view_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		link.ID, link.Token, link.DocumentID, link.OwnerID, string(link.PrivacyLevel),
		link.IsActive, link.ExpiresAt, link.ViewCount, link.CreatedAt, link.UpdatedAt,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case codeUniqueViolation:
			return apperror.NewConflict("share link", "token", "")
		case codeForeignKeyViolation:
			return apperror.NewNotFound("document", link.DocumentID.String())
		}
		return apperror.NewInternal("failed to save share link", err)
	}
	return nil
}

func (r *postgresShareRepo) FindByToken(ctx context.Context, token string) (*share.Link, error) {
	query := `SELECT ` + shareColumns + ` FROM share_links WHERE token = $1`
	return scanLink(r.db.QueryRow(ctx, query, token))
}

func (r *postgresShareRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*share.Link, error) {
	query := `SELECT ` + shareColumns + ` FROM share_links WHERE id = $1 AND owner_id = $2`
	l, err := scanLink(r.db.QueryRow(ctx, query, id, ownerID))
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("share link", id.String())
	}
	return l, err
}

func (r *postgresShareRepo) ListByDocument(ctx context.Context, documentID uuid.UUID, ownerID uuid.UUID) ([]*share.Link, error) {
	query := `SELECT ` + shareColumns + ` FROM share_links WHERE document_id = $1 AND owner_id = $2 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, documentID, ownerID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query share links", err)
	}
	defer rows.Close()

	links := make([]*share.Link, 0)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating share link rows", err)
	}
	return links, nil
}

func (r *postgresShareRepo) Deactivate(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE share_links SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND owner_id = $2`,
		id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to deactivate share link", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("share link", id.String())
	}
	return nil
}

// IncrementViewCount is a single atomic update so concurrent views are never
// lost.
func (r *postgresShareRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE share_links SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return apperror.NewInternal("failed to increment view count", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("share link", id.String())
	}
	return nil
}
