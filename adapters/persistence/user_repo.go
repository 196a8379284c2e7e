package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/cv-studio/internal/domain/user"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type postgresUserRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresUserRepo(db *pgxpool.Pool, logger logger.Logger) user.Repository {
	return &postgresUserRepo{db: db, logger: logger}
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, email, name, password_hash
		FROM users
		WHERE lower(email) = lower($1)
	`
	u := &user.User{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", email)
		}
		return nil, apperror.NewInternal("failed to query user", err)
	}
	return u, nil
}

// Upsert creates the user or resets the password of an existing one. u.ID is
// set to the stored id.
func (r *postgresUserRepo) Upsert(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash)
		VALUES ($1, lower($2), $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			name = COALESCE(EXCLUDED.name, users.name),
			password_hash = EXCLUDED.password_hash
		RETURNING id
	`
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if err := r.db.QueryRow(ctx, query, u.ID, u.Email, u.Name, u.PasswordHash).Scan(&u.ID); err != nil {
		return apperror.NewInternal("failed to upsert user", err)
	}
	return nil
}
