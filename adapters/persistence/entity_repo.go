package persistence

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type postgresEntityRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresEntityRepo(db *pgxpool.Pool, logger logger.Logger) profile.EntityRepository {
	return &postgresEntityRepo{db: db, logger: logger}
}

var psqlEntity = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const entityColumns = "id, owner_id, kind, display_order, payload, created_at, updated_at"

func scanRecord(row pgx.Row) (*profile.Record, error) {
	rec := &profile.Record{}
	var payload []byte
	err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Kind,
		&rec.DisplayOrder,
		&payload,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("entity", "")
		}
		return nil, apperror.NewInternal("failed to scan entity row", err)
	}
	rec.Payload = payload
	return rec, nil
}

func (r *postgresEntityRepo) ListByKind(ctx context.Context, ownerID uuid.UUID, kind profile.EntityKind) ([]profile.Record, error) {
	sql, args, err := psqlEntity.Select(entityColumns).
		From("master_entities").
		Where(sq.Eq{"owner_id": ownerID, "kind": string(kind)}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list entities query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query entities", err)
	}
	defer rows.Close()

	out := make([]profile.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating entity rows", err)
	}
	return out, nil
}

func (r *postgresEntityRepo) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*profile.Record, error) {
	query := `SELECT ` + entityColumns + ` FROM master_entities WHERE id = $1 AND owner_id = $2`
	rec, err := scanRecord(r.db.QueryRow(ctx, query, id, ownerID))
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("entity", id.String())
	}
	return rec, err
}

func (r *postgresEntityRepo) Save(ctx context.Context, rec *profile.Record) error {
	query := `
		INSERT INTO master_entities (id, owner_id, kind, display_order, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.OwnerID, string(rec.Kind), rec.DisplayOrder, []byte(rec.Payload),
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case codeUniqueViolation:
			return apperror.NewConflict("entity", "id", rec.ID.String())
		case codeForeignKeyViolation:
			return apperror.NewNotFound("user", rec.OwnerID.String())
		}
		return apperror.NewInternal("failed to save entity", err)
	}
	return nil
}

func (r *postgresEntityRepo) Update(ctx context.Context, rec *profile.Record) error {
	query := `
		UPDATE master_entities SET
			display_order = $3, payload = $4, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND kind = $5
	`
	cmdTag, err := r.db.Exec(ctx, query, rec.ID, rec.OwnerID, rec.DisplayOrder, []byte(rec.Payload), string(rec.Kind))
	if err != nil {
		return apperror.NewInternal("failed to update entity", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound(string(rec.Kind), rec.ID.String())
	}
	return nil
}

func (r *postgresEntityRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM master_entities WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete entity", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("entity", id.String())
	}
	return nil
}

func (r *postgresEntityRepo) CountByKind(ctx context.Context, ownerID uuid.UUID) (map[profile.EntityKind]int, error) {
	rows, err := r.db.Query(ctx, `SELECT kind, COUNT(*) FROM master_entities WHERE owner_id = $1 GROUP BY kind`, ownerID)
	if err != nil {
		return nil, apperror.NewInternal("failed to count entities", err)
	}
	defer rows.Close()

	out := make(map[profile.EntityKind]int)
	for rows.Next() {
		var (
			kind  string
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, apperror.NewInternal(fmt.Sprintf("failed to scan %s count", kind), err)
		}
		out[profile.EntityKind(kind)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating entity counts", err)
	}
	return out, nil
}
