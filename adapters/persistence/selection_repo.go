package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type postgresSelectionRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresSelectionRepo(db *pgxpool.Pool, logger logger.Logger) document.SelectionRepository {
	return &postgresSelectionRepo{db: db, logger: logger}
}

func scanSelection(row pgx.Row) (*document.Selection, error) {
	s := &document.Selection{}
	var (
		indices []int32
		mode    *string
	)
	err := row.Scan(
		&s.DocumentID,
		&s.EntityID,
		&s.Kind,
		&s.IsSelected,
		&s.IsFavorite,
		&s.DisplayOrder,
		&s.DescriptionOverride,
		&indices,
		&mode,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, apperror.NewInternal("failed to scan selection row", err)
	}
	if indices != nil {
		s.SelectedIndices = make(document.IndexFilter, len(indices))
		for i, v := range indices {
			s.SelectedIndices[i] = int(v)
		}
	}
	if mode != nil {
		s.DisplayMode = document.DisplayMode(*mode)
	}
	return s, nil
}

func (r *postgresSelectionRepo) ListByKind(ctx context.Context, documentID uuid.UUID, kind profile.EntityKind) ([]document.Selection, error) {
	query := `
		SELECT document_id, entity_id, kind, is_selected, is_favorite, display_order,
			description_override, selected_indices, display_mode, updated_at
		FROM document_selections
		WHERE document_id = $1 AND kind = $2
		ORDER BY updated_at, entity_id
	`
	rows, err := r.db.Query(ctx, query, documentID, string(kind))
	if err != nil {
		return nil, apperror.NewInternal("failed to query selections", err)
	}
	defer rows.Close()

	out := make([]document.Selection, 0)
	for rows.Next() {
		s, err := scanSelection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating selection rows", err)
	}
	return out, nil
}

const upsertSelectionSQL = `
	INSERT INTO document_selections (
		document_id, entity_id, kind, is_selected, is_favorite, display_order,
		description_override, selected_indices, display_mode, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (document_id, entity_id) DO UPDATE SET
		kind = EXCLUDED.kind,
		is_selected = EXCLUDED.is_selected,
		is_favorite = EXCLUDED.is_favorite,
		display_order = EXCLUDED.display_order,
		description_override = EXCLUDED.description_override,
		selected_indices = EXCLUDED.selected_indices,
		display_mode = EXCLUDED.display_mode,
		updated_at = EXCLUDED.updated_at
`

func indicesArg(f document.IndexFilter) any {
	if f == nil {
		return nil
	}
	out := make([]int32, len(f))
	for i, v := range f {
		out[i] = int32(v)
	}
	return out
}

func modeArg(m document.DisplayMode) any {
	if m == "" {
		return nil
	}
	return string(m)
}

// UpsertBatch writes every row inside one transaction. Any failure rolls the
// whole batch back.
func (r *postgresSelectionRepo) UpsertBatch(ctx context.Context, documentID uuid.UUID, kind profile.EntityKind, rows []document.Selection) ([]document.Selection, error) {
	for i := range rows {
		if rows[i].DocumentID != documentID || rows[i].Kind != kind {
			return nil, apperror.NewInvalidInput(
				fmt.Sprintf("selection row %d does not belong to document %s and kind %s", i, documentID, kind), nil)
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, apperror.NewInternal("failed to begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.logger.Warn("Selection batch rollback failed", zap.Error(rbErr))
		}
	}()

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, s := range rows {
		batch.Queue(upsertSelectionSQL,
			s.DocumentID, s.EntityID, string(s.Kind), s.IsSelected, s.IsFavorite, s.DisplayOrder,
			s.DescriptionOverride, indicesArg(s.SelectedIndices), modeArg(s.DisplayMode), now,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range rows {
		if _, err := br.Exec(); err != nil {
			br.Close()
			if pgErrorCode(err) == codeForeignKeyViolation {
				return nil, apperror.NewNotFound("document", documentID.String())
			}
			return nil, apperror.NewInternal(fmt.Sprintf("failed to upsert selection row %d", i), err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, apperror.NewInternal("failed to close selection batch", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.NewInternal("failed to commit selections", err)
	}

	out := make([]document.Selection, len(rows))
	for i, s := range rows {
		s.UpdatedAt = now
		out[i] = s
	}
	return out, nil
}

func (r *postgresSelectionRepo) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM document_selections WHERE document_id = $1`, documentID); err != nil {
		return apperror.NewInternal("failed to delete selections", err)
	}
	return nil
}
