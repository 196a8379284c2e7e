package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type postgresDocumentRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresDocumentRepo(db *pgxpool.Pool, logger logger.Logger) document.Repository {
	return &postgresDocumentRepo{db: db, logger: logger}
}

var psqlDocument = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const documentColumns = "id, owner_id, title, layout_mode, layout, created_at, updated_at"

// scanDocument keeps a document whose stored layout cannot be decoded
// readable for listing and replacement, but marks it so that resolving the
// layout fails instead of using the default.
func scanDocument(row pgx.Row, l logger.Logger) (*document.Document, error) {
	d := &document.Document{}
	var layoutBytes []byte

	err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Title,
		&d.LayoutMode,
		&layoutBytes,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("document", "")
		}
		return nil, apperror.NewInternal("failed to scan document row", err)
	}

	if len(layoutBytes) > 0 {
		var cfg document.LayoutConfig
		if err := json.Unmarshal(layoutBytes, &cfg); err != nil {
			l.Error("Stored document layout is unreadable", err, zap.String("document_id", d.ID.String()))
			d.MarkLayoutUnreadable(err)
		} else {
			d.Layout = &cfg
		}
	}
	return d, nil
}

func marshalLayout(cfg *document.LayoutConfig) ([]byte, error) {
	if cfg == nil {
		return nil, nil
	}
	return json.Marshal(cfg)
}

func (r *postgresDocumentRepo) Save(ctx context.Context, doc *document.Document) error {
	layout, err := marshalLayout(doc.Layout)
	if err != nil {
		return apperror.NewInternal("failed to marshal layout", err)
	}
	query := `
		INSERT INTO cv_documents (id, owner_id, title, layout_mode, layout, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.Exec(ctx, query,
		doc.ID, doc.OwnerID, doc.Title, string(doc.LayoutMode), layout, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case codeUniqueViolation:
			return apperror.NewConflict("document", "id", doc.ID.String())
		case codeForeignKeyViolation:
			return apperror.NewNotFound("user", doc.OwnerID.String())
		}
		return apperror.NewInternal("failed to save document", err)
	}
	return nil
}

func (r *postgresDocumentRepo) Update(ctx context.Context, doc *document.Document) error {
	layout, err := marshalLayout(doc.Layout)
	if err != nil {
		return apperror.NewInternal("failed to marshal layout", err)
	}
	query := `
		UPDATE cv_documents SET
			title = $3, layout_mode = $4, layout = $5, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
	`
	cmdTag, err := r.db.Exec(ctx, query, doc.ID, doc.OwnerID, doc.Title, string(doc.LayoutMode), layout)
	if err != nil {
		return apperror.NewInternal("failed to update document", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("document", doc.ID.String())
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for selections and share links.
func (r *postgresDocumentRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM cv_documents WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete document", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("document", id.String())
	}
	return nil
}

func (r *postgresDocumentRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*document.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM cv_documents WHERE id = $1 AND owner_id = $2`
	d, err := scanDocument(r.db.QueryRow(ctx, query, id, ownerID), r.logger)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("document", id.String())
	}
	return d, err
}

func (r *postgresDocumentRepo) FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM cv_documents WHERE id = $1`
	d, err := scanDocument(r.db.QueryRow(ctx, query, id), r.logger)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.NewNotFound("document", id.String())
	}
	return d, err
}

func (r *postgresDocumentRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*document.Document, error) {
	builder := psqlDocument.Select(documentColumns).
		From("cv_documents").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list documents query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query documents by owner", err)
	}
	defer rows.Close()

	docs := make([]*document.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows, r.logger)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating document rows", err)
	}
	return docs, nil
}
