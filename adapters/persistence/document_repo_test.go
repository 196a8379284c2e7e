package persistence

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

// staticRow is a pgx.Row over fixed column values.
type staticRow struct {
	values []any
	err    error
}

func (r staticRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		if r.values[i] == nil {
			continue
		}
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func documentRow(layout []byte) staticRow {
	now := time.Now().UTC()
	return staticRow{values: []any{
		uuid.New(), uuid.New(), "Platform CV", document.ModeTwoColumn, layout, now, now,
	}}
}

func TestScanDocument_UnreadableLayoutIsNotReplaced(t *testing.T) {
	d, err := scanDocument(documentRow([]byte(`{"mode":"two-column","pages":"oops"}`)), logger.NewNop())
	require.NoError(t, err)
	assert.Nil(t, d.Layout)

	pages, err := d.ResolveLayout()
	assert.ErrorIs(t, err, document.ErrUnreadableLayout)
	assert.Nil(t, pages)
}

func TestScanDocument_Layouts(t *testing.T) {
	d, err := scanDocument(documentRow(nil), logger.NewNop())
	require.NoError(t, err)
	assert.Nil(t, d.Layout)
	_, err = d.ResolveLayout()
	assert.NoError(t, err)

	cfg, err := document.DefaultLayout(document.ModeTwoColumn)
	require.NoError(t, err)
	raw, err := marshalLayout(&cfg)
	require.NoError(t, err)
	d, err = scanDocument(documentRow(raw), logger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, d.Layout)
	assert.Equal(t, cfg.Pages, d.Layout.Pages)
}

func TestScanDocument_NoRows(t *testing.T) {
	_, err := scanDocument(staticRow{err: pgx.ErrNoRows}, logger.NewNop())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
