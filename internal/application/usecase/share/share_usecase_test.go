package share

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-studio/adapters/persistence/memory"
	"github.com/khoahotran/cv-studio/internal/application/compose"
	"github.com/khoahotran/cv-studio/internal/application/disclosure"
	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/internal/domain/share"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type mapCache struct {
	items map[string]*disclosure.PublicCV
	ttls  map[string]time.Duration
	gets  int
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string]*disclosure.PublicCV{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) Get(_ context.Context, token string) (*disclosure.PublicCV, bool, error) {
	c.gets++
	cv, ok := c.items[token]
	return cv, ok, nil
}

func (c *mapCache) Set(_ context.Context, token string, cv *disclosure.PublicCV, ttl time.Duration) error {
	c.items[token] = cv
	c.ttls[token] = ttl
	return nil
}

func (c *mapCache) Delete(_ context.Context, token string) error {
	delete(c.items, token)
	return nil
}

type failingRecorder struct{ calls int }

func (r *failingRecorder) RecordView(context.Context, *share.Link) error {
	r.calls++
	return errors.New("broker down")
}

type env struct {
	store  *memory.Store
	shares *ShareUseCase
	public *GetPublicCVUseCase
	cache  *mapCache
	owner  uuid.UUID
	doc    *document.Document
	now    time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	log := logger.NewNop()
	cache := newMapCache()
	e := &env{
		store: store,
		cache: cache,
		owner: uuid.New(),
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	e.shares = NewShareUseCase(store.Shares(), store.Documents(), cache, log)
	e.shares.now = func() time.Time { return e.now }
	e.public = NewGetPublicCVUseCase(store.Shares(), store.Documents(), store.Profiles(),
		compose.NewResolver(store.Entities(), store.Selections(), log),
		NewDirectViewRecorder(store.Shares()), cache, 10*time.Minute, log)
	e.public.now = func() time.Time { return e.now }

	e.doc = &document.Document{ID: uuid.New(), OwnerID: e.owner, Title: "Public CV", LayoutMode: document.ModeTwoColumn}
	require.NoError(t, store.Documents().Save(ctx, e.doc))
	require.NoError(t, store.Profiles().Upsert(ctx, &profile.Profile{
		OwnerID: e.owner, FirstName: "Grace", LastName: "Hopper",
		Email: "grace@example.com", Location: "Arlington",
	}))

	rec, err := profile.ToRecord(&profile.WorkExperience{
		Meta:    profile.Meta{ID: uuid.New(), OwnerID: e.owner},
		Company: "US Navy", Position: "Rear Admiral",
	})
	require.NoError(t, err)
	require.NoError(t, store.Entities().Save(ctx, &rec))
	return e
}

func (e *env) link(t *testing.T, level share.PrivacyLevel, expires *time.Time) *share.Link {
	t.Helper()
	l, err := e.shares.ExecuteCreate(context.Background(), CreateShareLinkInput{
		OwnerID: e.owner, DocumentID: e.doc.ID, PrivacyLevel: level, ExpiresAt: expires,
	})
	require.NoError(t, err)
	return l
}

func TestCreateShareLink(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	l := e.link(t, share.PrivacyPersonal, nil)
	assert.Len(t, l.Token, 32)
	assert.True(t, l.IsActive)
	assert.Zero(t, l.ViewCount)

	_, err := e.shares.ExecuteCreate(ctx, CreateShareLinkInput{OwnerID: e.owner, DocumentID: e.doc.ID, PrivacyLevel: "public"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	past := e.now.Add(-time.Hour)
	_, err = e.shares.ExecuteCreate(ctx, CreateShareLinkInput{OwnerID: e.owner, DocumentID: e.doc.ID, PrivacyLevel: share.PrivacyNone, ExpiresAt: &past})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = e.shares.ExecuteCreate(ctx, CreateShareLinkInput{OwnerID: uuid.New(), DocumentID: e.doc.ID, PrivacyLevel: share.PrivacyNone})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	links, err := e.shares.ExecuteList(ctx, ListShareLinksInput{OwnerID: e.owner, DocumentID: e.doc.ID})
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestGetPublicCV_RedactsAndCountsViews(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	l := e.link(t, share.PrivacyFull, nil)

	cv, err := e.public.Execute(ctx, GetPublicCVInput{Token: l.Token})
	require.NoError(t, err)
	assert.Equal(t, disclosure.AnonymousName, cv.DisplayName)
	assert.True(t, cv.IsPrivate)
	assert.Nil(t, cv.Contact)
	require.Len(t, cv.Sections.Experience, 1)
	assert.Equal(t, "US Navy", cv.Sections.Experience[0].Company)

	_, err = e.public.Execute(ctx, GetPublicCVInput{Token: l.Token})
	require.NoError(t, err)

	stored, err := e.store.Shares().FindByID(ctx, l.ID, e.owner)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.ViewCount)
}

func TestGetPublicCV_Outcomes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.public.Execute(ctx, GetPublicCVInput{Token: "does-not-exist"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	expires := e.now.Add(time.Hour)
	l := e.link(t, share.PrivacyNone, &expires)
	_, err = e.public.Execute(ctx, GetPublicCVInput{Token: l.Token})
	require.NoError(t, err)

	e.now = expires
	_, err = e.public.Execute(ctx, GetPublicCVInput{Token: l.Token})
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetPublicCV_UnreadableLayoutIsConfigError(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	l := e.link(t, share.PrivacyNone, nil)

	e.doc.MarkLayoutUnreadable(errors.New("pages: want array"))
	require.NoError(t, e.store.Documents().Update(ctx, e.doc))

	_, err := e.public.Execute(ctx, GetPublicCVInput{Token: l.Token})
	assert.ErrorIs(t, err, apperror.ErrInvalidConfig)
	assert.ErrorContains(t, err, document.ErrUnreadableLayout.Error())
	assert.NotContains(t, e.cache.items, l.Token)
}

func TestGetPublicCV_CacheRespectsExpiryAndDeactivation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	soon := e.now.Add(2 * time.Minute)
	short := e.link(t, share.PrivacyPersonal, &soon)
	_, err := e.public.Execute(ctx, GetPublicCVInput{Token: short.Token})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, e.cache.ttls[short.Token])

	l := e.link(t, share.PrivacyNone, nil)
	first, err := e.public.Execute(ctx, GetPublicCVInput{Token: l.Token})
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, e.cache.ttls[l.Token])

	second, err := e.public.Execute(ctx, GetPublicCVInput{Token: l.Token})
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, e.shares.ExecuteDeactivate(ctx, DeactivateShareLinkInput{OwnerID: e.owner, ShareID: l.ID}))
	assert.NotContains(t, e.cache.items, l.Token)

	_, err = e.public.Execute(ctx, GetPublicCVInput{Token: l.Token})
	assert.ErrorIs(t, err, apperror.ErrUnavailable)

	err = e.shares.ExecuteDeactivate(ctx, DeactivateShareLinkInput{OwnerID: uuid.New(), ShareID: short.ID})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetPublicCV_ViewRecordingFailureIsNotFatal(t *testing.T) {
	e := newEnv(t)
	rec := &failingRecorder{}
	e.public.views = rec
	l := e.link(t, share.PrivacyNone, nil)

	cv, err := e.public.Execute(context.Background(), GetPublicCVInput{Token: l.Token})
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", cv.DisplayName)
	assert.Equal(t, 1, rec.calls)
}

func TestProcessViewEvent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	l := e.link(t, share.PrivacyNone, nil)
	uc := NewProcessViewEventUseCase(e.store.Shares())

	require.NoError(t, uc.Execute(ctx, ProcessViewEventInput{ShareID: l.ID}))
	require.NoError(t, uc.Execute(ctx, ProcessViewEventInput{ShareID: l.ID}))
	assert.ErrorIs(t, uc.Execute(ctx, ProcessViewEventInput{}), apperror.ErrInvalidInput)
	assert.ErrorIs(t, uc.Execute(ctx, ProcessViewEventInput{ShareID: uuid.New()}), apperror.ErrNotFound)

	stored, err := e.store.Shares().FindByID(ctx, l.ID, e.owner)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.ViewCount)
}
