package compose

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-studio/adapters/persistence/memory"
	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/pkg/apperror"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

type fixture struct {
	store    *memory.Store
	resolver *Resolver
	owner    uuid.UUID
	doc      *document.Document
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:    store,
		resolver: NewResolver(store.Entities(), store.Selections(), logger.NewNop()),
		owner:    uuid.New(),
	}
	f.doc = &document.Document{
		ID:         uuid.New(),
		OwnerID:    f.owner,
		Title:      "Backend CV",
		LayoutMode: document.ModeTwoColumn,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, store.Documents().Save(context.Background(), f.doc))
	return f
}

func (f *fixture) add(t *testing.T, e profile.Entity, order *int) uuid.UUID {
	t.Helper()
	m := e.Base()
	m.ID = uuid.New()
	m.OwnerID = f.owner
	m.DisplayOrder = order
	rec, err := profile.ToRecord(e)
	require.NoError(t, err)
	require.NoError(t, f.store.Entities().Save(context.Background(), &rec))
	return m.ID
}

func (f *fixture) selections(t *testing.T, kind profile.EntityKind, rows ...document.Selection) {
	t.Helper()
	for i := range rows {
		rows[i].DocumentID = f.doc.ID
		rows[i].Kind = kind
		require.NoError(t, rows[i].Normalize())
	}
	_, err := f.store.Selections().UpsertBatch(context.Background(), f.doc.ID, kind, rows)
	require.NoError(t, err)
}

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }
func job(company string, start profile.Date) *profile.WorkExperience {
	return &profile.WorkExperience{
		Company:     company,
		Position:    "Engineer",
		StartDate:   start,
		Description: strp(company + " description"),
		Bullets:     []string{"first", "second", "third"},
	}
}

func companies(items []Item[profile.WorkExperience]) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Entity.Company
	}
	return out
}

func TestWorkExperiences_DefaultsWithoutSelections(t *testing.T) {
	f := newFixture(t)
	f.add(t, job("Acme", profile.NewDate(2020, 1, 1)), intp(1))
	f.add(t, job("Globex", profile.NewDate(2018, 1, 1)), intp(0))

	items, err := f.resolver.WorkExperiences(context.Background(), f.doc)
	require.NoError(t, err)

	require.Equal(t, []string{"Globex", "Acme"}, companies(items))
	for _, it := range items {
		assert.True(t, it.IsSelected)
		assert.False(t, it.IsFavorite)
		assert.Equal(t, document.DisplayCustom, it.DisplayMode)
		assert.Equal(t, []string{"first", "second", "third"}, it.Details)
		require.NotNil(t, it.Description)
		assert.Equal(t, it.Entity.Company+" description", *it.Description)
	}
}

func TestWorkExperiences_OptOutIsOmitted(t *testing.T) {
	f := newFixture(t)
	acme := f.add(t, job("Acme", profile.NewDate(2020, 1, 1)), intp(0))
	f.add(t, job("Globex", profile.NewDate(2018, 1, 1)), intp(1))
	f.selections(t, profile.KindWorkExperience, document.Selection{EntityID: acme, IsSelected: false})

	items, err := f.resolver.WorkExperiences(context.Background(), f.doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Globex"}, companies(items))
}

func TestWorkExperiences_OverrideOrderWinsTies(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, job("A", profile.NewDate(2020, 1, 1)), intp(0))
	b := f.add(t, job("B", profile.NewDate(2019, 1, 1)), intp(1))
	f.selections(t, profile.KindWorkExperience,
		document.Selection{EntityID: a, IsSelected: true},
		document.Selection{EntityID: b, IsSelected: true, DisplayOrder: intp(0)},
	)

	items, err := f.resolver.WorkExperiences(context.Background(), f.doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, companies(items))
	require.NotNil(t, items[0].DisplayOrder)
	assert.Equal(t, 0, *items[0].DisplayOrder)
}

func TestWorkExperiences_UnorderedFallBackToNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.add(t, job("Old", profile.NewDate(2010, 1, 1)), nil)
	f.add(t, job("New", profile.NewDate(2022, 6, 1)), nil)
	f.add(t, job("Pinned", profile.NewDate(2005, 1, 1)), intp(3))
	f.add(t, job("Mid", profile.NewDate(2015, 3, 1)), nil)

	items, err := f.resolver.WorkExperiences(context.Background(), f.doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pinned", "New", "Mid", "Old"}, companies(items))
	assert.Nil(t, items[1].DisplayOrder)
}

func TestWorkExperiences_DisplayModes(t *testing.T) {
	f := newFixture(t)
	simple := f.add(t, job("Simple", profile.NewDate(2022, 1, 1)), intp(0))
	withDesc := f.add(t, job("WithDesc", profile.NewDate(2021, 1, 1)), intp(1))
	custom := f.add(t, job("Custom", profile.NewDate(2020, 1, 1)), intp(2))
	none := f.add(t, job("NoBullets", profile.NewDate(2019, 1, 1)), intp(3))

	f.selections(t, profile.KindWorkExperience,
		document.Selection{EntityID: simple, IsSelected: true, DisplayMode: document.DisplaySimple},
		document.Selection{EntityID: withDesc, IsSelected: true, DisplayMode: document.DisplayWithDescription, DescriptionOverride: strp("tailored")},
		document.Selection{EntityID: custom, IsSelected: true, DisplayMode: document.DisplayCustom, SelectedIndices: document.IndexFilter{2, 0, 9}},
		document.Selection{EntityID: none, IsSelected: true, SelectedIndices: document.IndexFilter{}},
	)

	items, err := f.resolver.WorkExperiences(context.Background(), f.doc)
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, document.DisplaySimple, items[0].DisplayMode)
	assert.Nil(t, items[0].Description)
	assert.Nil(t, items[0].Details)

	require.NotNil(t, items[1].Description)
	assert.Equal(t, "tailored", *items[1].Description)
	assert.Nil(t, items[1].Details)

	assert.Equal(t, []string{"first", "third"}, items[2].Details)
	assert.Equal(t, "Custom description", *items[2].Description)

	assert.Equal(t, document.DisplayCustom, items[3].DisplayMode)
	assert.Empty(t, items[3].Details)
}

func TestEducation_EmptyOverrideIsStillAnOverride(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, &profile.Education{
		Institution: "MIT",
		Degree:      "BSc",
		StartDate:   profile.NewDate(2012, 9, 1),
		Description: strp("thesis on compilers"),
	}, nil)
	f.selections(t, profile.KindEducation, document.Selection{EntityID: id, IsSelected: true, DescriptionOverride: strp("")})

	items, err := f.resolver.Education(context.Background(), f.doc)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Description)
	assert.Equal(t, "", *items[0].Description)
	assert.Equal(t, "thesis on compilers", *items[0].Entity.Description)
}

func TestSkillCategories_IndexFilterAndFavorites(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, &profile.SkillCategory{Name: "Languages", Skills: []string{"Go", "Rust", "SQL"}}, intp(0))
	f.selections(t, profile.KindSkillCategory, document.Selection{
		EntityID:        id,
		IsSelected:      true,
		IsFavorite:      true,
		SelectedIndices: document.IndexFilter{0, 2},
	})

	items, err := f.resolver.SkillCategories(context.Background(), f.doc)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsFavorite)
	assert.Equal(t, []string{"Go", "SQL"}, items[0].Details)
	assert.Equal(t, []string{"Go", "Rust", "SQL"}, items[0].Entity.Skills)
}

func TestResolve_IgnoresOrphanedSelections(t *testing.T) {
	f := newFixture(t)
	f.add(t, &profile.Certification{Name: "CKA", Issuer: "CNCF"}, nil)
	f.selections(t, profile.KindCertification, document.Selection{EntityID: uuid.New(), IsSelected: true})

	items, err := f.resolver.Certifications(context.Background(), f.doc)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "CKA", items[0].Entity.Name)
}

func TestResolve_OnlyOwnersEntities(t *testing.T) {
	f := newFixture(t)
	f.add(t, &profile.Project{Name: "mine"}, nil)

	other := &profile.Project{Name: "theirs"}
	other.ID = uuid.New()
	other.OwnerID = uuid.New()
	rec, err := profile.ToRecord(other)
	require.NoError(t, err)
	require.NoError(t, f.store.Entities().Save(context.Background(), &rec))

	items, err := f.resolver.Projects(context.Background(), f.doc)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "mine", items[0].Entity.Name)
}

func TestCompose_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, job("Acme", profile.NewDate(2020, 1, 1)), nil)
	f.add(t, job("Globex", profile.NewDate(2021, 1, 1)), nil)
	f.add(t, &profile.Reference{Name: "Jane Roe", Email: "jane@example.com"}, nil)
	f.selections(t, profile.KindWorkExperience, document.Selection{EntityID: id, IsSelected: true, DisplayOrder: intp(5)})

	first, err := f.resolver.Compose(context.Background(), f.doc)
	require.NoError(t, err)
	second, err := f.resolver.Compose(context.Background(), f.doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Acme", "Globex"}, companies(first.Content.Experience))
	assert.Len(t, first.Content.References, 1)
	assert.True(t, first.HasSection(document.SectionPhoto))
}

func TestCompose_SkipsSectionsOutsideLayout(t *testing.T) {
	f := newFixture(t)
	f.add(t, job("Acme", profile.NewDate(2020, 1, 1)), nil)
	f.add(t, &profile.Reference{Name: "Jane Roe"}, nil)
	f.doc.LayoutMode = document.ModeSingleColumn
	f.doc.Layout = &document.LayoutConfig{
		Mode:  document.ModeSingleColumn,
		Pages: []document.PageLayout{{Main: []document.SectionKind{document.SectionHeader, document.SectionExperience}}},
	}

	out, err := f.resolver.Compose(context.Background(), f.doc)
	require.NoError(t, err)
	assert.Len(t, out.Content.Experience, 1)
	assert.Nil(t, out.Content.References)
}

func TestCompose_RejectsInvalidStoredLayout(t *testing.T) {
	f := newFixture(t)
	f.doc.Layout = &document.LayoutConfig{
		Mode: document.ModeTwoColumn,
		Pages: []document.PageLayout{{
			Sidebar: []document.SectionKind{document.SectionEducation},
			Main:    []document.SectionKind{document.SectionEducation},
		}},
	}

	_, err := f.resolver.Compose(context.Background(), f.doc)
	assert.ErrorIs(t, err, apperror.ErrInvalidConfig)
}
