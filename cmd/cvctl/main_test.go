package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-studio/adapters/persistence"
	"github.com/khoahotran/cv-studio/adapters/persistence/memory"
	"github.com/khoahotran/cv-studio/internal/application/completion"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/pkg/auth"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

func newTestCLI(store *memory.Store) *cli {
	return &cli{
		log: logger.NewNop(),
		open: func(context.Context) (persistence.Repositories, func(), error) {
			return persistence.NewMemoryRepositories(store), func() {}, nil
		},
	}
}

func run(t *testing.T, c *cli, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(c)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedOwner_KeepsIDOnPasswordReset(t *testing.T) {
	store := memory.NewStore()
	c := newTestCLI(store)

	_, err := run(t, c, "seed-owner", "--email", "owner@example.com", "--password", "first")
	require.NoError(t, err)
	first, err := store.Users().FindByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)

	_, err = run(t, c, "seed-owner", "--email", "owner@example.com", "--password", "second")
	require.NoError(t, err)
	second, err := store.Users().FindByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, auth.CheckPasswordHash("second", second.PasswordHash))
	assert.False(t, auth.CheckPasswordHash("first", second.PasswordHash))
}

func TestSeedOwner_RequiresCredentials(t *testing.T) {
	_, err := run(t, newTestCLI(memory.NewStore()), "seed-owner", "--email", "", "--password", "")
	assert.ErrorContains(t, err, "email and password are required")
}

const importFile = `{
  "profile": {"first_name": "Grace", "last_name": "Hopper"},
  "work_experience": [{"company": "US Navy", "position": "Rear Admiral", "start_date": "1943-12"}],
  "skill_category": [{"name": "Languages", "skills": ["COBOL"]}]
}`

func TestImportProfileAndCompletion(t *testing.T) {
	store := memory.NewStore()
	c := newTestCLI(store)
	_, err := run(t, c, "seed-owner", "--email", "grace@example.com", "--password", "pw")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(importFile), 0o600))

	out, err := run(t, c, "import-profile", "--owner-email", "grace@example.com", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "profile updated: true")
	assert.Contains(t, out, "work_experience: 1")
	assert.Contains(t, out, "skill_category: 1")

	owner, err := store.Users().FindByEmail(context.Background(), "grace@example.com")
	require.NoError(t, err)
	counts, err := store.Entities().CountByKind(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[profile.KindWorkExperience])

	out, err = run(t, c, "completion-status", "--owner-email", "grace@example.com")
	require.NoError(t, err)
	var res completion.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, completion.SectionCount, res.Total)
	assert.Equal(t, 2, res.Completed)
}

func TestImportProfile_Errors(t *testing.T) {
	c := newTestCLI(memory.NewStore())

	_, err := run(t, c, "import-profile", "--owner-email", "nobody@example.com")
	assert.ErrorContains(t, err, `required flag(s) "file" not set`)

	_, err = run(t, c, "import-profile", "--owner-email", "nobody@example.com", "--file", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read import file")

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(importFile), 0o600))
	_, err = run(t, c, "import-profile", "--owner-email", "nobody@example.com", "--file", path)
	assert.ErrorContains(t, err, "cannot find owner")
}

func TestMigrate_Args(t *testing.T) {
	c := newTestCLI(memory.NewStore())

	_, err := run(t, c, "migrate", "sideways")
	assert.Error(t, err)

	_, err = run(t, c, "migrate", "up")
	assert.ErrorContains(t, err, "db.dsn is not configured")
}
