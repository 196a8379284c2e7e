package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-studio/internal/config"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

func TestOpen_MemoryDriver(t *testing.T) {
	var cfg config.Config
	cfg.Storage.Driver = DriverMemory

	repos, closeFn, err := Open(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer closeFn()

	assert.NotNil(t, repos.Users)
	assert.NotNil(t, repos.Selections)
	assert.NotNil(t, repos.Shares)
}

func TestOpen_UnknownDriver(t *testing.T) {
	var cfg config.Config
	cfg.Storage.Driver = "sqlite"

	_, _, err := Open(context.Background(), cfg, logger.NewNop())
	assert.ErrorContains(t, err, "sqlite")
}
