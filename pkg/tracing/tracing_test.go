package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-studio/internal/config"
	"github.com/khoahotran/cv-studio/pkg/logger"
)

func TestSetup_WithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.Config{}, logger.NewNop(), "cv-studio-test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
