package store

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-inventory-service/config"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: DriverMemory}}

	repos, err := Open(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, repos.Products)
	assert.NotNil(t, repos.Reconcile)
	assert.NotNil(t, repos.Dashboard)
	assert.NoError(t, repos.Close())
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "mongo"}}

	_, err := Open(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)
}
