package checkpoint

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azhengyongqin/blockedby/internal/config"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.State.Backend = config.BackendFile
	cfg.State.File = filepath.Join(dir, "data.json")
	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
	require.NoError(t, s.Close())

	cfg.State.Backend = config.BackendSQLite
	cfg.State.SQLitePath = filepath.Join(dir, "blockedby.db")
	s, err = Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	cfg.State.Backend = "etcd"
	_, err = Open(ctx, cfg)
	assert.Error(t, err)
}
