package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFS(t *testing.T) {
	ents, err := fs.ReadDir(migrationFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, ents)

	b, err := fs.ReadFile(migrationFS, "migrations/"+ents[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(b), "crawl_checkpoint")
}
