package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.Len(t, names, 2)

	for _, name := range names {
		body, err := fs.ReadFile(migrations, name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}

	info, err := fs.ReadFile(migrations, "migrations/00002_user_info.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(info), "UNIQUE (user_id)"))
}
