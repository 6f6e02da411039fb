package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_HaveGooseDirectives(t *testing.T) {
	entries, err := fs.ReadDir(files, dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		body, err := fs.ReadFile(files, dir+"/"+e.Name())
		require.NoError(t, err)
		text := string(body)
		require.Contains(t, text, "-- +goose Up", e.Name())
		require.Contains(t, text, "-- +goose Down", e.Name())
	}
}

func TestInitSchema_EnforcesOneRowPerGameAndPlayer(t *testing.T) {
	body, err := fs.ReadFile(files, dir+"/00001_init_schema.sql")
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "UNIQUE (game_id, player_id)"))
}
