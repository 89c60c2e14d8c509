package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootHasSubcommands(t *testing.T) {
	root := NewRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	require.True(t, names["serve"])
	require.True(t, names["migrate"])
	require.True(t, names["archive"])
}

func TestMigrateSQLite(t *testing.T) {
	t.Setenv("SERVER_ENVIRONMENT", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "board.db"))

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"migrate"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "schema ready (sqlite)")
}

func TestArchiveRequiresEndpoint(t *testing.T) {
	t.Setenv("SERVER_ENVIRONMENT", "test")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("MINIO_ENDPOINT", "")

	root := NewRootCmd()
	root.SetArgs([]string{"archive"})
	require.ErrorContains(t, root.Execute(), "MINIO_ENDPOINT")
}
