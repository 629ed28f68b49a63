package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"chainmigrator/internal/app"
	"chainmigrator/internal/domain"
)

func TestCreateChainsOntoHead(t *testing.T) {
	dir := t.TempDir()
	units := []domain.Migration{unit("a1b2c3d4e5f6", ""), unit("0f9e8d7c6b5a", "a1b2c3d4e5f6")}

	path, err := app.Create(dir, "Add Source Scores", units)
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(path))
	require.Contains(t, filepath.Base(path), "_add_source_scores.go")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), `ParentID: "0f9e8d7c6b5a"`)
	require.Contains(t, string(content), `Name:     "add_source_scores"`)
	require.Contains(t, string(content), "func mig_")
}

func TestCreateRootUnit(t *testing.T) {
	dir := t.TempDir()

	path, err := app.Create(dir, "init", nil)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), `ParentID: ""`)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	_, err := app.Create(t.TempDir(), "!!!", nil)
	require.Error(t, err)
}

func TestCreateRejectsBrokenChain(t *testing.T) {
	_, err := app.Create(t.TempDir(), "next", []domain.Migration{unit("a", "missing")})
	require.Error(t, err)
}
