// Package testutil provides shared test helpers for setting up workdirs and workspace databases.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/Craig-TribeAI/org-chart-builder/internal/storage"
	"github.com/Craig-TribeAI/org-chart-builder/internal/workspace"
)

// TestWorkspace creates a temporary SQLite workspace database that is
// automatically cleaned up. The path is returned so tests can reopen the
// same database after closing it.
func TestWorkspace(t *testing.T) (*workspace.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workspace.db")
	db, err := workspace.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db, path
}

// TestWorkdir creates a temporary working directory with a storage.Provider.
func TestWorkdir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	workdir := t.TempDir()
	files, err := storage.NewFS(workdir)
	if err != nil {
		t.Fatal(err)
	}
	return workdir, files
}
