package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workspace.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, path
}

func TestSaveAndLoad(t *testing.T) {
	db, _ := testDB(t)
	if err := db.Save([]byte(`{"version":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != `{"version":1}` {
		t.Errorf("body = %q", got)
	}
}

func TestLoad_EmptyWorkspace(t *testing.T) {
	db, _ := testDB(t)
	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("body = %q, want nil", got)
	}
}

func TestSave_SkipsUnchangedContent(t *testing.T) {
	db, _ := testDB(t)
	if err := db.Save([]byte("same")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := db.Save([]byte("same")); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM document`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("document rows = %d, want 1", count)
	}

	if err := db.Save([]byte("different")); err != nil {
		t.Fatalf("Save changed: %v", err)
	}
	got, _ := db.Load()
	if string(got) != "different" {
		t.Errorf("body = %q, want %q", got, "different")
	}
}

func TestOpen_SurvivesReopen(t *testing.T) {
	db, path := testDB(t)
	if err := db.Save([]byte("persisted")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	db.Close()

	again, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	if again.WasReset() {
		t.Errorf("matching schema version reported as reset")
	}
	got, err := again.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != "persisted" {
		t.Errorf("body = %q", got)
	}
}

func TestOpen_ResetsOnVersionMismatch(t *testing.T) {
	db, path := testDB(t)
	if err := db.Save([]byte("old state")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := db.conn.Exec(`UPDATE meta SET value = '0' WHERE key = 'schema_version'`); err != nil {
		t.Fatalf("downgrade version: %v", err)
	}
	db.Close()

	again, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	if !again.WasReset() {
		t.Fatalf("version mismatch did not reset")
	}
	got, err := again.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("stale document survived the reset: %q", got)
	}
}

func TestOpen_FreshFileIsNotAReset(t *testing.T) {
	db, _ := testDB(t)
	if db.WasReset() {
		t.Errorf("fresh workspace reported as reset")
	}
}

func TestOpen_BadPath(t *testing.T) {
	dir := t.TempDir()
	// A directory is not a usable database file.
	if _, err := Open(dir + string(os.PathSeparator)); err == nil {
		t.Errorf("expected error opening a directory as a database")
	}
}
