package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempWorkdir(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestNewFS_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "exports")
	if _, err := NewFS(root); err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		t.Errorf("root not created: %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	fs := tempWorkdir(t)
	if err := fs.Write("exports/chart.json", []byte(`{"version":1}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := fs.Read("exports/chart.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != `{"version":1}` {
		t.Errorf("content = %q", data)
	}
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	fs := tempWorkdir(t)
	if err := fs.Write("plan.csv", []byte("department,role,q1,q2,q3,q4\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	entries, err := os.ReadDir(fs.root)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "plan.csv" {
		t.Errorf("unexpected entries: %v", entries)
	}
}

func TestList_FiltersByExtension(t *testing.T) {
	fs := tempWorkdir(t)
	_ = fs.Write("inbox/plan.csv", []byte("a"))
	_ = fs.Write("inbox/chart.JSON", []byte("b"))
	_ = fs.Write("inbox/notes.txt", []byte("c"))

	files, err := fs.List("inbox", ".csv", ".json")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2", len(files))
	}
	for _, f := range files {
		if f.Checksum == "" || f.Size == 0 {
			t.Errorf("metadata incomplete: %+v", f)
		}
	}

	all, err := fs.List("inbox")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unfiltered files = %d, want 3", len(all))
	}
}

func TestSafePath_RejectsTraversal(t *testing.T) {
	fs := tempWorkdir(t)
	if _, err := fs.Read("../../etc/passwd"); err == nil {
		t.Errorf("traversal past the root not rejected")
	}
	if err := fs.Write("/abs/path.json", []byte("x")); err == nil {
		t.Errorf("absolute path not rejected")
	}
}

func TestDeleteAndMove(t *testing.T) {
	fs := tempWorkdir(t)
	_ = fs.Write("inbox/plan.csv", []byte("x"))

	if err := fs.Move("inbox/plan.csv", "processed/plan.csv"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, err := fs.Read("inbox/plan.csv"); err == nil {
		t.Errorf("source survived the move")
	}
	if _, err := fs.Read("processed/plan.csv"); err != nil {
		t.Errorf("destination missing: %v", err)
	}

	if err := fs.Delete("processed/plan.csv"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := fs.Read("processed/plan.csv"); err == nil {
		t.Errorf("file survived delete")
	}
}
