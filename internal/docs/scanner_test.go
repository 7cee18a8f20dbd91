package docs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	path := filepath.Join(root, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "# A\n")
	writeFile(t, root, "guides/b.md", "# B\n")
	writeFile(t, root, "guides/deep/c.markdown", "# C\n")
	writeFile(t, root, "ignore.txt", "not markdown")
	writeFile(t, root, ".hidden/d.md", "# D\n")

	scanner := NewScanner(root)
	files, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	got := make(map[string]bool)
	for _, f := range files {
		got[f.RelPath] = true
	}

	want := []string{"a.md", "guides/b.md", "guides/deep/c.markdown"}
	if len(got) != len(want) {
		t.Errorf("Scan() found %d files, want %d: %v", len(got), len(want), got)
	}
	for _, rel := range want {
		if !got[rel] {
			t.Errorf("Scan() missing %s", rel)
		}
	}
	if got[".hidden/d.md"] {
		t.Error("Scan() should skip hidden directories")
	}
}

func TestScanner_Load(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "guides/setup.md", "# Setup\n\nBody.\n")

	scanner := NewScanner(root)
	files, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("Scan() found %d files, want 1", len(files))
	}

	doc, err := scanner.Load(files[0], NewParser())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Title != "Setup" {
		t.Errorf("Load() title = %q, want Setup", doc.Title)
	}
	if doc.Category != "guides" {
		t.Errorf("Load() category = %q, want guides", doc.Category)
	}
}

func TestScanner_Scan_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "# A\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewScanner(root).Scan(ctx); err == nil {
		t.Error("Scan() with cancelled context should return an error")
	}
}
