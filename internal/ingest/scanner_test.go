package ingest

import (
	"context"
	"testing"
)

func TestScanFilesFiltersByExtension(t *testing.T) {
	root := writeKB(t, map[string]string{
		"a.md":          "one",
		"b.TXT":         "case-insensitive extension",
		"nested/c.yaml": "three",
		"nested/d.log":  "excluded",
		"e":             "no extension",
	})

	exts := map[string]struct{}{".md": {}, ".txt": {}, ".yaml": {}}
	files, err := scanFiles(context.Background(), root, exts)
	if err != nil {
		t.Fatalf("scanFiles() unexpected error: %v", err)
	}

	got := make(map[string]bool, len(files))
	for _, f := range files {
		got[f.RelPath] = true
	}

	for _, want := range []string{"a.md", "b.TXT", "nested/c.yaml"} {
		if !got[want] {
			t.Errorf("scanFiles() missing %q, got %v", want, got)
		}
	}
	if len(files) != 3 {
		t.Errorf("scanFiles() returned %d files, want 3", len(files))
	}
}

func TestScanFilesRelPathUsesForwardSlashes(t *testing.T) {
	root := writeKB(t, map[string]string{"deep/dir/doc.md": "x"})

	files, err := scanFiles(context.Background(), root, map[string]struct{}{".md": {}})
	if err != nil {
		t.Fatalf("scanFiles() unexpected error: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "deep/dir/doc.md" {
		t.Errorf("scanFiles() = %+v, want rel path deep/dir/doc.md", files)
	}
}

func TestScanFilesMissingRoot(t *testing.T) {
	if _, err := scanFiles(context.Background(), "/nonexistent/kb/root", map[string]struct{}{".md": {}}); err == nil {
		t.Fatal("scanFiles() should fail for a missing root")
	}
}
