package traces

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindCSV_PrefersTraceName(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a-users.csv", "GNW-Traces-export.csv", "notes.txt")

	got, err := FindCSV(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(got) != "GNW-Traces-export.csv" {
		t.Errorf("expected trace export, got %s", got)
	}
}

func TestFindCSV_FallsBackToFirstCSV(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.csv", "a.csv", "readme.md")

	got, err := FindCSV(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(got) != "a.csv" {
		t.Errorf("expected a.csv, got %s", got)
	}
}

func TestFindCSV_None(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "data.json")
	if err := os.Mkdir(filepath.Join(dir, "traces.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := FindCSV(dir); !errors.Is(err, ErrNoCSV) {
		t.Errorf("expected ErrNoCSV, got %v", err)
	}
}
