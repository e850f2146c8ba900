package undo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/babarot/dlsort/internal/category"
	"github.com/babarot/dlsort/internal/core/types"
	"github.com/babarot/dlsort/internal/executor"
	"github.com/babarot/dlsort/internal/journal"
	"github.com/babarot/dlsort/internal/planner"
)

func createTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func topLevelFiles(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	files := make(map[string]string)
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		files[e.Name()] = string(b)
	}
	return files
}

// sortDir sorts dir for real and returns the journal path
func sortDir(t *testing.T, dir string) string {
	t.Helper()
	table := category.DefaultTable()
	layout, err := planner.Prepare(dir, table)
	if err != nil {
		t.Fatal(err)
	}
	plan, err := planner.New(table).Plan(layout)
	if err != nil {
		t.Fatal(err)
	}
	w, err := journal.Create(layout.LogDir, time.Now)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if _, err := executor.New().Execute(plan, w); err != nil {
		t.Fatal(err)
	}
	return w.Path()
}

func TestSortThenUndoRestores(t *testing.T) {
	dir := t.TempDir()
	before := map[string]string{
		"photo.png":   "png",
		"notes.txt":   "txt",
		"archive.zip": "zip",
		"song.MP3":    "mp3",
		"README":      "readme",
		".bashrc":     "rc",
	}
	for name, content := range before {
		createTestFile(t, filepath.Join(dir, name), content)
	}

	path := sortDir(t, dir)
	if got := topLevelFiles(t, dir); len(got) != 0 {
		t.Fatalf("files left after sort: %v", got)
	}

	result, err := New().Undo(path)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if result.Restored != len(before) || result.Skipped != 0 || result.Failed != 0 {
		t.Errorf("Undo() = %+v", result)
	}

	after := topLevelFiles(t, dir)
	if len(after) != len(before) {
		t.Fatalf("after undo = %v, want %v", after, before)
	}
	for name, content := range before {
		if after[name] != content {
			t.Errorf("%s = %q, want %q", name, after[name], content)
		}
	}

	// the journal is left as it was
	records, err := journal.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(before) {
		t.Errorf("journal now has %d records", len(records))
	}
}

func TestUndoResolvesCollisionAtOrigin(t *testing.T) {
	dir := t.TempDir()
	createTestFile(t, filepath.Join(dir, "report.pdf"), "sorted")
	path := sortDir(t, dir)

	// a new download with the same name arrived since
	createTestFile(t, filepath.Join(dir, "report.pdf"), "new")

	result, err := New().Undo(path)
	if err != nil {
		t.Fatal(err)
	}
	if result.Restored != 1 {
		t.Fatalf("Undo() = %+v", result)
	}
	files := topLevelFiles(t, dir)
	if files["report.pdf"] != "new" || files["report (1).pdf"] != "sorted" {
		t.Errorf("files = %v", files)
	}
}

func TestUndoSkipsMissingDestinations(t *testing.T) {
	dir := t.TempDir()
	createTestFile(t, filepath.Join(dir, "a.txt"), "a")
	createTestFile(t, filepath.Join(dir, "b.txt"), "b")
	path := sortDir(t, dir)

	if err := os.Remove(filepath.Join(dir, "Documents", "a.txt")); err != nil {
		t.Fatal(err)
	}

	result, err := New().Undo(path)
	if err != nil {
		t.Fatal(err)
	}
	if result.Restored != 1 || result.Skipped != 1 || result.Failed != 0 {
		t.Errorf("Undo() = %+v", result)
	}
	if result.Total() != 2 {
		t.Errorf("Total() = %d", result.Total())
	}
}

func TestUndoErrorOnlyJournal(t *testing.T) {
	dir := t.TempDir()
	w, err := journal.Create(dir, time.Now)
	if err != nil {
		t.Fatal(err)
	}
	a := types.Action{Source: filepath.Join(dir, "x.txt"), Destination: filepath.Join(dir, "Documents", "x.txt")}
	if err := w.Failed(a, errors.New("denied")); err != nil {
		t.Fatal(err)
	}
	w.Close()

	moved := 0
	result, err := New(WithMover(func(string, string) error { moved++; return nil })).Undo(w.Path())
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if moved != 0 || result.Total() != 0 {
		t.Errorf("error-only journal moved %d files, result %+v", moved, result)
	}
}

func TestUndoWithoutTimestamp(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "Documents", "a.txt")
	createTestFile(t, dst, "a")

	line := fmt.Sprintf(`{"action": "move", "category": "Documents", "src": %q, "dst": %q, "size_bytes": 1, "mtime_epoch": 1}`, src, dst)
	path := filepath.Join(dir, "move_log_2026-01-01_000000.jsonl")
	if err := os.WriteFile(path, []byte(line+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := New().Undo(path)
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if result.Restored != 1 {
		t.Errorf("Undo() = %+v, want 1 restored", result)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("file not restored: %v", err)
	}
}

func TestUndoReverseOrder(t *testing.T) {
	dir := t.TempDir()
	w, err := journal.Create(dir, time.Now)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"1", "2", "3"} {
		a := types.Action{Source: filepath.Join(dir, name), Destination: filepath.Join(dir, "Other", name), Category: category.Other}
		if err := w.Moved(a, 1, time.Now()); err != nil {
			t.Fatal(err)
		}
	}
	w.Close()

	var order []string
	_, err = New(
		WithExists(func(p string) bool { return filepath.Dir(p) == filepath.Join(dir, "Other") }),
		WithMover(func(src, dst string) error { order = append(order, filepath.Base(src)); return nil }),
	).Undo(w.Path())
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 || order[0] != "3" || order[1] != "2" || order[2] != "1" {
		t.Errorf("undo order = %v, want [3 2 1]", order)
	}
}

func TestUndoCountsFailures(t *testing.T) {
	dir := t.TempDir()
	createTestFile(t, filepath.Join(dir, "a.txt"), "a")
	createTestFile(t, filepath.Join(dir, "b.png"), "b")
	path := sortDir(t, dir)

	var steps []Step
	calls := 0
	result, err := New(
		WithMover(func(src, dst string) error {
			calls++
			if calls == 1 {
				return errors.New("permission denied")
			}
			return os.Rename(src, dst)
		}),
		OnStep(func(s Step) { steps = append(steps, s) }),
	).Undo(path)
	if err != nil {
		t.Fatal(err)
	}
	if result.Failed != 1 || result.Restored != 1 {
		t.Errorf("Undo() = %+v", result)
	}
	if len(steps) != 2 || steps[0].Err == nil || steps[1].To == "" {
		t.Errorf("steps = %+v", steps)
	}
}

func TestUndoMissingJournal(t *testing.T) {
	_, err := New().Undo(filepath.Join(t.TempDir(), "move_log_2026-01-01_000000.jsonl"))
	if !errors.Is(err, journal.ErrNotFound) {
		t.Fatalf("Undo() error = %v, want ErrNotFound", err)
	}
}
