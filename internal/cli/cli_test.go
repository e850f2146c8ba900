package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/babarot/dlsort/internal/config"
	"github.com/babarot/dlsort/internal/journal"
	"github.com/babarot/dlsort/internal/sorter"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

type testCLI struct {
	*CLI
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	prompts []string
}

func newTestCLI(t *testing.T, opt Option, answer bool) *testCLI {
	t.Helper()
	tc := &testCLI{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	tc.CLI = &CLI{
		version: Version{AppName: "dlsort", Version: "test"},
		option:  opt,
		config:  *config.Default(),
		stdout:  tc.out,
		stderr:  tc.errOut,
		confirm: func(prompt string) bool {
			tc.prompts = append(tc.prompts, prompt)
			return answer
		},
	}
	tc.sorter = sorter.New(sorter.OnResult(tc.reportResult), sorter.OnStep(tc.reportStep))
	return tc
}

func createTestFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(filepath.Base(path)), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func TestSortConfirmed(t *testing.T) {
	dir := t.TempDir()
	createTestFile(t, filepath.Join(dir, "photo.png"))
	createTestFile(t, filepath.Join(dir, "notes.txt"))

	c := newTestCLI(t, Option{Downloads: dir}, true)
	if err := c.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(c.prompts) != 1 {
		t.Errorf("prompts = %v", c.prompts)
	}
	out := c.out.String()
	for _, want := range []string{"Files to move (top-level only): 2", "[Images]", "Done. Moved 2 files.", "Journal saved to:", "To undo: dlsort --undo"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if !exists(filepath.Join(dir, "Images", "photo.png")) || !exists(filepath.Join(dir, "Documents", "notes.txt")) {
		t.Error("files not sorted")
	}
}

func TestSortCancelled(t *testing.T) {
	dir := t.TempDir()
	createTestFile(t, filepath.Join(dir, "photo.png"))

	c := newTestCLI(t, Option{Downloads: dir}, false)
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.out.String(), "Cancelled. No files were moved.") {
		t.Errorf("output:\n%s", c.out.String())
	}
	if !exists(filepath.Join(dir, "photo.png")) {
		t.Error("file moved after cancel")
	}
}

func TestSortYesSkipsPrompt(t *testing.T) {
	dir := t.TempDir()
	createTestFile(t, filepath.Join(dir, "song.mp3"))

	c := newTestCLI(t, Option{Downloads: dir, Yes: true}, false)
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if len(c.prompts) != 0 {
		t.Errorf("prompted with --yes: %v", c.prompts)
	}
	if !exists(filepath.Join(dir, "Audio", "song.mp3")) {
		t.Error("file not sorted")
	}
}

func TestSortDryRun(t *testing.T) {
	dir := t.TempDir()
	createTestFile(t, filepath.Join(dir, "movie.mkv"))

	c := newTestCLI(t, Option{Downloads: dir, DryRun: true}, true)
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	out := c.out.String()
	if !strings.Contains(out, "DRY RUN: No files were moved.") || !strings.Contains(out, "Journal would be: ") {
		t.Errorf("output:\n%s", out)
	}
	if !strings.Contains(out, "[Video]") {
		t.Errorf("plan not printed:\n%s", out)
	}
	if !exists(filepath.Join(dir, "movie.mkv")) {
		t.Error("dry run moved a file")
	}
}

func TestSortNothingToDo(t *testing.T) {
	c := newTestCLI(t, Option{Downloads: t.TempDir()}, true)
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.out.String(), "No top-level files found to organize.") {
		t.Errorf("output:\n%s", c.out.String())
	}
}

func TestSortMissingDirectory(t *testing.T) {
	c := newTestCLI(t, Option{Downloads: filepath.Join(t.TempDir(), "nope")}, true)
	if err := c.Run(); err == nil {
		t.Fatal("Run() should fail for a missing directory")
	}
}

func TestUndoLatest(t *testing.T) {
	dir := t.TempDir()
	createTestFile(t, filepath.Join(dir, "a.zip"))

	if err := newTestCLI(t, Option{Downloads: dir, Yes: true}, true).Run(); err != nil {
		t.Fatal(err)
	}

	c := newTestCLI(t, Option{Downloads: dir, Undo: latestJournal}, true)
	if err := c.Run(); err != nil {
		t.Fatalf("undo error = %v", err)
	}
	out := c.out.String()
	if !strings.Contains(out, "Moves to undo: 1") || !strings.Contains(out, "Undo complete. Restored 1 files") {
		t.Errorf("output:\n%s", out)
	}
	if !exists(filepath.Join(dir, "a.zip")) {
		t.Error("file not restored")
	}
}

func TestUndoExplicitJournalDryRun(t *testing.T) {
	dir := t.TempDir()
	createTestFile(t, filepath.Join(dir, "a.zip"))
	if err := newTestCLI(t, Option{Downloads: dir, Yes: true}, true).Run(); err != nil {
		t.Fatal(err)
	}
	info, err := journal.Latest(filepath.Join(dir, journal.DirName))
	if err != nil {
		t.Fatal(err)
	}

	c := newTestCLI(t, Option{Undo: info.Path, DryRun: true}, true)
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.out.String(), "DRY RUN") {
		t.Errorf("output:\n%s", c.out.String())
	}
	if exists(filepath.Join(dir, "a.zip")) {
		t.Error("dry run undo moved a file")
	}
}

func TestUndoMissingJournal(t *testing.T) {
	c := newTestCLI(t, Option{Undo: filepath.Join(t.TempDir(), "missing.jsonl")}, true)
	err := c.Run()
	if err == nil || !strings.Contains(err.Error(), "undo log not found") {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestUndoLatestWithoutJournals(t *testing.T) {
	c := newTestCLI(t, Option{Downloads: t.TempDir(), Undo: latestJournal}, true)
	if err := c.Run(); err == nil {
		t.Fatal("Run() should fail when there is no journal")
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	c := newTestCLI(t, Option{Downloads: dir, List: true}, true)
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.out.String(), "No journals in") {
		t.Errorf("output:\n%s", c.out.String())
	}

	createTestFile(t, filepath.Join(dir, "a.txt"))
	if err := newTestCLI(t, Option{Downloads: dir, Yes: true}, true).Run(); err != nil {
		t.Fatal(err)
	}
	c = newTestCLI(t, Option{Downloads: dir, List: true}, true)
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.out.String(), "move_log_") {
		t.Errorf("output:\n%s", c.out.String())
	}
}

func TestTargetDirRefusesRoot(t *testing.T) {
	c := newTestCLI(t, Option{Downloads: "/"}, true)
	if _, err := c.targetDir(); err == nil {
		t.Fatal("targetDir() should refuse the filesystem root")
	}
}

func TestVersion(t *testing.T) {
	c := newTestCLI(t, Option{Meta: MetaOption{Version: true}}, true)
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(c.out.String(), "version: test") {
		t.Errorf("output:\n%s", c.out.String())
	}
}
