package journal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/babarot/dlsort/internal/core/types"
	"github.com/babarot/dlsort/internal/utils/fs"
)

const (
	// DirName is the reserved journal directory inside a sorted directory
	DirName = "_DownloadsSorterLogs"

	filePrefix    = "move_log_"
	fileExt       = ".jsonl"
	fileStampTime = "2006-01-02_150405"
)

// FileName returns the journal name for a run started at t
func FileName(t time.Time) string {
	return filePrefix + t.Format(fileStampTime) + fileExt
}

// PathFor returns where a run started at t would write its journal.
// It does not touch the filesystem beyond existence checks.
func PathFor(dir string, t time.Time) (string, error) {
	return fs.UniquePath(filepath.Join(dir, FileName(t)))
}

// Writer appends records to one journal file. Every record is written
// with a single write and synced before Append returns, so an interrupted
// run leaves a readable prefix.
type Writer struct {
	mu   sync.Mutex
	path string
	file *os.File
	now  func() time.Time
}

// Create opens a new, empty journal under dir. The file name and the
// timestamps of appended records both come from now.
func Create(dir string, now func() time.Time) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	path, err := PathFor(dir, now())
	if err != nil {
		return nil, fmt.Errorf("name journal: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}
	slog.Debug("journal created", "path", path)

	return &Writer{
		path: path,
		file: f,
		now:  now,
	}, nil
}

// Path returns the journal file path
func (w *Writer) Path() string {
	return w.path
}

// Append writes r as one line. A zero timestamp is filled with the
// current time.
func (w *Writer) Append(r Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return fmt.Errorf("journal %s is closed", w.path)
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = w.now()
	}

	line, err := Encode(r)
	if err != nil {
		return err
	}
	if _, err := w.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append to journal: %w", err)
	}
	return w.file.Sync()
}

// Moved records a completed move
func (w *Writer) Moved(a types.Action, size int64, modTime time.Time) error {
	return w.Append(Record{
		Action:    KindMove,
		Category:  a.Category,
		Src:       a.Source,
		Dst:       a.Destination,
		SizeBytes: size,
		ModTime:   modTime,
	})
}

// Failed records a move attempt that did not happen
func (w *Writer) Failed(a types.Action, cause error) error {
	return w.Append(Record{
		Action: KindError,
		Src:    a.Source,
		Dst:    a.Destination,
		Error:  cause.Error(),
	})
}

// Close flushes and closes the journal. It is safe to call twice.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Sync()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	w.file = nil
	return err
}
