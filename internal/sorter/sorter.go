// Package sorter runs a whole sort or undo against one directory:
// prepare, plan, confirm, lock, journal, execute.
package sorter

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/babarot/dlsort/internal/category"
	"github.com/babarot/dlsort/internal/core/types"
	"github.com/babarot/dlsort/internal/executor"
	"github.com/babarot/dlsort/internal/journal"
	"github.com/babarot/dlsort/internal/planner"
	"github.com/babarot/dlsort/internal/undo"
)

// Sorter organizes directories by file category
type Sorter struct {
	table    category.Table
	filter   planner.Filter
	lock     bool
	now      func() time.Time
	onResult func(executor.Result)
	onStep   func(undo.Step)
}

// Option configures a Sorter
type Option func(*Sorter)

// WithTable replaces the default category table
func WithTable(t category.Table) Option {
	return func(s *Sorter) {
		s.table = t
	}
}

// WithFilter sets the files the planner leaves in place
func WithFilter(f planner.Filter) Option {
	return func(s *Sorter) {
		s.filter = f
	}
}

// WithLock enables or disables the per-directory run lock
func WithLock(enabled bool) Option {
	return func(s *Sorter) {
		s.lock = enabled
	}
}

// WithClock replaces time.Now for journal naming
func WithClock(now func() time.Time) Option {
	return func(s *Sorter) {
		s.now = now
	}
}

// OnResult registers a callback invoked after every sort action
func OnResult(fn func(executor.Result)) Option {
	return func(s *Sorter) {
		s.onResult = fn
	}
}

// OnStep registers a callback invoked after every undone record
func OnStep(fn func(undo.Step)) Option {
	return func(s *Sorter) {
		s.onStep = fn
	}
}

// New returns a Sorter using the default category table with locking on
func New(opts ...Option) *Sorter {
	s := &Sorter{
		table:    category.DefaultTable(),
		lock:     true,
		now:      time.Now,
		onResult: func(executor.Result) {},
		onStep:   func(undo.Step) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SortOptions controls one sort run
type SortOptions struct {
	DryRun bool
	// Confirm is asked before anything moves. Nil means proceed.
	Confirm func(SortReport) bool
}

// SortReport describes a sort run
type SortReport struct {
	Root        string
	Plan        []types.Action
	JournalPath string // the would-be path on a dry run
	Moved       int
	Failed      int
	DryRun      bool
	Cancelled   bool
}

// Sort organizes the top-level files of dir. Category folders and the
// journal folder are created even on a dry run. A non-dry run always
// leaves a journal, an empty one when there was nothing to move, unless
// the confirmation was declined.
func (s *Sorter) Sort(dir string, opts SortOptions) (SortReport, error) {
	slog.Debug("sorter.sort started", "dir", dir, "dry-run", opts.DryRun)
	defer slog.Debug("sorter.sort finished")

	layout, err := planner.Prepare(dir, s.table)
	if err != nil {
		return SortReport{}, err
	}
	report := SortReport{Root: layout.Root, DryRun: opts.DryRun}

	report.Plan, err = planner.New(s.table, planner.WithFilter(s.filter)).Plan(layout)
	if err != nil {
		return report, fmt.Errorf("plan %s: %w", layout.Root, err)
	}

	if opts.DryRun {
		report.JournalPath, err = journal.PathFor(layout.LogDir, s.now())
		return report, err
	}

	if len(report.Plan) > 0 && opts.Confirm != nil && !opts.Confirm(report) {
		report.Cancelled = true
		return report, nil
	}

	if s.lock {
		release, err := acquire(layout.LogDir)
		if err != nil {
			return report, err
		}
		defer release()
	}

	w, err := journal.Create(layout.LogDir, s.now)
	if err != nil {
		return report, err
	}
	report.JournalPath = w.Path()

	exec := executor.New(executor.OnResult(func(r executor.Result) {
		if r.Err != nil {
			report.Failed++
		}
		s.onResult(r)
	}))
	report.Moved, err = exec.Execute(report.Plan, w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	slog.Info("sort done", "dir", layout.Root, "moved", report.Moved, "failed", report.Failed, "journal", report.JournalPath)
	return report, err
}

// UndoOptions controls one undo run
type UndoOptions struct {
	DryRun bool
	// Confirm is asked before anything moves. Nil means proceed.
	Confirm func(UndoReport) bool
}

// UndoReport describes an undo run
type UndoReport struct {
	JournalPath string
	Pending     int // move records that would be reversed
	Result      undo.Result
	DryRun      bool
	Cancelled   bool
}

// Undo reverses the journal at path. The journal is read but never
// written.
func (s *Sorter) Undo(path string, opts UndoOptions) (UndoReport, error) {
	slog.Debug("sorter.undo started", "journal", path, "dry-run", opts.DryRun)
	defer slog.Debug("sorter.undo finished")

	report := UndoReport{JournalPath: path, DryRun: opts.DryRun}
	pending, err := undo.Pending(path)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			return report, fmt.Errorf("undo log not found: %w", err)
		}
		return report, err
	}
	report.Pending = len(pending)

	if opts.DryRun {
		return report, nil
	}
	if report.Pending > 0 && opts.Confirm != nil && !opts.Confirm(report) {
		report.Cancelled = true
		return report, nil
	}

	// a journal copied elsewhere is undone without a lock
	if logDir := filepath.Dir(path); s.lock && filepath.Base(logDir) == journal.DirName {
		release, err := acquire(logDir)
		if err != nil {
			return report, err
		}
		defer release()
	}

	report.Result = undo.New(undo.OnStep(s.onStep)).Reverse(pending)
	slog.Info("undo done", "journal", path,
		"restored", report.Result.Restored, "skipped", report.Result.Skipped, "failed", report.Result.Failed)
	return report, nil
}

// LatestJournal returns the newest journal of the sorted directory dir
func LatestJournal(dir string) (journal.Info, error) {
	return journal.Latest(filepath.Join(dir, journal.DirName))
}

// Journals lists the journals of dir, newest first, limited to the last
// withinDays days when positive
func Journals(dir string, withinDays int) ([]journal.Info, error) {
	return journal.List(filepath.Join(dir, journal.DirName), withinDays)
}
