// Package undo reverses the moves recorded in a journal.
package undo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/babarot/dlsort/internal/core/atomic"
	"github.com/babarot/dlsort/internal/journal"
	"github.com/babarot/dlsort/internal/utils/fs"
)

// Result counts what an undo did
type Result struct {
	Restored int
	Skipped  int
	Failed   int
}

// Total is the number of move records considered
func (r Result) Total() int {
	return r.Restored + r.Skipped + r.Failed
}

// Step reports one reversed record
type Step struct {
	Record journal.Record
	To     string // where the file went back to, empty when skipped or failed
	Err    error
}

// Engine reverses journals
type Engine struct {
	move   func(src, dst string) error
	exists fs.ExistsFunc
	onStep func(Step)
}

// Option configures an Engine
type Option func(*Engine)

// WithMover replaces the move primitive
func WithMover(fn func(src, dst string) error) Option {
	return func(e *Engine) {
		e.move = fn
	}
}

// WithExists replaces the filesystem existence check
func WithExists(fn fs.ExistsFunc) Option {
	return func(e *Engine) {
		e.exists = fn
	}
}

// OnStep registers a callback invoked after every record
func OnStep(fn func(Step)) Option {
	return func(e *Engine) {
		e.onStep = fn
	}
}

// New returns an Engine
func New(opts ...Option) *Engine {
	e := &Engine{
		move: func(src, dst string) error {
			return atomic.Move(src, dst, atomic.MoveOptions{AllowCrossDev: true})
		},
		exists: fs.Exists,
		onStep: func(Step) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pending returns the move records of the journal at path in the order
// they would be reversed
func Pending(path string) ([]journal.Record, error) {
	records, err := journal.Read(path)
	if err != nil {
		return nil, err
	}
	return lo.Reverse(journal.Moves(records)), nil
}

// Undo moves every file recorded in the journal at path back to where it
// came from, newest first. A file no longer at its recorded destination is
// skipped. A file whose original location is occupied again comes back
// under a "name (N).ext" sibling. Failures are counted and do not stop the
// batch. The journal itself is never modified.
func (e *Engine) Undo(path string) (Result, error) {
	pending, err := Pending(path)
	if err != nil {
		return Result{}, fmt.Errorf("undo: %w", err)
	}
	return e.Reverse(pending), nil
}

// Reverse moves each record's dst back to its src, in the given order
func (e *Engine) Reverse(records []journal.Record) Result {
	var result Result
	for _, r := range records {
		step := e.reverse(r)
		switch {
		case step.Err != nil:
			result.Failed++
			slog.Warn("undo failed", "src", r.Src, "dst", r.Dst, "error", step.Err)
		case step.To == "":
			result.Skipped++
			slog.Debug("nothing to undo", "dst", r.Dst)
		default:
			result.Restored++
			slog.Debug("file restored", "from", r.Dst, "to", step.To)
		}
		e.onStep(step)
	}
	return result
}

func (e *Engine) reverse(r journal.Record) Step {
	step := Step{Record: r}
	if !e.exists(r.Dst) {
		return step
	}
	if err := os.MkdirAll(filepath.Dir(r.Src), 0755); err != nil {
		step.Err = err
		return step
	}
	to, err := fs.UniquePathFunc(r.Src, e.exists)
	if err != nil {
		step.Err = err
		return step
	}
	if err := e.move(r.Dst, to); err != nil {
		step.Err = err
		return step
	}
	step.To = to
	return step
}
