// Package executor carries out a plan, journaling every attempt.
package executor

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/babarot/dlsort/internal/core/atomic"
	"github.com/babarot/dlsort/internal/core/types"
)

// Journal receives one record per attempted action
type Journal interface {
	Moved(a types.Action, size int64, modTime time.Time) error
	Failed(a types.Action, cause error) error
}

// MoveFunc relocates src to dst without overwriting
type MoveFunc func(src, dst string) error

// StatFunc describes a source file before it moves
type StatFunc func(path string) (os.FileInfo, error)

// Result reports the outcome of one action
type Result struct {
	Action types.Action
	Err    error
}

// Executor performs planned moves sequentially
type Executor struct {
	move     MoveFunc
	stat     StatFunc
	onResult func(Result)
}

// Option configures an Executor
type Option func(*Executor)

// WithMover replaces the move primitive
func WithMover(fn MoveFunc) Option {
	return func(e *Executor) {
		e.move = fn
	}
}

// WithStat replaces the source stat call
func WithStat(fn StatFunc) Option {
	return func(e *Executor) {
		e.stat = fn
	}
}

// OnResult registers a callback invoked after every action
func OnResult(fn func(Result)) Option {
	return func(e *Executor) {
		e.onResult = fn
	}
}

// New returns an Executor that moves with atomic.Move
func New(opts ...Option) *Executor {
	e := &Executor{
		move: func(src, dst string) error {
			return atomic.Move(src, dst, atomic.MoveOptions{AllowCrossDev: true})
		},
		stat:     os.Stat,
		onResult: func(Result) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs every action in order and returns how many files moved.
// A failing action is journaled as an error and the batch goes on; only a
// journal that cannot be written stops it, since the run would no longer
// be reversible.
func (e *Executor) Execute(plan []types.Action, j Journal) (int, error) {
	moved := 0
	for _, a := range plan {
		size, modTime, err := e.run(a)
		if err != nil {
			slog.Warn("move failed", "src", a.Source, "dst", a.Destination, "error", err)
			if jerr := j.Failed(a, err); jerr != nil {
				return moved, fmt.Errorf("journal error for %s: %w", a.Source, jerr)
			}
			e.onResult(Result{Action: a, Err: err})
			continue
		}

		moved++
		slog.Debug("file moved", "src", a.Source, "dst", a.Destination, "category", a.Category)
		if jerr := j.Moved(a, size, modTime); jerr != nil {
			return moved, fmt.Errorf("journal move of %s: %w", a.Source, jerr)
		}
		e.onResult(Result{Action: a})
	}
	return moved, nil
}

func (e *Executor) run(a types.Action) (int64, time.Time, error) {
	if a.Err != nil {
		return 0, time.Time{}, a.Err
	}
	fi, err := e.stat(a.Source)
	if err != nil {
		return 0, time.Time{}, err
	}
	if err := e.move(a.Source, a.Destination); err != nil {
		return 0, time.Time{}, err
	}
	return fi.Size(), fi.ModTime(), nil
}
