// Package planner decides which top-level files of a directory move where.
package planner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/babarot/dlsort/internal/category"
	"github.com/babarot/dlsort/internal/core/types"
	"github.com/babarot/dlsort/internal/journal"
	"github.com/babarot/dlsort/internal/utils/fs"
)

// Layout names the reserved directories of a target directory
type Layout struct {
	Root         string
	LogDir       string
	CategoryDirs map[category.Category]string

	// identities used for exclusion, symlinks evaluated
	resolvedLogDir       string
	resolvedCategoryDirs map[string]category.Category
}

// NewLayout computes the reserved paths under root without touching the
// filesystem. Identities are the lexical paths until Prepare resolves them.
func NewLayout(root string, table category.Table) Layout {
	root = filepath.Clean(root)
	l := Layout{
		Root:                 root,
		LogDir:               filepath.Join(root, journal.DirName),
		CategoryDirs:         make(map[category.Category]string),
		resolvedCategoryDirs: make(map[string]category.Category),
	}
	l.resolvedLogDir = l.LogDir
	for _, c := range table.Categories() {
		dir := filepath.Join(root, c.String())
		l.CategoryDirs[c] = dir
		l.resolvedCategoryDirs[dir] = c
	}
	return l
}

// Prepare creates the journal directory and every category directory under
// root, then resolves their identities. It is idempotent. A category folder
// that is a symlink to somewhere else keeps working because exclusion uses
// the resolved path.
func Prepare(root string, table category.Table) (Layout, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return Layout{}, fmt.Errorf("target directory: %w", err)
	}
	if !fi.IsDir() {
		return Layout{}, fmt.Errorf("target directory %s is not a directory", abs)
	}

	l := NewLayout(abs, table)
	dirs := []string{l.LogDir}
	for _, c := range table.Categories() {
		dirs = append(dirs, l.CategoryDirs[c])
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Layout{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	if l.resolvedLogDir, err = fs.Resolve(l.LogDir); err != nil {
		return Layout{}, fmt.Errorf("resolve %s: %w", l.LogDir, err)
	}
	l.resolvedCategoryDirs = make(map[string]category.Category, len(l.CategoryDirs))
	for c, dir := range l.CategoryDirs {
		resolved, err := fs.Resolve(dir)
		if err != nil {
			return Layout{}, fmt.Errorf("resolve %s: %w", dir, err)
		}
		l.resolvedCategoryDirs[resolved] = c
	}
	return l, nil
}

// Reserved reports whether e is infrastructure rather than sortable content
func (l Layout) Reserved(e Entry) bool {
	if fs.IsInside(e.Resolved, l.resolvedLogDir) {
		return true
	}
	_, ok := l.resolvedCategoryDirs[e.ResolvedParent]
	return ok
}

// Planner turns a directory listing into actions
type Planner struct {
	table  category.Table
	lister Lister
	filter Filter
	exists fs.ExistsFunc
}

// Option configures a Planner
type Option func(*Planner)

// WithLister replaces the directory listing source
func WithLister(l Lister) Option {
	return func(p *Planner) {
		p.lister = l
	}
}

// WithFilter sets the user exclusions
func WithFilter(f Filter) Option {
	return func(p *Planner) {
		p.filter = f
	}
}

// WithExists replaces the filesystem existence check used for resolution
func WithExists(fn fs.ExistsFunc) Option {
	return func(p *Planner) {
		p.exists = fn
	}
}

// New returns a planner classifying with table
func New(table category.Table, opts ...Option) *Planner {
	p := &Planner{
		table:  table,
		lister: OSLister{},
		exists: fs.Exists,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan lists the top-level entries of layout.Root and returns one action
// per sortable regular file, in listing order. Destinations are unique
// against the filesystem and against each other. An action whose
// destination could not be resolved carries the error in Err and is left
// for the executor to journal.
func (p *Planner) Plan(layout Layout) ([]types.Action, error) {
	entries, err := p.lister.List(layout.Root)
	if err != nil {
		return nil, err
	}

	claimed := make(map[string]struct{})
	taken := func(path string) bool {
		if _, ok := claimed[path]; ok {
			return true
		}
		return p.exists(path)
	}

	var actions []types.Action
	for _, e := range entries {
		switch {
		case !e.Regular:
			slog.Debug("skip non-regular entry", "path", e.Path)
			continue
		case layout.Reserved(e):
			slog.Debug("skip reserved entry", "path", e.Path)
			continue
		}
		if excluded, reason := p.filter.Excluded(e); excluded {
			slog.Debug("skip excluded entry", "path", e.Path, "reason", reason)
			continue
		}

		cat := p.table.Classify(e.Name)
		desired := filepath.Join(layout.Root, cat.String(), e.Name)
		action := types.Action{
			Source:      e.Path,
			Destination: desired,
			Category:    cat,
		}
		dst, err := fs.UniquePathFunc(desired, taken)
		if err != nil {
			action.Err = err
		} else {
			action.Destination = dst
			claimed[dst] = struct{}{}
		}
		actions = append(actions, action)
	}

	slog.Debug("plan ready", "root", layout.Root, "entries", len(entries), "actions", len(actions))
	return actions, nil
}
