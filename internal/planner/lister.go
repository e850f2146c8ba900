package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/babarot/dlsort/internal/utils/fs"
)

// Entry is a top-level directory entry as seen at scan time
type Entry struct {
	Name           string
	Path           string // dir joined with Name, symlinks untouched
	Resolved       string // Path with symlinks evaluated
	ResolvedParent string // the scanned directory with symlinks evaluated
	Regular        bool   // a regular file, after following symlinks
	Size           int64
	ModTime        time.Time
}

// Lister lists the immediate entries of a directory
type Lister interface {
	List(dir string) ([]Entry, error)
}

// OSLister lists entries from the real filesystem
type OSLister struct{}

// List returns the entries of dir in name order. It does not recurse.
func (OSLister) List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	parent, err := fs.Resolve(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		path := filepath.Join(dir, de.Name())
		e := Entry{
			Name:           de.Name(),
			Path:           path,
			Resolved:       path,
			ResolvedParent: parent,
		}
		if resolved, err := fs.Resolve(path); err == nil {
			e.Resolved = resolved
		}
		// Stat follows symlinks: a link to a regular file counts as one,
		// a dangling link does not
		if fi, err := os.Stat(path); err == nil {
			e.Regular = fi.Mode().IsRegular()
			e.Size = fi.Size()
			e.ModTime = fi.ModTime()
		}
		entries = append(entries, e)
	}
	return entries, nil
}
