package types

import (
	"path/filepath"

	"github.com/babarot/dlsort/internal/category"
)

// Action is one planned relocation of a top-level file
type Action struct {
	Source      string            `json:"src"`
	Destination string            `json:"dst"`
	Category    category.Category `json:"category"`

	// Err is set when no destination could be chosen at plan time
	Err error `json:"-"`
}

// Name returns the base name of the source file
func (a Action) Name() string {
	return filepath.Base(a.Source)
}

// Renamed reports whether the destination name differs from the source
// name, i.e. a collision suffix was added
func (a Action) Renamed() bool {
	return filepath.Base(a.Destination) != a.Name()
}
