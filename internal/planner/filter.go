package planner

import (
	"fmt"
	"regexp"

	"github.com/babarot/dlsort/internal/config"
	"github.com/docker/go-units"
	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

// Filter decides which entries the user asked to leave alone.
// The zero value excludes nothing.
type Filter struct {
	names    map[string]struct{}
	patterns []*regexp.Regexp
	globs    []glob.Glob
	minSize  int64 // 0: no lower bound
	maxSize  int64 // 0: no upper bound
}

// NewFilter compiles the exclusion settings
func NewFilter(cfg config.Exclude) (Filter, error) {
	f := Filter{
		names: lo.SliceToMap(cfg.Files, func(name string) (string, struct{}) {
			return name, struct{}{}
		}),
	}

	for _, pat := range cfg.Patterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return Filter{}, fmt.Errorf("exclude pattern %q: %w", pat, err)
		}
		f.patterns = append(f.patterns, re)
	}

	for _, g := range cfg.Globs {
		compiled, err := glob.Compile(g)
		if err != nil {
			return Filter{}, fmt.Errorf("exclude glob %q: %w", g, err)
		}
		f.globs = append(f.globs, compiled)
	}

	var err error
	if cfg.Size.Min != "" {
		if f.minSize, err = units.FromHumanSize(cfg.Size.Min); err != nil {
			return Filter{}, fmt.Errorf("exclude size min: %w", err)
		}
	}
	if cfg.Size.Max != "" {
		if f.maxSize, err = units.FromHumanSize(cfg.Size.Max); err != nil {
			return Filter{}, fmt.Errorf("exclude size max: %w", err)
		}
	}

	return f, nil
}

// Excluded reports whether e must stay where it is, and why
func (f Filter) Excluded(e Entry) (bool, string) {
	if _, ok := f.names[e.Name]; ok {
		return true, "name"
	}
	if lo.ContainsBy(f.patterns, func(re *regexp.Regexp) bool { return re.MatchString(e.Name) }) {
		return true, "pattern"
	}
	if lo.ContainsBy(f.globs, func(g glob.Glob) bool { return g.Match(e.Name) }) {
		return true, "glob"
	}
	if f.minSize > 0 && e.Size < f.minSize {
		return true, "size"
	}
	if f.maxSize > 0 && e.Size > f.maxSize {
		return true, "size"
	}
	return false, ""
}
