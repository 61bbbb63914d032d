package domain

import (
	"slices"

	"github.com/gobwas/glob"
	"go.trai.ch/zerr"
)

// ExcludeSet matches entry base names against glob patterns such as
// "node_modules", ".*" or "*.{tmp,swp}". Excluded directories are not
// descended and excluded files are not tracked.
type ExcludeSet struct {
	patterns []string
	globs    []glob.Glob
}

// CompileExclude compiles the given patterns.
func CompileExclude(patterns []string) (ExcludeSet, error) {
	set := ExcludeSet{patterns: slices.Clone(patterns)}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			err = zerr.Wrap(ErrInvalidConfig, "invalid exclude pattern: "+err.Error())
			return ExcludeSet{}, zerr.With(err, "pattern", p)
		}
		set.globs = append(set.globs, g)
	}
	return set, nil
}

// Match reports whether name matches any pattern.
func (s ExcludeSet) Match(name string) bool {
	for _, g := range s.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns.
func (s ExcludeSet) Patterns() []string {
	return slices.Clone(s.patterns)
}
