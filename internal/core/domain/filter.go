package domain

import (
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// filterToken accepts "*.*", "*.ext" and "name.ext".
var filterToken = regexp.MustCompile(`^\*\.\*$|^\*\.[A-Za-z0-9]+$|^[A-Za-z0-9]+\.[A-Za-z0-9]+$`)

const wildcardToken = "*.*"

// PathFilter decides which files a scan tracks.
// The zero value includes every file.
type PathFilter struct {
	expr       string
	includeAll bool
	extensions map[string]struct{}
	filenames  map[string]struct{}
}

// ParseFilter parses a filter expression such as "*.txt;*.pdf, notes.md".
// Tokens are separated by ';' or ','. An empty expression, or one containing
// "*.*", includes every file.
func ParseFilter(expr string) (PathFilter, error) {
	f := PathFilter{
		expr:       expr,
		extensions: make(map[string]struct{}),
		filenames:  make(map[string]struct{}),
	}

	if strings.TrimSpace(expr) == "" {
		f.includeAll = true
		return f, nil
	}

	tokens := strings.FieldsFunc(expr, func(r rune) bool { return r == ';' || r == ',' })
	if len(tokens) == 0 {
		return PathFilter{}, zerr.With(zerr.Wrap(ErrBadFilter, "filter has no tokens"), "filter", expr)
	}

	// FieldsFunc drops empty fields, so count separators to catch "a.txt;;b.txt".
	if len(tokens) != strings.Count(expr, ";")+strings.Count(expr, ",")+1 {
		err := zerr.Wrap(ErrBadFilter, "filter contains an empty token")
		return PathFilter{}, zerr.With(err, "filter", expr)
	}

	for _, raw := range tokens {
		token := strings.TrimSpace(raw)
		if !filterToken.MatchString(token) {
			err := zerr.With(zerr.Wrap(ErrBadFilter, "invalid filter token"), "filter", expr)
			return PathFilter{}, zerr.With(err, "token", token)
		}

		switch {
		case token == wildcardToken:
			f.includeAll = true
		case strings.HasPrefix(token, "*."):
			f.extensions[token[2:]] = struct{}{}
		default:
			f.filenames[token] = struct{}{}
		}
	}

	return f, nil
}

// MustParseFilter is like ParseFilter but panics on a malformed expression.
func MustParseFilter(expr string) PathFilter {
	f, err := ParseFilter(expr)
	if err != nil {
		panic(err)
	}
	return f
}

// Matches reports whether an entry with the given base name is tracked.
// Directories always match so that the scanner can descend into them.
func (f PathFilter) Matches(name string, isDir bool) bool {
	if isDir || f.IncludesAll() {
		return true
	}

	if _, ok := f.filenames[name]; ok {
		return true
	}

	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return false
	}
	_, ok := f.extensions[name[dot+1:]]
	return ok
}

// IncludesAll reports whether the filter tracks every file.
func (f PathFilter) IncludesAll() bool {
	return f.includeAll || (f.extensions == nil && f.filenames == nil)
}

// String returns the expression the filter was parsed from.
func (f PathFilter) String() string {
	return f.expr
}
