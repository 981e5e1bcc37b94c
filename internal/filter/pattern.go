package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrBadPattern is returned for patterns doublestar cannot parse.
var ErrBadPattern = errors.New("bad pattern")

// Pattern is an rsync-style glob.
//
//	*.log        matches a base name at any depth
//	/raw/*.avi   anchored at the source root
//	cache/       directories only
//	**/tmp/**    doublestar syntax
type Pattern struct {
	glob     string
	original string
	dirOnly  bool
}

// Compile parses an rsync-style pattern.
func Compile(pattern string) (*Pattern, error) {
	p := &Pattern{original: pattern}
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("%w: empty", ErrBadPattern)
	}

	if strings.HasSuffix(pattern, "/") {
		p.dirOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}

	switch {
	case strings.HasPrefix(pattern, "/"):
		pattern = strings.TrimPrefix(pattern, "/")
	case strings.Contains(pattern, "/"):
		// Anchored as written.
	default:
		pattern = "**/" + pattern
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, p.original)
	}
	p.glob = pattern
	return p, nil
}

// Match reports whether a slash-separated relative path matches.
func (p *Pattern) Match(relPath string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}
	ok, err := doublestar.Match(p.glob, relPath)
	return err == nil && ok
}

func (p *Pattern) String() string { return p.original }
