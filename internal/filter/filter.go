// Package filter decides which source files take part in a sync pass.
package filter

import (
	"fmt"
	"path/filepath"
)

// Rule is a single include or exclude rule.
type Rule struct {
	Pattern *Pattern
	Include bool
}

// Chain holds an ordered list of rules plus optional size bounds.
// The zero value and a nil *Chain include everything.
type Chain struct {
	rules   []Rule
	minSize int64
	maxSize int64
}

// NewChain creates an empty filter chain.
func NewChain() *Chain {
	return &Chain{}
}

// AddExclude appends an exclude rule.
func (c *Chain) AddExclude(pattern string) error {
	return c.add(pattern, false)
}

// AddInclude appends an include rule.
func (c *Chain) AddInclude(pattern string) error {
	return c.add(pattern, true)
}

func (c *Chain) add(pattern string, include bool) error {
	p, err := Compile(pattern)
	if err != nil {
		return err
	}
	c.rules = append(c.rules, Rule{Pattern: p, Include: include})
	return nil
}

// SetMinSize drops regular files smaller than n bytes.
func (c *Chain) SetMinSize(n int64) { c.minSize = n }

// SetMaxSize drops regular files larger than n bytes.
func (c *Chain) SetMaxSize(n int64) { c.maxSize = n }

// Append adds other's rules after c's own. Size bounds already set on c
// are kept.
func (c *Chain) Append(other *Chain) {
	if other == nil {
		return
	}
	c.rules = append(c.rules, other.rules...)
	if c.minSize == 0 {
		c.minSize = other.minSize
	}
	if c.maxSize == 0 {
		c.maxSize = other.maxSize
	}
}

// Empty reports whether the chain has no rules and no size bounds.
func (c *Chain) Empty() bool {
	return c == nil || (len(c.rules) == 0 && c.minSize == 0 && c.maxSize == 0)
}

// Len returns the number of pattern rules.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rules)
}

// Match reports whether relPath should be kept. relPath is relative to the
// source root and may use the OS separator. The first matching rule wins;
// a path no rule matches is kept.
func (c *Chain) Match(relPath string, isDir bool, size int64) bool {
	if c == nil {
		return true
	}
	if !isDir {
		if c.minSize > 0 && size < c.minSize {
			return false
		}
		if c.maxSize > 0 && size > c.maxSize {
			return false
		}
	}

	relPath = filepath.ToSlash(relPath)
	for _, rule := range c.rules {
		if rule.Pattern.Match(relPath, isDir) {
			return rule.Include
		}
	}
	return true
}

// Build creates a chain from include and exclude lists, as found in a job
// file. Includes are added first so they can carve exceptions out of broader
// excludes.
func Build(include, exclude []string) (*Chain, error) {
	c := NewChain()
	for _, p := range include {
		if err := c.AddInclude(p); err != nil {
			return nil, fmt.Errorf("include %q: %w", p, err)
		}
	}
	for _, p := range exclude {
		if err := c.AddExclude(p); err != nil {
			return nil, fmt.Errorf("exclude %q: %w", p, err)
		}
	}
	return c, nil
}
