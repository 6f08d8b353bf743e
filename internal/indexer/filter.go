// Package indexer implements the indexing pipeline (spec.md §4.11): a
// filtered directory walk, per-file dispatch/chunk/embed/upsert, optional
// fsnotify watch mode, and a flock-guarded single-batch-per-collection
// lock.
package indexer

import (
	"path/filepath"
	"strings"
)

// DefaultIgnores are the VCS, build-artefact and lockfile directories
// filtered out unless FilterConfig.ClearDefaultIgnores is set.
var DefaultIgnores = []string{
	".git", ".svn", ".hg",
	"node_modules", "vendor", "target", "dist", "build", ".venv",
	"__pycache__", ".idea", ".vscode",
	"go.sum", "package-lock.json", "yarn.lock", "Cargo.lock",
}

// FilterConfig configures the walk filter (spec.md §4.11).
type FilterConfig struct {
	// SafePatterns is an allowlist of glob patterns. If non-empty, a path
	// must match at least one to be considered.
	SafePatterns []string
	// IgnorePatterns is a denylist, always applied after the allowlist.
	IgnorePatterns []string
	// ClearDefaultIgnores disables DefaultIgnores when true.
	ClearDefaultIgnores bool
	// FollowSymlinks controls whether symlinked files/dirs are traversed.
	FollowSymlinks bool
	// CaseSensitive controls pattern matching case sensitivity.
	CaseSensitive bool
}

// DefaultFilterConfig returns the zero-configuration filter: no allowlist,
// default ignores active, symlinks not followed, case-sensitive matching.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{CaseSensitive: true}
}

// Filter evaluates FilterConfig against paths. Evaluation is pure: the
// same (path, isDir) always yields the same decision (spec.md §4.11).
type Filter struct {
	cfg      FilterConfig
	ignores  []string
	safe     []string
	denylist []string
}

// NewFilter builds a Filter from cfg.
func NewFilter(cfg FilterConfig) *Filter {
	f := &Filter{cfg: cfg, safe: cfg.SafePatterns, denylist: cfg.IgnorePatterns}
	if !cfg.ClearDefaultIgnores {
		f.ignores = DefaultIgnores
	}
	return f
}

// Allow reports whether relPath (slash-separated, relative to the walk
// root) should be indexed. isDir lets a directory be pruned without
// evaluating every file beneath it.
func (f *Filter) Allow(relPath string, isDir bool) bool {
	norm := relPath
	if !f.cfg.CaseSensitive {
		norm = strings.ToLower(norm)
	}

	for _, ig := range f.ignores {
		if f.matchesComponent(norm, ig) {
			return false
		}
	}

	for _, pat := range f.denylist {
		if f.match(norm, pat) {
			return false
		}
	}

	if len(f.safe) == 0 {
		return true
	}
	if isDir {
		// A directory is kept open if any safe pattern could match
		// something beneath it; exact-match pruning happens on files.
		return true
	}
	for _, pat := range f.safe {
		if f.match(norm, pat) {
			return true
		}
	}
	return false
}

func (f *Filter) match(path, pattern string) bool {
	if !f.cfg.CaseSensitive {
		pattern = strings.ToLower(pattern)
	}
	if ok, err := filepath.Match(pattern, path); err == nil && ok {
		return true
	}
	if ok, err := filepath.Match(pattern, filepath.Base(path)); err == nil && ok {
		return true
	}
	return strings.Contains(path, strings.TrimSuffix(strings.TrimPrefix(pattern, "*"), "*"))
}

func (f *Filter) matchesComponent(path, name string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == name {
			return true
		}
	}
	return strings.Contains(path, "/"+name+"/") || strings.HasPrefix(path, name+"/") || path == name
}
