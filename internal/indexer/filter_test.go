package indexer

import "testing"

func TestFilter_DefaultIgnoresExcludeVCSDirs(t *testing.T) {
	f := NewFilter(DefaultFilterConfig())
	if f.Allow(".git/config", false) {
		t.Fatal("expected .git/config to be ignored")
	}
	if f.Allow("node_modules/pkg/index.js", false) {
		t.Fatal("expected node_modules path to be ignored")
	}
	if !f.Allow("docs/readme.md", false) {
		t.Fatal("expected a normal path to be allowed")
	}
}

func TestFilter_SafePatternsActAsAllowlist(t *testing.T) {
	f := NewFilter(FilterConfig{SafePatterns: []string{"*.md"}})
	if !f.Allow("readme.md", false) {
		t.Fatal("expected readme.md to match the allowlist")
	}
	if f.Allow("main.go", false) {
		t.Fatal("expected main.go to be rejected, not in allowlist")
	}
}

func TestFilter_IgnorePatternsOverrideSafePatterns(t *testing.T) {
	f := NewFilter(FilterConfig{
		SafePatterns:   []string{"*.md"},
		IgnorePatterns: []string{"CHANGELOG.md"},
	})
	if f.Allow("CHANGELOG.md", false) {
		t.Fatal("expected CHANGELOG.md to be denied despite matching the allowlist")
	}
	if !f.Allow("readme.md", false) {
		t.Fatal("expected readme.md to still be allowed")
	}
}

func TestFilter_ClearDefaultIgnoresAllowsVCSDirs(t *testing.T) {
	f := NewFilter(FilterConfig{ClearDefaultIgnores: true})
	if !f.Allow(".git/config", false) {
		t.Fatal("expected .git/config to be allowed once default ignores are cleared")
	}
}

func TestFilter_IsPure(t *testing.T) {
	f := NewFilter(FilterConfig{SafePatterns: []string{"*.go"}})
	a := f.Allow("pkg/file.go", false)
	b := f.Allow("pkg/file.go", false)
	if a != b {
		t.Fatal("expected identical inputs to produce identical decisions")
	}
}
