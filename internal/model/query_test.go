package model

import (
	"strings"
	"testing"
)

func TestSearchQueryNormalization(t *testing.T) {
	q := NewSearchQuery("  Hello,   WORLD!! foo_bar-baz  ")
	if strings.Contains(q.Normalized, "  ") {
		t.Fatalf("normalized query has double spaces: %q", q.Normalized)
	}
	for _, r := range q.Normalized {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' || r == '-' || r == '_'
		if !ok {
			t.Fatalf("normalized query contains disallowed rune %q in %q", r, q.Normalized)
		}
	}
}

func TestEffectiveQueryPrefersEnhanced(t *testing.T) {
	q := NewSearchQuery("hello world")
	if q.EffectiveQuery() != q.Normalized {
		t.Fatalf("expected effective query to equal normalized before enhancement")
	}
	q = q.WithEnhancement("hello world greeting")
	if q.EffectiveQuery() != "hello world greeting" {
		t.Fatalf("expected effective query to prefer enhanced text")
	}
}
