package content

import (
	"strings"
	"testing"
)

func TestDispatchMarkdown(t *testing.T) {
	r := NewRegistry()
	text, typ, ok, err := r.Dispatch("notes.md", []byte("# Heading\nHello hybrid search\n\n```go\ncode()\n```\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected markdown to be indexable")
	}
	if typ != TypeMarkdown {
		t.Fatalf("expected TypeMarkdown, got %v", typ)
	}
	if !containsAll(text, "Heading", "Hello hybrid search") {
		t.Fatalf("expected heading text preserved, got %q", text)
	}
	if containsAll(text, "code()") {
		t.Fatalf("expected fenced code removed, got %q", text)
	}
}

func TestDispatchRejectsBinary(t *testing.T) {
	r := NewRegistry()
	_, typ, ok, err := r.Dispatch("binary.dat", []byte{0x00, 0x01, 0x02})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected binary content to be filtered out, not an error")
	}
	if typ != TypeUnknown {
		t.Fatalf("expected TypeUnknown for binary content")
	}
}

func TestDispatchHTML(t *testing.T) {
	r := NewRegistry()
	text, _, ok, err := r.Dispatch("page.html", []byte("<html><body><p>Hello</p><p>World</p></body></html>"))
	if err != nil || !ok {
		t.Fatalf("unexpected result: ok=%v err=%v", ok, err)
	}
	if containsAll(text, "<p>") {
		t.Fatalf("expected tags stripped, got %q", text)
	}
	if !containsAll(text, "Hello", "World") {
		t.Fatalf("expected text preserved, got %q", text)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
