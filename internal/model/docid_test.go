package model

import "testing"

func TestDocIdIndexKeyRoundtrip(t *testing.T) {
	cases := []DocId{
		NewDocId("docs", "file_123", 1),
		NewDocId("test_collection", "doc_456", 42),
		NewDocId("a", "b:c", 0), // external id with a colon is still handled via SplitN(3)
	}
	for _, d := range cases {
		key := d.ToIndexKey()
		got, ok := FromIndexKey(key)
		if !ok {
			t.Fatalf("FromIndexKey(%q) failed to parse", key)
		}
		if got != d {
			t.Fatalf("roundtrip mismatch: got %+v, want %+v", got, d)
		}
	}
}

func TestFromIndexKeyRejectsMalformed(t *testing.T) {
	for _, key := range []string{"", "only-one-part", "two:parts", "a:b:notanumber"} {
		if _, ok := FromIndexKey(key); ok {
			t.Fatalf("expected FromIndexKey(%q) to fail", key)
		}
	}
}

func TestBaseID(t *testing.T) {
	d := NewDocId("collection", "doc123", 5)
	if d.BaseID() != "collection:doc123" {
		t.Fatalf("unexpected base id: %s", d.BaseID())
	}
}

func TestDocIdOrdering(t *testing.T) {
	a := NewDocId("docs", "a", 1)
	b := NewDocId("docs", "b", 1)
	if !a.Less(b) {
		t.Fatalf("expected %s < %s", a, b)
	}
	if a.Compare(a) != 0 {
		t.Fatalf("expected equal docids to compare 0")
	}
}
