package model

import "testing"

// TestCandidateKey tests database key derivation for candidates.
func TestCandidateKey(t *testing.T) {
	t.Parallel()

	t.Run("numbered candidate keys on display number", func(t *testing.T) {
		t.Parallel()

		c := Candidate{Number: 42, URL: "https://example.com/scp-042"}
		if got := c.Key(); got != "SCP-042" {
			t.Errorf("Key() = %q, want %q", got, "SCP-042")
		}
	})

	t.Run("unnumbered candidate keys on URL", func(t *testing.T) {
		t.Parallel()

		c := Candidate{URL: "https://example.com/fragment:scp-3939-14"}
		if got := c.Key(); got != c.URL {
			t.Errorf("Key() = %q, want URL", got)
		}
	})
}

// TestBacklinkSetUnion tests cross-component deduplication.
func TestBacklinkSetUnion(t *testing.T) {
	t.Parallel()

	set := BacklinkSet{
		"111": {
			{Number: 1, URL: "https://example.com/scp-001"},
			{Number: 2, URL: "https://example.com/scp-002"},
		},
		"222": {
			{Number: 2, URL: "https://example.com/scp-002"},
			{Number: 3, URL: "https://example.com/scp-003"},
		},
	}

	union := set.Union()
	if len(union) != 3 {
		t.Fatalf("Union() returned %d candidates, want 3", len(union))
	}

	seen := make(map[string]bool)
	for _, c := range union {
		if seen[c.URL] {
			t.Errorf("duplicate URL in union: %s", c.URL)
		}
		seen[c.URL] = true
	}
}

// TestBacklinkSetUnionEmpty tests that an empty set yields no candidates.
func TestBacklinkSetUnionEmpty(t *testing.T) {
	t.Parallel()

	if got := (BacklinkSet{}).Union(); len(got) != 0 {
		t.Errorf("Union() of empty set returned %d candidates", len(got))
	}
}
