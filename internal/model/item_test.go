package model

import "testing"

// TestItemNumberSlug tests slug derivation, including the three-digit
// zero padding used for low-numbered items.
func TestItemNumberSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		num  ItemNumber
		want string
	}{
		{name: "single digit is padded", num: 2, want: "scp-002"},
		{name: "two digits are padded", num: 42, want: "scp-042"},
		{name: "boundary 99 is padded", num: 99, want: "scp-099"},
		{name: "boundary 100 is not padded", num: 100, want: "scp-100"},
		{name: "four digits pass through", num: 1730, want: "scp-1730"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.num.Slug(); got != tt.want {
				t.Errorf("Slug() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestItemNumberDisplay tests the display form used as the database key.
func TestItemNumberDisplay(t *testing.T) {
	t.Parallel()

	if got := ItemNumber(42).Display(); got != "SCP-042" {
		t.Errorf("Display() = %q, want %q", got, "SCP-042")
	}
	if got := ItemNumber(4217).Display(); got != "SCP-4217" {
		t.Errorf("Display() = %q, want %q", got, "SCP-4217")
	}
}

// TestItemNumberPageURL tests URL derivation against a base URL.
func TestItemNumberPageURL(t *testing.T) {
	t.Parallel()

	got := ItemNumber(173).PageURL("https://example.com")
	if got != "https://example.com/scp-173" {
		t.Errorf("PageURL() = %q", got)
	}
}

// TestExtractItemNumber tests item number extraction from URLs and titles.
func TestExtractItemNumber(t *testing.T) {
	t.Parallel()

	t.Run("extracts from URL path", func(t *testing.T) {
		t.Parallel()

		n, ok := ExtractItemNumber("/scp-173")
		if !ok || n != 173 {
			t.Errorf("got (%d, %v), want (173, true)", n, ok)
		}
	})

	t.Run("is case insensitive", func(t *testing.T) {
		t.Parallel()

		n, ok := ExtractItemNumber("SCP-0049")
		if !ok || n != 49 {
			t.Errorf("got (%d, %v), want (49, true)", n, ok)
		}
	})

	t.Run("returns false without a match", func(t *testing.T) {
		t.Parallel()

		if _, ok := ExtractItemNumber("/component/acs-bar"); ok {
			t.Error("expected no match for component page")
		}
	})

	t.Run("tail-anchored form rejects embedded numbers", func(t *testing.T) {
		t.Parallel()

		if _, ok := ExtractItemNumberTail("/scp-173-artwork/page-2"); ok {
			t.Error("expected no match for embedded item number")
		}
		n, ok := ExtractItemNumberTail("/scp-173")
		if !ok || n != 173 {
			t.Errorf("got (%d, %v), want (173, true)", n, ok)
		}
	})
}

// TestMethodSupersedes tests the record upgrade ordering.
func TestMethodSupersedes(t *testing.T) {
	t.Parallel()

	if !MethodStructured.Supersedes(MethodFallback) {
		t.Error("structured should supersede fallback")
	}
	if MethodFallback.Supersedes(MethodStructured) {
		t.Error("fallback must never supersede structured")
	}
	if MethodStructured.Supersedes(MethodStructured) {
		t.Error("equal methods keep the existing record")
	}
	if MethodFallback.Supersedes(MethodFallback) {
		t.Error("equal methods keep the existing record")
	}
}
