package roster

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/acsarchive/acsharvest/internal/model"
)

// stubFetcher serves canned pages by URL and records fetch calls.
type stubFetcher struct {
	pages map[string]string
	calls []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (*model.Page, error) {
	s.calls = append(s.calls, url)
	body, ok := s.pages[url]
	if !ok {
		return nil, errors.New("unavailable")
	}
	root, err := html.Parse(bytes.NewReader([]byte(body)))
	if err != nil {
		return nil, err
	}
	return &model.Page{URL: url, Raw: []byte(body), Root: root}, nil
}

const listingHTML = `<html><body>
<div id="toc0">Series</div>
<ul>
  <li><a href="/scp-002">SCP-002</a> - The "Living" Room</li>
  <li><a href="/scp-173">SCP-173</a> - The Sculpture</li>
  <li><a class="newpage" href="/scp-009">SCP-009</a> - [ACCESS DENIED]</li>
  <li><a href="/not-an-item">Prelude</a> - Not an entry</li>
</ul>
</body></html>`

// TestHarvestParsesEntries tests entry extraction, placeholder skipping,
// and non-item filtering.
func TestHarvestParsesEntries(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{pages: map[string]string{}}
	h := New(fetcher, "https://example.com")

	// Only the first series listing exists; the others fail and are
	// skipped without sinking the harvest.
	fetcher.pages["https://example.com/scp-series"] = listingHTML

	records, err := h.Harvest(context.Background())
	if err != nil {
		t.Fatalf("Harvest() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}

	if records[0].Number != 2 || records[0].Name != `The "Living" Room` {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].Number != 173 || records[1].Name != "The Sculpture" {
		t.Errorf("records[1] = %+v", records[1])
	}
}

// TestHarvestVisitsAllSeries tests that every series listing is attempted.
func TestHarvestVisitsAllSeries(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{pages: map[string]string{
		"https://example.com/scp-series": listingHTML,
	}}
	h := New(fetcher, "https://example.com")

	if _, err := h.Harvest(context.Background()); err != nil {
		t.Fatalf("Harvest() error: %v", err)
	}

	if len(fetcher.calls) != seriesCount {
		t.Fatalf("fetched %d listings, want %d", len(fetcher.calls), seriesCount)
	}
	if fetcher.calls[0] != "https://example.com/scp-series" {
		t.Errorf("first listing = %q", fetcher.calls[0])
	}
	if fetcher.calls[1] != "https://example.com/scp-series-2" {
		t.Errorf("second listing = %q", fetcher.calls[1])
	}
	if last := fetcher.calls[seriesCount-1]; !strings.HasSuffix(last, "-8") {
		t.Errorf("last listing = %q, want series 8", last)
	}
}

// TestHarvestAllListingsFailed tests that a completely failed harvest is an
// error so an empty roster never overwrites a good one.
func TestHarvestAllListingsFailed(t *testing.T) {
	t.Parallel()

	h := New(&stubFetcher{pages: map[string]string{}}, "https://example.com")
	if _, err := h.Harvest(context.Background()); err == nil {
		t.Error("expected error when every listing fails")
	}
}

// TestEntryName tests name extraction from listing entries.
func TestEntryName(t *testing.T) {
	t.Parallel()

	if got := entryName("SCP-173 - The Sculpture"); got != "The Sculpture" {
		t.Errorf("entryName() = %q", got)
	}
	if got := entryName("SCP-0000"); got != "" {
		t.Errorf("entryName() = %q, want empty for entries without separator", got)
	}
}
