package roster

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/acsarchive/acsharvest/internal/model"
)

// seriesCount is the number of series listing pages on the wiki.
const seriesCount = 8

// entrySelector matches the list entries on a series page: the lists
// immediately following the table-of-contents anchor.
const entrySelector = "[id*='toc'] + ul li"

// linkSelector matches the entry's item link, excluding unwritten
// placeholder pages.
const linkSelector = "a:not(.newpage)"

// PageFetcher is the fetching capability the harvester needs.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*model.Page, error)
}

// Harvester extracts name records from the series listings.
type Harvester struct {
	fetcher PageFetcher
	baseURL string
	logger  *slog.Logger
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harvester) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a Harvester fetching from the given wiki base URL.
func New(fetcher PageFetcher, baseURL string, opts ...Option) *Harvester {
	h := &Harvester{
		fetcher: fetcher,
		baseURL: baseURL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SeriesURLs returns the fixed set of series listing URLs.
func (h *Harvester) SeriesURLs() []string {
	urls := make([]string, 0, seriesCount)
	urls = append(urls, h.baseURL+"/scp-series")
	for i := 2; i <= seriesCount; i++ {
		urls = append(urls, fmt.Sprintf("%s/scp-series-%d", h.baseURL, i))
	}
	return urls
}

// Harvest fetches every series listing and extracts its name records.
// Listings that fail to fetch are logged and skipped; the records from the
// rest are returned. The error is non-nil only when every listing failed,
// which means the roster would be empty and the caller should not persist it.
func (h *Harvester) Harvest(ctx context.Context) ([]model.NameRecord, error) {
	var records []model.NameRecord
	failures := 0

	for _, listingURL := range h.SeriesURLs() {
		if ctx.Err() != nil {
			return records, ctx.Err()
		}

		page, err := h.fetcher.Fetch(ctx, listingURL)
		if err != nil {
			failures++
			h.logger.Warn("series listing unavailable", "url", listingURL, "error", err)
			continue
		}
		if page.Root == nil {
			failures++
			h.logger.Warn("series listing unparseable", "url", listingURL)
			continue
		}

		found := h.parseListing(page)
		h.logger.Info("series listing harvested", "url", listingURL, "entries", len(found))
		records = append(records, found...)
	}

	if failures == seriesCount {
		return nil, fmt.Errorf("all %d series listings failed", seriesCount)
	}
	return records, nil
}

// parseListing extracts name records from one listing page.
func (h *Harvester) parseListing(page *model.Page) []model.NameRecord {
	doc := goquery.NewDocumentFromNode(page.Root)

	var records []model.NameRecord
	doc.Find(entrySelector).Each(func(_ int, li *goquery.Selection) {
		link := li.Find(linkSelector).First()
		if link.Length() == 0 {
			return
		}

		// The item reference lives in the href for written pages and in
		// the link text for a few irregular ones.
		href, _ := link.Attr("href")
		number, ok := model.ExtractItemNumber(href)
		if !ok {
			number, ok = model.ExtractItemNumber(link.Text())
		}
		if !ok {
			return
		}

		records = append(records, model.NameRecord{
			Number: number,
			Name:   entryName(li.Text()),
		})
	})
	return records
}

// entryName extracts the display name from an entry like
// "SCP-173 - The Sculpture". Entries without the separator have no
// distinct name and yield empty.
func entryName(entry string) string {
	_, name, ok := strings.Cut(entry, " - ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(name)
}
