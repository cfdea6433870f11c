package backlink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/acsarchive/acsharvest/internal/config"
	"github.com/acsarchive/acsharvest/internal/model"
)

// ComponentPageIDs are the wiki page IDs of the three classification bar
// components whose backlinks carry the discovery signal.
var ComponentPageIDs = []string{"858310940", "1058262511", "1307058244"}

// moduleConnectorPath is the wiki's AJAX endpoint serving module output.
const moduleConnectorPath = "/ajax-module-connector.php"

// backlinksModule is the module that renders a page's backlink listing.
const backlinksModule = "backlinks/BacklinksModule"

// linkSelector matches one backlink entry inside the listing fragment.
const linkSelector = "ul li a:first-of-type"

// breadcrumbSelector locates the parent page link on a fragment page.
const breadcrumbSelector = "#breadcrumbs > a:last-of-type"

// nextPageSelector matches the pager's jump targets in the listing.
const nextPageSelector = "div.pager span.target a"

// noiseRe filters listing entries that reference the component for reasons
// other than classifying an item: guides, author pages, art posts, the
// component's own documentation, and so on.
var noiseRe = regexp.MustCompile(`(?i)http|component|guide|author|memo|acs|personnel|icons|art:|resource`)

// parentheticalRe strips the " (/path)" suffix the listing appends to some
// entry names.
var parentheticalRe = regexp.MustCompile(` \(/\S+\)`)

// tokenAlphabet is the character set for the per-run request token.
const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Fetcher is the retrieval capability the harvester needs: plain page
// fetches for fragment resolution and form POSTs for the module connector.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.Page, error)
	PostForm(ctx context.Context, url string, form url.Values, headers http.Header) (*model.Page, error)
}

// Harvester collects backlink candidates for the component pages.
type Harvester struct {
	fetcher  Fetcher
	baseURL  string
	maxPages int
	names    map[model.ItemNumber]string
	token    string
	caser    cases.Caser
	logger   *slog.Logger
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithMaxPages bounds pagination following per component listing.
func WithMaxPages(n int) Option {
	return func(h *Harvester) {
		if n > 0 {
			h.maxPages = n
		}
	}
}

// WithNames supplies the roster lookup used to resolve display names.
func WithNames(names map[model.ItemNumber]string) Option {
	return func(h *Harvester) {
		h.names = names
	}
}

// WithToken fixes the request token instead of generating one per run.
// Used by tests.
func WithToken(token string) Option {
	return func(h *Harvester) {
		h.token = token
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harvester) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a Harvester against the given wiki base URL.
func New(fetcher Fetcher, baseURL string, opts ...Option) *Harvester {
	h := &Harvester{
		fetcher:  fetcher,
		baseURL:  baseURL,
		maxPages: config.DefaultMaxBacklinkPages,
		names:    map[model.ItemNumber]string{},
		caser:    cases.Title(language.English),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.token == "" {
		h.token = randomToken(rand.New(rand.NewSource(time.Now().UnixNano()))) //nolint:gosec // CSRF mirror token, not a secret
	}
	return h
}

// randomToken returns an 8-character alphanumeric token.
func randomToken(rng *rand.Rand) string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = tokenAlphabet[rng.Intn(len(tokenAlphabet))]
	}
	return string(b)
}

// Harvest collects the backlink candidates for every component page.
// A component whose listing cannot be fetched is logged and skipped;
// the set from the remaining components is still returned.
func (h *Harvester) Harvest(ctx context.Context) (model.BacklinkSet, error) {
	set := make(model.BacklinkSet, len(ComponentPageIDs))

	for _, pageID := range ComponentPageIDs {
		if ctx.Err() != nil {
			return set, ctx.Err()
		}

		candidates, err := h.harvestComponent(ctx, pageID)
		if err != nil {
			h.logger.Warn("component backlinks unavailable", "page_id", pageID, "error", err)
			continue
		}
		set[pageID] = candidates
		h.logger.Info("component backlinks harvested", "page_id", pageID, "candidates", len(candidates))
	}

	return set, nil
}

// harvestComponent follows one component's listing through its pages.
func (h *Harvester) harvestComponent(ctx context.Context, pageID string) ([]model.Candidate, error) {
	var candidates []model.Candidate
	seen := make(map[string]bool)

	pageNo := 1
	for visited := 0; ; visited++ {
		if visited >= h.maxPages {
			// A looping pager would spin forever without this bound.
			// Partial results are still useful, so warn and stop.
			h.logger.Warn("backlink pagination bound exceeded",
				"page_id", pageID,
				"bound", h.maxPages,
			)
			break
		}

		frag, err := h.fetchListing(ctx, pageID, pageNo)
		if err != nil {
			if visited == 0 {
				return nil, err
			}
			h.logger.Warn("backlink listing page unavailable",
				"page_id", pageID,
				"page", pageNo,
				"error", err,
			)
			break
		}

		for _, c := range h.parseEntries(ctx, frag) {
			if seen[c.URL] {
				continue
			}
			seen[c.URL] = true
			candidates = append(candidates, c)
		}

		next, ok := nextPage(frag, pageNo)
		if !ok {
			break
		}
		pageNo = next
	}

	return candidates, nil
}

// fetchListing posts to the module connector and returns the parsed HTML
// fragment from the JSON envelope.
func (h *Harvester) fetchListing(ctx context.Context, pageID string, pageNo int) (*goquery.Document, error) {
	form := url.Values{
		"page_id":        {pageID},
		"moduleName":     {backlinksModule},
		"callbackIndex":  {"1"},
		"wikidot_token7": {h.token},
	}
	if pageNo > 1 {
		form.Set("page", strconv.Itoa(pageNo))
	}

	headers := http.Header{}
	headers.Set("Cookie", "wikidot_token7="+h.token)

	page, err := h.fetcher.PostForm(ctx, h.baseURL+moduleConnectorPath, form, headers)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Status string `json:"status"`
		Body   string `json:"body"`
	}
	if err := json.Unmarshal(page.Raw, &envelope); err != nil {
		return nil, fmt.Errorf("parse module connector envelope: %w", err)
	}
	if envelope.Body == "" {
		return nil, fmt.Errorf("module connector returned no body (status %q)", envelope.Status)
	}

	root, err := html.Parse(strings.NewReader(envelope.Body))
	if err != nil {
		return nil, fmt.Errorf("parse listing fragment: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// nextPage returns the pager's next page number, if the listing has one
// beyond the current page.
func nextPage(doc *goquery.Document, current int) (int, bool) {
	next, found := 0, false
	doc.Find(nextPageSelector).Each(func(_ int, a *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(a.Text()))
		if err != nil {
			return
		}
		if n > current && (!found || n < next) {
			next, found = n, true
		}
	})
	return next, found
}

// parseEntries extracts candidates from one listing fragment.
func (h *Harvester) parseEntries(ctx context.Context, doc *goquery.Document) []model.Candidate {
	var out []model.Candidate

	doc.Find(linkSelector).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		name := strings.TrimSpace(a.Text())
		if href == "" || noiseRe.MatchString(href) || noiseRe.MatchString(name) {
			return
		}

		c, ok := h.resolveEntry(ctx, href, name)
		if !ok {
			return
		}
		out = append(out, c)
	})

	return out
}

// resolveEntry turns one listing entry into a candidate, resolving its
// item number and display name.
func (h *Harvester) resolveEntry(ctx context.Context, href, name string) (model.Candidate, bool) {
	name = parentheticalRe.ReplaceAllString(name, "")
	isFragment := strings.Contains(href, "fragment:")

	var number model.ItemNumber
	if n, ok := model.ExtractItemNumberTail(href); ok && !isFragment {
		number = n
		if rosterName, ok := h.names[n]; ok {
			name = rosterName
		}
	} else if len(name) <= 1 {
		name = h.nameFromSlug(href)
	}

	if isFragment {
		n, fragName, ok := h.resolveFragment(ctx, href)
		if ok {
			if n != 0 {
				number = n
			}
			if fragName != "" {
				name = fragName
			}
		}
	}

	// The 001 proposals are the one family of pages that carry the bar
	// without a real number of their own.
	if strings.Contains(strings.ToLower(name), "proposal") || strings.Contains(strings.ToLower(href), "proposal") {
		number = 1
	}

	return model.Candidate{
		Number:   number,
		Name:     name,
		URL:      h.baseURL + href,
		Fragment: isFragment,
	}, true
}

// nameFromSlug derives a readable name from a URL slug when the listing
// entry has no usable text.
func (h *Harvester) nameFromSlug(href string) string {
	slug := href
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		slug = slug[i+1:]
	}
	slug = strings.TrimPrefix(slug, "fragment:")
	slug = strings.ReplaceAll(slug, "ii", "II")
	slug = strings.ReplaceAll(slug, "-s", "'s")
	slug = strings.ReplaceAll(slug, "-", " ")
	return h.caser.String(slug)
}

// resolveFragment fetches a fragment page without rendering and reads its
// breadcrumb trail to find the parent item.
func (h *Harvester) resolveFragment(ctx context.Context, href string) (model.ItemNumber, string, bool) {
	page, err := h.fetcher.Fetch(ctx, h.baseURL+href+"/norender/true")
	if err != nil || page.Root == nil {
		h.logger.Debug("fragment parent unresolved", "href", href, "error", err)
		return 0, "", false
	}

	crumb := goquery.NewDocumentFromNode(page.Root).Find(breadcrumbSelector).Last()
	if crumb.Length() == 0 {
		return 0, "", false
	}

	text := strings.TrimSpace(crumb.Text())
	if n, ok := model.ExtractItemNumber(text); ok {
		return n, h.names[n], true
	}
	return 0, text, true
}
