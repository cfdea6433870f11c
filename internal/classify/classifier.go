package classify

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/acsarchive/acsharvest/internal/model"
)

// Fields holds the classification attributes extracted from one page.
type Fields struct {
	Clearance   string
	Containment string
	Secondary   string
	Disruption  string
	Risk        string
}

// Outcome is the result of classifying one page.
type Outcome struct {
	// Found reports whether either tier produced a complete record.
	Found bool

	// Method is the detection tier that succeeded. Unset when !Found.
	Method model.Method

	// Fields are the extracted attributes. Zero when !Found.
	Fields Fields
}

// notFound is the shared negative outcome.
var notFound = Outcome{}

// Structured component selectors. These mirror the fixed markup of the wiki
// components; sub-selectors address fixed positions inside each container.
const (
	hybridBarSelector = "div.acs-hybrid-text-bar"
	acsBarSelector    = "div.anom-bar-container"
	flopsSelector     = "div.itemInfo.darkbox"
	aimSelector       = "div.desktop-aim"
)

// Classifier applies the two-tier detection strategy.
type Classifier struct {
	logger *slog.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClassifierOption {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Classifier.
func New(opts ...ClassifierOption) *Classifier {
	c := &Classifier{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify inspects the fetched page and returns a tagged outcome.
// A page with no parsed document tree (malformed beyond repair) is a miss.
func (c *Classifier) Classify(page *model.Page) Outcome {
	if page == nil || page.Root == nil {
		return notFound
	}
	doc := goquery.NewDocumentFromNode(page.Root)

	// Tier 1: structured components, most specific markup first. The
	// hybrid bar embeds an anom-bar-container internally, so it must be
	// checked before the plain bar.
	for _, v := range structuredVariants {
		if doc.Find(v.container).Length() == 0 {
			continue
		}
		fields, ok := v.extract(doc)
		if !ok {
			c.logger.Debug("structured component present but incomplete",
				"url", page.URL,
				"variant", v.name,
			)
			continue
		}
		return Outcome{Found: true, Method: model.MethodStructured, Fields: fields}
	}

	// Tier 2: literal text patterns.
	if fields, ok := c.fallback(doc); ok {
		return Outcome{Found: true, Method: model.MethodFallback, Fields: fields}
	}

	return notFound
}

// variant is one structured component shape.
type variant struct {
	name      string
	container string
	extract   func(doc *goquery.Document) (Fields, bool)
}

// structuredVariants in detection order.
var structuredVariants = []variant{
	{name: "hybrid-bar", container: hybridBarSelector, extract: extractHybridBar},
	{name: "acs-bar", container: acsBarSelector, extract: extractACSBar},
	{name: "flops-header", container: flopsSelector, extract: extractFlopsHeader},
	{name: "aim-header", container: aimSelector, extract: extractAIMHeader},
}

// extractACSBar reads the full ACS bar component. Containment, disruption,
// and risk are required; clearance and secondary are optional by design
// (many objects legitimately have no secondary class).
func extractACSBar(doc *goquery.Document) (Fields, bool) {
	f := Fields{
		Clearance:   normalizeClearance(cleanText(doc.Find("div.top-right-box > div.level").First().Text())),
		Containment: cleanText(doc.Find("div.contain-class > div.class-text").First().Text()),
		Secondary:   cleanText(doc.Find("div.second-class > div.class-text").First().Text()),
		Disruption:  cleanText(doc.Find("div.disrupt-class > div.class-text").First().Text()),
		Risk:        cleanText(doc.Find("div.risk-class > div.class-text").First().Text()),
	}
	if f.Containment == "" || f.Disruption == "" || f.Risk == "" {
		return Fields{}, false
	}
	return f, true
}

// extractHybridBar reads the hybrid text bar component.
func extractHybridBar(doc *goquery.Document) (Fields, bool) {
	f := Fields{
		Clearance:   normalizeClearance(doc.Find("div.acs-clear > strong").First().Text()),
		Containment: cleanText(doc.Find("div.acs-contain > div.acs-text > span:nth-of-type(2)").First().Text()),
		Secondary:   cleanText(doc.Find("div.acs-secondary > div.acs-text > span:nth-of-type(2)").First().Text()),
		Disruption:  cleanText(doc.Find("div.acs-disrupt > div.acs-text").First().Text()),
		Risk:        cleanText(doc.Find("div.acs-risk > div.acs-text").First().Text()),
	}
	if f.Containment == "" || f.Disruption == "" || f.Risk == "" {
		return Fields{}, false
	}
	return f, true
}

// extractFlopsHeader reads the darkbox item-info header. This component has
// no risk row, so only containment and disruption are required. An unknown
// containment value is an esoteric class: it moves to the secondary field
// and containment becomes "esoteric".
func extractFlopsHeader(doc *goquery.Document) (Fields, bool) {
	f := Fields{
		Clearance:   normalizeClearance(cleanText(doc.Find(flopsSelector + " tr:nth-child(1) > td:nth-child(2) > span:nth-child(1)").First().Text())),
		Containment: cleanText(doc.Find(flopsSelector + " tr:nth-child(2) > td:nth-child(1)").First().Text()),
		Disruption:  cleanText(doc.Find(flopsSelector + " + p > a.disruptionHeader").First().Text()),
	}
	promoteEsoteric(&f)
	if f.Containment == "" || f.Disruption == "" {
		return Fields{}, false
	}
	return f, true
}

// aimClearanceLevels maps the AIM header's clearance CSS class to a level.
var aimClearanceLevels = map[string]string{
	"one":   "LEVEL 1",
	"two":   "LEVEL 2",
	"three": "LEVEL 3",
	"four":  "LEVEL 4",
	"five":  "LEVEL 5",
	"six":   "LEVEL 6",
}

// extractAIMHeader reads the AIM header component. Its clearance is encoded
// as a CSS class rather than text.
func extractAIMHeader(doc *goquery.Document) (Fields, bool) {
	clearanceClass, _ := doc.Find(aimSelector + " > div.w-container > div > div:nth-child(2) > p > span > span").First().Attr("class")
	f := Fields{
		Clearance:   aimClearanceLevels[clearanceClass],
		Containment: cleanText(doc.Find(aimSelector + " > div.w-container > div > div:nth-child(3) > p").First().Text()),
		Disruption:  cleanText(doc.Find(aimSelector + " > div.w-container > div > div:nth-child(4) > p").First().Text()),
	}
	promoteEsoteric(&f)
	if f.Containment == "" || f.Disruption == "" {
		return Fields{}, false
	}
	return f, true
}

// promoteEsoteric moves an unrecognized containment value into the
// secondary slot and marks the containment esoteric.
func promoteEsoteric(f *Fields) {
	if f.Containment != "" && !isKnownContainmentClass(f.Containment) {
		f.Secondary = f.Containment
		f.Containment = "esoteric"
	}
}
