package classify

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Phrase templates older pages use for unstructured classification mentions.
// The scan runs over the lowercased page text, so the templates are
// lowercase literals.
const (
	containPhrase   = "containment class:"
	disruptPhrase   = "disruption class:"
	riskPhrase      = "risk class:"
	secondaryPhrase = "secondary class:"
)

// disruptionKeywords are disruption class names that occur essentially
// nowhere in ordinary prose, so a bare occurrence is a reliable signal even
// without the phrase template. "dark" is excluded: it is far too common a
// word to be trusted on its own.
var disruptionKeywords = []string{" vlam ", " keneq ", " ekhi ", " amida "}

// classifiedAsRe matches the "classified as keter-class" phrasing.
var classifiedAsRe = regexp.MustCompile(`classified as ([a-z]+)-class`)

// fallback scans the page text for literal classification patterns.
//
// Acceptance rule: at least one of disruption, risk or secondary must be
// recovered; a bare "containment class:" template match is rejected, since
// that phrase shows up in quoted documents and tales far too often to stand
// alone. The "classified as X-class" phrasing is the exception, it names the
// page's own classification and is accepted by itself.
func (c *Classifier) fallback(doc *goquery.Document) (Fields, bool) {
	text := strings.ToLower(doc.Text())

	var f Fields
	if i := strings.Index(text, containPhrase); i >= 0 {
		f.Containment = cleanText(wordAfterColon(text[i:]))
	}
	if i := strings.Index(text, disruptPhrase); i >= 0 {
		f.Disruption = cleanText(wordAfterColon(text[i:]))
	}
	if i := strings.Index(text, riskPhrase); i >= 0 {
		f.Risk = cleanText(wordAfterColon(text[i:]))
	}
	if i := strings.Index(text, secondaryPhrase); i >= 0 {
		f.Secondary = cleanText(wordAfterColon(text[i:]))
	}

	classifiedAs := false
	if f.Containment == "" {
		if m := classifiedAsRe.FindStringSubmatch(text); m != nil {
			f.Containment = m[1]
			classifiedAs = true
		}
	}

	for _, kw := range disruptionKeywords {
		if strings.Contains(text, kw) {
			f.Disruption = strings.TrimSpace(kw)
			break
		}
	}

	if f.Disruption == "" && f.Risk == "" && f.Secondary == "" && !classifiedAs {
		return Fields{}, false
	}
	return f, true
}
