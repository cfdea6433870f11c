package classify

import (
	"fmt"
	"strings"
)

// maxClearanceLevel is the highest clearance level appearing on the wiki.
const maxClearanceLevel = 9

// knownContainmentClasses are the canonical containment class values.
// Anything else found in a containment slot is an esoteric class and gets
// promoted into the secondary field.
var knownContainmentClasses = []string{
	"safe", "euclid", "keter", "neutralized", "pending", "explained", "esoteric",
}

// isKnownContainmentClass reports whether class is a canonical containment
// class, ignoring case.
func isKnownContainmentClass(class string) bool {
	for _, known := range knownContainmentClasses {
		if strings.EqualFold(class, known) {
			return true
		}
	}
	return false
}

// wordAfterColon returns the first word following the first colon in text,
// or empty when there is none. Phrase templates like "containment class:
// keter" reduce to their value this way.
func wordAfterColon(text string) string {
	_, rest, ok := strings.Cut(text, ":")
	if !ok {
		return ""
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// cleanText normalizes a raw extracted field value.
//
// Wiki markup leaks into scraped values in a few recurring shapes:
// unexpanded template variables ("{$class}"), explicit "none"/"n/a"
// placeholders, "label: value" composites, and "numeric/name" composites.
// All collapse to either the bare value or empty.
func cleanText(text string) string {
	text = strings.TrimSpace(text)
	switch {
	case strings.Contains(text, "{$"):
		return ""
	case strings.EqualFold(text, "none") || strings.EqualFold(text, "n/a"):
		return ""
	case strings.Contains(text, ":"):
		return wordAfterColon(text)
	case strings.Contains(text, "/"):
		_, rest, _ := strings.Cut(text, "/")
		return strings.TrimSpace(rest)
	default:
		return text
	}
}

// normalizeClearance rewrites any value containing a level digit to the
// canonical "LEVEL n" form. Values without a digit pass through unchanged.
func normalizeClearance(text string) string {
	for i := 1; i <= maxClearanceLevel; i++ {
		if strings.Contains(text, fmt.Sprintf("%d", i)) {
			return fmt.Sprintf("LEVEL %d", i)
		}
	}
	return text
}
