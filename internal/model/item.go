package model

import (
	"fmt"
	"regexp"
	"strconv"
)

// ItemNumber is the numeric index of a wiki item (e.g., 173 for SCP-173).
// It is the stable key from which the page slug, display number, and URL
// are derived. An ItemNumber never mutates once created.
type ItemNumber uint16

// itemNumberRe matches an item reference in a URL or title, such as
// "scp-0042" or "/scp-173". Case-insensitive, one to four digits.
var itemNumberRe = regexp.MustCompile(`(?i)scp-([0-9]{1,4})`)

// itemNumberTailRe anchors the match to the end of the string, which is the
// form backlink URLs take ("/scp-173"). A looser match would pick up numbers
// embedded in unrelated slugs.
var itemNumberTailRe = regexp.MustCompile(`(?i)\bscp-([0-9]{1,4})$`)

// Slug returns the canonical page slug for the item.
// Items 0-99 are zero-padded to three digits on the wiki ("scp-042");
// larger numbers are used as-is ("scp-1730").
func (n ItemNumber) Slug() string {
	if n <= 99 {
		return fmt.Sprintf("scp-%03d", n)
	}
	return fmt.Sprintf("scp-%d", n)
}

// Display returns the display form of the item number ("SCP-042").
// This is the key used in the persisted database.
func (n ItemNumber) Display() string {
	if n <= 99 {
		return fmt.Sprintf("SCP-%03d", n)
	}
	return fmt.Sprintf("SCP-%d", n)
}

// PageURL returns the full page URL for the item under the given base URL.
func (n ItemNumber) PageURL(baseURL string) string {
	return baseURL + "/" + n.Slug()
}

// ExtractItemNumber extracts an item number from a URL or title string.
// Returns false if the string contains no item reference or the number
// does not parse.
func ExtractItemNumber(s string) (ItemNumber, bool) {
	return extractWith(itemNumberRe, s)
}

// ExtractItemNumberTail extracts an item number anchored at the end of the
// string. Backlink hrefs end in the slug, so the anchored form avoids
// false positives on paths like "/scp-173-artwork/page-2".
func ExtractItemNumberTail(s string) (ItemNumber, bool) {
	return extractWith(itemNumberTailRe, s)
}

func extractWith(re *regexp.Regexp, s string) (ItemNumber, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseUint(m[1], 10, 16)
	if err != nil {
		return 0, false
	}
	return ItemNumber(n), true
}
