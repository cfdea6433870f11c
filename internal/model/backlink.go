package model

// Candidate is one page discovered through a component backlink listing.
// It carries enough context to fetch and classify the page directly: fragment
// pages live at URLs that cannot be derived from the item number alone.
type Candidate struct {
	// Number is the item number the candidate resolves to. Zero when the
	// page could not be tied to a numbered item (the proposal pages use 1).
	Number ItemNumber `json:"number"`

	// Name is the candidate's display name.
	Name string `json:"name"`

	// URL is the full page URL.
	URL string `json:"url"`

	// Fragment marks candidates that are fragment sub-pages.
	Fragment bool `json:"fragment"`
}

// Key returns the database key the candidate would occupy: the display
// number for numbered items, otherwise the URL (fragments and unnumbered
// pages have no display number to key on).
func (c Candidate) Key() string {
	if c.Number != 0 {
		return c.Number.Display()
	}
	return c.URL
}

// BacklinkSet maps a component page ID to the candidates linking to it.
// It is transient state used only during reconciliation, though it is also
// persisted so a harvest and a reconcile can run as separate invocations.
type BacklinkSet map[string][]Candidate

// Union returns all candidates across every component, deduplicated by URL.
// Ordering across components is unspecified; the reconciler keys its delta
// computation by Candidate.Key, so order does not affect the result.
func (b BacklinkSet) Union() []Candidate {
	seen := make(map[string]bool)
	var out []Candidate
	for _, candidates := range b {
		for _, c := range candidates {
			if seen[c.URL] {
				continue
			}
			seen[c.URL] = true
			out = append(out, c)
		}
	}
	return out
}
