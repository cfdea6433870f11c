package model

// Method identifies how a classification record was detected.
//
// Design decision: We use an explicit tagged method rather than inferring
// detection strength from which fields are populated because:
//  1. The store's upgrade rule needs an unambiguous ordering
//  2. A fallback record can coincidentally populate every field
//  3. The tag survives serialization, so later runs can apply the same rule
type Method string

const (
	// MethodStructured means the record was extracted from a known
	// classification bar structure on the page.
	MethodStructured Method = "structured"

	// MethodFallback means the record was recovered from literal text
	// patterns because no structured bar was present.
	MethodFallback Method = "fallback"
)

// Supersedes reports whether a record detected by m may replace one
// detected by other. Structured supersedes fallback; a record is never
// downgraded, and equal methods keep the existing record.
func (m Method) Supersedes(other Method) bool {
	return m == MethodStructured && other == MethodFallback
}

// Record is one classification record in the harvested database.
// The JSON field names match the persisted database schema, which must stay
// stable across runs so reconciliation can reload prior results.
type Record struct {
	// Name is the item's display name from the series listings.
	Name string `json:"name"`

	// Number is the display item number ("SCP-042"). It doubles as the
	// database key.
	Number string `json:"number"`

	// Clearance is the object clearance level, normalized to "LEVEL n".
	Clearance string `json:"clearance"`

	// Containment is the containment class (safe, euclid, keter, ...).
	Containment string `json:"contain"`

	// Secondary is the esoteric secondary class, if any.
	Secondary string `json:"secondary"`

	// Disruption is the disruption class (vlam, keneq, ekhi, amida, dark).
	Disruption string `json:"disrupt"`

	// Risk is the risk class (notice, caution, warning, danger, critical).
	Risk string `json:"risk"`

	// URL is the page the record was extracted from.
	URL string `json:"url"`

	// Fragment marks records extracted from fragment sub-pages discovered
	// through backlinks rather than from the numbered page itself.
	Fragment bool `json:"fragment"`

	// Method records which detection tier produced the record.
	Method Method `json:"method"`
}

// NameRecord pairs an item number with its display name.
// Produced by the roster harvester, independent of classification.
type NameRecord struct {
	Number ItemNumber `json:"number"`
	Name   string     `json:"name"`
}
