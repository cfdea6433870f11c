// Package classify determines whether a fetched page carries the Anomaly
// Classification System and extracts its fields.
//
// # Two-tier strategy
//
// Tier 1 looks for one of the known structured classification components,
// checked in a fixed order: the hybrid text bar, the full ACS bar, the
// "flops" item header, and the AIM header. Each variant reads its fields
// from fixed sub-positions inside the component. A variant that cannot
// locate its required fields contributes nothing; it never emits a partial
// record.
//
// Tier 2 is a fallback text scan for the literal phrase templates older
// pages use ("containment class: keter", "classified as keter-class") and
// for disruption-class keywords that appear nowhere else in the corpus.
// Pages matching neither tier are conservatively excluded rather than
// guessed at.
//
// Design decision: The outcome is an explicit tagged result rather than
// error-based control flow because:
//  1. Callers cannot mistake a partial structured match for a valid record
//  2. The detection method survives into the store, driving its upgrade rule
//  3. "Not classified" is expected data, not an exceptional condition
package classify
