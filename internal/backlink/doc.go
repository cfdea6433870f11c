// Package backlink harvests the pages linking to the known classification
// bar components.
//
// Pages that render the classification bar include one of three component
// pages, so the wiki's "what links here" listing for those components is a
// second discovery signal: it surfaces classified pages that a numeric
// range scan misses, most notably fragment sub-pages and unnumbered
// proposal pages.
//
// The listings are served by the wiki's AJAX module connector as a JSON
// envelope wrapping an HTML fragment. The harvester authenticates the
// request with a per-run random token mirrored between a form field and a
// cookie, the scheme the wiki uses for CSRF protection.
//
// Pagination following is bounded by a configured page count so the
// harvest terminates even against a self-referential pager; exceeding the
// bound is a logged warning with partial results, never a crash.
package backlink
