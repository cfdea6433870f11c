// Package roster harvests the item number to display name mapping from the
// wiki's series listing pages.
//
// The series listings are the authoritative index of which item numbers
// exist and what they are called. Each listing is one page of list entries
// in the form "SCP-NNN - Name"; entries whose link carries the "newpage"
// class are unwritten placeholders and are skipped.
//
// One listing failing to fetch is reported and skipped; the roster from
// the remaining listings is still useful, so a partial harvest is not an
// error.
package roster
