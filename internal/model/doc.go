// Package model defines the core data types shared across the harvester.
//
// The central types are:
//
//   - ItemNumber: the numeric index of a wiki item, from which the page slug,
//     display number, and URL are derived
//   - Record: a classification record extracted from one page
//   - NameRecord: an item number paired with its display name
//   - BacklinkSet: candidates discovered through component backlinks
//   - Page: the transient fetched representation of a remote page
//
// Types in this package carry no behavior beyond derivation and validation;
// all I/O lives in the fetch, roster, backlink, and store packages.
package model
