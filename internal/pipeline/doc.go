// Package pipeline orchestrates the harvest phases as ordered steps over a
// shared run state. Each step covers one phase: harvesting display names from
// the series listings, scraping the numeric item range, collecting component
// backlinks, and reconciling the backlink candidates into the database.
//
// Steps load their inputs from the output directory when an earlier phase did
// not run in the same invocation, so phases compose across separate runs.
package pipeline
