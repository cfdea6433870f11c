// Package reconcile merges backlink-discovered candidates into the harvested
// classification database, fetching and classifying only the delta: pages not
// already recorded and not already examined by a previous run.
package reconcile
