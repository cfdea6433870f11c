// Package main provides the entry point for the acsharvest CLI.
//
// acsharvest walks the SCP wiki and builds a JSON database of Anomaly
// Classification System metadata: containment, disruption, and risk classes
// for every item page that carries them.
//
// Usage:
//
//	acsharvest harvest --getnames --scrape
//	acsharvest harvest --backlinks --cross
//
// See --help for all available options.
package main

// main is the entry point for acsharvest.
func main() {
	Execute()
}
