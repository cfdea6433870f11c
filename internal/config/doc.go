// Package config holds the configuration surface for the harvester.
//
// Configuration flows from CLI flags into a single flat Config struct that
// is passed through the application by dependency injection. An optional
// YAML file (.acsharvest) supplies per-machine overrides for values that
// rarely change between runs, such as the output directory or the request
// rate. Flags win over the file; the file wins over defaults.
//
// Default values are declared as package constants with the reasoning
// behind each choice, so tuning decisions stay reviewable.
package config
