// Package app wires one build together: configuration, logger, manifest
// loading, catalog construction, feature registration, and pipeline
// execution.
package app
