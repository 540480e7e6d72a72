// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from various
// sources.
//
// A Model holds flow definitions and the scenarios the CLI runs against
// them. Concrete loaders for HCL and YAML live in separate packages.
package config
