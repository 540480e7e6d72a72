// Package registry holds the runtime flow definitions for a single
// application instance.
//
// The registry is populated from the format-agnostic config model and then
// validated, so that scenarios referring to unknown flows or outcomes are
// rejected at startup rather than halfway through a run.
package registry
