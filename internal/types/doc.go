// Package types defines the data model shared by the container parsers,
// the tile scanner and the public API: formats, tile descriptors, tile
// statuses, reports and the typed errors that abort a run.
//
// Users should not import this package directly; the root package
// re-exports everything through type aliases.
package types
