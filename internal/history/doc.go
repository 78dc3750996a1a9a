// Package history stores validation runs in a local SQLite database.
//
// Each run is keyed by the file path and a quick content fingerprint, so a
// later run can skip slides that have not changed since they last passed.
package history
