// Package config holds the command-line configuration for wsicheck.
//
// Configuration comes from three layers, later layers winning:
//   - built-in defaults (NewConfig)
//   - an optional YAML file (.wsicheck.yaml)
//   - command-line flags
//
// The library itself is configured with functional options; this package
// only exists for the CLI.
package config
