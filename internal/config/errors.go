package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers can match them with errors.Is.
var (
	// ErrNoTarget is returned when no file to validate was given.
	ErrNoTarget = errors.New("no target specified: provide one or more slide files")

	// ErrInvalidWorkers is returned when the worker count is negative.
	// Zero means one worker per CPU.
	ErrInvalidWorkers = errors.New("invalid workers: must be non-negative")

	// ErrInvalidMaxDirectories is returned when the directory limit is negative.
	ErrInvalidMaxDirectories = errors.New("invalid max directories: must be non-negative")

	// ErrInvalidMaxProblems is returned when the problem listing limit is negative.
	ErrInvalidMaxProblems = errors.New("invalid max problems: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingWarningPolicy is returned when strict parsing and
	// ignoring warnings are both requested.
	ErrConflictingWarningPolicy = errors.New("conflicting warning policy: --strict and --ignore-warnings cannot be used together")

	// ErrSkipWithoutHistory is returned when --skip-unchanged is combined
	// with --no-history.
	ErrSkipWithoutHistory = errors.New("--skip-unchanged needs the run history; remove --no-history")
)
