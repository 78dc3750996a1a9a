package wsicheck

import (
	"log/slog"
	"runtime"

	"github.com/simonhull/wsicheck/internal/binary"
)

// Option configures a validation run.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	report, err := wsicheck.ValidateFile("slide.svs",
//	    wsicheck.WithWorkers(8),
//	    wsicheck.WithFirstDirectoryOnly(),
//	)
type Option func(*validateOptions)

// ReadHook observes every byte range handed out by the bounds-checked view.
// It is called concurrently from tile workers.
type ReadHook = binary.ReadHook

// validateOptions holds configuration for a run.
type validateOptions struct {
	workers            int  // Tile workers
	firstDirectoryOnly bool // Stop after IFD 0
	strictParsing      bool // Fail on any warning
	ignoreWarnings     bool // Drop all warnings
	maxDirectories     int  // IFD chain limit (0 = parser default)
	logger             *slog.Logger
	readHook           ReadHook
}

// defaultOptions returns the default configuration.
func defaultOptions() *validateOptions {
	return &validateOptions{
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.New(slog.DiscardHandler),
	}
}

func applyOptions(opts []Option) *validateOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithWorkers sets the number of goroutines validating tiles.
//
// Values below 1 select runtime.GOMAXPROCS(0), the default.
func WithWorkers(n int) Option {
	return func(o *validateOptions) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithFirstDirectoryOnly validates only the first IFD, which in a
// pyramidal slide is the full-resolution level.
func WithFirstDirectoryOnly() Option {
	return func(o *validateOptions) {
		o.firstDirectoryOnly = true
	}
}

// WithStrictParsing treats any container warning as a fatal error.
//
// By default, wsicheck reports issues such as a broken JPEGTables stream
// or an unreadable trailing IFD as warnings and still validates every tile
// it could locate.
//
// Example:
//
//	report, err := wsicheck.ValidateFile("slide.svs", wsicheck.WithStrictParsing())
//	// err != nil if ANY container warning is produced
func WithStrictParsing() Option {
	return func(o *validateOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all container warnings.
//
// Report.Warnings will always be empty. Tile results are unaffected.
func WithIgnoreWarnings() Option {
	return func(o *validateOptions) {
		o.ignoreWarnings = true
	}
}

// WithMaxDirectories bounds how many IFDs are followed. The chain is cut
// with a warning when the limit is reached.
func WithMaxDirectories(n int) Option {
	return func(o *validateOptions) {
		o.maxDirectories = n
	}
}

// WithLogger sets the structured logger. By default nothing is logged.
//
// Directory summaries are logged at Debug, run summaries at Info.
func WithLogger(l *slog.Logger) Option {
	return func(o *validateOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithReadHook registers fn to observe every byte range read from the
// file. The hook must be safe for concurrent use.
//
// Example:
//
//	var reads atomic.Int64
//	report, err := wsicheck.Validate(data, wsicheck.WithReadHook(func(off, n uint64) {
//	    reads.Add(1)
//	}))
func WithReadHook(fn ReadHook) Option {
	return func(o *validateOptions) {
		o.readHook = fn
	}
}
