package navis

import (
	"log/slog"
	"runtime"
)

type options struct {
	logger    *Logger
	workers   int
	recursive bool
	pattern   string

	// decode
	connectorLabels map[string]int
	somaLabel       int

	// encode
	header         string
	writeLabels    map[int64]int
	keepLabels     bool
	exportSynapses bool
}

// Option configures import/export behavior.
type Option func(*options)

// WithLogger configures structured logging for read/write operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithWorkers bounds the number of concurrent decoders used for bulk
// imports and exports. Defaults to GOMAXPROCS.
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithRecursive makes directory imports descend into subdirectories.
func WithRecursive(recursive bool) Option {
	return func(o *options) {
		o.recursive = recursive
	}
}

// WithPattern restricts directory and store imports to names matching the
// glob pattern, e.g. "dorsal_*". Matched against the base name.
func WithPattern(pattern string) Option {
	return func(o *options) {
		o.pattern = pattern
	}
}

// WithConnectorLabels maps SWC label values to connector types on import,
// e.g. {"presynapse": 7, "postsynapse": 8}. Matching rows are duplicated
// into the connector table.
func WithConnectorLabels(labels map[string]int) Option {
	return func(o *options) {
		o.connectorLabels = labels
	}
}

// WithSomaLabel sets the SWC label treated as soma on import. Defaults to 1.
func WithSomaLabel(label int) Option {
	return func(o *options) {
		o.somaLabel = label
	}
}

// WithHeader sets a custom header block for exported SWC files. Lines are
// written verbatim, prefixed with '#' where missing.
func WithHeader(header string) Option {
	return func(o *options) {
		o.header = header
	}
}

// WithWriteLabels provides explicit per-node label values for export,
// overriding the generated soma/branch/end labels.
func WithWriteLabels(labels map[int64]int) Option {
	return func(o *options) {
		o.writeLabels = labels
	}
}

// WithKeepLabels exports the label values carried by the node table
// instead of regenerating them.
func WithKeepLabels(keep bool) Option {
	return func(o *options) {
		o.keepLabels = keep
	}
}

// WithExportSynapses writes connectors as extra SWC rows labeled 7
// (presynapse) and 8 (postsynapse).
func WithExportSynapses(export bool) Option {
	return func(o *options) {
		o.exportSynapses = export
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:    NoopLogger(),
		workers:   runtime.GOMAXPROCS(0),
		somaLabel: 1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}
