package survgo

import (
	"log/slog"

	"github.com/hupe1980/survgo/blobstore"
	"github.com/hupe1980/survgo/codec"
)

type options struct {
	delimiter   byte
	categorical map[string]struct{}
	factorsFile string
	oneHot      bool
	store       blobstore.Store
	codec       codec.Codec
	logger      *Logger
	metrics     MetricsCollector
	seed        int64
	parallelism int
}

// Option configures ingestion and dataset behavior.
type Option func(*options)

// WithDelimiter sets the field delimiter byte (default: tab).
func WithDelimiter(delimiter byte) Option {
	return func(o *options) {
		o.delimiter = delimiter
	}
}

// WithCategorical declares the named columns as categorical. Columns not
// listed here parse as numeric.
func WithCategorical(columns ...string) Option {
	return func(o *options) {
		for _, c := range columns {
			o.categorical[c] = struct{}{}
		}
	}
}

// WithFactorsFile sets the factor definition file. When the file exists it
// is loaded before ingestion; when it does not, inferred definitions are
// written there so later runs encode identically.
func WithFactorsFile(name string) Option {
	return func(o *options) {
		o.factorsFile = name
	}
}

// WithOneHot marks inferred factors for one-hot expansion on export.
// Factors loaded from a definition file keep their own flag.
func WithOneHot(oneHot bool) Option {
	return func(o *options) {
		o.oneHot = oneHot
	}
}

// WithBlobStore sets where data and factor files are read and written.
// The default is the local filesystem relative to the working directory.
func WithBlobStore(store blobstore.Store) Option {
	return func(o *options) {
		if store != nil {
			o.store = store
		}
	}
}

// WithCodec configures the codec used for factor definition files.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger configures structured logging for operations.
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

// WithMetricsCollector configures a metrics collector for diagnostics such
// as unresolved-category and insufficient-neighbor counts.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

// WithSeed sets the random seed used by TrainTestSplit. Splits are
// deterministic for a fixed seed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithParallelism bounds the number of goroutines used for the neighbor
// search inside one imputation pass. Values <= 1 keep imputation fully
// sequential (the default). Pass results are staged and applied at the pass
// barrier either way, so parallelism does not change the outcome.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		delimiter:   '\t',
		categorical: make(map[string]struct{}),
		store:       blobstore.NewLocalStore(""),
		codec:       codec.Default,
		logger:      NoopLogger(),
		metrics:     NoopMetricsCollector{},
		seed:        1,
		parallelism: 1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
