package yavs

import (
	"log/slog"

	"github.com/google/uuid"
)

// IDGenerator produces a fresh 16-byte record identifier.
// Generators must draw from a space large enough that collisions are
// practically impossible; uniqueness is not re-checked on insert.
type IDGenerator func() (ID, error)

// NewRandomID is the default IDGenerator. It returns a random (version 4)
// UUID as raw bytes.
func NewRandomID() (ID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return ID{}, err
	}
	return ID(u), nil
}

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	idGenerator      IDGenerator
}

// Option configures Store constructor/load behavior.
type Option func(*options)

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

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithIDGenerator overrides the identifier generator used by Insert.
// Mainly useful for deterministic ids in tests.
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *options) {
		if gen == nil {
			gen = NewRandomID
		}
		o.idGenerator = gen
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		idGenerator:      NewRandomID,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
