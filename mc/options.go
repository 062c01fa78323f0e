package mc

import "go.uber.org/zap"

// DefaultMaxMoveAttempts caps failed move draws within one iteration.
const DefaultMaxMoveAttempts = 10000

// Option configures runtime wiring of an Optimizer (logging, diagnostics,
// budgets). Algorithm parameters live in Parameters.
type Option func(*options)

type options struct {
	logger          *zap.Logger
	history         HistorySink
	observer        Observer
	maxIter         int
	maxIterSet      bool
	maxMoveAttempts int
}

// Observer receives every finished iteration. It runs on the optimizer's
// goroutine and must not retain the Step beyond the call.
type Observer func(Step)

func defaultOptions() options {
	return options{
		logger:          zap.NewNop(),
		maxMoveAttempts: DefaultMaxMoveAttempts,
	}
}

func gatherOptions(opts ...Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithLogger sets the logger. nil keeps the no-op logger.
// Per-iteration messages are emitted at debug level only.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHistorySink attaches a diagnostic sink receiving one Sample every
// 100 iterations. If the sink also implements Flusher, it is flushed once
// when the run ends; flush errors are logged and ignored.
func WithHistorySink(s HistorySink) Option {
	return func(o *options) { o.history = s }
}

// WithObserver registers a per-iteration callback.
func WithObserver(f Observer) Option {
	return func(o *options) { o.observer = f }
}

// WithMaxIterations overrides maxIter (otherwise convergenceSteps·100).
// 0 is valid and skips the iteration loop entirely.
// Panics on negative n.
func WithMaxIterations(n int) Option {
	if n < 0 {
		panic("mc: WithMaxIterations: n must be non-negative")
	}

	return func(o *options) {
		o.maxIter = n
		o.maxIterSet = true
	}
}

// WithMaxMoveAttempts sets how many failed move draws one iteration may
// absorb before the run fails with ErrMoveAttemptsExhausted.
// Panics on n < 1.
func WithMaxMoveAttempts(n int) Option {
	if n < 1 {
		panic("mc: WithMaxMoveAttempts: n must be positive")
	}

	return func(o *options) { o.maxMoveAttempts = n }
}
