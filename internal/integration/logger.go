package integration

import (
	"github.com/tliron/commonlog"
)

// Logger is the subset of commonlog.Logger the engine writes to.
type Logger interface {
	Errorf(format string, values ...any)
	Debugf(format string, values ...any)
}

// DefaultLoggerName is the commonlog name used when no logger is injected.
const DefaultLoggerName = "method-integrator.integration"

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for diagnostics. A nil logger discards
// all output.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l == nil {
			l = nopLogger{}
		}
		e.log = l
	}
}

// WithSuggestionThreshold sets the minimum similarity for a declared method
// to be suggested when nothing matches. Zero disables suggestions.
func WithSuggestionThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

func defaultLogger() Logger {
	return commonlog.GetLogger(DefaultLoggerName)
}

type nopLogger struct{}

func (nopLogger) Errorf(string, ...any) {}
func (nopLogger) Debugf(string, ...any) {}
