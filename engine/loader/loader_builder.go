package loader

import (
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/logger"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger sets the sink for load diagnostics.
//
// Parameters:
//   - l: the logger; nil discards diagnostics
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(l logger.Logger) LoaderBuilderOption {
	return func(ld *loader) {
		ld.logger = l
	}
}

// WithWorkers sets the maximum number of concurrent decodes.
//
// Parameters:
//   - n: worker count, at least 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithQueueSize sets how many loads may wait for a worker before Load blocks.
func WithQueueSize(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

// WithIdleTimeout sets the worker pool idle timeout.
func WithIdleTimeout(d time.Duration) LoaderBuilderOption {
	return func(l *loader) {
		l.idleTimeout = d
	}
}
