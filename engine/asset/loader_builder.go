package asset

import (
	"github.com/Carmen-Shannon/oxy-hero/engine/logger"
	"go.uber.org/zap"
)

// LoaderBuilderOption is a functional option for configuring a Loader.
type LoaderBuilderOption func(*loaderImpl)

// WithWorkers sets the maximum number of decode goroutines.
//
// Parameters:
//   - n: worker count, values below 1 are ignored
//
// Returns:
//   - LoaderBuilderOption: functional option to set the worker count
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loaderImpl) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithLogger sets the logger used for decode results.
func WithLogger(log *zap.Logger) LoaderBuilderOption {
	return func(l *loaderImpl) {
		l.log = logger.OrNop(log).Named("asset")
	}
}
