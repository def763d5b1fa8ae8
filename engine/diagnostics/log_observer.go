package diagnostics

import (
	"github.com/Carmen-Shannon/oxy-hero/engine/logger"
	"github.com/Carmen-Shannon/oxy-hero/engine/quality"
	"go.uber.org/zap"
)

// LogObserver writes ladder changes and resumes as structured logs. Status updates are not logged.
type LogObserver struct {
	logger *zap.Logger
}

var _ Observer = &LogObserver{}

// NewLogObserver creates a LogObserver. nil uses a no-op logger.
func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{logger: logger.OrNop(log).Named("diagnostics")}
}

func (l *LogObserver) ObserveStatus(Status) {}

func (l *LogObserver) ObserveChange(c quality.Change) {
	fields := []zap.Field{
		zap.Stringer("kind", c.Kind),
		zap.Int("tier_before", c.Before.TierIndex),
		zap.Int("tier_after", c.After.TierIndex),
		zap.Int("bucket_before", c.Before.BucketIndex),
		zap.Int("bucket_after", c.After.BucketIndex),
		zap.Float64("base_cap", c.After.BaseCapCurrent),
		zap.Float64("ratio", c.Ratio),
		zap.String("tier", c.Tier.Name),
	}
	if c.Kind.IsDegrade() {
		l.logger.Warn("quality reduced", fields...)
		return
	}
	l.logger.Info("quality changed", fields...)
}

func (l *LogObserver) ObserveResume(reason string) {
	l.logger.Info("resume guard armed", zap.String("reason", reason))
}
