// Package config loads the hero tuning file. Every field is optional; a zero value keeps the package default of
// the component it tunes, so an empty file yields the stock behaviour.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/logger"
	"github.com/Carmen-Shannon/oxy-hero/engine/performance"
	"github.com/Carmen-Shannon/oxy-hero/engine/quality"
	"github.com/Carmen-Shannon/oxy-hero/engine/scroll"
	"gopkg.in/yaml.v3"
)

// Config is the root of the tuning file.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Controller ControllerConfig `yaml:"controller"`
	Ladder     LadderConfig     `yaml:"ladder"`
	Scroll     ScrollConfig     `yaml:"scroll"`
	Overlay    OverlayConfig    `yaml:"overlay"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Assets     AssetConfig      `yaml:"assets"`
}

// LogConfig maps onto logger.Config.
type LogConfig struct {
	Environment string `yaml:"environment"`
	Level       string `yaml:"level"`
}

// ControllerConfig tunes the adaptive performance controller.
type ControllerConfig struct {
	DropFPS           float64       `yaml:"drop_fps"`
	RaiseFPS          float64       `yaml:"raise_fps"`
	EMAWindow         float64       `yaml:"ema_window"`
	DegradeAfter      time.Duration `yaml:"degrade_after"`
	UpgradeAfter      time.Duration `yaml:"upgrade_after"`
	DecayRate         float64       `yaml:"decay_rate"`
	Debounce          time.Duration `yaml:"debounce"`
	GuardDuration     time.Duration `yaml:"guard"`
	PostGuardDebounce time.Duration `yaml:"post_guard_debounce"`
	IgnoreFrames      int           `yaml:"ignore_frames"`
	IgnoreDuration    time.Duration `yaml:"ignore_duration"`
	MaxFrameDelta     float64       `yaml:"max_frame_delta"`
}

// TierConfig is one effect tier row.
type TierConfig struct {
	Name  string  `yaml:"name"`
	Scale float64 `yaml:"scale"`
}

// LadderConfig tunes the quality ladder.
type LadderConfig struct {
	Tiers           []TierConfig `yaml:"tiers"`
	Buckets         []float64    `yaml:"buckets"`
	PixelBudget     float64      `yaml:"pixel_budget"`
	AbsoluteCeiling float64      `yaml:"absolute_ceiling"`
	MinRatio        float64      `yaml:"min_ratio"`
	BaseCapStep     float64      `yaml:"base_cap_step"`
}

// ScrollConfig tunes section navigation.
type ScrollConfig struct {
	SnapDuration   time.Duration `yaml:"snap_duration"`
	WheelThreshold float64       `yaml:"wheel_threshold"`
	ScrollIdle     time.Duration `yaml:"scroll_idle"`
	LockSettle     time.Duration `yaml:"lock_settle"`
}

// OverlayConfig controls the diagnostics overlay.
type OverlayConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// AssetConfig lists the effect textures to decode at startup.
type AssetConfig struct {
	Workers     int    `yaml:"workers"`
	FluteNormal string `yaml:"flute_normal"`
}

// DefaultOverlayInterval is the overlay refresh interval when none is configured.
const DefaultOverlayInterval = 500 * time.Millisecond

// Load reads and parses the tuning file at path.
//
// Parameters:
//   - path: file path of the YAML tuning file
//
// Returns:
//   - *Config: the parsed configuration
//   - error: error if the file cannot be read or parsed
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a tuning document. Unknown keys are rejected so typos surface instead of silently
// keeping a default.
//
// Parameters:
//   - r: reader holding the YAML document
//
// Returns:
//   - *Config: the parsed configuration
//   - error: error if decoding or validation fails
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the components would otherwise clamp away without notice.
func (c *Config) Validate() error {
	ctl := c.Controller
	if ctl.DropFPS < 0 || ctl.RaiseFPS < 0 {
		return fmt.Errorf("controller thresholds must not be negative")
	}
	if ctl.DropFPS > 0 && ctl.RaiseFPS > 0 && ctl.RaiseFPS <= ctl.DropFPS {
		return fmt.Errorf("controller raise_fps %.1f must exceed drop_fps %.1f", ctl.RaiseFPS, ctl.DropFPS)
	}
	for i, t := range c.Ladder.Tiers {
		if t.Scale <= 0 || t.Scale > 1 {
			return fmt.Errorf("ladder tier %d (%s) scale %.2f out of (0,1]", i, t.Name, t.Scale)
		}
	}
	for i, b := range c.Ladder.Buckets {
		if b <= 0 || b > 1 {
			return fmt.Errorf("ladder bucket %d multiplier %.2f out of (0,1]", i, b)
		}
	}
	return nil
}

// LoggerConfig returns the logger configuration tagged with the given session ID.
func (c *Config) LoggerConfig(sessionID string) logger.Config {
	return logger.Config{
		Environment: c.Log.Environment,
		LogLevel:    c.Log.Level,
		SessionID:   sessionID,
	}
}

// ControllerOptions maps the controller section onto builder options.
//
// Returns:
//   - []performance.ControllerBuilderOption: options for every configured field
func (c *Config) ControllerOptions() []performance.ControllerBuilderOption {
	ctl := c.Controller
	var opts []performance.ControllerBuilderOption

	if ctl.DropFPS > 0 || ctl.RaiseFPS > 0 {
		drop := common.Coalesce(ctl.DropFPS, performance.DefaultDropFPS)
		raise := common.Coalesce(ctl.RaiseFPS, performance.DefaultRaiseFPS)
		opts = append(opts, performance.WithThresholds(drop, raise))
	}
	if ctl.EMAWindow > 0 {
		opts = append(opts, performance.WithEMAWindow(ctl.EMAWindow))
	}
	if ctl.DegradeAfter > 0 {
		opts = append(opts, performance.WithDegradeAfter(ctl.DegradeAfter))
	}
	if ctl.UpgradeAfter > 0 {
		opts = append(opts, performance.WithUpgradeAfter(ctl.UpgradeAfter))
	}
	if ctl.DecayRate > 0 {
		opts = append(opts, performance.WithDecayRate(ctl.DecayRate))
	}
	if ctl.Debounce > 0 {
		opts = append(opts, performance.WithDebounce(ctl.Debounce))
	}
	if ctl.GuardDuration > 0 || ctl.PostGuardDebounce > 0 {
		opts = append(opts, performance.WithResumeGuard(
			common.Coalesce(ctl.GuardDuration, performance.DefaultGuardDuration),
			common.Coalesce(ctl.PostGuardDebounce, performance.DefaultPostGuardDebounce),
		))
	}
	if ctl.IgnoreFrames > 0 || ctl.IgnoreDuration > 0 {
		opts = append(opts, performance.WithResumeDiscard(
			common.Coalesce(ctl.IgnoreFrames, performance.DefaultIgnoreFrames),
			common.Coalesce(ctl.IgnoreDuration, performance.DefaultIgnoreDuration),
		))
	}
	if ctl.MaxFrameDelta > 0 {
		opts = append(opts, performance.WithMaxFrameDelta(ctl.MaxFrameDelta))
	}
	return opts
}

// LadderOptions maps the ladder section onto builder options.
func (c *Config) LadderOptions() []quality.LadderBuilderOption {
	l := c.Ladder
	var opts []quality.LadderBuilderOption

	if len(l.Tiers) > 0 {
		tiers := make([]quality.Tier, 0, len(l.Tiers))
		for _, t := range l.Tiers {
			tiers = append(tiers, quality.Tier{Name: t.Name, Scale: t.Scale})
		}
		opts = append(opts, quality.WithTiers(tiers))
	}
	if len(l.Buckets) > 0 {
		opts = append(opts, quality.WithBuckets(l.Buckets))
	}
	if l.PixelBudget > 0 {
		opts = append(opts, quality.WithPixelBudget(l.PixelBudget))
	}
	if l.AbsoluteCeiling > 0 {
		opts = append(opts, quality.WithAbsoluteCeiling(l.AbsoluteCeiling))
	}
	if l.MinRatio > 0 {
		opts = append(opts, quality.WithMinRatio(l.MinRatio))
	}
	if l.BaseCapStep > 0 {
		opts = append(opts, quality.WithBaseCapStep(l.BaseCapStep))
	}
	return opts
}

// NavigatorOptions maps the scroll section onto builder options.
func (c *Config) NavigatorOptions() []scroll.NavigatorBuilderOption {
	s := c.Scroll
	var opts []scroll.NavigatorBuilderOption

	if s.SnapDuration > 0 {
		opts = append(opts, scroll.WithSnapDuration(s.SnapDuration))
	}
	if s.WheelThreshold > 0 {
		opts = append(opts, scroll.WithWheelThreshold(s.WheelThreshold))
	}
	if s.ScrollIdle > 0 {
		opts = append(opts, scroll.WithScrollIdle(s.ScrollIdle))
	}
	if s.LockSettle > 0 {
		opts = append(opts, scroll.WithLockSettle(s.LockSettle))
	}
	return opts
}

// OverlayInterval returns the configured overlay interval or DefaultOverlayInterval.
func (c *Config) OverlayInterval() time.Duration {
	return common.Coalesce(c.Overlay.Interval, DefaultOverlayInterval)
}
