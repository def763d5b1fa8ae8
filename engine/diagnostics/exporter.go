package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Carmen-Shannon/oxy-hero/engine/quality"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter serves the latest published status as Prometheus gauges and counts ladder changes and resumes.
// Gauges are read from the Publisher at scrape time, so the frame loop never touches the registry for them.
type Exporter struct {
	registry *prometheus.Registry
	pub      *Publisher

	pixelRatio prometheus.GaugeFunc
	bucket     prometheus.GaugeFunc
	tier       prometheus.GaugeFunc
	baseCap    prometheus.GaugeFunc
	baseCapMax prometheus.GaugeFunc
	fps        prometheus.GaugeFunc
	progress   prometheus.GaugeFunc
	section    prometheus.GaugeFunc
	changes    *prometheus.CounterVec
	resumes    *prometheus.CounterVec
}

var _ Observer = &Exporter{}

// NewExporter creates an Exporter with its own registry. sessionID is attached as a constant label.
//
// Parameters:
//   - sessionID: value of the session label
//   - pub: the publisher the frame loop writes status to; nil creates an unattached one
//
// Returns:
//   - *Exporter: the new exporter
func NewExporter(sessionID string, pub *Publisher) *Exporter {
	if pub == nil {
		pub = NewPublisher()
	}
	labels := prometheus.Labels{"session": sessionID}
	gauge := func(name, help string, read func(Status) float64) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "hero",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 {
			return read(pub.Snapshot())
		})
	}

	e := &Exporter{
		registry: prometheus.NewRegistry(),
		pub:      pub,
		pixelRatio: gauge("pixel_ratio", "Effective device pixel ratio of the main framebuffer.",
			func(s Status) float64 { return s.EffectivePixelRatio }),
		bucket: gauge("quality_bucket", "Resolution bucket index; 0 is full resolution.",
			func(s Status) float64 { return float64(s.BucketIndex) }),
		tier: gauge("quality_tier", "Effect tier index; 0 is the highest tier.",
			func(s Status) float64 { return float64(s.TierIndex) }),
		baseCap: gauge("base_cap", "Current pixel ratio base cap.",
			func(s Status) float64 { return s.BaseCapCurrent }),
		baseCapMax: gauge("base_cap_max", "Maximum pixel ratio base cap for this device.",
			func(s Status) float64 { return s.BaseCapMax }),
		fps: gauge("ema_fps", "Smoothed frames per second.",
			func(s Status) float64 { return s.EmaFPS }),
		progress: gauge("scroll_progress", "Normalized scroll progress.",
			func(s Status) float64 { return s.Progress }),
		section: gauge("scroll_section", "Active section index.",
			func(s Status) float64 { return float64(s.Section) }),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "hero",
			Name:        "ladder_changes_total",
			Help:        "Quality ladder changes by kind.",
			ConstLabels: labels,
		}, []string{"kind"}),
		resumes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "hero",
			Name:        "resumes_total",
			Help:        "Resume guard activations by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
	}
	e.registry.MustRegister(
		e.pixelRatio, e.bucket, e.tier, e.baseCap, e.baseCapMax, e.fps, e.progress, e.section,
		e.changes, e.resumes,
	)
	return e
}

// ObserveStatus is a no-op; status reaches the gauges through the Publisher.
func (e *Exporter) ObserveStatus(Status) {}

// Publisher returns the publisher the gauges read from.
func (e *Exporter) Publisher() *Publisher {
	return e.pub
}

func (e *Exporter) ObserveChange(c quality.Change) {
	e.changes.WithLabelValues(c.Kind.String()).Inc()
}

func (e *Exporter) ObserveResume(reason string) {
	e.resumes.WithLabelValues(reason).Inc()
}

// Registry returns the exporter's registry.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler returns an HTTP handler serving the exporter's metrics.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Serve serves /metrics on addr until ctx is cancelled.
//
// Parameters:
//   - ctx: cancels the server
//   - addr: listen address, e.g. ":9464"
//
// Returns:
//   - error: the listen error, or nil after a clean shutdown
func (e *Exporter) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
