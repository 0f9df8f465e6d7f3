package ogpilot

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus logger with an on/off switch. A disabled Logger
// drops every entry.
type Logger struct {
	enabled bool
	entry   *logrus.Entry
}

// NewLogger creates a logger writing text entries to stderr.
func NewLogger(enabled bool, level string) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetLevel(parseLogLevel(level))
	return NewLoggerFrom(enabled, base)
}

// NewLoggerFrom wraps an existing logrus logger, for applications that
// already configure their own formatter and hooks.
func NewLoggerFrom(enabled bool, base *logrus.Logger) *Logger {
	if base == nil {
		base = logrus.New()
		base.SetOutput(io.Discard)
	}
	return &Logger{
		enabled: enabled,
		entry:   base.WithField("component", "ogpilot"),
	}
}

// parseLogLevel parses string log level to a logrus level
func parseLogLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Debug logs a debug entry with fields.
func (l *Logger) Debug(msg string, fields logrus.Fields) {
	if l == nil || !l.enabled {
		return
	}
	l.entry.WithFields(fields).Debug(msg)
}

// Error logs an error entry with fields.
func (l *Logger) Error(msg string, fields logrus.Fields) {
	if l == nil || !l.enabled {
		return
	}
	l.entry.WithFields(fields).Error(msg)
}

// createImageFailed reports a swallowed CreateImage failure. Logging must
// never break the caller, so a panicking hook or writer is ignored.
func (l *Logger) createImageFailed(requestID string, json bool, err error) {
	defer func() { _ = recover() }()

	mode := "url"
	if json {
		mode = "json"
	}
	l.Error("OG Pilot create_image failed", logrus.Fields{
		"mode":       mode,
		"request_id": requestID,
		"error":      err.Error(),
	})
}

// Metrics holds Prometheus collectors for outbound image requests.
type Metrics struct {
	requests  *prometheus.CounterVec
	redirects prometheus.Counter
	duration  prometheus.Histogram
}

// NewMetrics creates unregistered collectors; call Register to expose them.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ogpilot",
			Name:      "image_requests_total",
			Help:      "Image requests by outcome (success, configuration, argument, request).",
		}, []string{"outcome"}),
		redirects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ogpilot",
			Name:      "redirects_followed_total",
			Help:      "Redirect hops followed while requesting images.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ogpilot",
			Name:      "image_request_duration_seconds",
			Help:      "Wall time of image requests including redirects.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Register adds the collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.requests, m.redirects, m.duration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observe(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
	m.duration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) redirect() {
	if m == nil {
		return
	}
	m.redirects.Inc()
}
