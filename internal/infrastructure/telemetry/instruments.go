package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument describes a metric to register on a meter.
// Buckets only apply to histograms; empty means the SDK defaults.
type Instrument struct {
	Name        string
	Description string
	Unit        string
	Buckets     []float64
}

// Counter is a monotonic int64 counter
type Counter struct {
	inner metric.Int64Counter
}

// NewCounter registers spec as an int64 counter on meter
func NewCounter(meter metric.Meter, spec Instrument) (*Counter, error) {
	c, err := meter.Int64Counter(spec.Name,
		metric.WithDescription(spec.Description),
		metric.WithUnit(spec.Unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", spec.Name, err)
	}
	return &Counter{inner: c}, nil
}

// Inc adds one
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.inner.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Histogram is a float64 distribution
type Histogram struct {
	inner metric.Float64Histogram
}

// NewHistogram registers spec as a float64 histogram on meter
func NewHistogram(meter metric.Meter, spec Instrument) (*Histogram, error) {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(spec.Description),
		metric.WithUnit(spec.Unit),
	}
	if len(spec.Buckets) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(spec.Buckets...))
	}
	h, err := meter.Float64Histogram(spec.Name, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", spec.Name, err)
	}
	return &Histogram{inner: h}, nil
}

// Observe records v
func (h *Histogram) Observe(ctx context.Context, v float64, attrs ...attribute.KeyValue) {
	h.inner.Record(ctx, v, metric.WithAttributes(attrs...))
}

// ObserveSince records the seconds elapsed since start
func (h *Histogram) ObserveSince(ctx context.Context, start time.Time, attrs ...attribute.KeyValue) {
	h.inner.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
}

// Metric attribute keys
const (
	AttrOutcome   = attribute.Key("outcome")
	AttrErrorCode = attribute.Key("error_code")

	AttrHTTPMethod     = attribute.Key("http.request.method")
	AttrHTTPRoute      = attribute.Key("http.route")
	AttrHTTPStatusCode = attribute.Key("http.response.status_code")
)

var (
	// latencyBuckets covers request and calculation latency in seconds
	latencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

	// optionCountBuckets covers the options offered to one merchant group
	optionCountBuckets = []float64{0, 1, 2, 3, 5, 8, 13, 21}
)

// HTTPRequests counts served requests
var HTTPRequests = Instrument{
	Name:        "http_server_request_total",
	Description: "Total number of HTTP requests",
	Unit:        "{request}",
}

// HTTPDuration is the server-side request latency
var HTTPDuration = Instrument{
	Name:        "http_server_request_duration_seconds",
	Description: "HTTP request latency distribution in seconds",
	Unit:        "s",
	Buckets:     latencyBuckets,
}
