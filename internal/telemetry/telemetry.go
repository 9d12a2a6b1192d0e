// Package telemetry exports HTTP server metrics in Prometheus format.
package telemetry

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

var (
	methodKey = attribute.Key("http.method")
	routeKey  = attribute.Key("http.route")
	statusKey = attribute.Key("http.status_code")
)

// Metrics records per-request counters and latencies.
type Metrics struct {
	exporter  *prometheus.Exporter
	completed metric.Int64Counter
	duration  metric.Float64ValueRecorder
}

func New(serviceName string) (*Metrics, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)

	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, fmt.Errorf("initialize prometheus exporter: %w", err)
	}

	meter := metric.Must(exporter.MeterProvider().Meter(serviceName))

	return &Metrics{
		exporter: exporter,
		completed: meter.NewInt64Counter(
			"http/server/completed_count",
			metric.WithDescription("Count of completed requests, by HTTP method, route and response status"),
		),
		duration: meter.NewFloat64ValueRecorder(
			"http/server/duration_ms",
			metric.WithDescription("Request latency in milliseconds, by HTTP method, route and response status"),
		),
	}, nil
}

// Handler serves the scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return m.exporter
}

// Middleware records every request once its handler returns. Routes are
// labelled by chi pattern, not raw path, to keep cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		labels := []attribute.KeyValue{
			methodKey.String(r.Method),
			routeKey.String(route),
			statusKey.String(strconv.Itoa(status)),
		}

		m.completed.Add(r.Context(), 1, labels...)
		m.duration.Record(r.Context(), float64(time.Since(start).Microseconds())/1000, labels...)
	})
}
