package middleware

import (
	"errors"
	"time"

	"github.com/edusaas/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	Enabled       bool
	Logger        *zap.Logger
}

var sizeBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}

type httpInstruments struct {
	requests  *telemetry.Counter
	latency   *telemetry.Histogram
	reqBytes  *telemetry.Histogram
	respBytes *telemetry.Histogram
	inFlight  metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	var errs []error
	histogram := func(name, desc, unit string, buckets []float64) *telemetry.Histogram {
		h, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{Name: name, Description: desc, Unit: unit, Boundaries: buckets})
		errs = append(errs, err)
		return h
	}

	in := &httpInstruments{
		latency:   histogram("http_server_request_duration_seconds", "Time from first byte in to last byte out", "s", telemetry.HTTPDurationBuckets),
		reqBytes:  histogram("http_server_request_size_bytes", "Declared request body length", "By", sizeBuckets),
		respBytes: histogram("http_server_response_size_bytes", "Response body bytes written", "By", sizeBuckets),
	}
	var err error
	in.requests, err = telemetry.NewCounter(meter, "http_server_request_total", "Requests answered, by route and status", "{request}")
	errs = append(errs, err)
	in.inFlight, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Requests currently being served"),
		metric.WithUnit("{request}"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return in, nil
}

func passThrough(c *gin.Context) { c.Next() }

// HTTPMetrics counts requests by route, status and institution and records
// latency and body sizes by route.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.MeterProvider == nil || !cfg.MeterProvider.IsEnabled() {
		return passThrough
	}
	return HTTPMetricsWithMeter(cfg.MeterProvider.Meter("http.server"), true, cfg.Logger)
}

func HTTPMetricsWithMeter(meter metric.Meter, enabled bool, log *zap.Logger) gin.HandlerFunc {
	if !enabled {
		return passThrough
	}
	in, err := newHTTPInstruments(meter)
	if err != nil {
		if log != nil {
			log.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passThrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		in.inFlight.Add(ctx, 1)
		defer in.inFlight.Add(ctx, -1)

		c.Next()

		status := c.Writer.Status()
		route := routeOf(c)
		// latency and sizes stay per route; only the counter carries tenant
		byRoute := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
			telemetry.AttrHTTPStatusClass.String(HTTPMetricsStatusGroup(status)),
		}
		counted := append(byRoute[:2:2], telemetry.AttrHTTPStatusCode.Int(status))
		if institutionID := GetJWTInstitutionID(c); institutionID != "" {
			counted = append(counted, telemetry.AttrInstitutionID.String(institutionID))
		}

		in.requests.Inc(ctx, counted...)
		in.latency.RecordDuration(ctx, time.Since(start), byRoute...)
		if n := c.Request.ContentLength; n > 0 {
			in.reqBytes.Record(ctx, float64(n), byRoute...)
		}
		if n := c.Writer.Size(); n > 0 {
			in.respBytes.Record(ctx, float64(n), byRoute...)
		}
	}
}

// routeOf is the matched pattern, never the raw path, so IDs do not become labels
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}

// HTTPMetricsStatusGroup buckets a status code into its class, e.g. "4xx"
func HTTPMetricsStatusGroup(statusCode int) string {
	if statusCode < 200 || statusCode > 599 {
		return "other"
	}
	return string(rune('0'+statusCode/100)) + "xx"
}
