package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ankurdental/dentaldesk/pkg/observability"

// Probe paths are hit every few seconds by the orchestrator and would drown
// the interesting spans.
var untracedPaths = map[string]bool{
	"/livez":    true,
	"/readyz":   true,
	"/startupz": true,
	"/metrics":  true,
}

type httpInstruments struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
	latency  metric.Float64Histogram
}

func newHTTPInstruments() httpInstruments {
	meter := otel.Meter(tracerName)
	in := httpInstruments{tracer: otel.Tracer(tracerName)}
	in.requests, _ = meter.Int64Counter(
		"dentaldesk_http_requests_total",
		metric.WithDescription("HTTP requests served, by route and status"),
		metric.WithUnit("{request}"),
	)
	in.latency, _ = meter.Float64Histogram(
		"dentaldesk_http_request_duration_ms",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("ms"),
	)
	return in
}

func (in httpInstruments) record(c fiber.Ctx, span trace.Span, route string, took time.Duration, err error) {
	status := c.Response().StatusCode()
	span.SetAttributes(attribute.Int("http.status_code", status))

	attrs := metric.WithAttributes(
		attribute.String("http.method", c.Method()),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	in.requests.Add(c.Context(), 1, attrs)
	in.latency.Record(c.Context(), float64(took.Microseconds())/1000, attrs)

	if status < 500 {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(status))
	if err != nil {
		span.RecordError(err)
	}
}

// FiberMiddleware opens a server span for every non-probe request and
// records request count and latency on the global meter. The trace id is
// echoed in X-Trace-Id.
func FiberMiddleware() fiber.Handler {
	in := newHTTPInstruments()
	propagator := otel.GetTextMapPropagator()

	return func(c fiber.Ctx) error {
		if untracedPaths[c.Path()] {
			return c.Next()
		}

		route := c.Route().Path
		ctx := propagator.Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := in.tracer.Start(ctx, c.Method()+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.route", route),
				attribute.String("http.user_agent", c.Get(fiber.HeaderUserAgent)),
				attribute.String("http.client_ip", c.IP()),
			),
		)
		defer span.End()

		c.SetContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Set("X-Trace-Id", sc.TraceID().String())
		}

		start := time.Now()
		err := c.Next()
		in.record(c, span, route, time.Since(start), err)
		return err
	}
}
