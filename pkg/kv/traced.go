package kv

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ankurdental/dentaldesk/pkg/kv"

// Traced wraps a Store with a client span and a latency histogram per call.
// With the otel no-op providers installed it costs two interface calls.
type Traced struct {
	next     Store
	driver   string
	tracer   trace.Tracer
	duration metric.Float64Histogram
}

func NewTraced(next Store, driver string) *Traced {
	h, _ := otel.Meter(instrumentationName).Float64Histogram(
		"kv_operation_duration_ms",
		metric.WithDescription("Key-value substrate call latency"),
		metric.WithUnit("ms"),
	)
	return &Traced{
		next:     next,
		driver:   driver,
		tracer:   otel.Tracer(instrumentationName),
		duration: h,
	}
}

func (t *Traced) observe(ctx context.Context, op, key string) (context.Context, func(error)) {
	ctx, span := t.tracer.Start(ctx, "kv."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("kv.driver", t.driver),
			attribute.String("kv.key", key),
		),
	)
	start := time.Now()
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		t.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000,
			metric.WithAttributes(
				attribute.String("kv.driver", t.driver),
				attribute.String("kv.op", op),
			))
	}
}

func (t *Traced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, done := t.observe(ctx, "get", key)
	v, ok, err := t.next.Get(ctx, key)
	done(err)
	return v, ok, err
}

func (t *Traced) Set(ctx context.Context, key string, value []byte) error {
	ctx, done := t.observe(ctx, "set", key)
	err := t.next.Set(ctx, key, value)
	done(err)
	return err
}

func (t *Traced) Delete(ctx context.Context, key string) error {
	ctx, done := t.observe(ctx, "delete", key)
	err := t.next.Delete(ctx, key)
	done(err)
	return err
}

func (t *Traced) Close() error { return t.next.Close() }
