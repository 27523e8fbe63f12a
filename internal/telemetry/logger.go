package telemetry

import (
	"context"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	ServiceName string
	// Enabled turns on OTLP export. When false only the stdout logger is
	// real; the tracer and meter are no-ops.
	Enabled  bool
	Endpoint string
}

// Telemetry bundles the logger, tracer and meter handed to every component.
type Telemetry struct {
	Log    *zap.Logger
	Tracer trace.Tracer
	Meter  metric.Meter

	shutdown []func(context.Context) error
}

func jsonCore() zapcore.Core {
	return zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(os.Stdout),
		zapcore.DebugLevel,
	)
}

// Setup initializes trace, metrics and logs via OTLP gRPC.
func Setup(ctx context.Context, opts Options) (*Telemetry, error) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	if !opts.Enabled {
		return &Telemetry{
			Log:    zap.New(jsonCore()).With(zap.String("service", opts.ServiceName)),
			Tracer: tracenoop.NewTracerProvider().Tracer(opts.ServiceName),
			Meter:  metricnoop.NewMeterProvider().Meter(opts.ServiceName),
		}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(opts.ServiceName)),
	)
	if err != nil {
		return nil, err
	}

	// --- trace ---
	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(opts.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter),
	)
	otel.SetTracerProvider(tp)

	// --- metrics ---
	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(opts.Endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
	)
	otel.SetMeterProvider(mp)

	// --- log ---
	logExporter, err := otlploggrpc.New(ctx,
		otlploggrpc.WithEndpoint(opts.Endpoint),
		otlploggrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
	)

	// fan-out: OTel bridge + JSON stdout
	otelCore := otelzap.NewCore(opts.ServiceName, otelzap.WithLoggerProvider(lp))
	logger := zap.New(zapcore.NewTee(otelCore, jsonCore()))

	return &Telemetry{
		Log:      logger,
		Tracer:   tp.Tracer(opts.ServiceName),
		Meter:    mp.Meter(opts.ServiceName),
		shutdown: []func(context.Context) error{tp.Shutdown, mp.Shutdown, lp.Shutdown},
	}, nil
}

// Nop returns telemetry that discards everything; used by tests.
func Nop() *Telemetry {
	return &Telemetry{
		Log:    zap.NewNop(),
		Tracer: tracenoop.NewTracerProvider().Tracer("nop"),
		Meter:  metricnoop.NewMeterProvider().Meter("nop"),
	}
}

// Shutdown flushes the logger and every provider.
func (t *Telemetry) Shutdown(ctx context.Context) {
	_ = t.Log.Sync()
	for _, fn := range t.shutdown {
		_ = fn(ctx)
	}
}
