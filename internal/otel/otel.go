package otel

import (
	"context"
	"fmt"
	"sync"

	eventbus "github.com/leoasis/apollo-codegen/internal/eventbus"
	events "github.com/leoasis/apollo-codegen/internal/events"
	runid "github.com/leoasis/apollo-codegen/internal/runid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("apollo-codegen")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer       trace.Tracer
	compileSpans sync.Map // rid -> trace.Span
	genSpans     sync.Map // rid/kind/name -> trace.Span
}

func genKey(rid int64, kind, name string) string {
	return fmt.Sprintf("%d/%s/%s", rid, kind, name)
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.CompileStart) {
		rid, _ := runid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "codegen.compile")
		span.SetAttributes(
			attribute.String("graphql.schema.path", e.SchemaPath),
			attribute.Int("graphql.query_files", len(e.QueryFiles)),
		)
		s.compileSpans.Store(rid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.CompileFinish) {
		rid, _ := runid.FromContext(ctx)
		v, ok := s.compileSpans.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(
			attribute.Int("graphql.operations", e.Operations),
			attribute.Int("graphql.fragments", e.Fragments),
		)
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.GenerateStart) {
		rid, _ := runid.FromContext(ctx)
		parent := ctx
		if v, ok := s.compileSpans.Load(rid); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
		_, span := s.tracer.Start(parent, "codegen.generate")
		span.SetAttributes(
			attribute.String("codegen.declaration.kind", e.Kind),
			attribute.String("codegen.declaration.name", e.Name),
		)
		s.genSpans.Store(genKey(rid, e.Kind, e.Name), span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.GenerateFinish) {
		rid, _ := runid.FromContext(ctx)
		v, ok := s.genSpans.LoadAndDelete(genKey(rid, e.Kind, e.Name))
		if !ok {
			return
		}
		span := v.(trace.Span)
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})
}
