package telemetry

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentResty attaches a span to every request made through the
// client. Response bodies are not recorded since the parser backend
// streams arbitrarily large responses.
func InstrumentResty(client *resty.Client, tracerName string) {
	tracer := otel.Tracer(tracerName)

	client.OnBeforeRequest(func(cli *resty.Client, req *resty.Request) error {
		ctx, _ := tracer.Start(req.Context(), req.Method)
		req.SetContext(ctx)
		return nil
	})
	client.OnAfterResponse(func(cli *resty.Client, res *resty.Response) error {
		span := trace.SpanFromContext(res.Request.Context())
		defer span.End()

		span.SetName(fmt.Sprintf("http %s", res.Request.Method))
		span.SetAttributes(
			semconv.URLFull(res.Request.URL),
			semconv.HTTPRequestMethodKey.String(res.Request.Method),
			semconv.HTTPResponseStatusCode(res.StatusCode()),
			attribute.Int64("response/time_ms", res.Time().Milliseconds()),
		)
		if res.IsError() {
			span.SetStatus(codes.Error, res.Status())
		}
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		span := trace.SpanFromContext(req.Context())
		defer span.End()

		span.SetName(fmt.Sprintf("http %s", req.Method))
		span.SetAttributes(
			semconv.URLFull(req.URL),
			semconv.HTTPRequestMethodKey.String(req.Method),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	})
}
