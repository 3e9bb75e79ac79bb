package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of business spans
const TracerName = "marketplace-backend"

// Span attribute keys
const (
	AttrMerchantID    = attribute.Key("merchant_id")
	AttrCountryCode   = attribute.Key("destination.country_code")
	AttrCurrency      = attribute.Key("currency")
	AttrItemCount     = attribute.Key("item_count")
	AttrMerchantCount = attribute.Key("merchant_count")
	AttrOptionCount   = attribute.Key("option_count")
	AttrGrandTotal    = attribute.Key("grand_total")
	AttrPeerService   = attribute.Key("peer.service")
	AttrURLFull       = attribute.Key("url.full")
)

// StartSpan starts an internal span on the global tracer. The caller ends it.
//
//	ctx, span := telemetry.StartSpan(ctx, "checkout.calculate")
//	defer span.End()
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// StartClientSpan starts a client span for an outbound call to peer
func StartClientSpan(ctx context.Context, peer string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, AttrPeerService.String(peer))
	return otel.Tracer(TracerName).Start(ctx, "call-"+peer,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// Fail records err on span and marks it failed. A nil err is ignored.
func Fail(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceIDs returns the trace and span id of the span in ctx, or empty strings
func TraceIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
