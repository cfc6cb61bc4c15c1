package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	attrTeamID   = attribute.Key("tournament.team_id")
	attrPlayerID = attribute.Key("tournament.player_id")
	attrMatchID  = attribute.Key("tournament.match_id")
	attrGroup    = attribute.Key("tournament.group")
	attrOp       = attribute.Key("tournament.mutation")
)

var usecaseTracer = otel.Tracer("football-tournament/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

// startUsecaseSpan only opens a child span when the caller is already traced.
// Blank identifiers are dropped from attrs.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}

	kept := attrs[:0:0]
	for _, a := range attrs {
		if strings.TrimSpace(a.Value.Emit()) != "" {
			kept = append(kept, a)
		}
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(kept...))
}

// markSpanFailure flags a span for errors the caller cannot fix. Rejected
// input and missing records stay unmarked.
func markSpanFailure(span trace.Span, err error) {
	if err == nil || isClientError(err) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
