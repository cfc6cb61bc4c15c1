package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("football-tournament/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// routeSpanAttributes maps route wildcards to the span attribute they fill.
var routeSpanAttributes = []struct {
	wildcard string
	key      attribute.Key
}{
	{wildcard: "teamID", key: "tournament.team_id"},
	{wildcard: "playerID", key: "tournament.player_id"},
	{wildcard: "matchID", key: "tournament.match_id"},
	{wildcard: "goalID", key: "tournament.goal_id"},
	{wildcard: "cardID", key: "tournament.card_id"},
	{wildcard: "group", key: "tournament.group"},
}

// startHandlerSpan opens "httpapi.Handler.<handler>" under the request's
// server span, tagged with the route pattern and any tournament ids in the
// path. Untraced requests (health checks) get a noop span.
func startHandlerSpan(r *http.Request, handler string) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}

	attrs := make([]attribute.KeyValue, 0, 2)
	if r.Pattern != "" {
		attrs = append(attrs, attribute.String("http.route", routeOf(r.Pattern)))
	}
	for _, item := range routeSpanAttributes {
		if v := strings.TrimSpace(r.PathValue(item.wildcard)); v != "" {
			attrs = append(attrs, item.key.String(v))
		}
	}
	return apiTracer.Start(ctx, handlerSpanPrefix+handler, trace.WithAttributes(attrs...))
}

// routeOf strips the method from a ServeMux pattern such as
// "GET /v1/teams/{teamID}".
func routeOf(pattern string) string {
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return strings.TrimSpace(path)
	}
	return pattern
}

// markServerError flags the active span when a response maps to 5xx.
func markServerError(ctx context.Context, status int, err error) {
	if status < http.StatusInternalServerError || err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, http.StatusText(status))
}
