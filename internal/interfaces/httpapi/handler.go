package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/football-tournament/internal/domain/match"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(match.DateLayout, raw)
}
