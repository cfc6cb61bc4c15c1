package httpapi

import (
	"net/http"
)

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListStandings")
	defer span.End()

	tables, err := h.standingsService.ListAllGroups(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]groupTableDTO, 0, len(tables))
	for _, table := range tables {
		out = append(out, groupTableToDTO(table))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetGroupStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetGroupStandings")
	defer span.End()

	table, err := h.standingsService.ListStandings(ctx, r.PathValue("group"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, groupTableToDTO(table))
}

func (h *Handler) ListTopScorers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListTopScorers")
	defer span.End()

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.disciplineService.TopScorers(ctx, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entriesToDTO(items))
}

func (h *Handler) ListCardedPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListCardedPlayers")
	defer span.End()

	items, err := h.disciplineService.ListCardedPlayers(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entriesToDTO(items))
}

func (h *Handler) ListBannedPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListBannedPlayers")
	defer span.End()

	items, err := h.disciplineService.ListBannedPlayers(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entriesToDTO(items))
}

func (h *Handler) ResetBan(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ResetBan")
	defer span.End()

	teamID, playerID := r.PathValue("teamID"), r.PathValue("playerID")
	player, err := h.disciplineService.ResetBan(ctx, teamID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "reset ban failed", "team_id", teamID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(player))
}

func (h *Handler) Recompute(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Recompute")
	defer span.End()

	if err := h.disciplineService.Recompute(ctx); err != nil {
		h.logger.ErrorContext(ctx, "recompute failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "recomputed"})
}
