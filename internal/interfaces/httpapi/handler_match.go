package httpapi

import (
	"net/http"

	"github.com/riskibarqy/football-tournament/internal/usecase"
)

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListMatches")
	defer span.End()

	query := r.URL.Query()
	items, err := h.matchService.ListMatches(ctx, usecase.ListMatchesInput{
		Group:  query.Get("group"),
		Status: query.Get("status"),
		TeamID: query.Get("team_id"),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(items))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetMatch")
	defer span.End()

	item, err := h.matchService.GetMatch(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) RecordScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RecordScore")
	defer span.End()

	var req recordScoreRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	updated, err := h.matchService.RecordScore(ctx, matchID, usecase.RecordScoreInput{
		HomeScore: *req.HomeScore,
		AwayScore: *req.AwayScore,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record score failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) ClearScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ClearScore")
	defer span.End()

	matchID := r.PathValue("matchID")
	updated, err := h.matchService.ClearScore(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "clear score failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) AddGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "AddGoal")
	defer span.End()

	var req goalRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	updated, err := h.matchService.AddGoal(ctx, matchID, usecase.GoalInput{
		TeamID:   req.TeamID,
		PlayerID: req.PlayerID,
		Minute:   req.Minute,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add goal failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(updated))
}

func (h *Handler) RemoveGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RemoveGoal")
	defer span.End()

	matchID, goalID := r.PathValue("matchID"), r.PathValue("goalID")
	updated, err := h.matchService.RemoveGoal(ctx, matchID, goalID)
	if err != nil {
		h.logger.WarnContext(ctx, "remove goal failed", "match_id", matchID, "goal_id", goalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) AddCard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "AddCard")
	defer span.End()

	var req cardRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	updated, err := h.matchService.AddCard(ctx, matchID, usecase.CardInput{
		TeamID:   req.TeamID,
		PlayerID: req.PlayerID,
		Minute:   req.Minute,
		Type:     req.Type,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add card failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(updated))
}

func (h *Handler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RemoveCard")
	defer span.End()

	matchID, cardID := r.PathValue("matchID"), r.PathValue("cardID")
	updated, err := h.matchService.RemoveCard(ctx, matchID, cardID)
	if err != nil {
		h.logger.WarnContext(ctx, "remove card failed", "match_id", matchID, "card_id", cardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}
