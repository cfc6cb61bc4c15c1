package httpapi

import (
	"net/http"

	"github.com/riskibarqy/football-tournament/internal/usecase"
)

func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GenerateSchedule")
	defer span.End()

	var req generateScheduleRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scheduleService.GenerateSchedule(ctx, usecase.GenerateScheduleInput{
		StartDate: req.StartDate,
		Force:     req.Force,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "generate schedule failed", "start_date", req.StartDate, "force", req.Force, "error", err)
		writeError(ctx, w, err)
		return
	}

	skipped := result.SkippedGroups
	if skipped == nil {
		skipped = []string{}
	}
	writeSuccess(ctx, w, http.StatusCreated, scheduleResultDTO{
		Total:         result.Total,
		Scheduled:     result.Scheduled,
		Shortfall:     result.Shortfall,
		Passes:        result.Passes,
		SkippedGroups: skipped,
		Matches:       matchesToDTO(result.Matches),
	})
}

func (h *Handler) ClearSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ClearSchedule")
	defer span.End()

	if err := h.scheduleService.ClearSchedule(ctx); err != nil {
		h.logger.WarnContext(ctx, "clear schedule failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeNoContent(w)
}
