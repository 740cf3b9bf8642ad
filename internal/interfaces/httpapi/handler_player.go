package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerStats")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	profile, err := h.playerStatsService.GetPlayerStat(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player stats failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerStatToDTO(profile))
}
