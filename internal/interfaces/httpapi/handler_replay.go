package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/cricket-league/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
)

func (h *Handler) ReplayMatch(w http.ResponseWriter, r *http.Request) {
	matchID := strings.TrimSpace(r.PathValue("matchID"))
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplayMatch", attribute.String("match.id", matchID))
	defer span.End()

	result, err := h.replayService.ReplayMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "replay match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ReplayTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplayTournament", attribute.String("tournament.id", tournamentID))
	defer span.End()

	workers := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("workers")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: workers must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		workers = value
	}

	result, err := h.replayService.ReplayTournament(ctx, tournamentID, workers)
	if err != nil {
		h.logger.WarnContext(ctx, "replay tournament failed", "tournament_id", tournamentID, "workers", workers, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
