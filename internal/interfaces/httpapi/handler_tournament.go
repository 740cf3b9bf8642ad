package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/cricket-league/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
)

func (h *Handler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTournament")
	defer span.End()

	var req createTournamentRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.tournamentService.CreateTournament(ctx, usecase.CreateTournamentInput{
		Name:       req.Name,
		Format:     req.Format,
		OversLimit: req.OversLimit,
		MinTeams:   req.MinTeams,
		MaxTeams:   req.MaxTeams,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create tournament failed", "name", req.Name, "format", req.Format, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, tournamentToDTO(item))
}

func (h *Handler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterTeam", attribute.String("tournament.id", tournamentID))
	defer span.End()

	var req registerTeamRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.tournamentService.RegisterTeam(ctx, tournamentID, req.TeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "register team failed", "tournament_id", tournamentID, "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, registerTeamDTO{
		TournamentID: result.Registration.TournamentID,
		TeamID:       result.Registration.TeamID,
		RegisteredAt: formatTime(result.Registration.RegisteredAt),
		Started:      result.Started,
		Fixtures:     matchesToDTO(result.Fixtures),
	})
}

func (h *Handler) StartTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartTournament", attribute.String("tournament.id", tournamentID))
	defer span.End()

	fixtures, err := h.tournamentService.StartTournament(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "start tournament failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(fixtures))
}

func (h *Handler) ListTournamentMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournamentMatches")
	defer span.End()

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	items, err := h.tournamentService.ListTournamentMatches(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list tournament matches failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(items))
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	rows, err := h.standingService.GetStandings(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
