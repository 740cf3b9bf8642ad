package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/cricket-league/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
)

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.CreateMatch(ctx, usecase.CreateMatchInput{
		HomeTeamID:  req.HomeTeamID,
		AwayTeamID:  req.AwayTeamID,
		Venue:       req.Venue,
		OversLimit:  req.OversLimit,
		EntryFee:    req.EntryFee,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "home_team_id", req.HomeTeamID, "away_team_id", req.AwayTeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(item))
}

func (h *Handler) UpdateMatchStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatchStatus")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	var req updateMatchStatusRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.UpdateMatchStatus(ctx, matchID, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "update match status failed", "match_id", matchID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) RecordBallEvent(w http.ResponseWriter, r *http.Request) {
	matchID := strings.TrimSpace(r.PathValue("matchID"))
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordBallEvent", attribute.String("match.id", matchID))
	defer span.End()

	var req recordBallRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scoringService.RecordBallEvent(ctx, usecase.RecordBallInput{
		MatchID:      matchID,
		Inning:       int(req.Inning),
		Over:         req.Over,
		Ball:         req.Ball,
		BatsmanID:    req.BatsmanID,
		NonStrikerID: req.NonStrikerID,
		BowlerID:     req.BowlerID,
		Code:         req.Code,
		Runs:         req.Runs,
		Commentary:   req.Commentary,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record ball event failed",
			"match_id", matchID,
			"inning", int(req.Inning),
			"over", req.Over,
			"ball", req.Ball,
			"code", req.Code,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, recordBallResultDTO{
		Event:       ballEventToDTO(result.Event),
		Innings:     inningsToDTO(result.Innings),
		Scorecard:   result.Scorecard,
		MatchStatus: string(result.MatchStatus),
	})
}

func (h *Handler) GetMatchScoring(w http.ResponseWriter, r *http.Request) {
	matchID := strings.TrimSpace(r.PathValue("matchID"))
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchScoring", attribute.String("match.id", matchID))
	defer span.End()

	view, err := h.scoringService.GetMatchScoring(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match scoring failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	innings := make([]inningsScoringDTO, 0, len(view.Innings))
	for _, item := range view.Innings {
		events := make([]ballEventDTO, 0, len(item.Events))
		for _, ev := range item.Events {
			events = append(events, ballEventToDTO(ev))
		}
		innings = append(innings, inningsScoringDTO{
			Innings: inningsToDTO(item.Innings),
			Events:  events,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, matchScoringDTO{
		Match:   matchToDTO(view.Match),
		Innings: innings,
	})
}

func (h *Handler) StreamMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamMatch")
	defer span.End()

	if h.liveFeed == nil {
		writeError(ctx, w, fmt.Errorf("%w: live feed is not enabled", usecase.ErrDependencyUnavailable))
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	// The upgrader writes its own HTTP error when the handshake fails.
	if err := h.liveFeed.ServeMatch(w, r, item.ID, matchToDTO(item)); err != nil {
		h.logger.WarnContext(ctx, "live feed subscribe failed", "match_id", item.ID, "error", err)
	}
}
