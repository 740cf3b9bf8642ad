package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
	"github.com/riskibarqy/cricket-league/internal/usecase"
)

// LiveFeed upgrades a request into a websocket subscription for one match.
type LiveFeed interface {
	ServeMatch(w http.ResponseWriter, r *http.Request, matchID string, snapshot any) error
}

type Handler struct {
	matchService       *usecase.MatchService
	scoringService     *usecase.ScoringService
	tournamentService  *usecase.TournamentService
	standingService    *usecase.StandingService
	playerStatsService *usecase.PlayerStatsService
	replayService      *usecase.ReplayService
	liveFeed           LiveFeed
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	scoringService *usecase.ScoringService,
	tournamentService *usecase.TournamentService,
	standingService *usecase.StandingService,
	playerStatsService *usecase.PlayerStatsService,
	replayService *usecase.ReplayService,
	liveFeed LiveFeed,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:       matchService,
		scoringService:     scoringService,
		tournamentService:  tournamentService,
		standingService:    standingService,
		playerStatsService: playerStatsService,
		replayService:      replayService,
		liveFeed:           liveFeed,
		logger:             logger.Named("httpapi"),
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
