package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/team"
	idgen "github.com/riskibarqy/cricket-league/internal/platform/id"
	"github.com/riskibarqy/cricket-league/internal/platform/lock"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const defaultOversLimit = 20

// CreateMatchInput schedules a standalone match.
type CreateMatchInput struct {
	HomeTeamID  string
	AwayTeamID  string
	Venue       string
	OversLimit  int
	EntryFee    int64
	ScheduledAt *time.Time
}

type MatchService struct {
	matchRepo match.Repository
	teamRepo  team.Repository
	locks     *lock.Keyed
	idGen     idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewMatchService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	locks *lock.Keyed,
	idGen idgen.Generator,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = lock.NewKeyed()
	}

	return &MatchService{
		matchRepo: matchRepo,
		teamRepo:  teamRepo,
		locks:     locks,
		idGen:     idGen,
		logger:    logger.Named("match"),
		now:       time.Now,
	}
}

func (s *MatchService) CreateMatch(ctx context.Context, input CreateMatchInput) (m match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.CreateMatch")
	defer endUsecaseSpan(span, &err)

	input.HomeTeamID = strings.TrimSpace(input.HomeTeamID)
	input.AwayTeamID = strings.TrimSpace(input.AwayTeamID)
	input.Venue = strings.TrimSpace(input.Venue)
	if input.HomeTeamID == "" || input.AwayTeamID == "" {
		return match.Match{}, fmt.Errorf("%w: home and away team ids are required", ErrInvalidInput)
	}
	if input.HomeTeamID == input.AwayTeamID {
		return match.Match{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}
	if input.OversLimit == 0 {
		input.OversLimit = defaultOversLimit
	}

	for _, teamID := range []string{input.HomeTeamID, input.AwayTeamID} {
		_, exists, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return match.Match{}, unavailable("get team", err)
		}
		if !exists {
			return match.Match{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
		}
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	now := s.now().UTC()
	m = match.Match{
		ID:          matchID,
		HomeTeamID:  input.HomeTeamID,
		AwayTeamID:  input.AwayTeamID,
		Venue:       input.Venue,
		OversLimit:  input.OversLimit,
		Status:      match.StatusScheduled,
		EntryFee:    input.EntryFee,
		ScheduledAt: input.ScheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.matchRepo.Create(ctx, m); err != nil {
		return match.Match{}, unavailable("create match", err)
	}

	s.logger.InfoContext(ctx, "match created", "match_id", m.ID, "home_team_id", m.HomeTeamID, "away_team_id", m.AwayTeamID)
	return m, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, unavailable("get match", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return m, nil
}

// UpdateMatchStatus moves a match along its lifecycle. It shares the match
// lock with ball scoring so a status change never interleaves a delivery.
func (s *MatchService) UpdateMatchStatus(ctx context.Context, matchID, status string) (m match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateMatchStatus",
		attribute.String("match.id", matchID),
		attribute.String("match.status", status),
	)
	defer endUsecaseSpan(span, &err)

	next, ok := match.ParseStatus(status)
	if !ok {
		return match.Match{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	matchID = strings.TrimSpace(matchID)
	unlock := s.locks.Lock(matchLockKey(matchID))
	defer unlock()

	m, err = s.GetMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if !match.CanTransition(m.Status, next) {
		return match.Match{}, fmt.Errorf("%w: %s -> %s", ErrInvalidState, m.Status, next)
	}

	err = s.matchRepo.UpdateStatus(ctx, m.ID, m.Status, next)
	switch {
	case errors.Is(err, match.ErrStaleStatus):
		return match.Match{}, fmt.Errorf("%w: match %s changed status concurrently", ErrConflict, m.ID)
	case err != nil:
		return match.Match{}, unavailable("update match status", err)
	}

	s.logger.InfoContext(ctx, "match status changed", "match_id", m.ID, "from", string(m.Status), "to", string(next))
	m.Status = next
	m.UpdatedAt = s.now().UTC()
	return m, nil
}
