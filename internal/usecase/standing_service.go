package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/standing"
	"github.com/riskibarqy/cricket-league/internal/domain/tournament"
)

type StandingService struct {
	tournamentRepo tournament.Repository
	matchRepo      match.Repository
}

func NewStandingService(tournamentRepo tournament.Repository, matchRepo match.Repository) *StandingService {
	return &StandingService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
	}
}

// GetStandings computes the table from completed matches. Knockout
// tournaments have no table and return an empty list.
func (s *StandingService) GetStandings(ctx context.Context, tournamentID string) (rows []standing.Standing, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.GetStandings")
	defer endUsecaseSpan(span, &err)

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	t, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, unavailable("get tournament", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	if !t.Format.HasStandings() {
		return []standing.Standing{}, nil
	}

	regs, err := s.tournamentRepo.ListRegistrations(ctx, t.ID)
	if err != nil {
		return nil, unavailable("list registrations", err)
	}
	teamIDs := tournament.SeededTeamIDs(regs)

	matches, err := s.matchRepo.ListByTournament(ctx, t.ID)
	if err != nil {
		return nil, unavailable("list tournament matches", err)
	}

	return standing.Calculate(t.ID, teamIDs, completedResults(matches)), nil
}

func completedResults(matches []match.Match) []standing.Result {
	out := make([]standing.Result, 0, len(matches))
	for _, m := range matches {
		if !m.IsCompleted() {
			continue
		}
		r := standing.Result{
			MatchID:      m.ID,
			HomeTeamID:   m.HomeTeamID,
			AwayTeamID:   m.AwayTeamID,
			WinnerTeamID: m.WinnerTeamID,
		}
		if m.Scorecard != nil {
			r.HomeRuns = m.Scorecard.RunsFor(m.HomeTeamID)
			r.AwayRuns = m.Scorecard.RunsFor(m.AwayTeamID)
		}
		out = append(out, r)
	}
	return out
}
