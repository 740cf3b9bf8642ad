package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/fixture"
	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/team"
	"github.com/riskibarqy/cricket-league/internal/domain/tournament"
	idgen "github.com/riskibarqy/cricket-league/internal/platform/id"
	"github.com/riskibarqy/cricket-league/internal/platform/lock"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type CreateTournamentInput struct {
	Name       string
	Format     string
	OversLimit int
	MinTeams   int
	MaxTeams   int
}

// RegisterTeamResult tells the caller whether the registration filled the
// field and started the tournament.
type RegisterTeamResult struct {
	Registration tournament.Registration
	Started      bool
	Fixtures     []match.Match
}

type TournamentService struct {
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	matchRepo      match.Repository
	shuffler       fixture.Shuffler
	locks          *lock.Keyed
	idGen          idgen.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewTournamentService(
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	shuffler fixture.Shuffler,
	locks *lock.Keyed,
	idGen idgen.Generator,
	logger *logging.Logger,
) *TournamentService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = lock.NewKeyed()
	}
	if shuffler == nil {
		shuffler = fixture.NewRandShuffler(uint64(time.Now().UnixNano()))
	}

	return &TournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		shuffler:       shuffler,
		locks:          locks,
		idGen:          idGen,
		logger:         logger.Named("tournament"),
		now:            time.Now,
	}
}

func tournamentLockKey(tournamentID string) string {
	return "tournament:" + tournamentID
}

func (s *TournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (t tournament.Tournament, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.CreateTournament")
	defer endUsecaseSpan(span, &err)

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament name is required", ErrInvalidInput)
	}
	format, err := tournament.ParseFormat(input.Format)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if input.OversLimit == 0 {
		input.OversLimit = defaultOversLimit
	}
	if input.MinTeams == 0 {
		input.MinTeams = tournament.MinimumTeams
	}

	tournamentID, err := s.idGen.NewID()
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("generate tournament id: %w", err)
	}
	now := s.now().UTC()
	t = tournament.Tournament{
		ID:         tournamentID,
		Name:       input.Name,
		Format:     format,
		OversLimit: input.OversLimit,
		MinTeams:   input.MinTeams,
		MaxTeams:   input.MaxTeams,
		Status:     tournament.StatusRegistrationOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := t.Validate(); err != nil {
		return tournament.Tournament{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return tournament.Tournament{}, unavailable("create tournament", err)
	}

	s.logger.InfoContext(ctx, "tournament created", "tournament_id", t.ID, "format", string(t.Format), "max_teams", t.MaxTeams)
	return t, nil
}

func (s *TournamentService) getTournament(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	t, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, unavailable("get tournament", err)
	}
	if !exists {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	return t, nil
}

// RegisterTeam enters a team. The registration that fills the last slot
// also draws the fixtures.
func (s *TournamentService) RegisterTeam(ctx context.Context, tournamentID, teamID string) (result RegisterTeamResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.RegisterTeam",
		attribute.String("tournament.id", tournamentID),
		attribute.String("team.id", teamID),
	)
	defer endUsecaseSpan(span, &err)

	tournamentID = strings.TrimSpace(tournamentID)
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return RegisterTeamResult{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	unlock := s.locks.Lock(tournamentLockKey(tournamentID))
	defer unlock()

	t, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return RegisterTeamResult{}, err
	}

	_, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return RegisterTeamResult{}, unavailable("get team", err)
	}
	if !exists {
		return RegisterTeamResult{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	regs, err := s.tournamentRepo.ListRegistrations(ctx, t.ID)
	if err != nil {
		return RegisterTeamResult{}, unavailable("list registrations", err)
	}
	for _, reg := range regs {
		if reg.TeamID == teamID {
			return RegisterTeamResult{}, fmt.Errorf("%w: team %s already registered", ErrConflict, teamID)
		}
	}
	if err := t.CanRegister(len(regs)); err != nil {
		return RegisterTeamResult{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	reg := tournament.Registration{TournamentID: t.ID, TeamID: teamID, Seed: len(regs) + 1, RegisteredAt: s.now().UTC()}
	if err := s.tournamentRepo.Register(ctx, reg); err != nil {
		return RegisterTeamResult{}, unavailable("register team", err)
	}
	regs = append(regs, reg)
	result.Registration = reg

	s.logger.InfoContext(ctx, "team registered", "tournament_id", t.ID, "team_id", teamID, "registered", len(regs), "max_teams", t.MaxTeams)

	if len(regs) < t.MaxTeams {
		return result, nil
	}

	fixtures, err := s.start(ctx, t, regs)
	if err != nil {
		return RegisterTeamResult{}, fmt.Errorf("auto start tournament: %w", err)
	}
	result.Started = true
	result.Fixtures = fixtures
	return result, nil
}

// StartTournament closes registration and draws the fixtures.
func (s *TournamentService) StartTournament(ctx context.Context, tournamentID string) (fixtures []match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.StartTournament", attribute.String("tournament.id", tournamentID))
	defer endUsecaseSpan(span, &err)

	tournamentID = strings.TrimSpace(tournamentID)
	unlock := s.locks.Lock(tournamentLockKey(tournamentID))
	defer unlock()

	t, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	regs, err := s.tournamentRepo.ListRegistrations(ctx, t.ID)
	if err != nil {
		return nil, unavailable("list registrations", err)
	}
	return s.start(ctx, t, regs)
}

// start must be called with the tournament lock held.
func (s *TournamentService) start(ctx context.Context, t tournament.Tournament, regs []tournament.Registration) ([]match.Match, error) {
	if err := t.CanStart(len(regs)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	teamIDs := tournament.SeededTeamIDs(regs)

	fixtures, err := fixture.Generate(fixture.Request{
		TournamentID: t.ID,
		Format:       t.Format,
		OversLimit:   t.OversLimit,
		TeamIDs:      teamIDs,
	}, s.shuffler)
	switch {
	case errors.Is(err, tournament.ErrNotEnoughTeams):
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now().UTC()
	for i := range fixtures {
		fixtures[i].ID, err = s.idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate fixture id: %w", err)
		}
		fixtures[i].CreatedAt = now
		fixtures[i].UpdatedAt = now
	}

	if err := s.tournamentRepo.Start(ctx, t.ID, fixtures, now); err != nil {
		return nil, unavailable("start tournament", err)
	}

	s.logger.InfoContext(ctx, "tournament started", "tournament_id", t.ID, "format", string(t.Format), "teams", len(teamIDs), "fixtures", len(fixtures))
	return fixtures, nil
}

// ListTournamentMatches returns the fixtures in draw order.
func (s *TournamentService) ListTournamentMatches(ctx context.Context, tournamentID string) ([]match.Match, error) {
	t, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	items, err := s.matchRepo.ListByTournament(ctx, t.ID)
	if err != nil {
		return nil, unavailable("list tournament matches", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Sequence < items[j].Sequence })
	return items, nil
}
