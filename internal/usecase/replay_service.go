package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/cricket-league/internal/domain/ballevent"
	"github.com/riskibarqy/cricket-league/internal/domain/innings"
	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-league/internal/domain/scoring"
	"github.com/riskibarqy/cricket-league/internal/domain/tournament"
	"github.com/riskibarqy/cricket-league/internal/platform/lock"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
)

const (
	defaultReplayWorkers = 4
	maxReplayWorkers     = 32

	replayStatusSuccess = "success"
	replayStatusFailed  = "failed"
	replayStatusSkipped = "skipped"
)

// ReplayMatchResult reports one match rebuilt from its ball log.
type ReplayMatchResult struct {
	MatchID    string `json:"match_id"`
	Status     string `json:"status"`
	Events     int    `json:"events"`
	Result     string `json:"result,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

type ReplayTournamentResult struct {
	TournamentID string              `json:"tournament_id"`
	WorkerCount  int                 `json:"worker_count"`
	SuccessCount int                 `json:"success_count"`
	FailedCount  int                 `json:"failed_count"`
	SkippedCount int                 `json:"skipped_count"`
	Matches      []ReplayMatchResult `json:"matches"`
}

// ReplayService rebuilds innings and scorecards from stored ball events.
// Career stats are not touched; they are only ever incremented live.
type ReplayService struct {
	matchRepo      match.Repository
	tournamentRepo tournament.Repository
	inningsRepo    innings.Repository
	ballRepo       ballevent.Repository
	ledger         scoring.Repository
	locks          *lock.Keyed
	workers        int
	logger         *logging.Logger
	now            func() time.Time
}

func NewReplayService(
	matchRepo match.Repository,
	tournamentRepo tournament.Repository,
	inningsRepo innings.Repository,
	ballRepo ballevent.Repository,
	ledger scoring.Repository,
	locks *lock.Keyed,
	workers int,
	logger *logging.Logger,
) *ReplayService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = lock.NewKeyed()
	}

	return &ReplayService{
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		inningsRepo:    inningsRepo,
		ballRepo:       ballRepo,
		ledger:         ledger,
		locks:          locks,
		workers:        normalizeReplayWorkers(workers),
		logger:         logger.Named("replay"),
		now:            time.Now,
	}
}

func normalizeReplayWorkers(n int) int {
	switch {
	case n <= 0:
		return defaultReplayWorkers
	case n > maxReplayWorkers:
		return maxReplayWorkers
	default:
		return n
	}
}

func (s *ReplayService) ReplayMatch(ctx context.Context, matchID string) (result ReplayMatchResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReplayService.ReplayMatch")
	defer endUsecaseSpan(span, &err)

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return ReplayMatchResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	return s.replayMatch(ctx, matchID)
}

func (s *ReplayService) replayMatch(ctx context.Context, matchID string) (ReplayMatchResult, error) {
	start := s.now()
	result := ReplayMatchResult{MatchID: matchID}

	unlock := s.locks.Lock(matchLockKey(matchID))
	defer unlock()

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return ReplayMatchResult{}, unavailable("get match", err)
	}
	if !exists {
		return ReplayMatchResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	played, err := s.inningsRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return ReplayMatchResult{}, unavailable("list innings", err)
	}
	events, err := s.ballRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return ReplayMatchResult{}, unavailable("list ball events", err)
	}
	result.Events = len(events)
	if len(played) == 0 {
		result.Status = replayStatusSkipped
		result.Message = "no innings recorded"
		result.DurationMs = s.now().Sub(start).Milliseconds()
		return result, nil
	}

	sort.Slice(played, func(i, j int) bool { return played[i].Number < played[j].Number })
	sort.SliceStable(events, func(i, j int) bool { return events[i].Sequence < events[j].Sequence })
	byInnings := make(map[int][]ballevent.Event, len(played))
	for _, ev := range events {
		byInnings[ev.Inning] = append(byInnings[ev.Inning], ev)
	}

	now := s.now().UTC()
	rebuilt := make([]innings.Innings, 0, len(played))
	for _, base := range played {
		inn, err := innings.Replay(base, byInnings[base.Number])
		if err != nil {
			return ReplayMatchResult{}, fmt.Errorf("replay innings %d: %w", base.Number, err)
		}
		if inn.Finished(m.OversLimit, target(rebuilt, inn.Number)) {
			inn.State = innings.StateComplete
		}
		inn.UpdatedAt = now
		rebuilt = append(rebuilt, inn)
	}

	card, err := scorecard.Compile(scorecard.Input{
		MatchID:    m.ID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		Innings:    rebuilt,
		Events:     events,
		Now:        now,
	})
	if err != nil {
		return ReplayMatchResult{}, fmt.Errorf("compile scorecard: %w", err)
	}
	m.Scorecard = &card
	m.UpdatedAt = now
	if card.Decided && m.IsCompleted() {
		m.WinnerTeamID = card.WinnerTeamID
	}

	if err := s.ledger.SaveRebuild(ctx, scoring.Rebuild{Match: m, Innings: rebuilt}); err != nil {
		return ReplayMatchResult{}, unavailable("save rebuild", err)
	}

	result.Status = replayStatusSuccess
	result.Result = card.Result
	result.DurationMs = s.now().Sub(start).Milliseconds()
	s.logger.InfoContext(ctx, "match replayed", "match_id", m.ID, "events", len(events), "result", card.Result)
	return result, nil
}

// ReplayTournament rebuilds every match of a tournament on a worker pool.
// A failing match does not stop the others.
func (s *ReplayService) ReplayTournament(ctx context.Context, tournamentID string, workers int) (result ReplayTournamentResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReplayService.ReplayTournament")
	defer endUsecaseSpan(span, &err)

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return ReplayTournamentResult{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	_, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return ReplayTournamentResult{}, unavailable("get tournament", err)
	}
	if !exists {
		return ReplayTournamentResult{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return ReplayTournamentResult{}, unavailable("list tournament matches", err)
	}

	workerCount := s.workers
	if workers > 0 {
		workerCount = normalizeReplayWorkers(workers)
	}
	result = ReplayTournamentResult{
		TournamentID: tournamentID,
		WorkerCount:  workerCount,
		Matches:      make([]ReplayMatchResult, 0, len(matches)),
	}
	if len(matches) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ReplayTournamentResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	rows := make(chan ReplayMatchResult, len(matches))
	var successCount, failedCount, skippedCount atomic.Int32
	var workersWG sync.WaitGroup
	for _, m := range matches {
		matchID := m.ID
		workersWG.Add(1)
		if err := pool.Submit(func() {
			defer workersWG.Done()

			row, replayErr := s.replayMatch(ctx, matchID)
			if replayErr != nil {
				row = ReplayMatchResult{MatchID: matchID, Status: replayStatusFailed, Message: replayErr.Error()}
				s.logger.WarnContext(ctx, "match replay failed", "match_id", matchID, "error", replayErr)
			}
			switch row.Status {
			case replayStatusSuccess:
				successCount.Add(1)
			case replayStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}
			rows <- row
		}); err != nil {
			workersWG.Done()
			return ReplayTournamentResult{}, fmt.Errorf("submit replay task: %w", err)
		}
	}

	workersWG.Wait()
	close(rows)
	for row := range rows {
		result.Matches = append(result.Matches, row)
	}
	sort.SliceStable(result.Matches, func(i, j int) bool { return result.Matches[i].MatchID < result.Matches[j].MatchID })

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	s.logger.InfoContext(ctx, "tournament replayed",
		"tournament_id", tournamentID,
		"matches", len(matches),
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}
