package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/ballevent"
	"github.com/riskibarqy/cricket-league/internal/domain/innings"
	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/player"
	"github.com/riskibarqy/cricket-league/internal/domain/playerstat"
	"github.com/riskibarqy/cricket-league/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-league/internal/domain/scoring"
	idgen "github.com/riskibarqy/cricket-league/internal/platform/id"
	"github.com/riskibarqy/cricket-league/internal/platform/lock"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

// RecordBallInput is one delivery as submitted by the scorer.
type RecordBallInput struct {
	MatchID      string
	Inning       int
	Over         int
	Ball         int
	BatsmanID    string
	NonStrikerID string
	BowlerID     string
	Code         string
	Runs         int
	Commentary   string
}

// RecordBallResult acknowledges a stored delivery with the state it produced.
type RecordBallResult struct {
	Event       ballevent.Event
	Innings     innings.Innings
	Scorecard   scorecard.Scorecard
	MatchStatus match.Status
}

// ScoreUpdate is pushed to live subscribers after a delivery is stored.
type ScoreUpdate struct {
	MatchID   string              `json:"match_id"`
	Status    match.Status        `json:"status"`
	Event     ballevent.Event     `json:"event"`
	Innings   innings.Innings     `json:"innings"`
	Scorecard scorecard.Scorecard `json:"scorecard"`
}

// ScorePublisher fans score updates out to live viewers. Publishing is best
// effort and must not block scoring.
type ScorePublisher interface {
	Publish(ctx context.Context, update ScoreUpdate)
}

// MatchScoring is the full scoring view of one match.
type MatchScoring struct {
	Match   match.Match
	Innings []InningsScoring
}

type InningsScoring struct {
	Innings innings.Innings
	Events  []ballevent.Event
}

type ScoringService struct {
	matchRepo   match.Repository
	inningsRepo innings.Repository
	ballRepo    ballevent.Repository
	statRepo    playerstat.Repository
	playerRepo  player.Repository
	ledger      scoring.Repository
	locks       *lock.Keyed
	idGen       idgen.Generator
	publisher   ScorePublisher
	logger      *logging.Logger
	now         func() time.Time
}

func NewScoringService(
	matchRepo match.Repository,
	inningsRepo innings.Repository,
	ballRepo ballevent.Repository,
	statRepo playerstat.Repository,
	playerRepo player.Repository,
	ledger scoring.Repository,
	locks *lock.Keyed,
	idGen idgen.Generator,
	publisher ScorePublisher,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = lock.NewKeyed()
	}

	return &ScoringService{
		matchRepo:   matchRepo,
		inningsRepo: inningsRepo,
		ballRepo:    ballRepo,
		statRepo:    statRepo,
		playerRepo:  playerRepo,
		ledger:      ledger,
		locks:       locks,
		idGen:       idGen,
		publisher:   publisher,
		logger:      logger.Named("scoring"),
		now:         time.Now,
	}
}

func matchLockKey(matchID string) string {
	return "match:" + matchID
}

// RecordBallEvent validates and stores one delivery, folding it into the
// innings, the players' stats and the match scorecard in a single write.
func (s *ScoringService) RecordBallEvent(ctx context.Context, input RecordBallInput) (result RecordBallResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecordBallEvent",
		attribute.String("match.id", input.MatchID),
		attribute.Int("innings.number", input.Inning),
	)
	defer endUsecaseSpan(span, &err)

	input.MatchID = strings.TrimSpace(input.MatchID)
	if input.MatchID == "" {
		return RecordBallResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	unlock := s.locks.Lock(matchLockKey(input.MatchID))
	defer unlock()

	m, exists, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return RecordBallResult{}, unavailable("get match", err)
	}
	if !exists {
		return RecordBallResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	}
	if !m.IsLive() {
		return RecordBallResult{}, fmt.Errorf("%w: match %s is %s, not LIVE", ErrInvalidState, m.ID, m.Status)
	}

	// Existence and status outrank payload errors.
	ev, err := ballevent.Event{
		MatchID:      input.MatchID,
		Inning:       input.Inning,
		Over:         input.Over,
		Ball:         input.Ball,
		BatsmanID:    input.BatsmanID,
		NonStrikerID: input.NonStrikerID,
		BowlerID:     input.BowlerID,
		Code:         ballevent.Code(input.Code),
		Runs:         input.Runs,
		Commentary:   input.Commentary,
	}.Normalize()
	if err != nil {
		return RecordBallResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	played, err := s.inningsRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return RecordBallResult{}, unavailable("list innings", err)
	}
	current, err := openInnings(m, played, ev.Inning)
	if err != nil {
		return RecordBallResult{}, err
	}

	if err := s.checkRoster(ctx, current, ev); err != nil {
		return RecordBallResult{}, err
	}

	now := s.now().UTC()
	ev.ID, err = s.idGen.NewID()
	if err != nil {
		return RecordBallResult{}, fmt.Errorf("generate ball event id: %w", err)
	}
	ev.Sequence = lastSequence(played) + 1
	ev.CreatedAt = now

	next, err := innings.Apply(current, ev)
	switch {
	case errors.Is(err, innings.ErrInningsComplete):
		return RecordBallResult{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	case err != nil:
		return RecordBallResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	next.UpdatedAt = now
	if next.Finished(m.OversLimit, target(played, next.Number)) {
		next.State = innings.StateComplete
	}

	participants := playerstat.Participants(ev)
	stats, err := s.statRepo.ListByPlayerIDs(ctx, participants)
	if err != nil {
		return RecordBallResult{}, unavailable("list player stats", err)
	}
	apps, err := s.statRepo.ListAppearances(ctx, m.ID, participants)
	if err != nil {
		return RecordBallResult{}, unavailable("list player appearances", err)
	}
	ledger := playerstat.NewLedger(m.ID, now, stats, apps)
	ledger.Apply(ev)
	changedStats, changedApps := ledger.Changes()

	events, err := s.ballRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return RecordBallResult{}, unavailable("list ball events", err)
	}
	card, err := scorecard.Compile(scorecard.Input{
		MatchID:    m.ID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		Innings:    replaceInnings(played, next),
		Events:     append(events, ev),
		Now:        now,
	})
	if err != nil {
		return RecordBallResult{}, fmt.Errorf("compile scorecard: %w", err)
	}

	m.Scorecard = &card
	m.UpdatedAt = now
	if card.Decided {
		m.Status = match.StatusCompleted
		m.WinnerTeamID = card.WinnerTeamID
	}

	write := scoring.BallWrite{
		Event:       ev,
		Innings:     next,
		Stats:       changedStats,
		Appearances: changedApps,
		Match:       m,
	}
	if err := s.ledger.AppendBall(ctx, write); err != nil {
		return RecordBallResult{}, unavailable("append ball", err)
	}

	s.logger.InfoContext(ctx, "ball recorded",
		"match_id", m.ID,
		"inning", ev.Inning,
		"sequence", ev.Sequence,
		"code", string(ev.Code),
		"score", card.Innings[len(card.Innings)-1].Score,
		"overs", next.OversNotation(),
	)
	if next.IsComplete() {
		s.logger.InfoContext(ctx, "innings closed", "match_id", m.ID, "inning", next.Number, "runs", next.Runs, "wickets", next.Wickets)
	}
	if m.IsCompleted() {
		s.logger.InfoContext(ctx, "match completed", "match_id", m.ID, "result", card.Result)
	}

	if s.publisher != nil {
		s.publisher.Publish(ctx, ScoreUpdate{
			MatchID:   m.ID,
			Status:    m.Status,
			Event:     ev,
			Innings:   next,
			Scorecard: card,
		})
	}

	return RecordBallResult{
		Event:       ev,
		Innings:     next,
		Scorecard:   card,
		MatchStatus: m.Status,
	}, nil
}

// openInnings returns the innings the delivery belongs to, creating it when
// the first ball is bowled. The second innings needs the first to be over.
func openInnings(m match.Match, played []innings.Innings, number int) (innings.Innings, error) {
	var first *innings.Innings
	for i := range played {
		if played[i].Number == number {
			if played[i].IsComplete() {
				return innings.Innings{}, fmt.Errorf("%w: innings %d is complete", ErrInvalidState, number)
			}
			return played[i], nil
		}
		if played[i].Number == 1 {
			first = &played[i]
		}
	}

	if number == 2 && (first == nil || !first.IsComplete()) {
		return innings.Innings{}, fmt.Errorf("%w: first innings is still in progress", ErrInvalidState)
	}
	batting, bowling := m.Sides(number)
	return innings.New(m.ID, number, batting, bowling), nil
}

// checkRoster makes sure the batsmen belong to the batting side and the
// bowler to the fielding side.
func (s *ScoringService) checkRoster(ctx context.Context, inn innings.Innings, ev ballevent.Event) error {
	ids := playerstat.Participants(ev)
	players, err := s.playerRepo.ListByIDs(ctx, ids)
	if err != nil {
		return unavailable("list players", err)
	}
	teamOf := make(map[string]string, len(players))
	for _, p := range players {
		teamOf[p.ID] = p.TeamID
	}

	type slot struct{ playerID, teamID string }
	want := []slot{{ev.BatsmanID, inn.BattingTeamID}, {ev.BowlerID, inn.BowlingTeamID}}
	if ev.NonStrikerID != "" {
		want = append(want, slot{ev.NonStrikerID, inn.BattingTeamID})
	}
	for _, w := range want {
		if _, ok := teamOf[w.playerID]; !ok {
			return fmt.Errorf("%w: player=%s", ErrNotFound, w.playerID)
		}
	}
	for _, w := range want {
		if got := teamOf[w.playerID]; got != w.teamID {
			return fmt.Errorf("%w: player %s plays for %s, expected %s", ErrInvalidInput, w.playerID, got, w.teamID)
		}
	}
	return nil
}

func lastSequence(played []innings.Innings) int {
	last := 0
	for _, inn := range played {
		if inn.LastSequence > last {
			last = inn.LastSequence
		}
	}
	return last
}

// target is the run total that ends a chase; zero for the first innings.
func target(played []innings.Innings, number int) int {
	if number != 2 {
		return 0
	}
	for _, inn := range played {
		if inn.Number == 1 {
			return inn.Runs + 1
		}
	}
	return 0
}

func replaceInnings(played []innings.Innings, next innings.Innings) []innings.Innings {
	out := make([]innings.Innings, 0, len(played)+1)
	replaced := false
	for _, inn := range played {
		if inn.Number == next.Number {
			out = append(out, next)
			replaced = true
			continue
		}
		out = append(out, inn)
	}
	if !replaced {
		out = append(out, next)
	}
	return out
}

// GetMatchScoring loads the match with every innings and its ball log.
func (s *ScoringService) GetMatchScoring(ctx context.Context, matchID string) (view MatchScoring, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GetMatchScoring", attribute.String("match.id", matchID))
	defer endUsecaseSpan(span, &err)

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchScoring{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchScoring{}, unavailable("get match", err)
	}
	if !exists {
		return MatchScoring{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	var (
		played []innings.Innings
		events []ballevent.Event
	)
	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var loadErr error
		played, loadErr = s.inningsRepo.ListByMatch(ctx, matchID)
		return loadErr
	})
	p.Go(func(ctx context.Context) error {
		var loadErr error
		events, loadErr = s.ballRepo.ListByMatch(ctx, matchID)
		return loadErr
	})
	if err := p.Wait(); err != nil {
		return MatchScoring{}, unavailable("load match scoring", err)
	}

	sort.Slice(played, func(i, j int) bool { return played[i].Number < played[j].Number })
	byInnings := make(map[int][]ballevent.Event, len(played))
	for _, ev := range events {
		byInnings[ev.Inning] = append(byInnings[ev.Inning], ev)
	}

	view = MatchScoring{Match: m, Innings: make([]InningsScoring, 0, len(played))}
	for _, inn := range played {
		evs := byInnings[inn.Number]
		sort.Slice(evs, func(i, j int) bool { return evs[i].Sequence < evs[j].Sequence })
		view.Innings = append(view.Innings, InningsScoring{Innings: inn, Events: evs})
	}
	return view, nil
}
