package scorecard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/ballevent"
	"github.com/riskibarqy/cricket-league/internal/domain/innings"
)

const (
	ResultInProgress = "In progress"
	ResultTied       = "Match tied"
)

// InningsSummary is the display form of one innings.
type InningsSummary struct {
	Number        int     `json:"number"`
	BattingTeamID string  `json:"batting_team_id"`
	BowlingTeamID string  `json:"bowling_team_id"`
	Runs          int     `json:"runs"`
	Wickets       int     `json:"wickets"`
	Extras        int     `json:"extras"`
	Overs         string  `json:"overs"`
	LegalBalls    int     `json:"legal_balls"`
	RunRate       float64 `json:"run_rate"`
	Score         string  `json:"score"`
	Complete      bool    `json:"complete"`
}

// Scorecard is the compiled match summary, cached on the match.
type Scorecard struct {
	MatchID      string           `json:"match_id"`
	Innings      []InningsSummary `json:"innings"`
	TotalRuns    int              `json:"total_runs"`
	TotalWickets int              `json:"total_wickets"`
	TotalExtras  int              `json:"total_extras"`
	Result       string           `json:"result"`
	WinnerTeamID string           `json:"winner_team_id,omitempty"`
	Decided      bool             `json:"decided"`
	CompiledAt   time.Time        `json:"compiled_at"`
}

// RunsFor returns the runs a team made across its innings.
func (s Scorecard) RunsFor(teamID string) int {
	total := 0
	for _, inn := range s.Innings {
		if inn.BattingTeamID == teamID {
			total += inn.Runs
		}
	}
	return total
}

// Input carries everything the compiler needs. Innings supply sides and
// completion state; totals come from folding the events again.
type Input struct {
	MatchID    string
	HomeTeamID string
	AwayTeamID string
	Innings    []innings.Innings
	Events     []ballevent.Event
	Now        time.Time
}

// Compile derives the scorecard from the ball log.
func Compile(in Input) (Scorecard, error) {
	byInnings := make(map[int][]ballevent.Event, 2)
	for _, ev := range in.Events {
		byInnings[ev.Inning] = append(byInnings[ev.Inning], ev)
	}

	ordered := append([]innings.Innings(nil), in.Innings...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	card := Scorecard{
		MatchID:    in.MatchID,
		Innings:    make([]InningsSummary, 0, len(ordered)),
		Result:     ResultInProgress,
		CompiledAt: in.Now,
	}

	folded := make([]innings.Innings, 0, len(ordered))
	for _, base := range ordered {
		events := byInnings[base.Number]
		sort.SliceStable(events, func(i, j int) bool { return events[i].Sequence < events[j].Sequence })

		inn, err := innings.Replay(base, events)
		if err != nil {
			return Scorecard{}, fmt.Errorf("compile innings %d: %w", base.Number, err)
		}
		folded = append(folded, inn)

		card.Innings = append(card.Innings, summarize(inn))
		card.TotalRuns += inn.Runs
		card.TotalWickets += inn.Wickets
		card.TotalExtras += inn.Extras
	}

	card.Result, card.WinnerTeamID, card.Decided = decide(folded)
	return card, nil
}

func summarize(inn innings.Innings) InningsSummary {
	return InningsSummary{
		Number:        inn.Number,
		BattingTeamID: inn.BattingTeamID,
		BowlingTeamID: inn.BowlingTeamID,
		Runs:          inn.Runs,
		Wickets:       inn.Wickets,
		Extras:        inn.Extras,
		Overs:         inn.OversNotation(),
		LegalBalls:    inn.LegalBalls,
		RunRate:       RunRate(inn.Runs, inn.LegalBalls),
		Score:         Score(inn.Runs, inn.Wickets),
		Complete:      inn.IsComplete(),
	}
}

// RunRate is runs per six legal balls, rounded to two places.
func RunRate(runs, legalBalls int) float64 {
	if legalBalls <= 0 {
		return 0
	}
	rate := float64(runs) * float64(ballevent.BallsPerOver) / float64(legalBalls)
	return math.Round(rate*100) / 100
}

func Score(runs, wickets int) string {
	if wickets >= ballevent.MaxWickets {
		return fmt.Sprintf("All Out for %d", runs)
	}
	return fmt.Sprintf("%d/%d", runs, wickets)
}

// decide settles the match once the second innings is complete.
func decide(played []innings.Innings) (string, string, bool) {
	if len(played) < 2 || !played[1].IsComplete() {
		return ResultInProgress, "", false
	}

	first, second := played[0], played[1]
	switch {
	case second.Runs > first.Runs:
		margin := ballevent.MaxWickets - second.Wickets
		return fmt.Sprintf("%s won by %d %s", second.BattingTeamID, margin, plural(margin, "wicket")), second.BattingTeamID, true
	case first.Runs > second.Runs:
		margin := first.Runs - second.Runs
		return fmt.Sprintf("%s won by %d %s", first.BattingTeamID, margin, plural(margin, "run")), first.BattingTeamID, true
	default:
		return ResultTied, "", true
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
