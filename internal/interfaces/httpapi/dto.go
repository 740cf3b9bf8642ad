package httpapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/ballevent"
	"github.com/riskibarqy/cricket-league/internal/domain/innings"
	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-league/internal/domain/standing"
	"github.com/riskibarqy/cricket-league/internal/domain/tournament"
	"github.com/riskibarqy/cricket-league/internal/usecase"
)

type createMatchRequest struct {
	HomeTeamID  string     `json:"home_team_id" validate:"required,max=64"`
	AwayTeamID  string     `json:"away_team_id" validate:"required,max=64,nefield=HomeTeamID"`
	Venue       string     `json:"venue" validate:"max=120"`
	OversLimit  int        `json:"overs_limit" validate:"omitempty,min=1,max=50"`
	EntryFee    int64      `json:"entry_fee" validate:"min=0"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

type updateMatchStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type recordBallRequest struct {
	Inning       inningNumber `json:"inning" validate:"required,min=1,max=2"`
	Over         int          `json:"over" validate:"required,min=1"`
	Ball         int          `json:"ball" validate:"required,min=1"`
	BatsmanID    string       `json:"batsman_id" validate:"required"`
	NonStrikerID string       `json:"non_striker_id"`
	BowlerID     string       `json:"bowler_id" validate:"required"`
	Code         string       `json:"code" validate:"required,max=2"`
	Runs         int          `json:"runs" validate:"min=0"`
	Commentary   string       `json:"commentary" validate:"max=500"`
}

// inningNumber accepts the innings as 1 or "1".
type inningNumber int

func (n *inningNumber) UnmarshalJSON(raw []byte) error {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("inning must be 1 or 2, got %s", raw)
	}
	*n = inningNumber(v)
	return nil
}

type createTournamentRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Format     string `json:"format" validate:"required"`
	OversLimit int    `json:"overs_limit" validate:"omitempty,min=1,max=50"`
	MinTeams   int    `json:"min_teams" validate:"omitempty,min=2"`
	MaxTeams   int    `json:"max_teams" validate:"omitempty,min=2"`
}

type registerTeamRequest struct {
	TeamID string `json:"team_id" validate:"required,max=64"`
}

type matchDTO struct {
	ID           string               `json:"id"`
	TournamentID string               `json:"tournament_id,omitempty"`
	HomeTeamID   string               `json:"home_team_id"`
	AwayTeamID   string               `json:"away_team_id"`
	Venue        string               `json:"venue,omitempty"`
	OversLimit   int                  `json:"overs_limit"`
	Status       string               `json:"status"`
	Round        int                  `json:"round,omitempty"`
	Sequence     int                  `json:"sequence,omitempty"`
	EntryFee     int64                `json:"entry_fee"`
	WinnerTeamID string               `json:"winner_team_id,omitempty"`
	Scorecard    *scorecard.Scorecard `json:"scorecard,omitempty"`
	ScheduledAt  string               `json:"scheduled_at,omitempty"`
	CreatedAt    string               `json:"created_at"`
	UpdatedAt    string               `json:"updated_at"`
}

type ballEventDTO struct {
	ID           string `json:"id"`
	Inning       int    `json:"inning"`
	Sequence     int    `json:"sequence"`
	Over         int    `json:"over"`
	Ball         int    `json:"ball"`
	BatsmanID    string `json:"batsman_id"`
	NonStrikerID string `json:"non_striker_id,omitempty"`
	BowlerID     string `json:"bowler_id"`
	Code         string `json:"code"`
	Runs         int    `json:"runs"`
	Wickets      int    `json:"wickets"`
	Commentary   string `json:"commentary,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type inningsDTO struct {
	Number        int    `json:"number"`
	BattingTeamID string `json:"batting_team_id"`
	BowlingTeamID string `json:"bowling_team_id"`
	State         string `json:"state"`
	Runs          int    `json:"runs"`
	Wickets       int    `json:"wickets"`
	Extras        int    `json:"extras"`
	Overs         string `json:"overs"`
	LegalBalls    int    `json:"legal_balls"`
	StrikerID     string `json:"striker_id,omitempty"`
	NonStrikerID  string `json:"non_striker_id,omitempty"`
	BowlerID      string `json:"bowler_id,omitempty"`
	NextOver      int    `json:"next_over"`
	NextBall      int    `json:"next_ball"`
}

type recordBallResultDTO struct {
	Event       ballEventDTO        `json:"event"`
	Innings     inningsDTO          `json:"innings"`
	Scorecard   scorecard.Scorecard `json:"scorecard"`
	MatchStatus string              `json:"match_status"`
}

type inningsScoringDTO struct {
	Innings inningsDTO     `json:"innings"`
	Events  []ballEventDTO `json:"events"`
}

type matchScoringDTO struct {
	Match   matchDTO            `json:"match"`
	Innings []inningsScoringDTO `json:"innings"`
}

type tournamentDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Format     string `json:"format"`
	OversLimit int    `json:"overs_limit"`
	MinTeams   int    `json:"min_teams"`
	MaxTeams   int    `json:"max_teams"`
	Status     string `json:"status"`
	StartedAt  string `json:"started_at,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type registerTeamDTO struct {
	TournamentID string     `json:"tournament_id"`
	TeamID       string     `json:"team_id"`
	RegisteredAt string     `json:"registered_at"`
	Started      bool       `json:"started"`
	Fixtures     []matchDTO `json:"fixtures"`
}

type standingDTO struct {
	Position    int    `json:"position"`
	TeamID      string `json:"team_id"`
	Played      int    `json:"played"`
	Won         int    `json:"won"`
	Lost        int    `json:"lost"`
	Tied        int    `json:"tied"`
	Points      int    `json:"points"`
	RunsFor     int    `json:"runs_for"`
	RunsAgainst int    `json:"runs_against"`
	NetRunRate  int    `json:"net_run_rate"`
}

type playerStatDTO struct {
	PlayerID           string  `json:"player_id"`
	TeamID             string  `json:"team_id"`
	Name               string  `json:"name"`
	Role               string  `json:"role"`
	Matches            int     `json:"matches"`
	Innings            int     `json:"innings"`
	RunsScored         int     `json:"runs_scored"`
	BallsFaced         int     `json:"balls_faced"`
	StrikeRate         float64 `json:"strike_rate"`
	HighestScore       int     `json:"highest_score"`
	Centuries          int     `json:"centuries"`
	BallsBowled        int     `json:"balls_bowled"`
	RunsConceded       int     `json:"runs_conceded"`
	WicketsTaken       int     `json:"wickets_taken"`
	Economy            float64 `json:"economy"`
	BestBowling        string  `json:"best_bowling,omitempty"`
	BestBowlingMatchID string  `json:"best_bowling_match_id,omitempty"`
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func formatOptionalTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return formatTime(*v)
}

func matchToDTO(v match.Match) matchDTO {
	return matchDTO{
		ID:           v.ID,
		TournamentID: v.TournamentID,
		HomeTeamID:   v.HomeTeamID,
		AwayTeamID:   v.AwayTeamID,
		Venue:        v.Venue,
		OversLimit:   v.OversLimit,
		Status:       string(v.Status),
		Round:        v.Round,
		Sequence:     v.Sequence,
		EntryFee:     v.EntryFee,
		WinnerTeamID: v.WinnerTeamID,
		Scorecard:    v.Scorecard,
		ScheduledAt:  formatOptionalTime(v.ScheduledAt),
		CreatedAt:    formatTime(v.CreatedAt),
		UpdatedAt:    formatTime(v.UpdatedAt),
	}
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	return out
}

func ballEventToDTO(v ballevent.Event) ballEventDTO {
	return ballEventDTO{
		ID:           v.ID,
		Inning:       v.Inning,
		Sequence:     v.Sequence,
		Over:         v.Over,
		Ball:         v.Ball,
		BatsmanID:    v.BatsmanID,
		NonStrikerID: v.NonStrikerID,
		BowlerID:     v.BowlerID,
		Code:         string(v.Code),
		Runs:         v.Runs,
		Wickets:      v.Wickets,
		Commentary:   v.Commentary,
		CreatedAt:    formatTime(v.CreatedAt),
	}
}

func inningsToDTO(v innings.Innings) inningsDTO {
	nextOver, nextBall := v.NextPosition()
	return inningsDTO{
		Number:        v.Number,
		BattingTeamID: v.BattingTeamID,
		BowlingTeamID: v.BowlingTeamID,
		State:         string(v.State),
		Runs:          v.Runs,
		Wickets:       v.Wickets,
		Extras:        v.Extras,
		Overs:         v.OversNotation(),
		LegalBalls:    v.LegalBalls,
		StrikerID:     v.StrikerID,
		NonStrikerID:  v.NonStrikerID,
		BowlerID:      v.BowlerID,
		NextOver:      nextOver,
		NextBall:      nextBall,
	}
}

func tournamentToDTO(v tournament.Tournament) tournamentDTO {
	return tournamentDTO{
		ID:         v.ID,
		Name:       v.Name,
		Format:     string(v.Format),
		OversLimit: v.OversLimit,
		MinTeams:   v.MinTeams,
		MaxTeams:   v.MaxTeams,
		Status:     string(v.Status),
		StartedAt:  formatOptionalTime(v.StartedAt),
		CreatedAt:  formatTime(v.CreatedAt),
	}
}

func standingToDTO(v standing.Standing) standingDTO {
	return standingDTO{
		Position:    v.Position,
		TeamID:      v.TeamID,
		Played:      v.Played,
		Won:         v.Won,
		Lost:        v.Lost,
		Tied:        v.Tied,
		Points:      v.Points,
		RunsFor:     v.RunsFor,
		RunsAgainst: v.RunsAgainst,
		NetRunRate:  v.NetRunRate,
	}
}

func playerStatToDTO(v usecase.PlayerProfile) playerStatDTO {
	out := playerStatDTO{
		PlayerID:           v.Player.ID,
		TeamID:             v.Player.TeamID,
		Name:               v.Player.Name,
		Role:               string(v.Player.Role),
		Matches:            v.Stat.Matches,
		Innings:            v.Stat.Innings,
		RunsScored:         v.Stat.RunsScored,
		BallsFaced:         v.Stat.BallsFaced,
		StrikeRate:         v.Stat.StrikeRate(),
		HighestScore:       v.Stat.HighestScore,
		Centuries:          v.Stat.Centuries,
		BallsBowled:        v.Stat.BallsBowled,
		RunsConceded:       v.Stat.RunsConceded,
		WicketsTaken:       v.Stat.WicketsTaken,
		Economy:            v.Stat.Economy(),
		BestBowlingMatchID: v.Stat.BestBowlingMatchID,
	}
	if v.Stat.BestBowlingMatchID != "" {
		out.BestBowling = bestBowling(v.Stat.BestBowlingWickets, v.Stat.BestBowlingRuns)
	}
	return out
}

func bestBowling(wickets, runs int) string {
	return strconv.Itoa(wickets) + "/" + strconv.Itoa(runs)
}
