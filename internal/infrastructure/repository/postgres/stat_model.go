package postgres

import (
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/playerstat"
)

type playerStatTableModel struct {
	PlayerID           string    `db:"player_id"`
	Matches            int       `db:"matches"`
	Innings            int       `db:"innings"`
	RunsScored         int       `db:"runs_scored"`
	BallsFaced         int       `db:"balls_faced"`
	BallsBowled        int       `db:"balls_bowled"`
	RunsConceded       int       `db:"runs_conceded"`
	WicketsTaken       int       `db:"wickets_taken"`
	HighestScore       int       `db:"highest_score"`
	Centuries          int       `db:"centuries"`
	BestBowlingWickets int       `db:"best_bowling_wickets"`
	BestBowlingRuns    int       `db:"best_bowling_runs"`
	BestBowlingMatchID string    `db:"best_bowling_match_id"`
	NextBestWickets    int       `db:"next_best_bowling_wickets"`
	NextBestRuns       int       `db:"next_best_bowling_runs"`
	NextBestMatchID    string    `db:"next_best_bowling_match_id"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func newPlayerStatTableModel(s playerstat.Stat) playerStatTableModel {
	return playerStatTableModel{
		PlayerID:           s.PlayerID,
		Matches:            s.Matches,
		Innings:            s.Innings,
		RunsScored:         s.RunsScored,
		BallsFaced:         s.BallsFaced,
		BallsBowled:        s.BallsBowled,
		RunsConceded:       s.RunsConceded,
		WicketsTaken:       s.WicketsTaken,
		HighestScore:       s.HighestScore,
		Centuries:          s.Centuries,
		BestBowlingWickets: s.BestBowlingWickets,
		BestBowlingRuns:    s.BestBowlingRuns,
		BestBowlingMatchID: s.BestBowlingMatchID,
		NextBestWickets:    s.NextBestBowlingWickets,
		NextBestRuns:       s.NextBestBowlingRuns,
		NextBestMatchID:    s.NextBestBowlingMatchID,
		UpdatedAt:          s.UpdatedAt.UTC(),
	}
}

func (m playerStatTableModel) toDomain() playerstat.Stat {
	return playerstat.Stat{
		PlayerID:           m.PlayerID,
		Matches:            m.Matches,
		Innings:            m.Innings,
		RunsScored:         m.RunsScored,
		BallsFaced:         m.BallsFaced,
		BallsBowled:        m.BallsBowled,
		RunsConceded:       m.RunsConceded,
		WicketsTaken:       m.WicketsTaken,
		HighestScore:       m.HighestScore,
		Centuries:          m.Centuries,
		BestBowlingWickets: m.BestBowlingWickets,
		BestBowlingRuns:    m.BestBowlingRuns,
		BestBowlingMatchID: m.BestBowlingMatchID,

		NextBestBowlingWickets: m.NextBestWickets,
		NextBestBowlingRuns:    m.NextBestRuns,
		NextBestBowlingMatchID: m.NextBestMatchID,
		UpdatedAt:              m.UpdatedAt.UTC(),
	}
}

type appearanceTableModel struct {
	MatchID      string `db:"match_id"`
	PlayerID     string `db:"player_id"`
	Batted       bool   `db:"batted"`
	Runs         int    `db:"runs"`
	BallsFaced   int    `db:"balls_faced"`
	BallsBowled  int    `db:"balls_bowled"`
	RunsConceded int    `db:"runs_conceded"`
	Wickets      int    `db:"wickets"`
}

func newAppearanceTableModel(a playerstat.Appearance) appearanceTableModel {
	return appearanceTableModel(a)
}

func (m appearanceTableModel) toDomain() playerstat.Appearance {
	return playerstat.Appearance(m)
}
