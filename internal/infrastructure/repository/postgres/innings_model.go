package postgres

import (
	"time"

	"github.com/riskibarqy/cricket-league/internal/domain/ballevent"
	"github.com/riskibarqy/cricket-league/internal/domain/innings"
)

type inningsTableModel struct {
	MatchID       string    `db:"match_id"`
	Number        int       `db:"number"`
	BattingTeamID string    `db:"batting_team_id"`
	BowlingTeamID string    `db:"bowling_team_id"`
	State         string    `db:"state"`
	Runs          int       `db:"runs"`
	Wickets       int       `db:"wickets"`
	Extras        int       `db:"extras"`
	LegalBalls    int       `db:"legal_balls"`
	StrikerID     string    `db:"striker_id"`
	NonStrikerID  string    `db:"non_striker_id"`
	BowlerID      string    `db:"bowler_id"`
	LastSequence  int       `db:"last_sequence"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func newInningsTableModel(in innings.Innings) inningsTableModel {
	return inningsTableModel{
		MatchID:       in.MatchID,
		Number:        in.Number,
		BattingTeamID: in.BattingTeamID,
		BowlingTeamID: in.BowlingTeamID,
		State:         string(in.State),
		Runs:          in.Runs,
		Wickets:       in.Wickets,
		Extras:        in.Extras,
		LegalBalls:    in.LegalBalls,
		StrikerID:     in.StrikerID,
		NonStrikerID:  in.NonStrikerID,
		BowlerID:      in.BowlerID,
		LastSequence:  in.LastSequence,
		UpdatedAt:     in.UpdatedAt.UTC(),
	}
}

func (m inningsTableModel) toDomain() innings.Innings {
	return innings.Innings{
		MatchID:       m.MatchID,
		Number:        m.Number,
		BattingTeamID: m.BattingTeamID,
		BowlingTeamID: m.BowlingTeamID,
		State:         innings.State(m.State),
		Runs:          m.Runs,
		Wickets:       m.Wickets,
		Extras:        m.Extras,
		LegalBalls:    m.LegalBalls,
		StrikerID:     m.StrikerID,
		NonStrikerID:  m.NonStrikerID,
		BowlerID:      m.BowlerID,
		LastSequence:  m.LastSequence,
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type ballEventTableModel struct {
	ID           string    `db:"id"`
	MatchID      string    `db:"match_id"`
	Inning       int       `db:"inning"`
	Sequence     int       `db:"sequence"`
	Over         int       `db:"over_number"`
	Ball         int       `db:"ball_number"`
	BatsmanID    string    `db:"batsman_id"`
	NonStrikerID string    `db:"non_striker_id"`
	BowlerID     string    `db:"bowler_id"`
	Code         string    `db:"code"`
	Runs         int       `db:"runs"`
	Wickets      int       `db:"wickets"`
	Commentary   string    `db:"commentary"`
	CreatedAt    time.Time `db:"created_at"`
}

func newBallEventTableModel(ev ballevent.Event) ballEventTableModel {
	return ballEventTableModel{
		ID:           ev.ID,
		MatchID:      ev.MatchID,
		Inning:       ev.Inning,
		Sequence:     ev.Sequence,
		Over:         ev.Over,
		Ball:         ev.Ball,
		BatsmanID:    ev.BatsmanID,
		NonStrikerID: ev.NonStrikerID,
		BowlerID:     ev.BowlerID,
		Code:         string(ev.Code),
		Runs:         ev.Runs,
		Wickets:      ev.Wickets,
		Commentary:   ev.Commentary,
		CreatedAt:    ev.CreatedAt.UTC(),
	}
}

func (m ballEventTableModel) toDomain() ballevent.Event {
	return ballevent.Event{
		ID:           m.ID,
		MatchID:      m.MatchID,
		Inning:       m.Inning,
		Sequence:     m.Sequence,
		Over:         m.Over,
		Ball:         m.Ball,
		BatsmanID:    m.BatsmanID,
		NonStrikerID: m.NonStrikerID,
		BowlerID:     m.BowlerID,
		Code:         ballevent.Code(m.Code),
		Runs:         m.Runs,
		Wickets:      m.Wickets,
		Commentary:   m.Commentary,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}
