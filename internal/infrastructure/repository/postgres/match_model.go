package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-league/internal/domain/match"
	"github.com/riskibarqy/cricket-league/internal/domain/scorecard"
)

type matchTableModel struct {
	ID           string         `db:"id"`
	TournamentID sql.NullString `db:"tournament_id"`
	HomeTeamID   string         `db:"home_team_id"`
	AwayTeamID   string         `db:"away_team_id"`
	Venue        string         `db:"venue"`
	OversLimit   int            `db:"overs_limit"`
	Status       string         `db:"status"`
	Round        int            `db:"round"`
	Sequence     int            `db:"sequence"`
	EntryFee     int64          `db:"entry_fee"`
	WinnerTeamID sql.NullString `db:"winner_team_id"`
	Scorecard    sql.NullString `db:"scorecard"`
	ScheduledAt  sql.NullTime   `db:"scheduled_at"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func newMatchTableModel(m match.Match) (matchTableModel, error) {
	card, err := encodeScorecard(m.Scorecard)
	if err != nil {
		return matchTableModel{}, err
	}
	return matchTableModel{
		ID:           m.ID,
		TournamentID: nullString(m.TournamentID),
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		Venue:        m.Venue,
		OversLimit:   m.OversLimit,
		Status:       string(m.Status),
		Round:        m.Round,
		Sequence:     m.Sequence,
		EntryFee:     m.EntryFee,
		WinnerTeamID: nullString(m.WinnerTeamID),
		Scorecard:    card,
		ScheduledAt:  nullTime(m.ScheduledAt),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}, nil
}

func (m matchTableModel) toDomain() (match.Match, error) {
	card, err := decodeScorecard(m.Scorecard)
	if err != nil {
		return match.Match{}, fmt.Errorf("match %s: %w", m.ID, err)
	}
	return match.Match{
		ID:           m.ID,
		TournamentID: m.TournamentID.String,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		Venue:        m.Venue,
		OversLimit:   m.OversLimit,
		Status:       match.Status(m.Status),
		Round:        m.Round,
		Sequence:     m.Sequence,
		EntryFee:     m.EntryFee,
		WinnerTeamID: m.WinnerTeamID.String,
		Scorecard:    card,
		ScheduledAt:  nullTimeToPtr(m.ScheduledAt),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}, nil
}

func encodeScorecard(card *scorecard.Scorecard) (sql.NullString, error) {
	if card == nil {
		return sql.NullString{}, nil
	}
	raw, err := sonic.MarshalString(card)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode scorecard: %w", err)
	}
	return sql.NullString{String: raw, Valid: true}, nil
}

func decodeScorecard(raw sql.NullString) (*scorecard.Scorecard, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var card scorecard.Scorecard
	if err := sonic.UnmarshalString(raw.String, &card); err != nil {
		return nil, fmt.Errorf("decode scorecard: %w", err)
	}
	return &card, nil
}
