package standing

import "sort"

const (
	PointsWin = 2
	PointsTie = 1
)

// Standing is one team's row in a league table.
type Standing struct {
	TournamentID string
	TeamID       string
	Position     int
	Played       int
	Won          int
	Lost         int
	Tied         int
	Points       int
	RunsFor      int
	RunsAgainst  int
	// NetRunRate is the simplified runs-for minus runs-against margin.
	NetRunRate int
}

// Result is a completed match as the table sees it.
type Result struct {
	MatchID      string
	HomeTeamID   string
	AwayTeamID   string
	WinnerTeamID string
	HomeRuns     int
	AwayRuns     int
}

// Calculate builds the table for the registered teams. Results involving
// teams outside the field are ignored. Ties on points fall to net run rate;
// teams still level keep registration order.
func Calculate(tournamentID string, teamIDs []string, results []Result) []Standing {
	rows := make([]Standing, len(teamIDs))
	index := make(map[string]int, len(teamIDs))
	for i, id := range teamIDs {
		rows[i] = Standing{TournamentID: tournamentID, TeamID: id}
		index[id] = i
	}

	for _, r := range results {
		home, okHome := index[r.HomeTeamID]
		away, okAway := index[r.AwayTeamID]
		if !okHome || !okAway {
			continue
		}

		record(&rows[home], r.HomeRuns, r.AwayRuns, outcome(r, r.HomeTeamID))
		record(&rows[away], r.AwayRuns, r.HomeRuns, outcome(r, r.AwayTeamID))
	}

	for i := range rows {
		rows[i].Points = rows[i].Won*PointsWin + rows[i].Tied*PointsTie
		rows[i].NetRunRate = rows[i].RunsFor - rows[i].RunsAgainst
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].NetRunRate > rows[j].NetRunRate
	})
	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows
}

type result int

const (
	lost result = iota
	won
	tied
)

func outcome(r Result, teamID string) result {
	switch r.WinnerTeamID {
	case "":
		return tied
	case teamID:
		return won
	default:
		return lost
	}
}

func record(row *Standing, runsFor, runsAgainst int, res result) {
	row.Played++
	row.RunsFor += runsFor
	row.RunsAgainst += runsAgainst
	switch res {
	case won:
		row.Won++
	case tied:
		row.Tied++
	default:
		row.Lost++
	}
}
