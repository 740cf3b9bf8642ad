package standing

import "testing"

func TestCalculate_PointsThenNetRunRate(t *testing.T) {
	t.Parallel()

	results := []Result{
		{MatchID: "m1", HomeTeamID: "a", AwayTeamID: "c", WinnerTeamID: "a", HomeRuns: 180, AwayRuns: 120},
		{MatchID: "m2", HomeTeamID: "b", AwayTeamID: "c", WinnerTeamID: "b", HomeRuns: 150, AwayRuns: 140},
		{MatchID: "m3", HomeTeamID: "a", AwayTeamID: "b", WinnerTeamID: "", HomeRuns: 160, AwayRuns: 160},
		{MatchID: "m4", HomeTeamID: "a", AwayTeamID: "x", WinnerTeamID: "x", HomeRuns: 10, AwayRuns: 11},
	}

	got := Calculate("t1", []string{"c", "b", "a"}, results)
	if len(got) != 3 {
		t.Fatalf("unexpected row count: %d", len(got))
	}

	if got[0].TeamID != "a" || got[1].TeamID != "b" || got[2].TeamID != "c" {
		t.Fatalf("unexpected order: %s %s %s", got[0].TeamID, got[1].TeamID, got[2].TeamID)
	}
	a := got[0]
	if a.Points != 3 || a.Won != 1 || a.Tied != 1 || a.Played != 2 {
		t.Fatalf("unexpected row for a: %+v", a)
	}
	if a.NetRunRate != 60 {
		t.Fatalf("unexpected net run rate for a: %d", a.NetRunRate)
	}
	for i, row := range got {
		if row.Position != i+1 {
			t.Fatalf("unexpected position at %d: %d", i, row.Position)
		}
	}
}

func TestCalculate_EqualTeamsKeepRegistrationOrder(t *testing.T) {
	t.Parallel()

	got := Calculate("t1", []string{"b", "a"}, nil)
	if got[0].TeamID != "b" || got[1].TeamID != "a" {
		t.Fatalf("expected stable order, got %s %s", got[0].TeamID, got[1].TeamID)
	}
}

func TestCalculate_HigherNetRunRateBreaksTie(t *testing.T) {
	t.Parallel()

	results := []Result{
		{MatchID: "m1", HomeTeamID: "a", AwayTeamID: "c", WinnerTeamID: "a", HomeRuns: 200, AwayRuns: 100},
		{MatchID: "m2", HomeTeamID: "b", AwayTeamID: "c", WinnerTeamID: "b", HomeRuns: 150, AwayRuns: 140},
	}

	got := Calculate("t1", []string{"b", "a", "c"}, results)
	if got[0].TeamID != "a" {
		t.Fatalf("expected a above b on net run rate, got %s", got[0].TeamID)
	}
	if got[0].Points != got[1].Points {
		t.Fatalf("expected level points: %d vs %d", got[0].Points, got[1].Points)
	}
}
