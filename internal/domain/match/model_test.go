package match

import "testing"

func TestCanTransition(t *testing.T) {
	t.Parallel()

	allowed := [][2]Status{
		{StatusScheduled, StatusAccepted},
		{StatusScheduled, StatusCancelled},
		{StatusAccepted, StatusLive},
		{StatusAccepted, StatusCancelled},
		{StatusLive, StatusCompleted},
		{StatusLive, StatusAbandoned},
		{StatusCompleted, StatusDisputed},
		{StatusDisputed, StatusCompleted},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}

	denied := [][2]Status{
		{StatusScheduled, StatusLive},
		{StatusLive, StatusScheduled},
		{StatusCancelled, StatusLive},
		{StatusAbandoned, StatusCompleted},
		{StatusCompleted, StatusLive},
	}
	for _, pair := range denied {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be denied", pair[0], pair[1])
		}
	}
}

func TestMatch_Validate(t *testing.T) {
	t.Parallel()

	m := Match{ID: "m1", HomeTeamID: "a", AwayTeamID: "b", Status: StatusScheduled, OversLimit: 20}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	m.AwayTeamID = "a"
	if err := m.Validate(); err == nil {
		t.Fatalf("expected error for same team on both sides")
	}
}

func TestMatch_Sides(t *testing.T) {
	t.Parallel()

	m := Match{HomeTeamID: "a", AwayTeamID: "b"}
	if bat, bowl := m.Sides(1); bat != "a" || bowl != "b" {
		t.Fatalf("unexpected first innings sides: %s %s", bat, bowl)
	}
	if bat, bowl := m.Sides(2); bat != "b" || bowl != "a" {
		t.Fatalf("unexpected second innings sides: %s %s", bat, bowl)
	}
}
