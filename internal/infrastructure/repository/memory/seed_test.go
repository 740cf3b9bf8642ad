package memory

import (
	"strings"
	"testing"
)

func TestDefaultRoster(t *testing.T) {
	t.Parallel()

	roster, err := DefaultRoster()
	if err != nil {
		t.Fatalf("default roster: %v", err)
	}
	if len(roster.Teams) != 4 {
		t.Fatalf("unexpected team count: %d", len(roster.Teams))
	}
	if len(roster.Players) != 44 {
		t.Fatalf("unexpected player count: %d", len(roster.Players))
	}
}

func TestParseRoster_RejectsUnknownTeam(t *testing.T) {
	t.Parallel()

	raw := []byte(`
teams:
  - id: a
    name: Alpha
players:
  - id: p1
    team_id: b
    name: Someone
    role: BOWLER
`)
	_, err := ParseRoster(raw)
	if err == nil || !strings.Contains(err.Error(), "unknown team") {
		t.Fatalf("expected unknown team error, got %v", err)
	}
}

func TestLoadRoster_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadRoster(t.TempDir() + "/missing.yaml"); err == nil {
		t.Fatalf("expected error for missing roster file")
	}
}
