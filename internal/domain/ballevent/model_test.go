package ballevent

import (
	"errors"
	"testing"
)

func validEvent(code Code) Event {
	return Event{
		MatchID:   "m1",
		Inning:    1,
		Over:      1,
		Ball:      1,
		BatsmanID: "s1",
		BowlerID:  "b1",
		Code:      code,
	}
}

func TestParseCode(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"0", "6", "w", " WD ", "nb", "LB", "by", "cb"} {
		if _, err := ParseCode(raw); err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
	}
	if _, err := ParseCode("7"); !errors.Is(err, ErrUnknownCode) {
		t.Fatalf("expected ErrUnknownCode, got %v", err)
	}
}

func TestEvent_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		event        Event
		wantErr      bool
		wantRuns     int
		wantBat      int
		wantExtras   int
		wantConceded int
		wantLegal    bool
	}{
		{name: "boundary", event: validEvent(CodeFour), wantRuns: 4, wantBat: 4, wantConceded: 4, wantLegal: true},
		{name: "dot", event: validEvent(CodeDot), wantLegal: true},
		{name: "plain wide", event: validEvent(CodeWide), wantRuns: 1, wantExtras: 1, wantConceded: 1},
		{
			name:         "no ball with runs",
			event:        func() Event { e := validEvent(CodeNoBall); e.Runs = 3; return e }(),
			wantRuns:     3,
			wantExtras:   3,
			wantConceded: 3,
		},
		{
			name:       "leg byes",
			event:      func() Event { e := validEvent(CodeLegBye); e.Runs = 2; return e }(),
			wantRuns:   2,
			wantExtras: 2,
			wantLegal:  true,
		},
		{name: "wicket", event: validEvent(CodeWicket), wantLegal: true},
		{name: "byes without runs", event: validEvent(CodeBye), wantErr: true},
		{
			name:    "runs contradict code",
			event:   func() Event { e := validEvent(CodeTwo); e.Runs = 3; return e }(),
			wantErr: true,
		},
		{
			name:    "wicket with runs",
			event:   func() Event { e := validEvent(CodeWicket); e.Runs = 1; return e }(),
			wantErr: true,
		},
		{
			name:    "wicket on a boundary",
			event:   func() Event { e := validEvent(CodeFour); e.Wickets = 1; return e }(),
			wantErr: true,
		},
		{
			name:    "ball out of range",
			event:   func() Event { e := validEvent(CodeDot); e.Ball = 7; return e }(),
			wantErr: true,
		},
		{
			name:    "bowler batting",
			event:   func() Event { e := validEvent(CodeDot); e.BowlerID = "s1"; return e }(),
			wantErr: true,
		},
		{
			name:    "third innings",
			event:   func() Event { e := validEvent(CodeDot); e.Inning = 3; return e }(),
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.event.Normalize()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidEvent) {
					t.Fatalf("expected ErrInvalidEvent, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if got.CreditedRuns() != tc.wantRuns {
				t.Fatalf("credited runs: got=%d want=%d", got.CreditedRuns(), tc.wantRuns)
			}
			if got.BatRuns() != tc.wantBat {
				t.Fatalf("bat runs: got=%d want=%d", got.BatRuns(), tc.wantBat)
			}
			if got.ExtraRuns() != tc.wantExtras {
				t.Fatalf("extras: got=%d want=%d", got.ExtraRuns(), tc.wantExtras)
			}
			if got.RunsConceded() != tc.wantConceded {
				t.Fatalf("conceded: got=%d want=%d", got.RunsConceded(), tc.wantConceded)
			}
			if got.Code.IsLegal() != tc.wantLegal {
				t.Fatalf("legal: got=%v want=%v", got.Code.IsLegal(), tc.wantLegal)
			}
		})
	}
}

func TestEvent_WicketCountsOne(t *testing.T) {
	t.Parallel()

	got, err := validEvent(CodeWicket).Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.Wickets != 1 || !got.IsWicket() {
		t.Fatalf("expected one wicket, got %d", got.Wickets)
	}
}
