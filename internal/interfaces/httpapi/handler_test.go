package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/cricket-league/internal/domain/fixture"
	"github.com/riskibarqy/cricket-league/internal/infrastructure/livefeed"
	"github.com/riskibarqy/cricket-league/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/cricket-league/internal/platform/id"
	"github.com/riskibarqy/cricket-league/internal/platform/lock"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
	"github.com/riskibarqy/cricket-league/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInternalToken = "replay-secret"

type testEnvelope struct {
	APIVersion string          `json:"apiVersion"`
	Data       json.RawMessage `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

// newTestRouter wires every service over one in-memory store. The hub always
// receives score updates; it only serves websocket viewers when withLiveFeed.
func newTestRouter(t *testing.T, withLiveFeed bool) http.Handler {
	t.Helper()

	roster, err := memory.DefaultRoster()
	require.NoError(t, err)
	store := memory.NewStore(roster)
	locks := lock.NewKeyed()
	logger := logging.NewNop()
	ids := idgen.NewUUIDGenerator()

	hub := livefeed.NewHub(nil, logger)
	t.Cleanup(hub.Close)

	matchRepo := memory.NewMatchRepository(store)
	teamRepo := memory.NewTeamRepository(store)
	playerRepo := memory.NewPlayerRepository(store)
	inningsRepo := memory.NewInningsRepository(store)
	ballRepo := memory.NewBallEventRepository(store)
	statRepo := memory.NewPlayerStatRepository(store)
	tournamentRepo := memory.NewTournamentRepository(store)
	ledger := memory.NewScoringRepository(store)

	var liveFeed LiveFeed
	if withLiveFeed {
		liveFeed = hub
	}

	handler := NewHandler(
		usecase.NewMatchService(matchRepo, teamRepo, locks, ids, logger),
		usecase.NewScoringService(matchRepo, inningsRepo, ballRepo, statRepo, playerRepo, ledger, locks, ids, hub, logger),
		usecase.NewTournamentService(tournamentRepo, teamRepo, matchRepo, fixture.NewRandShuffler(7), locks, ids, logger),
		usecase.NewStandingService(tournamentRepo, matchRepo),
		usecase.NewPlayerStatsService(playerRepo, statRepo),
		usecase.NewReplayService(matchRepo, tournamentRepo, inningsRepo, ballRepo, ledger, locks, 2, logger),
		liveFeed,
		logger,
	)
	return NewRouter(handler, logger, nil, testInternalToken)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env testEnvelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}

func decodeData[T any](t *testing.T, env testEnvelope) T {
	t.Helper()

	var out T
	require.NoError(t, sonic.Unmarshal(env.Data, &out))
	return out
}

func createLiveMatch(t *testing.T, router http.Handler) matchDTO {
	t.Helper()

	rec, env := doJSON(t, router, http.MethodPost, "/v1/matches", map[string]any{
		"home_team_id": "harbour-hawks",
		"away_team_id": "valley-vipers",
		"venue":        "Harbour Oval",
		"overs_limit":  2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeData[matchDTO](t, env)
	assert.Equal(t, "SCHEDULED", created.Status)
	assert.Equal(t, 2, created.OversLimit)

	for _, status := range []string{"ACCEPTED", "LIVE"} {
		rec, _ := doJSON(t, router, http.MethodPost, "/v1/matches/"+created.ID+"/status", map[string]string{"status": status})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	return created
}

func TestHandler_Healthz(t *testing.T) {
	router := newTestRouter(t, false)

	rec, env := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	assert.Equal(t, "ok", decodeData[map[string]string](t, env)["status"])
}

func TestHandler_ScoringFlow(t *testing.T) {
	router := newTestRouter(t, false)
	m := createLiveMatch(t, router)

	rec, env := doJSON(t, router, http.MethodPost, "/v1/matches/"+m.ID+"/balls", map[string]any{
		"inning":         1,
		"over":           1,
		"ball":           1,
		"batsman_id":     "harbour-hawks-01",
		"non_striker_id": "harbour-hawks-02",
		"bowler_id":      "valley-vipers-11",
		"code":           "4",
		"runs":           4,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	result := decodeData[recordBallResultDTO](t, env)
	assert.Equal(t, 1, result.Event.Sequence)
	assert.Equal(t, 4, result.Innings.Runs)
	assert.Equal(t, "0.1", result.Innings.Overs)
	assert.Equal(t, 1, result.Innings.NextOver)
	assert.Equal(t, 2, result.Innings.NextBall)
	assert.Equal(t, "LIVE", result.MatchStatus)
	require.Len(t, result.Scorecard.Innings, 1)
	assert.Equal(t, "4/0", result.Scorecard.Innings[0].Score)

	rec, env = doJSON(t, router, http.MethodGet, "/v1/matches/"+m.ID+"/scoring", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decodeData[matchScoringDTO](t, env)
	assert.Equal(t, m.ID, view.Match.ID)
	require.Len(t, view.Innings, 1)
	require.Len(t, view.Innings[0].Events, 1)
	assert.Equal(t, "4", view.Innings[0].Events[0].Code)

	rec, env = doJSON(t, router, http.MethodGet, "/v1/players/harbour-hawks-01/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stat := decodeData[playerStatDTO](t, env)
	assert.Equal(t, 4, stat.RunsScored)
	assert.Equal(t, 1, stat.BallsFaced)
	assert.Equal(t, 400.0, stat.StrikeRate)
}

func TestHandler_RecordBallEvent_InningAsString(t *testing.T) {
	router := newTestRouter(t, false)
	m := createLiveMatch(t, router)

	rec, env := doJSON(t, router, http.MethodPost, "/v1/matches/"+m.ID+"/balls", map[string]any{
		"inning": "1", "over": 1, "ball": 1,
		"batsman_id": "harbour-hawks-01", "bowler_id": "valley-vipers-11",
		"code": "1", "runs": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decodeData[recordBallResultDTO](t, env).Event.Inning)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/matches/"+m.ID+"/balls", map[string]any{
		"inning": "first", "over": 1, "ball": 2,
		"batsman_id": "harbour-hawks-01", "bowler_id": "valley-vipers-11",
		"code": "1", "runs": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/matches/"+m.ID+"/balls", map[string]any{
		"inning": "3", "over": 1, "ball": 2,
		"batsman_id": "harbour-hawks-01", "bowler_id": "valley-vipers-11",
		"code": "1", "runs": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ErrorMapping(t *testing.T) {
	router := newTestRouter(t, false)
	m := createLiveMatch(t, router)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantCode   int
		wantStatus string
	}{
		{
			name:       "unknown field",
			method:     http.MethodPost,
			path:       "/v1/matches",
			body:       map[string]any{"home_team_id": "harbour-hawks", "away_team_id": "valley-vipers", "umpire": "x"},
			wantCode:   http.StatusBadRequest,
			wantStatus: "INVALID_ARGUMENT",
		},
		{
			name:       "same team twice",
			method:     http.MethodPost,
			path:       "/v1/matches",
			body:       map[string]any{"home_team_id": "harbour-hawks", "away_team_id": "harbour-hawks"},
			wantCode:   http.StatusBadRequest,
			wantStatus: "INVALID_ARGUMENT",
		},
		{
			name:       "unknown match",
			method:     http.MethodGet,
			path:       "/v1/matches/missing/scoring",
			wantCode:   http.StatusNotFound,
			wantStatus: "NOT_FOUND",
		},
		{
			name:       "illegal transition",
			method:     http.MethodPost,
			path:       "/v1/matches/" + m.ID + "/status",
			body:       map[string]string{"status": "SCHEDULED"},
			wantCode:   http.StatusConflict,
			wantStatus: "FAILED_PRECONDITION",
		},
		{
			name:   "unknown ball code",
			method: http.MethodPost,
			path:   "/v1/matches/" + m.ID + "/balls",
			body: map[string]any{
				"inning": 1, "over": 1, "ball": 1,
				"batsman_id": "harbour-hawks-01", "bowler_id": "valley-vipers-11",
				"code": "7", "runs": 7,
			},
			wantCode:   http.StatusBadRequest,
			wantStatus: "INVALID_ARGUMENT",
		},
		{
			name:   "unknown batsman",
			method: http.MethodPost,
			path:   "/v1/matches/" + m.ID + "/balls",
			body: map[string]any{
				"inning": 1, "over": 1, "ball": 1,
				"batsman_id": "nobody", "bowler_id": "valley-vipers-11",
				"code": "1", "runs": 1,
			},
			wantCode:   http.StatusNotFound,
			wantStatus: "NOT_FOUND",
		},
		{
			name:       "replay without token",
			method:     http.MethodPost,
			path:       "/v1/internal/replay/matches/" + m.ID,
			wantCode:   http.StatusUnauthorized,
			wantStatus: "UNAUTHENTICATED",
		},
		{
			name:       "live feed disabled",
			method:     http.MethodGet,
			path:       "/v1/matches/" + m.ID + "/live",
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "UNAVAILABLE",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doJSON(t, router, tc.method, tc.path, tc.body)
			if rec.Code != tc.wantCode {
				t.Fatalf("expected status %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.wantStatus, env.Error.Status)
		})
	}
}

func TestHandler_TournamentFlow(t *testing.T) {
	router := newTestRouter(t, false)

	rec, env := doJSON(t, router, http.MethodPost, "/v1/tournaments", map[string]any{
		"name":        "Coastal Cup",
		"format":      "LEAGUE",
		"overs_limit": 5,
		"max_teams":   3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeData[tournamentDTO](t, env)
	assert.Equal(t, "REGISTRATION_OPEN", created.Status)

	var last registerTeamDTO
	for _, teamID := range []string{"harbour-hawks", "valley-vipers", "coastal-kings"} {
		rec, env := doJSON(t, router, http.MethodPost, "/v1/tournaments/"+created.ID+"/teams", map[string]string{"team_id": teamID})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		last = decodeData[registerTeamDTO](t, env)
	}
	assert.True(t, last.Started)
	assert.Len(t, last.Fixtures, 3)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/tournaments/"+created.ID+"/teams", map[string]string{"team_id": "metro-mavericks"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = doJSON(t, router, http.MethodGet, "/v1/tournaments/"+created.ID+"/matches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fixtures := decodeData[[]matchDTO](t, env)
	require.Len(t, fixtures, 3)
	for i, f := range fixtures {
		assert.Equal(t, created.ID, f.TournamentID)
		assert.Equal(t, i+1, f.Sequence)
		assert.Equal(t, 5, f.OversLimit)
	}

	rec, env = doJSON(t, router, http.MethodGet, "/v1/tournaments/"+created.ID+"/standings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeData[[]standingDTO](t, env)
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, i+1, row.Position)
		assert.Zero(t, row.Played)
	}

	rec, env = doJSON(t, router, http.MethodPost, "/v1/internal/replay/tournaments/"+created.ID+"?workers=2", nil,
		internalTokenHeader, testInternalToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	replay := decodeData[usecase.ReplayTournamentResult](t, env)
	assert.Equal(t, 2, replay.WorkerCount)
	assert.Equal(t, 3, replay.SkippedCount)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/internal/replay/tournaments/"+created.ID+"?workers=zero", nil,
		internalTokenHeader, testInternalToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_StreamMatch(t *testing.T) {
	router := newTestRouter(t, true)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	m := createLiveMatch(t, router)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/matches/" + m.ID + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	readFrame := func() livefeed.Frame {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var frame livefeed.Frame
		require.NoError(t, sonic.Unmarshal(data, &frame))
		return frame
	}

	snapshot := readFrame()
	assert.Equal(t, livefeed.FrameSnapshot, snapshot.Type)
	assert.Equal(t, m.ID, snapshot.MatchID)

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/matches/"+m.ID+"/balls", map[string]any{
		"inning": 1, "over": 1, "ball": 1,
		"batsman_id": "harbour-hawks-01", "non_striker_id": "harbour-hawks-02",
		"bowler_id": "valley-vipers-11", "code": "6", "runs": 6,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	update := readFrame()
	assert.Equal(t, livefeed.FrameScoreUpdated, update.Type)
	assert.Equal(t, m.ID, update.MatchID)
}

func TestHandler_StreamMatchUnknownMatch(t *testing.T) {
	router := newTestRouter(t, true)

	rec, env := doJSON(t, router, http.MethodGet, "/v1/matches/missing/live", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Status)
}
