package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/matches", handler.CreateMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/status", handler.UpdateMatchStatus)
	mux.HandleFunc("POST /v1/matches/{matchID}/balls", handler.RecordBallEvent)
	mux.HandleFunc("GET /v1/matches/{matchID}/scoring", handler.GetMatchScoring)
	mux.HandleFunc("GET /v1/matches/{matchID}/live", handler.StreamMatch)
}

func registerTournamentRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/tournaments", handler.CreateTournament)
	mux.HandleFunc("POST /v1/tournaments/{tournamentID}/teams", handler.RegisterTeam)
	mux.HandleFunc("POST /v1/tournaments/{tournamentID}/start", handler.StartTournament)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/matches", handler.ListTournamentMatches)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/standings", handler.GetStandings)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/{playerID}/stats", handler.GetPlayerStats)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalToken string) {
	mux.Handle("POST /v1/internal/replay/matches/{matchID}", RequireInternalToken(internalToken, http.HandlerFunc(handler.ReplayMatch)))
	mux.Handle("POST /v1/internal/replay/tournaments/{tournamentID}", RequireInternalToken(internalToken, http.HandlerFunc(handler.ReplayTournament)))
}
