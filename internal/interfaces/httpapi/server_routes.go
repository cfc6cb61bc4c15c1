package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("POST /v1/recompute", handler.Recompute)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/groups", handler.ListGroups)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("POST /v1/teams", handler.CreateTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("DELETE /v1/teams/{teamID}", handler.DeleteTeam)
	mux.HandleFunc("POST /v1/teams/{teamID}/players", handler.AddPlayer)
	mux.HandleFunc("DELETE /v1/teams/{teamID}/players/{playerID}", handler.RemovePlayer)
	mux.HandleFunc("POST /v1/teams/{teamID}/players/{playerID}/ban-reset", handler.ResetBan)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/schedule", handler.GenerateSchedule)
	mux.HandleFunc("DELETE /v1/schedule", handler.ClearSchedule)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("PUT /v1/matches/{matchID}/score", handler.RecordScore)
	mux.HandleFunc("DELETE /v1/matches/{matchID}/score", handler.ClearScore)
	mux.HandleFunc("POST /v1/matches/{matchID}/goals", handler.AddGoal)
	mux.HandleFunc("DELETE /v1/matches/{matchID}/goals/{goalID}", handler.RemoveGoal)
	mux.HandleFunc("POST /v1/matches/{matchID}/cards", handler.AddCard)
	mux.HandleFunc("DELETE /v1/matches/{matchID}/cards/{cardID}", handler.RemoveCard)
}

func registerTableRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/standings/{group}", handler.GetGroupStandings)
	mux.HandleFunc("GET /v1/topscorers", handler.ListTopScorers)
	mux.HandleFunc("GET /v1/discipline/cards", handler.ListCardedPlayers)
	mux.HandleFunc("GET /v1/discipline/bans", handler.ListBannedPlayers)
}
