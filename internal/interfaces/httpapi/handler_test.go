package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-tournament/internal/platform/id"
	"github.com/riskibarqy/football-tournament/internal/platform/logging"
	"github.com/riskibarqy/football-tournament/internal/usecase"
)

type testEnvelope[T any] struct {
	APIVersion string `json:"apiVersion"`
	Data       T      `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	teams := memory.NewTeamRepository(nil)
	matches := memory.NewMatchRepository(nil)
	ids := id.NewUUIDGenerator()
	tournament := usecase.NewTournament(teams, matches, usecase.TournamentOptions{Logger: logger})

	handler := NewHandler(
		usecase.NewTeamService(teams, ids, tournament, logger),
		usecase.NewScheduleService(teams, matches, ids, tournament, usecase.ScheduleConfig{
			Venue:       "Lapangan Utama",
			MinRestDays: 1,
			Seed:        1,
			SeedSet:     true,
			Now:         func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) },
		}, logger),
		usecase.NewMatchService(matches, teams, ids, tournament, logger),
		usecase.NewStandingsService(tournament),
		usecase.NewDisciplineService(teams, tournament, logger),
		logger,
	)
	return NewRouter(handler, logger, false, nil)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var env testEnvelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal response body: %v (%s)", err, rec.Body.String())
	}
	return env.Data
}

func TestHandler_TournamentFlow(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/teams", `{"name":"Alpha","group":"a"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create alpha: status=%d body=%s", rec.Code, rec.Body.String())
	}
	alpha := decodeData[teamDTO](t, rec)
	if alpha.Group != "A" || alpha.ID == "" {
		t.Fatalf("unexpected team: %+v", alpha)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/teams", `{"name":"Beta","group":"A"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create beta: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/teams/"+alpha.ID+"/players", `{"name":"Budi","position":"FW","number":9}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add player: status=%d body=%s", rec.Code, rec.Body.String())
	}
	budi := decodeData[playerDTO](t, rec)

	rec = doRequest(t, router, http.MethodGet, "/v1/groups", "")
	if groups := decodeData[[]string](t, rec); len(groups) != 1 || groups[0] != "A" {
		t.Fatalf("unexpected groups: %v", groups)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/schedule", `{"start_date":"2024-04-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate schedule: status=%d body=%s", rec.Code, rec.Body.String())
	}
	result := decodeData[scheduleResultDTO](t, rec)
	if result.Total != 1 || result.Scheduled != 1 || len(result.Matches) != 1 {
		t.Fatalf("unexpected schedule result: %+v", result)
	}
	fixture := result.Matches[0]
	if fixture.Date != "2024-04-01" || fixture.EndTime == "" || fixture.Venue != "Lapangan Utama" {
		t.Fatalf("unexpected fixture: %+v", fixture)
	}

	rec = doRequest(t, router, http.MethodPut, "/v1/matches/"+fixture.ID+"/score", `{"home_score":2,"away_score":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("record score: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if scored := decodeData[matchDTO](t, rec); scored.Status != match.StatusCompleted {
		t.Fatalf("expected completed match, got %+v", scored)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/standings/a", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("standings: status=%d body=%s", rec.Code, rec.Body.String())
	}
	table := decodeData[groupTableDTO](t, rec)
	if len(table.Rows) != 2 || table.Rows[0].TeamID != fixture.HomeTeamID || table.Rows[0].Record.Points != 3 {
		t.Fatalf("unexpected table: %+v", table)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/matches/"+fixture.ID+"/goals",
		`{"team_id":"`+alpha.ID+`","player_id":"`+budi.ID+`","minute":44}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add goal: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/topscorers?limit=5", "")
	scorers := decodeData[[]disciplineEntryDTO](t, rec)
	if len(scorers) != 1 || scorers[0].Player.ID != budi.ID || scorers[0].Player.Goals != 1 || scorers[0].TeamName != "Alpha" {
		t.Fatalf("unexpected top scorers: %+v", scorers)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/schedule", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected conflict when results exist, got %d", rec.Code)
	}
}

func TestHandler_ErrorStatuses(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)
	if rec := doRequest(t, router, http.MethodPost, "/v1/teams", `{"name":"Alpha","group":"A"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create team: status=%d", rec.Code)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "duplicate team name", method: http.MethodPost, path: "/v1/teams", body: `{"name":"alpha","group":"A"}`, want: http.StatusConflict},
		{name: "invalid group", method: http.MethodPost, path: "/v1/teams", body: `{"name":"X","group":"AB"}`, want: http.StatusBadRequest},
		{name: "unknown field", method: http.MethodPost, path: "/v1/teams", body: `{"name":"X","group":"B","coach":"Y"}`, want: http.StatusBadRequest},
		{name: "malformed json", method: http.MethodPost, path: "/v1/teams", body: `{"name":`, want: http.StatusBadRequest},
		{name: "unknown team", method: http.MethodGet, path: "/v1/teams/nope", want: http.StatusNotFound},
		{name: "unknown match", method: http.MethodGet, path: "/v1/matches/nope", want: http.StatusNotFound},
		{name: "missing away score", method: http.MethodPut, path: "/v1/matches/nope/score", body: `{"home_score":1}`, want: http.StatusBadRequest},
		{name: "bad start date", method: http.MethodPost, path: "/v1/schedule", body: `{"start_date":"01-04-2024"}`, want: http.StatusBadRequest},
		{name: "bad status filter", method: http.MethodGet, path: "/v1/matches?status=abandoned", want: http.StatusBadRequest},
		{name: "bad limit", method: http.MethodGet, path: "/v1/topscorers?limit=ten", want: http.StatusBadRequest},
		{name: "empty group standings", method: http.MethodGet, path: "/v1/standings/Z", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, tt.method, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected status %d, got %d body=%s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandler_HealthzAndNoContent(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	if rec := doRequest(t, router, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: status=%d", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodDelete, "/v1/schedule", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear schedule: status=%d", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodGet, "/openapi.yaml", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected docs disabled, got %d", rec.Code)
	}
}

func TestHandler_SwaggerEnabled(t *testing.T) {
	t.Parallel()

	handler := NewHandler(nil, nil, nil, nil, nil, logging.NewNop())
	router := NewRouter(handler, logging.NewNop(), true, []string{"*"})

	rec := doRequest(t, router, http.MethodGet, "/openapi.yaml", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Football Tournament API") {
		t.Fatalf("unexpected openapi response: status=%d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/docs", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "url: '/openapi.yaml'") {
		t.Fatalf("unexpected docs response: status=%d body=%s", rec.Code, rec.Body.String())
	}
}
