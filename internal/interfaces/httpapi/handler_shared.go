package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/football-tournament/internal/domain/discipline"
	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/domain/standings"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
	"github.com/riskibarqy/football-tournament/internal/platform/logging"
	"github.com/riskibarqy/football-tournament/internal/usecase"
)

// maxBodyBytes bounds request payloads; every body here is a small form.
const maxBodyBytes = 1 << 20

type Handler struct {
	teamService       *usecase.TeamService
	scheduleService   *usecase.ScheduleService
	matchService      *usecase.MatchService
	standingsService  *usecase.StandingsService
	disciplineService *usecase.DisciplineService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	teamService *usecase.TeamService,
	scheduleService *usecase.ScheduleService,
	matchService *usecase.MatchService,
	standingsService *usecase.StandingsService,
	disciplineService *usecase.DisciplineService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	// Only a malformed built-in rule can fail here.
	v, err := newValidator()
	if err != nil {
		panic(err)
	}

	return &Handler{
		teamService:       teamService,
		scheduleService:   scheduleService,
		matchService:      matchService,
		standingsService:  standingsService,
		disciplineService: disciplineService,
		logger:            logger,
		validator:         v,
	}
}

type requestRule struct {
	tag string
	fn  validator.Func
}

var requestRules = []requestRule{
	{tag: "group", fn: func(fl validator.FieldLevel) bool {
		return team.ValidGroup(team.NormalizeGroup(fl.Field().String()))
	}},
	{tag: "yyyymmdd", fn: func(fl validator.FieldLevel) bool {
		raw := strings.TrimSpace(fl.Field().String())
		if raw == "" {
			return true
		}
		_, err := parseDate(raw)
		return err == nil
	}},
}

func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := registerRules(v, requestRules); err != nil {
		return nil, err
	}
	return v, nil
}

func registerRules(v *validator.Validate, rules []requestRule) error {
	for _, rule := range rules {
		if err := v.RegisterValidation(rule.tag, rule.fn); err != nil {
			return crerr.Wrapf(err, "register %q validation", rule.tag)
		}
	}
	return nil
}

func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, payload any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return h.validateRequest(ctx, payload)
	}

	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil && err != io.EOF {
		return fmt.Errorf("%w: invalid JSON payload: %w", usecase.ErrInvalidInput, crerr.Wrap(err, "decode request body"))
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: query %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return v, nil
}

type createTeamRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Group string `json:"group" validate:"required,group"`
}

type addPlayerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Position string `json:"position" validate:"omitempty,max=30"`
	Number   int    `json:"number" validate:"gte=0,lte=99"`
}

type generateScheduleRequest struct {
	StartDate string `json:"start_date" validate:"yyyymmdd"`
	Force     bool   `json:"force"`
}

type recordScoreRequest struct {
	HomeScore *int `json:"home_score" validate:"required,gte=0"`
	AwayScore *int `json:"away_score" validate:"required,gte=0"`
}

type goalRequest struct {
	TeamID   string `json:"team_id" validate:"required"`
	PlayerID string `json:"player_id" validate:"required"`
	Minute   int    `json:"minute" validate:"gte=0,lte=130"`
}

type cardRequest struct {
	TeamID   string `json:"team_id" validate:"required"`
	PlayerID string `json:"player_id" validate:"required"`
	Minute   int    `json:"minute" validate:"gte=0,lte=130"`
	Type     string `json:"type" validate:"required,max=10"`
}

type recordDTO struct {
	Played         int `json:"played"`
	Won            int `json:"won"`
	Drawn          int `json:"drawn"`
	Lost           int `json:"lost"`
	GoalsFor       int `json:"goals_for"`
	GoalsAgainst   int `json:"goals_against"`
	GoalDifference int `json:"goal_difference"`
	Points         int `json:"points"`
}

type playerDTO struct {
	ID                string `json:"id"`
	TeamID            string `json:"team_id"`
	Name              string `json:"name"`
	Position          string `json:"position,omitempty"`
	Number            int    `json:"number"`
	Goals             int    `json:"goals"`
	YellowCards       int    `json:"yellow_cards"`
	RedCards          int    `json:"red_cards"`
	YellowCardsServed int    `json:"yellow_cards_served"`
	IsBanned          bool   `json:"is_banned"`
}

type teamDTO struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Group   string      `json:"group"`
	Players []playerDTO `json:"players"`
	Record  recordDTO   `json:"record"`
}

type goalDTO struct {
	ID       string `json:"id"`
	TeamID   string `json:"team_id"`
	PlayerID string `json:"player_id"`
	Minute   int    `json:"minute"`
}

type cardDTO struct {
	ID       string `json:"id"`
	TeamID   string `json:"team_id"`
	PlayerID string `json:"player_id"`
	Minute   int    `json:"minute"`
	Type     string `json:"type"`
}

type matchDTO struct {
	ID         string    `json:"id"`
	HomeTeamID string    `json:"home_team_id"`
	AwayTeamID string    `json:"away_team_id"`
	HomeScore  *int      `json:"home_score"`
	AwayScore  *int      `json:"away_score"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	EndTime    string    `json:"end_time,omitempty"`
	Venue      string    `json:"venue"`
	Group      string    `json:"group"`
	Status     string    `json:"status"`
	Goals      []goalDTO `json:"goals"`
	Cards      []cardDTO `json:"cards"`
}

type scheduleResultDTO struct {
	Total         int        `json:"total"`
	Scheduled     int        `json:"scheduled"`
	Shortfall     int        `json:"shortfall"`
	Passes        int        `json:"passes"`
	SkippedGroups []string   `json:"skipped_groups"`
	Matches       []matchDTO `json:"matches"`
}

type standingRowDTO struct {
	Position int       `json:"position"`
	TeamID   string    `json:"team_id"`
	TeamName string    `json:"team_name"`
	Record   recordDTO `json:"record"`
}

type groupTableDTO struct {
	Group string           `json:"group"`
	Rows  []standingRowDTO `json:"rows"`
}

type disciplineEntryDTO struct {
	Player   playerDTO `json:"player"`
	TeamName string    `json:"team_name"`
	Group    string    `json:"group"`
}

func recordToDTO(r team.Record) recordDTO {
	return recordDTO{
		Played:         r.Played,
		Won:            r.Won,
		Drawn:          r.Drawn,
		Lost:           r.Lost,
		GoalsFor:       r.GoalsFor,
		GoalsAgainst:   r.GoalsAgainst,
		GoalDifference: r.GoalDifference(),
		Points:         r.Points,
	}
}

func playerToDTO(p team.Player) playerDTO {
	return playerDTO{
		ID:                p.ID,
		TeamID:            p.TeamID,
		Name:              p.Name,
		Position:          p.Position,
		Number:            p.Number,
		Goals:             p.Goals,
		YellowCards:       p.YellowCards,
		RedCards:          p.RedCards,
		YellowCardsServed: p.YellowCardsServed,
		IsBanned:          p.IsBanned,
	}
}

func teamToDTO(t team.Team) teamDTO {
	players := make([]playerDTO, 0, len(t.Players))
	for _, p := range t.Players {
		players = append(players, playerToDTO(p))
	}
	return teamDTO{
		ID:      t.ID,
		Name:    t.Name,
		Group:   t.Group,
		Players: players,
		Record:  recordToDTO(t.Record),
	}
}

func matchToDTO(m match.Match) matchDTO {
	goals := make([]goalDTO, 0, len(m.Goals))
	for _, g := range m.Goals {
		goals = append(goals, goalDTO{ID: g.ID, TeamID: g.TeamID, PlayerID: g.PlayerID, Minute: g.Minute})
	}
	cards := make([]cardDTO, 0, len(m.Cards))
	for _, c := range m.Cards {
		cards = append(cards, cardDTO{ID: c.ID, TeamID: c.TeamID, PlayerID: c.PlayerID, Minute: c.Minute, Type: c.Type})
	}

	endTime, _ := match.SlotEnd(m.Time)
	return matchDTO{
		ID:         m.ID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		Date:       m.Date,
		Time:       m.Time,
		EndTime:    endTime,
		Venue:      m.Venue,
		Group:      m.Group,
		Status:     m.Status,
		Goals:      goals,
		Cards:      cards,
	}
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchToDTO(m))
	}
	return out
}

func groupTableToDTO(g usecase.GroupTable) groupTableDTO {
	rows := make([]standingRowDTO, 0, len(g.Rows))
	for _, row := range g.Rows {
		rows = append(rows, standingRowToDTO(row))
	}
	return groupTableDTO{Group: g.Group, Rows: rows}
}

func standingRowToDTO(row standings.Row) standingRowDTO {
	return standingRowDTO{
		Position: row.Position,
		TeamID:   row.Team.ID,
		TeamName: row.Team.Name,
		Record:   recordToDTO(row.Team.Record),
	}
}

func entriesToDTO(items []discipline.Entry) []disciplineEntryDTO {
	out := make([]disciplineEntryDTO, 0, len(items))
	for _, e := range items {
		out = append(out, disciplineEntryDTO{Player: playerToDTO(e.Player), TeamName: e.TeamName, Group: e.Group})
	}
	return out
}
