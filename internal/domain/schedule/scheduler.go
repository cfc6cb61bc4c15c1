package schedule

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
)

var (
	ErrInvalidInput     = errors.New("invalid schedule input")
	ErrNoTeams          = fmt.Errorf("%w: no teams supplied", ErrInvalidInput)
	ErrNoPairings       = fmt.Errorf("%w: no group has at least two teams", ErrInvalidInput)
	ErrUnknownTeam      = fmt.Errorf("%w: pairing references an unknown team", ErrInvalidInput)
	ErrInvalidStartDate = fmt.Errorf("%w: start date must be YYYY-MM-DD", ErrInvalidInput)
)

const (
	DefaultMinRestDays      = 1
	DefaultPassBudgetFactor = 7
)

// IDGenerator hands out match and event identities.
type IDGenerator interface {
	NewID() (string, error)
}

type Options struct {
	Venue       string
	MinRestDays int
	// PassBudgetFactor times the number of pairings bounds the passes made.
	PassBudgetFactor int
	Rand             *rand.Rand
	Now              func() time.Time
	IDs              IDGenerator
}

// Result carries the scheduled matches plus enough bookkeeping to report a
// partial outcome.
type Result struct {
	Matches       []match.Match
	Total         int
	Passes        int
	SkippedGroups []string
}

func (r Result) Scheduled() int {
	return len(r.Matches)
}

// Shortfall is the number of pairings left unscheduled when the pass budget ran out.
func (r Result) Shortfall() int {
	return r.Total - len(r.Matches)
}

type pairing struct {
	homeTeamID string
	awayTeamID string
	group      string
}

// Scheduler assigns round-robin pairings to dates and kickoff slots.
type Scheduler struct {
	opts Options
}

func New(opts Options) *Scheduler {
	if opts.MinRestDays <= 0 {
		opts.MinRestDays = DefaultMinRestDays
	}
	if opts.PassBudgetFactor <= 0 {
		opts.PassBudgetFactor = DefaultPassBudgetFactor
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Scheduler{opts: opts}
}

// Generate builds a single round-robin per group starting at startDate
// (YYYY-MM-DD, empty means today). Running out of passes is not an error;
// check Result.Shortfall.
func (s *Scheduler) Generate(startDate string, teams []team.Team) (Result, error) {
	if len(teams) == 0 {
		return Result{}, ErrNoTeams
	}
	if s.opts.IDs == nil {
		return Result{}, fmt.Errorf("schedule id generator is not configured")
	}

	current, err := s.resolveStartDate(startDate)
	if err != nil {
		return Result{}, err
	}

	pairings, skipped, err := buildPairings(teams)
	if err != nil {
		return Result{}, err
	}
	if len(pairings) == 0 {
		return Result{SkippedGroups: skipped}, ErrNoPairings
	}

	s.opts.Rand.Shuffle(len(pairings), func(i, j int) {
		pairings[i], pairings[j] = pairings[j], pairings[i]
	})

	result := Result{
		Total:         len(pairings),
		SkippedGroups: skipped,
		Matches:       make([]match.Match, 0, len(pairings)),
	}

	lastPlayed := make(map[string]time.Time, len(teams))
	scheduled := make([]bool, len(pairings))
	usedSlots := 0
	budget := s.opts.PassBudgetFactor * len(pairings)

	for result.Scheduled() < result.Total && result.Passes < budget {
		result.Passes++
		added := false

		for i, p := range pairings {
			if scheduled[i] || usedSlots >= len(match.Slots) {
				continue
			}
			if !s.rested(lastPlayed, p.homeTeamID, current) || !s.rested(lastPlayed, p.awayTeamID, current) {
				continue
			}

			id, err := s.opts.IDs.NewID()
			if err != nil {
				return Result{}, fmt.Errorf("generate match id: %w", err)
			}

			result.Matches = append(result.Matches, match.Match{
				ID:         id,
				HomeTeamID: p.homeTeamID,
				AwayTeamID: p.awayTeamID,
				Date:       current.Format(match.DateLayout),
				Time:       match.Slots[usedSlots],
				Venue:      s.opts.Venue,
				Group:      p.group,
				Status:     match.StatusScheduled,
				Goals:      []match.GoalEvent{},
				Cards:      []match.CardEvent{},
			})
			usedSlots++
			lastPlayed[p.homeTeamID] = current
			lastPlayed[p.awayTeamID] = current
			scheduled[i] = true
			added = true
		}

		if !added || usedSlots >= len(match.Slots) {
			current = current.AddDate(0, 0, 1)
			usedSlots = 0
		}
	}

	return result, nil
}

// rested reports whether teamID has had MinRestDays whole days off before day.
// A team that has not played yet is always rested.
func (s *Scheduler) rested(lastPlayed map[string]time.Time, teamID string, day time.Time) bool {
	last, ok := lastPlayed[teamID]
	if !ok {
		return true
	}
	rest := int(day.Sub(last) / (24 * time.Hour))
	return rest >= s.opts.MinRestDays
}

func (s *Scheduler) resolveStartDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now := s.opts.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	day, err := time.ParseInLocation(match.DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidStartDate, raw)
	}
	return day, nil
}

// buildPairings partitions teams by group and emits every unordered pair once.
// Groups are visited in key order and teams in input order, so only the
// shuffle introduces randomness.
func buildPairings(teams []team.Team) ([]pairing, []string, error) {
	groups := make(map[string][]team.Team)
	seen := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return nil, nil, fmt.Errorf("%w: team %q has no id", ErrUnknownTeam, t.Name)
		}
		if _, dup := seen[id]; dup {
			return nil, nil, fmt.Errorf("%w: duplicate team id %s", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}

		group := team.NormalizeGroup(t.Group)
		groups[group] = append(groups[group], t)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var (
		pairings []pairing
		skipped  []string
	)
	for _, key := range keys {
		members := groups[key]
		if len(members) < 2 {
			skipped = append(skipped, key)
			continue
		}
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				pairings = append(pairings, pairing{
					homeTeamID: members[i].ID,
					awayTeamID: members[j].ID,
					group:      key,
				})
			}
		}
	}

	return pairings, skipped, nil
}
