package match

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
)

const (
	CardYellow = "yellow"
	CardRed    = "red"
)

// DateLayout is the calendar date format used for Match.Date.
const DateLayout = "2006-01-02"

// SlotDuration is how long one kickoff window lasts.
const SlotDuration = 65 * time.Minute

// Slots are the fixed daily kickoff times, earliest first.
var Slots = []string{"13:30", "14:45", "16:00"}

// Match is one fixture between two teams of the same group.
type Match struct {
	ID         string
	HomeTeamID string
	AwayTeamID string
	HomeScore  *int
	AwayScore  *int
	Date       string
	Time       string
	Venue      string
	Group      string
	Status     string
	Goals      []GoalEvent
	Cards      []CardEvent
}

type GoalEvent struct {
	ID       string
	MatchID  string
	TeamID   string
	PlayerID string
	Minute   int
}

type CardEvent struct {
	ID       string
	MatchID  string
	TeamID   string
	PlayerID string
	Minute   int
	Type     string
}

// Completed reports whether both scores are recorded.
func (m Match) Completed() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// Involves reports whether teamID plays in m.
func (m Match) Involves(teamID string) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}

// SetScore records a final score and completes the match.
func (m *Match) SetScore(home, away int) {
	m.HomeScore = &home
	m.AwayScore = &away
	m.Status = StatusCompleted
}

// ClearScore returns the match to scheduled state. Events are kept.
func (m *Match) ClearScore() {
	m.HomeScore = nil
	m.AwayScore = nil
	m.Status = StatusScheduled
}

// SlotEnd returns the end time of the slot starting at start.
func SlotEnd(start string) (string, error) {
	t, err := time.Parse("15:04", start)
	if err != nil {
		return "", fmt.Errorf("parse slot %q: %w", start, err)
	}
	return t.Add(SlotDuration).Format("15:04"), nil
}

func IsSlot(value string) bool {
	for _, slot := range Slots {
		if slot == value {
			return true
		}
	}
	return false
}

func NormalizeCardType(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func IsCardType(value string) bool {
	switch value {
	case CardYellow, CardRed:
		return true
	default:
		return false
	}
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("match id is required")
	}
	if m.HomeTeamID == "" || m.AwayTeamID == "" {
		return fmt.Errorf("match teams are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match home and away team must differ")
	}
	if (m.HomeScore == nil) != (m.AwayScore == nil) {
		return fmt.Errorf("match scores must be both set or both empty")
	}
	if m.HomeScore != nil && (*m.HomeScore < 0 || *m.AwayScore < 0) {
		return fmt.Errorf("match scores must be >= 0")
	}
	switch m.Status {
	case StatusScheduled:
		if m.Completed() {
			return fmt.Errorf("scheduled match cannot carry a score")
		}
	case StatusCompleted:
		if !m.Completed() {
			return fmt.Errorf("completed match requires a score")
		}
	default:
		return fmt.Errorf("unknown match status %q", m.Status)
	}
	if m.Date != "" {
		if _, err := time.Parse(DateLayout, m.Date); err != nil {
			return fmt.Errorf("match date %q: %w", m.Date, err)
		}
	}
	if m.Time != "" && !IsSlot(m.Time) {
		return fmt.Errorf("match time %q is not a kickoff slot", m.Time)
	}
	for _, c := range m.Cards {
		if !IsCardType(c.Type) {
			return fmt.Errorf("card %s has unknown type %q", c.ID, c.Type)
		}
	}

	return nil
}

// Clone returns a copy that shares no pointer or slice memory with m.
func (m Match) Clone() Match {
	out := m
	if m.HomeScore != nil {
		v := *m.HomeScore
		out.HomeScore = &v
	}
	if m.AwayScore != nil {
		v := *m.AwayScore
		out.AwayScore = &v
	}
	if m.Goals != nil {
		out.Goals = append([]GoalEvent(nil), m.Goals...)
	}
	if m.Cards != nil {
		out.Cards = append([]CardEvent(nil), m.Cards...)
	}
	return out
}

func CloneAll(items []Match) []Match {
	out := make([]Match, 0, len(items))
	for _, m := range items {
		out = append(out, m.Clone())
	}
	return out
}
