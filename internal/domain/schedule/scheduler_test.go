package schedule

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/riskibarqy/football-tournament/internal/domain/match"
	"github.com/riskibarqy/football-tournament/internal/domain/team"
)

type sequenceIDs struct {
	next int
}

func (s *sequenceIDs) NewID() (string, error) {
	s.next++
	return fmt.Sprintf("m%03d", s.next), nil
}

type failingIDs struct{}

func (failingIDs) NewID() (string, error) {
	return "", errors.New("entropy exhausted")
}

func newTestScheduler(seed int64) *Scheduler {
	return New(Options{
		Venue: "Lapangan Gelora Babakan Girihieum",
		Rand:  rand.New(rand.NewSource(seed)),
		Now: func() time.Time {
			return time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)
		},
		IDs: &sequenceIDs{},
	})
}

func groupOf(group string, ids ...string) []team.Team {
	out := make([]team.Team, 0, len(ids))
	for _, id := range ids {
		out = append(out, team.Team{ID: id, Name: "Team " + id, Group: group})
	}
	return out
}

func TestGenerate_FourTeamGroup(t *testing.T) {
	t.Parallel()

	result, err := newTestScheduler(1).Generate("2024-01-01", groupOf("A", "a", "b", "c", "d"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Matches) != 6 {
		t.Fatalf("expected 6 matches, got %d", len(result.Matches))
	}
	if result.Shortfall() != 0 {
		t.Fatalf("expected no shortfall, got %d", result.Shortfall())
	}

	dates := make(map[string]struct{})
	for _, m := range result.Matches {
		if m.Status != match.StatusScheduled {
			t.Fatalf("expected scheduled status, got %s", m.Status)
		}
		if m.HomeScore != nil || m.AwayScore != nil {
			t.Fatalf("expected nil scores on match %s", m.ID)
		}
		if len(m.Goals) != 0 || len(m.Cards) != 0 {
			t.Fatalf("expected no events on match %s", m.ID)
		}
		if m.Venue != "Lapangan Gelora Babakan Girihieum" {
			t.Fatalf("unexpected venue %q", m.Venue)
		}
		if m.Group != "A" {
			t.Fatalf("unexpected group %q", m.Group)
		}
		if m.Date < "2024-01-01" {
			t.Fatalf("match %s scheduled before start date: %s", m.ID, m.Date)
		}
		dates[m.Date] = struct{}{}
	}
	if len(dates) < 2 {
		t.Fatalf("expected matches on at least 2 dates, got %d", len(dates))
	}

	assertRoundRobin(t, result.Matches, map[string][]string{"A": {"a", "b", "c", "d"}})
	assertNoTeamTwicePerDate(t, result.Matches)
	assertSlotCapacity(t, result.Matches)
}

func TestGenerate_MultipleGroupsInvariants(t *testing.T) {
	t.Parallel()

	teams := append(groupOf("A", "a1", "a2", "a3", "a4", "a5", "a6"), groupOf("B", "b1", "b2", "b3", "b4", "b5")...)
	teams = append(teams, groupOf("C", "c1", "c2", "c3", "c4", "c5")...)
	teams = append(teams, groupOf("D", "d1", "d2", "d3", "d4", "d5", "d6")...)

	for seed := int64(1); seed <= 5; seed++ {
		result, err := newTestScheduler(seed).Generate("2025-07-01", teams)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if result.Total != 15+10+10+15 {
			t.Fatalf("seed %d: expected 50 pairings, got %d", seed, result.Total)
		}
		if result.Shortfall() != 0 {
			t.Fatalf("seed %d: expected full schedule, shortfall %d", seed, result.Shortfall())
		}

		assertRoundRobin(t, result.Matches, map[string][]string{
			"A": {"a1", "a2", "a3", "a4", "a5", "a6"},
			"B": {"b1", "b2", "b3", "b4", "b5"},
			"C": {"c1", "c2", "c3", "c4", "c5"},
			"D": {"d1", "d2", "d3", "d4", "d5", "d6"},
		})
		assertNoTeamTwicePerDate(t, result.Matches)
		assertSlotCapacity(t, result.Matches)
	}
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	t.Parallel()

	teams := groupOf("A", "a", "b", "c", "d", "e")
	first, err := newTestScheduler(42).Generate("2024-01-01", teams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := newTestScheduler(42).Generate("2024-01-01", teams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Matches) != len(second.Matches) {
		t.Fatalf("match count differs: %d vs %d", len(first.Matches), len(second.Matches))
	}
	for i := range first.Matches {
		a, b := first.Matches[i], second.Matches[i]
		if a.HomeTeamID != b.HomeTeamID || a.AwayTeamID != b.AwayTeamID || a.Date != b.Date || a.Time != b.Time {
			t.Fatalf("match %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestGenerate_EmptyStartDateUsesClock(t *testing.T) {
	t.Parallel()

	result, err := newTestScheduler(7).Generate("", groupOf("A", "a", "b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(result.Matches))
	}
	if got := result.Matches[0].Date; got != "2024-03-10" {
		t.Fatalf("expected date 2024-03-10, got %s", got)
	}
	if got := result.Matches[0].Time; got != "13:30" {
		t.Fatalf("expected first slot 13:30, got %s", got)
	}
}

func TestGenerate_ShortfallIsNotAnError(t *testing.T) {
	t.Parallel()

	s := New(Options{
		MinRestDays: 30,
		Rand:        rand.New(rand.NewSource(3)),
		IDs:         &sequenceIDs{},
	})

	result, err := s.Generate("2024-01-01", groupOf("A", "a", "b", "c", "d"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 6 {
		t.Fatalf("expected 6 pairings, got %d", result.Total)
	}
	if result.Scheduled() != 4 {
		t.Fatalf("expected 4 scheduled matches, got %d", result.Scheduled())
	}
	if result.Shortfall() != 2 {
		t.Fatalf("expected shortfall 2, got %d", result.Shortfall())
	}
	if result.Passes != 42 {
		t.Fatalf("expected pass budget of 42 to be exhausted, got %d", result.Passes)
	}
}

func TestGenerate_SkipsSmallGroups(t *testing.T) {
	t.Parallel()

	teams := append(groupOf("A", "a", "b", "c"), groupOf("B", "lonely")...)
	result, err := newTestScheduler(9).Generate("2024-01-01", teams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(result.Matches))
	}
	if len(result.SkippedGroups) != 1 || result.SkippedGroups[0] != "B" {
		t.Fatalf("expected group B skipped, got %v", result.SkippedGroups)
	}
}

func TestGenerate_InputErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		startDate string
		teams     []team.Team
		want      error
	}{
		{name: "no teams", startDate: "2024-01-01", want: ErrNoTeams},
		{name: "every group too small", startDate: "2024-01-01", teams: append(groupOf("A", "a"), groupOf("B", "b")...), want: ErrNoPairings},
		{name: "blank team id", startDate: "2024-01-01", teams: []team.Team{{ID: "a", Group: "A"}, {ID: " ", Group: "A"}}, want: ErrUnknownTeam},
		{name: "bad start date", startDate: "01/02/2024", teams: groupOf("A", "a", "b"), want: ErrInvalidStartDate},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result, err := newTestScheduler(1).Generate(tc.startDate, tc.teams)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected error to wrap ErrInvalidInput, got %v", err)
			}
			if len(result.Matches) != 0 {
				t.Fatalf("expected empty result, got %d matches", len(result.Matches))
			}
		})
	}
}

func TestGenerate_IDFailureAborts(t *testing.T) {
	t.Parallel()

	s := New(Options{Rand: rand.New(rand.NewSource(1)), IDs: failingIDs{}})
	_, err := s.Generate("2024-01-01", groupOf("A", "a", "b"))
	if err == nil {
		t.Fatalf("expected error when id generation fails")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Fatalf("id failure must not be reported as invalid input: %v", err)
	}
}

func assertRoundRobin(t *testing.T, matches []match.Match, groups map[string][]string) {
	t.Helper()

	seen := make(map[string]int)
	for _, m := range matches {
		a, b := m.HomeTeamID, m.AwayTeamID
		if a > b {
			a, b = b, a
		}
		seen[m.Group+"|"+a+"|"+b]++
	}

	expected := 0
	for group, ids := range groups {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				if a > b {
					a, b = b, a
				}
				key := group + "|" + a + "|" + b
				if seen[key] != 1 {
					t.Fatalf("expected pairing %s exactly once, got %d", key, seen[key])
				}
				expected++
			}
		}
	}
	if len(matches) != expected {
		t.Fatalf("expected %d matches, got %d", expected, len(matches))
	}
}

func assertNoTeamTwicePerDate(t *testing.T, matches []match.Match) {
	t.Helper()

	played := make(map[string]string)
	for _, m := range matches {
		for _, id := range []string{m.HomeTeamID, m.AwayTeamID} {
			key := m.Date + "|" + id
			if other, ok := played[key]; ok {
				t.Fatalf("team %s plays twice on %s (matches %s and %s)", id, m.Date, other, m.ID)
			}
			played[key] = m.ID
		}
	}
}

func assertSlotCapacity(t *testing.T, matches []match.Match) {
	t.Helper()

	perDate := make(map[string]map[string]struct{})
	for _, m := range matches {
		if !match.IsSlot(m.Time) {
			t.Fatalf("match %s has invalid slot %q", m.ID, m.Time)
		}
		slots, ok := perDate[m.Date]
		if !ok {
			slots = make(map[string]struct{})
			perDate[m.Date] = slots
		}
		if _, taken := slots[m.Time]; taken {
			t.Fatalf("slot %s on %s used twice", m.Time, m.Date)
		}
		slots[m.Time] = struct{}{}
		if len(slots) > len(match.Slots) {
			t.Fatalf("more than %d matches on %s", len(match.Slots), m.Date)
		}
	}
}
