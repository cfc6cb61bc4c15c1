package team

import "testing"

func TestTeamValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		team    Team
		wantErr bool
	}{
		{name: "valid", team: Team{ID: "t1", Name: "Ganesa A", Group: "C"}},
		{name: "missing name", team: Team{ID: "t1", Group: "C"}, wantErr: true},
		{name: "long group", team: Team{ID: "t1", Name: "x", Group: "CD"}, wantErr: true},
		{name: "lower group", team: Team{ID: "t1", Name: "x", Group: "c"}, wantErr: true},
		{
			name:    "foreign player",
			team:    Team{ID: "t1", Name: "x", Group: "A", Players: []Player{{ID: "p1", TeamID: "t2", Name: "y"}}},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.team.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCloneDoesNotSharePlayers(t *testing.T) {
	t.Parallel()

	original := Team{ID: "t1", Players: []Player{{ID: "p1", Goals: 1}}}
	clone := original.Clone()
	clone.Players[0].Goals = 5

	if original.Players[0].Goals != 1 {
		t.Fatalf("clone shares player slice")
	}
	if _, idx, ok := clone.FindPlayer("p1"); !ok || idx != 0 {
		t.Fatalf("expected to find p1 at index 0")
	}
}

func TestRecordGoalDifference(t *testing.T) {
	t.Parallel()

	if got := (Record{GoalsFor: 3, GoalsAgainst: 4}).GoalDifference(); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}
