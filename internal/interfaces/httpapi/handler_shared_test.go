package httpapi

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestNewValidator_CustomRules(t *testing.T) {
	t.Parallel()

	v, err := newValidator()
	if err != nil {
		t.Fatalf("newValidator: %v", err)
	}

	tests := []struct {
		name    string
		payload any
		valid   bool
	}{
		{name: "known group", payload: &createTeamRequest{Name: "Alpha", Group: "a"}, valid: true},
		{name: "multi-letter group", payload: &createTeamRequest{Name: "Alpha", Group: "AB"}},
		{name: "date", payload: &generateScheduleRequest{StartDate: "2024-04-01"}, valid: true},
		{name: "empty date", payload: &generateScheduleRequest{}, valid: true},
		{name: "bad date", payload: &generateScheduleRequest{StartDate: "01/04/2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.payload)
			if (err == nil) != tt.valid {
				t.Fatalf("valid=%v want %v (err=%v)", err == nil, tt.valid, err)
			}
		})
	}
}

func TestRegisterRules_ReportsBadRule(t *testing.T) {
	t.Parallel()

	v := validator.New()
	err := registerRules(v, []requestRule{
		{tag: "group", fn: requestRules[0].fn},
		{tag: "", fn: requestRules[1].fn},
	})
	if err == nil {
		t.Fatalf("expected an error for an empty tag")
	}
}
