package memory

import (
	"strings"

	"github.com/riskibarqy/football-tournament/internal/domain/team"
)

var seedGroups = []struct {
	key   string
	teams []string
}{
	{key: "A", teams: []string{"REMAJA PUTRA A", "PALAPA A", "TOXNET A", "PERU FC B", "LEMKA B", "PORBA JAYA A"}},
	{key: "B", teams: []string{"DL GUNS", "TOXNET B", "PORBA JAYA B", "PUTRA MANDIRI B", "REMAJA PUTRA B"}},
	{key: "C", teams: []string{"GANESA A", "REMAJA PUTRA C", "PERU FC C", "PERKID FC", "PUTRA MANDIRI A"}},
	{key: "D", teams: []string{"LEMKA A", "BALPAS FC", "ARUMBA FC", "GANESA B", "PERU FC A", "PELANA FC"}},
}

// SeedTeams returns the default four-group tournament with empty squads.
// IDs are derived from group and name so reseeding is stable.
func SeedTeams() []team.Team {
	var out []team.Team
	for _, group := range seedGroups {
		for _, name := range group.teams {
			out = append(out, team.Team{
				ID:      SeedTeamID(group.key, name),
				Name:    name,
				Group:   group.key,
				Players: []team.Player{},
			})
		}
	}
	return out
}

func SeedTeamID(group, name string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(name), "-"))
	return strings.ToLower(group) + "-" + slug
}
