package analytics

import "team-ops-system/models"

func strPtr(s string) *string { return &s }

func ally(champ, role string, k, d, a int) models.MatchParticipant {
	return models.MatchParticipant{
		ChampionName:    champ,
		Role:            role,
		PlayerProfileID: strPtr("profile-" + role),
		Kills:           k,
		Deaths:          d,
		Assists:         a,
	}
}

func enemy(champ, role string) models.MatchParticipant {
	return models.MatchParticipant{ChampionName: champ, Role: role, IsEnemy: true, Kills: 9, Deaths: 1, Assists: 9, CS: 300, Damage: 40000}
}

func match(typ, result string, parts ...models.MatchParticipant) models.Match {
	return models.Match{Type: typ, Result: result, Side: models.SideBlue, Participants: parts}
}

func findChampion(t interface{ Fatalf(string, ...any) }, stats []ChampionStats, name string) ChampionStats {
	for _, s := range stats {
		if s.Champion == name {
			return s
		}
	}
	t.Fatalf("champion %q not found in %d rows", name, len(stats))
	return ChampionStats{}
}
