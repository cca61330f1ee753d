package analytics

import (
	"strings"

	"team-ops-system/models"
)

// ChampionFilter enumerates the filters recognized by the stats and draft screens.
// A nil field does not filter.
type ChampionFilter struct {
	Role           *string `json:"role,omitempty"`
	GameVersion    *string `json:"game_version,omitempty"`
	TacticalStyle  *string `json:"tactical_style,omitempty"`
	LaneAllocation *string `json:"lane_allocation,omitempty"`
	ChampionClass  *string `json:"champion_class,omitempty"`
}

// ChampionMeta is the champion-level metadata a filter can be checked against.
type ChampionMeta struct {
	Role           string
	TacticalStyle  string
	LaneAllocation string
	Class          string
}

// IsZero reports whether no filter field is set.
func (f ChampionFilter) IsZero() bool {
	return f.Role == nil && f.GameVersion == nil && f.TacticalStyle == nil &&
		f.LaneAllocation == nil && f.ChampionClass == nil
}

// AllowsMatch checks the match-level fields. A version filter of "14.3" accepts
// "14.3" and "14.3.1" but not "14.30".
func (f ChampionFilter) AllowsMatch(m *models.Match) bool {
	if f.GameVersion == nil {
		return true
	}
	want := strings.TrimSpace(*f.GameVersion)
	return m.GameVersion == want || strings.HasPrefix(m.GameVersion, want+".")
}

// AllowsParticipant checks the row-level role.
func (f ChampionFilter) AllowsParticipant(p *models.MatchParticipant) bool {
	if f.Role == nil {
		return true
	}
	return NormalizeRole(p.Role) == NormalizeRole(*f.Role)
}

// AllowsChampion checks the champion-level metadata. Empty metadata never
// satisfies a set filter.
func (f ChampionFilter) AllowsChampion(meta ChampionMeta) bool {
	if f.Role != nil && NormalizeRole(meta.Role) != NormalizeRole(*f.Role) {
		return false
	}
	if f.TacticalStyle != nil && !strings.EqualFold(meta.TacticalStyle, *f.TacticalStyle) {
		return false
	}
	if f.LaneAllocation != nil && !strings.EqualFold(meta.LaneAllocation, *f.LaneAllocation) {
		return false
	}
	if f.ChampionClass != nil && !strings.EqualFold(meta.Class, *f.ChampionClass) {
		return false
	}
	return true
}

// AllowsStats drops aggregate rows with no games in the filtered role. Rows
// built from participants already passed AllowsParticipant, but ban lists carry
// no role, so ban-only champions have nothing to match a role filter against.
func (f ChampionFilter) AllowsStats(s ChampionStats) bool {
	if f.Role == nil {
		return true
	}
	return s.Games > 0 || s.PlayedAgainst > 0
}
