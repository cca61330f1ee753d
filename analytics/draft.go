package analytics

import (
	"sort"

	"team-ops-system/models"
)

// tierRank orders tiers for display; unknown tiers sort last.
var tierRank = map[string]int{"S": 0, "A": 1, "B": 2, "C": 3, "D": 4}

// ResolveTierList picks the tier list a draft session works from: the explicit
// list if the session names one, otherwise the most recently updated active list
// of the session's lineup, otherwise the most recently updated active global list.
// candidates may contain any lists; nil is returned when none qualifies.
func ResolveTierList(session *models.DraftSession, candidates []models.TierList) *models.TierList {
	if session == nil {
		return nil
	}
	if session.TierListID != nil {
		for i := range candidates {
			if candidates[i].ID == *session.TierListID {
				return &candidates[i]
			}
		}
		return nil
	}

	var lineupBest, globalBest *models.TierList
	for i := range candidates {
		tl := &candidates[i]
		if !tl.IsActive {
			continue
		}
		switch {
		case tl.LineupID == nil:
			if globalBest == nil || tl.UpdatedAt.After(globalBest.UpdatedAt) {
				globalBest = tl
			}
		case session.LineupID != nil && *tl.LineupID == *session.LineupID:
			if lineupBest == nil || tl.UpdatedAt.After(lineupBest.UpdatedAt) {
				lineupBest = tl
			}
		}
	}
	if lineupBest != nil {
		return lineupBest
	}
	return globalBest
}

// OwnMatchEligible reports whether m counts towards own-team draft stats:
// a finished SCRIM or TOURNAMENT, on lineupID when one is given.
func OwnMatchEligible(m *models.Match, lineupID *string) bool {
	if m.Type != models.MatchTypeScrim && m.Type != models.MatchTypeTournament {
		return false
	}
	if !m.IsFinished() {
		return false
	}
	if lineupID != nil && (m.LineupID == nil || *m.LineupID != *lineupID) {
		return false
	}
	return true
}

// DraftChampion is an own-team champion row merged with tier list metadata.
type DraftChampion struct {
	ChampionStats
	InTierList     bool   `json:"in_tier_list"`
	Tier           string `json:"tier,omitempty"`
	Priority       int    `json:"priority,omitempty"`
	Role           string `json:"role,omitempty"`
	TacticalStyle  string `json:"tactical_style,omitempty"`
	LaneAllocation string `json:"lane_allocation,omitempty"`
	Class          string `json:"class,omitempty"`
	BanPriority    bool   `json:"ban_priority"`
}

// RivalChampion is a champion as played by the rival, from the rival's perspective.
type RivalChampion struct {
	Champion string `json:"champion"`
	Games    int    `json:"games"`
	Wins     int    `json:"wins"`
	Winrate  int    `json:"winrate"`
}

// RivalView is the rival side of a draft context.
type RivalView struct {
	TeamID    string          `json:"team_id"`
	TeamName  string          `json:"team_name,omitempty"`
	Record    TeamRecord      `json:"record"`
	Champions []RivalChampion `json:"champions"`
}

// DraftInput is everything the draft builder reduces over. Fetching is the
// caller's job; matches may be a superset and are re-checked here.
type DraftInput struct {
	Session      *models.DraftSession
	TierList     *models.TierList
	OwnMatches   []models.Match
	RivalTeam    *models.Team
	RivalMatches []models.Match
	Definitions  []models.ChampionDefinition
	Filter       ChampionFilter
}

// DraftContext is the merged view served to the draft-planning screen.
type DraftContext struct {
	SessionID    string           `json:"session_id"`
	TierList     *models.TierList `json:"tier_list"`
	OwnChampions []DraftChampion  `json:"own_champions"`
	Rival        *RivalView       `json:"rival,omitempty"`
}

// BuildDraftContext merges tier list priorities with own-team and rival history.
func BuildDraftContext(in DraftInput) *DraftContext {
	ctx := &DraftContext{TierList: in.TierList}
	var lineupID *string
	if in.Session != nil {
		ctx.SessionID = in.Session.ID
		lineupID = in.Session.LineupID
	}

	own := make([]models.Match, 0, len(in.OwnMatches))
	for i := range in.OwnMatches {
		if OwnMatchEligible(&in.OwnMatches[i], lineupID) {
			own = append(own, in.OwnMatches[i])
		}
	}
	ctx.OwnChampions = mergeTierList(AggregateMatches(own, in.Filter), in.TierList, in.Definitions, in.Filter)

	if in.Session != nil && in.Session.EnemyTeamID != nil {
		ctx.Rival = buildRivalView(*in.Session.EnemyTeamID, in.RivalTeam, in.RivalMatches, in.Filter)
	}
	return ctx
}

func mergeTierList(stats []ChampionStats, tl *models.TierList, defs []models.ChampionDefinition, f ChampionFilter) []DraftChampion {
	classes := make(map[string]string, len(defs))
	for _, d := range defs {
		classes[ChampionKey(d.Name)] = d.Class
	}
	tiers := tierIndex(tl)

	seen := make(map[string]bool, len(stats))
	out := make([]DraftChampion, 0, len(stats)+len(tiers))
	for _, s := range stats {
		key := ChampionKey(s.Champion)
		seen[key] = true
		dc := DraftChampion{ChampionStats: s, Role: s.PrimaryRole, Class: classes[key]}
		if e, ok := tiers[key]; ok {
			applyTierEntry(&dc, e)
		}
		out = append(out, dc)
	}
	if tl != nil {
		for _, e := range tl.Entries {
			key := ChampionKey(e.ChampionName)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			dc := DraftChampion{ChampionStats: ChampionStats{Champion: e.ChampionName}, Class: classes[key]}
			applyTierEntry(&dc, e)
			out = append(out, dc)
		}
	}

	filtered := out[:0]
	for _, dc := range out {
		meta := ChampionMeta{
			Role:           dc.Role,
			TacticalStyle:  dc.TacticalStyle,
			LaneAllocation: dc.LaneAllocation,
			Class:          dc.Class,
		}
		if f.AllowsChampion(meta) {
			filtered = append(filtered, dc)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if a.InTierList != b.InTierList {
			return a.InTierList
		}
		if a.InTierList {
			ra, rb := tierOrder(a.Tier), tierOrder(b.Tier)
			if ra != rb {
				return ra < rb
			}
			if a.Priority != b.Priority {
				return a.Priority < b.Priority
			}
		}
		if a.Games != b.Games {
			return a.Games > b.Games
		}
		return a.Champion < b.Champion
	})
	return filtered
}

func applyTierEntry(dc *DraftChampion, e models.TierListEntry) {
	dc.InTierList = true
	dc.Tier = e.Tier
	dc.Priority = e.Priority
	if e.Role != "" {
		dc.Role = NormalizeRole(e.Role)
	}
	dc.TacticalStyle = e.TacticalStyle
	dc.LaneAllocation = e.LaneAllocation
	dc.BanPriority = e.IsBan
}

func tierOrder(tier string) int {
	if r, ok := tierRank[tier]; ok {
		return r
	}
	return len(tierRank)
}

func buildRivalView(teamID string, team *models.Team, matches []models.Match, f ChampionFilter) *RivalView {
	view := &RivalView{TeamID: teamID}
	if team != nil {
		view.TeamName = team.Name
	}

	var scoped []models.Match
	for i := range matches {
		m := &matches[i]
		if m.EnemyTeamID == nil || *m.EnemyTeamID != teamID || !f.AllowsMatch(m) {
			continue
		}
		scoped = append(scoped, *m)
	}
	view.Record = RivalRecord(scoped)

	picks := newPickCounter(nil)
	for i := range scoped {
		m := &scoped[i]
		if !m.IsFinished() {
			continue
		}
		for j := range m.Participants {
			p := &m.Participants[j]
			if p.IsEnemy && f.AllowsParticipant(p) {
				picks.add(p.ChampionName, true, m.Result == models.ResultLoss)
			}
		}
	}
	for _, s := range picks.top(len(picks.counts), nil) {
		view.Champions = append(view.Champions, RivalChampion{
			Champion: s.Champion,
			Games:    s.Games,
			Wins:     s.Wins,
			Winrate:  s.Winrate,
		})
	}
	return view
}
