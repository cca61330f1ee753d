package analytics

import (
	"sort"
	"time"

	"team-ops-system/models"
)

const (
	scoutingTopN     = 5
	scoutingRoleTopN = 3
)

// PickStat counts a champion picked by the rival and how the rival fared with it.
type PickStat struct {
	Champion string `json:"champion"`
	Picks    int    `json:"picks"`
	Games    int    `json:"games"` // picks in finished matches
	Wins     int    `json:"wins"`  // rival wins
	Winrate  int    `json:"winrate"`
	Tier     string `json:"tier,omitempty"`
}

// BanStat counts how often a champion was banned.
type BanStat struct {
	Champion string `json:"champion"`
	Count    int    `json:"count"`
}

// RosterMember is a rival player with a normalized role.
type RosterMember struct {
	SummonerName string `json:"summoner_name"`
	Role         string `json:"role"`
}

// ScoutingReport summarizes a rival team from our recorded games against them.
type ScoutingReport struct {
	TeamID            string                `json:"team_id"`
	TeamName          string                `json:"team_name"`
	Record            TeamRecord            `json:"record"`
	MostBannedAgainst []BanStat             `json:"most_banned_against"`
	BansByRival       []BanStat             `json:"bans_by_rival"`
	MostPicked        []PickStat            `json:"most_picked"`
	PicksByRole       map[string][]PickStat `json:"picks_by_role"`
	Roster            []RosterMember        `json:"roster"`
	MatchesAnalyzed   int                   `json:"matches_analyzed"`
	GeneratedAt       time.Time             `json:"generated_at"`
}

// BuildScoutingReport assembles a report for team from the matches in which it
// was our opponent. tierList is optional and only annotates picks with a tier.
func BuildScoutingReport(team *models.Team, matches []models.Match, tierList *models.TierList) *ScoutingReport {
	report := &ScoutingReport{
		Record:          RivalRecord(matches),
		PicksByRole:     make(map[string][]PickStat, len(CanonicalRoles)),
		MatchesAnalyzed: len(matches),
	}
	if team != nil {
		report.TeamID = team.ID
		report.TeamName = team.Name
		for _, p := range team.Players {
			report.Roster = append(report.Roster, RosterMember{
				SummonerName: p.SummonerName,
				Role:         NormalizeRole(p.Role),
			})
		}
		sort.SliceStable(report.Roster, func(i, j int) bool {
			return roleOrder(report.Roster[i].Role) < roleOrder(report.Roster[j].Role)
		})
	}

	names := make(displayNames)
	allBans := newBanCounter(names)
	rivalBans := newBanCounter(names)
	picks := newPickCounter(names)
	byRole := make(map[string]*pickCounter, len(CanonicalRoles))
	for _, role := range CanonicalRoles {
		byRole[role] = newPickCounter(names)
	}

	for i := range matches {
		m := &matches[i]
		allBans.addAll(m.BlueBans)
		allBans.addAll(m.RedBans)
		switch m.Side {
		case models.SideBlue:
			rivalBans.addAll(m.RedBans)
		case models.SideRed:
			rivalBans.addAll(m.BlueBans)
		}

		finished := m.IsFinished()
		rivalWon := m.Result == models.ResultLoss
		for j := range m.Participants {
			p := &m.Participants[j]
			if !p.IsEnemy {
				if key := ChampionKey(p.ChampionName); key != "" {
					names.observe(key, p.ChampionName, true)
				}
				continue
			}
			picks.add(p.ChampionName, finished, rivalWon)
			if rc, ok := byRole[NormalizeRole(p.Role)]; ok {
				rc.add(p.ChampionName, finished, rivalWon)
			}
		}
	}

	tiers := tierIndex(tierList)
	report.MostBannedAgainst = allBans.top(scoutingTopN)
	report.BansByRival = rivalBans.top(scoutingTopN)
	report.MostPicked = picks.top(scoutingTopN, tiers)
	for _, role := range CanonicalRoles {
		report.PicksByRole[role] = byRole[role].top(scoutingRoleTopN, tiers)
	}
	return report
}

type banCounter struct {
	counts map[string]*BanStat
	names  displayNames
}

// newBanCounter shares names with the pick counters of the same report, so a
// champion banned as "kaisa" and picked as "Kai'Sa" is labeled "Kai'Sa".
func newBanCounter(names displayNames) *banCounter {
	return &banCounter{counts: make(map[string]*BanStat), names: names}
}

func (c *banCounter) addAll(names []string) {
	for _, name := range names {
		key := ChampionKey(name)
		if key == "" {
			continue
		}
		c.names.observe(key, name, false)
		s, ok := c.counts[key]
		if !ok {
			s = &BanStat{}
			c.counts[key] = s
		}
		s.Count++
	}
}

func (c *banCounter) top(n int) []BanStat {
	out := make([]BanStat, 0, len(c.counts))
	for key, s := range c.counts {
		s.Champion = c.names[key].name
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Champion < out[j].Champion
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

type pickCounter struct {
	counts map[string]*PickStat
	names  displayNames
}

func newPickCounter(names displayNames) *pickCounter {
	if names == nil {
		names = make(displayNames)
	}
	return &pickCounter{counts: make(map[string]*PickStat), names: names}
}

func (c *pickCounter) add(name string, finished, rivalWon bool) {
	key := ChampionKey(name)
	if key == "" {
		return
	}
	c.names.observe(key, name, true)
	s, ok := c.counts[key]
	if !ok {
		s = &PickStat{}
		c.counts[key] = s
	}
	s.Picks++
	if finished {
		s.Games++
		if rivalWon {
			s.Wins++
		}
	}
}

func (c *pickCounter) top(n int, tiers map[string]models.TierListEntry) []PickStat {
	out := make([]PickStat, 0, len(c.counts))
	for key, s := range c.counts {
		s.Champion = c.names[key].name
		s.Winrate = Winrate(s.Wins, s.Games)
		if e, ok := tiers[key]; ok {
			s.Tier = e.Tier
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Picks != out[j].Picks {
			return out[i].Picks > out[j].Picks
		}
		if out[i].Winrate != out[j].Winrate {
			return out[i].Winrate > out[j].Winrate
		}
		return out[i].Champion < out[j].Champion
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// tierIndex keys tier list entries by champion key. Nil lists yield an empty index.
func tierIndex(tl *models.TierList) map[string]models.TierListEntry {
	idx := make(map[string]models.TierListEntry)
	if tl == nil {
		return idx
	}
	for _, e := range tl.Entries {
		key := ChampionKey(e.ChampionName)
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = e
		}
	}
	return idx
}
