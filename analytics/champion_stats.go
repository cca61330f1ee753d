package analytics

import (
	"sort"
	"strings"

	"team-ops-system/models"
)

// ParticipantRecord is one participant row tagged with its parent match.
type ParticipantRecord struct {
	models.MatchParticipant
	MatchType   string
	Result      string
	Side        string
	GameVersion string
}

// BanList holds the ban phase of one match.
type BanList struct {
	Blue []string
	Red  []string
}

// ChampionStats is the per-champion aggregate of our own performance.
type ChampionStats struct {
	Champion    string `json:"champion"`
	PrimaryRole string `json:"primary_role,omitempty"`

	Games   int `json:"games"`
	Wins    int `json:"wins"`
	Winrate int `json:"winrate"`

	Kills       int     `json:"kills"`
	Deaths      int     `json:"deaths"`
	Assists     int     `json:"assists"`
	CS          int     `json:"cs"`
	Damage      int     `json:"damage"`
	VisionScore int     `json:"vision_score"`
	KDA         float64 `json:"kda"`

	AvgKills   float64 `json:"avg_kills"`
	AvgDeaths  float64 `json:"avg_deaths"`
	AvgAssists float64 `json:"avg_assists"`
	AvgCS      float64 `json:"avg_cs"`
	AvgDamage  float64 `json:"avg_damage"`
	AvgVision  float64 `json:"avg_vision"`

	Bans int `json:"bans"`

	// Enemy picks of this champion and how many of those games we won.
	PlayedAgainst int `json:"played_against"`
	WinsAgainst   int `json:"wins_against"`

	roleGames map[string]int
}

// Flatten turns matches into participant records and ban lists, dropping
// matches and rows the filter rejects. Champion-level filters are not applied here.
func Flatten(matches []models.Match, f ChampionFilter) ([]ParticipantRecord, []BanList) {
	var records []ParticipantRecord
	var bans []BanList
	for i := range matches {
		m := &matches[i]
		if !f.AllowsMatch(m) {
			continue
		}
		bans = append(bans, BanList{Blue: m.BlueBans, Red: m.RedBans})
		for j := range m.Participants {
			p := &m.Participants[j]
			if !f.AllowsParticipant(p) {
				continue
			}
			records = append(records, ParticipantRecord{
				MatchParticipant: *p,
				MatchType:        m.Type,
				Result:           m.Result,
				Side:             m.Side,
				GameVersion:      m.GameVersion,
			})
		}
	}
	return records, bans
}

// AggregateChampions reduces participant records and ban lists into per-champion
// stats. Only ally rows linked to a player profile feed games and performance;
// enemy rows only feed PlayedAgainst/WinsAgainst. Champions seen only in ban
// lists are included with zero performance.
func AggregateChampions(records []ParticipantRecord, bans []BanList) []ChampionStats {
	acc := newChampionAccumulator()

	for i := range records {
		r := &records[i]
		s := acc.get(r.ChampionName, true)
		if s == nil {
			continue
		}
		won := r.Result == models.ResultWin
		switch {
		case r.IsEnemy:
			s.PlayedAgainst++
			if won {
				s.WinsAgainst++
			}
		case r.PlayerProfileID != nil:
			s.Games++
			if won {
				s.Wins++
			}
			s.Kills += r.Kills
			s.Deaths += r.Deaths
			s.Assists += r.Assists
			s.CS += r.CS
			s.Damage += r.Damage
			s.VisionScore += r.VisionScore
			if role := NormalizeRole(r.Role); role != "" {
				s.roleGames[role]++
			}
		}
	}

	for _, b := range bans {
		for _, name := range b.Blue {
			if s := acc.get(name, false); s != nil {
				s.Bans++
			}
		}
		for _, name := range b.Red {
			if s := acc.get(name, false); s != nil {
				s.Bans++
			}
		}
	}

	return acc.finish()
}

// AggregateMatches is Flatten followed by AggregateChampions.
func AggregateMatches(matches []models.Match, f ChampionFilter) []ChampionStats {
	records, bans := Flatten(matches, f)
	return AggregateChampions(records, bans)
}

type championAccumulator struct {
	byKey map[string]*ChampionStats
	names displayNames
}

func newChampionAccumulator() *championAccumulator {
	return &championAccumulator{byKey: make(map[string]*ChampionStats), names: make(displayNames)}
}

// get returns the accumulator for name, creating it on first sight.
// Blank names return nil. fromPick marks names taken from participant rows,
// whose spelling replaces one first seen in a ban list.
func (a *championAccumulator) get(name string, fromPick bool) *ChampionStats {
	key := ChampionKey(name)
	if key == "" {
		return nil
	}
	s, ok := a.byKey[key]
	if !ok {
		s = &ChampionStats{roleGames: make(map[string]int)}
		a.byKey[key] = s
	}
	s.Champion = a.names.observe(key, name, fromPick)
	return s
}

// displayNames keeps one label per champion key, preferring participant rows
// over ban entries, which are often typed by hand.
type displayNames map[string]displayName

type displayName struct {
	name     string
	fromPick bool
}

func (d displayNames) observe(key, name string, fromPick bool) string {
	cur, ok := d[key]
	if !ok || (fromPick && !cur.fromPick) {
		cur = displayName{name: strings.TrimSpace(name), fromPick: fromPick}
		d[key] = cur
	}
	return cur.name
}

func (a *championAccumulator) finish() []ChampionStats {
	out := make([]ChampionStats, 0, len(a.byKey))
	for _, s := range a.byKey {
		s.finalize()
		out = append(out, *s)
	}
	sortChampionStats(out)
	return out
}

func (s *ChampionStats) finalize() {
	s.Winrate = Winrate(s.Wins, s.Games)
	if s.Games > 0 {
		s.KDA = KDA(s.Kills, s.Deaths, s.Assists)
	}
	s.AvgKills = PerGame(s.Kills, s.Games)
	s.AvgDeaths = PerGame(s.Deaths, s.Games)
	s.AvgAssists = PerGame(s.Assists, s.Games)
	s.AvgCS = PerGame(s.CS, s.Games)
	s.AvgDamage = PerGame(s.Damage, s.Games)
	s.AvgVision = PerGame(s.VisionScore, s.Games)
	s.PrimaryRole = primaryRole(s.roleGames)
}

// primaryRole picks the most played role, breaking ties by lane order.
func primaryRole(counts map[string]int) string {
	best, bestN := "", 0
	for role, n := range counts {
		if n > bestN || (n == bestN && roleOrder(role) < roleOrder(best)) {
			best, bestN = role, n
		}
	}
	return best
}

func sortChampionStats(stats []ChampionStats) {
	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.Games != b.Games {
			return a.Games > b.Games
		}
		if a.Bans != b.Bans {
			return a.Bans > b.Bans
		}
		if a.PlayedAgainst != b.PlayedAgainst {
			return a.PlayedAgainst > b.PlayedAgainst
		}
		return a.Champion < b.Champion
	})
}

// TeamRecord is a win/loss record from one side's perspective.
type TeamRecord struct {
	Games          int     `json:"games"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	Remakes        int     `json:"remakes"`
	Winrate        int     `json:"winrate"`
	AvgDurationSec float64 `json:"avg_duration_sec"`
}

// HomeRecord computes our record over matches. Games counts WIN and LOSS only.
func HomeRecord(matches []models.Match) TeamRecord {
	return teamRecord(matches, false)
}

// RivalRecord computes the opponent's record over matches played against them.
// Results are stored from our perspective, so a stored LOSS is a rival win.
func RivalRecord(matches []models.Match) TeamRecord {
	return teamRecord(matches, true)
}

func teamRecord(matches []models.Match, invert bool) TeamRecord {
	var rec TeamRecord
	duration := 0
	for i := range matches {
		m := &matches[i]
		switch m.Result {
		case models.ResultWin, models.ResultLoss:
			rec.Games++
			duration += m.DurationSec
			if (m.Result == models.ResultWin) != invert {
				rec.Wins++
			} else {
				rec.Losses++
			}
		case models.ResultRemake:
			rec.Remakes++
		}
	}
	rec.Winrate = Winrate(rec.Wins, rec.Games)
	rec.AvgDurationSec = PerGame(duration, rec.Games)
	return rec
}
