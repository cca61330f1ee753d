package services

import (
	"strings"

	"team-ops-system/analytics"
	"team-ops-system/models"

	"github.com/gofiber/fiber/v2"
)

type StatsService struct {
	Repo StatsRepository
}

func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{Repo: repo}
}

// ChampionStatsResponse is the payload of GET /stats/champions.
type ChampionStatsResponse struct {
	Record    analytics.TeamRecord      `json:"record"`
	Champions []analytics.ChampionStats `json:"champions"`
	Filter    analytics.ChampionFilter  `json:"filter"`
}

// GetChampionStats aggregates our champion pool over finished matches.
// Query: lineup_id, type (comma list, default SCRIM,TOURNAMENT), role,
// game_version, champion_class. Tier-list filters only apply on the draft screen.
func (s *StatsService) GetChampionStats(c *fiber.Ctx) error {
	types := defaultStatsTypes()
	if raw := c.Query("type"); raw != "" {
		types = types[:0]
		for _, t := range strings.Split(raw, ",") {
			t = strings.ToUpper(strings.TrimSpace(t))
			switch t {
			case models.MatchTypeScrim, models.MatchTypeSoloQ, models.MatchTypeTournament:
				types = append(types, t)
			case "":
			default:
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown match type: " + t})
			}
		}
		if len(types) == 0 {
			types = defaultStatsTypes()
		}
	}

	filter := parseChampionFilter(c)
	matches, err := s.Repo.FindMatches(c.UserContext(), MatchQuery{
		Types:        types,
		FinishedOnly: true,
		LineupID:     optionalQuery(c, "lineup_id"),
	})
	if err != nil {
		return respondError(c, err)
	}

	champions := analytics.AggregateMatches(matches, filter)
	if filter.Role != nil {
		kept := champions[:0]
		for _, cs := range champions {
			if filter.AllowsStats(cs) {
				kept = append(kept, cs)
			}
		}
		champions = kept
	}
	if filter.ChampionClass != nil {
		defs, err := s.Repo.ListChampionDefinitions(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		champions = filterByClass(champions, defs, *filter.ChampionClass)
	}

	scoped := matches[:0:0]
	for i := range matches {
		if filter.AllowsMatch(&matches[i]) {
			scoped = append(scoped, matches[i])
		}
	}

	return c.JSON(ChampionStatsResponse{
		Record:    analytics.HomeRecord(scoped),
		Champions: champions,
		Filter:    filter,
	})
}

func defaultStatsTypes() []string {
	return []string{models.MatchTypeScrim, models.MatchTypeTournament}
}

func filterByClass(stats []analytics.ChampionStats, defs []models.ChampionDefinition, class string) []analytics.ChampionStats {
	classes := make(map[string]string, len(defs))
	for _, d := range defs {
		classes[analytics.ChampionKey(d.Name)] = d.Class
	}
	out := make([]analytics.ChampionStats, 0, len(stats))
	for _, s := range stats {
		if strings.EqualFold(classes[analytics.ChampionKey(s.Champion)], class) {
			out = append(out, s)
		}
	}
	return out
}
