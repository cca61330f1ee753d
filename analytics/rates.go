package analytics

import (
	"math"
	"regexp"
	"strings"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
)

// Winrate returns round(wins/games*100), or 0 when games is 0.
func Winrate(wins, games int) int {
	if games <= 0 {
		return 0
	}
	return int(math.Round(float64(wins) / float64(games) * 100))
}

// KDA returns (kills+assists)/deaths rounded to one decimal.
// With zero deaths the sum kills+assists is returned as is.
func KDA(kills, deaths, assists int) float64 {
	if deaths == 0 {
		return float64(kills + assists)
	}
	return round1(float64(kills+assists) / float64(deaths))
}

// PerGame returns sum/games rounded to one decimal, or 0 when games is 0.
func PerGame(sum, games int) float64 {
	if games <= 0 {
		return 0
	}
	return round1(float64(sum) / float64(games))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// ChampionKey normalizes a champion name so that "Kai'Sa", "kaisa" and "KAI SA"
// compare equal. Used to join match rows, ban lists, tier lists and catalog entries.
func ChampionKey(name string) string {
	k := cases.Fold().String(unidecode.Unidecode(strings.TrimSpace(name)))
	return nonAlnum.ReplaceAllString(k, "")
}
