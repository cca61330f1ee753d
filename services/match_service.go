package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"team-ops-system/analytics"
	"team-ops-system/logging"
	"team-ops-system/models"
	"team-ops-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultMatchListLimit = 20
	maxMatchListLimit     = 200
	maxImportBatch        = 500
)

// ReportInvalidator drops cached reports of a rival after new matches arrive.
type ReportInvalidator interface {
	InvalidateTeam(ctx context.Context, teamID string)
}

type MatchService struct {
	DB          *gorm.DB
	Repo        StatsRepository
	Invalidator ReportInvalidator
}

func NewMatchService(db *gorm.DB, repo StatsRepository, inv ReportInvalidator) *MatchService {
	return &MatchService{DB: db, Repo: repo, Invalidator: inv}
}

type ParticipantInput struct {
	ChampionName    string  `json:"champion_name"`
	Role            string  `json:"role"`
	IsEnemy         bool    `json:"is_enemy"`
	PlayerProfileID *string `json:"player_profile_id"`
	Kills           int     `json:"kills"`
	Deaths          int     `json:"deaths"`
	Assists         int     `json:"assists"`
	CS              int     `json:"cs"`
	Damage          int     `json:"damage"`
	VisionScore     int     `json:"vision_score"`
}

// MatchInput is the ingestion payload. EnemyTeamName is used to find or create
// the rival when EnemyTeamID is not known to the recorder.
type MatchInput struct {
	Type          string             `json:"type"`
	Result        string             `json:"result"`
	Side          string             `json:"side"`
	BlueBans      []string           `json:"blue_bans"`
	RedBans       []string           `json:"red_bans"`
	EnemyTeamID   *string            `json:"enemy_team_id"`
	EnemyTeamName string             `json:"enemy_team_name"`
	LineupID      *string            `json:"lineup_id"`
	DurationSec   int                `json:"duration_sec"`
	GameVersion   string             `json:"game_version"`
	PlayedAt      *time.Time         `json:"played_at"`
	Participants  []ParticipantInput `json:"participants"`
}

// ValidationError is returned for payloads that cannot be stored.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// BuildMatch validates in and converts it into a model with fresh IDs.
// Roles are normalized here so stored rows only carry canonical labels.
func BuildMatch(in MatchInput) (*models.Match, error) {
	m := &models.Match{
		ID:          uuid.NewString(),
		Type:        strings.ToUpper(strings.TrimSpace(in.Type)),
		Result:      strings.ToUpper(strings.TrimSpace(in.Result)),
		Side:        strings.ToUpper(strings.TrimSpace(in.Side)),
		BlueBans:    cleanBans(in.BlueBans),
		RedBans:     cleanBans(in.RedBans),
		EnemyTeamID: in.EnemyTeamID,
		LineupID:    in.LineupID,
		DurationSec: in.DurationSec,
		GameVersion: strings.TrimSpace(in.GameVersion),
		PlayedAt:    in.PlayedAt,
	}

	switch m.Type {
	case models.MatchTypeScrim, models.MatchTypeSoloQ, models.MatchTypeTournament:
	default:
		return nil, invalid("type", "must be SCRIM, SOLOQ or TOURNAMENT")
	}
	switch m.Result {
	case "", models.ResultWin, models.ResultLoss, models.ResultRemake:
	default:
		return nil, invalid("result", "must be WIN, LOSS, REMAKE or empty")
	}
	switch m.Side {
	case "", models.SideBlue, models.SideRed:
	default:
		return nil, invalid("side", "must be BLUE or RED")
	}
	if m.DurationSec < 0 {
		return nil, invalid("duration_sec", "must not be negative")
	}
	if len(in.Participants) > 10 {
		return nil, invalid("participants", "at most 10 per match")
	}

	for i, p := range in.Participants {
		field := "participants[" + strconv.Itoa(i) + "]"
		name := strings.TrimSpace(p.ChampionName)
		if name == "" {
			return nil, invalid(field+".champion_name", "required")
		}
		if p.Kills < 0 || p.Deaths < 0 || p.Assists < 0 || p.CS < 0 || p.Damage < 0 || p.VisionScore < 0 {
			return nil, invalid(field, "stats must not be negative")
		}
		role := analytics.NormalizeRole(p.Role)
		if role != "" && !analytics.IsCanonicalRole(role) {
			return nil, invalid(field+".role", "unknown role "+p.Role)
		}
		profile := p.PlayerProfileID
		if p.IsEnemy {
			profile = nil
		}
		m.Participants = append(m.Participants, models.MatchParticipant{
			ID:              uuid.NewString(),
			MatchID:         m.ID,
			ChampionName:    name,
			Role:            role,
			IsEnemy:         p.IsEnemy,
			PlayerProfileID: profile,
			Kills:           p.Kills,
			Deaths:          p.Deaths,
			Assists:         p.Assists,
			CS:              p.CS,
			Damage:          p.Damage,
			VisionScore:     p.VisionScore,
		})
	}
	return m, nil
}

func cleanBans(bans []string) []string {
	out := make([]string, 0, len(bans))
	for _, b := range bans {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// store writes matches and their participants in one transaction, creating
// rival teams by slug on first sight.
func (s *MatchService) store(ctx context.Context, inputs []MatchInput) ([]models.Match, error) {
	built := make([]models.Match, 0, len(inputs))
	names := make([]string, 0, len(inputs))
	for i, in := range inputs {
		m, err := BuildMatch(in)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) && len(inputs) > 1 {
				ve.Field = "matches[" + strconv.Itoa(i) + "]." + ve.Field
			}
			return nil, err
		}
		built = append(built, *m)
		names = append(names, strings.TrimSpace(in.EnemyTeamName))
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range built {
			if built[i].EnemyTeamID == nil && names[i] != "" {
				id, err := findOrCreateTeam(tx, names[i])
				if err != nil {
					return err
				}
				built[i].EnemyTeamID = &id
			}
			if err := tx.Create(&built[i]).Error; err != nil {
				return fmt.Errorf("create match: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store matches: %w: %v", ErrDataUnavailable, err)
	}

	if s.Invalidator != nil {
		seen := make(map[string]bool)
		for _, m := range built {
			if m.EnemyTeamID != nil && !seen[*m.EnemyTeamID] {
				seen[*m.EnemyTeamID] = true
				s.Invalidator.InvalidateTeam(ctx, *m.EnemyTeamID)
			}
		}
	}
	return built, nil
}

func findOrCreateTeam(tx *gorm.DB, name string) (string, error) {
	team := models.Team{ID: uuid.NewString(), Name: name, Slug: utils.TeamSlug(name)}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&team).Error
	if err != nil {
		return "", fmt.Errorf("create team %q: %w", name, err)
	}

	var existing models.Team
	if err := tx.Select("id").First(&existing, "slug = ?", team.Slug).Error; err != nil {
		return "", fmt.Errorf("lookup team %q: %w", name, err)
	}
	return existing.ID, nil
}

func validationResponse(c *fiber.Ctx, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid match",
			"cause": ve.Error(),
		})
	}
	return respondError(c, err)
}

// CreateMatch handles POST /matches.
func (s *MatchService) CreateMatch(c *fiber.Ctx) error {
	var input MatchInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body", "cause": err.Error()})
	}

	stored, err := s.store(c.UserContext(), []MatchInput{input})
	if err != nil {
		return validationResponse(c, err)
	}
	logging.Logger().Infof("[MATCHES] recorded %s match %s (%d participants)",
		stored[0].Type, stored[0].ID, len(stored[0].Participants))
	return c.Status(fiber.StatusCreated).JSON(stored[0])
}

// ImportMatches handles POST /internal/matches/import for recorder batches.
func (s *MatchService) ImportMatches(c *fiber.Ctx) error {
	var input struct {
		Matches []MatchInput `json:"matches"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body", "cause": err.Error()})
	}
	if len(input.Matches) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no matches in batch"})
	}
	if len(input.Matches) > maxImportBatch {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": fmt.Sprintf("batch exceeds %d matches", maxImportBatch),
		})
	}

	stored, err := s.store(c.UserContext(), input.Matches)
	if err != nil {
		return validationResponse(c, err)
	}

	ids := make([]string, len(stored))
	for i, m := range stored {
		ids[i] = m.ID
	}
	logging.Logger().Infof("[IMPORT] stored %d matches", len(stored))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"imported": len(ids), "ids": ids})
}

// ListMatches handles GET /matches?limit=&type=&lineup_id=.
func (s *MatchService) ListMatches(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultMatchListLimit)
	if limit <= 0 || limit > maxMatchListLimit {
		limit = defaultMatchListLimit
	}

	q := MatchQuery{Limit: limit, LineupID: optionalQuery(c, "lineup_id")}
	if t := strings.ToUpper(strings.TrimSpace(c.Query("type"))); t != "" {
		q.Types = []string{t}
	}

	matches, err := s.Repo.FindMatches(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"matches": matches, "count": len(matches)})
}
