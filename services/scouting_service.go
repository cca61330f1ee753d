package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"team-ops-system/analytics"
	"team-ops-system/logging"
	"team-ops-system/models"
	"team-ops-system/utils"

	"github.com/gofiber/fiber/v2"
)

// ReportUploader stores an exported report and returns its public URL.
// *utils.R2Client satisfies it.
type ReportUploader interface {
	UploadJSON(ctx context.Context, key string, body []byte) (string, error)
}

type ScoutingService struct {
	Repo     StatsRepository
	Cache    ReportCache
	Uploader ReportUploader
	Now      func() time.Time
}

func NewScoutingService(repo StatsRepository, cache ReportCache, uploader ReportUploader) *ScoutingService {
	if cache == nil {
		cache = NopReportCache{}
	}
	return &ScoutingService{Repo: repo, Cache: cache, Uploader: uploader, Now: time.Now}
}

// Report returns the scouting report for teamID, from cache when possible.
// The boolean reports whether the cache served it.
func (s *ScoutingService) Report(ctx context.Context, teamID string) (*analytics.ScoutingReport, bool, error) {
	cached, ok, err := s.Cache.Get(ctx, teamID)
	if err != nil {
		logging.Logger().Warnf("[SCOUTING] cache read for %s failed: %v", teamID, err)
	} else if ok {
		return cached, true, nil
	}

	report, err := s.Build(ctx, teamID)
	if err != nil {
		return nil, false, err
	}
	if err := s.Cache.Set(ctx, teamID, report); err != nil {
		logging.Logger().Warnf("[SCOUTING] cache write for %s failed: %v", teamID, err)
	}
	return report, false, nil
}

// Build always recomputes the report from the database.
func (s *ScoutingService) Build(ctx context.Context, teamID string) (*analytics.ScoutingReport, error) {
	team, err := s.Repo.FindTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	matches, err := s.Repo.FindMatches(ctx, MatchQuery{EnemyTeamID: &team.ID})
	if err != nil {
		return nil, err
	}
	lists, err := s.Repo.ListActiveTierLists(ctx, nil)
	if err != nil {
		return nil, err
	}

	report := analytics.BuildScoutingReport(team, matches, analytics.ResolveTierList(&models.DraftSession{}, lists))
	report.GeneratedAt = s.Now().UTC()
	return report, nil
}

// Warm rebuilds and caches the report of every known team.
func (s *ScoutingService) Warm(ctx context.Context) error {
	ids, err := s.Repo.ListTeamIDs(ctx)
	if err != nil {
		return err
	}
	warmed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		report, err := s.Build(ctx, id)
		if err != nil {
			logging.Logger().Errorf("[SCOUTING] warm %s: %v", id, err)
			continue
		}
		if err := s.Cache.Set(ctx, id, report); err != nil {
			logging.Logger().Warnf("[SCOUTING] cache write for %s failed: %v", id, err)
			continue
		}
		warmed++
	}
	logging.Logger().Infof("[SCOUTING] warmed %d/%d reports", warmed, len(ids))
	return nil
}

// GetReport handles GET /scouting/:team_id.
func (s *ScoutingService) GetReport(c *fiber.Ctx) error {
	teamID := c.Params("team_id")
	report, hit, err := s.Report(c.UserContext(), teamID)
	if err != nil {
		return respondError(c, err)
	}
	if hit {
		c.Set("X-Cache", "HIT")
	} else {
		c.Set("X-Cache", "MISS")
	}
	return c.JSON(report)
}

// ExportReport handles POST /scouting/:team_id/export.
func (s *ScoutingService) ExportReport(c *fiber.Ctx) error {
	if s.Uploader == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "report export is not configured"})
	}

	report, err := s.Build(c.UserContext(), c.Params("team_id"))
	if err != nil {
		return respondError(c, err)
	}
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to render report",
			"cause": err.Error(),
		})
	}

	key := utils.ExportKey("scouting", report.TeamName, report.GeneratedAt.Format("2006-01-02T15-04-05Z"))
	url, err := s.Uploader.UploadJSON(c.UserContext(), key, body)
	if err != nil {
		logging.Logger().Errorf("[SCOUTING] export %s: %v", report.TeamID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to upload report",
			"cause": err.Error(),
		})
	}

	logging.Logger().Infof("[SCOUTING] exported %s to %s", report.TeamID, key)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"key":          key,
		"url":          url,
		"generated_at": report.GeneratedAt,
		"team_id":      report.TeamID,
	})
}

// InvalidateTeam drops the cached report after new matches against teamID.
func (s *ScoutingService) InvalidateTeam(ctx context.Context, teamID string) {
	if err := s.Cache.Invalidate(ctx, teamID); err != nil {
		logging.Logger().Warnf("[SCOUTING] invalidate %s: %v", teamID, fmt.Errorf("cache: %w", err))
	}
}
