package services

import (
	"context"
	"errors"
	"fmt"

	"team-ops-system/analytics"
	"team-ops-system/models"

	"github.com/gofiber/fiber/v2"
)

type DraftService struct {
	Repo StatsRepository
}

func NewDraftService(repo StatsRepository) *DraftService {
	return &DraftService{Repo: repo}
}

// GetContext handles GET /draft/:session_id/context. It accepts the same filter
// query parameters as the stats endpoint.
func (s *DraftService) GetContext(c *fiber.Ctx) error {
	out, err := s.Context(c.UserContext(), c.Params("session_id"), parseChampionFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Context fetches everything the draft builder needs and runs it.
func (s *DraftService) Context(ctx context.Context, sessionID string, filter analytics.ChampionFilter) (*analytics.DraftContext, error) {
	session, err := s.Repo.FindDraftSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	tierList, err := s.resolveTierList(ctx, session)
	if err != nil {
		return nil, err
	}

	own, err := s.Repo.FindMatches(ctx, MatchQuery{
		Types:        []string{models.MatchTypeScrim, models.MatchTypeTournament},
		FinishedOnly: true,
		LineupID:     session.LineupID,
	})
	if err != nil {
		return nil, err
	}

	defs, err := s.Repo.ListChampionDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	in := analytics.DraftInput{
		Session:     session,
		TierList:    tierList,
		OwnMatches:  own,
		Definitions: defs,
		Filter:      filter,
	}
	if session.EnemyTeamID != nil {
		team, err := s.Repo.FindTeam(ctx, *session.EnemyTeamID)
		if err != nil {
			return nil, danglingRef("enemy team", err)
		}
		rival, err := s.Repo.FindMatches(ctx, MatchQuery{EnemyTeamID: session.EnemyTeamID})
		if err != nil {
			return nil, err
		}
		in.RivalTeam = team
		in.RivalMatches = rival
	}

	return analytics.BuildDraftContext(in), nil
}

func (s *DraftService) resolveTierList(ctx context.Context, session *models.DraftSession) (*models.TierList, error) {
	if session.TierListID != nil {
		tl, err := s.Repo.FindTierList(ctx, *session.TierListID)
		if err != nil {
			return nil, danglingRef("tier list", err)
		}
		return analytics.ResolveTierList(session, []models.TierList{*tl}), nil
	}
	lists, err := s.Repo.ListActiveTierLists(ctx, session.LineupID)
	if err != nil {
		return nil, err
	}
	return analytics.ResolveTierList(session, lists), nil
}

// danglingRef turns a missing referenced row into a data error; only the
// requested session itself may produce a 404.
func danglingRef(what string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s reference: %w", what, ErrDataUnavailable)
	}
	return err
}
