package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"team-ops-system/analytics"
	"team-ops-system/models"
)

type stubRepo struct {
	teams   map[string]*models.Team
	matches map[string][]models.Match
}

func (s *stubRepo) FindMatches(_ context.Context, q MatchQuery) ([]models.Match, error) {
	if q.EnemyTeamID == nil {
		return nil, nil
	}
	return s.matches[*q.EnemyTeamID], nil
}

func (s *stubRepo) FindTeam(_ context.Context, id string) (*models.Team, error) {
	if t, ok := s.teams[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("find team: %w", ErrNotFound)
}

func (s *stubRepo) ListTeamIDs(context.Context) ([]string, error) {
	return []string{"a", "b", "ghost"}, nil
}

func (s *stubRepo) FindDraftSession(context.Context, string) (*models.DraftSession, error) {
	return nil, ErrNotFound
}

func (s *stubRepo) FindTierList(context.Context, string) (*models.TierList, error) {
	return nil, ErrNotFound
}

func (s *stubRepo) ListActiveTierLists(context.Context, *string) ([]models.TierList, error) {
	return nil, nil
}

func (s *stubRepo) ListChampionDefinitions(context.Context) ([]models.ChampionDefinition, error) {
	return nil, nil
}

type countingCache struct {
	NopReportCache
	sets        map[string]*analytics.ScoutingReport
	invalidated []string
}

func (c *countingCache) Set(_ context.Context, id string, r *analytics.ScoutingReport) error {
	c.sets[id] = r
	return nil
}

func (c *countingCache) Invalidate(_ context.Context, id string) error {
	c.invalidated = append(c.invalidated, id)
	return nil
}

func TestWarmSkipsBrokenTeams(t *testing.T) {
	a := "a"
	repo := &stubRepo{
		teams: map[string]*models.Team{
			"a": {ID: "a", Name: "Alpha"},
			"b": {ID: "b", Name: "Beta"},
		},
		matches: map[string][]models.Match{
			"a": {{ID: "m1", Type: models.MatchTypeScrim, Result: models.ResultLoss, EnemyTeamID: &a}},
		},
	}
	cache := &countingCache{sets: map[string]*analytics.ScoutingReport{}}
	svc := NewScoutingService(repo, cache, nil)

	if err := svc.Warm(context.Background()); err != nil {
		t.Fatalf("Warm: %v", err)
	}
	if len(cache.sets) != 2 {
		t.Fatalf("cached %d reports, want 2", len(cache.sets))
	}
	if got := cache.sets["a"].Record.Wins; got != 1 {
		t.Errorf("Alpha wins = %d, want 1", got)
	}
	if cache.sets["b"].MatchesAnalyzed != 0 {
		t.Errorf("Beta analyzed %d matches, want 0", cache.sets["b"].MatchesAnalyzed)
	}
}

func TestBuildReportUnknownTeam(t *testing.T) {
	svc := NewScoutingService(&stubRepo{}, nil, nil)
	_, err := svc.Build(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInvalidateTeam(t *testing.T) {
	cache := &countingCache{sets: map[string]*analytics.ScoutingReport{}}
	svc := NewScoutingService(&stubRepo{}, cache, nil)
	svc.InvalidateTeam(context.Background(), "a")
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "a" {
		t.Errorf("invalidated = %v", cache.invalidated)
	}
}
