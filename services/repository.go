package services

import (
	"context"
	"errors"
	"fmt"

	"team-ops-system/models"

	"gorm.io/gorm"
)

// MatchQuery selects matches together with their participants.
type MatchQuery struct {
	Types        []string
	FinishedOnly bool
	LineupID     *string
	EnemyTeamID  *string
	Limit        int
}

// StatsRepository is the read side the aggregation handlers depend on.
type StatsRepository interface {
	FindMatches(ctx context.Context, q MatchQuery) ([]models.Match, error)
	FindTeam(ctx context.Context, id string) (*models.Team, error)
	ListTeamIDs(ctx context.Context) ([]string, error)
	FindDraftSession(ctx context.Context, id string) (*models.DraftSession, error)
	FindTierList(ctx context.Context, id string) (*models.TierList, error)
	ListActiveTierLists(ctx context.Context, lineupID *string) ([]models.TierList, error)
	ListChampionDefinitions(ctx context.Context) ([]models.ChampionDefinition, error)
}

// GormRepository implements StatsRepository on top of GORM.
type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

// wrapErr maps GORM errors onto the service's error vocabulary.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrDataUnavailable, err)
}

func (r *GormRepository) FindMatches(ctx context.Context, q MatchQuery) ([]models.Match, error) {
	db := r.DB.WithContext(ctx).Model(&models.Match{}).Preload("Participants")
	if len(q.Types) > 0 {
		db = db.Where("type IN ?", q.Types)
	}
	if q.FinishedOnly {
		db = db.Where("result IN ?", []string{models.ResultWin, models.ResultLoss})
	}
	if q.LineupID != nil {
		db = db.Where("lineup_id = ?", *q.LineupID)
	}
	if q.EnemyTeamID != nil {
		db = db.Where("enemy_team_id = ?", *q.EnemyTeamID)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	var matches []models.Match
	if err := db.Order("played_at DESC NULLS LAST").Order("created_at DESC").Find(&matches).Error; err != nil {
		return nil, wrapErr("find matches", err)
	}
	return matches, nil
}

func (r *GormRepository) FindTeam(ctx context.Context, id string) (*models.Team, error) {
	var team models.Team
	if err := r.DB.WithContext(ctx).Preload("Players").First(&team, "id = ?", id).Error; err != nil {
		return nil, wrapErr("find team", err)
	}
	return &team, nil
}

func (r *GormRepository) ListTeamIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.DB.WithContext(ctx).Model(&models.Team{}).Pluck("id", &ids).Error; err != nil {
		return nil, wrapErr("list teams", err)
	}
	return ids, nil
}

func (r *GormRepository) FindDraftSession(ctx context.Context, id string) (*models.DraftSession, error) {
	var session models.DraftSession
	if err := r.DB.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, wrapErr("find draft session", err)
	}
	return &session, nil
}

func (r *GormRepository) FindTierList(ctx context.Context, id string) (*models.TierList, error) {
	var tl models.TierList
	err := r.DB.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("priority ASC")
		}).
		First(&tl, "id = ?", id).Error
	if err != nil {
		return nil, wrapErr("find tier list", err)
	}
	return &tl, nil
}

// ListActiveTierLists returns active lists of the lineup plus the global ones,
// newest first.
func (r *GormRepository) ListActiveTierLists(ctx context.Context, lineupID *string) ([]models.TierList, error) {
	db := r.DB.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("priority ASC")
		}).
		Where("is_active = ?", true)
	if lineupID != nil {
		db = db.Where("lineup_id = ? OR lineup_id IS NULL", *lineupID)
	} else {
		db = db.Where("lineup_id IS NULL")
	}

	var lists []models.TierList
	if err := db.Order("updated_at DESC").Find(&lists).Error; err != nil {
		return nil, wrapErr("list tier lists", err)
	}
	return lists, nil
}

func (r *GormRepository) ListChampionDefinitions(ctx context.Context) ([]models.ChampionDefinition, error) {
	var defs []models.ChampionDefinition
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&defs).Error; err != nil {
		return nil, wrapErr("list champion definitions", err)
	}
	return defs, nil
}
