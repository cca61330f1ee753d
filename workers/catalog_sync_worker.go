package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"team-ops-system/analytics"
	"team-ops-system/logging"
	"team-ops-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ddragonChampion is one entry of Data Dragon's champion.json.
type ddragonChampion struct {
	ID   string   `json:"id"`
	Key  string   `json:"key"`
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

type ddragonChampionFile struct {
	Version string                     `json:"version"`
	Data    map[string]ddragonChampion `json:"data"`
}

// CatalogStore persists champion definitions.
type CatalogStore interface {
	UpsertDefinitions(ctx context.Context, defs []models.ChampionDefinition) error
}

// GormCatalogStore upserts definitions on their normalized key.
type GormCatalogStore struct {
	DB *gorm.DB
}

func (s GormCatalogStore) UpsertDefinitions(ctx context.Context, defs []models.ChampionDefinition) error {
	if len(defs) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "class", "tags", "updated_at"}),
	}).CreateInBatches(&defs, 100).Error
}

type CatalogSyncWorker struct {
	store       CatalogStore
	interval    time.Duration
	baseURL     string // e.g. "https://ddragon.leagueoflegends.com"
	locale      string
	httpClient  *http.Client
	lastVersion string
}

func NewCatalogSyncWorker(store CatalogStore, baseURL, locale string, interval time.Duration, client *http.Client) *CatalogSyncWorker {
	return &CatalogSyncWorker{
		store:      store,
		interval:   interval,
		baseURL:    baseURL,
		locale:     locale,
		httpClient: client,
	}
}

func (w *CatalogSyncWorker) Start(ctx context.Context) {
	logging.Logger().Infof("[CATALOG] starting champion catalog sync every %s", w.interval)
	go w.run(ctx)
}

func (w *CatalogSyncWorker) run(ctx context.Context) {
	if _, err := w.Sync(ctx); err != nil {
		logging.Logger().Warnf("[CATALOG] initial sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.Sync(ctx); err != nil {
				logging.Logger().Errorf("[CATALOG] sync failed: %v", err)
			}
		case <-ctx.Done():
			logging.Logger().Infof("[CATALOG] worker stopped")
			return
		}
	}
}

// Sync fetches the latest patch's champion list and upserts it. It returns the
// number of definitions written; an unchanged patch writes nothing.
func (w *CatalogSyncWorker) Sync(ctx context.Context) (int, error) {
	version, err := w.latestVersion(ctx)
	if err != nil {
		return 0, err
	}
	if version == w.lastVersion {
		logging.Logger().Debugf("[CATALOG] patch %s already synced", version)
		return 0, nil
	}

	defs, err := w.fetchChampions(ctx, version)
	if err != nil {
		return 0, err
	}
	if err := w.store.UpsertDefinitions(ctx, defs); err != nil {
		return 0, fmt.Errorf("upsert champion definitions: %w", err)
	}

	w.lastVersion = version
	logging.Logger().Infof("[CATALOG] synced %d champions for patch %s", len(defs), version)
	return len(defs), nil
}

func (w *CatalogSyncWorker) latestVersion(ctx context.Context) (string, error) {
	var versions []string
	if err := w.getJSON(ctx, "api/versions.json", &versions); err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("data dragon returned no versions")
	}
	return versions[0], nil
}

func (w *CatalogSyncWorker) fetchChampions(ctx context.Context, version string) ([]models.ChampionDefinition, error) {
	var file ddragonChampionFile
	if err := w.getJSON(ctx, "cdn/"+version+"/data/"+w.locale+"/champion.json", &file); err != nil {
		return nil, err
	}

	defs := make([]models.ChampionDefinition, 0, len(file.Data))
	for _, c := range file.Data {
		key := analytics.ChampionKey(c.Name)
		if key == "" {
			continue
		}
		def := models.ChampionDefinition{Key: key, Name: c.Name, Tags: c.Tags}
		if len(c.Tags) > 0 {
			def.Class = c.Tags[0]
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Key < defs[j].Key })
	return defs, nil
}

func (w *CatalogSyncWorker) getJSON(ctx context.Context, path string, v any) error {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid data dragon URL '%s': %w", w.baseURL, err)
	}
	finalURL := base.JoinPath(path).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", finalURL, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GET %s: status %d: %s", finalURL, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", finalURL, err)
	}
	return nil
}
