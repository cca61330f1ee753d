package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"team-ops-system/analytics"
	"team-ops-system/middleware"
	"team-ops-system/models"
	"team-ops-system/services"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "test-secret"

type fakeRepo struct {
	matches  []models.Match
	teams    map[string]*models.Team
	sessions map[string]*models.DraftSession
	lists    []models.TierList
	defs     []models.ChampionDefinition
	err      error
	queries  []services.MatchQuery
}

func (f *fakeRepo) FindMatches(_ context.Context, q services.MatchQuery) ([]models.Match, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Match
	for _, m := range f.matches {
		if q.EnemyTeamID != nil && (m.EnemyTeamID == nil || *m.EnemyTeamID != *q.EnemyTeamID) {
			continue
		}
		if q.FinishedOnly && !m.IsFinished() {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeRepo) FindTeam(_ context.Context, id string) (*models.Team, error) {
	if t, ok := f.teams[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("find team: %w", services.ErrNotFound)
}

func (f *fakeRepo) ListTeamIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.teams))
	for id := range f.teams {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeRepo) FindDraftSession(_ context.Context, id string) (*models.DraftSession, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("find draft session: %w", services.ErrNotFound)
}

func (f *fakeRepo) FindTierList(_ context.Context, id string) (*models.TierList, error) {
	for i := range f.lists {
		if f.lists[i].ID == id {
			return &f.lists[i], nil
		}
	}
	return nil, fmt.Errorf("find tier list: %w", services.ErrNotFound)
}

func (f *fakeRepo) ListActiveTierLists(context.Context, *string) ([]models.TierList, error) {
	return f.lists, nil
}

func (f *fakeRepo) ListChampionDefinitions(context.Context) ([]models.ChampionDefinition, error) {
	return f.defs, nil
}

type memCache struct {
	reports map[string]*analytics.ScoutingReport
}

func (m *memCache) Get(_ context.Context, id string) (*analytics.ScoutingReport, bool, error) {
	r, ok := m.reports[id]
	return r, ok, nil
}

func (m *memCache) Set(_ context.Context, id string, r *analytics.ScoutingReport) error {
	m.reports[id] = r
	return nil
}

func (m *memCache) Invalidate(_ context.Context, id string) error {
	delete(m.reports, id)
	return nil
}

type fakeUploader struct {
	key  string
	body []byte
}

func (u *fakeUploader) UploadJSON(_ context.Context, key string, body []byte) (string, error) {
	u.key, u.body = key, body
	return "https://cdn.example.com/" + key, nil
}

func strPtr(s string) *string { return &s }

func rivalRepo() *fakeRepo {
	rival := "team-1"
	profile := "p-1"
	return &fakeRepo{
		teams: map[string]*models.Team{rival: {ID: rival, Name: "Rival Esports"}},
		matches: []models.Match{
			{
				ID: "m1", Type: models.MatchTypeScrim, Result: models.ResultLoss, Side: models.SideBlue,
				EnemyTeamID: &rival, BlueBans: []string{"Zed"}, RedBans: []string{"Ahri"},
				Participants: []models.MatchParticipant{
					{ChampionName: "Orianna", Role: "MID", PlayerProfileID: &profile, Kills: 5, Deaths: 2, Assists: 3},
					{ChampionName: "Syndra", Role: "MID", IsEnemy: true},
				},
			},
			{
				ID: "m2", Type: models.MatchTypeTournament, Result: models.ResultWin, Side: models.SideRed,
				EnemyTeamID: &rival, BlueBans: []string{"Zed"},
				Participants: []models.MatchParticipant{
					{ChampionName: "Orianna", Role: "MID", PlayerProfileID: &profile, Kills: 7, Assists: 1},
					{ChampionName: "Syndra", Role: "MID", IsEnemy: true},
				},
			},
		},
		sessions: map[string]*models.DraftSession{
			"s1": {ID: "s1", EnemyTeamID: &rival},
		},
	}
}

func newTestApp(repo services.StatsRepository, uploader services.ReportUploader) (*fiber.App, *memCache) {
	app := fiber.New()
	cache := &memCache{reports: map[string]*analytics.ScoutingReport{}}
	session := middleware.SessionMiddleware(testSecret, nil)
	scouting := services.NewScoutingService(repo, cache, uploader)
	scouting.Now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	SetupAnalyticsRoutes(app, session,
		services.NewStatsService(repo), scouting, services.NewDraftService(repo))
	SetupHealthRoutes(app)
	return app, cache
}

func authedRequest(t *testing.T, method, target, role string) *http.Request {
	t.Helper()
	token, err := middleware.IssueToken(testSecret, "u-1", role, time.Now())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}

func TestHealthIsPublic(t *testing.T) {
	app, _ := newTestApp(rivalRepo(), nil)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRoutesRequireSession(t *testing.T) {
	app, _ := newTestApp(rivalRepo(), nil)
	for _, target := range []string{"/stats/champions", "/scouting/team-1", "/draft/s1/context"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", target, resp.StatusCode)
		}
	}
}

func TestChampionStats(t *testing.T) {
	app, _ := newTestApp(rivalRepo(), nil)
	resp, err := app.Test(authedRequest(t, http.MethodGet, "/stats/champions", models.RolePlayer))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out services.ChampionStatsResponse
	decode(t, resp, &out)
	byName := map[string]analytics.ChampionStats{}
	for _, c := range out.Champions {
		byName[c.Champion] = c
	}

	ori := byName["Orianna"]
	if ori.Games != 2 || ori.Wins != 1 || ori.Winrate != 50 || ori.KDA != 8.0 {
		t.Errorf("Orianna = %+v, want 2 games, 1 win, 50%%, kda 8.0", ori)
	}
	if byName["Zed"].Bans != 2 || byName["Zed"].Games != 0 {
		t.Errorf("Zed = %+v, want 2 bans and no games", byName["Zed"])
	}
	if byName["Syndra"].PlayedAgainst != 2 || byName["Syndra"].Games != 0 {
		t.Errorf("Syndra = %+v, want only played-against", byName["Syndra"])
	}
	if out.Record.Games != 2 || out.Record.Winrate != 50 {
		t.Errorf("record = %+v", out.Record)
	}
}

func TestChampionStatsRejectsUnknownType(t *testing.T) {
	app, _ := newTestApp(rivalRepo(), nil)
	resp, err := app.Test(authedRequest(t, http.MethodGet, "/stats/champions?type=ARAM", models.RolePlayer))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestChampionStatsClassFilter(t *testing.T) {
	repo := rivalRepo()
	repo.defs = []models.ChampionDefinition{{Key: "orianna", Name: "Orianna", Class: "Mage"}}
	app, _ := newTestApp(repo, nil)
	resp, err := app.Test(authedRequest(t, http.MethodGet, "/stats/champions?champion_class=mage", models.RolePlayer))
	if err != nil {
		t.Fatal(err)
	}
	var out services.ChampionStatsResponse
	decode(t, resp, &out)
	if len(out.Champions) != 1 || out.Champions[0].Champion != "Orianna" {
		t.Errorf("champions = %+v, want only Orianna", out.Champions)
	}
}

func TestDataFailureIsGeneric(t *testing.T) {
	repo := rivalRepo()
	repo.err = fmt.Errorf("find matches: %w: %v", services.ErrDataUnavailable, errors.New("dial tcp: connection refused"))
	app, _ := newTestApp(repo, nil)

	for _, target := range []string{"/stats/champions", "/scouting/team-1", "/draft/s1/context"} {
		resp, err := app.Test(authedRequest(t, http.MethodGet, target, models.RolePlayer))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("%s: status = %d, want 500", target, resp.StatusCode)
			continue
		}
		var out map[string]string
		decode(t, resp, &out)
		if out["error"] != "failed to retrieve data" {
			t.Errorf("%s: error = %q", target, out["error"])
		}
		if strings.Contains(fmt.Sprint(out), "connection refused") {
			t.Errorf("%s: response leaks cause: %v", target, out)
		}
	}
}

func TestScoutingReportCaching(t *testing.T) {
	repo := rivalRepo()
	app, cache := newTestApp(repo, nil)

	resp, err := app.Test(authedRequest(t, http.MethodGet, "/scouting/team-1", models.RoleAnalyst))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}
	var report analytics.ScoutingReport
	decode(t, resp, &report)
	// Results are ours: LOSS then WIN means the rival went 1-1.
	if report.Record.Games != 2 || report.Record.Wins != 1 || report.Record.Winrate != 50 {
		t.Errorf("record = %+v", report.Record)
	}
	if len(report.MostPicked) == 0 || report.MostPicked[0].Champion != "Syndra" {
		t.Errorf("most picked = %+v, want Syndra first", report.MostPicked)
	}
	if _, ok := cache.reports["team-1"]; !ok {
		t.Fatal("report was not cached")
	}

	resp, err = app.Test(authedRequest(t, http.MethodGet, "/scouting/team-1", models.RoleAnalyst))
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get("X-Cache"); got != "HIT" {
		t.Errorf("X-Cache = %q, want HIT", got)
	}
}

func TestScoutingUnknownTeam(t *testing.T) {
	app, _ := newTestApp(rivalRepo(), nil)
	resp, err := app.Test(authedRequest(t, http.MethodGet, "/scouting/nobody", models.RoleAnalyst))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestScoutingExport(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		uploader *fakeUploader
		want     int
	}{
		{"coach uploads", models.RoleCoach, &fakeUploader{}, http.StatusCreated},
		{"player forbidden", models.RolePlayer, &fakeUploader{}, http.StatusForbidden},
		{"export disabled", models.RoleAdmin, nil, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var up services.ReportUploader
			if tt.uploader != nil {
				up = tt.uploader
			}
			app, _ := newTestApp(rivalRepo(), up)
			resp, err := app.Test(authedRequest(t, http.MethodPost, "/scouting/team-1/export", tt.role))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if tt.want != http.StatusCreated {
				return
			}
			if want := "scouting/rival-esports/2024-03-01T10-00-00Z.json"; tt.uploader.key != want {
				t.Errorf("key = %q, want %q", tt.uploader.key, want)
			}
			var uploaded analytics.ScoutingReport
			if err := json.Unmarshal(tt.uploader.body, &uploaded); err != nil {
				t.Fatalf("uploaded body is not a report: %v", err)
			}
			if uploaded.TeamID != "team-1" {
				t.Errorf("uploaded team = %q", uploaded.TeamID)
			}
		})
	}
}

func TestDraftContext(t *testing.T) {
	repo := rivalRepo()
	repo.lists = []models.TierList{{
		ID: "tl-1", IsActive: true, UpdatedAt: time.Now(),
		Entries: []models.TierListEntry{
			{ChampionName: "Azir", Tier: "S", Role: "MID"},
			{ChampionName: "Orianna", Tier: "A", Role: "MID"},
		},
	}}
	app, _ := newTestApp(repo, nil)

	resp, err := app.Test(authedRequest(t, http.MethodGet, "/draft/s1/context", models.RoleCoach))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out analytics.DraftContext
	decode(t, resp, &out)

	if out.TierList == nil || out.TierList.ID != "tl-1" {
		t.Fatalf("tier list = %+v, want tl-1", out.TierList)
	}
	if len(out.OwnChampions) < 2 || out.OwnChampions[0].Champion != "Azir" {
		t.Fatalf("own champions = %+v, want Azir first", out.OwnChampions)
	}
	if out.OwnChampions[0].Games != 0 || !out.OwnChampions[0].InTierList {
		t.Errorf("Azir = %+v, want unplayed tier-list row", out.OwnChampions[0])
	}
	if out.Rival == nil || len(out.Rival.Champions) == 0 {
		t.Fatal("rival view missing")
	}
	syndra := out.Rival.Champions[0]
	if syndra.Champion != "Syndra" || syndra.Games != 2 || syndra.Winrate != 50 {
		t.Errorf("rival Syndra = %+v", syndra)
	}
}

func TestDraftContextErrors(t *testing.T) {
	repo := rivalRepo()
	repo.sessions["dangling"] = &models.DraftSession{ID: "dangling", TierListID: strPtr("gone")}
	app, _ := newTestApp(repo, nil)

	tests := []struct {
		target string
		want   int
	}{
		{"/draft/missing/context", http.StatusNotFound},
		{"/draft/dangling/context", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		resp, err := app.Test(authedRequest(t, http.MethodGet, tt.target, models.RoleCoach))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.target, resp.StatusCode, tt.want)
		}
	}
}

func TestChampionStatsRoleFilterDropsBanOnly(t *testing.T) {
	tests := []struct {
		role string
		want []string
	}{
		{"TOP", nil},
		{"mid", []string{"Orianna", "Syndra"}},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			app, _ := newTestApp(rivalRepo(), nil)
			resp, err := app.Test(authedRequest(t, http.MethodGet, "/stats/champions?role="+tt.role, models.RolePlayer))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			var out services.ChampionStatsResponse
			decode(t, resp, &out)

			var got []string
			for _, c := range out.Champions {
				got = append(got, c.Champion)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("champions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChampionStatsEmptyTypeListUsesDefault(t *testing.T) {
	repo := rivalRepo()
	app, _ := newTestApp(repo, nil)
	resp, err := app.Test(authedRequest(t, http.MethodGet, "/stats/champions?type=,", models.RolePlayer))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(repo.queries) != 1 {
		t.Fatalf("queries = %d, want 1", len(repo.queries))
	}
	got := strings.Join(repo.queries[0].Types, ",")
	if want := models.MatchTypeScrim + "," + models.MatchTypeTournament; got != want {
		t.Errorf("types = %q, want %q", got, want)
	}
}
