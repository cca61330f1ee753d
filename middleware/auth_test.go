package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func sessionApp(secret string, roles ...string) *fiber.App {
	return sessionAppWithUsers(secret, nil, roles...)
}

func sessionAppWithUsers(secret string, users UserLookup, roles ...string) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{SessionMiddleware(secret, users)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendString(CurrentUserID(c) + ":" + CurrentRole(c))
	})
	app.Get("/", handlers...)
	return app
}

func TestSessionMiddleware(t *testing.T) {
	valid, err := IssueToken("secret", "u-1", "COACH", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	expired, err := IssueToken("secret", "u-1", "COACH", time.Now().Add(-48*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	forged, err := IssueToken("other", "u-1", "ADMIN", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		cookie string
		bearer string
		want   int
	}{
		{"cookie", valid, "", http.StatusOK},
		{"bearer", "", valid, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"expired", expired, "", http.StatusUnauthorized},
		{"wrong secret", "", forged, http.StatusUnauthorized},
		{"garbage", "not-a-jwt", "", http.StatusUnauthorized},
	}
	app := sessionApp("secret")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	app := sessionApp("secret", "ADMIN", "COACH")
	tests := []struct {
		role string
		want int
	}{
		{"ADMIN", http.StatusOK},
		{"COACH", http.StatusOK},
		{"PLAYER", http.StatusForbidden},
	}
	for _, tt := range tests {
		token, err := IssueToken("secret", "u-1", tt.role, time.Now())
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.role, resp.StatusCode, tt.want)
		}
	}
}

func TestParseTokenClaims(t *testing.T) {
	token, err := IssueToken("secret", "u-9", "ANALYST", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	cl, err := ParseToken("secret", token)
	if err != nil {
		t.Fatal(err)
	}
	if cl.UserID != "u-9" || cl.Role != "ANALYST" {
		t.Errorf("claims = %+v", cl)
	}
}

func TestServiceTokenMiddleware(t *testing.T) {
	app := fiber.New()
	app.Post("/import", ServiceTokenMiddleware("svc-token"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	tests := []struct {
		header string
		want   int
	}{
		{"Bearer svc-token", http.StatusNoContent},
		{"svc-token", http.StatusNoContent},
		{"Bearer nope", http.StatusUnauthorized},
		{"", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/import", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != tt.want {
			t.Errorf("%q: status = %d, want %d", tt.header, resp.StatusCode, tt.want)
		}
	}
}

type userTable struct {
	users map[string]*SessionUser
	err   error
}

func (u *userTable) LookupSessionUser(_ context.Context, id string) (*SessionUser, error) {
	if u.err != nil {
		return nil, u.err
	}
	return u.users[id], nil
}

func TestSessionUsesStoredAccount(t *testing.T) {
	token, err := IssueToken("secret", "u-1", "ADMIN", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		users *userTable
		want  int
	}{
		{"still admin", &userTable{users: map[string]*SessionUser{"u-1": {Role: "ADMIN"}}}, http.StatusOK},
		{"demoted", &userTable{users: map[string]*SessionUser{"u-1": {Role: "PLAYER"}}}, http.StatusForbidden},
		{"disabled", &userTable{users: map[string]*SessionUser{"u-1": {Role: "ADMIN", Disabled: true}}}, http.StatusUnauthorized},
		{"deleted", &userTable{users: map[string]*SessionUser{}}, http.StatusUnauthorized},
		{"lookup failure", &userTable{err: errors.New("db down")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := sessionAppWithUsers("secret", tt.users, "ADMIN")
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
