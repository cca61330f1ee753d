package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"team-ops-system/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookie = "team_session"
	SessionTTL    = 24 * time.Hour

	localUserID = "user_id"
	localRole   = "user_role"
)

// Claims is the payload of a session token.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the given user.
func IssueToken(secret, userID, role string, now time.Time) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "team-ops",
		},
	})
	return tok.SignedString([]byte(secret))
}

// ParseToken validates a signed session token and returns its claims.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	cl, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || cl.UserID == "" {
		return nil, errors.New("bad claims")
	}
	return cl, nil
}

// SessionUser is the stored account state a session is checked against.
type SessionUser struct {
	Role     string
	Disabled bool
}

// UserLookup loads the current state of a session's user. It returns nil and
// no error when the user no longer exists.
type UserLookup interface {
	LookupSessionUser(ctx context.Context, userID string) (*SessionUser, error)
}

// SessionMiddleware requires a valid session from the cookie or a Bearer header.
// With a non-nil users lookup the stored account wins over the token claims, so
// disabling or re-roling a user takes effect on sessions already issued.
func SessionMiddleware(secret string, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(SessionCookie)
		if tokenStr == "" {
			if h := c.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tokenStr = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authorized"})
		}

		cl, err := ParseToken(secret, tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "bad token"})
		}

		role := cl.Role
		if users != nil {
			u, err := users.LookupSessionUser(c.UserContext(), cl.UserID)
			if err != nil {
				logging.Logger().Errorf("[SESSION] lookup %s: %v", cl.UserID, err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to retrieve data"})
			}
			if u == nil || u.Disabled {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "session revoked"})
			}
			role = u.Role
		}

		c.Locals(localUserID, cl.UserID)
		c.Locals(localRole, role)
		return c.Next()
	}
}

// RequireRole lets the request through only for the listed account roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := CurrentRole(c)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient role"})
	}
}

// CurrentUserID returns the session user, or "" outside SessionMiddleware.
func CurrentUserID(c *fiber.Ctx) string {
	v, _ := c.Locals(localUserID).(string)
	return v
}

func CurrentRole(c *fiber.Ctx) string {
	v, _ := c.Locals(localRole).(string)
	return v
}
