package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"team-ops-system/logging"
	"team-ops-system/middleware"
	"team-ops-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

type AuthService struct {
	DB           *gorm.DB
	Secret       string
	CookieSecure bool
	Now          func() time.Time
}

func NewAuthService(db *gorm.DB, secret string, cookieSecure bool) *AuthService {
	return &AuthService{DB: db, Secret: secret, CookieSecure: cookieSecure, Now: time.Now}
}

// Login handles POST /auth/login.
func (s *AuthService) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password are required"})
	}

	var u models.User
	if err := s.DB.WithContext(c.UserContext()).First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		return respondError(c, wrapErr("find user", err))
	}
	if u.IsDisabled || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	now := s.Now()
	token, err := middleware.IssueToken(s.Secret, u.ID, u.Role, now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to issue session"})
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(middleware.SessionTTL),
		Secure:   s.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	logging.Logger().Infof("[AUTH] %s signed in", u.ID)
	return c.JSON(fiber.Map{"ok": true, "user": u, "token": token})
}

// Logout handles POST /auth/logout.
func (s *AuthService) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   s.CookieSecure,
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"ok": true})
}

// Me handles GET /auth/me.
func (s *AuthService) Me(c *fiber.Ctx) error {
	var u models.User
	if err := s.DB.WithContext(c.UserContext()).First(&u, "id = ?", middleware.CurrentUserID(c)).Error; err != nil {
		return respondError(c, wrapErr("find user", err))
	}
	return c.JSON(u)
}

// LookupSessionUser reports the stored role and status of a session's user.
func (s *AuthService) LookupSessionUser(ctx context.Context, userID string) (*middleware.SessionUser, error) {
	var u models.User
	err := s.DB.WithContext(ctx).Select("id", "role", "is_disabled").First(&u, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session user: %w", err)
	}
	return &middleware.SessionUser{Role: u.Role, Disabled: u.IsDisabled}, nil
}

// EnsureAdmin creates the bootstrap administrator when no account uses email yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("bootstrap admin password must be at least %d characters", minPasswordLen)
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  "Administrator",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := s.DB.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logging.Logger().Infof("[AUTH] bootstrap admin %s created", email)
	return nil
}
