package services

import (
	"errors"
	"strconv"
	"strings"

	"team-ops-system/logging"
	"team-ops-system/middleware"
	"team-ops-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ListUsers handles GET /admin/users?q=&limit=.
func (s *AuthService) ListUsers(c *fiber.Ctx) error {
	query := c.Query("q", "")
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	db := s.DB.WithContext(c.UserContext()).Model(&models.User{}).Limit(limit)
	if query != "" {
		searchTerm := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where("LOWER(email) LIKE ? OR LOWER(display_name) LIKE ?", searchTerm, searchTerm)
	}

	var users []models.User
	if err := db.Order("email ASC").Find(&users).Error; err != nil {
		return respondError(c, wrapErr("list users", err))
	}
	return c.JSON(users)
}

// CreateUser handles POST /admin/users.
func (s *AuthService) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Password    string `json:"password"`
		Role        string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	if req.Role == "" {
		req.Role = models.RolePlayer
	}
	switch {
	case req.Email == "":
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
	case len(req.Password) < minPasswordLen:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password too short"})
	case !models.ValidRole(req.Role):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown role"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to hash password"})
	}
	u := models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.DB.WithContext(c.UserContext()).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already exists"})
		}
		return respondError(c, wrapErr("create user", err))
	}
	logging.Logger().Infof("[ADMIN] %s created user %s (%s)", middleware.CurrentUserID(c), u.ID, u.Role)
	return c.Status(fiber.StatusCreated).JSON(u)
}

// UpdateUserRole handles PATCH /admin/users/:id/role.
func (s *AuthService) UpdateUserRole(c *fiber.Ctx) error {
	var req struct {
		Role     string `json:"role"`
		Disabled *bool  `json:"disabled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if !models.ValidRole(role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown role"})
	}

	userID := c.Params("id")
	if userID == middleware.CurrentUserID(c) && role != models.RoleAdmin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot demote yourself"})
	}

	updates := map[string]any{"role": role}
	if req.Disabled != nil {
		updates["is_disabled"] = *req.Disabled
	}
	res := s.DB.WithContext(c.UserContext()).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return respondError(c, wrapErr("update user", res.Error))
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	logging.Logger().Infof("[ADMIN] %s set role of %s to %s", middleware.CurrentUserID(c), userID, role)
	return c.JSON(fiber.Map{"id": userID, "role": role})
}
