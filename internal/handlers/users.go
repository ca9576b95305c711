package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kosame/backend/internal/middleware"
	"github.com/kosame/backend/internal/models"
	"github.com/kosame/backend/internal/services"
	"github.com/kosame/backend/pkg/logger"
	"github.com/kosame/backend/pkg/utils"
	"gorm.io/gorm"
)

type UsersHandler struct {
	DB       *gorm.DB
	Settings *services.SettingsService
}

func NewUsersHandler(db *gorm.DB, settings *services.SettingsService) *UsersHandler {
	return &UsersHandler{DB: db, Settings: settings}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Username and password are required.")
	}

	enabled, err := h.Settings.RegisterEnabled(c.Context())
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	if !enabled {
		return utils.Error(c, fiber.StatusUnauthorized, "Registering is disabled on this instance.")
	}

	var existing models.User
	if err := h.DB.First(&existing, "username = ?", req.Username).Error; err == nil {
		return utils.Error(c, fiber.StatusBadRequest, "Username is already taken.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	token, err := utils.GenerateToken(req.Username)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		APIToken:     &token,
		IsAdmin:      false,
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = &email
	}

	if err := h.DB.Create(&user).Error; err != nil {
		logger.Error("user_create_failed", err, map[string]interface{}{
			"username": req.Username,
		})
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	logger.Info("user_registered", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	return utils.Success(c, fiber.StatusOK, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	var user models.User
	err := h.DB.First(&user, "username = ?", req.Username).Error
	if err != nil || !utils.CheckPassword(req.Password, user.PasswordHash) {
		logger.Warn("login_failed", map[string]interface{}{
			"username": req.Username,
			"ip":       c.IP(),
		})
		return utils.Error(c, fiber.StatusBadRequest, "Invalid login.")
	}

	logger.InfoWithUser(userIDString(&user), "user_login", map[string]interface{}{
		"username": user.Username,
		"ip":       c.IP(),
	})

	return utils.Success(c, fiber.StatusOK, user)
}

// ResetToken replaces the caller's permanent token. The previous token stops
// working immediately; there is no revocation list.
func (h *UsersHandler) ResetToken(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized.")
	}

	token, err := utils.GenerateToken(currentUser.Username)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	err = h.DB.Model(&models.User{}).
		Where("id = ?", currentUser.ID).
		Update("api_token", token).
		Error
	if err != nil {
		logger.ErrorWithUser(userIDString(currentUser), "token_reset_failed", err, nil)
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	logger.InfoWithUser(userIDString(currentUser), "token_reset", nil)

	return utils.Success(c, fiber.StatusOK, token)
}

type passwordUpdateRequest struct {
	Password           string `json:"password"`
	NewPassword        string `json:"newPassword"`
	NewPasswordConfirm string `json:"newPasswordConfirm"`
}

func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized.")
	}

	var req passwordUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	if !utils.CheckPassword(req.Password, currentUser.PasswordHash) {
		return utils.Error(c, fiber.StatusBadRequest, "Failed to verify existing password.")
	}

	if req.NewPassword == "" || req.NewPassword != req.NewPasswordConfirm {
		return utils.Error(c, fiber.StatusBadRequest, "New passwords do not match.")
	}

	passwordHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	err = h.DB.Model(&models.User{}).
		Where("id = ?", currentUser.ID).
		Update("password_hash", passwordHash).
		Error
	if err != nil {
		logger.ErrorWithUser(userIDString(currentUser), "password_change_failed", err, nil)
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	logger.InfoWithUser(userIDString(currentUser), "password_changed", nil)

	return utils.Success(c, fiber.StatusOK, "Successfully changed password.")
}
