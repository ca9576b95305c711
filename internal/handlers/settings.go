package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kosame/backend/internal/config"
	"github.com/kosame/backend/internal/services"
	"github.com/kosame/backend/pkg/utils"
)

// SettingsHandler tells frontends what this instance allows.
type SettingsHandler struct {
	Settings *services.SettingsService

	maxFileSizeBytes int64
}

func NewSettingsHandler(settings *services.SettingsService, cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{Settings: settings, maxFileSizeBytes: cfg.Upload.MaxFileSizeBytes}
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	registerEnabled, err := h.Settings.RegisterEnabled(c.Context())
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"maxFileSizeBytes": h.maxFileSizeBytes,
		"registerEnabled":  registerEnabled,
	})
}
