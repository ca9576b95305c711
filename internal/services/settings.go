package services

import (
	"context"

	"github.com/kosame/backend/internal/config"
	"github.com/kosame/backend/internal/models"
	"gorm.io/gorm"
)

// SettingsService computes the effective runtime settings. Registration has a
// bootstrap exception: the very first user may always register, so the
// instance admin can create their account regardless of configuration.
type SettingsService struct {
	DB         *gorm.DB
	configured bool
}

func NewSettingsService(db *gorm.DB, cfg *config.Config) *SettingsService {
	return &SettingsService{DB: db, configured: cfg.Server.RegisterEnabled}
}

// RegisterEnabled is recomputed on every settings read and every registration
// attempt, never cached: the flag flips as soon as the first user exists.
func (s *SettingsService) RegisterEnabled(ctx context.Context) (bool, error) {
	if s.configured {
		return true, nil
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
