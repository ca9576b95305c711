package services

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/kosame/backend/internal/config"
	"github.com/kosame/backend/internal/models"
	"github.com/kosame/backend/internal/storage"
	"github.com/kosame/backend/pkg/logger"
	"github.com/kosame/backend/pkg/namegen"
	"github.com/kosame/backend/pkg/utils"
	"gorm.io/gorm"
)

// UploadService turns an inbound byte stream into a durable, publicly
// addressable file: randomized storage name, content fingerprint, metadata
// row, persisted bytes.
type UploadService struct {
	DB         *gorm.DB
	Store      storage.FileStore
	baseURL    string
	nameLength int
}

func NewUploadService(db *gorm.DB, store storage.FileStore, cfg *config.Config) *UploadService {
	return &UploadService{
		DB:         db,
		Store:      store,
		baseURL:    strings.TrimRight(cfg.Server.BaseURL, "/"),
		nameLength: cfg.Upload.FileNameLength,
	}
}

// Upload stores one file for owner and returns its public URL. The metadata
// row is written before the bytes and neither step rolls the other back; a
// failure in between can leave an orphan row without bytes.
func (s *UploadService) Upload(ctx context.Context, owner *models.User, ip, originalName, contentType string, content io.ReadSeeker, size int64) (*models.File, string, error) {
	name := namegen.Generate(s.nameLength) + extension(originalName)

	hash, err := utils.HashContent(content)
	if err != nil {
		return nil, "", err
	}

	if ip == "" {
		ip = "-"
	}

	entry := &models.File{
		Name:         name,
		OriginalName: originalName,
		FileType:     contentType,
		FileHash:     hash,
		FileSizeInKB: uint64(size / 1024),
		UploadedBy:   owner.ID,
		UploadedByIP: ip,
	}

	if err := s.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, "", err
	}

	if err := s.Store.Store(ctx, name, content, size, contentType); err != nil {
		logger.ErrorWithUser(userIDString(owner), "upload_store_failed", err, map[string]interface{}{
			"name":          name,
			"original_name": originalName,
			"size":          size,
		})
		return nil, "", err
	}

	logger.InfoWithUser(userIDString(owner), "file_uploaded", map[string]interface{}{
		"file_id":       entry.ID,
		"name":          name,
		"original_name": originalName,
		"size_kb":       entry.FileSizeInKB,
		"content_type":  contentType,
	})

	return entry, s.baseURL + "/" + name, nil
}

func userIDString(u *models.User) string {
	return strconv.FormatUint(uint64(u.ID), 10)
}

// extension returns everything from the last dot on, dot included, so the
// randomized name keeps the client's suffix (xaG5vRGKa138.png). No dot, no
// extension.
func extension(fileName string) string {
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		return fileName[i:]
	}
	return ""
}
