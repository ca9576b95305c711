package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/kosame/backend/internal/config"
	"github.com/kosame/backend/internal/middleware"
	"github.com/kosame/backend/internal/models"
	"github.com/kosame/backend/internal/services"
	"github.com/kosame/backend/internal/storage"
	"github.com/kosame/backend/pkg/logger"
	"github.com/kosame/backend/pkg/utils"
	"gorm.io/gorm"
)

const defaultPageSize = 12

type FilesHandler struct {
	DB      *gorm.DB
	Store   storage.FileStore
	Uploads *services.UploadService

	maxFileSizeBytes int64
}

func NewFilesHandler(db *gorm.DB, store storage.FileStore, uploads *services.UploadService, cfg *config.Config) *FilesHandler {
	return &FilesHandler{
		DB:               db,
		Store:            store,
		Uploads:          uploads,
		maxFileSizeBytes: cfg.Upload.MaxFileSizeBytes,
	}
}

// Upload responds with the bare public URL instead of the envelope: upload
// tools like ShareX expect a plain string they can paste.
func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized.")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "No file provided.")
	}

	if fileHeader.Size > h.maxFileSizeBytes {
		return utils.Error(c, fiber.StatusBadRequest, "File is too large.")
	}

	stream, err := fileHeader.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}
	defer stream.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, url, err := h.Uploads.Upload(
		c.Context(),
		currentUser,
		c.IP(),
		fileHeader.Filename,
		contentType,
		stream,
		fileHeader.Size,
	)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	return c.Status(fiber.StatusOK).SendString(url)
}

// List returns the caller's files newest first. The cursor is the id of the
// last row of the previous page; rows with a smaller id are eligible. A
// malformed cursor is rejected rather than treated as the first page, since
// silently restarting the enumeration would hand back duplicates.
func (h *FilesHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized.")
	}

	pageSize, err := strconv.Atoi(c.Query("pageSize", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 0 {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid page size.")
	}

	query := h.DB.Where("uploaded_by = ?", currentUser.ID)

	if cursor := c.Query("cursor"); cursor != "" {
		cursorID, err := strconv.ParseUint(cursor, 10, 64)
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "Invalid cursor.")
		}
		query = query.Where("id < ?", cursorID)
	}

	// pageSize is client-controlled; cap the pre-allocation, not the query.
	files := make([]models.File, 0, min(pageSize, defaultPageSize))
	err = query.
		Order("id desc").
		Limit(pageSize).
		Find(&files).
		Error
	if err != nil {
		logger.ErrorWithUser(userIDString(currentUser), "file_list_failed", err, nil)
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	var nextCursor *string
	if len(files) > 0 {
		last := strconv.FormatUint(uint64(files[len(files)-1].ID), 10)
		nextCursor = &last
	}

	return utils.Paginated(c, files, len(files), nextCursor)
}

// Delete removes one of the caller's files, bytes first, then the row. Byte
// removal failure is logged and not surfaced; the row is deleted regardless.
func (h *FilesHandler) Delete(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Unauthorized.")
	}

	fileID, err := strconv.ParseUint(c.Params("fileId"), 10, 64)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid file id.")
	}

	var file models.File
	if err := h.DB.First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusBadRequest, "File does not exist.")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	if file.UploadedBy != currentUser.ID {
		logger.WarnWithUser(userIDString(currentUser), "file_delete_denied", map[string]interface{}{
			"file_id": file.ID,
			"owner":   file.UploadedBy,
		})
		return utils.Error(c, fiber.StatusUnauthorized, "No permission to delete file.")
	}

	// Fire and forget: the store implementations log their own failures.
	_ = h.Store.Delete(c.Context(), file.Name)

	if err := h.DB.Delete(&models.File{}, file.ID).Error; err != nil {
		logger.ErrorWithUser(userIDString(currentUser), "file_delete_failed", err, map[string]interface{}{
			"file_id": file.ID,
		})
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error.")
	}

	logger.InfoWithUser(userIDString(currentUser), "file_deleted", map[string]interface{}{
		"file_id": file.ID,
		"name":    file.Name,
	})

	return utils.Success(c, fiber.StatusOK, "Deleted file successfully.")
}
