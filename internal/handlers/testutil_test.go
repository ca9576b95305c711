package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/kosame/backend/internal/config"
	"github.com/kosame/backend/internal/middleware"
	"github.com/kosame/backend/internal/models"
	"github.com/kosame/backend/internal/services"
	"github.com/kosame/backend/internal/storage"
	"github.com/kosame/backend/pkg/logger"
	"github.com/kosame/backend/pkg/utils"
	"gorm.io/gorm"
)

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	store *memStore
}

var testSetupOnce sync.Once

// memStore is the in-memory FileStore double used by handler tests. It keeps
// the same no-overwrite contract as the real backends.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Store(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[name]; ok {
		return storage.ErrAlreadyExists
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[name] = data
	return nil
}

func (m *memStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, name)
	return nil
}

func (m *memStore) get(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[name]
	return data, ok
}

func (m *memStore) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for name := range m.objects {
		out = append(out, name)
	}
	return out
}

func defaultTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			BaseURL:         "http://files.test",
			RegisterEnabled: true,
		},
		Upload: config.UploadConfig{
			MaxFileSizeBytes: 10 * 1024 * 1024,
			FileNameLength:   12,
		},
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	return setupTestEnvWithConfig(t, defaultTestConfig())
}

func setupTestEnvWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.Init()
		utils.ConfigureJWT("test-secret", "kosame-test", "kosame-test")
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(&models.User{}, &models.File{}); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	store := newMemStore()
	settingsService := services.NewSettingsService(db, cfg)
	uploadService := services.NewUploadService(db, store, cfg)

	usersHandler := NewUsersHandler(db, settingsService)
	filesHandler := NewFilesHandler(db, store, uploadService, cfg)
	settingsHandler := NewSettingsHandler(settingsService, cfg)
	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 100 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())

	app.Get("/settings", settingsHandler.Get)

	userRoutes := app.Group("/user")
	userRoutes.Post("/register", usersHandler.Register)
	userRoutes.Post("/login", usersHandler.Login)
	userRoutes.Post("/reset-token", authMiddleware.RequireAuth, usersHandler.ResetToken)
	userRoutes.Post("/change-password", authMiddleware.RequireAuth, usersHandler.ChangePassword)

	fileRoutes := app.Group("/file")
	fileRoutes.Post("/upload", authMiddleware.RequireAuth, filesHandler.Upload)
	fileRoutes.Get("/list", authMiddleware.RequireAuth, filesHandler.List)
	fileRoutes.Delete("/delete/:fileId", authMiddleware.RequireAuth, filesHandler.Delete)

	return &testEnv{app: app, db: db, store: store}
}

func createTestUser(t *testing.T, db *gorm.DB, username, password string) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	token, err := utils.GenerateToken(username)
	if err != nil {
		t.Fatalf("failed generating token: %v", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		APIToken:     &token,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	return user, token
}

func createTestFile(t *testing.T, db *gorm.DB, id uint, ownerID uint, name string) *models.File {
	t.Helper()

	file := &models.File{
		ID:           id,
		Name:         name,
		OriginalName: name,
		FileType:     "application/octet-stream",
		FileHash:     "1B2M2Y8AsgTpgAmY7PhCfg==",
		FileSizeInKB: 1,
		UploadedBy:   ownerID,
		UploadedByIP: "-",
	}
	if err := db.Create(file).Error; err != nil {
		t.Fatalf("failed creating test file row: %v", err)
	}

	return file
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func performUpload(t *testing.T, app *fiber.App, fileName, contentType string, content []byte, headers map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	partHeader.Set("Content-Type", contentType)

	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("failed creating multipart part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed writing multipart content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}

	requestHeaders := map[string]string{"Content-Type": writer.FormDataContentType()}
	for key, value := range headers {
		requestHeaders[key] = value
	}

	return performRequest(t, app, http.MethodPost, "/file/upload", &buf, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func readBodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}
	return string(raw)
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if isError, _ := body["error"].(bool); !isError {
		t.Fatalf("expected error=true, got %+v", body)
	}
	if got, _ := body["errorMessage"].(string); got != expected {
		t.Fatalf("expected errorMessage %q, got %q", expected, got)
	}
}
