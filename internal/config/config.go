package config

import (
	"os"
	"strconv"
)

type Config struct {
	DB      DBConfig
	Server  ServerConfig
	JWT     JWTConfig
	Storage StorageConfig
	Upload  UploadConfig
}

type DBConfig struct {
	Driver   string // "postgres" or "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string // sqlite database file
}

type ServerConfig struct {
	Port string
	// BaseURL is the public prefix uploaded files are reachable under,
	// e.g. "https://i.example.com". No trailing slash.
	BaseURL string
	// RegisterEnabled is the configured flag only; the effective value is
	// recomputed per request by the settings service.
	RegisterEnabled bool
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type StorageConfig struct {
	// Backend selects where uploaded bytes go: "disk" or "minio".
	Backend string
	// Root is the directory for the disk backend.
	Root string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
}

type UploadConfig struct {
	MaxFileSizeBytes int64
	FileNameLength   int
}

func Load() *Config {
	return &Config{
		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "kosame"),
			Password: getEnv("DB_PASSWORD", "kosame_secret"),
			Name:     getEnv("DB_NAME", "kosame"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "kosame.db"),
		},
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "7000"),
			BaseURL:         getEnv("BASE_URL", "http://localhost:7000"),
			RegisterEnabled: getEnvAsBool("REGISTER_ENABLED", true),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", "change-me-in-production"),
			Issuer:   getEnv("JWT_ISSUER", "kosame"),
			Audience: getEnv("JWT_AUDIENCE", "kosame"),
		},
		Storage: StorageConfig{
			Backend:        getEnv("STORAGE_BACKEND", "disk"),
			Root:           getEnv("STORAGE_ROOT", "files"),
			MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "kosame"),
			MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "kosame_secret"),
			MinIOBucket:    getEnv("MINIO_BUCKET", "kosame"),
			MinIOUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
		Upload: UploadConfig{
			MaxFileSizeBytes: getEnvAsInt64("MAX_FILE_SIZE_BYTES", 100*1024*1024),
			FileNameLength:   getEnvAsInt("FILE_NAME_LENGTH", 12),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
