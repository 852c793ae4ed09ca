// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Storage backends accepted by OPTICATALOG_STORAGE.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Password hashers accepted by OPTICATALOG_PASSWORD_HASHER.
const (
	HasherSHA256 = "sha256"
	HasherBcrypt = "bcrypt"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr     string
	Storage        string
	DataDir        string
	DBPath         string
	PasswordHasher string
	SessionTTL     time.Duration
	GitHubToken    string
}

// CatalogFile returns the path of the JSON record collection.
func (c *Config) CatalogFile() string {
	return filepath.Join(c.DataDir, "transceivers.json")
}

// AuthFile returns the path of the JSON credential file.
func (c *Config) AuthFile() string {
	return filepath.Join(c.DataDir, "auth.json")
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional:
// OPTICATALOG_LISTEN_ADDR (127.0.0.1:8080), OPTICATALOG_STORAGE (json),
// OPTICATALOG_DATA_DIR (data), OPTICATALOG_DB_PATH (opticatalog.db),
// OPTICATALOG_PASSWORD_HASHER (sha256), OPTICATALOG_SESSION_TTL (12h),
// OPTICATALOG_GITHUB_TOKEN (unset; anonymous GitHub access for imports).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("OPTICATALOG_LISTEN_ADDR"); ok && v != "" {
		listenAddr = v
	}

	storage := StorageJSON
	if v, ok := os.LookupEnv("OPTICATALOG_STORAGE"); ok && v != "" {
		storage = strings.ToLower(strings.TrimSpace(v))
	}
	if storage != StorageJSON && storage != StorageSQLite {
		return nil, fmt.Errorf("OPTICATALOG_STORAGE must be %q or %q, got %q", StorageJSON, StorageSQLite, storage)
	}

	dataDir := "data"
	if v, ok := os.LookupEnv("OPTICATALOG_DATA_DIR"); ok && v != "" {
		dataDir = v
	}

	dbPath := "opticatalog.db"
	if v, ok := os.LookupEnv("OPTICATALOG_DB_PATH"); ok && v != "" {
		dbPath = v
	}

	hasher := HasherSHA256
	if v, ok := os.LookupEnv("OPTICATALOG_PASSWORD_HASHER"); ok && v != "" {
		hasher = strings.ToLower(strings.TrimSpace(v))
	}
	if hasher != HasherSHA256 && hasher != HasherBcrypt {
		return nil, fmt.Errorf("OPTICATALOG_PASSWORD_HASHER must be %q or %q, got %q", HasherSHA256, HasherBcrypt, hasher)
	}

	sessionTTL := 12 * time.Hour
	if v, ok := os.LookupEnv("OPTICATALOG_SESSION_TTL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("OPTICATALOG_SESSION_TTL has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("OPTICATALOG_SESSION_TTL must be positive, got %s", parsed)
		}
		sessionTTL = parsed
	}

	return &Config{
		ListenAddr:     listenAddr,
		Storage:        storage,
		DataDir:        dataDir,
		DBPath:         dbPath,
		PasswordHasher: hasher,
		SessionTTL:     sessionTTL,
		GitHubToken:    os.Getenv("OPTICATALOG_GITHUB_TOKEN"),
	}, nil
}
