package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendStatic   = "static"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRemote   = "remote"
	BackendMemory   = "memory"
)

type Config struct {
	PropertyBackend string
	SavedBackend    string
	DBPath          string
	DatabaseURL     string
	SeedPath        string
	RecordService   RecordServiceConfig
	Redis           RedisConfig
	HTTPAddr        string
	Sync            SyncConfig
	Export          ExportConfig
	LogPath         string
	LogLevel        string
}

type RecordServiceConfig struct {
	URL       string
	ProjectID string
	APIKey    string
	ProxyURL  string
}

type RedisConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// SyncConfig drives the catalog mirror. Source names the upstream backend.
type SyncConfig struct {
	Source   string
	Cron     string
	Interval time.Duration
}

// ExportConfig addresses the S3-compatible store used by s3:// export targets.
// Credentials fall back to the default AWS chain when the key pair is empty.
type ExportConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		PropertyBackend: getEnv("PROPERTY_BACKEND", BackendStatic),
		SavedBackend:    getEnv("SAVED_BACKEND", BackendSQLite),
		DBPath:          getEnv("DB_PATH", "estate.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SeedPath:        getEnv("SEED_PATH", "config/listings.yaml"),
		RecordService: RecordServiceConfig{
			URL:       os.Getenv("RECORD_SERVICE_URL"),
			ProjectID: os.Getenv("RECORD_SERVICE_PROJECT_ID"),
			APIKey:    os.Getenv("RECORD_SERVICE_KEY"),
			ProxyURL:  os.Getenv("RECORD_SERVICE_PROXY"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			TTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Sync: SyncConfig{
			Source:   os.Getenv("SYNC_SOURCE"),
			Cron:     os.Getenv("SYNC_CRON"),
			Interval: getEnvDuration("SYNC_INTERVAL", 0),
		},
		Export: ExportConfig{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},
		LogPath:  getEnv("LOG_PATH", "estate.log"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that each selected backend has what it needs to connect
func (c *Config) Validate() error {
	switch c.PropertyBackend {
	case BackendStatic, BackendSQLite:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("PROPERTY_BACKEND=postgres requires DATABASE_URL")
		}
	case BackendRemote:
		if c.RecordService.URL == "" {
			return fmt.Errorf("PROPERTY_BACKEND=remote requires RECORD_SERVICE_URL")
		}
	default:
		return fmt.Errorf("unknown PROPERTY_BACKEND %q", c.PropertyBackend)
	}

	switch c.SavedBackend {
	case BackendMemory, BackendSQLite:
	case BackendRemote:
		if c.RecordService.URL == "" {
			return fmt.Errorf("SAVED_BACKEND=remote requires RECORD_SERVICE_URL")
		}
	default:
		return fmt.Errorf("unknown SAVED_BACKEND %q", c.SavedBackend)
	}

	switch c.Sync.Source {
	case "", BackendStatic:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("SYNC_SOURCE=postgres requires DATABASE_URL")
		}
	case BackendRemote:
		if c.RecordService.URL == "" {
			return fmt.Errorf("SYNC_SOURCE=remote requires RECORD_SERVICE_URL")
		}
	default:
		return fmt.Errorf("unknown SYNC_SOURCE %q", c.Sync.Source)
	}

	if (c.Export.AccessKeyID == "") != (c.Export.SecretAccessKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if secs := getEnvInt(key, -1); secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
