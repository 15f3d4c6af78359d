package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Catalog sources.
const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Catalog     CatalogConfig
	Eligibility EligibilityConfig
	Exports     ExportsConfig
	Batches     BatchesConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig selects where universities, programmes and requirements are read from.
type CatalogConfig struct {
	Source     string
	Dir        string
	RefreshTTL time.Duration
}

// EligibilityConfig governs result caching for eligibility checks.
type EligibilityConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ExportsConfig toggles CSV/PDF downloads of eligibility results.
type ExportsConfig struct {
	Enabled bool
	MaxRows int
}

// BatchesConfig configures asynchronous cohort checks and their signed downloads.
type BatchesConfig struct {
	Enabled           bool
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	ResultTTL         time.Duration
	CleanupInterval   time.Duration
	WorkerConcurrency int
	WorkerRetries     int
	MaxStudents       int
	TopPerStudent     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	source := strings.ToLower(strings.TrimSpace(v.GetString("CATALOG_SOURCE")))
	if source != CatalogSourcePostgres {
		source = CatalogSourceFile
	}
	cfg.Catalog = CatalogConfig{
		Source:     source,
		Dir:        v.GetString("CATALOG_DIR"),
		RefreshTTL: parseDuration(v.GetString("CATALOG_REFRESH_TTL"), 15*time.Minute),
	}

	cfg.Eligibility = EligibilityConfig{
		CacheEnabled: v.GetBool("ENABLE_ELIGIBILITY_CACHE"),
		CacheTTL:     parseDuration(v.GetString("ELIGIBILITY_CACHE_TTL"), 10*time.Minute),
	}

	maxRows := v.GetInt("EXPORT_MAX_ROWS")
	if maxRows <= 0 {
		maxRows = 500
	}
	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
		MaxRows: maxRows,
	}

	cfg.Batches = BatchesConfig{
		Enabled:           v.GetBool("ENABLE_BATCHES"),
		StorageDir:        v.GetString("BATCHES_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("BATCHES_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("BATCHES_SIGNED_URL_TTL"), time.Hour),
		ResultTTL:         parseDuration(v.GetString("BATCHES_RESULT_TTL"), 24*time.Hour),
		CleanupInterval:   parseDuration(v.GetString("BATCHES_CLEANUP_INTERVAL"), time.Hour),
		WorkerConcurrency: v.GetInt("BATCHES_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("BATCHES_WORKER_RETRIES"),
		MaxStudents:       v.GetInt("BATCHES_MAX_STUDENTS"),
		TopPerStudent:     v.GetInt("BATCHES_TOP_PER_STUDENT"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "admissions")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CATALOG_SOURCE", CatalogSourceFile)
	v.SetDefault("CATALOG_DIR", "./data/catalog")
	v.SetDefault("CATALOG_REFRESH_TTL", "15m")

	v.SetDefault("ENABLE_ELIGIBILITY_CACHE", false)
	v.SetDefault("ELIGIBILITY_CACHE_TTL", "10m")

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORT_MAX_ROWS", 500)

	v.SetDefault("ENABLE_BATCHES", false)
	v.SetDefault("BATCHES_STORAGE_DIR", "./exports")
	v.SetDefault("BATCHES_SIGNED_URL_SECRET", "dev_batches_secret")
	v.SetDefault("BATCHES_SIGNED_URL_TTL", "1h")
	v.SetDefault("BATCHES_RESULT_TTL", "24h")
	v.SetDefault("BATCHES_CLEANUP_INTERVAL", "1h")
	v.SetDefault("BATCHES_WORKER_CONCURRENCY", 2)
	v.SetDefault("BATCHES_WORKER_RETRIES", 3)
	v.SetDefault("BATCHES_MAX_STUDENTS", 200)
	v.SetDefault("BATCHES_TOP_PER_STUDENT", 5)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
