package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Analytics AnalyticsConfig
	Marks     MarksConfig
	Import    ImportConfig
	Export    ExportConfig
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

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AnalyticsConfig governs cache behaviour and ranking parameters for the
// analytics endpoints.
type AnalyticsConfig struct {
	CacheTTL         time.Duration
	TopN             int
	PassMark         float64
	SnapshotCap      int
	CachePrefix      string
	StoreEnabled     bool
	SnapshotInterval time.Duration
}

// MarksConfig bounds accepted mark values at entry time.
type MarksConfig struct {
	MinScore float64
	MaxScore float64
}

// ImportConfig limits bulk roster uploads.
type ImportConfig struct {
	MaxFileSizeBytes int64
	SheetName        string
}

// ExportConfig controls generated file metadata and the on-disk archive of
// rendered exports.
type ExportConfig struct {
	SchoolName string
	ArchiveDir string
	ArchiveTTL time.Duration
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

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

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Analytics = AnalyticsConfig{
		CacheTTL:         parseDuration(v.GetString("ANALYTICS_CACHE_TTL"), 30*time.Minute),
		TopN:             v.GetInt("ANALYTICS_TOP_N"),
		PassMark:         v.GetFloat64("ANALYTICS_PASS_MARK"),
		SnapshotCap:      v.GetInt("ANALYTICS_SNAPSHOT_RANKING_CAP"),
		CachePrefix:      v.GetString("ANALYTICS_CACHE_PREFIX"),
		StoreEnabled:     v.GetBool("ANALYTICS_STORE_ENABLED"),
		SnapshotInterval: parseDuration(v.GetString("ANALYTICS_SNAPSHOT_INTERVAL"), 0),
	}

	cfg.Marks = MarksConfig{
		MinScore: v.GetFloat64("MARKS_MIN_SCORE"),
		MaxScore: v.GetFloat64("MARKS_MAX_SCORE"),
	}

	maxImportSize := v.GetInt64("IMPORT_MAX_FILE_SIZE")
	if maxImportSize <= 0 {
		maxImportSize = 5 * 1024 * 1024
	}
	cfg.Import = ImportConfig{
		MaxFileSizeBytes: maxImportSize,
		SheetName:        v.GetString("IMPORT_SHEET_NAME"),
	}

	cfg.Export = ExportConfig{
		SchoolName: v.GetString("EXPORT_SCHOOL_NAME"),
		ArchiveDir: v.GetString("EXPORT_ARCHIVE_DIR"),
		ArchiveTTL: parseDuration(v.GetString("EXPORT_ARCHIVE_TTL"), 7*24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "gradebook")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ANALYTICS_CACHE_TTL", "30m")
	v.SetDefault("ANALYTICS_TOP_N", 10)
	v.SetDefault("ANALYTICS_PASS_MARK", 50)
	v.SetDefault("ANALYTICS_SNAPSHOT_RANKING_CAP", 50)
	v.SetDefault("ANALYTICS_CACHE_PREFIX", "analytics")
	v.SetDefault("ANALYTICS_STORE_ENABLED", true)
	v.SetDefault("ANALYTICS_SNAPSHOT_INTERVAL", "6h")

	v.SetDefault("MARKS_MIN_SCORE", 0)
	v.SetDefault("MARKS_MAX_SCORE", 100)

	v.SetDefault("IMPORT_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("IMPORT_SHEET_NAME", "")

	v.SetDefault("EXPORT_SCHOOL_NAME", "School Gradebook")
	v.SetDefault("EXPORT_ARCHIVE_DIR", "./exports")
	v.SetDefault("EXPORT_ARCHIVE_TTL", "168h")
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
