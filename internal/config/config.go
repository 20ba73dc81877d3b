package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPPort        = "8080"
	defaultDatabaseURL     = "rental.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "24h"
	defaultBcryptCost      = "10"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultStorageDriver   = "local"
	defaultStorageDir      = "./uploads"
	defaultStoragePublic   = "/static/uploads"
	defaultMaxFileSize     = "10485760"
	defaultMaxFiles        = "10"
	defaultReadTimeout     = "10s"
	defaultWriteTimeout    = "20s"
	defaultShutdownTimeout = "10s"
)

type Config struct {
	AppEnv      string
	HTTPPort    string
	DatabaseURL string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string

	Storage StorageConfig
	Upload  UploadConfig

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type StorageConfig struct {
	Driver        string
	LocalDir      string
	PublicBaseURL string

	S3Region          string
	S3BucketPrefix    string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Endpoint        string
	S3PublicBaseURL   string

	SupabaseURL        string
	SupabaseServiceKey string
}

type UploadConfig struct {
	MaxFileSize int64
	MaxFiles    int
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPPort = strings.TrimSpace(getEnv("HTTP_PORT", defaultHTTPPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat)))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.ReadTimeout, err = parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = parseIntEnv("BCRYPT_COST", defaultBcryptCost); err != nil {
		return nil, err
	}
	if cfg.Upload.MaxFiles, err = parseIntEnv("UPLOAD_MAX_FILES", defaultMaxFiles); err != nil {
		return nil, err
	}
	maxSize, err := parseIntEnv("UPLOAD_MAX_FILE_SIZE", defaultMaxFileSize)
	if err != nil {
		return nil, err
	}
	cfg.Upload.MaxFileSize = int64(maxSize)

	cfg.Storage = StorageConfig{
		Driver:             strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", defaultStorageDriver))),
		LocalDir:           strings.TrimSpace(getEnv("STORAGE_LOCAL_DIR", defaultStorageDir)),
		PublicBaseURL:      strings.TrimRight(strings.TrimSpace(getEnv("STORAGE_PUBLIC_BASE_URL", defaultStoragePublic)), "/"),
		S3Region:           strings.TrimSpace(os.Getenv("S3_REGION")),
		S3BucketPrefix:     strings.TrimSpace(os.Getenv("S3_BUCKET_PREFIX")),
		S3AccessKeyID:      strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
		S3SecretAccessKey:  strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
		S3Endpoint:         strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		S3PublicBaseURL:    strings.TrimRight(strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")), "/"),
		SupabaseURL:        strings.TrimRight(strings.TrimSpace(os.Getenv("SUPABASE_URL")), "/"),
		SupabaseServiceKey: strings.TrimSpace(os.Getenv("SUPABASE_SERVICE_KEY")),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if cfg.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_FILE_SIZE must be > 0")
	}
	if cfg.Upload.MaxFiles < 0 {
		return fmt.Errorf("UPLOAD_MAX_FILES must be >= 0 (0 disables the limit)")
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}

	switch cfg.Storage.Driver {
	case "local":
		if cfg.Storage.LocalDir == "" {
			return fmt.Errorf("STORAGE_LOCAL_DIR must not be empty")
		}
	case "s3":
		if cfg.Storage.S3Region == "" {
			return fmt.Errorf("S3_REGION must be set when STORAGE_DRIVER=s3")
		}
	case "supabase":
		if cfg.Storage.SupabaseURL == "" || cfg.Storage.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set when STORAGE_DRIVER=supabase")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of: local, s3, supabase")
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
