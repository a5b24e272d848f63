package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Driver             string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds MongoDB settings, used when Database.Driver is "mongo".
type MongoConfig struct {
	URI      string
	Database string
}

// MinIOConfig holds object storage settings for MinIO.
// When Endpoint is empty, uploads are kept on local disk under UploadConfig.Dir.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// GeminiConfig configures the multimodal analysis model.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// AuthConfig configures session tokens and Google sign-in.
type AuthConfig struct {
	JWTSecret      string
	JWTExpire      time.Duration
	GoogleClientID string
}

// UploadConfig bounds image uploads and their retention.
type UploadConfig struct {
	Dir           string
	MaxBytes      int64
	MaxAge        time.Duration
	SweepInterval time.Duration
}

// RateLimitConfig configures per-IP request limits.
type RateLimitConfig struct {
	Window     time.Duration
	GeneralMax int
	UploadMax  int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost            string
	Port               string
	Env                string
	TZ                 string
	DevMock            bool
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
	JSONBodyLimit      int
	HistoryMaxLimit    int
	RedisURL           string
	Database           DatabaseConfig
	Mongo              MongoConfig
	MinIO              MinIOConfig
	Gemini             GeminiConfig
	Auth               AuthConfig
	Upload             UploadConfig
	RateLimit          RateLimitConfig
}

var devOrigins = []string{"http://localhost:5173", "http://localhost:3000", "http://127.0.0.1:5173"}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	cfg := &AppConfig{
		AppHost:            getEnv("APP_HOST", "localhost:5000"),
		Port:               getEnv("PORT", "5000"),
		Env:                getEnv("NODE_ENV", "development"),
		TZ:                 getEnv("TZ", "UTC"),
		DevMock:            getEnvBool("DEV_MOCK", false),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		JSONBodyLimit:      getEnvInt("JSON_BODY_LIMIT", 5*1024*1024),
		HistoryMaxLimit:    100,
		RedisURL:           getEnv("REDIS_URL", ""),
		Database: DatabaseConfig{
			Driver:             getEnv("DB_DRIVER", "postgres"),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DATABASE", "nutrilens"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-flash-latest"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			JWTExpire:      getEnvExpire("JWT_EXPIRE", time.Hour),
			GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		},
		Upload: UploadConfig{
			Dir:           getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes:      int64(getEnvInt("UPLOAD_MAX_BYTES", 5*1024*1024)),
			MaxAge:        getEnvDuration("UPLOAD_MAX_AGE", 24*time.Hour),
			SweepInterval: getEnvDuration("UPLOAD_SWEEP_INTERVAL", time.Hour),
		},
		RateLimit: RateLimitConfig{
			Window:     getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			GeneralMax: getEnvInt("RATE_LIMIT_MAX", 100),
			UploadMax:  getEnvInt("UPLOAD_RATE_LIMIT_MAX", 10),
		},
	}

	if cfg.DevMock {
		cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, devOrigins...)
		cfg.HistoryMaxLimit = 50
	}
	return cfg
}

// IsProduction reports whether cookies must be marked Secure.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// Location returns the configured log timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks that the variables needed outside DEV_MOCK are present.
func (c *AppConfig) Validate() error {
	if c.DevMock {
		return nil
	}

	var missing []string
	if c.Gemini.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" {
			missing = append(missing, "DB_HOST")
		}
	case "mongo":
		if c.Mongo.URI == "" {
			missing = append(missing, "MONGO_URI")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if len(missing) > 0 {
		return errors.New("missing required environment variables: " + strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
	}
	return def
}

// getEnvExpire accepts Go durations plus a day suffix ("7d").
func getEnvExpire(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err == nil && n > 0 {
			return time.Duration(n) * 24 * time.Hour
		}
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
