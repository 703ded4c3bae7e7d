package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	HTTPPort string
	LogLevel slog.Level

	StoreDriver     string
	DatabaseURL     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnMaxLife   time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	JWTSecret      string
	JWTExpire      time.Duration
	AllowedOrigins []string
	FrontendURL    string

	CandidateIDPrefix      string
	CandidateIDMaxAttempts int
	EligibilitySweepEvery  time.Duration

	RedisURL                string
	PublicOnboardRateLimit  int
	PublicOnboardRateWindow time.Duration

	MSFormsFormID       string
	MSFormsTenantID     string
	MSFormsClientID     string
	MSFormsClientSecret string
	MSGraphBaseURL      string

	GmailCredentialsFile string
	GmailTokenFile       string

	GeminiAPIKey string
	GeminiModel  string

	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		LogLevel: getLevel("LOG_LEVEL", slog.LevelInfo),

		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DBMaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLife:   getDuration("DB_CONN_MAX_LIFE", 30*time.Minute),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpire:      getDuration("JWT_EXPIRE", 8*time.Hour),
		AllowedOrigins: getList("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		FrontendURL:    strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),

		CandidateIDPrefix:      getEnv("CANDIDATE_ID_PREFIX", "TPEML"),
		CandidateIDMaxAttempts: getInt("CANDIDATE_ID_MAX_ATTEMPTS", 2),
		EligibilitySweepEvery:  getDuration("ELIGIBILITY_SWEEP_INTERVAL", 0),

		RedisURL:                getEnv("REDIS_URL", ""),
		PublicOnboardRateLimit:  getInt("PUBLIC_ONBOARD_RATE_LIMIT", 10),
		PublicOnboardRateWindow: getDuration("PUBLIC_ONBOARD_RATE_WINDOW", time.Minute),

		MSFormsFormID:       getEnv("MS_FORMS_FORM_ID", ""),
		MSFormsTenantID:     getEnv("MS_FORMS_TENANT_ID", ""),
		MSFormsClientID:     getEnv("MS_FORMS_CLIENT_ID", ""),
		MSFormsClientSecret: getEnv("MS_FORMS_CLIENT_SECRET", ""),
		MSGraphBaseURL:      strings.TrimRight(getEnv("MS_GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0"), "/"),

		GmailCredentialsFile: getEnv("GMAIL_CREDENTIALS_FILE", ""),
		GmailTokenFile:       getEnv("GMAIL_TOKEN_FILE", "token.json"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	case "memory":
	default:
		return errors.New("STORE_DRIVER must be postgres or memory")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.CandidateIDMaxAttempts < 1 {
		return errors.New("CANDIDATE_ID_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// FormsSyncEnabled reports whether every Microsoft Forms credential is set.
func (c *Config) FormsSyncEnabled() bool {
	return c.MSFormsFormID != "" && c.MSFormsTenantID != "" && c.MSFormsClientID != "" && c.MSFormsClientSecret != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	out := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getLevel(key string, fallback slog.Level) slog.Level {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return fallback
	}
	return level
}
