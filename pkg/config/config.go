package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"

	"github.com/artem13815/resumebuilder/pkg/llm"
)

type AI struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	AppTitle       string `yaml:"app_title"`
	Referer        string `yaml:"referer"`
}

// Credentials are the server-side defaults every AI operation starts from.
func (a AI) Credentials() llm.Credentials {
	return llm.Credentials{
		Provider: llm.Provider(a.Provider),
		Model:    a.Model,
		APIKey:   a.APIKey,
		BaseURL:  a.BaseURL,
	}
}

func (a AI) Timeout() time.Duration { return time.Duration(a.TimeoutSeconds) * time.Second }

type S3 struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type AMQP struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// Postgres tunes the connection pool.
type Postgres struct {
	MaxConns               int `yaml:"max_conns"`
	MinConns               int `yaml:"min_conns"`
	MaxConnLifetimeMinutes int `yaml:"max_conn_lifetime_minutes"`
}

func (p Postgres) MaxConnLifetime() time.Duration {
	return time.Duration(p.MaxConnLifetimeMinutes) * time.Minute
}

// Page bounds list endpoints.
type Page struct {
	Size int `yaml:"size"`
	Max  int `yaml:"max"`
}

type Config struct {
	Port           string `yaml:"port"`
	DatabaseURL    string `yaml:"database_url"`
	JWTSecret      string `yaml:"jwt_secret"`
	JWTIssuer      string `yaml:"jwt_issuer"`
	JWTTTLMinutes  int    `yaml:"jwt_ttl_minutes"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	// ReadyTimeoutSeconds caps one readiness probe across all checkers.
	ReadyTimeoutSeconds int      `yaml:"ready_timeout_seconds"`
	Postgres            Postgres `yaml:"postgres"`
	Page                Page     `yaml:"page"`
	AI                  AI       `yaml:"ai"`
	S3                  S3       `yaml:"s3"`
	AMQP                AMQP     `yaml:"amqp"`
}

func (c Config) ReadyTimeout() time.Duration {
	return time.Duration(c.ReadyTimeoutSeconds) * time.Second
}

func defaults() Config {
	return Config{
		Port:                "8080",
		JWTSecret:           "dev-secret-change",
		JWTIssuer:           "resumebuilder",
		JWTTTLMinutes:       60,
		MaxUploadBytes:      15 << 20,
		LogLevel:            "info",
		LogFormat:           "text",
		ReadyTimeoutSeconds: 2,
		Postgres: Postgres{
			MaxConns:               10,
			MaxConnLifetimeMinutes: 60,
		},
		Page: Page{Size: 50, Max: 200},
		AI: AI{
			Provider:       string(llm.ProviderOpenAI),
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 180,
			AppTitle:       "Resume Builder",
		},
		AMQP: AMQP{Exchange: "resume_events"},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables, optionally read from
// a .env file.
func Load() (Config, error) {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = getEnv("JWT_ISSUER", cfg.JWTIssuer)
	cfg.JWTTTLMinutes = getEnvInt("JWT_TTL_MINUTES", cfg.JWTTTLMinutes)
	cfg.MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes)))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.ReadyTimeoutSeconds = getEnvInt("READY_TIMEOUT_SECONDS", cfg.ReadyTimeoutSeconds)

	cfg.Postgres.MaxConns = getEnvInt("DB_MAX_CONNS", cfg.Postgres.MaxConns)
	cfg.Postgres.MinConns = getEnvInt("DB_MIN_CONNS", cfg.Postgres.MinConns)
	cfg.Postgres.MaxConnLifetimeMinutes = getEnvInt("DB_MAX_CONN_LIFETIME_MINUTES", cfg.Postgres.MaxConnLifetimeMinutes)

	cfg.Page.Size = getEnvInt("PAGE_SIZE", cfg.Page.Size)
	cfg.Page.Max = getEnvInt("MAX_PAGE_SIZE", cfg.Page.Max)

	cfg.AI.Provider = getEnv("AI_PROVIDER", cfg.AI.Provider)
	cfg.AI.Model = getEnv("AI_MODEL", getEnv("OPENAI_MODEL", cfg.AI.Model))
	cfg.AI.APIKey = getEnv("AI_API_KEY", getEnv("OPENAI_API_KEY", cfg.AI.APIKey))
	cfg.AI.BaseURL = getEnv("AI_BASE_URL", getEnv("OPENAI_BASE_URL", cfg.AI.BaseURL))
	cfg.AI.TimeoutSeconds = getEnvInt("AI_TIMEOUT_SECONDS", cfg.AI.TimeoutSeconds)
	cfg.AI.AppTitle = getEnv("APP_TITLE", cfg.AI.AppTitle)
	cfg.AI.Referer = getEnv("APP_REFERER", cfg.AI.Referer)

	cfg.S3.Endpoint = getEnv("S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.Region = getEnv("S3_REGION", cfg.S3.Region)
	cfg.S3.Bucket = getEnv("S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.AccessKey = getEnv("S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = getEnv("S3_SECRET_KEY", cfg.S3.SecretKey)

	cfg.AMQP.URL = getEnv("AMQP_URL", cfg.AMQP.URL)
	cfg.AMQP.Exchange = getEnv("AMQP_EXCHANGE", cfg.AMQP.Exchange)
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
