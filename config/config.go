package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Env      string `env:"APP_ENV" env-default:"development"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	HTTP    HTTP
	DB      Database
	Admin   Admin
	Storage Storage
	Images  Images
	Notify  Notify
}

type HTTP struct {
	Port                string   `env:"PORT" env-default:"8080"`
	ReadTimeoutSeconds  int      `env:"READ_TIMEOUT_SECONDS" env-default:"180"`
	WriteTimeoutSeconds int      `env:"WRITE_TIMEOUT_SECONDS" env-default:"180"`
	IdleTimeoutSeconds  int      `env:"IDLE_TIMEOUT_SECONDS" env-default:"180"`
	AcceptedOrigins     []string `env:"ACCEPTED_ORIGINS" env-separator:"," env-default:"*"`
}

type Database struct {
	Type        string `env:"DB_TYPE" env-default:"supa"`
	Host        string `env:"SUPABASE_DB_HOST"`
	User        string `env:"SUPABASE_DB_USER"`
	Password    string `env:"SUPABASE_DB_PASSWORD"`
	Name        string `env:"SUPABASE_DB_NAME" env-default:"postgres"`
	Port        string `env:"SUPABASE_DB_PORT" env-default:"5432"`
	SSLMode     string `env:"SUPABASE_DB_SSLMODE" env-default:"require"`
	ReplicaHost string `env:"SUPABASE_DB_REPLICA_HOST"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" env-default:"false"`
}

type Admin struct {
	JWTSecret string `env:"ADMIN_JWT_SECRET"`
	Issuer    string `env:"ADMIN_JWT_ISSUER" env-default:"contractor-site"`
}

type Storage struct {
	SupabaseURL string `env:"SUPABASE_URL"`
	Endpoint    string `env:"SUPABASE_S3_ENDPOINT"`
	Region      string `env:"SUPABASE_S3_REGION" env-default:"us-east-1"`
	AccessKey   string `env:"SUPABASE_S3_ACCESS_KEY_ID"`
	SecretKey   string `env:"SUPABASE_S3_SECRET_ACCESS_KEY"`
	Bucket      string `env:"SUPABASE_IMAGE_BUCKET" env-default:"generated-images"`
}

type Images struct {
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	Project         string        `env:"GOOGLE_CLOUD_PROJECT"`
	Location        string        `env:"GOOGLE_CLOUD_LOCATION" env-default:"us-central1"`
	Model           string        `env:"IMAGE_MODEL" env-default:"imagen-3.0-generate-002"`
	PromptModel     string        `env:"PROMPT_MODEL" env-default:"gemini-2.0-flash"`
	EnhancePrompts  bool          `env:"ENHANCE_PROMPTS" env-default:"false"`
	MaxAttempts     int           `env:"IMAGE_MAX_ATTEMPTS" env-default:"3"`
	RetryDelay      time.Duration `env:"IMAGE_RETRY_DELAY" env-default:"2s"`
	BatchConcurrent int           `env:"IMAGE_BATCH_CONCURRENCY" env-default:"2"`
}

type Notify struct {
	ResendAPIKey    string   `env:"RESEND_API_KEY"`
	ResendFromEmail string   `env:"RESEND_FROM_EMAIL"`
	EmailRecipients []string `env:"LEAD_NOTIFY_EMAILS" env-separator:","`
	TwilioSID       string   `env:"TWILIO_ACCOUNT_SID"`
	TwilioToken     string   `env:"TWILIO_AUTH_TOKEN"`
	TwilioFrom      string   `env:"TWILIO_FROM_NUMBER"`
	SMSRecipients   []string `env:"LEAD_NOTIFY_PHONES" env-separator:","`
}

// Address is the listen address of the HTTP server.
func (h HTTP) Address() string {
	return fmt.Sprintf("0.0.0.0:%s", h.Port)
}

func (h HTTP) ReadTimeout() time.Duration {
	return time.Duration(h.ReadTimeoutSeconds) * time.Second
}

func (h HTTP) WriteTimeout() time.Duration {
	return time.Duration(h.WriteTimeoutSeconds) * time.Second
}

func (h HTTP) IdleTimeout() time.Duration {
	return time.Duration(h.IdleTimeoutSeconds) * time.Second
}

// DSN builds the Postgres connection string for host.
func (d Database) DSN(host string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// Load reads configuration from, in order: a .env file if one is found,
// SSM parameters under SSM_PARAMETER_PATH, then the process environment.
// Variables already set in the environment always win.
func Load(ctx context.Context) (*Config, error) {
	loadDotEnv()

	if path := os.Getenv("SSM_PARAMETER_PATH"); path != "" {
		if err := loadSSM(ctx, path); err != nil {
			return nil, fmt.Errorf("loading SSM parameters from %s: %w", path, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &cfg, nil
}

func loadDotEnv() {
	// Try multiple possible paths to find the .env file
	possiblePaths := []string{
		".env",
		filepath.Join("..", ".env"),
	}
	for _, envPath := range possiblePaths {
		err := godotenv.Load(envPath)
		if err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded .env file")
			return
		}
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", envPath).Msg("Failed to parse .env file")
		}
	}
	log.Debug().Msg("No .env file found, using system environment variables")
}
