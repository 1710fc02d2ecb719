package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	FeedbackBackendCSV      = "csv"
	FeedbackBackendPostgres = "postgres"
)

type Config struct {
	AppEnv        string        `env:"APP_ENV" default:"development"`
	Port          string        `env:"PORT" default:"8501"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" default:"720h"` // 30 days
	LogLevel      string        `env:"LOG_LEVEL" default:"info"`
	LogFormat     string        `env:"LOG_FORMAT" default:"text"`

	DataDir              string `env:"DATA_DIR" default:"."`
	FeedbackFile         string `env:"FEEDBACK_FILE" default:"feedback_data.csv"`
	AnalysisFeedbackFile string `env:"ANALYSIS_FEEDBACK_FILE" default:"user_feedback.csv"`
	CredentialsFile      string `env:"CREDENTIALS_FILE" default:"config.yaml"`
	FeedbackBackend      string `env:"FEEDBACK_BACKEND" default:"csv"`
	DatabaseURL          string `env:"DATABASE_URL"`
	RedisURL             string `env:"REDIS_URL"`

	HuggingFaceAPIKey  string        `env:"HUGGING_FACE_API_KEY"`
	HuggingFaceBaseURL string        `env:"HUGGING_FACE_BASE_URL" default:"https://api-inference.huggingface.co"`
	SentimentModel     string        `env:"SENTIMENT_MODEL" default:"distilbert/distilbert-base-uncased-finetuned-sst-2-english"`
	NewsSentimentModel string        `env:"NEWS_SENTIMENT_MODEL" default:"SamLowe/roberta-base-go_emotions"`
	EmotionModel       string        `env:"EMOTION_MODEL" default:"j-hartmann/emotion-english-distilroberta-base"`
	SummaryModel       string        `env:"SUMMARY_MODEL" default:"sshleifer/distilbart-cnn-12-6"`
	EmbeddingModel     string        `env:"EMBEDDING_MODEL" default:"sentence-transformers/all-MiniLM-L6-v2"`
	ModelTimeout       time.Duration `env:"MODEL_TIMEOUT" default:"30s"`

	OpenAIAPIKey         string `env:"OPENAI_API_KEY"`
	OpenAIModel          string `env:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIEmbeddingModel string `env:"OPENAI_EMBEDDING_MODEL" default:"text-embedding-3-small"`

	GeocoderURL       string        `env:"GEOCODER_URL" default:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent string        `env:"GEOCODER_USER_AGENT" default:"geo-sentiment"`
	GeocodeDelay      time.Duration `env:"GEOCODE_DELAY" default:"1s"`
	GeocodeTimeout    time.Duration `env:"GEOCODE_TIMEOUT" default:"10s"`
	GeocodeCacheTTL   time.Duration `env:"GEOCODE_CACHE_TTL" default:"720h"`

	NewsAPIKey   string        `env:"NEWS_API_KEY"`
	NewsAPIURL   string        `env:"NEWS_API_URL" default:"https://newsapi.org"`
	NewsRSSURL   string        `env:"NEWS_RSS_URL" default:"https://news.google.com/rss/search"`
	NewsTimeout  time.Duration `env:"NEWS_TIMEOUT" default:"15s"`
	GoogleAPIKey string        `env:"GOOGLE_API_KEY"`
	GoogleCSEID  string        `env:"GOOGLE_CSE_ID"`

	MaxUploadSize string `env:"MAX_UPLOAD_SIZE" default:"10M"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if len(cfg.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 characters")
	}

	switch cfg.FeedbackBackend {
	case FeedbackBackendCSV:
	case FeedbackBackendPostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when FEEDBACK_BACKEND=postgres")
		}
		if err := validateSSLMode(cfg); err != nil {
			return err
		}
	default:
		return fmt.Errorf("FEEDBACK_BACKEND must be %q or %q, got %q", FeedbackBackendCSV, FeedbackBackendPostgres, cfg.FeedbackBackend)
	}

	if (cfg.GoogleAPIKey == "") != (cfg.GoogleCSEID == "") {
		return errors.New("GOOGLE_API_KEY and GOOGLE_CSE_ID must be set together")
	}

	if cfg.ModelTimeout <= 0 {
		return errors.New("MODEL_TIMEOUT must be positive")
	}
	if cfg.GeocodeTimeout <= 0 {
		return errors.New("GEOCODE_TIMEOUT must be positive")
	}
	if cfg.GeocodeCacheTTL <= 0 {
		return errors.New("GEOCODE_CACHE_TTL must be positive")
	}
	if cfg.GeocodeDelay < 0 {
		return errors.New("GEOCODE_DELAY must not be negative")
	}

	return nil
}

func validateSSLMode(cfg *Config) error {
	if cfg.AppEnv != "production" {
		return nil
	}
	u, err := url.Parse(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}
	mode := strings.ToLower(u.Query().Get("sslmode"))
	if mode == "disable" || mode == "allow" {
		return fmt.Errorf("DATABASE_URL uses sslmode=%s which is not allowed in production", mode)
	}
	return nil
}

// HuggingFaceEnabled reports whether model calls can be authenticated.
func (c *Config) HuggingFaceEnabled() bool {
	return c.HuggingFaceAPIKey != ""
}

// OpenAIEnabled reports whether the OpenAI-backed summariser and embedder are configured.
func (c *Config) OpenAIEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// WebSearchEnabled reports whether Google Custom Search is configured.
func (c *Config) WebSearchEnabled() bool {
	return c.GoogleAPIKey != "" && c.GoogleCSEID != ""
}
