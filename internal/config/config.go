package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Storage    StorageConfig
	Tracing    TracingConfig `mapstructure:"tracing"`
	Redis      RedisConfig
	AI         AIConfig
	Encryption EncryptionConfig `mapstructure:"encryption"`
	Chat       ChatConfig       `mapstructure:"chat"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`

	// Runtime flags set from the command line, not the config file.
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type AIConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	APIKey          string `mapstructure:"api_key"`
	Model           string `mapstructure:"model"`
	TranscribeModel string `mapstructure:"transcribe_model"`
	TTSModel        string `mapstructure:"tts_model"`
	TTSVoice        string `mapstructure:"tts_voice"`
}

// EncryptionConfig holds key material for field-level encryption of stored
// document text. The key is hex encoded in config: 64 hex chars = 32 bytes.
type EncryptionConfig struct {
	DocumentKey string `mapstructure:"document_key"`
}

// ChatConfig tunes the conversational workflow.
type ChatConfig struct {
	HistoryWindow      int `mapstructure:"history_window"`       // turns of context per LLM call
	AssessmentMaxTurns int `mapstructure:"assessment_max_turns"` // GATHERING turn cap
	AssessmentTTLHours int `mapstructure:"assessment_ttl_hours"` // inactivity eviction
	DocExcerptChars    int `mapstructure:"doc_excerpt_chars"`    // per-document excerpt cap
	MaxDocsPerQuery    int `mapstructure:"max_docs_per_query"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	AudioPath     string `mapstructure:"audio_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("AROGYA")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")
	viper.BindEnv("ai.transcribe_model", "AI_TRANSCRIBE_MODEL")
	viper.BindEnv("ai.tts_model", "AI_TTS_MODEL")

	// Encryption
	viper.BindEnv("encryption.document_key", "DOCUMENT_ENCRYPTION_KEY")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// Key strength checks before the server is allowed to start.
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}
	if len(cfg.Encryption.DocumentKey) != 64 {
		return nil, fmt.Errorf("encryption.document_key must be 64 hex characters (32 bytes), got %d", len(cfg.Encryption.DocumentKey))
	}

	applyChatDefaults(&cfg.Chat)

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}
	if cfg.Storage.AudioPath != "" {
		if _, err := os.Stat(cfg.Storage.AudioPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.AudioPath, 0755)
		}
	}

	return &cfg, nil
}

func applyChatDefaults(c *ChatConfig) {
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = 5
	}
	if c.AssessmentMaxTurns <= 0 {
		c.AssessmentMaxTurns = 5
	}
	if c.AssessmentTTLHours <= 0 {
		c.AssessmentTTLHours = 24
	}
	if c.DocExcerptChars <= 0 {
		c.DocExcerptChars = 2000
	}
	if c.MaxDocsPerQuery <= 0 {
		c.MaxDocsPerQuery = 5
	}
}
