package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	UIModeRemote = "remote"
	UIModeLocal  = "local"
)

type Config struct {
	Server        ServerConfig
	Artifacts     ArtifactConfig
	PredictionLog PredictionLogConfig
	Database      DatabaseConfig
	Logger        LoggerConfig
	UI            UIConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	CORSAllowedOrigins []string
}

type ArtifactConfig struct {
	ModelPath        string
	PreprocessorPath string
	MetadataPath     string
}

type PredictionLogConfig struct {
	Path string
}

// DatabaseConfig drives the optional Postgres prediction log.
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type LoggerConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type UIConfig struct {
	Host       string
	Port       int
	Mode       string
	APIURL     string
	APITimeout time.Duration
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8000)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("ARTIFACT_MODEL_PATH", "model_artifacts/best_model.json")
	v.SetDefault("ARTIFACT_PREPROCESSOR_PATH", "model_artifacts/preprocessor.json")
	v.SetDefault("ARTIFACT_METADATA_PATH", "model_artifacts/model_metadata.json")
	v.SetDefault("PREDICTION_LOG_PATH", "logs/prediction_logs.jsonl")
	v.SetDefault("DATABASE_ENABLED", false)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_NAME", "house_price")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("LOGGER_FILE", "")
	v.SetDefault("LOGGER_MAX_SIZE_MB", 100)
	v.SetDefault("LOGGER_MAX_BACKUPS", 3)
	v.SetDefault("LOGGER_MAX_AGE_DAYS", 28)
	v.SetDefault("UI_HOST", "0.0.0.0")
	v.SetDefault("UI_PORT", 8501)
	v.SetDefault("UI_MODE", UIModeRemote)
	v.SetDefault("UI_API_URL", "http://localhost:8000")
	v.SetDefault("UI_API_TIMEOUT", "10s")

	// Env
	v.AutomaticEnv()

	lifetime, err := time.ParseDuration(v.GetString("DATABASE_CONN_MAX_LIFETIME"))
	if err != nil {
		lifetime = 30 * time.Minute
	}
	apiTimeout, err := time.ParseDuration(v.GetString("UI_API_TIMEOUT"))
	if err != nil {
		apiTimeout = 10 * time.Second
	}

	mode := strings.ToLower(strings.TrimSpace(v.GetString("UI_MODE")))
	if mode != UIModeRemote && mode != UIModeLocal {
		return nil, fmt.Errorf("invalid UI_MODE %q: want %q or %q", mode, UIModeRemote, UIModeLocal)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:               v.GetString("SERVER_HOST"),
			Port:               v.GetInt("SERVER_PORT"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Artifacts: ArtifactConfig{
			ModelPath:        v.GetString("ARTIFACT_MODEL_PATH"),
			PreprocessorPath: v.GetString("ARTIFACT_PREPROCESSOR_PATH"),
			MetadataPath:     v.GetString("ARTIFACT_METADATA_PATH"),
		},
		PredictionLog: PredictionLogConfig{
			Path: v.GetString("PREDICTION_LOG_PATH"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DATABASE_ENABLED"),
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: lifetime,
		},
		Logger: LoggerConfig{
			Level:      v.GetString("LOGGER_LEVEL"),
			Format:     v.GetString("LOGGER_FORMAT"),
			File:       v.GetString("LOGGER_FILE"),
			MaxSizeMB:  v.GetInt("LOGGER_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOGGER_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOGGER_MAX_AGE_DAYS"),
		},
		UI: UIConfig{
			Host:       v.GetString("UI_HOST"),
			Port:       v.GetInt("UI_PORT"),
			Mode:       mode,
			APIURL:     v.GetString("UI_API_URL"),
			APITimeout: apiTimeout,
		},
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
