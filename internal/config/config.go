// Package config loads process configuration from an optional .env file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/abhisek/p5math/internal/llm"
	"github.com/abhisek/p5math/internal/store"
)

type Config struct {
	LLM       llm.Config
	Server    Server
	Database  Database
	Log       Log
	CORS      CORS
	RateLimit RateLimit
}

type Server struct {
	Port         string
	Mode         string // debug | release | test
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Database struct {
	Driver string // sqlite | postgres
	DSN    string // empty means the default sqlite path
}

type Log struct {
	Level string
	File  string // optional rotating log file
}

type CORS struct {
	AllowedOrigins []string
}

// RateLimit applies per client IP to the AI-backed routes.
type RateLimit struct {
	MaxRequests int
	Window      time.Duration
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()
	v.SetDefault("LLM_PROVIDER", d.Provider)
	v.SetDefault("GEMINI_MODEL", d.Gemini.Model)
	v.SetDefault("OPENAI_MODEL", d.OpenAI.Model)
	v.SetDefault("ANTHROPIC_MODEL", d.Anthropic.Model)
	v.SetDefault("OPENROUTER_MODEL", d.OpenRouter.Model)
	v.SetDefault("OPENROUTER_BASE_URL", d.OpenRouter.BaseURL)
	v.SetDefault("LLM_TIMEOUT", d.Timeout)
	v.SetDefault("LLM_MAX_ATTEMPTS", d.MaxAttempts)

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "release")
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	// Feedback generation can take several model calls.
	v.SetDefault("SERVER_WRITE_TIMEOUT", 2*time.Minute)

	v.SetDefault("DATABASE_DRIVER", store.DriverSQLite)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 30)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
}

// Load reads dir/.env if present, then the environment, which wins over
// the file. An empty dir means the working directory.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = "."
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, ".env"))
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
		log.Debug().Str("dir", dir).Msg("no .env file, using environment only")
	}

	var cfg Config

	cfg.LLM = llm.Config{
		Provider: strings.ToLower(v.GetString("LLM_PROVIDER")),
		Gemini: llm.GeminiConfig{
			APIKey: firstNonEmpty(v.GetString("GOOGLE_API_KEY"), v.GetString("GEMINI_API_KEY")),
			Model:  v.GetString("GEMINI_MODEL"),
		},
		OpenAI: llm.OpenAIConfig{
			APIKey:  v.GetString("OPENAI_API_KEY"),
			Model:   v.GetString("OPENAI_MODEL"),
			BaseURL: v.GetString("OPENAI_BASE_URL"),
		},
		Anthropic: llm.AnthropicConfig{
			APIKey: v.GetString("ANTHROPIC_API_KEY"),
			Model:  v.GetString("ANTHROPIC_MODEL"),
		},
		OpenRouter: llm.OpenRouterConfig{
			APIKey:  v.GetString("OPENROUTER_API_KEY"),
			Model:   v.GetString("OPENROUTER_MODEL"),
			BaseURL: v.GetString("OPENROUTER_BASE_URL"),
		},
		Timeout:     v.GetDuration("LLM_TIMEOUT"),
		MaxAttempts: v.GetInt("LLM_MAX_ATTEMPTS"),
	}

	cfg.Server = Server{
		Port:         v.GetString("SERVER_PORT"),
		Mode:         v.GetString("SERVER_MODE"),
		ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
	}

	cfg.Database = Database{
		Driver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DSN:    v.GetString("DATABASE_DSN"),
	}

	cfg.Log = Log{
		Level: v.GetString("LOG_LEVEL"),
		File:  v.GetString("LOG_FILE"),
	}

	cfg.CORS = CORS{AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS"))}

	cfg.RateLimit = RateLimit{
		MaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		Window:      v.GetDuration("RATE_LIMIT_WINDOW"),
	}

	return &cfg, nil
}

// Validate checks everything except the LLM credentials, which are checked
// by llm.Config.Validate so that commands not talking to a model can run
// without them.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("SERVER_MODE must be debug, release or test, got %q", c.Server.Mode)
	}
	switch c.Database.Driver {
	case store.DriverSQLite:
	case store.DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("DATABASE_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_MAX_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
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

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
