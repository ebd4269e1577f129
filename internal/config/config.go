// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"` // bearer key for mutating routes
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// ConnectionConfig is one named entry of the local secret store: everything
// needed to build a session when no ambient one is injected.
type ConnectionConfig struct {
	Account   string `yaml:"account"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	Role      string `yaml:"role"`
	Warehouse string `yaml:"warehouse"`
	Database  string `yaml:"database"`
	Schema    string `yaml:"schema"`
}

type SnowflakeConfig struct {
	// Connections mirrors the nested secret-store layout; DefaultConnection
	// picks the entry used by the configured fallback strategy.
	Connections       map[string]ConnectionConfig `yaml:"connections"`
	DefaultConnection string                      `yaml:"default_connection"`
	TokenFile         string                      `yaml:"token_file"` // ambient token injected by the hosting runtime
}

type AIConfig struct {
	OpenAIKey       string `yaml:"openai_key"`
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	DefaultModel    string `yaml:"default_model"`
	ContextWindow   int    `yaml:"context_window"`   // last-N message slice; 0 = whole history
	ConcurrentLimit int    `yaml:"concurrent_limit"` // max concurrent AI calls
}

type SearchConfig struct {
	DefaultService string   `yaml:"default_service"` // database.schema.service_name
	Columns        []string `yaml:"columns"`
	Limit          int      `yaml:"limit"`
}

type TranscribeConfig struct {
	Stage string `yaml:"stage"` // staging area for uploaded audio
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Redis      RedisConfig      `yaml:"redis"`
	Snowflake  SnowflakeConfig  `yaml:"snowflake"`
	AI         AIConfig         `yaml:"ai"`
	Search     SearchConfig     `yaml:"search"`
	Transcribe TranscribeConfig `yaml:"transcribe"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "claude-3-5-sonnet"
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.Snowflake.DefaultConnection == "" {
		cfg.Snowflake.DefaultConnection = "my_example_connection"
	}
	if cfg.Snowflake.TokenFile == "" {
		cfg.Snowflake.TokenFile = "/snowflake/session/token"
	}
	if cfg.Search.Limit <= 0 {
		cfg.Search.Limit = 5
	}
	if len(cfg.Search.Columns) == 0 {
		cfg.Search.Columns = []string{"CHUNK_TEXT", "FILE_NAME", "CHUNK_TYPE", "CHUNK_ID"}
	}
	if cfg.Transcribe.Stage == "" {
		cfg.Transcribe.Stage = "@audio_stage"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// RequiredConnectionKeys lists what a local secrets file must provide; the
// resolver surfaces these in its error when every strategy fails.
func RequiredConnectionKeys(name string) []string {
	prefix := "snowflake.connections." + name + "."
	keys := []string{"account", "user", "password", "role", "warehouse", "database", "schema"}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = prefix + k
	}
	return out
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
