package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Providers  ProvidersConfig  `yaml:"providers"`
	ToolServer ToolServerConfig `yaml:"tool_server"`
	Server     ServerConfig     `yaml:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Schedule   string           `yaml:"schedule"`
	DataDir    string           `yaml:"data_dir"`
}

type YouTubeConfig struct {
	// APIKey is the server-side default key used by background refreshes.
	// Interactive requests may carry their own key.
	APIKey     string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	RegionCode string `yaml:"region_code"`
}

// ProvidersConfig holds credentials for the three text-completion
// backends. Any of them may be absent; the enhancement dispatcher reports
// a configuration error for the affected provider only.
type ProvidersConfig struct {
	AnthropicAPIKey string `yaml:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	GrokAPIKey      string `yaml:"grok_api_key" env:"GROK_API_KEY"`
	OpenAIAPIKey    string `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
}

// ToolServerConfig points at the local Python tool server that hosts the
// whisper transcription, keyword trend, and content evaluation endpoints.
type ToolServerConfig struct {
	BaseURL string `yaml:"base_url" env:"TOOL_SERVER_URL"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		// No config file is fine; env vars and defaults cover everything.
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	}

	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.Providers.AnthropicAPIKey == "" {
		cfg.Providers.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.Providers.GrokAPIKey == "" {
		cfg.Providers.GrokAPIKey = os.Getenv("GROK_API_KEY")
	}
	if cfg.Providers.OpenAIAPIKey == "" {
		cfg.Providers.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.ToolServer.BaseURL == "" {
		cfg.ToolServer.BaseURL = os.Getenv("TOOL_SERVER_URL")
	}

	if cfg.YouTube.RegionCode == "" {
		cfg.YouTube.RegionCode = "KR"
	}
	if cfg.ToolServer.BaseURL == "" {
		cfg.ToolServer.BaseURL = "http://localhost:15000"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Monitoring.HealthPort == 0 {
		cfg.Monitoring.HealthPort = 8085
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 */30 * * * *" // Every 30 minutes
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.YouTube.RegionCode == "" {
		return fmt.Errorf("YouTube region code is required (set youtube.region_code)")
	}
	if c.ToolServer.BaseURL == "" {
		return fmt.Errorf("tool server URL is required (set TOOL_SERVER_URL or tool_server.base_url)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", c.Server.Port)
	}
	if c.Monitoring.HealthPort <= 0 || c.Monitoring.HealthPort > 65535 {
		return fmt.Errorf("health port %d is out of range", c.Monitoring.HealthPort)
	}
	return nil
}
