package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrMissingAPIKey = errors.New("missing LIFX API key")

type Config struct {
	LIFX  LIFXConfig  `yaml:"lifx"`
	Skill SkillConfig `yaml:"skill"`
	Host  HostConfig  `yaml:"host"`
	Log   LogConfig   `yaml:"log"`

	dir string
}

type LIFXConfig struct {
	APIKeyFile   string  `yaml:"api_key_file"`
	BaseURL      string  `yaml:"base_url"`
	Timeout      string  `yaml:"timeout"`
	RateLimitRPS float64 `yaml:"rate_limit_rps"`
}

type SkillConfig struct {
	Language       string `yaml:"language"`
	DefaultRoom    string `yaml:"default_room"`
	MatchThreshold int    `yaml:"match_threshold"`
	SyncInterval   string `yaml:"sync_interval"`
}

type HostConfig struct {
	HTTPAddr           string   `yaml:"http_addr"`
	AuthToken          string   `yaml:"auth_token"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
	TrustedProxies     []string `yaml:"trusted_proxies"`
	WriteTimeout       string   `yaml:"write_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = filepath.Dir(path)
	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.LIFX.APIKeyFile == "" {
		c.LIFX.APIKeyFile = "api_key"
	}
	if c.LIFX.BaseURL == "" {
		c.LIFX.BaseURL = "https://api.lifx.com/v1"
	}
	if c.LIFX.Timeout == "" {
		c.LIFX.Timeout = "15s"
	}
	if c.LIFX.RateLimitRPS == 0 {
		c.LIFX.RateLimitRPS = 2
	}
	if c.Skill.Language == "" {
		c.Skill.Language = "en-us"
	}
	if c.Skill.MatchThreshold == 0 {
		c.Skill.MatchThreshold = 70
	}
	if c.Skill.SyncInterval == "" {
		c.Skill.SyncInterval = "0"
	}
	if c.Host.HTTPAddr == "" {
		c.Host.HTTPAddr = ":8080"
	}
	if c.Host.RateLimitPerMinute == 0 {
		c.Host.RateLimitPerMinute = 60
	}
	if c.Host.WriteTimeout == "" {
		c.Host.WriteTimeout = "60s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// APIKeyPath resolves the key file relative to the config file's directory.
func (c *Config) APIKeyPath() string {
	if filepath.IsAbs(c.LIFX.APIKeyFile) {
		return c.LIFX.APIKeyFile
	}
	return filepath.Join(c.dir, c.LIFX.APIKeyFile)
}

// LoadAPIKey reads the LIFX token from path. A missing or blank file is an
// error.
func LoadAPIKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s not found", ErrMissingAPIKey, path)
		}
		return "", fmt.Errorf("reading api key: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMissingAPIKey, path)
	}

	return key, nil
}
