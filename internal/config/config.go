package config

import (
	"encoding/json"
	"time"
)

// Config represents the main Lumi configuration
type Config struct {
	// Server holds the inbound gateway settings
	Server ServerConfig `json:"server" mapstructure:"server"`

	// ProfileStore holds the learner store settings
	ProfileStore ProfileStoreConfig `json:"profile_store" mapstructure:"profile_store"`

	// Tenant holds the tenant-configuration service settings
	Tenant ServiceConfig `json:"tenant" mapstructure:"tenant"`

	// Content holds the approved-content service settings
	Content ServiceConfig `json:"content" mapstructure:"content"`

	// Dispatch holds the model-dispatch settings
	Dispatch DispatchConfig `json:"dispatch" mapstructure:"dispatch"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Refresh holds scheduled maintenance settings
	Refresh RefreshConfig `json:"refresh" mapstructure:"refresh"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// ServerConfig holds gateway server configuration
type ServerConfig struct {
	Port         int    `json:"port" mapstructure:"port"`
	SharedSecret string `json:"shared_secret" mapstructure:"shared_secret"`
}

// ProfileStoreConfig holds learner store configuration
type ProfileStoreConfig struct {
	DBPath string `json:"db_path" mapstructure:"db_path"`
}

// ServiceConfig holds settings for one outbound internal service
type ServiceConfig struct {
	BaseURL  string        `json:"base_url" mapstructure:"base_url"`
	Timeout  time.Duration `json:"timeout" mapstructure:"timeout"`
	CacheTTL time.Duration `json:"cache_ttl" mapstructure:"cache_ttl"`
}

// DispatchConfig holds model dispatch configuration
type DispatchConfig struct {
	Provider string        `json:"provider" mapstructure:"provider"` // http, openai, anthropic
	BaseURL  string        `json:"base_url" mapstructure:"base_url"`
	Path     string        `json:"path" mapstructure:"path"`
	APIKey   string        `json:"api_key" mapstructure:"api_key"`
	Model    string        `json:"model" mapstructure:"model"`
	Timeout  time.Duration `json:"timeout" mapstructure:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Console   bool   `json:"console" mapstructure:"console"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// RefreshConfig holds scheduled maintenance configuration
type RefreshConfig struct {
	// TenantCacheCron is a cron expression for tenant-config cache
	// refresh. Empty disables the schedule.
	TenantCacheCron string `json:"tenant_cache_cron" mapstructure:"tenant_cache_cron"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8085,
		},
		Tenant: ServiceConfig{
			Timeout:  10 * time.Second,
			CacheTTL: 5 * time.Minute,
		},
		Content: ServiceConfig{
			Timeout: 10 * time.Second,
		},
		Dispatch: DispatchConfig{
			Provider: "http",
			Path:     "/v1/dispatch",
			Timeout:  30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Console:   true,
			Pretty:    true,
			Redaction: true,
		},
		Refresh: RefreshConfig{
			TenantCacheCron: "0 4 * * *",
		},
	}
}

// String returns the config as redacted JSON for diagnostics
func (c *Config) String() string {
	redacted := *c
	if redacted.Dispatch.APIKey != "" {
		redacted.Dispatch.APIKey = "[REDACTED]"
	}
	if redacted.Server.SharedSecret != "" {
		redacted.Server.SharedSecret = "[REDACTED]"
	}
	data, err := json.MarshalIndent(redacted, "", "  ")
	if err != nil {
		return "<unprintable config>"
	}
	return string(data)
}
