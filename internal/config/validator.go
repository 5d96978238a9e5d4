package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new config validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the whole configuration and returns the first problem.
func (v *Validator) Validate(cfg *Config) error {
	if err := v.ValidatePort(cfg.Server.Port); err != nil {
		return err
	}
	if err := v.ValidateBaseURL("tenant", cfg.Tenant.BaseURL); err != nil {
		return err
	}
	if err := v.ValidateBaseURL("content", cfg.Content.BaseURL); err != nil {
		return err
	}
	if err := v.ValidateDispatch(cfg.Dispatch); err != nil {
		return err
	}
	if err := v.ValidateLogLevel(cfg.Logging.Level); err != nil {
		return err
	}
	return nil
}

// ValidatePort checks that a port is in the valid range
func (v *Validator) ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}

// ValidateBaseURL checks an outbound service base URL
func (v *Validator) ValidateBaseURL(service, baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("%s service base URL is required", service)
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid %s service base URL: %s", service, baseURL)
	}
	return nil
}

// ValidateDispatch checks the dispatch configuration
func (v *Validator) ValidateDispatch(cfg DispatchConfig) error {
	switch cfg.Provider {
	case "", "http":
		if cfg.BaseURL == "" {
			return fmt.Errorf("dispatch base URL is required for the http provider")
		}
	case "openai", "anthropic":
		if cfg.APIKey == "" {
			return fmt.Errorf("dispatch API key is required for provider %s", cfg.Provider)
		}
	default:
		return fmt.Errorf("unknown dispatch provider: %s", cfg.Provider)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("dispatch timeout must be positive")
	}
	return nil
}

// ValidateLogLevel checks the logging level
func (v *Validator) ValidateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}
}
