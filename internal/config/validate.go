package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. The speech API key is not
// checked here because only `bookvoice synthesize` needs it.
func (c *Config) Validate() error {
	if err := c.validateAttribution(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAttribution() error {
	if err := validateURL("attribution.base_url", c.Attribution.BaseURL); err != nil {
		return err
	}
	if err := ensurePositiveMap(map[string]int{
		"attribution.timeout_seconds": c.Attribution.TimeoutSeconds,
		"attribution.workers":         c.Attribution.Workers,
		"attribution.retry_attempts":  c.Attribution.RetryAttempts,
	}); err != nil {
		return err
	}
	if c.Attribution.Temperature < 0 || c.Attribution.Temperature > 2 {
		return errors.New("attribution.temperature must be between 0 and 2")
	}
	if c.Attribution.TopP < 0 || c.Attribution.TopP > 1 {
		return errors.New("attribution.top_p must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if err := validateURL("speech.base_url", c.Speech.BaseURL); err != nil {
		return err
	}
	return ensurePositiveMap(map[string]int{
		"speech.timeout_seconds": c.Speech.TimeoutSeconds,
		"speech.max_chunk_chars": c.Speech.MaxChunkChars,
		"speech.retry_attempts":  c.Speech.RetryAttempts,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}

func validateURL(key, value string) error {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", key, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", key, value)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
