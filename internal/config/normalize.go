package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAttribution()
	c.normalizeSpeech()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAttribution() {
	c.Attribution.BaseURL = strings.TrimRight(strings.TrimSpace(c.Attribution.BaseURL), "/")
	if c.Attribution.BaseURL == "" {
		if value, ok := os.LookupEnv("OLLAMA_HOST"); ok && strings.TrimSpace(value) != "" {
			c.Attribution.BaseURL = strings.TrimRight(strings.TrimSpace(value), "/")
		} else {
			c.Attribution.BaseURL = defaultAttributionBaseURL
		}
	}
	c.Attribution.Model = strings.TrimSpace(c.Attribution.Model)
	if c.Attribution.Model == "" {
		c.Attribution.Model = defaultAttributionModel
	}
	if c.Attribution.TimeoutSeconds <= 0 {
		c.Attribution.TimeoutSeconds = defaultAttributionTimeout
	}
	if c.Attribution.Workers <= 0 {
		c.Attribution.Workers = defaultAttributionWorkers
	}
	if c.Attribution.RetryAttempts <= 0 {
		c.Attribution.RetryAttempts = defaultAttributionRetries
	}
}

func (c *Config) normalizeSpeech() {
	c.Speech.APIKey = strings.TrimSpace(c.Speech.APIKey)
	if c.Speech.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Speech.APIKey = strings.TrimSpace(value)
		}
	}
	c.Speech.BaseURL = strings.TrimRight(strings.TrimSpace(c.Speech.BaseURL), "/")
	if c.Speech.BaseURL == "" {
		c.Speech.BaseURL = defaultSpeechBaseURL
	}
	c.Speech.Model = strings.TrimSpace(c.Speech.Model)
	if c.Speech.Model == "" {
		c.Speech.Model = defaultSpeechModel
	}
	if c.Speech.TimeoutSeconds <= 0 {
		c.Speech.TimeoutSeconds = defaultSpeechTimeout
	}
	if c.Speech.MaxChunkChars <= 0 {
		c.Speech.MaxChunkChars = defaultMaxChunkChars
	}
	if c.Speech.RequestIntervalMS < 0 {
		c.Speech.RequestIntervalMS = 0
	}
	if c.Speech.RetryAttempts <= 0 {
		c.Speech.RetryAttempts = defaultSpeechRetries
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
