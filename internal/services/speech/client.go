package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bookvoice/internal/services/httpretry"
)

const (
	defaultHTTPTimeout = 60 * time.Second
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "tts-1-hd"
	defaultVoice       = "alloy"
)

// Config captures the runtime settings required to talk to the speech backend.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
	RetryAttempts  int
}

// Request describes one synthesis call.
type Request struct {
	Text   string
	Voice  string
	Speed  float64
	Prompt string
}

// Client wraps an OpenAI-compatible /audio/speech endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retry      httpretry.Policy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.retry.Sleeper = sleeper
	}
}

// NewClient constructs a speech client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
			RetryAttempts:  cfg.RetryAttempts,
		},
		httpClient: &http.Client{Timeout: timeout},
		retry:      httpretry.DefaultPolicy(cfg.RetryAttempts),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	return client
}

type speechRequest struct {
	Model        string  `json:"model"`
	Input        string  `json:"input"`
	Voice        string  `json:"voice"`
	Speed        float64 `json:"speed"`
	Instructions string  `json:"instructions,omitempty"`
}

// Synthesize returns the raw audio bytes for req.
func (c *Client) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errors.New("speech synthesize: text required")
	}
	if c.cfg.APIKey == "" {
		return nil, errors.New("speech synthesize: api key required")
	}
	voice := strings.ToLower(strings.TrimSpace(req.Voice))
	if voice == "" {
		voice = defaultVoice
	}
	speed := req.Speed
	if speed <= 0 {
		speed = 1.0
	}
	payload := speechRequest{
		Model:        c.cfg.Model,
		Input:        text,
		Voice:        voice,
		Speed:        speed,
		Instructions: strings.TrimSpace(req.Prompt),
	}
	return httpretry.Do(ctx, c.retry, "speech synthesize", func(ctx context.Context) ([]byte, error) {
		return c.sendOnce(ctx, payload)
	})
}

func (c *Client) sendOnce(ctx context.Context, payload speechRequest) ([]byte, error) {
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "audio", "speech")
	if err != nil {
		return nil, fmt.Errorf("speech request: build url: %w", err)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("speech request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("speech request: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speech request: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpretry.NewStatusError("speech request", resp, body)
	}
	if len(body) == 0 {
		return nil, errors.New("speech request: empty audio payload")
	}
	return body, nil
}
