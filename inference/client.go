// Package inference talks to the Cloudflare Workers AI text-generation API.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the Cloudflare API root.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// DefaultTimeout accommodates large prompts against slow models.
const DefaultTimeout = 120 * time.Second

// systemPrompt is sent with every run request.
const systemPrompt = "You summarize academic/scientific documents clearly and concisely."

// Summarizer produces a summary for an assembled prompt. Implemented by
// Client; tests substitute their own.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Config holds the credentials and model identity for a Client.
type Config struct {
	AccountID string
	APIToken  string
	Model     string
	BaseURL   string
	Timeout   time.Duration
	Logger    *slog.Logger
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client issues one synchronous model-run call per prompt. It never retries;
// the caller decides what a failure means.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// NewClient builds a Client from cfg, filling in defaults.
func NewClient(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger.With("component", "inference"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type runRequest struct {
	Messages []chatMessage `json:"messages"`
}

type runResponse struct {
	Result  json.RawMessage `json:"result"`
	Success bool            `json:"success"`
}

// Summarize sends the prompt and returns the model's reply text.
func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	reqJSON, err := json.Marshal(runRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal run request: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s",
		strings.TrimSuffix(c.cfg.BaseURL, "/"), c.cfg.AccountID, c.cfg.Model)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)

	c.logger.Debug("Sending model run request",
		"model", c.cfg.Model,
		"payload_size", len(reqJSON))

	startTime := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(startTime)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Model HTTP error",
			"status", resp.StatusCode,
			"body", string(body),
			"duration", duration)
		return "", fmt.Errorf("model endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var runResp runResponse
	if err := json.NewDecoder(resp.Body).Decode(&runResp); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}

	text := extractText(runResp.Result)

	c.logger.Debug("Model response received",
		"duration", duration,
		"summary_chars", len(text))

	return text, nil
}

// extractText pulls the reply out of the result object: the "response"
// field, then "message", then the raw result rendered as a string. It never
// fails for a well-formed 2xx reply.
func extractText(result json.RawMessage) string {
	var fields struct {
		Response *string `json:"response"`
		Message  *string `json:"message"`
	}
	if err := json.Unmarshal(result, &fields); err == nil {
		if fields.Response != nil {
			return *fields.Response
		}
		if fields.Message != nil {
			return *fields.Message
		}
	}

	var s string
	if err := json.Unmarshal(result, &s); err == nil {
		return s
	}
	return string(result)
}
