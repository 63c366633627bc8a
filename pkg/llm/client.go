// Package llm is the generation capability behind the query-understanding
// pipeline: a thin client for an OpenAI-compatible chat completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Generator produces raw model text for a prompt and reports the wall-clock
// time spent generating. Implementations make exactly one generation call per
// invocation; failures surface as *GenerationError and are never retried here.
type Generator interface {
	Generate(ctx context.Context, prompt string) (text string, elapsed time.Duration, err error)
}

// GenerationError reports that the model did not return usable text.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("llm: generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Config configures the chat completions client.
type Config struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
}

// Client calls an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
}

// New creates a Client from the given configuration, applying defaults for
// unset fields.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "Qwen/Qwen2-0.5B-Instruct"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 100
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt as a single user message and returns the model's
// reply. Generation is deterministic (temperature 0). A caller-supplied
// deadline on ctx bounds the call.
func (c *Client) Generate(ctx context.Context, prompt string) (string, time.Duration, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", 0, &GenerationError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", 0, &GenerationError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return "", elapsed, &GenerationError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", elapsed, &GenerationError{Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", elapsed, &GenerationError{Err: fmt.Errorf("upstream returned %d: %s", resp.StatusCode, truncate(body, 256))}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", elapsed, &GenerationError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(chatResp.Choices) == 0 {
		return "", elapsed, &GenerationError{Err: fmt.Errorf("response contained no choices")}
	}

	return chatResp.Choices[0].Message.Content, elapsed, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
