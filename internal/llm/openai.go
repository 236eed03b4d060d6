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

// Chat-completions endpoints for the OpenAI-compatible providers.
const (
	openAIBaseURL     = "https://api.openai.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// OpenAIClient implements Client against any OpenAI-compatible
// chat-completions API. It serves both the openai and openrouter providers,
// which differ only in base URL.
type OpenAIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewOpenAIClient creates a chat-completions client for the configured
// provider.
func NewOpenAIClient(cfg *Config) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is not set", cfg.Provider)
	}

	baseURL := openAIBaseURL
	if cfg.Provider == ProviderOpenRouter {
		baseURL = openRouterBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModels[cfg.Provider]
	}

	return &OpenAIClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      model,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateJSON sends the prompt as a single user message and returns the
// cleaned response text.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2, // Low temperature for consistent scoring
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, firstLine(raw))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return CleanJSONBlock(parsed.Choices[0].Message.Content), nil
}

// Model returns the configured model name
func (c *OpenAIClient) Model() string {
	return c.model
}

// Close releases resources held by the client
func (c *OpenAIClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func firstLine(raw []byte) string {
	for i, b := range raw {
		if b == '\n' {
			return string(raw[:i])
		}
	}
	return string(raw)
}
