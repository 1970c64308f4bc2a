package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Hosted chat-completions endpoints. Groq exposes the same wire format
// as OpenAI, so one client serves both.
const (
	openAIBaseURL = "https://api.openai.com/v1"
	groqBaseURL   = "https://api.groq.com/openai/v1"
)

const chatTimeout = 2 * time.Minute

// OpenAICompatibleGenerator produces completions through any
// OpenAI-compatible chat completions API.
type OpenAICompatibleGenerator struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewOpenAICompatible creates a generator for a hosted chat API.
func NewOpenAICompatible(baseURL, apiKey, model string, logger *zap.Logger) *OpenAICompatibleGenerator {
	return &OpenAICompatibleGenerator{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: chatTimeout},
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Model returns the backend model identifier.
func (g *OpenAICompatibleGenerator) Model() string { return g.model }

// Complete sends the prompt as a single user message and returns the
// first choice's content.
func (g *OpenAICompatibleGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    g.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat api returned status %d: %s", resp.StatusCode, respBody)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("chat api returned no choices for model %s", g.model)
	}

	g.logger.Debug("chat completion received",
		zap.String("model", g.model),
		zap.Int("response_len", len(chat.Choices[0].Message.Content)))
	return chat.Choices[0].Message.Content, nil
}
