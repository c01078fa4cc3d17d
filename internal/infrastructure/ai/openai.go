package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/doeshing/chatcmd-go/internal/domain"
	"github.com/doeshing/chatcmd-go/internal/ports"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

type openAIClient struct {
	httpClient *http.Client
	baseURL    string
}

func newOpenAIClient(client *http.Client, baseURL string) ports.ProviderClient {
	return &openAIClient{
		httpClient: client,
		baseURL:    valueOrDefault(baseURL, defaultOpenAIBaseURL),
	}
}

func (c *openAIClient) Family() domain.ProviderFamily {
	return domain.FamilyOpenAI
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (r chatCompletionResponse) firstMessage() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Choices[0].Message.Content)
}

func (c *openAIClient) SendPrompt(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	payload := chatCompletionRequest{
		Model:       valueOrDefault(req.Model.WireID, req.Model.ModelID),
		MaxTokens:   valueOrDefaultInt(req.Model.MaxOutputTokens, 100),
		Temperature: req.Model.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(domain.FamilyOpenAI, req.Prompt)},
		},
	}

	body, err := doJSON(ctx, c.httpClient, domain.FamilyOpenAI, http.MethodPost,
		c.baseURL+"/v1/chat/completions", c.headers(req.Secret), payload)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	var decoded chatCompletionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("openai: decode response: %w", err)
	}
	return ports.ProviderResponse{RawText: decoded.firstMessage()}, nil
}

// ValidateCredential lists models, the cheapest authenticated endpoint.
func (c *openAIClient) ValidateCredential(ctx context.Context, secret string) error {
	_, err := doJSON(ctx, c.httpClient, domain.FamilyOpenAI, http.MethodGet,
		c.baseURL+"/v1/models", c.headers(secret), nil)
	return err
}

func (c *openAIClient) headers(secret string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + secret}
}

var _ ports.ProviderClient = (*openAIClient)(nil)
