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

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

type anthropicClient struct {
	httpClient *http.Client
	baseURL    string
}

func newAnthropicClient(client *http.Client, baseURL string) ports.ProviderClient {
	return &anthropicClient{
		httpClient: client,
		baseURL:    valueOrDefault(baseURL, defaultAnthropicBaseURL),
	}
}

func (c *anthropicClient) Family() domain.ProviderFamily {
	return domain.FamilyAnthropic
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
}

func (r anthropicResponse) firstText() string {
	for _, block := range r.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text)
		}
	}
	return ""
}

func (c *anthropicClient) SendPrompt(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	payload := anthropicRequest{
		Model:       valueOrDefault(req.Model.WireID, req.Model.ModelID),
		MaxTokens:   valueOrDefaultInt(req.Model.MaxOutputTokens, 100),
		Temperature: req.Model.Temperature,
		System:      systemPrompt,
		Messages: []anthropicMessage{
			{
				Role: "user",
				Content: []anthropicContent{
					{Type: "text", Text: userPrompt(domain.FamilyAnthropic, req.Prompt)},
				},
			},
		},
	}

	body, err := doJSON(ctx, c.httpClient, domain.FamilyAnthropic, http.MethodPost,
		c.baseURL+"/v1/messages", c.headers(req.Secret), payload)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	var decoded anthropicResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("anthropic: decode response: %w", err)
	}
	return ports.ProviderResponse{RawText: decoded.firstText()}, nil
}

// ValidateCredential issues a minimal one-token request; Anthropic has no
// unauthenticated-free listing endpoint cheap enough to prefer.
func (c *anthropicClient) ValidateCredential(ctx context.Context, secret string) error {
	payload := anthropicRequest{
		Model:     "claude-3-haiku-20240307",
		MaxTokens: 1,
		Messages: []anthropicMessage{
			{Role: "user", Content: []anthropicContent{{Type: "text", Text: "ping"}}},
		},
	}
	_, err := doJSON(ctx, c.httpClient, domain.FamilyAnthropic, http.MethodPost,
		c.baseURL+"/v1/messages", c.headers(secret), payload)
	return err
}

func (c *anthropicClient) headers(secret string) map[string]string {
	return map[string]string{
		"x-api-key":         secret,
		"anthropic-version": anthropicVersion,
	}
}

var _ ports.ProviderClient = (*anthropicClient)(nil)
