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

const defaultCohereBaseURL = "https://api.cohere.com"

type cohereClient struct {
	httpClient *http.Client
	baseURL    string
}

func newCohereClient(client *http.Client, baseURL string) ports.ProviderClient {
	return &cohereClient{
		httpClient: client,
		baseURL:    valueOrDefault(baseURL, defaultCohereBaseURL),
	}
}

func (c *cohereClient) Family() domain.ProviderFamily {
	return domain.FamilyCohere
}

type cohereRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	Preamble    string  `json:"preamble,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type cohereResponse struct {
	Text string `json:"text"`
}

func (c *cohereClient) SendPrompt(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	payload := cohereRequest{
		Model:       valueOrDefault(req.Model.WireID, req.Model.ModelID),
		Message:     userPrompt(domain.FamilyCohere, req.Prompt),
		Preamble:    systemPrompt,
		MaxTokens:   valueOrDefaultInt(req.Model.MaxOutputTokens, 100),
		Temperature: req.Model.Temperature,
	}

	body, err := doJSON(ctx, c.httpClient, domain.FamilyCohere, http.MethodPost,
		c.baseURL+"/v1/chat", c.headers(req.Secret), payload)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	var decoded cohereResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("cohere: decode response: %w", err)
	}
	return ports.ProviderResponse{RawText: strings.TrimSpace(decoded.Text)}, nil
}

// ValidateCredential lists models, the cheapest authenticated endpoint.
func (c *cohereClient) ValidateCredential(ctx context.Context, secret string) error {
	_, err := doJSON(ctx, c.httpClient, domain.FamilyCohere, http.MethodGet,
		c.baseURL+"/v1/models", c.headers(secret), nil)
	return err
}

func (c *cohereClient) headers(secret string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + secret}
}

var _ ports.ProviderClient = (*cohereClient)(nil)
