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

const defaultOllamaBaseURL = "http://localhost:11434"

// ollamaClient targets a local inference server. It is the one family that
// never requires a credential.
type ollamaClient struct {
	httpClient *http.Client
	baseURL    string
}

func newOllamaClient(client *http.Client, baseURL string) ports.ProviderClient {
	return &ollamaClient{
		httpClient: client,
		baseURL:    valueOrDefault(baseURL, defaultOllamaBaseURL),
	}
}

func (c *ollamaClient) Family() domain.ProviderFamily {
	return domain.FamilyOllama
}

type ollamaOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (c *ollamaClient) SendPrompt(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	payload := ollamaRequest{
		Model:  valueOrDefault(req.Model.WireID, req.Model.ModelID),
		Prompt: userPrompt(domain.FamilyOllama, req.Prompt),
		System: systemPrompt,
		Stream: false,
		Options: ollamaOptions{
			NumPredict:  valueOrDefaultInt(req.Model.MaxOutputTokens, 100),
			Temperature: req.Model.Temperature,
		},
	}

	body, err := doJSON(ctx, c.httpClient, domain.FamilyOllama, http.MethodPost,
		c.baseURL+"/api/generate", nil, payload)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	var decoded ollamaResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("ollama: decode response: %w", err)
	}
	return ports.ProviderResponse{RawText: strings.TrimSpace(decoded.Response)}, nil
}

// ValidateCredential checks the local server is reachable; no secret is
// involved for this family.
func (c *ollamaClient) ValidateCredential(ctx context.Context, _ string) error {
	_, err := doJSON(ctx, c.httpClient, domain.FamilyOllama, http.MethodGet,
		c.baseURL+"/api/tags", nil, nil)
	return err
}

var _ ports.ProviderClient = (*ollamaClient)(nil)
