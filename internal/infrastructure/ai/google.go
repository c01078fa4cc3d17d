package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/doeshing/chatcmd-go/internal/domain"
	"github.com/doeshing/chatcmd-go/internal/ports"
)

const defaultGoogleBaseURL = "https://generativelanguage.googleapis.com"

type googleClient struct {
	httpClient *http.Client
	baseURL    string
}

func newGoogleClient(client *http.Client, baseURL string) ports.ProviderClient {
	return &googleClient{
		httpClient: client,
		baseURL:    valueOrDefault(baseURL, defaultGoogleBaseURL),
	}
}

func (c *googleClient) Family() domain.ProviderFamily {
	return domain.FamilyGoogle
}

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type googleGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type googleRequest struct {
	Contents         []googleContent        `json:"contents"`
	GenerationConfig googleGenerationConfig `json:"generationConfig"`
}

type googleResponse struct {
	Candidates []struct {
		Content googleContent `json:"content"`
	} `json:"candidates"`
}

func (r googleResponse) firstText() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Candidates[0].Content.Parts[0].Text)
}

func (c *googleClient) SendPrompt(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	// Gemini has no dedicated system role on this endpoint; the system
	// instruction is folded into the single user turn.
	full := systemPrompt + "\n\n" + userPrompt(domain.FamilyGoogle, req.Prompt)
	payload := googleRequest{
		Contents: []googleContent{
			{Parts: []googlePart{{Text: full}}},
		},
		GenerationConfig: googleGenerationConfig{
			MaxOutputTokens: valueOrDefaultInt(req.Model.MaxOutputTokens, 100),
			Temperature:     req.Model.Temperature,
		},
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		c.baseURL, url.PathEscape(valueOrDefault(req.Model.WireID, req.Model.ModelID)))
	body, err := doJSON(ctx, c.httpClient, domain.FamilyGoogle, http.MethodPost,
		endpoint, c.headers(req.Secret), payload)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	var decoded googleResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("google: decode response: %w", err)
	}
	return ports.ProviderResponse{RawText: decoded.firstText()}, nil
}

// ValidateCredential lists models with the candidate key.
func (c *googleClient) ValidateCredential(ctx context.Context, secret string) error {
	_, err := doJSON(ctx, c.httpClient, domain.FamilyGoogle, http.MethodGet,
		c.baseURL+"/v1beta/models", c.headers(secret), nil)
	return err
}

func (c *googleClient) headers(secret string) map[string]string {
	return map[string]string{"x-goog-api-key": secret}
}

var _ ports.ProviderClient = (*googleClient)(nil)
