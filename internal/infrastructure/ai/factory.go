package ai

import (
	"fmt"
	"net/http"
	"time"

	"github.com/doeshing/chatcmd-go/internal/domain"
	"github.com/doeshing/chatcmd-go/internal/ports"
)

const httpClientTimeout = 60 * time.Second

// Factory builds the ProviderClient for a family. A single HTTP client is
// shared across all providers; per-request deadlines come from the caller's
// context.
type Factory struct {
	httpClient *http.Client
	endpoints  map[domain.ProviderFamily]string
}

// NewFactory creates a factory. endpoints optionally overrides the base URL
// per family (proxies, self-hosted gateways, a non-default Ollama host).
func NewFactory(endpoints map[domain.ProviderFamily]string) *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: httpClientTimeout},
		endpoints:  endpoints,
	}
}

// ForFamily returns the client implementing the family's wire protocol.
func (f *Factory) ForFamily(family domain.ProviderFamily) (ports.ProviderClient, error) {
	base := f.endpoints[family]
	switch family {
	case domain.FamilyOpenAI:
		return newOpenAIClient(f.httpClient, base), nil
	case domain.FamilyAnthropic:
		return newAnthropicClient(f.httpClient, base), nil
	case domain.FamilyGoogle:
		return newGoogleClient(f.httpClient, base), nil
	case domain.FamilyCohere:
		return newCohereClient(f.httpClient, base), nil
	case domain.FamilyOllama:
		return newOllamaClient(f.httpClient, base), nil
	default:
		return nil, fmt.Errorf("unsupported provider family: %s", family)
	}
}

var _ ports.ProviderFactory = (*Factory)(nil)
