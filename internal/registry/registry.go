// Package registry holds the static model catalog mapping user-facing model
// identifiers to provider families and default generation parameters.
//
// The provider set is small and curated, so the catalog is a fixed in-memory
// table: adding a model means adding a row here (and, for a new family, a
// client in internal/infrastructure/ai). There is no runtime registration.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/doeshing/chatcmd-go/internal/domain"
)

// DefaultModelID is used when the caller supplies no model and the config
// names none.
const DefaultModelID = "gpt-3.5-turbo"

// aliases normalize common user-entered variants to canonical catalog keys.
var aliases = map[string]string{
	// OpenAI
	"gpt4":    "gpt-4",
	"gpt-4o":  "gpt-4",
	"gpt3.5":  "gpt-3.5-turbo",
	"gpt-3.5": "gpt-3.5-turbo",
	// Anthropic
	"claude-haiku":  "claude-3-haiku",
	"claude-sonnet": "claude-3-sonnet",
	"claude-opus":   "claude-3-opus",
	// Google
	"gemini": "gemini-pro",
	// Cohere
	"command-lightnight": "command-light",
	// Ollama
	"llama-3.2-3b": "llama3.2:3b",
	"llama3_2_3b":  "llama3.2:3b",
	"llama32-3b":   "llama3.2:3b",
	"llama3.2-3b":  "llama3.2:3b",
}

var catalog = []domain.ModelDescriptor{
	{
		ModelID:     "gpt-3.5-turbo",
		WireID:      "gpt-3.5-turbo",
		Family:      domain.FamilyOpenAI,
		DisplayName: "GPT-3.5 Turbo",
		Description: "Fast and efficient for CLI commands",

		MaxOutputTokens:   100,
		Temperature:       0.7,
		SupportsStreaming: true,
	},
	{
		ModelID:     "gpt-4",
		WireID:      "gpt-4",
		Family:      domain.FamilyOpenAI,
		DisplayName: "GPT-4",
		Description: "Most capable model for complex commands",

		MaxOutputTokens:   100,
		Temperature:       0.7,
		SupportsStreaming: true,
	},
	{
		ModelID:     "gpt-4-turbo",
		WireID:      "gpt-4-turbo",
		Family:      domain.FamilyOpenAI,
		DisplayName: "GPT-4 Turbo",
		Description: "Latest GPT-4 with improved performance",

		MaxOutputTokens:   100,
		Temperature:       0.7,
		SupportsStreaming: true,
	},
	{
		ModelID:     "claude-3-haiku",
		WireID:      "claude-3-haiku-20240307",
		Family:      domain.FamilyAnthropic,
		DisplayName: "Claude 3 Haiku",
		Description: "Fast and efficient Claude model",

		MaxOutputTokens:   100,
		Temperature:       0.7,
		SupportsStreaming: true,
	},
	{
		ModelID:     "claude-3-sonnet",
		WireID:      "claude-3-sonnet-20240229",
		Family:      domain.FamilyAnthropic,
		DisplayName: "Claude 3 Sonnet",
		Description: "Balanced Claude model for most tasks",

		MaxOutputTokens:   100,
		Temperature:       0.7,
		SupportsStreaming: true,
	},
	{
		ModelID:     "claude-3-opus",
		WireID:      "claude-3-opus-20240229",
		Family:      domain.FamilyAnthropic,
		DisplayName: "Claude 3 Opus",
		Description: "Most capable Claude model",

		MaxOutputTokens:   100,
		Temperature:       0.7,
		SupportsStreaming: true,
	},
	{
		ModelID:     "gemini-pro",
		WireID:      "gemini-pro",
		Family:      domain.FamilyGoogle,
		DisplayName: "Gemini Pro",
		Description: "Google's advanced language model",

		MaxOutputTokens: 100,
		Temperature:     0.7,
	},
	{
		ModelID:     "command",
		WireID:      "command",
		Family:      domain.FamilyCohere,
		DisplayName: "Cohere Command",
		Description: "Cohere's instruction-following model",

		MaxOutputTokens: 100,
		Temperature:     0.7,
	},
	{
		ModelID:     "command-light",
		WireID:      "command-light",
		Family:      domain.FamilyCohere,
		DisplayName: "Cohere Command Light",
		Description: "Faster Cohere model for simple tasks",

		MaxOutputTokens: 100,
		Temperature:     0.7,
	},
	{
		ModelID:     "llama2",
		WireID:      "llama2",
		Family:      domain.FamilyOllama,
		DisplayName: "Llama 2 (Local)",
		Description: "Local Llama 2 model via Ollama",

		MaxOutputTokens:   100,
		Temperature:       0.7,
		SupportsStreaming: true,
	},
	{
		ModelID:     "codellama",
		WireID:      "codellama",
		Family:      domain.FamilyOllama,
		DisplayName: "Code Llama (Local)",
		Description: "Local Code Llama model for coding tasks",

		MaxOutputTokens:   100,
		Temperature:       0.7,
		SupportsStreaming: true,
	},
	{
		ModelID:     "mistral",
		WireID:      "mistral",
		Family:      domain.FamilyOllama,
		DisplayName: "Mistral (Local)",
		Description: "Local Mistral model via Ollama",

		MaxOutputTokens:   100,
		Temperature:       0.7,
		SupportsStreaming: true,
	},
	{
		ModelID:     "llama3.2:3b",
		WireID:      "llama3.2:3b",
		Family:      domain.FamilyOllama,
		DisplayName: "Llama 3.2 3B (Local)",
		Description: "Local Llama 3.2 3B model via Ollama",

		MaxOutputTokens:   100,
		Temperature:       0.7,
		SupportsStreaming: true,
	},
}

// Registry resolves model identifiers against the static catalog.
type Registry struct {
	byID map[string]domain.ModelDescriptor
}

// New builds the registry from the compiled-in catalog.
func New() *Registry {
	byID := make(map[string]domain.ModelDescriptor, len(catalog))
	for _, desc := range catalog {
		byID[strings.ToLower(desc.ModelID)] = desc
	}
	return &Registry{byID: byID}
}

// Normalize maps a user-entered model name to its canonical catalog key,
// resolving aliases and casing. Returns the input unchanged when unknown.
func (r *Registry) Normalize(modelID string) string {
	key := strings.ToLower(strings.TrimSpace(modelID))
	if desc, ok := r.byID[key]; ok {
		return desc.ModelID
	}
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return modelID
}

// Resolve returns the descriptor for a model identifier, applying alias
// normalization. Unknown models fail with domain.ErrUnknownModel; when a
// close catalog match exists the error message suggests it.
func (r *Registry) Resolve(modelID string) (domain.ModelDescriptor, error) {
	if modelID == "" {
		modelID = DefaultModelID
	}
	key := strings.ToLower(r.Normalize(modelID))
	if desc, ok := r.byID[key]; ok {
		return desc, nil
	}
	if suggestion := r.Suggest(modelID); suggestion != "" {
		return domain.ModelDescriptor{}, fmt.Errorf("%w: %q (did you mean %q?)", domain.ErrUnknownModel, modelID, suggestion)
	}
	return domain.ModelDescriptor{}, fmt.Errorf("%w: %q", domain.ErrUnknownModel, modelID)
}

// Describe is Resolve under a read-only display intent.
func (r *Registry) Describe(modelID string) (domain.ModelDescriptor, error) {
	return r.Resolve(modelID)
}

// List returns every descriptor ordered by provider family then model id.
// The order is stable across calls.
func (r *Registry) List() []domain.ModelDescriptor {
	out := make([]domain.ModelDescriptor, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Family != out[j].Family {
			return out[i].Family < out[j].Family
		}
		return out[i].ModelID < out[j].ModelID
	})
	return out
}

// Suggest returns the closest catalog key or alias for an unknown name, or
// empty when nothing is close enough.
func (r *Registry) Suggest(modelID string) string {
	key := strings.ToLower(strings.TrimSpace(modelID))
	best := ""
	bestDist := -1
	consider := func(candidate string) {
		dist := editDistance(key, strings.ToLower(candidate))
		if bestDist == -1 || dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	for _, desc := range catalog {
		consider(desc.ModelID)
	}
	for alias := range aliases {
		consider(alias)
	}
	// Accept only near matches; a distance beyond 40% of the name length is
	// noise rather than a typo.
	if bestDist == -1 || bestDist*5 > len(key)*2 {
		return ""
	}
	return r.Normalize(best)
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
