// Package domain defines core business entities and value objects for ChatCMD.
//
// The domain layer is independent of infrastructure concerns and represents
// pure business logic and data structures: the model catalog types, lookup
// request/result shapes, history records, usage counters, and the shared
// error taxonomy.
package domain

// ProviderFamily identifies a class of AI backend sharing one wire protocol.
type ProviderFamily string

const (
	FamilyOpenAI    ProviderFamily = "openai"
	FamilyAnthropic ProviderFamily = "anthropic"
	FamilyGoogle    ProviderFamily = "google"
	FamilyCohere    ProviderFamily = "cohere"
	FamilyOllama    ProviderFamily = "ollama"
)

// Families lists every supported provider family in display order.
func Families() []ProviderFamily {
	return []ProviderFamily{
		FamilyAnthropic,
		FamilyCohere,
		FamilyGoogle,
		FamilyOllama,
		FamilyOpenAI,
	}
}

// Valid reports whether the family is one of the supported constants.
func (f ProviderFamily) Valid() bool {
	switch f {
	case FamilyOpenAI, FamilyAnthropic, FamilyGoogle, FamilyCohere, FamilyOllama:
		return true
	}
	return false
}

// RequiresCredential reports whether requests to this family must carry an
// API key. Ollama targets a local inference server and needs none.
func (f ProviderFamily) RequiresCredential() bool {
	return f != FamilyOllama
}

// ModelDescriptor describes one entry of the static model catalog.
// Descriptors are immutable; the catalog is fixed at compile time.
type ModelDescriptor struct {
	// ModelID is the user-facing identifier, e.g. "claude-3-haiku".
	ModelID string

	// WireID is the provider-side model name sent on the wire,
	// e.g. "claude-3-haiku-20240307". Often identical to ModelID.
	WireID string

	Family      ProviderFamily
	DisplayName string
	Description string

	MaxOutputTokens   int
	Temperature       float64
	SupportsStreaming bool
}
