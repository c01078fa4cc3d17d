// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// These contracts separate the application core from external adapters:
// provider HTTP clients, the OS credential store, the SQLite history store,
// the clipboard, and logging. Tests substitute in-memory implementations
// satisfying the same contracts.
package ports

import (
	"context"

	"github.com/doeshing/chatcmd-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.chatcmd/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProviderRequest contains everything a client needs to issue one generation
// call: the user's prompt, the resolved catalog entry, and the secret
// (empty for families that require none).
type ProviderRequest struct {
	Prompt string
	Model  domain.ModelDescriptor
	Secret string
}

// ProviderResponse carries the raw generated text exactly as extracted from
// the provider's response envelope. Validation happens downstream.
type ProviderResponse struct {
	RawText string
}

// ProviderClient normalizes one provider family's wire protocol: request
// construction, auth headers, response envelope parsing, and mapping of HTTP
// failures into the shared error taxonomy. Clients never retry; retry policy
// belongs to the lookup service.
type ProviderClient interface {
	Family() domain.ProviderFamily
	SendPrompt(ctx context.Context, req ProviderRequest) (ProviderResponse, error)

	// ValidateCredential performs a minimal authenticated call to check a
	// secret against the live provider.
	ValidateCredential(ctx context.Context, secret string) error
}

// ProviderFactory builds the client for a provider family.
type ProviderFactory interface {
	ForFamily(domain.ProviderFamily) (ProviderClient, error)
}

// CredentialStore persists one secret per provider family, encrypted at rest.
// Secrets never appear unmasked in any display path.
type CredentialStore interface {
	Set(family domain.ProviderFamily, secret string) error
	Get(family domain.ProviderFamily) (string, error)
	Delete(family domain.ProviderFamily) error
	Masked(family domain.ProviderFamily) (string, error)
}

// HistoryRepository is the durable store of accepted commands.
type HistoryRepository interface {
	Append(ctx context.Context, entry domain.HistoryEntry) (int64, error)
	MostRecent(ctx context.Context, n int) ([]domain.HistoryEntry, error)

	// DeleteMostRecent removes up to n newest entries and returns the count
	// actually deleted. Never fails on n exceeding the available rows.
	DeleteMostRecent(ctx context.Context, n int) (int64, error)

	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
	SizeBytes() (int64, error)
}

// UsageRepository accumulates per-model latency and success counters.
// Purely additive; counters never decrement.
type UsageRepository interface {
	RecordUsage(ctx context.Context, modelID string, success bool, latencyMS int64) error
	UsageStats(ctx context.Context) ([]domain.UsageStat, error)
}

// Clipboard provides cross-platform clipboard integration for copying
// accepted commands.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
