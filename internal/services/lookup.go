// Package services contains the application use-cases. LookupService is the
// orchestration core: it resolves the model, looks up the credential,
// dispatches to the provider under the retry policy, validates the reply,
// and lands on a terminal accepted, rejected, or failed outcome.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doeshing/chatcmd-go/internal/domain"
	"github.com/doeshing/chatcmd-go/internal/ports"
	"github.com/doeshing/chatcmd-go/internal/registry"
	"github.com/doeshing/chatcmd-go/internal/validate"
)

// RetryPolicy bounds the dispatch phase. Only transient failures (rate
// limit, network, timeout) are retried; auth and provider errors surface
// immediately.
type RetryPolicy struct {
	MaxAttempts    int           // total attempts, including the first
	InitialBackoff time.Duration // doubled after each transient failure
	AttemptTimeout time.Duration // per-attempt budget
}

// DefaultRetryPolicy allows one retry with a 500ms starting backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    2,
		InitialBackoff: 500 * time.Millisecond,
		AttemptTimeout: 10 * time.Second,
	}
}

// LookupService turns natural-language prompts into validated shell commands.
type LookupService struct {
	Registry    *registry.Registry
	Credentials ports.CredentialStore
	Providers   ports.ProviderFactory
	History     ports.HistoryRepository
	Usage       ports.UsageRepository
	Clipboard   ports.Clipboard
	Logger      ports.Logger
	Policy      RetryPolicy

	// sleep is swapped out by tests to avoid real backoff waits.
	sleep func(time.Duration)
}

func (s *LookupService) checkDeps() error {
	if s.Registry == nil || s.Credentials == nil || s.Providers == nil ||
		s.History == nil || s.Usage == nil || s.Logger == nil {
		return errors.New("services.LookupService dependencies not satisfied")
	}
	return nil
}

// Lookup processes a single request. A nil error with Accepted=false means a
// validation rejection (a normal terminal outcome); a non-nil error carries
// the taxonomy class of the failure. PersistErr on the result reports a
// storage failure that must not mask a produced command.
func (s *LookupService) Lookup(ctx context.Context, req domain.LookupRequest) (domain.LookupResult, error) {
	if err := s.checkDeps(); err != nil {
		return domain.LookupResult{}, err
	}

	// Resolving.
	model, err := s.Registry.Resolve(req.ModelID)
	if err != nil {
		return domain.LookupResult{}, err
	}
	result := domain.LookupResult{ModelID: model.ModelID, Family: model.Family}

	// CredentialLookup. Skipped for the local family; failures short-circuit
	// before any network call.
	var secret string
	if model.Family.RequiresCredential() {
		secret, err = s.Credentials.Get(model.Family)
		if err != nil {
			s.recordUsage(ctx, &result, false)
			return result, err
		}
	}

	client, err := s.Providers.ForFamily(model.Family)
	if err != nil {
		s.recordUsage(ctx, &result, false)
		return result, err
	}

	// Dispatching.
	started := time.Now()
	raw, err := s.dispatch(ctx, client, ports.ProviderRequest{
		Prompt: req.Prompt,
		Model:  model,
		Secret: secret,
	})
	result.LatencyMS = time.Since(started).Milliseconds()
	if err != nil {
		s.recordUsage(ctx, &result, false)
		return result, err
	}

	// Validating.
	verdict := validate.Validate(raw.RawText)
	if !verdict.Accepted {
		s.Logger.Debug("response rejected", map[string]interface{}{
			"model":  model.ModelID,
			"reason": string(verdict.Reason),
		})
		result.Rejection = verdict.Reason
		s.recordUsage(ctx, &result, false)
		return result, nil
	}

	// Terminal(Accepted): persist history and usage. A storage failure is
	// reported alongside the result, never instead of it.
	result.Accepted = true
	result.Command = verdict.Command

	entry := domain.HistoryEntry{
		Command: verdict.Command,
		ModelID: model.ModelID,
		Family:  model.Family,
	}
	if _, err := s.History.Append(ctx, entry); err != nil {
		result.PersistErr = err
	}
	s.recordUsage(ctx, &result, true)

	if !req.NoCopy && s.Clipboard != nil && s.Clipboard.Enabled() {
		if err := s.Clipboard.Copy(verdict.Command); err != nil {
			s.Logger.Warn("clipboard copy failed", map[string]interface{}{"error": err.Error()})
		} else {
			result.Copied = true
		}
	}
	return result, nil
}

// dispatch invokes the provider under the retry policy: bounded per-attempt
// timeout, exponential backoff, transient failures only.
func (s *LookupService) dispatch(ctx context.Context, client ports.ProviderClient, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	policy := s.Policy
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}

	backoff := policy.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		attemptCtx := ctx
		var cancel context.CancelFunc
		if policy.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, policy.AttemptTimeout)
		}
		resp, err := client.SendPrompt(attemptCtx, req)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !domain.Retryable(err) || attempt == policy.MaxAttempts {
			break
		}
		if ctx.Err() != nil {
			return ports.ProviderResponse{}, ctx.Err()
		}
		s.Logger.Debug("retrying after transient failure", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
		s.wait(backoff)
		backoff *= 2
	}
	return ports.ProviderResponse{}, lastErr
}

func (s *LookupService) wait(d time.Duration) {
	if s.sleep != nil {
		s.sleep(d)
		return
	}
	time.Sleep(d)
}

// recordUsage updates the per-model counters for a terminal outcome; a usage
// write failure is folded into PersistErr rather than surfaced as the lookup
// outcome.
func (s *LookupService) recordUsage(ctx context.Context, result *domain.LookupResult, success bool) {
	if err := s.Usage.RecordUsage(ctx, result.ModelID, success, result.LatencyMS); err != nil {
		if result.PersistErr == nil {
			result.PersistErr = err
		}
		s.Logger.Error("usage update failed", err, map[string]interface{}{"model": result.ModelID})
	}
}

// ValidateCredential checks the stored secret for a family against the live
// provider. A missing secret fails with ErrCredentialMissing; a refused one
// with ErrCredentialInvalid.
func (s *LookupService) ValidateCredential(ctx context.Context, family domain.ProviderFamily) error {
	if err := s.checkDeps(); err != nil {
		return err
	}
	if !family.Valid() {
		return fmt.Errorf("unknown provider family: %s", family)
	}

	var secret string
	if family.RequiresCredential() {
		var err error
		secret, err = s.Credentials.Get(family)
		if err != nil {
			return err
		}
	}

	client, err := s.Providers.ForFamily(family)
	if err != nil {
		return err
	}
	if err := client.ValidateCredential(ctx, secret); err != nil {
		if errors.Is(err, domain.ErrAuth) {
			return fmt.Errorf("%w: %s", domain.ErrCredentialInvalid, family)
		}
		return err
	}
	return nil
}
