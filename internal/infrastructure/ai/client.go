// Package ai implements one ProviderClient per provider family.
//
// Each client owns its family's wire protocol: request body and auth header
// construction, response envelope parsing, and mapping of HTTP failures into
// the shared error taxonomy. Clients perform exactly one network call per
// invocation; retry policy lives in the lookup service.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/doeshing/chatcmd-go/internal/domain"
)

const maxErrorBody = 256

// statusToError maps a provider HTTP status into the shared taxonomy:
// 401/403 become auth errors, 429 a rate limit, everything else a
// ProviderError carrying the status.
func statusToError(family domain.ProviderFamily, status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s (HTTP %d)", domain.ErrAuth, family, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, family)
	default:
		return &domain.ProviderError{
			Family:     family,
			StatusCode: status,
			Message:    trimErrorBody(body),
		}
	}
}

// transportError classifies a failed round trip: deadline expiry becomes a
// timeout, everything else a network error.
func transportError(family domain.ProviderFamily, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", domain.ErrTimeout, family)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s", domain.ErrTimeout, family)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrNetwork, family, err)
}

// doJSON issues one request with a JSON body (nil for none), returning the
// response body for 2xx statuses and a taxonomy error otherwise.
func doJSON(ctx context.Context, client *http.Client, family domain.ProviderFamily, method, url string, headers map[string]string, payload interface{}) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal request: %w", family, err)
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", family, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, transportError(family, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(family, err)
	}
	if resp.StatusCode >= 400 {
		return nil, statusToError(family, resp.StatusCode, body)
	}
	return body, nil
}

func trimErrorBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return text
}

func valueOrDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}

func valueOrDefaultInt(value int, def int) int {
	if value == 0 {
		return def
	}
	return value
}
