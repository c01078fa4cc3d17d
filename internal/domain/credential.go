package domain

import (
	"strings"
	"time"
)

// Credential is one stored provider secret. Exactly one credential exists per
// provider family; setting a new secret overwrites the previous one.
type Credential struct {
	Family          ProviderFamily
	Secret          string
	CreatedAt       time.Time
	LastValidatedAt time.Time
}

// MaskSecret renders a secret for display: first and last four characters
// with the middle elided. Short secrets are masked entirely.
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + "…" + secret[len(secret)-4:]
}
