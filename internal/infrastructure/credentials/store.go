// Package credentials persists one API secret per provider family.
//
// The primary backend is the OS keychain (via zalando/go-keyring); when the
// keychain is unavailable the store falls back to an encrypted local vault.
// Secrets never leave the store unmasked through any display path.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"

	"github.com/doeshing/chatcmd-go/internal/domain"
	"github.com/doeshing/chatcmd-go/internal/ports"
)

const serviceName = "chatcmd"

// Keyring is the subset of the OS keychain API the store relies on.
// Tests substitute an in-memory implementation.
type Keyring interface {
	Set(service, user, secret string) error
	Get(service, user string) (string, error)
	Delete(service, user string) error
}

type systemKeyring struct{}

func (systemKeyring) Set(service, user, secret string) error { return keyring.Set(service, user, secret) }
func (systemKeyring) Get(service, user string) (string, error) {
	return keyring.Get(service, user)
}
func (systemKeyring) Delete(service, user string) error { return keyring.Delete(service, user) }

// Store implements ports.CredentialStore.
type Store struct {
	ring  Keyring
	vault *Vault

	mu      sync.Mutex
	perFam  map[domain.ProviderFamily]*sync.Mutex
	useRing bool
}

// NewStore builds a store backed by the OS keychain with a vault fallback
// rooted at dir (typically ~/.chatcmd).
func NewStore(dir string) *Store {
	return &Store{
		ring:    systemKeyring{},
		vault:   NewVault(dir),
		perFam:  make(map[domain.ProviderFamily]*sync.Mutex),
		useRing: true,
	}
}

// NewStoreWithKeyring is the constructor used by tests.
func NewStoreWithKeyring(ring Keyring, vault *Vault) *Store {
	return &Store{
		ring:    ring,
		vault:   vault,
		perFam:  make(map[domain.ProviderFamily]*sync.Mutex),
		useRing: ring != nil,
	}
}

// Set validates the secret's shape for the family and stores it, overwriting
// any previous secret.
func (s *Store) Set(family domain.ProviderFamily, secret string) error {
	if err := checkSecretFormat(family, secret); err != nil {
		return err
	}

	lock := s.familyLock(family)
	lock.Lock()
	defer lock.Unlock()

	if s.useRing {
		if err := s.ring.Set(serviceName, string(family), secret); err == nil {
			return nil
		}
		// Keychain unavailable on this host; fall through to the vault.
	}
	if err := s.vault.Put(string(family), secret); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

// Get returns the stored secret, or domain.ErrCredentialMissing.
func (s *Store) Get(family domain.ProviderFamily) (string, error) {
	lock := s.familyLock(family)
	lock.Lock()
	defer lock.Unlock()

	if s.useRing {
		if secret, err := s.ring.Get(serviceName, string(family)); err == nil && secret != "" {
			return secret, nil
		}
	}
	secret, err := s.vault.Get(string(family))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrCredentialMissing, family)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return secret, nil
}

// Delete removes the stored secret from both backends.
func (s *Store) Delete(family domain.ProviderFamily) error {
	lock := s.familyLock(family)
	lock.Lock()
	defer lock.Unlock()

	if s.useRing {
		_ = s.ring.Delete(serviceName, string(family))
	}
	if err := s.vault.Delete(string(family)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

// Masked returns the secret in display form, first and last four characters
// only.
func (s *Store) Masked(family domain.ProviderFamily) (string, error) {
	secret, err := s.Get(family)
	if err != nil {
		return "", err
	}
	return domain.MaskSecret(secret), nil
}

func (s *Store) familyLock(family domain.ProviderFamily) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.perFam[family]
	if !ok {
		lock = &sync.Mutex{}
		s.perFam[family] = lock
	}
	return lock
}

// checkSecretFormat applies per-family shape checks before anything touches
// the wire. Prefixes follow each provider's published key format.
func checkSecretFormat(family domain.ProviderFamily, secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return fmt.Errorf("%w: empty secret for %s", domain.ErrInvalidSecret, family)
	}
	switch family {
	case domain.FamilyOpenAI:
		if !strings.HasPrefix(secret, "sk-") {
			return fmt.Errorf("%w: openai keys start with sk-", domain.ErrInvalidSecret)
		}
	case domain.FamilyAnthropic:
		if !strings.HasPrefix(secret, "sk-ant-") {
			return fmt.Errorf("%w: anthropic keys start with sk-ant-", domain.ErrInvalidSecret)
		}
	case domain.FamilyGoogle:
		if !strings.HasPrefix(secret, "AIza") {
			return fmt.Errorf("%w: google keys start with AIza", domain.ErrInvalidSecret)
		}
	case domain.FamilyOllama:
		return fmt.Errorf("%w: %s requires no credential", domain.ErrInvalidSecret, family)
	}
	return nil
}

var _ ports.CredentialStore = (*Store)(nil)
