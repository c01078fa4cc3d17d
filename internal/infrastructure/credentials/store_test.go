package credentials

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/chatcmd-go/internal/domain"
)

type memoryKeyring struct {
	secrets map[string]string
	broken  bool
}

func newMemoryKeyring() *memoryKeyring {
	return &memoryKeyring{secrets: make(map[string]string)}
}

func (m *memoryKeyring) Set(service, user, secret string) error {
	if m.broken {
		return errors.New("keyring unavailable")
	}
	m.secrets[service+"/"+user] = secret
	return nil
}

func (m *memoryKeyring) Get(service, user string) (string, error) {
	if m.broken {
		return "", errors.New("keyring unavailable")
	}
	secret, ok := m.secrets[service+"/"+user]
	if !ok {
		return "", errors.New("not found")
	}
	return secret, nil
}

func (m *memoryKeyring) Delete(service, user string) error {
	delete(m.secrets, service+"/"+user)
	return nil
}

func newTestStore(t *testing.T, ring Keyring) *Store {
	t.Helper()
	return NewStoreWithKeyring(ring, NewVault(t.TempDir()))
}

func TestSetGetRoundTripOverwrites(t *testing.T) {
	store := newTestStore(t, newMemoryKeyring())

	if err := store.Set(domain.FamilyOpenAI, "sk-first-secret-value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(domain.FamilyOpenAI, "sk-second-secret-value"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, err := store.Get(domain.FamilyOpenAI)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "sk-second-secret-value" {
		t.Errorf("Get() = %q, want last secret set", got)
	}
}

func TestGetMissingCredential(t *testing.T) {
	store := newTestStore(t, newMemoryKeyring())
	_, err := store.Get(domain.FamilyAnthropic)
	if !errors.Is(err, domain.ErrCredentialMissing) {
		t.Fatalf("Get() error = %v, want ErrCredentialMissing", err)
	}
}

func TestSetRejectsBadFormats(t *testing.T) {
	store := newTestStore(t, newMemoryKeyring())

	cases := []struct {
		family domain.ProviderFamily
		secret string
	}{
		{domain.FamilyOpenAI, ""},
		{domain.FamilyOpenAI, "not-an-openai-key"},
		{domain.FamilyAnthropic, "sk-wrong-prefix"},
		{domain.FamilyGoogle, "sk-not-google"},
		{domain.FamilyOllama, "anything"},
	}
	for _, tc := range cases {
		err := store.Set(tc.family, tc.secret)
		if !errors.Is(err, domain.ErrInvalidSecret) {
			t.Errorf("Set(%s, %q) error = %v, want ErrInvalidSecret", tc.family, tc.secret, err)
		}
	}
}

func TestVaultFallbackWhenKeyringBroken(t *testing.T) {
	ring := newMemoryKeyring()
	ring.broken = true
	store := newTestStore(t, ring)

	if err := store.Set(domain.FamilyCohere, "cohere-secret-token"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := store.Get(domain.FamilyCohere)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "cohere-secret-token" {
		t.Errorf("Get() = %q, want vault-stored secret", got)
	}
}

func TestMaskedNeverRevealsMiddle(t *testing.T) {
	store := newTestStore(t, newMemoryKeyring())
	secret := "sk-abcdefghijklmnopqrstuvwxyz0123"
	if err := store.Set(domain.FamilyOpenAI, secret); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	masked, err := store.Masked(domain.FamilyOpenAI)
	if err != nil {
		t.Fatalf("Masked() error = %v", err)
	}
	want := "sk-a…0123"
	if masked != want {
		t.Errorf("Masked() = %q, want %q", masked, want)
	}
}

func TestDeleteThenGetMissing(t *testing.T) {
	store := newTestStore(t, newMemoryKeyring())
	if err := store.Set(domain.FamilyGoogle, "AIza-test-key"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Delete(domain.FamilyGoogle); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(domain.FamilyGoogle); !errors.Is(err, domain.ErrCredentialMissing) {
		t.Fatalf("Get() after delete error = %v, want ErrCredentialMissing", err)
	}
}

func TestVaultRoundTripAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first := NewVault(dir)
	if err := first.Put("openai", "sk-persisted"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	second := NewVault(dir)
	got, err := second.Get("openai")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "sk-persisted" {
		t.Errorf("Get() = %q, want %q", got, "sk-persisted")
	}
}

func TestVaultFileIsNotPlaintext(t *testing.T) {
	dir := t.TempDir()
	vault := NewVault(dir)
	if err := vault.Put("openai", "sk-super-secret"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, vaultFileName))
	if err != nil {
		t.Fatalf("read vault file: %v", err)
	}
	if bytes.Contains(raw, []byte("sk-super-secret")) {
		t.Fatal("vault file contains plaintext secret")
	}
}
