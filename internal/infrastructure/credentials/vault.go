package credentials

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

// Vault is the encrypted-file fallback used when no OS keyring is available.
// Secrets live in a single sealed JSON document keyed by provider family;
// the sealing key is a random 32-byte file next to it with 0600 permissions.
type Vault struct {
	dir string
}

const (
	vaultFileName = "credentials.enc"
	keyFileName   = ".vault_key"
)

// NewVault creates (or opens) a vault rooted at dir.
func NewVault(dir string) *Vault {
	return &Vault{dir: dir}
}

// Put stores or overwrites one secret.
func (v *Vault) Put(name, secret string) error {
	secrets, err := v.load()
	if err != nil {
		return err
	}
	secrets[name] = secret
	return v.save(secrets)
}

// Get returns the stored secret, or os.ErrNotExist when absent.
func (v *Vault) Get(name string) (string, error) {
	secrets, err := v.load()
	if err != nil {
		return "", err
	}
	secret, ok := secrets[name]
	if !ok {
		return "", os.ErrNotExist
	}
	return secret, nil
}

// Delete removes one secret. Deleting an absent secret is a no-op.
func (v *Vault) Delete(name string) error {
	secrets, err := v.load()
	if err != nil {
		return err
	}
	if _, ok := secrets[name]; !ok {
		return nil
	}
	delete(secrets, name)
	return v.save(secrets)
}

func (v *Vault) load() (map[string]string, error) {
	sealed, err := os.ReadFile(filepath.Join(v.dir, vaultFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("vault: read: %w", err)
	}

	aead, err := v.cipher()
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, errors.New("vault: file truncated")
	}
	nonce, box := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, box, nil)
	if err != nil {
		return nil, fmt.Errorf("vault: decrypt: %w", err)
	}

	var secrets map[string]string
	if err := json.Unmarshal(plain, &secrets); err != nil {
		return nil, fmt.Errorf("vault: decode: %w", err)
	}
	return secrets, nil
}

func (v *Vault) save(secrets map[string]string) error {
	plain, err := json.Marshal(secrets)
	if err != nil {
		return fmt.Errorf("vault: encode: %w", err)
	}

	aead, err := v.cipher()
	if err != nil {
		return err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("vault: nonce: %w", err)
	}
	sealed := append(nonce, aead.Seal(nil, nonce, plain, nil)...)

	if err := os.MkdirAll(v.dir, 0o700); err != nil {
		return fmt.Errorf("vault: mkdir: %w", err)
	}
	// Write-then-rename so a concurrent reader never sees a half-written vault.
	tmp := filepath.Join(v.dir, vaultFileName+".tmp")
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return fmt.Errorf("vault: write: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(v.dir, vaultFileName)); err != nil {
		return fmt.Errorf("vault: rename: %w", err)
	}
	return nil
}

func (v *Vault) cipher() (aead, error) {
	key, err := v.loadOrCreateKey()
	if err != nil {
		return nil, err
	}
	c, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("vault: cipher: %w", err)
	}
	return c, nil
}

type aead interface {
	NonceSize() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

func (v *Vault) loadOrCreateKey() ([]byte, error) {
	path := filepath.Join(v.dir, keyFileName)
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != chacha20poly1305.KeySize {
			return nil, errors.New("vault: key file corrupted")
		}
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("vault: read key: %w", err)
	}

	key = make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("vault: generate key: %w", err)
	}
	if err := os.MkdirAll(v.dir, 0o700); err != nil {
		return nil, fmt.Errorf("vault: mkdir: %w", err)
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("vault: write key: %w", err)
	}
	return key, nil
}
