// Package secrets keeps backend API tokens in the OS keyring.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/99designs/keyring"
)

const serviceName = "appstruct"

// ErrNoToken is returned when no token is stored for a backend
var ErrNoToken = errors.New("no token stored")

var keyringOpenFunc = keyring.Open

var backendTypes = map[string]keyring.BackendType{
	"file":           keyring.FileBackend,
	"keychain":       keyring.KeychainBackend,
	"secret-service": keyring.SecretServiceBackend,
	"kwallet":        keyring.KWalletBackend,
	"wincred":        keyring.WinCredBackend,
	"pass":           keyring.PassBackend,
	"keyctl":         keyring.KeyCtlBackend,
}

// Store reads and writes tokens, one item per backend name
type Store struct {
	ring keyring.Keyring
}

// NewStore wraps an already opened keyring
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Open opens the keyring. backend restricts it to a single keyring
// backend (e.g. "file"); empty lets the platform choose. The file
// backend lives under configDir and takes its password from
// APPSTRUCT_KEYRING_PASSWORD.
func Open(backend, configDir string) (*Store, error) {
	cfg := keyring.Config{
		ServiceName:      serviceName,
		FileDir:          filepath.Join(configDir, "keyring"),
		FilePasswordFunc: keyring.FixedStringPrompt(os.Getenv("APPSTRUCT_KEYRING_PASSWORD")),
	}

	if name := strings.ToLower(strings.TrimSpace(backend)); name != "" {
		bt, ok := backendTypes[name]
		if !ok {
			return nil, fmt.Errorf("unknown keyring backend %q", backend)
		}
		cfg.AllowedBackends = []keyring.BackendType{bt}
	}

	ring, err := openKeyringWithTimeout(cfg, 5*time.Second)
	if err != nil {
		return nil, err
	}
	return NewStore(ring), nil
}

func openKeyringWithTimeout(cfg keyring.Config, timeout time.Duration) (keyring.Keyring, error) {
	type result struct {
		ring keyring.Keyring
		err  error
	}
	done := make(chan result, 1)
	go func() {
		ring, err := keyringOpenFunc(cfg)
		done <- result{ring, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("failed to open keyring: %w", r.err)
		}
		return r.ring, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("timed out opening keyring; set APPSTRUCT_KEYRING_BACKEND=file to use the file backend")
	}
}

// Token returns the token stored for backend
func (s *Store) Token(backend string) (string, error) {
	item, err := s.ring.Get(itemKey(backend))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return string(item.Data), nil
}

// SetToken stores token for backend
func (s *Store) SetToken(backend, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token must not be empty")
	}
	err := s.ring.Set(keyring.Item{
		Key:   itemKey(backend),
		Data:  []byte(token),
		Label: serviceName + " " + backend + " token",
	})
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// DeleteToken removes the token for backend; a missing token is not an error
func (s *Store) DeleteToken(backend string) error {
	if err := s.ring.Remove(itemKey(backend)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

func itemKey(backend string) string {
	return backend + "-token"
}
