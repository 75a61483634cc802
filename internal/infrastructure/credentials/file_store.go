// Package credentials stores provider API keys under the prompty home
// directory, encrypted with a locally generated key.
package credentials

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/prompty-go/internal/domain"
	"github.com/doeshing/prompty-go/internal/ports"
)

const fileFormatVersion = 1

type credentialFile struct {
	Version int               `yaml:"version"`
	Keys    map[string]string `yaml:"keys"`
}

// FileStore keeps one sealed value per provider in credentials.yaml and the
// XChaCha20-Poly1305 key in secret.key, both owner-readable only.
type FileStore struct {
	path    string
	keyPath string
	mu      sync.Mutex
}

// NewFileStore roots the store at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		path:    filepath.Join(dir, "credentials.yaml"),
		keyPath: filepath.Join(dir, "secret.key"),
	}
}

// Path returns the credentials file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(_ context.Context, provider domain.ProviderID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return "", err
	}
	sealed, ok := file.Keys[string(provider)]
	if !ok || sealed == "" {
		return "", nil
	}

	secret, err := s.secret(false)
	if err != nil {
		return "", err
	}
	if secret == nil {
		return "", fmt.Errorf("%w: %s is missing; re-save the %s key", domain.ErrCredential, s.keyPath, provider)
	}
	return open(secret, provider, sealed)
}

// Set stores key for provider. A blank key removes the entry.
func (s *FileStore) Set(ctx context.Context, provider domain.ProviderID, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return s.Delete(ctx, provider)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	secret, err := s.secret(true)
	if err != nil {
		return err
	}
	sealed, err := seal(secret, provider, key)
	if err != nil {
		return err
	}

	file, err := s.read()
	if err != nil {
		return err
	}
	file.Keys[string(provider)] = sealed
	return s.write(file)
}

func (s *FileStore) Delete(_ context.Context, provider domain.ProviderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := file.Keys[string(provider)]; !ok {
		return nil
	}
	delete(file.Keys, string(provider))
	return s.write(file)
}

func (s *FileStore) read() (credentialFile, error) {
	file := credentialFile{Version: fileFormatVersion, Keys: map[string]string{}}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return file, nil
	}
	if err != nil {
		return file, fmt.Errorf("%w: read %s: %v", domain.ErrCredential, s.path, err)
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return file, fmt.Errorf("%w: decode %s: %v", domain.ErrCredential, s.path, err)
	}
	if file.Keys == nil {
		file.Keys = map[string]string{}
	}
	return file, nil
}

func (s *FileStore) write(file credentialFile) error {
	file.Version = fileFormatVersion
	raw, err := yaml.Marshal(file)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, domain.SecureFilePermissions); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// secret loads the encryption key, generating it when create is set.
// It returns nil without error when the key is absent and create is false.
func (s *FileStore) secret(create bool) ([]byte, error) {
	raw, err := os.ReadFile(s.keyPath)
	if err == nil {
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
		if err != nil || len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("%w: %s is corrupt", domain.ErrCredential, s.keyPath)
		}
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrCredential, s.keyPath, err)
	}
	if !create {
		return nil, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(s.keyPath), domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(key) + "\n"
	if err := os.WriteFile(s.keyPath, []byte(encoded), domain.SecureFilePermissions); err != nil {
		return nil, err
	}
	return key, nil
}

// seal encrypts value with the provider id as associated data, so a value
// copied under another provider fails to open.
func seal(secret []byte, provider domain.ProviderID, value string) (string, error) {
	aead, err := chacha20poly1305.NewX(secret)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(value)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(value), []byte(provider))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func open(secret []byte, provider domain.ProviderID, encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: stored %s key is not valid base64", domain.ErrCredential, provider)
	}
	aead, err := chacha20poly1305.NewX(secret)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", fmt.Errorf("%w: stored %s key is truncated", domain.ErrCredential, provider)
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(provider))
	if err != nil {
		return "", fmt.Errorf("%w: stored %s key cannot be decrypted", domain.ErrCredential, provider)
	}
	return string(plain), nil
}

var _ ports.CredentialStore = (*FileStore)(nil)
