package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/yndnr/smsauth/internal/core/domain"
)

const fileFormatVersion = 1

// sealAD binds sealed payloads to their purpose.
var sealAD = []byte("smsauth-token")

// FileStore persists the token as a small JSON document.
// Writes go to a temporary file that is renamed over the target.
type FileStore struct {
	mu         sync.Mutex
	path       string
	passphrase string
	cipher     CipherType
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithPassphrase seals the token at rest with a key derived from passphrase.
func WithPassphrase(passphrase string) FileOption {
	return func(f *FileStore) {
		f.passphrase = passphrase
	}
}

// WithCipher overrides PreferredCipher for new writes.
func WithCipher(kind CipherType) FileOption {
	return func(f *FileStore) {
		f.cipher = kind
	}
}

// NewFileStore creates a FileStore at path. The file is created on first Save.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	f := &FileStore{
		path:   path,
		cipher: PreferredCipher(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the token file location.
func (f *FileStore) Path() string {
	return f.path
}

type tokenFile struct {
	Version int          `json:"version"`
	Token   string       `json:"token,omitempty"`
	Sealed  *sealedToken `json:"sealed,omitempty"`
}

type sealedToken struct {
	Cipher CipherType `json:"cipher"`
	Salt   []byte     `json:"salt"`
	Data   []byte     `json:"data"`
}

// Load reads the token. A sealed file needs the passphrase it was written with.
func (f *FileStore) Load(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrNoToken
		}
		return "", domain.ErrTokenStore.WithCause(err)
	}

	var doc tokenFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", domain.ErrTokenStore.WithDetails("corrupt token file").WithCause(err)
	}

	token := doc.Token
	if doc.Sealed != nil {
		if token, err = f.open(doc.Sealed); err != nil {
			return "", err
		}
	}
	if token == "" {
		return "", domain.ErrNoToken
	}
	return token, nil
}

// Save writes token, sealing it when a passphrase is configured.
func (f *FileStore) Save(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := tokenFile{Version: fileFormatVersion}
	if f.passphrase == "" {
		doc.Token = token
	} else {
		sealed, err := f.seal(token)
		if err != nil {
			return err
		}
		doc.Sealed = sealed
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return domain.ErrTokenStore.WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return domain.ErrTokenStore.WithCause(err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return domain.ErrTokenStore.WithCause(err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return domain.ErrTokenStore.WithCause(err)
	}
	return nil
}

// Remove deletes the token file.
func (f *FileStore) Remove(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.ErrTokenStore.WithCause(err)
	}
	return nil
}

// Close is a no-op; FileStore holds no open handles.
func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) seal(token string) (*sealedToken, error) {
	salt, err := NewSalt()
	if err != nil {
		return nil, domain.ErrTokenStore.WithCause(err)
	}
	sealer, err := NewSealer(f.passphrase, salt, f.cipher)
	if err != nil {
		return nil, domain.ErrTokenStore.WithCause(err)
	}
	data, err := sealer.Seal([]byte(token), sealAD)
	if err != nil {
		return nil, domain.ErrTokenStore.WithCause(err)
	}
	return &sealedToken{Cipher: sealer.Type(), Salt: salt, Data: data}, nil
}

func (f *FileStore) open(s *sealedToken) (string, error) {
	if f.passphrase == "" {
		return "", domain.ErrTokenStore.WithDetails("token file is sealed, passphrase required")
	}
	sealer, err := NewSealer(f.passphrase, s.Salt, s.Cipher)
	if err != nil {
		return "", domain.ErrTokenStore.WithCause(err)
	}
	plain, err := sealer.Open(s.Data, sealAD)
	if err != nil {
		return "", domain.ErrTokenStore.WithDetails("cannot unseal token file").WithCause(fmt.Errorf("open: %w", err))
	}
	return string(plain), nil
}
