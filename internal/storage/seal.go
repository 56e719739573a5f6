package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// CipherType identifies the AEAD used to seal a token file.
type CipherType string

const (
	CipherAESGCM   CipherType = "aes-gcm"
	CipherChaCha20 CipherType = "chacha20-poly1305"
)

// Key derivation parameters (argon2id).
const (
	kdfTime    = 2
	kdfMemory  = 19 * 1024 // KiB
	kdfThreads = 1
	keySize    = 32
	saltSize   = 16
)

var errCiphertextTooShort = errors.New("ciphertext too short")

// Sealer encrypts and authenticates token bytes with a passphrase-derived key.
type Sealer struct {
	kind CipherType
	aead cipher.AEAD
}

// PreferredCipher picks AES-GCM where Go uses hardware AES (amd64, arm64)
// and ChaCha20-Poly1305 elsewhere.
func PreferredCipher() CipherType {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return CipherAESGCM
	default:
		return CipherChaCha20
	}
}

// NewSalt returns fresh random salt for NewSealer.
func NewSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// NewSealer derives a key from passphrase and salt and builds the AEAD.
func NewSealer(passphrase string, salt []byte, kind CipherType) (*Sealer, error) {
	if passphrase == "" {
		return nil, errors.New("empty passphrase")
	}
	key := argon2.IDKey([]byte(passphrase), salt, kdfTime, kdfMemory, kdfThreads, keySize)

	var (
		aead cipher.AEAD
		err  error
	)
	switch kind {
	case CipherAESGCM:
		var block cipher.Block
		if block, err = aes.NewCipher(key); err == nil {
			aead, err = cipher.NewGCM(block)
		}
	case CipherChaCha20:
		aead, err = chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("unknown cipher type: %s", kind)
	}
	if err != nil {
		return nil, err
	}

	return &Sealer{kind: kind, aead: aead}, nil
}

// Type returns the cipher type.
func (s *Sealer) Type() CipherType {
	return s.kind
}

// Seal encrypts plaintext; the random nonce is prepended to the result.
func (s *Sealer) Seal(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

// Open authenticates and decrypts data produced by Seal.
func (s *Sealer) Open(ciphertext, additionalData []byte) ([]byte, error) {
	if len(ciphertext) < s.aead.NonceSize() {
		return nil, errCiphertextTooShort
	}
	nonce := ciphertext[:s.aead.NonceSize()]
	return s.aead.Open(nil, nonce, ciphertext[s.aead.NonceSize():], additionalData)
}
