package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yndnr/smsauth/internal/core/domain"
	"github.com/yndnr/smsauth/internal/telemetry/logger"
)

// TokenStore is a single persistent slot holding the bearer token.
//
// Load returns domain.ErrNoToken when the slot is empty. Remove on an empty
// slot is not an error.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Remove(ctx context.Context) error
	Close() error
}

// Engine names accepted by Open.
const (
	EngineFile   = "file"
	EngineBadger = "badger"
	EngineMemory = "memory"
)

// Config selects and configures a TokenStore.
type Config struct {
	// Engine is one of file, badger, memory. Default: file.
	Engine string
	// Path is the token file (file) or database directory (badger).
	Path string
	// Passphrase enables at-rest encryption of the file engine.
	Passphrase string
}

// DefaultPath returns the default location for engine under the user's home.
func DefaultPath(engine string) string {
	homeDir, _ := os.UserHomeDir()
	if engine == EngineBadger {
		return filepath.Join(homeDir, ".smsauth", "session.db")
	}
	return filepath.Join(homeDir, ".smsauth", "token.json")
}

// Open builds the TokenStore described by cfg.
func Open(cfg Config, log logger.Logger) (TokenStore, error) {
	if log == nil {
		log = logger.Default()
	}
	engine := cfg.Engine
	if engine == "" {
		engine = EngineFile
	}
	path := cfg.Path
	if path == "" {
		path = DefaultPath(engine)
	}

	switch engine {
	case EngineMemory:
		return NewMemoryStore(), nil
	case EngineFile:
		var opts []FileOption
		if cfg.Passphrase != "" {
			opts = append(opts, WithPassphrase(cfg.Passphrase))
		}
		return NewFileStore(path, opts...), nil
	case EngineBadger:
		if cfg.Passphrase != "" {
			log.Warn("passphrase is ignored by the badger token store")
		}
		return NewBadgerStore(path, log)
	default:
		return nil, domain.ErrInvalidConfig.WithDetails(fmt.Sprintf("unknown token store %q", engine))
	}
}
