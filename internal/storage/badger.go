package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"

	"github.com/yndnr/smsauth/internal/core/domain"
	"github.com/yndnr/smsauth/internal/telemetry/logger"
)

// tokenKey is the Badger key of the token slot.
var tokenKey = []byte("session/token")

// BadgerStore keeps the token in an embedded Badger database.
type BadgerStore struct {
	db     *badger.DB
	logger logger.Logger
}

// NewBadgerStore opens (or creates) the database in dir.
func NewBadgerStore(dir string, log logger.Logger) (*BadgerStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if log == nil {
		log = logger.Default()
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{logger: log}
	// One small key: keep the footprint of a CLI, not a server.
	opts.NumMemtables = 1
	opts.NumLevelZeroTables = 1
	opts.NumLevelZeroTablesStall = 2
	opts.ValueLogFileSize = 1 << 20
	opts.BlockCacheSize = 0
	opts.IndexCacheSize = 0
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	log.Debug("badger token store opened", "dir", dir)
	return &BadgerStore{db: db, logger: log}, nil
}

// Load returns the token or domain.ErrNoToken.
func (s *BadgerStore) Load(ctx context.Context) (string, error) {
	var value []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tokenKey)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", domain.ErrNoToken
	}
	if err != nil {
		return "", domain.ErrTokenStore.WithCause(err)
	}
	if len(value) == 0 {
		return "", domain.ErrNoToken
	}
	return string(value), nil
}

// Save stores token.
func (s *BadgerStore) Save(ctx context.Context, token string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tokenKey, []byte(token))
	})
	if err != nil {
		return domain.ErrTokenStore.WithCause(err)
	}
	return nil
}

// Remove deletes the token key.
func (s *BadgerStore) Remove(ctx context.Context) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(tokenKey)
	})
	if err != nil {
		return domain.ErrTokenStore.WithCause(err)
	}
	return nil
}

// Close runs a value-log GC pass and closes the database.
func (s *BadgerStore) Close() error {
	if err := s.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		s.logger.Debug("badger gc skipped", "error", err)
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// badgerLogger adapts logger.Logger to Badger's Logger interface.
// Badger's info chatter is demoted to debug.
type badgerLogger struct {
	logger logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
