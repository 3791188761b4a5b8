package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const levelKeyPrefix = "level:"

// BadgerConfig configures a BadgerStore
type BadgerConfig struct {
	// Dir is the database directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps everything in memory, for tests.
	InMemory bool

	// Logger receives BadgerDB's internal log lines. Nil disables them.
	Logger *slog.Logger
}

// BadgerStore implements RecordStore on top of an embedded BadgerDB
type BadgerStore struct {
	db *badger.DB
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// NewBadgerStore opens a BadgerDB-backed record store
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Dir == "" {
			return nil, errors.New("badger directory is required")
		}
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Load retrieves the record stored under name
func (bs *BadgerStore) Load(name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	var data []byte
	err := bs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(levelKey(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", name, err)
	}
	return data, nil
}

// Save stores data under name
func (bs *BadgerStore) Save(name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	err := bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(levelKey(name), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write record %s: %w", name, err)
	}
	return nil
}

// Delete removes the record stored under name
func (bs *BadgerStore) Delete(name string) error {
	if !bs.Exists(name) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	err := bs.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(levelKey(name))
	})
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", name, err)
	}
	return nil
}

// List returns all stored record names, sorted
func (bs *BadgerStore) List() ([]string, error) {
	names := []string{}
	prefix := []byte(levelKeyPrefix)

	err := bs.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, levelKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Exists checks if a record is stored under name
func (bs *BadgerStore) Exists(name string) bool {
	if ValidateName(name) != nil {
		return false
	}

	err := bs.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(levelKey(name))
		return err
	})
	return err == nil
}

// Close closes the underlying database
func (bs *BadgerStore) Close() error {
	return bs.db.Close()
}

func levelKey(name string) []byte {
	return []byte(levelKeyPrefix + name)
}
