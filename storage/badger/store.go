// Package badger implements storage.BlobStore on BadgerDB. The payload
// and its metadata envelope live under separate keys so List can scan
// metadata without loading payloads.
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/proposive/rfpbase/storage"
)

const (
	blobPrefix     = "blob:"
	blobMetaPrefix = "blobmeta:"
)

// Store is a BadgerDB-backed blob store.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.BlobStore = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// NewStore opens a BadgerDB blob store at dirPath, creating the
// directory if it doesn't exist.
func NewStore(dirPath string) (storage.BlobStore, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return nil, err
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dirPath)
	}

	opts := badger.DefaultOptions(dirPath)
	return open(opts)
}

// NewMemoryStore opens an in-memory blob store for testing.
func NewMemoryStore() (storage.BlobStore, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (storage.BlobStore, error) {
	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, logger: slog.Default()}, nil
}

// Close closes the BadgerDB database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores data and a metadata envelope under key.
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	info := &storage.BlobInfo{
		Name:     key,
		Size:     int64(len(data)),
		StoredAt: time.Now().UTC(),
	}
	return s.db.Update(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(blobPrefix+key), data); err != nil {
			return err
		}
		return tx.Set([]byte(blobMetaPrefix+key), storage.MarshalBlobInfo(info))
	})
}

// Get retrieves the payload stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(blobPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the payload and envelope. Absent keys are tolerated.
func (s *Store) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(tx *badger.Txn) error {
		if err := tx.Delete([]byte(blobPrefix + key)); err != nil {
			return err
		}
		return tx.Delete([]byte(blobMetaPrefix + key))
	})
	if err != nil {
		return fmt.Errorf("removing blob %s: %w", key, err)
	}
	return nil
}

// List returns the keys that start with prefix, using the metadata
// index so payload values are never loaded.
func (s *Store) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(blobMetaPrefix + prefix)

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			keys = append(keys, strings.TrimPrefix(key, blobMetaPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing blobs: %w", err)
	}
	return keys, nil
}

// Info returns the metadata envelope stored alongside a payload.
func (s *Store) Info(_ context.Context, key string) (*storage.BlobInfo, error) {
	var info *storage.BlobInfo
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(blobMetaPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			info, err = storage.UnmarshalBlobInfo(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return info, nil
}
