// Package library persists the reader's favorite books and recent searches in BadgerDB.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Key prefixes for BadgerDB storage
const (
	favoriteKeyPrefix = "favorite:"
	historyKeyPrefix  = "history:"
)

// MaxHistory is how many searches are kept; older ones are dropped on insert.
const MaxHistory = 10

var ErrNotFound = errors.New("library: not found")

// Store is a BadgerDB-backed favorites and history store.
type Store struct {
	db  *badger.DB
	now func() time.Time

	// historyMu serializes history writes so the trim sees every insert.
	historyMu sync.Mutex
}

// Open opens (or creates) the store at dir. An empty dir keeps everything in memory.
func Open(dir string, log zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{log: log.With().Str("component", "badger").Logger()})
	if strings.TrimSpace(dir) == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open library store: %w", err)
	}
	return New(db), nil
}

// New wraps an already open database. The caller keeps ownership of db unless Close is called.
func New(db *badger.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string, fn func([]byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(fn)
	})
}

// scan visits every value under prefix in key order, or reverse key order.
func (s *Store) scan(ctx context.Context, prefix string, reverse bool, fn func(key, val []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		return scanTxn(ctx, txn, prefix, reverse, fn)
	})
}

func scanTxn(ctx context.Context, txn *badger.Txn, prefix string, reverse bool, fn func(key, val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Reverse = reverse
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := []byte(prefix)
	if reverse {
		// Seek lands on the last key <= seek when iterating in reverse.
		seek = append([]byte(prefix), 0xff)
	}
	for it.Seek(seek); it.ValidForPrefix([]byte(prefix)); it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		item := it.Item()
		key := item.KeyCopy(nil)
		if err := item.Value(func(val []byte) error { return fn(key, val) }); err != nil {
			return err
		}
	}
	return nil
}

// badgerLogger routes badger's internal logging through zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Trace().Msgf(strings.TrimSpace(format), args...)
}
