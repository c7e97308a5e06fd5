package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shpitdev/lumina/internal/recommend"
)

// Search is one past recommendation request.
type Search struct {
	ID        string            `json:"id" yaml:"id"`
	Timestamp int64             `json:"timestamp" yaml:"timestamp"`
	Request   recommend.Request `json:"request" yaml:"request"`
}

// errHistoryFull stops a read once MaxHistory entries were collected.
var errHistoryFull = errors.New("library: history full")

// historyKey sorts chronologically: fixed-width millis, then the id as a tiebreak.
func historyKey(s Search) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", historyKeyPrefix, s.Timestamp, s.ID))
}

// AddHistory records req and drops everything beyond the newest MaxHistory searches.
func (s *Store) AddHistory(ctx context.Context, req recommend.Request) (Search, error) {
	if err := ctx.Err(); err != nil {
		return Search{}, err
	}
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	entry := Search{
		ID:        uuid.NewString(),
		Timestamp: s.now().UnixMilli(),
		Request:   req,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return Search{}, fmt.Errorf("marshal search: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		var existing [][]byte
		err := scanTxn(ctx, txn, historyKeyPrefix, true, func(key, _ []byte) error {
			existing = append(existing, key)
			return nil
		})
		if err != nil {
			return fmt.Errorf("list history: %w", err)
		}
		if err := txn.Set(historyKey(entry), data); err != nil {
			return fmt.Errorf("set search: %w", err)
		}
		// The new entry is the newest, so keep MaxHistory-1 of the existing ones.
		if len(existing) < MaxHistory {
			return nil
		}
		for _, k := range existing[MaxHistory-1:] {
			if err := txn.Delete(k); err != nil {
				return fmt.Errorf("trim history: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Search{}, err
	}
	return entry, nil
}

// History returns recent searches, newest first.
func (s *Store) History(ctx context.Context) ([]Search, error) {
	out := []Search{}
	err := s.scan(ctx, historyKeyPrefix, true, func(_, val []byte) error {
		if len(out) == MaxHistory {
			return errHistoryFull
		}
		var e Search
		if err := json.Unmarshal(val, &e); err != nil {
			return fmt.Errorf("unmarshal search: %w", err)
		}
		out = append(out, e)
		return nil
	})
	if err != nil && !errors.Is(err, errHistoryFull) {
		return nil, err
	}
	return out, nil
}

// ClearHistory deletes every stored search.
func (s *Store) ClearHistory(ctx context.Context) error {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	var keys [][]byte
	err := s.scan(ctx, historyKeyPrefix, false, func(key, _ []byte) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return fmt.Errorf("delete search: %w", err)
			}
		}
		return nil
	})
}
