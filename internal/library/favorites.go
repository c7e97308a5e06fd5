package library

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shpitdev/lumina/internal/recommend"
)

// Favorite is a saved recommendation.
type Favorite struct {
	ID      string `json:"id" yaml:"id"`
	SavedAt int64  `json:"savedAt" yaml:"savedAt"`
	recommend.Recommendation `json:",inline" yaml:",inline"`
}

// FavoriteID is the catalog id when the book has one, so saving the same volume twice
// overwrites the earlier entry.
func FavoriteID(r recommend.Recommendation) string {
	if id := strings.TrimSpace(r.CatalogID); id != "" {
		return id
	}
	return uuid.NewString()
}

// AddFavorite saves r and returns the stored entry.
func (s *Store) AddFavorite(ctx context.Context, r recommend.Recommendation) (Favorite, error) {
	if err := ctx.Err(); err != nil {
		return Favorite{}, err
	}
	f := Favorite{
		ID:             FavoriteID(r),
		SavedAt:        s.now().UnixMilli(),
		Recommendation: r,
	}
	data, err := json.Marshal(f)
	if err != nil {
		return Favorite{}, fmt.Errorf("marshal favorite: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(favoriteKeyPrefix+f.ID), data)
	})
	if err != nil {
		return Favorite{}, fmt.Errorf("set favorite: %w", err)
	}
	return f, nil
}

// RemoveFavorite deletes the favorite with id, or returns ErrNotFound.
func (s *Store) RemoveFavorite(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(favoriteKeyPrefix + id)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
}

func (s *Store) IsFavorite(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := s.get(favoriteKeyPrefix+id, func([]byte) error { return nil })
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Favorites returns every favorite, oldest first.
func (s *Store) Favorites(ctx context.Context) ([]Favorite, error) {
	out := []Favorite{}
	err := s.scan(ctx, favoriteKeyPrefix, false, func(_, val []byte) error {
		var f Favorite
		if err := json.Unmarshal(val, &f); err != nil {
			return fmt.Errorf("unmarshal favorite: %w", err)
		}
		out = append(out, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b Favorite) int {
		switch {
		case a.SavedAt < b.SavedAt:
			return -1
		case a.SavedAt > b.SavedAt:
			return 1
		default:
			return strings.Compare(a.ID, b.ID)
		}
	})
	return out, nil
}
