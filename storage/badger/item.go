package badger

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/embershare/seek/core"
	"github.com/embershare/seek/storage"
)

// ItemRepository implements storage.ItemRepository for BadgerDB.
type ItemRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(backend *Backend) (*ItemRepository, error) {
	idSeq, err := backend.GetSequence(itemIDSeq)
	if err != nil {
		return nil, err
	}

	return &ItemRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ItemRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *ItemRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddItems adds one or more items to storage.
func (r *ItemRepository) AddItems(ctx context.Context, items ...*core.Item) ([]*core.Item, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			// Always generate new ID from sequence
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			item.Id = core.ID(nextID)

			item.InsertedAt = time.Now().UTC()
			item.UpdatedAt = item.InsertedAt
			if item.CreatedAt.IsZero() {
				item.CreatedAt = item.InsertedAt
			}

			key := makeItemKey(item.Id)
			value := storage.MarshalItem(item)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return items, err
}

// UpdateItems updates existing items.
func (r *ItemRepository) UpdateItems(ctx context.Context, items ...*core.Item) ([]*core.Item, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			key := makeItemKey(item.Id)

			old, err := r.readItem(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			item.UpdatedAt = time.Now().UTC()

			value := storage.MarshalItem(item)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return items, err
}

// DeleteItems removes items by their IDs.
func (r *ItemRepository) DeleteItems(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeItemKey(id)

			item, err := r.readItem(tx, key)
			if err != nil {
				return err
			}
			if item == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetItem retrieves a single item by ID.
func (r *ItemRepository) GetItem(ctx context.Context, id core.ID) (*core.Item, error) {
	var result *core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeItemKey(id)
		var err error
		result, err = r.readItem(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetItems retrieves multiple items by their IDs.
func (r *ItemRepository) GetItems(ctx context.Context, ids ...core.ID) ([]*core.Item, error) {
	var result []*core.Item
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeItemKey(id)
			item, err := r.readItem(tx, key)
			if err != nil {
				return err
			}
			if item != nil {
				result = append(result, item)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetAvailableItems retrieves all items with Available=true, ordered by
// ascending ID. This is the candidate set semantic search scores against.
func (r *ItemRepository) GetAvailableItems(ctx context.Context) ([]*core.Item, error) {
	return r.scanItems(func(item *core.Item) bool {
		return item.Available
	})
}

// GetItemsMissingVector retrieves all items without a stored embedding,
// ordered by ascending ID.
func (r *ItemRepository) GetItemsMissingVector(ctx context.Context) ([]*core.Item, error) {
	return r.scanItems(func(item *core.Item) bool {
		return len(item.Vector) == 0
	})
}

// GetAllItems retrieves every item, ordered by ascending ID.
func (r *ItemRepository) GetAllItems(ctx context.Context) ([]*core.Item, error) {
	return r.scanItems(func(*core.Item) bool {
		return true
	})
}

// scanItems iterates all item records and returns those matching keep,
// sorted by ascending ID. Item keys are decimal-formatted, so badger's
// lexicographic iteration order is not numeric; sorting restores it.
func (r *ItemRepository) scanItems(keep func(*core.Item) bool) ([]*core.Item, error) {
	var results []*core.Item

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itemRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			key := item.Key()

			// Skip the sequence key, which shares the prefix
			if bytes.Equal(key, []byte(itemIDSeq)) {
				continue
			}

			var record *core.Item
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalItem(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil {
				continue
			}

			if keep(record) {
				results = append(results, record)
			}
		}

		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	sortItemsByID(results)
	return results, nil
}

// readItem reads an item from the transaction.
func (r *ItemRepository) readItem(tx *badger.Txn, key []byte) (*core.Item, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.Item
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalItem(val)
		return unmarshalErr
	})
	return record, err
}

// sortItemsByID sorts items in place by ascending ID.
func sortItemsByID(items []*core.Item) {
	slices.SortFunc(items, func(a, b *core.Item) int {
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})
}
