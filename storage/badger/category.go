package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/embershare/seek/core"
	"github.com/embershare/seek/storage"
)

// CategoryRepository implements storage.CategoryRepository for BadgerDB.
type CategoryRepository struct {
	backend *Backend
}

var _ storage.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(backend *Backend) (*CategoryRepository, error) {
	return &CategoryRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CategoryRepository has no resources to release.
func (r *CategoryRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *CategoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddCategories adds one or more categories to storage.
func (r *CategoryRepository) AddCategories(ctx context.Context, categories ...*core.Category) ([]*core.Category, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, category := range categories {
			if err := core.ValidateCategory(category); err != nil {
				return err
			}

			// Use content-based ID if not set
			if category.Id == 0 {
				category.Id = core.IDFromContent(category.Name)
			}

			key := makeCategoryKey(category.Id)
			value := storage.MarshalCategory(category)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Store name index
			nameKey := makeCategoryNameKey(category.Name)
			if err := tx.Set(nameKey, storage.MarshalID(category.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return categories, err
}

// GetCategory retrieves a single category by ID.
func (r *CategoryRepository) GetCategory(ctx context.Context, id core.ID) (*core.Category, error) {
	var result *core.Category
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCategory(tx, makeCategoryKey(id))
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

// GetCategoryByName finds a category by its unique name.
func (r *CategoryRepository) GetCategoryByName(ctx context.Context, name string) (*core.Category, error) {
	var result *core.Category
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCategoryNameKey(name))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = readCategory(tx, makeCategoryKey(id))
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

// GetOrCreateCategory finds or creates a category by name.
// Content-based IDs make concurrent creation idempotent.
func (r *CategoryRepository) GetOrCreateCategory(ctx context.Context, name string) (*core.Category, error) {
	existing, err := r.GetCategoryByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if err != storage.ErrNotFound {
		return nil, err
	}

	category := &core.Category{Name: name}
	if _, err := r.AddCategories(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories retrieves all categories.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]*core.Category, error) {
	var results []*core.Category
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(categoryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var category *core.Category
			err := iter.Item().Value(func(val []byte) error {
				var err error
				category, err = storage.UnmarshalCategory(val)
				return err
			})
			if err != nil {
				return err
			}
			if category != nil {
				results = append(results, category)
			}
		}
		return nil
	}, false)

	return results, err
}

// NameIndex returns a mapping from category ID to name.
func (r *CategoryRepository) NameIndex(ctx context.Context) (map[core.ID]string, error) {
	categories, err := r.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[core.ID]string, len(categories))
	for _, category := range categories {
		index[category.Id] = category.Name
	}
	return index, nil
}

// readCategory reads a category from the transaction.
func readCategory(tx *badger.Txn, key []byte) (*core.Category, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var category *core.Category
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		category, unmarshalErr = storage.UnmarshalCategory(val)
		return unmarshalErr
	})
	return category, err
}
