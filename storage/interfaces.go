package storage

import (
	"context"

	"github.com/embershare/seek/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ItemRepository provides operations for managing shared items.
type ItemRepository interface {
	Repository

	// AddItems adds one or more items to storage.
	// For items with ID=0, generates new IDs from sequence.
	// Sets InsertedAt/UpdatedAt timestamps, and CreatedAt if not already set.
	// Returns the items with generated IDs and timestamps populated.
	AddItems(ctx context.Context, items ...*core.Item) ([]*core.Item, error)

	// UpdateItems updates existing items.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any item doesn't exist.
	UpdateItems(ctx context.Context, items ...*core.Item) ([]*core.Item, error)

	// DeleteItems removes items by their IDs.
	// Returns ErrNotFound if any item doesn't exist.
	DeleteItems(ctx context.Context, ids ...core.ID) error

	// GetItem retrieves a single item by ID.
	// Returns ErrNotFound if the item doesn't exist.
	GetItem(ctx context.Context, id core.ID) (*core.Item, error)

	// GetItems retrieves multiple items by their IDs.
	// Returns only the items that exist (no error for missing items).
	GetItems(ctx context.Context, ids ...core.ID) ([]*core.Item, error)

	// GetAvailableItems retrieves all items with Available=true,
	// ordered by ascending ID. This is the candidate set for search.
	GetAvailableItems(ctx context.Context) ([]*core.Item, error)

	// GetItemsMissingVector retrieves all items without a stored embedding,
	// ordered by ascending ID.
	GetItemsMissingVector(ctx context.Context) ([]*core.Item, error)

	// GetAllItems retrieves every item, ordered by ascending ID.
	GetAllItems(ctx context.Context) ([]*core.Item, error)
}

// CategoryRepository provides operations for managing categories.
type CategoryRepository interface {
	Repository

	// AddCategories adds one or more categories to storage.
	// Uses content-based IDs (IDFromContent of the category name).
	// Returns the categories with IDs populated.
	AddCategories(ctx context.Context, categories ...*core.Category) ([]*core.Category, error)

	// GetCategory retrieves a single category by ID.
	// Returns ErrNotFound if the category doesn't exist.
	GetCategory(ctx context.Context, id core.ID) (*core.Category, error)

	// GetCategoryByName finds a category by its unique name.
	// Returns ErrNotFound if no matching category exists.
	GetCategoryByName(ctx context.Context, name string) (*core.Category, error)

	// GetOrCreateCategory finds or creates a category by name.
	// Thread-safe: content-based IDs make concurrent creation idempotent.
	GetOrCreateCategory(ctx context.Context, name string) (*core.Category, error)

	// ListCategories retrieves all categories.
	ListCategories(ctx context.Context) ([]*core.Category, error)

	// NameIndex returns a mapping from category ID to name, used to resolve
	// category names for search projection and searchable-text building.
	NameIndex(ctx context.Context) (map[core.ID]string, error)
}
