// Copyright 2025 Embershare
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"

	"github.com/embershare/seek/core"
	"github.com/embershare/seek/storage"
)

const (
	// DefaultBatchSize is the default number of items per embedding batch
	DefaultBatchSize = 64
)

// ItemIterator iterates over items needing embeddings in batches.
// By default only items without a stored vector are visited; with force
// set, every item is visited regardless of its embedding state.
type ItemIterator struct {
	repo      storage.ItemRepository
	batchSize int
	force     bool
}

// NewItemIterator creates a new item iterator.
// batchSize: number of items per batch (must be > 0)
// force: visit all items instead of only unembedded ones
func NewItemIterator(repo storage.ItemRepository, batchSize int, force bool) *ItemIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ItemIterator{
		repo:      repo,
		batchSize: batchSize,
		force:     force,
	}
}

// Count returns how many items the iterator will visit.
func (it *ItemIterator) Count(ctx context.Context) (int, error) {
	items, err := it.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// ForEach iterates over the selected items, calling fn for each batch.
// Iteration stops on first error from fn or when all items are processed.
// Context cancellation is checked between batches.
func (it *ItemIterator) ForEach(ctx context.Context, fn func([]*core.Item) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := it.load(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		return nil
	}

	for i := 0; i < len(items); i += it.batchSize {
		end := i + it.batchSize
		if end > len(items) {
			end = len(items)
		}

		if err := fn(items[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}

func (it *ItemIterator) load(ctx context.Context) ([]*core.Item, error) {
	if it.force {
		return it.repo.GetAllItems(ctx)
	}
	return it.repo.GetItemsMissingVector(ctx)
}
