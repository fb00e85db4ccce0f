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
	"fmt"
	"io"
	"time"

	"github.com/embershare/seek/ai"
	"github.com/embershare/seek/core"
	"github.com/embershare/seek/storage"
)

// Config holds configuration for a batch embedding run.
type Config struct {
	// BatchSize is the number of items to embed in each provider call
	BatchSize int

	// ReportInterval is how often to report progress (number of items)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed batches
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Force re-embeds every item, not just those missing a vector
	Force bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: DefaultBatchSize,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates embedding maintenance over the item database.
// By default it embeds only items missing a vector; Force re-embeds all,
// which is needed after a model change.
type Reembedder struct {
	itemRepository     storage.ItemRepository
	categoryRepository storage.CategoryRepository
	embedder           ai.Embedder
	config             *Config
	progress           io.Writer
	iterator           *ItemIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(
	itemRepository storage.ItemRepository,
	categoryRepository storage.CategoryRepository,
	embedder ai.Embedder,
	config *Config,
	progress io.Writer,
) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		itemRepository:     itemRepository,
		categoryRepository: categoryRepository,
		embedder:           embedder,
		config:             config,
		progress:           progress,
		iterator:           NewItemIterator(itemRepository, config.BatchSize, config.Force),
	}
}

// Run executes the batch embedding operation.
// A batch failure aborts the run and reports how many items remain
// unembedded; completed batches stay committed.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.iterator.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to query items: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No items need embedding (0 items)\n")
		return nil
	}

	names, err := r.categoryRepository.NameIndex(ctx)
	if err != nil {
		return fmt.Errorf("failed to load category names: %w", err)
	}

	fmt.Fprintf(r.progress, "Starting embedding of %d items (batch size: %d)\n",
		total, r.config.BatchSize)

	processor := NewBatchProcessor(r.itemRepository, r.embedder, names, r.config.MaxRetries, r.config.RetryDelay)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0

	err = r.iterator.ForEach(ctx, func(items []*core.Item) error {
		if err := processor.Process(ctx, items); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(items)
		tracker.Update(processed)

		return nil
	})

	if err != nil {
		fmt.Fprintf(r.progress, "\nAborted: %d of %d items remain unembedded\n", total-processed, total)
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Embedding complete. Processed %d items in %v (%.1f items/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
