package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/embershare/seek/ai"
	"github.com/embershare/seek/core"
	"github.com/embershare/seek/ingestion"
	"github.com/embershare/seek/storage"
)

// BatchProcessor handles embedding generation for batches of items.
type BatchProcessor struct {
	repo           storage.ItemRepository
	embedder       ai.Embedder
	names          map[core.ID]string
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// names: category ID to name mapping, used to build searchable text
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.ItemRepository, embedder ai.Embedder, names map[core.ID]string, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		names:          names,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of items and updates them in
// the database. The whole batch is committed together, so a failure leaves
// every item in the batch untouched.
func (bp *BatchProcessor) Process(ctx context.Context, items []*core.Item) error {
	if len(items) == 0 {
		return nil
	}

	texts := make([]string, len(items))
	fingerprints := make([]core.ID, len(items))
	for i, item := range items {
		texts[i] = ingestion.SearchableText(item, bp.names[item.CategoryId])
		fingerprints[i] = core.IDFromContent(texts[i])
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(items) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(items), len(embeddings))
	}

	for i := range items {
		items[i].Vector = embeddings[i]
		items[i].TextFingerprint = fingerprints[i]
	}

	_, err = bp.repo.UpdateItems(ctx, items...)
	if err != nil {
		return fmt.Errorf("failed to update items: %w", err)
	}

	return nil
}
