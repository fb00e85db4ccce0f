package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/embershare/seek/ai"
	"github.com/embershare/seek/core"
	"github.com/embershare/seek/storage"
)

// searchableTextSeparator joins the parts of an item's embeddable text.
const searchableTextSeparator = " — "

// SearchableText builds the text fed to the embedder for an item.
// It concatenates name, category name, and description in that order,
// omitting missing parts rather than inserting empty placeholders.
func SearchableText(item *core.Item, categoryName string) string {
	parts := make([]string, 0, 3)
	if item.Name != "" {
		parts = append(parts, item.Name)
	}
	if categoryName != "" {
		parts = append(parts, categoryName)
	}
	if item.Description != "" {
		parts = append(parts, item.Description)
	}
	return strings.Join(parts, searchableTextSeparator)
}

// embeddingProcessor generates and stores embeddings for items.
type embeddingProcessor struct {
	itemRepository     storage.ItemRepository
	categoryRepository storage.CategoryRepository
	embedder           ai.Embedder
	logger             *slog.Logger
}

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(
	itemRepository storage.ItemRepository,
	categoryRepository storage.CategoryRepository,
	embedder ai.Embedder,
	logger *slog.Logger,
) (*embeddingProcessor, error) {
	if itemRepository == nil {
		return nil, ErrItemRepositoryRequired
	}
	if categoryRepository == nil {
		return nil, ErrCategoryRepositoryRequired
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		itemRepository:     itemRepository,
		categoryRepository: categoryRepository,
		embedder:           embedder,
		logger:             logger.With("processor", "embeddings"),
	}, nil
}

// process generates embeddings for the specified items.
// Items whose searchable text is unchanged since the last embedding are
// skipped, so re-submitting an item is cheap and idempotent.
func (ep *embeddingProcessor) process(ctx context.Context, ids ...core.ID) error {
	ep.logger.Info("processing items for embeddings", "items", len(ids))

	items, err := ep.itemRepository.GetItems(ctx, ids...)
	if err != nil {
		ep.logger.Error("error retrieving items", "err", err)
		return err
	}

	names, err := ep.categoryRepository.NameIndex(ctx)
	if err != nil {
		ep.logger.Error("error loading category names", "err", err)
		return err
	}

	pending := make([]*core.Item, 0, len(items))
	texts := make([]string, 0, len(items))
	fingerprints := make([]core.ID, 0, len(items))
	for _, item := range items {
		text := SearchableText(item, names[item.CategoryId])
		fingerprint := core.IDFromContent(text)
		if fingerprint == item.TextFingerprint && len(item.Vector) > 0 {
			continue
		}
		pending = append(pending, item)
		texts = append(texts, text)
		fingerprints = append(fingerprints, fingerprint)
	}

	if len(pending) == 0 {
		return nil
	}

	ep.logger.Debug("generating embeddings for items", "items", len(texts))
	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}

	if len(embeddings) != len(pending) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(pending), len(embeddings))
	}

	for i := range embeddings {
		pending[i].Vector = embeddings[i]
		pending[i].TextFingerprint = fingerprints[i]
	}

	_, err = ep.itemRepository.UpdateItems(ctx, pending...)
	return err
}
