package ingestion

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"

	"github.com/embershare/seek/ai"
	"github.com/embershare/seek/core"
	"github.com/embershare/seek/storage"
)

// Pipeline orchestrates item ingestion and embedding maintenance.
// Writes are persisted synchronously; embedding happens on a worker pool
// so item creation never waits on the AI provider.
type Pipeline struct {
	itemRepository     storage.ItemRepository
	categoryRepository storage.CategoryRepository
	provider           ai.Provider
	embeddingPool      *ants.Pool
	embeddingProc      *embeddingProcessor
	logger             *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	itemRepository storage.ItemRepository,
	categoryRepository storage.CategoryRepository,
	provider ai.Provider,
	opts ...Option,
) (*Pipeline, error) {
	if itemRepository == nil {
		return nil, ErrItemRepositoryRequired
	}
	if categoryRepository == nil {
		return nil, ErrCategoryRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		itemRepository:     itemRepository,
		categoryRepository: categoryRepository,
		provider:           provider,
		embeddingPool:      pool,
		logger:             slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	proc, err := newEmbeddingProcessor(itemRepository, categoryRepository, provider.Embedder(), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingProc = proc

	return p, nil
}

// AddItems validates and persists items, then schedules embedding.
// Embedding is best-effort: failures are logged and left for the batch
// maintenance job, never surfaced to the caller.
func (p *Pipeline) AddItems(ctx context.Context, items ...*core.Item) ([]*core.Item, error) {
	for _, item := range items {
		if err := core.ValidateItem(item); err != nil {
			return nil, err
		}
	}

	added, err := p.itemRepository.AddItems(ctx, items...)
	if err != nil {
		return nil, err
	}

	p.scheduleEmbedding(added)
	return added, nil
}

// UpdateItems validates and persists item updates, then schedules
// re-embedding. The processor's fingerprint check makes this a no-op for
// items whose searchable text did not change.
func (p *Pipeline) UpdateItems(ctx context.Context, items ...*core.Item) ([]*core.Item, error) {
	for _, item := range items {
		if err := core.ValidateItem(item); err != nil {
			return nil, err
		}
	}

	updated, err := p.itemRepository.UpdateItems(ctx, items...)
	if err != nil {
		return nil, err
	}

	p.scheduleEmbedding(updated)
	return updated, nil
}

// EmbedItems synchronously generates embeddings for the given items.
// Exposed for callers that need embedding to complete before returning.
func (p *Pipeline) EmbedItems(ctx context.Context, ids ...core.ID) error {
	if !p.provider.Ready() {
		return ai.ErrUnavailable
	}
	return p.embeddingProc.process(ctx, ids...)
}

func (p *Pipeline) scheduleEmbedding(items []*core.Item) {
	if len(items) == 0 || !p.provider.Ready() {
		return
	}

	ids := make([]core.ID, len(items))
	for i, item := range items {
		ids[i] = item.Id
	}

	err := p.embeddingPool.Submit(func() {
		if err := p.embeddingProc.process(context.Background(), ids...); err != nil {
			p.logger.Error("error processing embeddings", "items", len(ids), "err", err)
		}
	})
	if err != nil {
		p.logger.Error("error submitting embedding work", "err", err)
	}
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
