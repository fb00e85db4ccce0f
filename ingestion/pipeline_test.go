package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embershare/seek/ai"
	"github.com/embershare/seek/ai/mock"
	"github.com/embershare/seek/core"
	"github.com/embershare/seek/storage"
	"github.com/embershare/seek/storage/badger"
)

func newIngestionFixture(t *testing.T) (storage.ItemRepository, storage.CategoryRepository) {
	t.Helper()

	itemRepo, categoryRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		categoryRepo.Close()
		itemRepo.Close()
		backend.Close()
	})
	return itemRepo, categoryRepo
}

func TestSearchableText(t *testing.T) {
	t.Run("all parts present", func(t *testing.T) {
		item := &core.Item{Name: "Ladder", Description: "8ft aluminum"}
		assert.Equal(t, "Ladder — Tools — 8ft aluminum", SearchableText(item, "Tools"))
	})

	t.Run("no category", func(t *testing.T) {
		item := &core.Item{Name: "Ladder", Description: "8ft aluminum"}
		assert.Equal(t, "Ladder — 8ft aluminum", SearchableText(item, ""))
	})

	t.Run("no description", func(t *testing.T) {
		item := &core.Item{Name: "Ladder"}
		assert.Equal(t, "Ladder — Tools", SearchableText(item, "Tools"))
	})

	t.Run("name only", func(t *testing.T) {
		item := &core.Item{Name: "Ladder"}
		assert.Equal(t, "Ladder", SearchableText(item, ""))
	})
}

func TestNewPipeline(t *testing.T) {
	itemRepo, categoryRepo := newIngestionFixture(t)
	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		p, err := NewPipeline(itemRepo, categoryRepo, provider)
		require.NoError(t, err)
		assert.NotNil(t, p)
		p.Release()
	})

	t.Run("with pool size", func(t *testing.T) {
		p, err := NewPipeline(itemRepo, categoryRepo, provider, WithPoolSize(2))
		require.NoError(t, err)
		assert.NotNil(t, p)
		p.Release()
	})

	t.Run("nil item repository", func(t *testing.T) {
		_, err := NewPipeline(nil, categoryRepo, provider)
		assert.Equal(t, ErrItemRepositoryRequired, err)
	})

	t.Run("nil category repository", func(t *testing.T) {
		_, err := NewPipeline(itemRepo, nil, provider)
		assert.Equal(t, ErrCategoryRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewPipeline(itemRepo, categoryRepo, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestAddItems_Validation(t *testing.T) {
	itemRepo, categoryRepo := newIngestionFixture(t)

	p, err := NewPipeline(itemRepo, categoryRepo, mock.NewMockProvider())
	require.NoError(t, err)
	defer p.Release()

	ctx := context.Background()

	_, err = p.AddItems(ctx, &core.Item{})
	assert.ErrorIs(t, err, core.ErrEmptyItemName)

	_, err = p.AddItems(ctx, &core.Item{Name: "Ladder", Quantity: -1})
	assert.ErrorIs(t, err, core.ErrNegativeQuantity)

	_, err = p.AddItems(ctx, &core.Item{Name: "Ladder", Latitude: 91})
	assert.ErrorIs(t, err, core.ErrInvalidCoordinates)

	// Nothing persisted
	items, err := itemRepo.GetAllItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddItems_PersistsAndEmbeds(t *testing.T) {
	itemRepo, categoryRepo := newIngestionFixture(t)
	ctx := context.Background()

	embedded := make(chan struct{}, 1)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		defer func() { embedded <- struct{}{} }()
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0, 0}
		}
		return vectors, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockTranscriber())

	p, err := NewPipeline(itemRepo, categoryRepo, provider)
	require.NoError(t, err)
	defer p.Release()

	added, err := p.AddItems(ctx, &core.Item{Name: "Ladder", Description: "8ft aluminum", Available: true})
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.NotZero(t, added[0].Id)

	select {
	case <-embedded:
	case <-time.After(5 * time.Second):
		t.Fatal("embedding work never ran")
	}

	// Poll until the async update lands
	require.Eventually(t, func() bool {
		item, err := itemRepo.GetItem(ctx, added[0].Id)
		return err == nil && len(item.Vector) > 0
	}, 5*time.Second, 10*time.Millisecond)

	item, err := itemRepo.GetItem(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, item.Vector)
	assert.NotZero(t, item.TextFingerprint)
}

func TestEmbedItems_SkipsUnchangedText(t *testing.T) {
	itemRepo, categoryRepo := newIngestionFixture(t)
	ctx := context.Background()

	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockTranscriber())

	// Unconfigured provider here keeps AddItems from scheduling async work,
	// so the test controls every embedding call.
	writer, err := NewPipeline(itemRepo, categoryRepo, ai.Unconfigured())
	require.NoError(t, err)
	defer writer.Release()

	added, err := writer.AddItems(ctx, &core.Item{Name: "Ladder", Available: true})
	require.NoError(t, err)
	require.Len(t, added, 1)

	p, err := NewPipeline(itemRepo, categoryRepo, provider)
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.EmbedItems(ctx, added[0].Id))
	assert.Equal(t, 1, embedder.CallCount())

	// Same text, second pass is a no-op
	require.NoError(t, p.EmbedItems(ctx, added[0].Id))
	assert.Equal(t, 1, embedder.CallCount())

	// Changing the searchable text forces a re-embed
	item, err := itemRepo.GetItem(ctx, added[0].Id)
	require.NoError(t, err)
	item.Description = "now with a description"
	_, err = itemRepo.UpdateItems(ctx, item)
	require.NoError(t, err)

	require.NoError(t, p.EmbedItems(ctx, added[0].Id))
	assert.Equal(t, 2, embedder.CallCount())
}

func TestEmbedItems_ProviderUnconfigured(t *testing.T) {
	itemRepo, categoryRepo := newIngestionFixture(t)

	p, err := NewPipeline(itemRepo, categoryRepo, ai.Unconfigured())
	require.NoError(t, err)
	defer p.Release()

	err = p.EmbedItems(context.Background(), 1)
	assert.ErrorIs(t, err, ai.ErrUnavailable)
}

func TestAddItems_UnconfiguredProviderStillPersists(t *testing.T) {
	itemRepo, categoryRepo := newIngestionFixture(t)
	ctx := context.Background()

	p, err := NewPipeline(itemRepo, categoryRepo, ai.Unconfigured())
	require.NoError(t, err)
	defer p.Release()

	added, err := p.AddItems(ctx, &core.Item{Name: "Ladder", Available: true})
	require.NoError(t, err)
	require.Len(t, added, 1)

	item, err := itemRepo.GetItem(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Empty(t, item.Vector)
}

func TestUpdateItems_SchedulesReembedding(t *testing.T) {
	itemRepo, categoryRepo := newIngestionFixture(t)
	ctx := context.Background()

	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockTranscriber())

	p, err := NewPipeline(itemRepo, categoryRepo, provider)
	require.NoError(t, err)
	defer p.Release()

	added, err := p.AddItems(ctx, &core.Item{Name: "Ladder", Available: true})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		item, err := itemRepo.GetItem(ctx, added[0].Id)
		return err == nil && len(item.Vector) > 0
	}, 5*time.Second, 10*time.Millisecond)

	before, err := itemRepo.GetItem(ctx, added[0].Id)
	require.NoError(t, err)

	before.Description = "sturdy, barely used"
	_, err = p.UpdateItems(ctx, before)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		item, err := itemRepo.GetItem(ctx, added[0].Id)
		return err == nil && item.TextFingerprint != before.TextFingerprint
	}, 5*time.Second, 10*time.Millisecond)
}
