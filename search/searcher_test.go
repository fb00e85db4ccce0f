package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embershare/seek/ai"
	"github.com/embershare/seek/ai/mock"
	"github.com/embershare/seek/core"
	"github.com/embershare/seek/storage"
	"github.com/embershare/seek/storage/badger"
)

func newSearchFixture(t *testing.T) (storage.ItemRepository, storage.CategoryRepository) {
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

// fixedEmbedder returns a mock embedder that always produces the same query vector.
func fixedEmbedder(vector []float32) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return vector, nil
	}
	return embedder
}

func TestNewSearcher(t *testing.T) {
	itemRepo, categoryRepo := newSearchFixture(t)
	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(itemRepo, categoryRepo, provider)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom logger", func(t *testing.T) {
		searcher, err := NewSearcher(itemRepo, categoryRepo, provider, WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(itemRepo, categoryRepo, provider, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil item repository", func(t *testing.T) {
		_, err := NewSearcher(nil, categoryRepo, provider)
		assert.Equal(t, ErrItemRepositoryRequired, err)
	})

	t.Run("nil category repository", func(t *testing.T) {
		_, err := NewSearcher(itemRepo, nil, provider)
		assert.Equal(t, ErrCategoryRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewSearcher(itemRepo, categoryRepo, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestSearch_EmptyQuery(t *testing.T) {
	itemRepo, categoryRepo := newSearchFixture(t)

	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockTranscriber())

	searcher, err := NewSearcher(itemRepo, categoryRepo, provider)
	require.NoError(t, err)

	for _, query := range []string{"", "   ", "\n\t"} {
		resp, err := searcher.Search(context.Background(), query, nil)
		require.NoError(t, err)
		assert.True(t, resp.Fallback)
		assert.Empty(t, resp.Results)
	}

	// The provider must never be called for an empty query
	assert.Equal(t, 0, embedder.CallCount())
}

func TestSearch_ProviderUnconfigured(t *testing.T) {
	itemRepo, categoryRepo := newSearchFixture(t)

	searcher, err := NewSearcher(itemRepo, categoryRepo, ai.Unconfigured())
	require.NoError(t, err)

	resp, err := searcher.Search(context.Background(), "garden tools", nil)
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Empty(t, resp.Results)
}

func TestSearch_EmbeddingFailure(t *testing.T) {
	itemRepo, categoryRepo := newSearchFixture(t)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("%w: connection refused", ai.ErrUnavailable)
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockTranscriber())

	searcher, err := NewSearcher(itemRepo, categoryRepo, provider)
	require.NoError(t, err)

	// Degrades to the fallback response, never a request-level error
	resp, err := searcher.Search(context.Background(), "garden tools", nil)
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Empty(t, resp.Results)
}

func TestSearch_Ordering(t *testing.T) {
	itemRepo, categoryRepo := newSearchFixture(t)
	ctx := context.Background()

	// Vectors chosen so that cosine similarity against the query vector
	// {1, 0, 0} is 0.9, 0.5, and 0.1 respectively.
	items := []*core.Item{
		{Name: "low", Available: true, Vector: []float32{0.1, 0.99498743710662, 0}},
		{Name: "high", Available: true, Vector: []float32{0.9, 0.43588989435407, 0}},
		{Name: "mid", Available: true, Vector: []float32{0.5, 0.86602540378444, 0}},
	}
	_, err := itemRepo.AddItems(ctx, items...)
	require.NoError(t, err)

	provider := mock.NewMockProviderWithServices(
		fixedEmbedder([]float32{1, 0, 0}), mock.NewMockTranscriber())
	searcher, err := NewSearcher(itemRepo, categoryRepo, provider)
	require.NoError(t, err)

	resp, err := searcher.Search(ctx, "anything", nil)
	require.NoError(t, err)
	assert.False(t, resp.Fallback)
	require.Len(t, resp.Results, 3)

	assert.Equal(t, "high", resp.Results[0].Item.Name)
	assert.Equal(t, "mid", resp.Results[1].Item.Name)
	assert.Equal(t, "low", resp.Results[2].Item.Name)

	// Scores are rounded to 4 decimals
	assert.InDelta(t, 0.9, float64(resp.Results[0].Score), 1e-4)
	assert.InDelta(t, 0.5, float64(resp.Results[1].Score), 1e-4)
	assert.InDelta(t, 0.1, float64(resp.Results[2].Score), 1e-4)
}

func TestSearch_ExcludesUnavailableItems(t *testing.T) {
	itemRepo, categoryRepo := newSearchFixture(t)
	ctx := context.Background()

	items := []*core.Item{
		{Name: "available", Available: true, Vector: []float32{1, 0, 0}},
		{Name: "lent out", Available: false, Vector: []float32{1, 0, 0}},
	}
	_, err := itemRepo.AddItems(ctx, items...)
	require.NoError(t, err)

	provider := mock.NewMockProviderWithServices(
		fixedEmbedder([]float32{1, 0, 0}), mock.NewMockTranscriber())
	searcher, err := NewSearcher(itemRepo, categoryRepo, provider)
	require.NoError(t, err)

	resp, err := searcher.Search(ctx, "anything", nil)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "available", resp.Results[0].Item.Name)
}

func TestSearch_SkipsItemsWithoutVector(t *testing.T) {
	itemRepo, categoryRepo := newSearchFixture(t)
	ctx := context.Background()

	items := []*core.Item{
		{Name: "embedded", Available: true, Vector: []float32{1, 0, 0}},
		{Name: "not yet embedded", Available: true},
		{Name: "wrong dimensions", Available: true, Vector: []float32{1, 0}},
	}
	_, err := itemRepo.AddItems(ctx, items...)
	require.NoError(t, err)

	provider := mock.NewMockProviderWithServices(
		fixedEmbedder([]float32{1, 0, 0}), mock.NewMockTranscriber())
	searcher, err := NewSearcher(itemRepo, categoryRepo, provider)
	require.NoError(t, err)

	resp, err := searcher.Search(ctx, "anything", nil)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "embedded", resp.Results[0].Item.Name)
}

func TestSearch_CategoryFilter(t *testing.T) {
	itemRepo, categoryRepo := newSearchFixture(t)
	ctx := context.Background()

	water, err := categoryRepo.GetOrCreateCategory(ctx, "Water")
	require.NoError(t, err)
	tools, err := categoryRepo.GetOrCreateCategory(ctx, "Tools")
	require.NoError(t, err)

	items := []*core.Item{
		{Name: "rain barrel", Available: true, CategoryId: water.Id, Vector: []float32{0.2, 0.97979589711327, 0}},
		{Name: "power drill", Available: true, CategoryId: tools.Id, Vector: []float32{0.99, 0.14106735979666, 0}},
		{Name: "mystery box", Available: true, Vector: []float32{1, 0, 0}},
	}
	_, err = itemRepo.AddItems(ctx, items...)
	require.NoError(t, err)

	provider := mock.NewMockProviderWithServices(
		fixedEmbedder([]float32{1, 0, 0}), mock.NewMockTranscriber())
	searcher, err := NewSearcher(itemRepo, categoryRepo, provider)
	require.NoError(t, err)

	t.Run("hard exclusion before scoring", func(t *testing.T) {
		// The drill scores 0.99 but is excluded; the barrel scores 0.2
		// and is the only result.
		resp, err := searcher.Search(ctx, "anything", []string{"Water"})
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "rain barrel", resp.Results[0].Item.Name)
		assert.Equal(t, "Water", resp.Results[0].CategoryName)
	})

	t.Run("all sentinel disables filtering", func(t *testing.T) {
		resp, err := searcher.Search(ctx, "anything", []string{"all"})
		require.NoError(t, err)
		assert.Len(t, resp.Results, 3)
	})

	t.Run("sentinel wins even alongside other names", func(t *testing.T) {
		resp, err := searcher.Search(ctx, "anything", []string{"Water", "all"})
		require.NoError(t, err)
		assert.Len(t, resp.Results, 3)
	})

	t.Run("empty list means no filter", func(t *testing.T) {
		resp, err := searcher.Search(ctx, "anything", nil)
		require.NoError(t, err)
		assert.Len(t, resp.Results, 3)
	})

	t.Run("uncategorized matches empty string", func(t *testing.T) {
		resp, err := searcher.Search(ctx, "anything", []string{""})
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "mystery box", resp.Results[0].Item.Name)
		assert.Empty(t, resp.Results[0].CategoryName)
	})

	t.Run("unknown category matches nothing", func(t *testing.T) {
		resp, err := searcher.Search(ctx, "anything", []string{"Spacecraft"})
		require.NoError(t, err)
		assert.Empty(t, resp.Results)
		assert.False(t, resp.Fallback)
	})
}

func TestSearch_TruncatesToMaxResults(t *testing.T) {
	itemRepo, categoryRepo := newSearchFixture(t)
	ctx := context.Background()

	items := make([]*core.Item, MaxResults+10)
	for i := range items {
		items[i] = &core.Item{
			Name:      fmt.Sprintf("item %d", i),
			Available: true,
			Vector:    []float32{1, 0, 0},
		}
	}
	_, err := itemRepo.AddItems(ctx, items...)
	require.NoError(t, err)

	provider := mock.NewMockProviderWithServices(
		fixedEmbedder([]float32{1, 0, 0}), mock.NewMockTranscriber())
	searcher, err := NewSearcher(itemRepo, categoryRepo, provider)
	require.NoError(t, err)

	resp, err := searcher.Search(ctx, "anything", nil)
	require.NoError(t, err)
	assert.Len(t, resp.Results, MaxResults)
}

func TestSearch_StableTieBreak(t *testing.T) {
	itemRepo, categoryRepo := newSearchFixture(t)
	ctx := context.Background()

	// Equal scores keep insertion (ascending ID) order
	items := []*core.Item{
		{Name: "first", Available: true, Vector: []float32{1, 0, 0}},
		{Name: "second", Available: true, Vector: []float32{2, 0, 0}},
		{Name: "third", Available: true, Vector: []float32{3, 0, 0}},
	}
	_, err := itemRepo.AddItems(ctx, items...)
	require.NoError(t, err)

	provider := mock.NewMockProviderWithServices(
		fixedEmbedder([]float32{1, 0, 0}), mock.NewMockTranscriber())
	searcher, err := NewSearcher(itemRepo, categoryRepo, provider)
	require.NoError(t, err)

	resp, err := searcher.Search(ctx, "anything", nil)
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "first", resp.Results[0].Item.Name)
	assert.Equal(t, "second", resp.Results[1].Item.Name)
	assert.Equal(t, "third", resp.Results[2].Item.Name)
}

func TestSearch_RepositoryError(t *testing.T) {
	itemRepo, categoryRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)

	provider := mock.NewMockProviderWithServices(
		fixedEmbedder([]float32{1, 0, 0}), mock.NewMockTranscriber())
	searcher, err := NewSearcher(itemRepo, categoryRepo, provider)
	require.NoError(t, err)

	// Closing the backend makes candidate loading fail
	categoryRepo.Close()
	itemRepo.Close()
	backend.Close()

	_, err = searcher.Search(context.Background(), "anything", nil)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ai.ErrUnavailable))
}

func TestSearchWithMonitor(t *testing.T) {
	itemRepo, categoryRepo := newSearchFixture(t)
	ctx := context.Background()

	items := []*core.Item{
		{Name: "scored", Available: true, Vector: []float32{1, 0, 0}},
		{Name: "skipped", Available: true},
	}
	_, err := itemRepo.AddItems(ctx, items...)
	require.NoError(t, err)

	provider := mock.NewMockProviderWithServices(
		fixedEmbedder([]float32{1, 0, 0}), mock.NewMockTranscriber())
	searcher, err := NewSearcher(itemRepo, categoryRepo, provider)
	require.NoError(t, err)

	monitor := &testMonitor{}
	resp, err := searcher.SearchWithMonitor(ctx, "anything", nil, monitor)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	assert.True(t, monitor.startCalled)
	assert.Equal(t, 3, monitor.queryDimensions)
	assert.Equal(t, 2, monitor.candidates)
	assert.Equal(t, 1, monitor.scored)
	assert.Equal(t, 1, monitor.skipped)
	assert.True(t, monitor.finishCalled)
	assert.Empty(t, monitor.fallbackReason)
}

func TestSearchWithMonitor_Fallback(t *testing.T) {
	itemRepo, categoryRepo := newSearchFixture(t)

	searcher, err := NewSearcher(itemRepo, categoryRepo, ai.Unconfigured())
	require.NoError(t, err)

	monitor := &testMonitor{}
	resp, err := searcher.SearchWithMonitor(context.Background(), "anything", nil, monitor)
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Equal(t, "provider unconfigured", monitor.fallbackReason)
}

// testMonitor is a simple test implementation of SearchMonitor
type testMonitor struct {
	startCalled     bool
	fallbackReason  string
	queryDimensions int
	candidates      int
	scored          int
	skipped         int
	finishCalled    bool
}

func (m *testMonitor) Start(query string, categories []string) {
	m.startCalled = true
}

func (m *testMonitor) Fallback(reason string) {
	m.fallbackReason = reason
}

func (m *testMonitor) AfterQueryEmbedding(dimensions int) {
	m.queryDimensions = dimensions
}

func (m *testMonitor) AfterCandidateLoad(items []*core.Item) {
	m.candidates = len(items)
}

func (m *testMonitor) AfterCategoryFilter(items []*core.Item) {}

func (m *testMonitor) Scored(item *core.Item, score float32) {
	m.scored++
}

func (m *testMonitor) SkippedUnembedded(item *core.Item) {
	m.skipped++
}

func (m *testMonitor) Finish(results []*core.SearchResult) {
	m.finishCalled = true
}
