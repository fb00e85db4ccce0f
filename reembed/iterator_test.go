package reembed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embershare/seek/core"
	"github.com/embershare/seek/storage"
	"github.com/embershare/seek/storage/badger"
)

func newIteratorFixture(t *testing.T) storage.ItemRepository {
	t.Helper()

	itemRepo, categoryRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		categoryRepo.Close()
		itemRepo.Close()
		backend.Close()
	})
	return itemRepo
}

func seedItems(t *testing.T, repo storage.ItemRepository, embedded, unembedded int) {
	t.Helper()
	ctx := context.Background()

	items := make([]*core.Item, 0, embedded+unembedded)
	for i := 0; i < embedded; i++ {
		items = append(items, &core.Item{
			Name:   fmt.Sprintf("embedded %d", i),
			Vector: []float32{1, 0, 0},
		})
	}
	for i := 0; i < unembedded; i++ {
		items = append(items, &core.Item{Name: fmt.Sprintf("unembedded %d", i)})
	}
	_, err := repo.AddItems(ctx, items...)
	require.NoError(t, err)
}

func TestItemIterator_MissingVectorOnly(t *testing.T) {
	repo := newIteratorFixture(t)
	seedItems(t, repo, 3, 7)

	it := NewItemIterator(repo, 4, false)

	count, err := it.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)

	var batches [][]*core.Item
	err = it.ForEach(context.Background(), func(items []*core.Item) error {
		batches = append(batches, items)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 4)
	assert.Len(t, batches[1], 3)
	for _, batch := range batches {
		for _, item := range batch {
			assert.Empty(t, item.Vector)
		}
	}
}

func TestItemIterator_Force(t *testing.T) {
	repo := newIteratorFixture(t)
	seedItems(t, repo, 3, 7)

	it := NewItemIterator(repo, 100, true)

	count, err := it.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, count)

	total := 0
	err = it.ForEach(context.Background(), func(items []*core.Item) error {
		total += len(items)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, total)
}

func TestItemIterator_EmptyDatabase(t *testing.T) {
	repo := newIteratorFixture(t)

	it := NewItemIterator(repo, 10, false)
	called := false
	err := it.ForEach(context.Background(), func(items []*core.Item) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestItemIterator_StopsOnError(t *testing.T) {
	repo := newIteratorFixture(t)
	seedItems(t, repo, 0, 10)

	it := NewItemIterator(repo, 3, false)

	wantErr := errors.New("batch failed")
	batches := 0
	err := it.ForEach(context.Background(), func(items []*core.Item) error {
		batches++
		if batches == 2 {
			return wantErr
		}
		return nil
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 2, batches)
}

func TestItemIterator_ContextCancellation(t *testing.T) {
	repo := newIteratorFixture(t)
	seedItems(t, repo, 0, 10)

	it := NewItemIterator(repo, 3, false)

	ctx, cancel := context.WithCancel(context.Background())
	batches := 0
	err := it.ForEach(ctx, func(items []*core.Item) error {
		batches++
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, batches)
}

func TestItemIterator_DefaultBatchSize(t *testing.T) {
	repo := newIteratorFixture(t)
	it := NewItemIterator(repo, 0, false)
	assert.Equal(t, DefaultBatchSize, it.batchSize)
}
