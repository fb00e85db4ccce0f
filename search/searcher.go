package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/embershare/seek/ai"
	"github.com/embershare/seek/core"
	"github.com/embershare/seek/storage"
)

// MaxResults is the maximum number of results returned by a single search.
const MaxResults = 50

// AllCategoriesSentinel in a category filter disables category filtering.
const AllCategoriesSentinel = "all"

// Response is the outcome of one search request.
//
// Fallback reports that the semantic path could not run (empty query,
// provider unconfigured, or embedding failure). The caller should degrade
// to a non-semantic search method instead of treating it as an error.
type Response struct {
	Results  []*core.SearchResult
	Fallback bool
}

// Searcher ranks available items against a free-text query by cosine
// similarity between the query embedding and each item's stored vector.
type Searcher struct {
	itemRepository     storage.ItemRepository
	categoryRepository storage.CategoryRepository
	provider           ai.Provider
	embedder           ai.Embedder
	logger             *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	itemRepository storage.ItemRepository,
	categoryRepository storage.CategoryRepository,
	provider ai.Provider,
	opts ...Option,
) (*Searcher, error) {
	if itemRepository == nil {
		return nil, ErrItemRepositoryRequired
	}
	if categoryRepository == nil {
		return nil, ErrCategoryRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		itemRepository:     itemRepository,
		categoryRepository: categoryRepository,
		provider:           provider,
		embedder:           provider.Embedder(),
		logger:             slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search ranks available items against the query.
// Returns up to MaxResults results, ordered by descending similarity.
func (s *Searcher) Search(ctx context.Context, query string, categories []string) (*Response, error) {
	return s.SearchWithMonitor(ctx, query, categories, nil)
}

// SearchWithMonitor ranks available items against the query with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, categories []string, monitor SearchMonitor) (*Response, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query, categories)

	query = strings.TrimSpace(query)
	if query == "" {
		monitor.Fallback("empty query")
		return fallbackResponse(), nil
	}

	if !s.provider.Ready() {
		monitor.Fallback("provider unconfigured")
		return fallbackResponse(), nil
	}

	// 1. Embed the query. Any provider failure degrades to the fallback
	// response rather than a request-level error.
	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Warn("query embedding failed, degrading to fallback", "err", err)
		monitor.Fallback("embedding failed")
		return fallbackResponse(), nil
	}
	monitor.AfterQueryEmbedding(len(queryVector))

	// 2. Load candidates
	items, err := s.itemRepository.GetAvailableItems(ctx)
	if err != nil {
		s.logger.Error("error loading available items", "err", err)
		return nil, err
	}
	monitor.AfterCandidateLoad(items)

	names, err := s.categoryRepository.NameIndex(ctx)
	if err != nil {
		s.logger.Error("error loading category names", "err", err)
		return nil, err
	}

	// 3. Category filter, applied before scoring. Uncategorized items carry
	// an empty category name for matching purposes.
	if filter := buildCategoryFilter(categories); filter != nil {
		filtered := make([]*core.Item, 0, len(items))
		for _, item := range items {
			if filter[names[item.CategoryId]] {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	monitor.AfterCategoryFilter(items)

	// 4. Score embedded candidates
	results := make([]*core.SearchResult, 0, len(items))
	for _, item := range items {
		if len(item.Vector) == 0 {
			monitor.SkippedUnembedded(item)
			continue
		}
		if len(item.Vector) != len(queryVector) {
			// Stored vector does not match the current model's output.
			// Treat as absent rather than failing the request.
			s.logger.Warn("stored vector dimension mismatch, skipping item",
				"itemID", item.Id, "stored", len(item.Vector), "query", len(queryVector))
			monitor.SkippedUnembedded(item)
			continue
		}

		score := core.RoundScore(CosineSimilarity(queryVector, item.Vector))
		monitor.Scored(item, score)

		results = append(results, &core.SearchResult{
			Item:         item,
			CategoryName: names[item.CategoryId],
			Score:        score,
		})
	}

	// 5. Sort by score descending. Stable sort keeps fetch order (ascending
	// item ID) for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	monitor.Finish(results)

	return &Response{Results: results}, nil
}

func fallbackResponse() *Response {
	return &Response{
		Results:  []*core.SearchResult{},
		Fallback: true,
	}
}

// buildCategoryFilter returns a membership set for the requested category
// names, or nil when no filtering should be applied. An empty list or the
// sentinel "all" means no filter.
func buildCategoryFilter(categories []string) map[string]bool {
	if len(categories) == 0 {
		return nil
	}

	filter := make(map[string]bool, len(categories))
	for _, name := range categories {
		if name == AllCategoriesSentinel {
			return nil
		}
		filter[name] = true
	}
	return filter
}
