package search

import "github.com/embershare/seek/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string, categories []string)
	Fallback(reason string)
	AfterQueryEmbedding(dimensions int)
	AfterCandidateLoad(items []*core.Item)
	AfterCategoryFilter(items []*core.Item)
	Scored(item *core.Item, score float32)
	SkippedUnembedded(item *core.Item)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ []string)          {}
func (n *noopMonitor) Fallback(_ string)                   {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)           {}
func (n *noopMonitor) AfterCandidateLoad(_ []*core.Item)   {}
func (n *noopMonitor) AfterCategoryFilter(_ []*core.Item)  {}
func (n *noopMonitor) Scored(_ *core.Item, _ float32)      {}
func (n *noopMonitor) SkippedUnembedded(_ *core.Item)      {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)       {}
