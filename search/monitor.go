package search

import "github.com/coursetta/coursetta/core"

// RetrieveMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results during retrieval.
type RetrieveMonitor interface {
	Start(question string, category core.Category)
	AfterSemanticSearch(candidates []*core.ScoredResult)
	AfterKeywordSearch(candidates []*core.ScoredResult)
	Fused(result *core.ScoredResult)
	Boosted(result *core.ScoredResult)
	Degraded(reason error)
	Finish(results []*core.ScoredResult)
}

// noopMonitor is a no-op implementation of RetrieveMonitor
type noopMonitor struct{}

var _ RetrieveMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ core.Category)          {}
func (n *noopMonitor) AfterSemanticSearch(_ []*core.ScoredResult) {}
func (n *noopMonitor) AfterKeywordSearch(_ []*core.ScoredResult)  {}
func (n *noopMonitor) Fused(_ *core.ScoredResult)                 {}
func (n *noopMonitor) Boosted(_ *core.ScoredResult)               {}
func (n *noopMonitor) Degraded(_ error)                           {}
func (n *noopMonitor) Finish(_ []*core.ScoredResult)              {}
