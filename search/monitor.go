package search

import (
	"github.com/proposive/rfpbase/core"
	"github.com/proposive/rfpbase/storage"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string, category core.Category)
	AfterCandidateRetrieval(candidates []storage.Candidate)
	AfterScoring(results []core.RankedResult)
	AfterEnrichment(results []core.RankedResult)
	Finish(response *core.SearchResponse)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ core.Category)                {}
func (n *noopMonitor) AfterCandidateRetrieval(_ []storage.Candidate)  {}
func (n *noopMonitor) AfterScoring(_ []core.RankedResult)             {}
func (n *noopMonitor) AfterEnrichment(_ []core.RankedResult)          {}
func (n *noopMonitor) Finish(_ *core.SearchResponse)                  {}
