package search

import "github.com/poiesic/diwan/core"

// Monitor provides hooks to observe the live-search pipeline.
// Implement this interface to track intermediate steps during a query.
type Monitor interface {
	Start(query string)
	AfterTransliteration(mapped string)
	AfterCorrection(norm string, tokens []string)
	AfterCandidateRetrieval(positions []int)
	Finish(results []*core.Verse)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                    {}
func (n *noopMonitor) AfterTransliteration(_ string)     {}
func (n *noopMonitor) AfterCorrection(_ string, _ []string) {}
func (n *noopMonitor) AfterCandidateRetrieval(_ []int)   {}
func (n *noopMonitor) Finish(_ []*core.Verse)            {}
