package hybrid

import (
	"iter"

	"github.com/poiesic/diwan/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterSemanticSearch(ids []uint64)
	AfterKeywordSearch(iter.Seq[uint64])
	AfterVerseRetrieval(verses []*core.Verse)
	SemanticAndKeywordHit(verse *core.Verse)
	SemanticHit(verse *core.Verse)
	KeywordHit(verse *core.Verse)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterSemanticSearch(_ []uint64)          {}
func (n *noopMonitor) AfterKeywordSearch(_ iter.Seq[uint64])   {}
func (n *noopMonitor) AfterVerseRetrieval(_ []*core.Verse)     {}
func (n *noopMonitor) SemanticAndKeywordHit(_ *core.Verse)     {}
func (n *noopMonitor) SemanticHit(_ *core.Verse)               {}
func (n *noopMonitor) KeywordHit(_ *core.Verse)                {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)           {}
