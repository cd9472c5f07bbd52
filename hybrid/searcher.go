package hybrid

import (
	"context"
	"log/slog"
	"maps"
	"sort"

	"github.com/poiesic/diwan/ai"
	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/search"
	"github.com/poiesic/diwan/storage"
)

// minSimilarity is the cosine similarity floor for semantic matches.
const minSimilarity = 0.60

// Searcher provides hybrid semantic and keyword search over verses.
type Searcher struct {
	verseRepository storage.VerseRepository
	engine          *search.Engine
	embedder        ai.Embedder
	logger          *slog.Logger
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

// NewSearcher creates a new searcher. The engine supplies the keyword tier
// and must be rebuilt by the caller before searches return keyword hits.
func NewSearcher(
	verseRepository storage.VerseRepository,
	engine *search.Engine,
	provider ai.AIProvider,
	opts ...Option,
) (*Searcher, error) {
	if verseRepository == nil {
		return nil, ErrVerseRepositoryRequired
	}
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		verseRepository: verseRepository,
		engine:          engine,
		embedder:        provider.Embedder(),
		logger:          slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar searches for verses similar to the query.
// Returns up to maxHits results, ranked by relevance score.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*core.SearchResult, error) {
	return s.FindSimilarWithMonitor(ctx, query, maxHits, nil)
}

// FindSimilarWithMonitor searches for verses similar to the query with monitoring.
// The monitor receives callbacks at each stage of the search process.
// Returns up to maxHits results, ranked by relevance score.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	// 1. Perform semantic search
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	matches, err := s.verseRepository.FindSimilar(ctx, embedding, minSimilarity, maxHits)
	if err != nil {
		s.logger.Error("error querying for similar verses", "err", err)
		return nil, err
	}

	// Track semantic results
	semanticSet := make(map[uint64]bool)
	semanticScores := make(map[uint64]float32)
	semanticIds := make([]uint64, 0, len(matches))
	semanticVerses := make(map[uint64]*core.Verse, len(matches))
	for _, match := range matches {
		semanticSet[uint64(match.Verse.Id)] = true
		semanticScores[uint64(match.Verse.Id)] = match.Score
		semanticIds = append(semanticIds, uint64(match.Verse.Id))
		semanticVerses[uint64(match.Verse.Id)] = match.Verse
	}
	monitor.AfterSemanticSearch(semanticIds)

	// 2. Find verses via the keyword tier
	keywordSet := make(map[uint64]bool)
	keywordVerses := make(map[uint64]*core.Verse)
	for _, verse := range s.engine.Search(query) {
		keywordSet[uint64(verse.Id)] = true
		keywordVerses[uint64(verse.Id)] = verse
	}
	monitor.AfterKeywordSearch(maps.Keys(keywordSet))

	// 3. Combine result sets
	allIds := make(map[uint64]bool)
	for id := range semanticSet {
		allIds[id] = true
	}
	for id := range keywordSet {
		allIds[id] = true
	}

	if len(allIds) == 0 {
		return []*core.SearchResult{}, nil
	}

	// The engine hands back verses it already holds in memory; only
	// semantic-only hits came from storage, and those carry full verses too.
	verses := make([]*core.Verse, 0, len(allIds))
	for id := range allIds {
		if verse, ok := keywordVerses[id]; ok {
			verses = append(verses, verse)
			continue
		}
		verses = append(verses, semanticVerses[id])
	}
	monitor.AfterVerseRetrieval(verses)

	// 4. Score and build results
	results := make([]*core.SearchResult, 0, len(verses))

	for _, verse := range verses {
		if verse == nil {
			continue
		}

		inSemantic := semanticSet[uint64(verse.Id)]
		inKeyword := keywordSet[uint64(verse.Id)]

		var score float32
		if inSemantic && inKeyword {
			// In both: boost by 1.5x, weighted by similarity score
			similarityScore := semanticScores[uint64(verse.Id)]
			score = 1.5 * similarityScore
			monitor.SemanticAndKeywordHit(verse)
		} else if inKeyword {
			// Keyword only: 1.2
			score = 1.2
			monitor.KeywordHit(verse)
		} else {
			// Semantic only: 1.0, weighted by similarity score
			similarityScore := semanticScores[uint64(verse.Id)]
			score = 1.0 * similarityScore
			monitor.SemanticHit(verse)
		}

		// Apply verbatim match boost
		if containsAllQueryWords(verse.LineRaw, query) {
			score += 0.3
		}

		results = append(results, &core.SearchResult{
			Verse: verse,
			Score: score,
		})
	}

	// Sort by score descending
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxHits {
		results = results[:maxHits]
	}
	monitor.Finish(results)

	return results, nil
}
