package search

import (
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/poiesic/diwan/arabic"
	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/index"
	"github.com/poiesic/diwan/translit"
)

const (
	// rawCandidateLimit caps index hits merged across fields before scoring.
	rawCandidateLimit = 100
	// maxResults caps the ranked result list.
	maxResults = 50
)

// Additive score contributions, evaluated cumulatively against the full
// normalized query.
const (
	scoreTitleToken     = 120 // title token list contains the query exactly
	scoreLineToken      = 80  // line token list contains the query exactly
	scoreTitleSubstring = 60  // title text contains the query
	scoreLineSubstring  = 30  // line text contains the query
)

// Engine answers live-search queries against an indexed verse corpus.
// It owns an immutable index snapshot swapped atomically by Rebuild;
// Search is a pure read and safe for concurrent use.
type Engine struct {
	mapper    *translit.Mapper
	corrector *arabic.Corrector
	snapshot  atomic.Pointer[index.Index]
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithMapper sets a custom transliteration mapper.
// Default is the embedded table.
func WithMapper(mapper *translit.Mapper) Option {
	return func(e *Engine) error {
		if mapper == nil {
			mapper = translit.DefaultMapper()
		}
		e.mapper = mapper
		return nil
	}
}

// WithCorrector sets a custom fuzzy corrector.
// Default is the embedded boosted vocabulary.
func WithCorrector(corrector *arabic.Corrector) Option {
	return func(e *Engine) error {
		if corrector == nil {
			corrector = arabic.DefaultCorrector()
		}
		e.corrector = corrector
		return nil
	}
}

// NewEngine creates a live-search engine with no index.
// Call Rebuild before searching; until then every query returns no results.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		mapper:    translit.DefaultMapper(),
		corrector: arabic.DefaultCorrector(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	e.logger = e.logger.With("component", "live-search")
	return e, nil
}

// Rebuild replaces the engine's index with one built wholesale from verses.
// The new snapshot becomes visible atomically; in-flight searches finish
// against the old one.
func (e *Engine) Rebuild(verses []*core.Verse) {
	x := index.Build(verses)
	e.snapshot.Store(x)
	e.logger.Info("index rebuilt", "verses", x.Len())
}

// Search returns up to 50 verses ranked by descending score, ties broken by
// candidate order. A blank query, or searching before any Rebuild, returns
// no results; Search never fails.
func (e *Engine) Search(query string) []*core.Verse {
	return e.SearchWithMonitor(query, nil)
}

// SearchWithMonitor runs Search with callbacks at each pipeline stage.
func (e *Engine) SearchWithMonitor(query string, monitor Monitor) []*core.Verse {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	x := e.snapshot.Load()
	if x == nil || strings.TrimSpace(query) == "" {
		monitor.Finish(nil)
		return nil
	}

	mapped := e.mapper.Map(query)
	monitor.AfterTransliteration(mapped)

	norm := arabic.Normalize(mapped)
	if norm == "" {
		monitor.Finish(nil)
		return nil
	}

	tokens := strings.Fields(norm)
	if e.corrector != nil {
		for i, tok := range tokens {
			tokens[i] = e.corrector.Correct(tok)
		}
		norm = strings.Join(tokens, " ")
	}
	monitor.AfterCorrection(norm, tokens)

	candidates := x.Candidates(tokens, rawCandidateLimit)
	monitor.AfterCandidateRetrieval(candidates)

	scores := make([]int, len(candidates))
	for i, idx := range candidates {
		scores[i] = scoreCandidate(x, idx, norm)
	}

	// Stable sort keeps candidate order for equal scores, which makes
	// ranking deterministic across runs.
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	n := len(order)
	if n > maxResults {
		n = maxResults
	}
	results := make([]*core.Verse, n)
	for i := 0; i < n; i++ {
		results[i] = x.Doc(candidates[order[i]])
	}

	e.logger.Debug("live search", "query", query, "norm", norm,
		"candidates", len(candidates), "results", len(results))
	monitor.Finish(results)
	return results
}

// scoreCandidate applies the additive scoring rules against the full
// normalized query.
func scoreCandidate(x *index.Index, idx int, norm string) int {
	title := x.TitleNorm(idx)
	line := x.LineNorm(idx)

	score := 0
	if tokensInclude(title, norm) {
		score += scoreTitleToken
	}
	if tokensInclude(line, norm) {
		score += scoreLineToken
	}
	if strings.Contains(title, norm) {
		score += scoreTitleSubstring
	}
	if strings.Contains(line, norm) {
		score += scoreLineSubstring
	}
	return score
}

// tokensInclude reports whether text, split on whitespace, contains q as a
// whole token.
func tokensInclude(text, q string) bool {
	for _, tok := range strings.Fields(text) {
		if tok == q {
			return true
		}
	}
	return false
}

// Verses returns the currently indexed row set in insertion order, or nil
// when no index has been built. The returned slice is shared; callers must
// not mutate it.
func (e *Engine) Verses() []*core.Verse {
	x := e.snapshot.Load()
	if x == nil {
		return nil
	}
	return x.Docs()
}

// PoemVerses returns the indexed lines of one poem, in insertion order.
// Poem IDs are compared after trimming, matching the corpus export.
func (e *Engine) PoemVerses(poemID string) []*core.Verse {
	poemID = strings.TrimSpace(poemID)
	if poemID == "" {
		return nil
	}

	var out []*core.Verse
	for _, v := range e.Verses() {
		if strings.TrimSpace(v.PoemID) == poemID {
			out = append(out, v)
		}
	}
	return out
}
