package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/diwan/ai"
	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/storage"
)

// Pipeline orchestrates the ingestion and processing of verses.
// It manages concurrent embedding generation for newly added verses.
type Pipeline struct {
	verseRepository storage.VerseRepository
	checkpoints     storage.CheckpointRepository
	embeddingPool   *ants.Pool
	embeddingProc   processor
	embed           bool
	inflight        sync.WaitGroup
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		embeddingPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.embeddingPool = embeddingPool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithCheckpoints enables persistent progress tracking for the embedding
// processor. Without it, progress is kept in memory only.
func WithCheckpoints(checkpoints storage.CheckpointRepository) Option {
	return func(p *Pipeline) error {
		p.checkpoints = checkpoints
		return nil
	}
}

// WithEmbedding toggles asynchronous embedding generation.
// Default is true; disable it when importing a corpus without an
// embedding service available.
func WithEmbedding(enabled bool) Option {
	return func(p *Pipeline) error {
		p.embed = enabled
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	verseRepository storage.VerseRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if verseRepository == nil {
		return nil, ErrVerseRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	// Create pipeline with defaults
	p := &Pipeline{
		verseRepository: verseRepository,
		embeddingPool:   embeddingPool,
		embed:           true,
		logger:          slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Create processor after options are applied (so it gets final config)
	embeddingProc, err := newEmbeddingProcessor(verseRepository, p.checkpoints, provider.Embedder(), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}

	p.embeddingProc = embeddingProc

	return p, nil
}

// Ingest validates and adds verses to storage, then generates embeddings
// asynchronously. Errors during async processing are logged but do not
// fail the ingestion.
func (p *Pipeline) Ingest(ctx context.Context, verses ...*core.Verse) error {
	for _, verse := range verses {
		if err := core.ValidateVerse(verse); err != nil {
			return err
		}
	}

	// Add to storage
	added, err := p.verseRepository.AddVerses(ctx, verses...)
	if err != nil {
		return err
	}

	if len(added) == 0 || !p.embed {
		return nil
	}

	// Extract IDs
	ids := make([]core.ID, len(added))
	for i, verse := range added {
		ids[i] = verse.Id
	}

	// Submit for async processing
	p.inflight.Add(1)
	err = p.embeddingPool.Submit(func() {
		defer p.inflight.Done()
		if err := p.embeddingProc.process(context.Background(), ids...); err != nil {
			p.logger.Error("error processing embeddings", "err", err)
			return
		}
		if err := p.embeddingProc.checkpoint(); err != nil {
			p.logger.Error("error applying embedding checkpoint", "err", err)
		}
	})
	if err != nil {
		p.inflight.Done()
		return err
	}

	return nil
}

// Wait blocks until all submitted enrichment tasks have finished.
func (p *Pipeline) Wait() {
	p.inflight.Wait()
}

// Release releases resources including worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
