package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/poiesic/diwan/ai"
	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/storage"
)

// embeddingProcessorType identifies embedding checkpoints in storage.
const embeddingProcessorType = "embeddings"

// embeddingProcessor generates embeddings for verse lines.
type embeddingProcessor struct {
	verseRepository storage.VerseRepository
	checkpoints     storage.CheckpointRepository // optional
	embedder        ai.Embedder
	logger          *slog.Logger

	// lastID is read and written from pool workers
	mu     sync.Mutex
	lastID core.ID
}

var _ processor = (*embeddingProcessor)(nil)

// newEmbeddingProcessor creates a new embedding processor.
// The checkpoint repository may be nil, in which case progress is not persisted.
func newEmbeddingProcessor(verseRepository storage.VerseRepository, checkpoints storage.CheckpointRepository, embedder ai.Embedder, logger *slog.Logger) (processor, error) {
	if verseRepository == nil {
		return nil, ErrVerseRepositoryRequired
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		verseRepository: verseRepository,
		checkpoints:     checkpoints,
		embedder:        embedder,
		logger:          logger.With("processor", "embeddings"),
	}, nil
}

// process generates embeddings for the specified verses.
func (ep *embeddingProcessor) process(ctx context.Context, ids ...core.ID) error {
	ep.logger.Info("processing verses for embeddings", "verses", len(ids))

	// Sort first so checkpointing works correctly
	slices.Sort(ids)

	verses, err := ep.verseRepository.GetVerses(ctx, ids...)
	if err != nil {
		ep.logger.Error("error retrieving verses", "err", err)
		return err
	}
	if len(verses) == 0 {
		return nil
	}

	texts := make([]string, len(verses))
	for i, verse := range verses {
		texts[i] = embeddingText(verse)
	}

	ep.logger.Debug("generating embeddings for verses", "verses", len(texts))
	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}

	if len(embeddings) != len(verses) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(verses), len(embeddings))
	}

	for i := range embeddings {
		verses[i].Vector = embeddings[i]
	}

	updated, err := ep.verseRepository.UpdateVerses(ctx, verses...)
	if err != nil {
		return err
	}

	highestID := updated[len(updated)-1].Id
	ep.mu.Lock()
	if highestID > ep.lastID {
		ep.lastID = highestID
	}
	ep.mu.Unlock()

	return nil
}

// checkpoint persists the processor's progress when a checkpoint
// repository is configured.
func (ep *embeddingProcessor) checkpoint() error {
	if ep.checkpoints == nil {
		return nil
	}
	ep.mu.Lock()
	lastID := ep.lastID
	ep.mu.Unlock()
	return ep.checkpoints.SaveCheckpoint(context.Background(), &core.Checkpoint{
		ProcessorType:   embeddingProcessorType,
		LastProcessedId: lastID,
	})
}

// embeddingText picks the text to embed for a verse, preferring the
// pre-cleaned line when the corpus supplies one.
func embeddingText(verse *core.Verse) string {
	if verse.LineClean != "" {
		return verse.LineClean
	}
	return verse.LineRaw
}
