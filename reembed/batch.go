package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/diwan/ai"
	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/storage"
)

// BatchProcessor handles embedding generation for batches of verses.
type BatchProcessor struct {
	repo           storage.VerseRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.VerseRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of verses and updates them in the database.
// The cleaned line text is embedded when present, falling back to the raw line.
// Vectors are normalized after embedding to ensure compatibility with cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, verses []*core.Verse) error {
	if len(verses) == 0 {
		return nil
	}

	// Extract text content
	texts := make([]string, len(verses))
	for i, verse := range verses {
		texts[i] = embeddingText(verse)
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(verses) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(verses), len(embeddings))
	}

	// Normalize vectors and assign to verses
	for i := range verses {
		verses[i].Vector = NormalizeVector(embeddings[i])
	}

	// Update verses in database
	_, err = bp.repo.UpdateVerses(ctx, verses...)
	if err != nil {
		return fmt.Errorf("failed to update verses: %w", err)
	}

	return nil
}

func embeddingText(verse *core.Verse) string {
	if verse.LineClean != "" {
		return verse.LineClean
	}
	return verse.LineRaw
}
