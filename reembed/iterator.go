// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"

	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/storage"
)

const (
	// DefaultBatchSize is the default number of verses to fetch in each batch
	DefaultBatchSize = 100
)

// VerseIterator iterates over all verses in batches.
type VerseIterator struct {
	repo      storage.VerseRepository
	batchSize int
}

// NewVerseIterator creates a new verse iterator.
// batchSize: number of verses to fetch in each batch (must be > 0)
func NewVerseIterator(repo storage.VerseRepository, batchSize int) *VerseIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &VerseIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all verses, calling fn for each batch.
// Iteration stops on first error from fn or when all verses are processed.
// Context cancellation is checked between batches.
func (it *VerseIterator) ForEach(ctx context.Context, fn func([]*core.Verse) error) error {
	// Check context before starting
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	verses, err := it.repo.AllVerses(ctx)
	if err != nil {
		return err
	}

	if len(verses) == 0 {
		// No verses to process
		return nil
	}

	// Process verses in batches of batchSize
	for i := 0; i < len(verses); i += it.batchSize {
		end := i + it.batchSize
		if end > len(verses) {
			end = len(verses)
		}

		batch := verses[i:end]

		// Call user function with batch
		if err := fn(batch); err != nil {
			return err
		}

		// Check context after each batch
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
