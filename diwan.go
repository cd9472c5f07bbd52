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


package diwan

import (
	"context"
	"log/slog"

	"github.com/poiesic/diwan/ai"
	"github.com/poiesic/diwan/ai/openai"
	"github.com/poiesic/diwan/hybrid"
	"github.com/poiesic/diwan/ingest"
	"github.com/poiesic/diwan/search"
	"github.com/poiesic/diwan/storage"
	"github.com/poiesic/diwan/storage/badger"
)

// Library bundles the verse store, the live search engine and the AI
// provider behind a single handle.
type Library struct {
	backend        *badger.Backend
	verseRepo      storage.VerseRepository
	checkpointRepo storage.CheckpointRepository
	provider       ai.AIProvider
	engine         *search.Engine
	logger         *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig overrides the default embedding provider configuration.
func WithAIConfig(config *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.aiConfig = config
	}
}

func NewLibrary(filePath string, opts ...LibraryOption) (*Library, error) {
	// Apply options
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create verse repository
	verseRepo, err := badger.NewVerseRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create checkpoint repository
	checkpointRepo := badger.NewCheckpointRepository(backend)

	// Create AI provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		verseRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create the live search engine. The index starts empty; call
	// RebuildIndex after opening to load the corpus.
	engine, err := search.NewEngine()
	if err != nil {
		provider.Close()
		verseRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Library{
		backend:        backend,
		verseRepo:      verseRepo,
		checkpointRepo: checkpointRepo,
		provider:       provider,
		engine:         engine,
		logger:         slog.Default(),
	}, nil
}

func (l *Library) Close() error {
	// Close AI provider first
	if err := l.provider.Close(); err != nil {
		l.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := l.verseRepo.Close(); err != nil {
		l.logger.Error("error closing verse repository", "err", err)
		return err
	}

	// Close backend
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (l *Library) VerseRepository() storage.VerseRepository {
	return l.verseRepo
}

func (l *Library) CheckpointRepository() storage.CheckpointRepository {
	return l.checkpointRepo
}

// Engine returns the live search engine.
func (l *Library) Engine() *search.Engine {
	return l.engine
}

// RebuildIndex loads the full corpus from storage and swaps in a fresh
// search index built from it.
func (l *Library) RebuildIndex(ctx context.Context) error {
	verses, err := l.verseRepo.AllVerses(ctx)
	if err != nil {
		return err
	}
	l.engine.Rebuild(verses)
	return nil
}

func (l *Library) NewIngestPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	opts = append([]ingest.Option{ingest.WithCheckpoints(l.checkpointRepo)}, opts...)
	return ingest.NewPipeline(l.verseRepo, l.provider, opts...)
}

func (l *Library) NewSearcher(opts ...hybrid.Option) (*hybrid.Searcher, error) {
	return hybrid.NewSearcher(l.verseRepo, l.engine, l.provider, opts...)
}
