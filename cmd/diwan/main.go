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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/diwan"
	"github.com/poiesic/diwan/ai"
	"github.com/poiesic/diwan/ai/openai"
	"github.com/poiesic/diwan/arabic"
	"github.com/poiesic/diwan/core"
	"github.com/poiesic/diwan/ingest"
	"github.com/poiesic/diwan/reembed"
	"github.com/poiesic/diwan/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "diwan",
		Usage: "Live search over a corpus of Arabic poetry",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import verses from a corpus CSV file",
				ArgsUsage: "<corpus.csv>",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.BoolFlag{
						Name:  "no-embed",
						Usage: "Skip embedding generation during import",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of verses to ingest in each batch",
						Value: 100,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Keyword search over the corpus",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:      "hybrid",
				Usage:     "Combined semantic and keyword search over the corpus",
				ArgsUsage: "<query>",
				Action:    hybridCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.IntFlag{
						Name:  "max-hits",
						Usage: "Maximum number of results to return",
						Value: 10,
					},
				},
			},
			{
				Name:      "poem",
				Usage:     "Print all verses of a poem in row order",
				ArgsUsage: "<poem-id>",
				Action:    poemCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all verses with new embeddings",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of verses to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N verses",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openLibrary(c *cli.Context) (*diwan.Library, error) {
	// Commands without embedding flags keep the defaults
	var configOpts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		configOpts = append(configOpts, ai.WithEmbeddingHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}

	aiConfig := ai.NewConfig(configOpts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	lib, err := diwan.NewLibrary(c.String("db"), diwan.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	return lib, nil
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	csvPath := c.Args().First()
	if csvPath == "" {
		return fmt.Errorf("corpus CSV path is required")
	}

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	loader := ingest.NewLoader(slog.Default())
	verses, err := loader.Load(f)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	pipeline, err := lib.NewIngestPipeline(ingest.WithEmbedding(!c.Bool("no-embed")))
	if err != nil {
		return fmt.Errorf("failed to create ingest pipeline: %w", err)
	}
	defer pipeline.Release()

	fmt.Fprintf(os.Stderr, "Importing %d verses from %s\n", len(verses), csvPath)

	for i := 0; i < len(verses); i += batchSize {
		end := i + batchSize
		if end > len(verses) {
			end = len(verses)
		}
		if err := pipeline.Ingest(ctx, verses[i:end]...); err != nil {
			return fmt.Errorf("failed to ingest batch: %w", err)
		}
	}

	// Wait for async embedding work to drain
	pipeline.Wait()

	fmt.Fprintf(os.Stderr, "Imported %d verses\n", len(verses))
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is required")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	if err := lib.RebuildIndex(ctx); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	hits := lib.Engine().Search(query)
	fmt.Printf("Found %d hits\n", len(hits))
	for i, verse := range hits {
		fmt.Printf("%d: %s (%s:%s)\n", i, renderLine(verse.LineRaw, query), verse.PoemID, verse.RowID)
		if chips := metaChips(verse); chips != "" {
			fmt.Printf("   [%s]\n", chips)
		}
	}
	return nil
}

// renderLine highlights query matches and lays the hemistichs out on a
// single line.
func renderLine(line, query string) string {
	line = arabic.Highlight(line, query)
	if right, left, ok := arabic.SplitHemistichs(line); ok {
		return right + " * " + left
	}
	return line
}

// metaChips renders the thematic metadata of a verse as a comma-separated
// list of labels.
func metaChips(verse *core.Verse) string {
	var chips []string
	for _, key := range []string{core.MetaBahr, core.MetaQafiya, core.MetaSentiments, core.MetaAmakin, core.MetaAhdath, core.MetaMawadi3} {
		chips = append(chips, core.DecodeMetaList(verse.Meta[key])...)
	}
	return strings.Join(chips, ", ")
}

func hybridCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is required")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	if err := lib.RebuildIndex(ctx); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	searcher, err := lib.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.FindSimilar(ctx, query, c.Int("max-hits"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: %s (%s:%s)[%0.3f]\n", i, renderLine(hit.Verse.LineRaw, query), hit.Verse.PoemID, hit.Verse.RowID, hit.Score)
		if chips := metaChips(hit.Verse); chips != "" {
			fmt.Printf("   [%s]\n", chips)
		}
	}
	return nil
}

func poemCommand(c *cli.Context) error {
	ctx := context.Background()

	poemID := c.Args().First()
	if poemID == "" {
		return fmt.Errorf("poem-id is required")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	verses, err := lib.VerseRepository().GetPoemVerses(ctx, poemID)
	if err != nil {
		return fmt.Errorf("failed to load poem: %w", err)
	}
	if len(verses) == 0 {
		return fmt.Errorf("no verses found for poem %s", poemID)
	}

	if verses[0].TitleRaw != "" {
		fmt.Println(verses[0].TitleRaw)
		fmt.Println()
	}
	for _, verse := range verses {
		fmt.Println(renderLine(verse.LineRaw, ""))
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	// Validate flags
	dbPath := c.String("db")
	if dbPath == "" {
		return fmt.Errorf("database path is required")
	}

	// Open database
	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewVerseRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	// Create AI config
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)

	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	// Create embedder
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	// Create reembedding config
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	// Validate config
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	// Create reembedder
	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)

	// Run reembedding
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
