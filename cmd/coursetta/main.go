// Copyright 2026 Coursetta Authors
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

	"github.com/urfave/cli/v2"

	"github.com/coursetta/coursetta"
	"github.com/coursetta/coursetta/ai"
	"github.com/coursetta/coursetta/ai/openai"
	"github.com/coursetta/coursetta/answer"
	"github.com/coursetta/coursetta/api"
	"github.com/coursetta/coursetta/ingestion"
	"github.com/coursetta/coursetta/reindex"
	"github.com/coursetta/coursetta/search"
	"github.com/coursetta/coursetta/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "coursetta",
		Usage: "Virtual teaching assistant for course forums and websites",
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
				Name:   "serve",
				Usage:  "Serve the question answering API",
				Action: serveCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Address to listen on",
						Value: ":8000",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of evidence passages per answer",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "keyword-fallback",
						Usage: "Serve keyword-only results when the embedding service is down",
					},
					&cli.BoolFlag{
						Name:  "diagnostics",
						Usage: "Include the inferred category and degraded flag in responses",
					},
				),
			},
			{
				Name:   "seed",
				Usage:  "Ingest scraped forum and website exports",
				Action: seedCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "forum",
						Usage: "Path to scraped forum topics (JSON array)",
					},
					&cli.StringFlag{
						Name:  "website",
						Usage: "Path to scraped website pages (JSONL)",
					},
					&cli.IntFlag{
						Name:  "max-chunk-size",
						Usage: "Maximum chunk size in characters",
						Value: ingestion.DefaultMaxChunkSize,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlap between consecutive chunks in characters",
						Value: ingestion.DefaultChunkOverlap,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed per batch",
						Value: ingestion.DefaultBatchSize,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Run a hybrid retrieval query against the index",
				ArgsUsage: "<question>",
				Action:    searchCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of results to return",
						Value: 5,
					},
				),
			},
			{
				Name:   "stats",
				Usage:  "Show corpus composition",
				Action: statsCommand,
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
				Name:   "reindex",
				Usage:  "Re-embed the corpus into a fresh database",
				Action: reindexCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the source BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "dest",
						Usage:    "Path to the destination BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
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
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiFlags returns the flags shared by every command that talks to the
// AI services.
func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:    "ai-token",
			Usage:   "API token for the AI service",
			Value:   "none",
			EnvVars: []string{"COURSETTA_AI_TOKEN"},
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "thenlper/gte-small",
		},
		&cli.IntFlag{
			Name:  "embedding-dims",
			Usage: "Embedding vector dimensionality",
			Value: 384,
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model used for answer generation",
			Value: "gpt-4o-mini",
		},
		&cli.StringFlag{
			Name:  "vision-model",
			Usage: "Chat model used when a question includes an image",
			Value: "gpt-4o",
		},
	}
}

// aiConfigFromFlags builds and validates the AI configuration.
func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	config := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithToken(c.String("ai-token")),
		ai.WithEmbeddingModel(c.String("embedding-model"), c.Int("embedding-dims")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithVisionModel(c.String("vision-model")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

func openKnowledgeBase(c *cli.Context) (*coursetta.KnowledgeBase, error) {
	config, err := aiConfigFromFlags(c)
	if err != nil {
		return nil, err
	}
	kb, err := coursetta.OpenKnowledgeBase(c.String("db"), coursetta.WithAIConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	return kb, nil
}

func serveCommand(c *cli.Context) error {
	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	ctx := context.Background()
	if err := kb.VerifyEmbedder(ctx); err != nil {
		return fmt.Errorf("embedder verification failed: %w", err)
	}

	retrieverOpts := []search.Option{
		search.WithKeywordFallback(c.Bool("keyword-fallback")),
	}
	assembler, err := kb.NewAssembler(retrieverOpts, answer.WithTopK(c.Int("top-k")))
	if err != nil {
		return fmt.Errorf("failed to create assembler: %w", err)
	}

	server, err := api.NewServer(assembler, kb.DocumentRepository(),
		api.WithDiagnostics(c.Bool("diagnostics")))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return server.Run(c.String("addr"))
}

func seedCommand(c *cli.Context) error {
	forumPath := c.String("forum")
	websitePath := c.String("website")
	if forumPath == "" && websitePath == "" {
		return fmt.Errorf("at least one of --forum or --website is required")
	}

	var pages []ingestion.SourcePage
	if forumPath != "" {
		topics, err := ingestion.LoadForumTopics(forumPath)
		if err != nil {
			return fmt.Errorf("failed to load forum export: %w", err)
		}
		pages = append(pages, ingestion.FlattenTopics(topics)...)
		fmt.Fprintf(os.Stderr, "Loaded %d forum topics from %s\n", len(topics), forumPath)
	}
	if websitePath != "" {
		entries, err := ingestion.LoadWebsitePages(websitePath)
		if err != nil {
			return fmt.Errorf("failed to load website export: %w", err)
		}
		pages = append(pages, ingestion.FlattenWebsite(entries)...)
		fmt.Fprintf(os.Stderr, "Loaded %d website pages from %s\n", len(entries), websitePath)
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	ctx := context.Background()
	if err := kb.VerifyEmbedder(ctx); err != nil {
		return fmt.Errorf("embedder verification failed: %w", err)
	}

	pipeline, err := kb.NewIngestionPipeline(
		ingestion.WithChunkConfig(c.Int("max-chunk-size"), c.Int("chunk-overlap")),
		ingestion.WithBatchSize(c.Int("batch-size")),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	start := time.Now()
	stored, err := pipeline.IngestPages(ctx, pages)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d new document chunks from %d pages in %v\n",
		stored, len(pages), time.Since(start).Round(time.Millisecond))
	return nil
}

func searchCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	kb, err := openKnowledgeBase(c)
	if err != nil {
		return err
	}
	defer kb.Close()

	retriever, err := kb.NewRetriever()
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	ranking, err := retriever.Retrieve(context.Background(), question, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	fmt.Printf("Category: %s\n", ranking.Category)
	if ranking.Degraded {
		fmt.Println("(keyword-only: embedding service unavailable)")
	}
	if len(ranking.Results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, result := range ranking.Results {
		doc := result.Document
		fmt.Printf("%d. [%.3f] %s (%s, %s)\n", i+1, result.FusedScore, doc.URL, doc.Category, doc.Source)
		text := doc.Text
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		fmt.Printf("   %s\n", text)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	stats, err := repo.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Printf("Documents: %d\n", stats.Documents)
	fmt.Println("By category:")
	for category, count := range stats.ByCategory {
		fmt.Printf("  %-12s %d\n", category.String(), count)
	}
	fmt.Println("By source:")
	for source, count := range stats.BySource {
		fmt.Printf("  %-12s %d\n", source.String(), count)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	config, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	sourceBackend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer sourceBackend.Close()

	source, err := badger.NewDocumentRepository(sourceBackend)
	if err != nil {
		return fmt.Errorf("failed to create source repository: %w", err)
	}
	defer source.Close()

	destBackend, err := badger.OpenBackend(c.String("dest"), false)
	if err != nil {
		return fmt.Errorf("failed to open destination database: %w", err)
	}
	defer destBackend.Close()

	destination, err := badger.NewDocumentRepository(destBackend)
	if err != nil {
		return fmt.Errorf("failed to create destination repository: %w", err)
	}
	defer destination.Close()

	embedder, err := openai.NewEmbedder(config)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reindexConfig := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if reindexConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reindexConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reindexConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer, err := reindex.NewReindexer(source, destination, embedder, reindexConfig, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reindexer: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Source: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Destination: %s\n", c.String("dest"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reindexer.Run(context.Background()); err != nil {
		return fmt.Errorf("re-indexing failed: %w", err)
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
