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
	"path/filepath"
	"strings"

	"github.com/poiesic/ragline"
	"github.com/poiesic/ragline/ai"
	"github.com/poiesic/ragline/ai/mock"
	"github.com/poiesic/ragline/ai/openai"
	"github.com/poiesic/ragline/chunking"
	"github.com/poiesic/ragline/core"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ragline",
		Usage: "Multi-strategy chunking and RAG pipeline toolkit",
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
				Name:   "check",
				Usage:  "Validate chunking/embedding compatibility and print a report",
				Action: checkCommand,
				Flags:  append(chunkingFlags(), embeddingFlags()...),
			},
			{
				Name:      "chunk",
				Usage:     "Preview how a file would be chunked with a chosen strategy",
				ArgsUsage: "<file>",
				Action:    chunkCommand,
				Flags: append(
					chunkingFlags(),
					&cli.BoolFlag{
						Name:  "metadata",
						Usage: "Print chunk metadata alongside content",
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ingest files and stream one answer to a question",
				ArgsUsage: "<file> [<file>...]",
				Action:    askCommand,
				Flags: append(append(chunkingFlags(), embeddingFlags()...),
					&cli.StringFlag{
						Name:     "question",
						Aliases:  []string{"q"},
						Usage:    "Question to answer from the ingested files",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "OpenAI-compatible service host URL (omit to use the built-in mock provider)",
					},
					&cli.StringFlag{
						Name:  "generation-model",
						Usage: "Generation model name",
						Value: "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "Provider API key",
						EnvVars: []string{"RAGLINE_API_KEY"},
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of context chunks to retrieve",
						Value: core.DefaultTopK,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func chunkingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "strategy",
			Aliases: []string{"s"},
			Usage:   "Chunking strategy (fixed, recursive, document, semantic, agentic)",
			Value:   string(core.StrategyRecursive),
		},
		&cli.IntFlag{
			Name:  "chunk-size",
			Usage: "Chunk size in characters",
			Value: 1000,
		},
		&cli.IntFlag{
			Name:  "chunk-overlap",
			Usage: "Chunk overlap in characters",
			Value: 200,
		},
		&cli.Float64Flag{
			Name:  "semantic-threshold",
			Usage: "Semantic boundary threshold in [0.1, 1.0]",
			Value: 0.5,
		},
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.IntFlag{
			Name:  "dimensions",
			Usage: "Embedding vector dimensions",
			Value: 768,
		},
		&cli.IntFlag{
			Name:  "max-tokens",
			Usage: "Embedding model token limit",
			Value: 512,
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Embedding batch size",
			Value: 32,
		},
	}
}

func chunkingConfigFromFlags(c *cli.Context) core.ChunkingConfig {
	return core.ChunkingConfig{
		Strategy:          core.Strategy(c.String("strategy")),
		ChunkSize:         c.Int("chunk-size"),
		ChunkOverlap:      c.Int("chunk-overlap"),
		SemanticThreshold: c.Float64("semantic-threshold"),
	}
}

func embeddingConfigFromFlags(c *cli.Context) core.EmbeddingConfig {
	return core.EmbeddingConfig{
		Provider:   "openai",
		Model:      c.String("embedding-model"),
		Dimensions: c.Int("dimensions"),
		MaxTokens:  c.Int("max-tokens"),
		BatchSize:  c.Int("batch-size"),
	}
}

func checkCommand(c *cli.Context) error {
	chunkCfg := chunkingConfigFromFlags(c)
	embedCfg := embeddingConfigFromFlags(c)

	if err := core.ValidateChunkingConfig(&chunkCfg); err != nil {
		return err
	}
	if err := core.ValidateEmbeddingConfig(&embedCfg); err != nil {
		return err
	}

	result := core.ValidateCompatibility(chunkCfg, embedCfg)

	fmt.Printf("Strategy:  %s (size=%d overlap=%d)\n", chunkCfg.Strategy, chunkCfg.ChunkSize, chunkCfg.ChunkOverlap)
	fmt.Printf("Embedding: %s (dims=%d maxTokens=%d)\n\n", embedCfg.Model, embedCfg.Dimensions, embedCfg.MaxTokens)

	if result.IsCompatible {
		fmt.Println("Compatible: yes")
	} else {
		fmt.Println("Compatible: NO")
	}
	printSection("Errors", result.Errors)
	printSection("Warnings", result.Warnings)
	printSection("Recommendations", result.Recommendations)

	if !result.IsCompatible {
		return cli.Exit("", 1)
	}
	return nil
}

func printSection(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

func chunkCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}

	doc, err := loadDocument(c.Args().First())
	if err != nil {
		return err
	}

	chunker, err := chunking.New(chunkingConfigFromFlags(c))
	if err != nil {
		return err
	}

	chunks, err := chunker.Chunk(doc)
	if err != nil {
		return err
	}

	fmt.Printf("%d chunks from %s (%d characters)\n\n", len(chunks), doc.Name, len(doc.Content))
	for _, chunk := range chunks {
		fmt.Printf("--- chunk %d", chunk.Metadata.ChunkIndex)
		if c.Bool("metadata") {
			fmt.Printf(" [offset=%d..%d tokens=%d", chunk.Metadata.StartOffset, chunk.Metadata.EndOffset, chunk.Metadata.TokenEstimate)
			if chunk.Metadata.BoundaryReason != "" {
				fmt.Printf(" boundary=%s", chunk.Metadata.BoundaryReason)
			}
			fmt.Print("]")
		}
		fmt.Printf(" ---\n%s\n\n", chunk.Content)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("at least one file argument is required")
	}

	docs := make([]*core.Document, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		doc, err := loadDocument(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	provider, err := buildProvider(c)
	if err != nil {
		return err
	}

	service, err := ragline.NewService(provider)
	if err != nil {
		return err
	}
	defer service.Close()

	cfg := core.PipelineConfig{
		Chunking:  chunkingConfigFromFlags(c),
		Embedding: embeddingConfigFromFlags(c),
		Retrieval: core.RetrievalConfig{TopK: c.Int("top-k")},
		Generation: core.GenerationConfig{
			Model:        c.String("generation-model"),
			SystemPrompt: "You are a helpful assistant. Answer from the provided context only.",
		},
	}

	pipelineID, err := service.CreatePipeline(cfg)
	if err != nil {
		return err
	}

	if err := service.Ingest(ctx, pipelineID, docs); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	status, err := service.Status(pipelineID)
	if err != nil {
		return err
	}
	for _, warning := range status.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	stream, err := service.Query(ctx, pipelineID, c.String("question"))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer stream.Close()

	for fragment := range stream.Fragments() {
		fmt.Print(fragment)
	}
	fmt.Println()
	return nil
}

// buildProvider returns the mock provider unless a real host is configured.
func buildProvider(c *cli.Context) (ai.Provider, error) {
	host := c.String("host")
	if host == "" {
		return mock.NewProvider(), nil
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(host),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGenerationModel(c.String("generation-model")),
		ai.WithAPIKey(c.String("api-key")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return openai.NewProvider(aiConfig)
}

func loadDocument(path string) (*core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	name := filepath.Base(path)
	return &core.Document{
		ID:      name,
		Name:    name,
		Content: string(data),
	}, nil
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
