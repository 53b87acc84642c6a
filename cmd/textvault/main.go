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
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	textvault "github.com/poiesic/textvault"
	"github.com/poiesic/textvault/ai"
	"github.com/poiesic/textvault/chunker"
	"github.com/poiesic/textvault/ingestion"
	"github.com/poiesic/textvault/storage/sqlite"
)

func main() {
	app := &cli.App{
		Name:  "textvault",
		Usage: "Chunked document store with paired vector and relational records",
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
				Name:   "ingest-text",
				Usage:  "Chunk, embed and store raw text from stdin or a positional argument",
				Action: ingestTextCommand,
				Flags: append(vaultFlags(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Document id shared by all chunks of this text",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "metadata",
						Usage: "JSON object of string metadata attached to every chunk",
					},
				),
			},
			{
				Name:      "ingest-file",
				Usage:     "Extract text from a file and ingest it",
				ArgsUsage: "<path>",
				Action:    ingestFileCommand,
				Flags: append(vaultFlags(),
					&cli.StringFlag{
						Name:  "id",
						Usage: "Document id (defaults to the file's base name)",
					},
					&cli.StringFlag{
						Name:  "metadata",
						Usage: "JSON object of string metadata attached to every chunk",
					},
				),
			},
			{
				Name:      "chunks",
				Usage:     "List stored chunk rows for a document id",
				ArgsUsage: "<document-id>",
				Action:    chunksCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the vault data directory",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "content",
						Usage: "Print chunk content bodies, not just the summary line",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// vaultFlags are the flags shared by both ingestion commands.
func vaultFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to the vault data directory",
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
			Name:  "chunk-size",
			Usage: "Maximum chunk size in runes",
			Value: 1000,
		},
		&cli.IntFlag{
			Name:  "overlap",
			Usage: "Overlap between adjacent chunks in runes",
			Value: 200,
		},
		&cli.IntFlag{
			Name:  "pool-size",
			Usage: "Number of chunks processed concurrently",
			Value: 1,
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
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Abort a document that takes longer than this to ingest (0 disables)",
		},
	}
}

// openVault assembles a vault from the shared ingestion flags.
func openVault(c *cli.Context) (*textvault.Vault, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	if c.Int("max-retries") <= 0 {
		return nil, fmt.Errorf("max-retries must be greater than 0")
	}

	splitter := chunker.New(
		chunker.WithMaxChunkSize(c.Int("chunk-size")),
		chunker.WithOverlap(c.Int("overlap")),
	)

	return textvault.Open(c.String("db"),
		textvault.WithAIConfig(aiConfig),
		textvault.WithPipelineOptions(
			ingestion.WithSplitter(splitter),
			ingestion.WithPoolSize(c.Int("pool-size")),
			ingestion.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
			ingestion.WithTimeout(c.Duration("timeout")),
		),
	)
}

func ingestTextCommand(c *cli.Context) error {
	ctx := context.Background()

	text := c.Args().First()
	if text == "" {
		// Fall back to stdin so text can be piped in
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	vault, err := openVault(c)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer vault.Close()

	result, err := vault.IngestText(ctx, &ingestion.TextRequest{
		Text:       text,
		DocumentID: c.String("id"),
		Metadata:   decodeMetadataFlag(c.String("metadata")),
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Document: %s\n", result.DocumentID)
	fmt.Fprintf(os.Stderr, "Chunks stored: %d\n", result.Chunks)
	for _, id := range result.ChunkIDs {
		fmt.Println(id)
	}
	return nil
}

func ingestFileCommand(c *cli.Context) error {
	ctx := context.Background()

	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	vault, err := openVault(c)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}
	defer vault.Close()

	result, err := vault.IngestFile(ctx, &ingestion.FileRequest{
		FileName:     path,
		Data:         data,
		DocumentID:   c.String("id"),
		MetadataJSON: c.String("metadata"),
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Document: %s\n", result.DocumentID)
	fmt.Fprintf(os.Stderr, "Chunks stored: %d\n", result.Chunks)
	for _, id := range result.ChunkIDs {
		fmt.Println(id)
	}
	return nil
}

func chunksCommand(c *cli.Context) error {
	ctx := context.Background()

	documentID := c.Args().First()
	if documentID == "" {
		return fmt.Errorf("document id is required")
	}

	store, err := sqlite.NewStore(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open chunk store: %w", err)
	}
	defer store.Close()

	records, err := store.GetChunksByDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintf(os.Stderr, "No chunks stored for document %s\n", documentID)
		return nil
	}

	for _, record := range records {
		fmt.Printf("%s\tindex=%d/%d\thash=%s\tcreated=%s\n",
			record.ID, record.ChunkIndex, record.TotalChunks,
			record.ContentHash, record.CreatedAt.Format(time.RFC3339))
		if c.Bool("content") {
			fmt.Println(record.Content)
			fmt.Println()
		}
	}
	return nil
}

// decodeMetadataFlag parses the optional --metadata JSON. Malformed
// input degrades to no metadata with a warning.
func decodeMetadataFlag(raw string) map[string]string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		slog.Warn("ignoring malformed metadata JSON", "error", err)
		return nil
	}
	return meta
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
