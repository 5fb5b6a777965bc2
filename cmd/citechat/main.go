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
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/citechat"
	"github.com/poiesic/citechat/ai"
	"github.com/poiesic/citechat/ai/openai"
	"github.com/poiesic/citechat/engine"
	"github.com/poiesic/citechat/ingest"
	"github.com/poiesic/citechat/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "citechat",
		Usage: "Retrieval-grounded chat with Cohere citations",
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
				Name:   "chat",
				Usage:  "Chat over the ingested documents",
				Action: chatCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "Cohere API key",
						EnvVars: []string{"COHERE_API_KEY"},
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Cohere chat model name",
						Value: "command-r",
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
					&cli.StringFlag{
						Name:    "conversation",
						Aliases: []string{"c"},
						Usage:   "Conversation ID to resume (new conversation if omitted)",
					},
					&cli.BoolFlag{
						Name:  "stream",
						Usage: "Stream replies token by token",
					},
					&cli.BoolFlag{
						Name:  "fold-citations",
						Usage: "Fold citations into the source output instead of printing them",
					},
				},
			},
			{
				Name:      "ingest",
				Usage:     "Load documents into the node store",
				Action:    ingestCommand,
				ArgsUsage: "FILE [FILE...]",
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
					&cli.BoolFlag{
						Name:  "per-line",
						Usage: "Treat each non-empty line as its own document",
					},
				},
			},
			{
				Name:   "reset",
				Usage:  "Delete a conversation's history",
				Action: resetCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "conversation",
						Aliases:  []string{"c"},
						Usage:    "Conversation ID to delete",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(c *cli.Context) (*citechat.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithAPIKey(c.String("api-key")),
		ai.WithModel(c.String("model")),
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)

	db, err := citechat.NewDatabase(c.String("db"), citechat.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.String("api-key") == "" {
		return fmt.Errorf("api-key is required (flag or COHERE_API_KEY)")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	mem, err := db.NewMemory(c.String("conversation"))
	if err != nil {
		return fmt.Errorf("failed to create conversation memory: %w", err)
	}

	if c.Bool("fold-citations") {
		eng, err := db.NewCompatChatEngine(mem)
		if err != nil {
			return fmt.Errorf("failed to create chat engine: %w", err)
		}
		defer eng.Release()
		return runCompatRepl(ctx, eng)
	}

	eng, err := db.NewChatEngine(mem)
	if err != nil {
		return fmt.Errorf("failed to create chat engine: %w", err)
	}
	defer eng.Release()

	if c.Bool("stream") {
		return runStreamingRepl(ctx, eng)
	}
	return runRepl(ctx, eng)
}

func runRepl(ctx context.Context, eng *engine.CohereEngine) error {
	scanner := bufio.NewScanner(os.Stdin)
	for prompt(); scanner.Scan(); prompt() {
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}

		response, err := eng.Chat(ctx, message, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Println(response.Response)
		printCitations(response.Citations)
	}
	return scanner.Err()
}

func runStreamingRepl(ctx context.Context, eng *engine.CohereEngine) error {
	scanner := bufio.NewScanner(os.Stdin)
	for prompt(); scanner.Scan(); prompt() {
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}

		response, err := eng.StreamChat(ctx, message, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		for delta := range response.Deltas() {
			fmt.Print(delta)
		}
		fmt.Println()

		<-response.Done()
		if err := response.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "stream error: %v\n", err)
		}
	}
	return scanner.Err()
}

func runCompatRepl(ctx context.Context, eng *engine.CohereCompatEngine) error {
	scanner := bufio.NewScanner(os.Stdin)
	for prompt(); scanner.Scan(); prompt() {
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}

		response, err := eng.Chat(ctx, message, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Println(response.Response)
	}
	return scanner.Err()
}

func prompt() {
	fmt.Fprint(os.Stderr, "> ")
}

func printCitations(citations []ai.Citation) {
	if len(citations) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr)
	for _, citation := range citations {
		fmt.Fprintf(os.Stderr, "  [%d:%d] %q <- %s\n",
			citation.Start, citation.End, citation.Text,
			strings.Join(citation.DocumentIDs, ", "))
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	// Open database
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	nodeRepo, err := badger.NewNodeRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer nodeRepo.Close()

	// Create embedder (chat credentials are not needed for ingestion)
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	pipeline, err := ingest.NewPipeline(nodeRepo, embedder)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	total := 0
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var texts []string
		if c.Bool("per-line") {
			for _, line := range strings.Split(string(data), "\n") {
				line = strings.TrimSpace(line)
				if line != "" {
					texts = append(texts, line)
				}
			}
		} else {
			texts = []string{string(data)}
		}

		nodes, err := pipeline.Ingest(ctx, texts, &ingest.IngestOptions{
			Metadata: map[string]string{"source": path},
		})
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}
		total += len(nodes)
	}

	pipeline.Wait()
	fmt.Fprintf(os.Stderr, "Ingested %d documents\n", total)
	return nil
}

func resetCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	conversationRepo, err := badger.NewConversationRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer conversationRepo.Close()

	conversationID := c.String("conversation")
	if err := conversationRepo.DeleteConversation(ctx, conversationID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Conversation %s deleted\n", conversationID)
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
