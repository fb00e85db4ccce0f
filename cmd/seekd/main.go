// Copyright 2025 Embershare
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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/embershare/seek"
	"github.com/embershare/seek/ai"
	"github.com/embershare/seek/api"
	"github.com/embershare/seek/core"
	"github.com/embershare/seek/reembed"
)

func main() {
	app := &cli.App{
		Name:  "seekd",
		Usage: "Semantic search service for shared neighborhood items",
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
				Usage:  "Serve the search and transcription API",
				Action: serveCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Address to listen on",
						Value: ":8080",
					},
				}, providerFlags()...),
			},
			{
				Name:   "embed-items",
				Usage:  "Generate embeddings for items missing one",
				Action: embedItemsCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-embed every item, not just those missing a vector",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items to embed in each provider call",
						Value: reembed.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N items",
						Value: reembed.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed batches",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				}, providerFlags()...),
			},
			{
				Name:   "seed",
				Usage:  "Load sample categories and items for development",
				Action: seedCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				}, providerFlags()...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// providerFlags are the AI provider flags shared by every command.
func providerFlags() []cli.Flag {
	defaults := ai.DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible API host URL",
			Value: defaults.Host,
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the AI provider (empty disables semantic features)",
			EnvVars: []string{"SEEK_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: defaults.EmbeddingModel,
		},
		&cli.StringFlag{
			Name:  "transcription-model",
			Usage: "Transcription model name",
			Value: defaults.TranscriptionModel,
		},
	}
}

func aiConfigFromFlags(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithTranscriptionModel(c.String("transcription-model")),
	)
}

func serveCommand(c *cli.Context) error {
	db, err := seek.NewDatabase(c.String("db"), seek.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	transcriber, err := db.NewTranscriptionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create transcription pipeline: %w", err)
	}

	server, err := api.NewServer(searcher, transcriber)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              c.String("listen"),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", httpServer.Addr, "aiReady", db.Provider().Ready())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}

func embedItemsCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig := aiConfigFromFlags(c)
	if aiConfig.APIKey == "" {
		return fmt.Errorf("api-key is required for embedding")
	}

	db, err := seek.NewDatabase(c.String("db"), seek.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Force:          c.Bool("force"),
	}

	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(
		db.ItemRepository(),
		db.CategoryRepository(),
		db.Provider().Embedder(),
		config,
		os.Stderr,
	)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Host: %s\n", c.String("host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}

	return nil
}

// sampleItems are development fixtures loaded by the seed command.
// Names and coordinates are around downtown Asheville.
var sampleItems = []struct {
	name        string
	category    string
	description string
	quantity    int
	isBorrow    bool
	lat, lng    float64
}{
	{"Extension ladder", "Tools", "24ft aluminum, good for gutters", 1, true, 35.5951, -82.5515},
	{"Power drill", "Tools", "Cordless with two batteries", 1, true, 35.5960, -82.5530},
	{"Canning jars", "Kitchen", "Two dozen quart-size mason jars", 24, false, 35.5930, -82.5490},
	{"Rain barrel", "Water", "55 gallon, with spigot", 2, false, 35.5975, -82.5550},
	{"Water filter", "Water", "Gravity-fed, new cartridges", 1, false, 35.5940, -82.5520},
	{"Sourdough starter", "Food", "Fed weekly, very active", 3, false, 35.5955, -82.5505},
	{"Camp stove", "Outdoors", "Two-burner propane stove", 1, true, 35.5925, -82.5540},
	{"Sleeping bags", "Outdoors", "Rated to 20F, recently washed", 2, true, 35.5968, -82.5512},
	{"First aid kit", "", "Fully stocked, unopened", 1, false, 35.5945, -82.5535},
	{"Folding tables", "", "Six-foot plastic tables", 3, true, 35.5938, -82.5500},
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := seek.NewDatabase(c.String("db"), seek.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	items := make([]*core.Item, 0, len(sampleItems))
	for _, sample := range sampleItems {
		item := &core.Item{
			OwnerName:   "seed",
			Name:        sample.name,
			Description: sample.description,
			Quantity:    sample.quantity,
			IsBorrow:    sample.isBorrow,
			Available:   true,
			Latitude:    sample.lat,
			Longitude:   sample.lng,
		}

		if sample.category != "" {
			category, err := db.CategoryRepository().GetOrCreateCategory(ctx, sample.category)
			if err != nil {
				return fmt.Errorf("failed to create category %q: %w", sample.category, err)
			}
			item.CategoryId = category.Id
		}

		items = append(items, item)
	}

	added, err := pipeline.AddItems(ctx, items...)
	if err != nil {
		return fmt.Errorf("failed to seed items: %w", err)
	}

	slog.Info("seeded items", "count", len(added), "aiReady", db.Provider().Ready())

	// Give the async embedding workers a moment before the process exits.
	// Unembedded leftovers are picked up by embed-items.
	if db.Provider().Ready() {
		time.Sleep(2 * time.Second)
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
