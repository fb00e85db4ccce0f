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


package seek

import (
	"log/slog"

	"github.com/embershare/seek/ai"
	"github.com/embershare/seek/ai/openai"
	"github.com/embershare/seek/ingestion"
	"github.com/embershare/seek/search"
	"github.com/embershare/seek/storage"
	"github.com/embershare/seek/storage/badger"
	"github.com/embershare/seek/transcribe"
)

// Database bundles the storage backend, repositories, and AI provider
// behind one handle the binaries and the web layer build everything from.
type Database struct {
	backend      *badger.Backend
	itemRepo     storage.ItemRepository
	categoryRepo storage.CategoryRepository
	provider     ai.Provider
	logger       *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
}

// WithAIConfig sets the AI provider configuration.
// A config without an API key yields an unconfigured provider: search
// degrades to fallback responses and transcription reports unavailable.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithProvider sets a pre-built AI provider, bypassing config-based
// construction. Used by tests to inject mocks.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
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

	// Create item repository
	itemRepo, err := badger.NewItemRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create category repository
	categoryRepo, err := badger.NewCategoryRepository(backend)
	if err != nil {
		itemRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = buildProvider(options.aiConfig)
		if err != nil {
			categoryRepo.Close()
			itemRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:      backend,
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		provider:     provider,
		logger:       slog.Default(),
	}, nil
}

// buildProvider resolves the AI capability state once at startup.
// No API key means the process runs with semantic features disabled
// rather than failing, per the fallback contract.
func buildProvider(config *ai.Config) (ai.Provider, error) {
	if config == nil {
		config = ai.DefaultConfig()
	}
	if config.APIKey == "" {
		slog.Warn("no AI API key configured, semantic search and transcription disabled")
		return ai.Unconfigured(), nil
	}
	return openai.NewProvider(config)
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := db.categoryRepo.Close(); err != nil {
		db.logger.Error("error closing category repository", "err", err)
		return err
	}
	if err := db.itemRepo.Close(); err != nil {
		db.logger.Error("error closing item repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) ItemRepository() storage.ItemRepository {
	return db.itemRepo
}

func (db *Database) CategoryRepository() storage.CategoryRepository {
	return db.categoryRepo
}

func (db *Database) Provider() ai.Provider {
	return db.provider
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.itemRepo, db.categoryRepo, db.provider, opts...)
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.itemRepo, db.categoryRepo, db.provider, opts...)
}

func (db *Database) NewTranscriptionPipeline(opts ...transcribe.Option) (*transcribe.Pipeline, error) {
	return transcribe.NewPipeline(db.provider, opts...)
}
