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


// Package citechat wires storage, retrieval and the Cohere chat engines
// into a single database handle.
package citechat

import (
	"log/slog"

	"github.com/poiesic/citechat/ai"
	"github.com/poiesic/citechat/ai/cohere"
	"github.com/poiesic/citechat/engine"
	"github.com/poiesic/citechat/ingest"
	"github.com/poiesic/citechat/memory"
	"github.com/poiesic/citechat/retrieve"
	"github.com/poiesic/citechat/storage"
	"github.com/poiesic/citechat/storage/badger"
)

// Database owns the storage backend, its repositories and the AI provider,
// and builds the pipelines and engines that run on top of them.
type Database struct {
	backend          *badger.Backend
	nodeRepo         storage.NodeRepository
	conversationRepo storage.ConversationRepository
	provider         ai.Provider
	logger           *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the AI configuration used to build the provider.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a pre-built AI provider, bypassing config-based
// construction. Used by tests to wire mock services.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps all data in memory instead of on disk.
func WithInMemoryStorage() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the storage backend at filePath and builds the
// repositories and AI provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create node repository
	nodeRepo, err := badger.NewNodeRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create conversation repository
	conversationRepo, err := badger.NewConversationRepository(backend)
	if err != nil {
		nodeRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = cohere.NewProvider(options.aiConfig)
		if err != nil {
			conversationRepo.Close()
			nodeRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:          backend,
		nodeRepo:         nodeRepo,
		conversationRepo: conversationRepo,
		provider:         provider,
		logger:           slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := db.conversationRepo.Close(); err != nil {
		db.logger.Error("error closing conversation repository", "err", err)
		return err
	}
	if err := db.nodeRepo.Close(); err != nil {
		db.logger.Error("error closing node repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) NodeRepository() storage.NodeRepository {
	return db.nodeRepo
}

func (db *Database) ConversationRepository() storage.ConversationRepository {
	return db.conversationRepo
}

// NewMemory creates a persistent conversation memory. An empty
// conversationID starts a fresh conversation.
func (db *Database) NewMemory(conversationID string) (memory.Memory, error) {
	if conversationID == "" {
		return memory.NewPersistent(db.conversationRepo)
	}
	return memory.NewPersistent(db.conversationRepo, memory.WithConversationID(conversationID))
}

// NewIngestionPipeline creates a pipeline that loads documents into the
// node store.
func (db *Database) NewIngestionPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(db.nodeRepo, db.provider.Embedder(), opts...)
}

// NewRetriever creates a vector retriever over the node store.
func (db *Database) NewRetriever(opts ...retrieve.Option) (retrieve.Retriever, error) {
	return retrieve.NewVectorRetriever(db.nodeRepo, db.provider, opts...)
}

// NewChatEngine creates a citation-surfacing chat engine over the given
// conversation memory.
func (db *Database) NewChatEngine(mem memory.Memory, opts ...engine.Option) (*engine.CohereEngine, error) {
	retriever, err := db.NewRetriever()
	if err != nil {
		return nil, err
	}
	return engine.NewCohereEngine(retriever, db.provider.ChatModel(), mem, opts...)
}

// NewCompatChatEngine creates a citation-folding chat engine over the given
// conversation memory.
func (db *Database) NewCompatChatEngine(mem memory.Memory, opts ...engine.Option) (*engine.CohereCompatEngine, error) {
	retriever, err := db.NewRetriever()
	if err != nil {
		return nil, err
	}
	return engine.NewCohereCompatEngine(retriever, db.provider.ChatModel(), mem, opts...)
}
