package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/citechat/ai"
	"github.com/poiesic/citechat/core"
	"github.com/poiesic/citechat/storage"
)

// Pipeline orchestrates loading documents into the node store.
// Embeddings are generated concurrently on a worker pool.
type Pipeline struct {
	nodeRepository storage.NodeRepository
	embedder       ai.Embedder
	embeddingPool  *ants.Pool
	logger         *slog.Logger
	pending        sync.WaitGroup
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		embeddingPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.embeddingPool = embeddingPool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	nodeRepository storage.NodeRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if nodeRepository == nil {
		return nil, ErrNodeRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		nodeRepository: nodeRepository,
		embedder:       embedder,
		embeddingPool:  embeddingPool,
		logger:         slog.Default().With("component", "ingest"),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestOptions holds optional parameters for ingestion.
type IngestOptions struct {
	Metadata map[string]string // Optional metadata to attach to nodes
}

// Ingest stores texts as nodes and embeds them asynchronously.
// Errors during async embedding are logged but do not fail the ingestion.
// Returns the stored nodes, whose vectors may not be populated yet.
func (p *Pipeline) Ingest(ctx context.Context, texts []string, opts *IngestOptions) ([]*core.Node, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}

	nodes := make([]*core.Node, len(texts))
	for i, text := range texts {
		nodes[i] = &core.Node{
			Text:     text,
			Metadata: opts.Metadata,
		}
	}

	added, err := p.nodeRepository.AddNodes(ctx, nodes...)
	if err != nil {
		return nil, err
	}

	if len(added) == 0 {
		return added, nil
	}

	ids := make([]core.ID, len(added))
	for i, node := range added {
		ids[i] = node.Id
	}

	p.pending.Add(1)
	if err := p.embeddingPool.Submit(func() {
		defer p.pending.Done()
		if err := p.embedNodes(context.Background(), ids...); err != nil {
			p.logger.Error("error embedding nodes", "err", err)
		}
	}); err != nil {
		p.pending.Done()
		return nil, err
	}

	return added, nil
}

// Wait blocks until all submitted embedding work has finished.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}

// embedNodes generates and stores embeddings for the given node IDs.
func (p *Pipeline) embedNodes(ctx context.Context, ids ...core.ID) error {
	nodes, err := p.nodeRepository.GetNodes(ctx, ids...)
	if err != nil {
		return err
	}

	texts := make([]string, len(nodes))
	for i, node := range nodes {
		texts[i] = node.Text
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}

	for i, node := range nodes {
		if i < len(vectors) {
			node.Vector = vectors[i]
		}
	}

	_, err = p.nodeRepository.UpdateNodes(ctx, nodes...)
	return err
}
