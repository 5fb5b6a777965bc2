package retrieve

import (
	"context"
	"log/slog"

	"github.com/poiesic/citechat/ai"
	"github.com/poiesic/citechat/core"
	"github.com/poiesic/citechat/storage"
)

const (
	defaultTopK          = 5
	defaultMinSimilarity = 0.60
)

// Retriever finds nodes relevant to a query.
type Retriever interface {
	// Retrieve returns scored nodes relevant to the query, best first.
	Retrieve(ctx context.Context, query string) ([]core.NodeWithScore, error)
}

// VectorRetriever retrieves nodes by embedding the query and running a
// similarity search against the node store.
type VectorRetriever struct {
	nodeRepository storage.NodeRepository
	embedder       ai.Embedder
	topK           int
	minSimilarity  float32
	logger         *slog.Logger
}

var _ Retriever = (*VectorRetriever)(nil)

// Option configures a VectorRetriever.
type Option func(*VectorRetriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *VectorRetriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithTopK sets the maximum number of nodes returned per query.
// Default is 5.
func WithTopK(topK int) Option {
	return func(r *VectorRetriever) error {
		if topK > 0 {
			r.topK = topK
		}
		return nil
	}
}

// WithMinSimilarity sets the similarity threshold below which nodes are
// dropped. Default is 0.60.
func WithMinSimilarity(minSimilarity float32) Option {
	return func(r *VectorRetriever) error {
		r.minSimilarity = minSimilarity
		return nil
	}
}

// NewVectorRetriever creates a new vector retriever.
func NewVectorRetriever(
	nodeRepository storage.NodeRepository,
	provider ai.Provider,
	opts ...Option,
) (Retriever, error) {
	if nodeRepository == nil {
		return nil, ErrNodeRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &VectorRetriever{
		nodeRepository: nodeRepository,
		embedder:       provider.Embedder(),
		topK:           defaultTopK,
		minSimilarity:  defaultMinSimilarity,
		logger:         slog.Default().With("component", "retriever"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve embeds the query and returns the most similar nodes.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]core.NodeWithScore, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	matches, err := r.nodeRepository.FindSimilar(ctx, embedding, r.minSimilarity, r.topK)
	if err != nil {
		r.logger.Error("error querying for similar nodes", "err", err)
		return nil, err
	}

	results := make([]core.NodeWithScore, 0, len(matches))
	for _, match := range matches {
		results = append(results, *match)
	}

	r.logger.Debug("retrieved nodes", "query", query, "hits", len(results))
	return results, nil
}
