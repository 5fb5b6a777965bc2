package ai

import (
	"context"

	"github.com/poiesic/citechat/core"
)

// ChatModel generates chat replies, optionally grounded on a document list.
// Implementations must be thread-safe for concurrent use.
type ChatModel interface {
	// Chat issues one blocking generation call with the full message
	// history and the grounding documents. Documents may be nil or empty
	// for an ungrounded call. The returned response carries the assistant
	// message and the vendor's raw payload.
	Chat(ctx context.Context, messages []core.ChatMessage, documents []Document) (*ChatResponse, error)

	// StreamChat issues a streaming generation call with the same inputs
	// as Chat. The returned stream yields incremental deltas and a final
	// event carrying the complete response. The caller owns the stream
	// and must drain or close it.
	StreamChat(ctx context.Context, messages []core.ChatMessage, documents []Document) (ChatStream, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages ChatModel and Embedder instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// ChatModel returns the chat generation service.
	// The returned ChatModel is safe for concurrent use.
	ChatModel() ChatModel

	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
