package storage

import (
	"context"

	"github.com/poiesic/citechat/core"
)

// NodeRepository provides operations for managing grounding-context nodes.
type NodeRepository interface {
	// AddNodes adds one or more nodes to storage.
	// For nodes with ID=0, generates content-based IDs from the text.
	// Sets InsertedAt/UpdatedAt timestamps.
	// Returns the nodes with IDs and timestamps populated.
	AddNodes(ctx context.Context, nodes ...*core.Node) ([]*core.Node, error)

	// UpdateNodes updates existing nodes.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any node doesn't exist.
	UpdateNodes(ctx context.Context, nodes ...*core.Node) ([]*core.Node, error)

	// GetNode retrieves a single node by ID.
	// Returns ErrNotFound if the node doesn't exist.
	GetNode(ctx context.Context, id core.ID) (*core.Node, error)

	// GetNodes retrieves multiple nodes by their IDs.
	// Returns only the nodes that exist (no error for missing nodes).
	GetNodes(ctx context.Context, ids ...core.ID) ([]*core.Node, error)

	// DeleteNodes removes nodes by their IDs.
	// Returns ErrNotFound if any node doesn't exist.
	DeleteNodes(ctx context.Context, ids ...core.ID) error

	// FindSimilar finds nodes similar to the given vector.
	// Returns nodes with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.NodeWithScore, error)

	// Close closes the repository and releases resources.
	Close() error
}

// ConversationRepository provides an ordered, append-only message log per
// conversation. Conversation IDs must not contain the ':' separator.
type ConversationRepository interface {
	// AppendMessages appends messages to the end of a conversation log,
	// preserving argument order. The conversation is created on first append.
	AppendMessages(ctx context.Context, conversationID string, messages ...core.ChatMessage) error

	// ReplaceMessages discards the conversation log and writes the given
	// messages as the new history, in order.
	ReplaceMessages(ctx context.Context, conversationID string, messages []core.ChatMessage) error

	// GetMessages returns the full ordered message log for a conversation.
	// Returns an empty slice for an unknown conversation.
	GetMessages(ctx context.Context, conversationID string) ([]core.ChatMessage, error)

	// DeleteConversation removes a conversation log entirely.
	// Deleting an unknown conversation is not an error.
	DeleteConversation(ctx context.Context, conversationID string) error

	// Close closes the repository and releases resources.
	Close() error
}
