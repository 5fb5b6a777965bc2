package memory

import (
	"context"

	"github.com/poiesic/citechat/core"
)

// Memory holds the ordered message history of a conversation.
//
// Implementations must be safe for concurrent use: chat engines append the
// assistant reply from a background worker after a streamed response has
// been fully consumed.
type Memory interface {
	// Put appends a single message to the history.
	Put(ctx context.Context, message core.ChatMessage) error

	// Set replaces the entire history with the given messages, in order.
	Set(ctx context.Context, messages []core.ChatMessage) error

	// GetAll returns the full ordered history.
	GetAll(ctx context.Context) ([]core.ChatMessage, error)

	// Reset clears the history.
	Reset(ctx context.Context) error
}
