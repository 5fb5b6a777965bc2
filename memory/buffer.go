package memory

import (
	"context"
	"sync"

	"github.com/poiesic/citechat/core"
)

// Buffer is an in-process Memory backed by a mutex-guarded slice.
type Buffer struct {
	mu       sync.RWMutex
	messages []core.ChatMessage
}

var _ Memory = (*Buffer)(nil)

// NewBuffer creates an empty in-process memory.
func NewBuffer() Memory {
	return &Buffer{}
}

// NewBufferWithHistory creates an in-process memory seeded with history.
// The messages are copied.
func NewBufferWithHistory(messages []core.ChatMessage) Memory {
	buffer := &Buffer{}
	buffer.messages = append(buffer.messages, messages...)
	return buffer
}

// Put appends a single message to the history.
func (b *Buffer) Put(ctx context.Context, message core.ChatMessage) error {
	if err := core.ValidateChatMessage(&message); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, message)
	return nil
}

// Set replaces the entire history.
func (b *Buffer) Set(ctx context.Context, messages []core.ChatMessage) error {
	replacement := make([]core.ChatMessage, len(messages))
	copy(replacement, messages)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = replacement
	return nil
}

// GetAll returns the full ordered history. The returned slice is a copy so
// callers can hold it across later appends.
func (b *Buffer) GetAll(ctx context.Context) ([]core.ChatMessage, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	history := make([]core.ChatMessage, len(b.messages))
	copy(history, b.messages)
	return history, nil
}

// Reset clears the history.
func (b *Buffer) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = nil
	return nil
}
