package engine

import "errors"

var (
	// ErrRetrieverRequired indicates an engine was constructed without a
	// retriever.
	ErrRetrieverRequired = errors.New("retriever is required")

	// ErrChatModelRequired indicates an engine was constructed without a
	// chat model.
	ErrChatModelRequired = errors.New("chat model is required")

	// ErrMemoryRequired indicates an engine was constructed without a
	// conversation memory.
	ErrMemoryRequired = errors.New("memory is required")
)
