// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.ChatModel, ai.Embedder,
// and ai.Provider for use in unit tests. The mocks allow tests to run
// without external AI service dependencies and enable controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	provider := mock.NewMockProvider()
//	response, err := provider.ChatModel().Chat(ctx, messages, nil)
//
//	// Custom behavior injection
//	model := mock.NewMockChatModel()
//	model.ChatFunc = func(ctx context.Context, messages []core.ChatMessage, documents []ai.Document) (*ai.ChatResponse, error) {
//	    return nil, errors.New("boom")
//	}
//
//	// Check call counts and captured inputs
//	count := model.ChatCallCount()
//	documents := model.LastDocuments()
//
// # Default Behavior
//
//   - MockChatModel: Echoes a configurable reply with a configurable raw payload
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockProvider: Aggregates mock chat model and embedder
package mock
