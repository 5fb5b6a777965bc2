package retrieve

import "errors"

var (
	// ErrNodeRepositoryRequired indicates a retriever was constructed
	// without a node repository.
	ErrNodeRepositoryRequired = errors.New("node repository is required")

	// ErrAIProviderRequired indicates a retriever was constructed without
	// an AI provider.
	ErrAIProviderRequired = errors.New("AI provider is required")

	// ErrEmptyQuery indicates a retrieval was attempted with an empty query.
	ErrEmptyQuery = errors.New("query is empty")
)
