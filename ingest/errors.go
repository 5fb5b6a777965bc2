package ingest

import "errors"

var (
	// ErrNodeRepositoryRequired indicates a pipeline was constructed
	// without a node repository.
	ErrNodeRepositoryRequired = errors.New("node repository is required")

	// ErrEmbedderRequired indicates a pipeline was constructed without
	// an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)
