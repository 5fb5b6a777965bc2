// Package ingest loads grounding-context documents into the node store.
//
// The pipeline writes nodes synchronously, then embeds them on a worker
// pool so callers are not blocked on the embedding service. Nodes without
// a vector are skipped by similarity search until their embedding lands.
package ingest
