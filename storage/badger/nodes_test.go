package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/citechat/core"
	"github.com/poiesic/citechat/storage"
)

func TestNodeBasics(t *testing.T) {
	nodeRepo, conversationRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() {
		conversationRepo.Close()
		nodeRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	node := &core.Node{
		Text:     "The quick brown fox jumps over the lazy dog.",
		Metadata: map[string]string{"source": "test.txt"},
	}

	added, err := nodeRepo.AddNodes(ctx, node)
	if err != nil {
		t.Fatalf("Failed to add node: %v", err)
	}

	if len(added) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(added))
	}

	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	if added[0].InsertedAt.IsZero() {
		t.Fatal("Expected InsertedAt to be set")
	}

	retrieved, err := nodeRepo.GetNode(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get node: %v", err)
	}

	if retrieved.Text != node.Text {
		t.Fatalf("Expected %q, got %q", node.Text, retrieved.Text)
	}

	if retrieved.Metadata["source"] != "test.txt" {
		t.Fatalf("Expected metadata to survive round trip, got %v", retrieved.Metadata)
	}
}

func TestNodeContentIDIdempotent(t *testing.T) {
	nodeRepo, conversationRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { conversationRepo.Close(); nodeRepo.Close(); backend.Close() }()

	ctx := context.Background()

	first, err := nodeRepo.AddNodes(ctx, &core.Node{Text: "same text"})
	if err != nil {
		t.Fatalf("Failed to add node: %v", err)
	}
	second, err := nodeRepo.AddNodes(ctx, &core.Node{Text: "same text"})
	if err != nil {
		t.Fatalf("Failed to re-add node: %v", err)
	}

	if first[0].Id != second[0].Id {
		t.Fatalf("Expected same content ID, got %d and %d", first[0].Id, second[0].Id)
	}

	nodes, err := nodeRepo.GetNodes(ctx, first[0].Id, second[0].Id)
	if err != nil {
		t.Fatalf("Failed to get nodes: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 lookups to resolve, got %d", len(nodes))
	}
}

func TestNodeUpdateAndDelete(t *testing.T) {
	nodeRepo, conversationRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { conversationRepo.Close(); nodeRepo.Close(); backend.Close() }()

	ctx := context.Background()

	added, err := nodeRepo.AddNodes(ctx, &core.Node{Text: "original"})
	if err != nil {
		t.Fatalf("Failed to add node: %v", err)
	}
	node := added[0]

	node.Vector = []float32{0.1, 0.2, 0.3}
	updated, err := nodeRepo.UpdateNodes(ctx, node)
	if err != nil {
		t.Fatalf("Failed to update node: %v", err)
	}
	if updated[0].UpdatedAt.Before(updated[0].InsertedAt) {
		t.Fatal("Expected UpdatedAt >= InsertedAt")
	}

	retrieved, err := nodeRepo.GetNode(ctx, node.Id)
	if err != nil {
		t.Fatalf("Failed to get node: %v", err)
	}
	if len(retrieved.Vector) != 3 {
		t.Fatalf("Expected vector of length 3, got %d", len(retrieved.Vector))
	}

	if err := nodeRepo.DeleteNodes(ctx, node.Id); err != nil {
		t.Fatalf("Failed to delete node: %v", err)
	}

	_, err = nodeRepo.GetNode(ctx, node.Id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	// Updating a missing node fails
	_, err = nodeRepo.UpdateNodes(ctx, node)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on update, got %v", err)
	}
}

func TestFindSimilarNodes(t *testing.T) {
	nodeRepo, conversationRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { conversationRepo.Close(); nodeRepo.Close(); backend.Close() }()

	ctx := context.Background()

	nodes := []*core.Node{
		{Text: "close match", Vector: []float32{1, 0, 0}},
		{Text: "partial match", Vector: []float32{0.7, 0.7, 0}},
		{Text: "orthogonal", Vector: []float32{0, 0, 1}},
		{Text: "no embedding yet"},
	}
	if _, err := nodeRepo.AddNodes(ctx, nodes...); err != nil {
		t.Fatalf("Failed to add nodes: %v", err)
	}

	results, err := nodeRepo.FindSimilar(ctx, []float32{1, 0, 0}, 0.5, 10)
	if err != nil {
		t.Fatalf("Failed to find similar nodes: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results above threshold, got %d", len(results))
	}
	if results[0].Node.Text != "close match" {
		t.Fatalf("Expected best match first, got %q", results[0].Node.Text)
	}
	if results[0].Score < results[1].Score {
		t.Fatal("Expected results ordered by descending score")
	}

	// Limit caps results
	limited, err := nodeRepo.FindSimilar(ctx, []float32{1, 0, 0}, 0.0, 1)
	if err != nil {
		t.Fatalf("Failed to find similar nodes: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("Expected 1 limited result, got %d", len(limited))
	}
}
