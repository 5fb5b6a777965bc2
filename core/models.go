package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MessageRole identifies the author of a chat message.
type MessageRole int

const (
	// RoleSystem represents framework-injected instructions.
	RoleSystem MessageRole = iota + 1
	// RoleUser represents the human user.
	RoleUser
	// RoleAssistant represents the model.
	RoleAssistant
)

// String returns the wire-level name of the role.
func (r MessageRole) String() string {
	switch r {
	case RoleSystem:
		return "system"
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// ChatMessage is a single message in a conversation.
// Messages are immutable once appended to a conversation history.
type ChatMessage struct {
	Role    MessageRole
	Content string
}

// Node is a unit of grounding context stored in the node repository.
// It may be enriched with an embedding after ingestion.
type Node struct {
	Id         ID
	Text       string
	Metadata   map[string]string // Optional metadata (e.g., "title", "url")
	Vector     []float32         // Embedding vector for similarity search (populated by the ingest pipeline)
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// NodeWithScore is a retrieved node paired with its relevance score.
// It is produced per request by a retriever and never persisted.
type NodeWithScore struct {
	Node  *Node
	Score float32
}
