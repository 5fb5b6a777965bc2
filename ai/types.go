package ai

import (
	"github.com/poiesic/citechat/core"
)

// Raw payload keys exposed by document-grounded chat replies.
const (
	// RawCitationsKey holds the []Citation echoed by the vendor.
	RawCitationsKey = "citations"
	// RawDocumentsKey holds the []Document echoed by the vendor.
	RawDocumentsKey = "documents"
)

// Document is the vendor-specific grounding record shape: a flat
// string-to-string map. Conventional keys are "id" and "text"; any
// additional keys are passed through to the model verbatim.
type Document map[string]string

// Citation is an inline span attribution in a generated reply.
// Start and End are byte offsets into the reply text; DocumentIDs
// name the grounding documents the span was drawn from.
type Citation struct {
	Start       int
	End         int
	Text        string
	DocumentIDs []string
}

// ChatResponse is the reply from a single chat generation call.
type ChatResponse struct {
	// Message is the assistant message.
	Message core.ChatMessage

	// Raw is the vendor reply payload. Grounding metadata, when present,
	// lives under RawCitationsKey and RawDocumentsKey.
	Raw map[string]any
}

// Citations returns the citations echoed by the vendor.
// Returns an empty slice when the raw payload has no citations entry
// or the entry has an unexpected type.
func (r *ChatResponse) Citations() []Citation {
	if r == nil || r.Raw == nil {
		return []Citation{}
	}
	citations, ok := r.Raw[RawCitationsKey].([]Citation)
	if !ok {
		return []Citation{}
	}
	return citations
}

// Documents returns the grounding documents echoed by the vendor.
// Returns an empty slice when the raw payload has no documents entry
// or the entry has an unexpected type.
func (r *ChatResponse) Documents() []Document {
	if r == nil || r.Raw == nil {
		return []Document{}
	}
	documents, ok := r.Raw[RawDocumentsKey].([]Document)
	if !ok {
		return []Document{}
	}
	return documents
}

// StreamEvent is one event from a streaming generation call.
// Delta carries an incremental chunk of reply text. Final is non-nil on
// the terminating event and carries the complete response, including the
// vendor's raw payload.
type StreamEvent struct {
	Delta string
	Final *ChatResponse
}

// ChatStream is a handle on an in-flight streaming generation call.
type ChatStream interface {
	// Recv returns the next stream event. It returns io.EOF after the
	// final event has been delivered, and any transport error otherwise.
	Recv() (StreamEvent, error)

	// Close releases the underlying connection. Close is safe to call
	// after Recv has returned io.EOF.
	Close() error
}
