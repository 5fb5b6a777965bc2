package mock

import (
	"context"
	"io"
	"sync"

	"github.com/poiesic/citechat/ai"
	"github.com/poiesic/citechat/core"
)

// MockChatModel is a test double for ai.ChatModel.
// It allows custom behavior injection via function fields and records
// the inputs of the most recent call for assertions.
type MockChatModel struct {
	// ChatFunc is called by Chat if set.
	// If nil, returns Reply with Raw attached.
	ChatFunc func(ctx context.Context, messages []core.ChatMessage, documents []ai.Document) (*ai.ChatResponse, error)

	// StreamChatFunc is called by StreamChat if set.
	// If nil, returns a stream that yields Deltas followed by a final
	// event carrying Reply and Raw.
	StreamChatFunc func(ctx context.Context, messages []core.ChatMessage, documents []ai.Document) (ai.ChatStream, error)

	// Reply is the default reply text.
	Reply string

	// Deltas are the default stream chunks. When empty, the stream
	// yields Reply as a single delta.
	Deltas []string

	// Raw is attached to default replies as the vendor payload.
	Raw map[string]any

	mu            sync.Mutex
	chatCalls     int
	streamCalls   int
	lastMessages  []core.ChatMessage
	lastDocuments []ai.Document
}

var _ ai.ChatModel = (*MockChatModel)(nil)

// NewMockChatModel creates a mock chat model with a canned reply.
// Note: Returns concrete type to allow test assertions.
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{Reply: "mock reply"}
}

// Chat returns the canned reply, or delegates to ChatFunc when set.
func (m *MockChatModel) Chat(ctx context.Context, messages []core.ChatMessage, documents []ai.Document) (*ai.ChatResponse, error) {
	m.record(&m.chatCalls, messages, documents)

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages, documents)
	}

	return m.response(), nil
}

// StreamChat returns a scripted stream, or delegates to StreamChatFunc when set.
func (m *MockChatModel) StreamChat(ctx context.Context, messages []core.ChatMessage, documents []ai.Document) (ai.ChatStream, error) {
	m.record(&m.streamCalls, messages, documents)

	if m.StreamChatFunc != nil {
		return m.StreamChatFunc(ctx, messages, documents)
	}

	deltas := m.Deltas
	if len(deltas) == 0 {
		deltas = []string{m.Reply}
	}
	return NewMockStream(deltas, m.response()), nil
}

func (m *MockChatModel) record(counter *int, messages []core.ChatMessage, documents []ai.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*counter++
	m.lastMessages = messages
	m.lastDocuments = documents
}

func (m *MockChatModel) response() *ai.ChatResponse {
	return &ai.ChatResponse{
		Message: core.ChatMessage{Role: core.RoleAssistant, Content: m.Reply},
		Raw:     m.Raw,
	}
}

// ChatCallCount returns the number of Chat calls.
func (m *MockChatModel) ChatCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chatCalls
}

// StreamChatCallCount returns the number of StreamChat calls.
func (m *MockChatModel) StreamChatCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streamCalls
}

// LastMessages returns the message history of the most recent call.
func (m *MockChatModel) LastMessages() []core.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastMessages
}

// LastDocuments returns the document list of the most recent call.
func (m *MockChatModel) LastDocuments() []ai.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastDocuments
}

// MockStream is a scripted ai.ChatStream for tests.
type MockStream struct {
	deltas []string
	final  *ai.ChatResponse
	index  int
	done   bool
	closed bool
}

var _ ai.ChatStream = (*MockStream)(nil)

// NewMockStream creates a stream that yields the deltas in order, then a
// final event carrying the complete response, then io.EOF.
func NewMockStream(deltas []string, final *ai.ChatResponse) *MockStream {
	return &MockStream{deltas: deltas, final: final}
}

// Recv returns the next scripted event.
func (s *MockStream) Recv() (ai.StreamEvent, error) {
	if s.done {
		return ai.StreamEvent{}, io.EOF
	}
	if s.index < len(s.deltas) {
		delta := s.deltas[s.index]
		s.index++
		return ai.StreamEvent{Delta: delta}, nil
	}
	s.done = true
	if s.final != nil {
		return ai.StreamEvent{Final: s.final}, nil
	}
	return ai.StreamEvent{}, io.EOF
}

// Close marks the stream closed.
func (s *MockStream) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *MockStream) Closed() bool {
	return s.closed
}
