package engine

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/citechat/ai"
	"github.com/poiesic/citechat/core"
	"github.com/poiesic/citechat/memory"
)

const deltaBufferSize = 16

// StreamingAgentChatResponse is the streaming counterpart of
// AgentChatResponse. Deltas arrive on Deltas() as the vendor produces
// them; Done() is closed after the stream has been fully drained and the
// assistant reply written to memory.
type StreamingAgentChatResponse struct {
	// Sources lists the tool outputs that grounded the reply.
	Sources []ToolOutput

	// SourceNodes are the retrieved nodes, in retriever order.
	SourceNodes []core.NodeWithScore

	deltas chan string
	done   chan struct{}

	mu       sync.Mutex
	response string
	err      error
}

func newStreamingResponse(sources []ToolOutput, nodes []core.NodeWithScore) *StreamingAgentChatResponse {
	return &StreamingAgentChatResponse{
		Sources:     sources,
		SourceNodes: nodes,
		deltas:      make(chan string, deltaBufferSize),
		done:        make(chan struct{}),
	}
}

// Deltas returns the channel of reply fragments. It is closed when the
// stream ends; consume it to completion.
func (r *StreamingAgentChatResponse) Deltas() <-chan string {
	return r.deltas
}

// Done returns a channel closed after the full reply has been drained and
// appended to memory.
func (r *StreamingAgentChatResponse) Done() <-chan struct{} {
	return r.done
}

// Response returns the accumulated reply text. It is complete only after
// Done() is closed.
func (r *StreamingAgentChatResponse) Response() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.response
}

// Err returns the drain error, if any. Check it after Done() is closed.
func (r *StreamingAgentChatResponse) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *StreamingAgentChatResponse) setResponse(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.response = text
}

func (r *StreamingAgentChatResponse) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// writeResponseToMemory drains the vendor stream, forwarding each delta to
// the consumer, then appends the assistant reply to memory. Runs on a
// dedicated goroutine. On a stream error the reply is not written to
// memory; the error is logged and surfaced via Err().
func (r *StreamingAgentChatResponse) writeResponseToMemory(stream ai.ChatStream, mem memory.Memory, logger *slog.Logger) {
	defer close(r.done)
	defer stream.Close()

	var builder strings.Builder
	var finalText string

	for {
		event, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Error("error draining chat stream", "err", err)
			r.setErr(err)
			close(r.deltas)
			return
		}
		if event.Delta != "" {
			builder.WriteString(event.Delta)
			r.deltas <- event.Delta
		}
		if event.Final != nil && event.Final.Message.Content != "" {
			finalText = event.Final.Message.Content
		}
	}
	close(r.deltas)

	text := builder.String()
	if text == "" {
		text = finalText
	}
	r.setResponse(text)

	if text == "" {
		logger.Warn("chat stream produced no text, skipping memory write")
		return
	}

	// The caller's context may be gone by the time the drain finishes.
	err := mem.Put(context.Background(), core.ChatMessage{
		Role:    core.RoleAssistant,
		Content: text,
	})
	if err != nil {
		logger.Error("error writing assistant message to memory", "err", err)
		r.setErr(err)
	}
}
