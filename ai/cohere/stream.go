package cohere

import (
	"io"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereCore "github.com/cohere-ai/cohere-go/v2/core"
	"github.com/poiesic/citechat/ai"
)

// chatStream adapts the SDK's event stream to ai.ChatStream.
type chatStream struct {
	stream *cohereCore.Stream[cohere.StreamedChatResponse]
	done   bool
}

var _ ai.ChatStream = (*chatStream)(nil)

// Recv returns the next stream event. Text-generation events become
// deltas; the stream-end event becomes the final event carrying the
// complete reply. Returns io.EOF once the stream is exhausted.
func (s *chatStream) Recv() (ai.StreamEvent, error) {
	if s.done {
		return ai.StreamEvent{}, io.EOF
	}

	for {
		event, err := s.stream.Recv()
		if err == io.EOF {
			s.done = true
			return ai.StreamEvent{}, io.EOF
		}
		if err != nil {
			return ai.StreamEvent{}, err
		}

		switch {
		case event.TextGeneration != nil:
			return ai.StreamEvent{Delta: event.TextGeneration.Text}, nil
		case event.StreamEnd != nil:
			s.done = true
			if event.StreamEnd.Response != nil {
				return ai.StreamEvent{Final: convertResponse(event.StreamEnd.Response)}, nil
			}
			return ai.StreamEvent{}, io.EOF
		default:
			// Other event types (search results, tool calls) carry no
			// reply text in document mode.
			continue
		}
	}
}

// Close releases the underlying connection.
func (s *chatStream) Close() error {
	return s.stream.Close()
}
