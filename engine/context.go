// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/citechat/ai"
	"github.com/poiesic/citechat/core"
	"github.com/poiesic/citechat/memory"
	"github.com/poiesic/citechat/retrieve"
)

// DefaultContextTemplate renders the retrieved node texts into the context
// message attached to every turn. The {context_str} placeholder is replaced
// with the node texts joined by blank lines.
const DefaultContextTemplate = "Context information is below." +
	"\n--------------------\n" +
	"{context_str}" +
	"\n--------------------\n"

const contextPlaceholder = "{context_str}"

// contextEngine carries the collaborators and per-turn pipeline shared by
// both engine variants.
type contextEngine struct {
	retriever       retrieve.Retriever
	model           ai.ChatModel
	memory          memory.Memory
	prefixMessages  []core.ChatMessage
	contextTemplate string
	pool            *ants.Pool
	logger          *slog.Logger
}

// Option configures a chat engine.
type Option func(*contextEngine) error

// WithPrefixMessages sets messages prepended to the context message in the
// tool output (a system prompt, typically). They are not sent to the model;
// Cohere receives the grounding as documents instead.
func WithPrefixMessages(messages ...core.ChatMessage) Option {
	return func(e *contextEngine) error {
		e.prefixMessages = messages
		return nil
	}
}

// WithContextTemplate sets the template used to render retrieved node texts
// into the context message. Default is DefaultContextTemplate.
func WithContextTemplate(template string) Option {
	return func(e *contextEngine) error {
		if template != "" {
			e.contextTemplate = template
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *contextEngine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size for the async entry points.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *contextEngine) error {
		if size < 1 {
			size = 1
		}

		if e.pool != nil {
			e.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		e.pool = pool
		return nil
	}
}

func newContextEngine(
	retriever retrieve.Retriever,
	model ai.ChatModel,
	mem memory.Memory,
	component string,
	opts ...Option,
) (*contextEngine, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if model == nil {
		return nil, ErrChatModelRequired
	}
	if mem == nil {
		return nil, ErrMemoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &contextEngine{
		retriever:       retriever,
		model:           model,
		memory:          mem,
		contextTemplate: DefaultContextTemplate,
		pool:            pool,
		logger:          slog.Default().With("component", component),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}

	return e, nil
}

// turnSetup holds everything a turn needs after the shared preamble.
type turnSetup struct {
	nodes     []core.NodeWithScore
	documents []ai.Document
	history   []core.ChatMessage
	source    ToolOutput
}

// prepareTurn runs the shared preamble of every chat turn: replace history
// when one is given, append the user message, retrieve grounding nodes,
// and build the documents payload and retriever tool output.
//
// A nil history leaves memory untouched; a non-nil (even empty) history
// replaces it, matching the optional-history calling convention.
func (e *contextEngine) prepareTurn(ctx context.Context, message string, history []core.ChatMessage) (*turnSetup, error) {
	if history != nil {
		if err := e.memory.Set(ctx, history); err != nil {
			return nil, err
		}
	}

	if err := e.memory.Put(ctx, core.ChatMessage{Role: core.RoleUser, Content: message}); err != nil {
		return nil, err
	}

	contextStr, nodes, err := e.generateContext(ctx, message)
	if err != nil {
		return nil, err
	}

	contextMessages := e.prefixMessagesWithContext(contextStr)
	prefixMessage := contextMessages[0]

	all, err := e.memory.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return &turnSetup{
		nodes:     nodes,
		documents: ai.DocumentsFromNodes(nodes),
		history:   all,
		source: ToolOutput{
			ToolName:  retrieverToolName,
			Content:   fmt.Sprintf("%s: %s", prefixMessage.Role, prefixMessage.Content),
			RawInput:  map[string]any{"message": message},
			RawOutput: prefixMessage,
		},
	}, nil
}

// generateContext retrieves nodes for the message and renders their texts
// through the context template.
func (e *contextEngine) generateContext(ctx context.Context, message string) (string, []core.NodeWithScore, error) {
	nodes, err := e.retriever.Retrieve(ctx, message)
	if err != nil {
		return "", nil, err
	}

	texts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		texts = append(texts, strings.TrimSpace(node.Node.Text))
	}

	contextStr := strings.ReplaceAll(e.contextTemplate, contextPlaceholder, strings.Join(texts, "\n\n"))
	return contextStr, nodes, nil
}

// prefixMessagesWithContext returns the configured prefix messages followed
// by a system message carrying the rendered context.
func (e *contextEngine) prefixMessagesWithContext(contextStr string) []core.ChatMessage {
	messages := make([]core.ChatMessage, 0, len(e.prefixMessages)+1)
	messages = append(messages, e.prefixMessages...)
	messages = append(messages, core.ChatMessage{Role: core.RoleSystem, Content: contextStr})
	return messages
}

// StreamChat starts a streaming turn. The returned response yields deltas
// as the vendor produces them; the assistant reply is appended to memory by
// a detached drain goroutine after the stream is fully consumed. The drain
// runs on its own goroutine rather than the engine's pool, so async entry
// points dispatched onto the pool can never starve their own drain. Both
// variants stream the same way: the streaming source carries the prefix
// message as RawOutput.
func (e *contextEngine) StreamChat(ctx context.Context, message string, history []core.ChatMessage) (*StreamingAgentChatResponse, error) {
	setup, err := e.prepareTurn(ctx, message, history)
	if err != nil {
		return nil, err
	}

	stream, err := e.model.StreamChat(ctx, setup.history, setup.documents)
	if err != nil {
		return nil, err
	}

	response := newStreamingResponse([]ToolOutput{setup.source}, setup.nodes)
	go response.writeResponseToMemory(stream, e.memory, e.logger)

	return response, nil
}

// StreamChatAsync runs StreamChat on the engine's worker pool and delivers
// the outcome on the returned channel.
func (e *contextEngine) StreamChatAsync(ctx context.Context, message string, history []core.ChatMessage) <-chan ChatResult[*StreamingAgentChatResponse] {
	results := make(chan ChatResult[*StreamingAgentChatResponse], 1)
	if err := e.pool.Submit(func() {
		response, err := e.StreamChat(ctx, message, history)
		results <- ChatResult[*StreamingAgentChatResponse]{Response: response, Err: err}
		close(results)
	}); err != nil {
		results <- ChatResult[*StreamingAgentChatResponse]{Err: err}
		close(results)
	}
	return results
}

// Reset clears the conversation memory.
func (e *contextEngine) Reset(ctx context.Context) error {
	return e.memory.Reset(ctx)
}

// ChatHistory returns the current ordered conversation history.
func (e *contextEngine) ChatHistory(ctx context.Context) ([]core.ChatMessage, error) {
	return e.memory.GetAll(ctx)
}

// Release releases the worker pool.
// The engine should not be used after calling Release.
func (e *contextEngine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}
