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

	"github.com/poiesic/citechat/ai"
	"github.com/poiesic/citechat/core"
	"github.com/poiesic/citechat/memory"
	"github.com/poiesic/citechat/retrieve"
)

// CohereCompatEngine is the variant for callers written against the generic
// response shape. Citation metadata is folded into the single source's
// RawOutput map instead of appearing as top-level fields.
type CohereCompatEngine struct {
	*contextEngine
}

// NewCohereCompatEngine creates a citation-folding chat engine.
func NewCohereCompatEngine(
	retriever retrieve.Retriever,
	model ai.ChatModel,
	mem memory.Memory,
	opts ...Option,
) (*CohereCompatEngine, error) {
	base, err := newContextEngine(retriever, model, mem, "cohere-compat-engine", opts...)
	if err != nil {
		return nil, err
	}
	return &CohereCompatEngine{contextEngine: base}, nil
}

// Chat runs one blocking chat turn. The vendor's citations ([]ai.Citation)
// and echoed documents ([]ai.Document) are folded into the source's
// RawOutput under RawPrefixMessageKey, RawDocumentsListKey and
// RawCitationsKey.
func (e *CohereCompatEngine) Chat(ctx context.Context, message string, history []core.ChatMessage) (*AgentChatResponse, error) {
	setup, err := e.prepareTurn(ctx, message, history)
	if err != nil {
		return nil, err
	}

	chatResponse, err := e.model.Chat(ctx, setup.history, setup.documents)
	if err != nil {
		return nil, err
	}

	if err := e.memory.Put(ctx, chatResponse.Message); err != nil {
		return nil, err
	}

	source := setup.source
	source.RawOutput = map[string]any{
		RawPrefixMessageKey: setup.source.RawOutput,
		RawDocumentsListKey: chatResponse.Documents(),
		RawCitationsKey:     chatResponse.Citations(),
	}

	return &AgentChatResponse{
		Response:    chatResponse.Message.Content,
		Sources:     []ToolOutput{source},
		SourceNodes: setup.nodes,
	}, nil
}

// ChatAsync runs Chat on the engine's worker pool and delivers the outcome
// on the returned channel.
func (e *CohereCompatEngine) ChatAsync(ctx context.Context, message string, history []core.ChatMessage) <-chan ChatResult[*AgentChatResponse] {
	results := make(chan ChatResult[*AgentChatResponse], 1)
	if err := e.pool.Submit(func() {
		response, err := e.Chat(ctx, message, history)
		results <- ChatResult[*AgentChatResponse]{Response: response, Err: err}
		close(results)
	}); err != nil {
		results <- ChatResult[*AgentChatResponse]{Err: err}
		close(results)
	}
	return results
}
