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

// CohereEngine is the variant that surfaces the vendor's citations and
// echoed documents as top-level response fields.
type CohereEngine struct {
	*contextEngine
}

// NewCohereEngine creates a citation-surfacing chat engine.
func NewCohereEngine(
	retriever retrieve.Retriever,
	model ai.ChatModel,
	mem memory.Memory,
	opts ...Option,
) (*CohereEngine, error) {
	base, err := newContextEngine(retriever, model, mem, "cohere-engine", opts...)
	if err != nil {
		return nil, err
	}
	return &CohereEngine{contextEngine: base}, nil
}

// Chat runs one blocking chat turn. A non-nil history replaces the
// conversation memory before the turn; nil leaves it untouched.
func (e *CohereEngine) Chat(ctx context.Context, message string, history []core.ChatMessage) (*CohereAgentChatResponse, error) {
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

	return &CohereAgentChatResponse{
		AgentChatResponse: AgentChatResponse{
			Response:    chatResponse.Message.Content,
			Sources:     []ToolOutput{setup.source},
			SourceNodes: setup.nodes,
		},
		Citations: chatResponse.Citations(),
		Documents: chatResponse.Documents(),
	}, nil
}

// ChatAsync runs Chat on the engine's worker pool and delivers the outcome
// on the returned channel.
func (e *CohereEngine) ChatAsync(ctx context.Context, message string, history []core.ChatMessage) <-chan ChatResult[*CohereAgentChatResponse] {
	results := make(chan ChatResult[*CohereAgentChatResponse], 1)
	if err := e.pool.Submit(func() {
		response, err := e.Chat(ctx, message, history)
		results <- ChatResult[*CohereAgentChatResponse]{Response: response, Err: err}
		close(results)
	}); err != nil {
		results <- ChatResult[*CohereAgentChatResponse]{Err: err}
		close(results)
	}
	return results
}
