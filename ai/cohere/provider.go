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


package cohere

import (
	"github.com/poiesic/citechat/ai"
	"github.com/poiesic/citechat/ai/openai"
)

// Provider bundles the Cohere chat model with the OpenAI-compatible
// embedding service behind the ai.Provider interface.
type Provider struct {
	chatModel ai.ChatModel
	embedder  ai.Embedder
}

var _ ai.Provider = (*Provider)(nil)

// NewProvider creates a provider from the given configuration.
//
// Returns ai.Provider interface to enforce abstraction.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	chatModel, err := NewChatModel(config)
	if err != nil {
		return nil, err
	}

	embedder, err := openai.NewEmbedder(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		chatModel: chatModel,
		embedder:  embedder,
	}, nil
}

// ChatModel returns the Cohere chat model.
func (p *Provider) ChatModel() ai.ChatModel {
	return p.chatModel
}

// Embedder returns the embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close releases provider resources. Both underlying clients are
// stateless HTTP clients, so this is a no-op.
func (p *Provider) Close() error {
	return nil
}
