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


// Package ai provides abstractions for the AI services used in citechat.
//
// This package defines interfaces for chat generation and text embeddings,
// together with the vendor payload types exchanged with a document-grounded
// chat model: Document (the grounding record shape), Citation (an inline
// span attribution), ChatResponse, and ChatStream. It follows the
// dependency inversion principle, allowing the chat engines to depend on
// abstractions rather than concrete vendor clients.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - ChatModel: Generates chat replies, optionally grounded on documents
//   - Embedder: Generates vector embeddings from text
//   - Provider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes three implementation sub-packages:
//
//   - ai/cohere: Chat generation via Cohere's documents-mode chat API
//   - ai/openai: Embeddings via OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external services
//
// # Constructor Return Type Pattern
//
// Public constructors (cohere.NewChatModel, openai.NewEmbedder, etc.)
// return INTERFACE types to enforce abstraction and prevent accidental
// coupling to concrete implementations.
//
//	model, err := cohere.NewChatModel(config)  // returns ai.ChatModel
//
// Test utility constructors (mock.NewMockChatModel, mock.NewMockEmbedder)
// return CONCRETE types to enable test assertions and behavior injection
// via the mock's public fields and methods.
//
// # Raw Payload Access
//
// ChatResponse.Raw carries the vendor's reply payload. The Citations and
// Documents accessors read the "citations" and "documents" keys and
// default to empty slices when a key is absent or mistyped; a reply that
// carries no grounding metadata never produces an error.
package ai
