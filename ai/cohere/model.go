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
	"context"
	"errors"
	"fmt"
	"log/slog"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/poiesic/citechat/ai"
	"github.com/poiesic/citechat/core"
)

// ErrNoMessages is returned when a chat call is issued with an empty history.
var ErrNoMessages = errors.New("cohere: no messages to send")

// ChatModel implements ai.ChatModel using Cohere's chat API in document mode.
type ChatModel struct {
	client *cohereclient.Client
	model  string
	logger *slog.Logger
}

// newChatModel is an internal constructor that returns the concrete type.
func newChatModel(config *ai.Config) (*ChatModel, error) {
	if err := config.ValidateChat(); err != nil {
		return nil, err
	}

	client := cohereclient.NewClient(cohereclient.WithToken(config.APIKey))

	return &ChatModel{
		client: client,
		model:  config.Model,
		logger: slog.Default().With("component", "cohere-chat"),
	}, nil
}

// NewChatModel creates a chat model using the provided configuration.
//
// Returns ai.ChatModel interface to enforce abstraction.
func NewChatModel(config *ai.Config) (ai.ChatModel, error) {
	return newChatModel(config)
}

// Chat issues one blocking generation call with history and documents.
func (m *ChatModel) Chat(ctx context.Context, messages []core.ChatMessage, documents []ai.Document) (*ai.ChatResponse, error) {
	message, history, err := splitMessages(messages)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("issuing chat call",
		"historyLen", len(history),
		"documents", len(documents))

	response, err := m.client.Chat(ctx, &cohere.ChatRequest{
		Message:     message,
		ChatHistory: history,
		Model:       &m.model,
		Documents:   documentsPayload(documents),
	})
	if err != nil {
		m.logger.Error("chat call failed", "err", err)
		return nil, err
	}

	return convertResponse(response), nil
}

// StreamChat issues a streaming generation call with history and documents.
// The returned stream's final event carries the complete reply payload,
// including citations and echoed documents.
func (m *ChatModel) StreamChat(ctx context.Context, messages []core.ChatMessage, documents []ai.Document) (ai.ChatStream, error) {
	message, history, err := splitMessages(messages)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("issuing streaming chat call",
		"historyLen", len(history),
		"documents", len(documents))

	stream, err := m.client.ChatStream(ctx, &cohere.ChatStreamRequest{
		Message:     message,
		ChatHistory: history,
		Model:       &m.model,
		Documents:   documentsPayload(documents),
	})
	if err != nil {
		m.logger.Error("streaming chat call failed", "err", err)
		return nil, err
	}

	return &chatStream{stream: stream}, nil
}

// splitMessages maps an ordered history onto Cohere's calling convention:
// the last message becomes the request message, everything before it the
// chat history.
func splitMessages(messages []core.ChatMessage) (string, []*cohere.Message, error) {
	if len(messages) == 0 {
		return "", nil, ErrNoMessages
	}

	last := messages[len(messages)-1]
	history := make([]*cohere.Message, 0, len(messages)-1)
	for _, message := range messages[:len(messages)-1] {
		history = append(history, toVendorMessage(message))
	}
	return last.Content, history, nil
}

func toVendorMessage(message core.ChatMessage) *cohere.Message {
	switch message.Role {
	case core.RoleSystem:
		return &cohere.Message{
			Role:   "SYSTEM",
			System: &cohere.ChatMessage{Message: message.Content},
		}
	case core.RoleAssistant:
		return &cohere.Message{
			Role:    "CHATBOT",
			Chatbot: &cohere.ChatMessage{Message: message.Content},
		}
	default:
		return &cohere.Message{
			Role: "USER",
			User: &cohere.ChatMessage{Message: message.Content},
		}
	}
}

// documentsPayload converts the adapter's documents into the SDK shape.
func documentsPayload(documents []ai.Document) []cohere.ChatDocument {
	if len(documents) == 0 {
		return nil
	}
	payload := make([]cohere.ChatDocument, len(documents))
	for i, document := range documents {
		doc := make(cohere.ChatDocument, len(document))
		for key, value := range document {
			doc[key] = value
		}
		payload[i] = doc
	}
	return payload
}

// convertResponse maps the vendor reply into ai.ChatResponse, surfacing
// citations and echoed documents through the raw payload.
func convertResponse(response *cohere.NonStreamedChatResponse) *ai.ChatResponse {
	raw := map[string]any{
		"text": response.Text,
	}
	if response.Citations != nil {
		raw[ai.RawCitationsKey] = convertCitations(response.Citations)
	}
	if response.Documents != nil {
		raw[ai.RawDocumentsKey] = convertDocuments(response.Documents)
	}

	return &ai.ChatResponse{
		Message: core.ChatMessage{
			Role:    core.RoleAssistant,
			Content: response.Text,
		},
		Raw: raw,
	}
}

func convertCitations(citations []*cohere.ChatCitation) []ai.Citation {
	converted := make([]ai.Citation, 0, len(citations))
	for _, citation := range citations {
		if citation == nil {
			continue
		}
		converted = append(converted, ai.Citation{
			Start:       citation.Start,
			End:         citation.End,
			Text:        citation.Text,
			DocumentIDs: citation.DocumentIds,
		})
	}
	return converted
}

func convertDocuments(documents []cohere.ChatDocument) []ai.Document {
	converted := make([]ai.Document, 0, len(documents))
	for _, document := range documents {
		doc := make(ai.Document, len(document))
		for key, value := range document {
			doc[key] = fmt.Sprintf("%v", value)
		}
		converted = append(converted, doc)
	}
	return converted
}
