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


package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/poiesic/citechat/core"
	"github.com/poiesic/citechat/storage"
)

// Persistent is a Memory backed by a storage.ConversationRepository, so
// conversation history survives process restarts.
type Persistent struct {
	repo           storage.ConversationRepository
	conversationID string
}

var _ Memory = (*Persistent)(nil)

// PersistentOption configures a Persistent memory.
type PersistentOption func(*Persistent) error

// WithConversationID resumes an existing conversation instead of starting
// a new one.
func WithConversationID(conversationID string) PersistentOption {
	return func(p *Persistent) error {
		p.conversationID = conversationID
		return nil
	}
}

// NewPersistent creates a Memory backed by a conversation repository. A
// fresh conversation ID is generated unless WithConversationID is given.
func NewPersistent(repo storage.ConversationRepository, opts ...PersistentOption) (Memory, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}

	persistent := &Persistent{
		repo:           repo,
		conversationID: uuid.NewString(),
	}

	for _, opt := range opts {
		if err := opt(persistent); err != nil {
			return nil, err
		}
	}

	return persistent, nil
}

// ConversationID returns the conversation this memory reads and writes.
func (p *Persistent) ConversationID() string {
	return p.conversationID
}

// Put appends a single message to the history.
func (p *Persistent) Put(ctx context.Context, message core.ChatMessage) error {
	return p.repo.AppendMessages(ctx, p.conversationID, message)
}

// Set replaces the entire history.
func (p *Persistent) Set(ctx context.Context, messages []core.ChatMessage) error {
	return p.repo.ReplaceMessages(ctx, p.conversationID, messages)
}

// GetAll returns the full ordered history.
func (p *Persistent) GetAll(ctx context.Context) ([]core.ChatMessage, error) {
	return p.repo.GetMessages(ctx, p.conversationID)
}

// Reset clears the history.
func (p *Persistent) Reset(ctx context.Context) error {
	return p.repo.DeleteConversation(ctx, p.conversationID)
}
