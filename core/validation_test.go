package core

import (
	"errors"
	"testing"
)

func TestValidateChatMessage(t *testing.T) {
	tests := []struct {
		name    string
		message *ChatMessage
		wantErr error
	}{
		{
			name:    "valid user message",
			message: &ChatMessage{Role: RoleUser, Content: "hello"},
			wantErr: nil,
		},
		{
			name:    "valid assistant message",
			message: &ChatMessage{Role: RoleAssistant, Content: "hi there"},
			wantErr: nil,
		},
		{
			name:    "valid system message",
			message: &ChatMessage{Role: RoleSystem, Content: "you are helpful"},
			wantErr: nil,
		},
		{
			name:    "nil message",
			message: nil,
			wantErr: ErrInvalidChatMessage,
		},
		{
			name:    "empty content",
			message: &ChatMessage{Role: RoleUser, Content: ""},
			wantErr: ErrEmptyContent,
		},
		{
			name:    "invalid role",
			message: &ChatMessage{Role: MessageRole(42), Content: "hello"},
			wantErr: ErrInvalidMessageRole,
		},
		{
			name:    "zero role",
			message: &ChatMessage{Role: 0, Content: "hello"},
			wantErr: ErrInvalidMessageRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChatMessage(tt.message)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChatMessage() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChatMessage() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNode(t *testing.T) {
	tests := []struct {
		name    string
		node    *Node
		wantErr error
	}{
		{
			name:    "valid node",
			node:    &Node{Text: "some context"},
			wantErr: nil,
		},
		{
			name:    "valid node with metadata and vector",
			node:    &Node{Text: "some context", Metadata: map[string]string{"title": "doc"}, Vector: []float32{0.1}},
			wantErr: nil,
		},
		{
			name:    "nil node",
			node:    nil,
			wantErr: ErrInvalidNode,
		},
		{
			name:    "empty text",
			node:    &Node{Text: ""},
			wantErr: ErrEmptyNodeText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNode(tt.node)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateNode() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
