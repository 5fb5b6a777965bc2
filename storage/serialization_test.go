package storage

import (
	"testing"
	"time"

	"github.com/poiesic/citechat/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalChatMessage(t *testing.T) {
	tests := []struct {
		name    string
		message *core.ChatMessage
	}{
		{
			name:    "user message",
			message: &core.ChatMessage{Role: core.RoleUser, Content: "Hello"},
		},
		{
			name:    "assistant message",
			message: &core.ChatMessage{Role: core.RoleAssistant, Content: "I understand."},
		},
		{
			name:    "system message",
			message: &core.ChatMessage{Role: core.RoleSystem, Content: "Context information is below."},
		},
		{
			name:    "empty content",
			message: &core.ChatMessage{Role: core.RoleUser, Content: ""},
		},
		{
			name:    "unicode content",
			message: &core.ChatMessage{Role: core.RoleUser, Content: "Hello 世界 🌍 émojis"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalChatMessage(tt.message)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalChatMessage(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.message.Role, decoded.Role)
			assert.Equal(t, tt.message.Content, decoded.Content)
		})
	}
}

func TestUnmarshalChatMessage_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalChatMessage(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestMarshalUnmarshalNode(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		node *core.Node
	}{
		{
			name: "minimal node",
			node: &core.Node{
				Id:         core.ID(1),
				Text:       "plain text node",
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "node with metadata",
			node: &core.Node{
				Id:         core.ID(2),
				Text:       "node with metadata",
				Metadata:   map[string]string{"source": "doc.txt", "chapter": "3"},
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "node with vector",
			node: &core.Node{
				Id:         core.ID(3),
				Text:       "node with embedding",
				Vector:     []float32{0.1, 0.2, 0.3, 0.4, 0.5},
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
		{
			name: "node with everything",
			node: &core.Node{
				Id:         core.IDFromContent("node with everything"),
				Text:       "node with everything",
				Metadata:   map[string]string{"source": "unit"},
				Vector:     []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8},
				InsertedAt: now,
				UpdatedAt:  now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalNode(tt.node)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalNode(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.node.Id, decoded.Id)
			assert.Equal(t, tt.node.Text, decoded.Text)
			assert.True(t, tt.node.InsertedAt.Equal(decoded.InsertedAt))
			assert.True(t, tt.node.UpdatedAt.Equal(decoded.UpdatedAt))
			if len(tt.node.Metadata) == 0 {
				assert.Empty(t, decoded.Metadata)
			} else {
				assert.Equal(t, tt.node.Metadata, decoded.Metadata)
			}
			if len(tt.node.Vector) == 0 {
				assert.Empty(t, decoded.Vector)
			} else {
				assert.Equal(t, tt.node.Vector, decoded.Vector)
			}
		})
	}
}

func TestUnmarshalNode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"partial data", []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalNode(tt.data)
			assert.Error(t, err)
		})
	}
}
