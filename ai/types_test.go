package ai

import (
	"testing"

	"github.com/poiesic/citechat/core"
	"github.com/stretchr/testify/assert"
)

func TestChatResponse_RawAccessors(t *testing.T) {
	t.Run("present values returned", func(t *testing.T) {
		citations := []Citation{{Start: 0, End: 4, Text: "fact", DocumentIDs: []string{"1"}}}
		documents := []Document{{"id": "1", "text": "fact source"}}

		response := &ChatResponse{
			Message: core.ChatMessage{Role: core.RoleAssistant, Content: "fact."},
			Raw: map[string]any{
				RawCitationsKey: citations,
				RawDocumentsKey: documents,
			},
		}

		assert.Equal(t, citations, response.Citations())
		assert.Equal(t, documents, response.Documents())
	})

	t.Run("missing keys default to empty", func(t *testing.T) {
		response := &ChatResponse{Raw: map[string]any{}}
		assert.Empty(t, response.Citations())
		assert.Empty(t, response.Documents())
	})

	t.Run("nil raw defaults to empty", func(t *testing.T) {
		response := &ChatResponse{}
		assert.Empty(t, response.Citations())
		assert.Empty(t, response.Documents())
	})

	t.Run("mistyped values default to empty", func(t *testing.T) {
		response := &ChatResponse{Raw: map[string]any{
			RawCitationsKey: "not a slice",
			RawDocumentsKey: 42,
		}}
		assert.Empty(t, response.Citations())
		assert.Empty(t, response.Documents())
	})
}
