package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/citechat/ai"
	"github.com/poiesic/citechat/ai/mock"
	"github.com/poiesic/citechat/core"
	"github.com/poiesic/citechat/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRetriever returns canned nodes and records the last query.
type stubRetriever struct {
	nodes     []core.NodeWithScore
	err       error
	lastQuery string
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string) ([]core.NodeWithScore, error) {
	s.lastQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.nodes, nil
}

func twoNodes() []core.NodeWithScore {
	return []core.NodeWithScore{
		{Node: &core.Node{Id: 11, Text: "Paris is the capital of France."}, Score: 0.92},
		{Node: &core.Node{Id: 22, Text: "France is in Europe."}, Score: 0.81},
	}
}

func TestNewCohereEngineValidation(t *testing.T) {
	retriever := &stubRetriever{}
	model := mock.NewMockChatModel()
	mem := memory.NewBuffer()

	_, err := NewCohereEngine(nil, model, mem)
	require.ErrorIs(t, err, ErrRetrieverRequired)

	_, err = NewCohereEngine(retriever, nil, mem)
	require.ErrorIs(t, err, ErrChatModelRequired)

	_, err = NewCohereEngine(retriever, model, nil)
	require.ErrorIs(t, err, ErrMemoryRequired)
}

func TestCohereChatHappyPath(t *testing.T) {
	ctx := context.Background()
	retriever := &stubRetriever{nodes: twoNodes()}
	model := mock.NewMockChatModel()
	model.Reply = "Paris."
	model.Raw = map[string]any{
		ai.RawCitationsKey: []ai.Citation{
			{Start: 0, End: 6, Text: "Paris.", DocumentIDs: []string{"11"}},
		},
		ai.RawDocumentsKey: []ai.Document{
			{"id": "11", "text": "Paris is the capital of France."},
		},
	}
	mem := memory.NewBuffer()

	eng, err := NewCohereEngine(retriever, model, mem)
	require.NoError(t, err)
	defer eng.Release()

	response, err := eng.Chat(ctx, "What is the capital of France?", nil)
	require.NoError(t, err)

	assert.Equal(t, "Paris.", response.Response)
	assert.Equal(t, "What is the capital of France?", retriever.lastQuery)

	// Citations and documents surface as top-level fields.
	require.Len(t, response.Citations, 1)
	assert.Equal(t, []string{"11"}, response.Citations[0].DocumentIDs)
	require.Len(t, response.Documents, 1)
	assert.Equal(t, "11", response.Documents[0]["id"])

	// One retriever source carrying the context prefix message.
	require.Len(t, response.Sources, 1)
	source := response.Sources[0]
	assert.Equal(t, "retriever", source.ToolName)
	assert.Equal(t, "What is the capital of France?", source.RawInput["message"])
	prefixMessage, ok := source.RawOutput.(core.ChatMessage)
	require.True(t, ok, "RawOutput should be the prefix message")
	assert.Equal(t, core.RoleSystem, prefixMessage.Role)
	assert.Contains(t, prefixMessage.Content, "Paris is the capital of France.")
	assert.Contains(t, source.Content, "system: ")

	require.Len(t, response.SourceNodes, 2)
	assert.Equal(t, core.ID(11), response.SourceNodes[0].Node.Id)
}

func TestCohereChatSendsHistoryAndDocumentsToModel(t *testing.T) {
	ctx := context.Background()
	retriever := &stubRetriever{nodes: twoNodes()}
	model := mock.NewMockChatModel()
	mem := memory.NewBuffer()
	require.NoError(t, mem.Put(ctx, core.ChatMessage{Role: core.RoleUser, Content: "earlier question"}))
	require.NoError(t, mem.Put(ctx, core.ChatMessage{Role: core.RoleAssistant, Content: "earlier answer"}))

	eng, err := NewCohereEngine(retriever, model, mem)
	require.NoError(t, err)
	defer eng.Release()

	_, err = eng.Chat(ctx, "follow-up", nil)
	require.NoError(t, err)

	// The model sees the prior turns plus the new user message; the
	// context goes in as documents, not as a message.
	sent := model.LastMessages()
	require.Len(t, sent, 3)
	assert.Equal(t, "earlier question", sent[0].Content)
	assert.Equal(t, core.RoleUser, sent[2].Role)
	assert.Equal(t, "follow-up", sent[2].Content)

	documents := model.LastDocuments()
	require.Len(t, documents, 2)
	assert.Equal(t, "11", documents[0]["id"])
	assert.Equal(t, "France is in Europe.", documents[1]["text"])
}

func TestCohereChatMemoryOrdering(t *testing.T) {
	ctx := context.Background()
	retriever := &stubRetriever{}
	model := mock.NewMockChatModel()
	model.Reply = "answer"
	mem := memory.NewBuffer()

	eng, err := NewCohereEngine(retriever, model, mem)
	require.NoError(t, err)
	defer eng.Release()

	_, err = eng.Chat(ctx, "question", nil)
	require.NoError(t, err)

	history, err := eng.ChatHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.RoleUser, history[0].Role)
	assert.Equal(t, "question", history[0].Content)
	assert.Equal(t, core.RoleAssistant, history[1].Role)
	assert.Equal(t, "answer", history[1].Content)
}

func TestCohereChatReplacesHistoryWhenGiven(t *testing.T) {
	ctx := context.Background()
	retriever := &stubRetriever{}
	model := mock.NewMockChatModel()
	mem := memory.NewBufferWithHistory([]core.ChatMessage{
		{Role: core.RoleUser, Content: "stale"},
	})

	eng, err := NewCohereEngine(retriever, model, mem)
	require.NoError(t, err)
	defer eng.Release()

	_, err = eng.Chat(ctx, "fresh question", []core.ChatMessage{
		{Role: core.RoleUser, Content: "imported question"},
		{Role: core.RoleAssistant, Content: "imported answer"},
	})
	require.NoError(t, err)

	history, err := eng.ChatHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, "imported question", history[0].Content)
	assert.Equal(t, "fresh question", history[2].Content)
}

func TestCohereChatEmptyRawDefaults(t *testing.T) {
	ctx := context.Background()
	retriever := &stubRetriever{}
	model := mock.NewMockChatModel() // no Raw payload
	mem := memory.NewBuffer()

	eng, err := NewCohereEngine(retriever, model, mem)
	require.NoError(t, err)
	defer eng.Release()

	response, err := eng.Chat(ctx, "anything", nil)
	require.NoError(t, err)
	assert.Empty(t, response.Citations)
	assert.Empty(t, response.Documents)
	assert.NotNil(t, response.Citations)
	assert.NotNil(t, response.Documents)
}

func TestCohereChatPropagatesErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("retriever error", func(t *testing.T) {
		boom := errors.New("retrieval broke")
		eng, err := NewCohereEngine(&stubRetriever{err: boom}, mock.NewMockChatModel(), memory.NewBuffer())
		require.NoError(t, err)
		defer eng.Release()

		_, err = eng.Chat(ctx, "question", nil)
		require.ErrorIs(t, err, boom)
	})

	t.Run("model error leaves assistant message out", func(t *testing.T) {
		boom := errors.New("model broke")
		model := mock.NewMockChatModel()
		model.ChatFunc = func(ctx context.Context, messages []core.ChatMessage, documents []ai.Document) (*ai.ChatResponse, error) {
			return nil, boom
		}
		mem := memory.NewBuffer()
		eng, err := NewCohereEngine(&stubRetriever{}, model, mem)
		require.NoError(t, err)
		defer eng.Release()

		_, err = eng.Chat(ctx, "question", nil)
		require.ErrorIs(t, err, boom)

		history, err := mem.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, history, 1, "user message stays, assistant message never lands")
		assert.Equal(t, core.RoleUser, history[0].Role)
	})

	t.Run("empty message rejected by memory", func(t *testing.T) {
		eng, err := NewCohereEngine(&stubRetriever{}, mock.NewMockChatModel(), memory.NewBuffer())
		require.NoError(t, err)
		defer eng.Release()

		_, err = eng.Chat(ctx, "", nil)
		require.Error(t, err)
	})
}

func TestCohereChatAsync(t *testing.T) {
	ctx := context.Background()
	model := mock.NewMockChatModel()
	model.Reply = "async answer"

	eng, err := NewCohereEngine(&stubRetriever{nodes: twoNodes()}, model, memory.NewBuffer())
	require.NoError(t, err)
	defer eng.Release()

	result := <-eng.ChatAsync(ctx, "async question", nil)
	require.NoError(t, result.Err)
	assert.Equal(t, "async answer", result.Response.Response)

	history, err := eng.ChatHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestResetClearsHistory(t *testing.T) {
	ctx := context.Background()
	eng, err := NewCohereEngine(&stubRetriever{}, mock.NewMockChatModel(), memory.NewBuffer())
	require.NoError(t, err)
	defer eng.Release()

	_, err = eng.Chat(ctx, "question", nil)
	require.NoError(t, err)

	require.NoError(t, eng.Reset(ctx))

	history, err := eng.ChatHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}
