package memory

import (
	"context"
	"testing"

	"github.com/poiesic/citechat/core"
	"github.com/poiesic/citechat/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistentRequiresRepository(t *testing.T) {
	_, err := NewPersistent(nil)
	require.ErrorIs(t, err, ErrNilRepository)
}

func TestPersistentRoundTrip(t *testing.T) {
	nodeRepo, conversationRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { conversationRepo.Close(); nodeRepo.Close(); backend.Close() }()

	ctx := context.Background()

	mem, err := NewPersistent(conversationRepo)
	require.NoError(t, err)

	require.NoError(t, mem.Put(ctx, core.ChatMessage{Role: core.RoleUser, Content: "hello"}))
	require.NoError(t, mem.Put(ctx, core.ChatMessage{Role: core.RoleAssistant, Content: "hi"}))

	history, err := mem.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, "hi", history[1].Content)

	require.NoError(t, mem.Set(ctx, []core.ChatMessage{
		{Role: core.RoleUser, Content: "replaced"},
	}))
	history, err = mem.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "replaced", history[0].Content)

	require.NoError(t, mem.Reset(ctx))
	history, err = mem.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPersistentResumesConversation(t *testing.T) {
	nodeRepo, conversationRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { conversationRepo.Close(); nodeRepo.Close(); backend.Close() }()

	ctx := context.Background()

	first, err := NewPersistent(conversationRepo)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, core.ChatMessage{Role: core.RoleUser, Content: "remember me"}))

	conversationID := first.(*Persistent).ConversationID()
	require.NotEmpty(t, conversationID)

	resumed, err := NewPersistent(conversationRepo, WithConversationID(conversationID))
	require.NoError(t, err)

	history, err := resumed.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "remember me", history[0].Content)
}

func TestPersistentFreshConversationsAreIsolated(t *testing.T) {
	nodeRepo, conversationRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { conversationRepo.Close(); nodeRepo.Close(); backend.Close() }()

	ctx := context.Background()

	memA, err := NewPersistent(conversationRepo)
	require.NoError(t, err)
	memB, err := NewPersistent(conversationRepo)
	require.NoError(t, err)

	require.NoError(t, memA.Put(ctx, core.ChatMessage{Role: core.RoleUser, Content: "only in A"}))

	historyB, err := memB.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, historyB)
}
