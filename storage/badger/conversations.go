package badger

import (
	"context"
	"encoding/binary"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/citechat/core"
	"github.com/poiesic/citechat/storage"
)

// ConversationRepository implements storage.ConversationRepository for BadgerDB.
//
// Each conversation is an ordered log keyed by a per-conversation sequence
// number. BigEndian sequence encoding makes BadgerDB's lexicographic key
// order match insertion order.
type ConversationRepository struct {
	backend *Backend
}

var _ storage.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(backend *Backend) (storage.ConversationRepository, error) {
	return &ConversationRepository{
		backend: backend,
	}, nil
}

// Close releases repository resources. The backend is owned by the caller
// and is not closed here.
func (r *ConversationRepository) Close() error {
	return nil
}

// AppendMessages appends messages to the end of a conversation log.
func (r *ConversationRepository) AppendMessages(ctx context.Context, conversationID string, messages ...core.ChatMessage) error {
	if !validConversationID(conversationID) {
		return storage.ErrInvalidConversationID
	}
	if len(messages) == 0 {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		seq, err := r.readSeq(tx, conversationID)
		if err != nil {
			return err
		}

		if err := r.writeMessages(tx, conversationID, seq, messages); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// ReplaceMessages discards the conversation log and writes the given
// messages as the new history.
func (r *ConversationRepository) ReplaceMessages(ctx context.Context, conversationID string, messages []core.ChatMessage) error {
	if !validConversationID(conversationID) {
		return storage.ErrInvalidConversationID
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := r.deleteLog(tx, conversationID); err != nil {
			return err
		}

		if len(messages) > 0 {
			if err := r.writeMessages(tx, conversationID, 0, messages); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
}

// GetMessages returns the full ordered message log for a conversation.
func (r *ConversationRepository) GetMessages(ctx context.Context, conversationID string) ([]core.ChatMessage, error) {
	if !validConversationID(conversationID) {
		return nil, storage.ErrInvalidConversationID
	}

	messages := []core.ChatMessage{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeConversationPrefix(conversationID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var message *core.ChatMessage
			err := iter.Item().Value(func(val []byte) error {
				var err error
				message, err = storage.UnmarshalChatMessage(val)
				return err
			})
			if err != nil {
				return err
			}
			messages = append(messages, *message)
		}
		return nil
	}, false)

	return messages, err
}

// DeleteConversation removes a conversation log entirely.
func (r *ConversationRepository) DeleteConversation(ctx context.Context, conversationID string) error {
	if !validConversationID(conversationID) {
		return storage.ErrInvalidConversationID
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := r.deleteLog(tx, conversationID); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Helper methods

// readSeq reads the next sequence number for a conversation log.
// Returns 0 for a conversation that doesn't exist yet.
func (r *ConversationRepository) readSeq(tx *badger.Txn, conversationID string) (uint64, error) {
	item, err := tx.Get(makeConversationSeqKey(conversationID))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}

	var seq uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return storage.ErrSerializationFailed
		}
		seq = binary.BigEndian.Uint64(val)
		return nil
	})
	return seq, err
}

// writeMessages writes messages starting at the given sequence number and
// stores the advanced sequence counter.
func (r *ConversationRepository) writeMessages(tx *badger.Txn, conversationID string, seq uint64, messages []core.ChatMessage) error {
	for _, message := range messages {
		if err := core.ValidateChatMessage(&message); err != nil {
			return err
		}

		key := makeConversationMessageKey(conversationID, seq)
		value := storage.MarshalChatMessage(&message)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		seq++
	}

	seqValue := make([]byte, 8)
	binary.BigEndian.PutUint64(seqValue, seq)
	return tx.Set(makeConversationSeqKey(conversationID), seqValue)
}

// deleteLog deletes all message keys and the sequence counter for a
// conversation within a transaction.
func (r *ConversationRepository) deleteLog(tx *badger.Txn, conversationID string) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeConversationPrefix(conversationID)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}

	if err := tx.Delete(makeConversationSeqKey(conversationID)); err != nil && err != badger.ErrKeyNotFound {
		return err
	}
	return nil
}
