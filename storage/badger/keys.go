package badger

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Key prefixes for different data types
const (
	nodeRecordPrefix    = "ctxnod"
	conversationPrefix  = "convmsg"
	conversationSeqsKey = "convseq"
)

// makeNodeKey generates a key for a node by ID.
func makeNodeKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s:%d", nodeRecordPrefix, id))
}

// makeConversationMessageKey generates a composite key for a message in a
// conversation log.
// Format: prefix:conversationID:sequence
func makeConversationMessageKey(conversationID string, seq uint64) []byte {
	prefix := conversationPrefix + ":" + conversationID + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for the sequence number
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeConversationPrefix generates the iteration prefix for a conversation log.
func makeConversationPrefix(conversationID string) []byte {
	return []byte(conversationPrefix + ":" + conversationID + ":")
}

// makeConversationSeqKey generates the key holding the next sequence number
// for a conversation log.
func makeConversationSeqKey(conversationID string) []byte {
	return []byte(conversationSeqsKey + ":" + conversationID)
}

// validConversationID reports whether an ID can be embedded in a key without
// colliding with another conversation's prefix.
func validConversationID(conversationID string) bool {
	return conversationID != "" && !strings.Contains(conversationID, ":")
}
