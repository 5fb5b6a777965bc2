// Package memory provides conversation history buffers for chat engines.
//
// A Memory holds the ordered message history of a single conversation. Chat
// engines write the user message before calling the model and append the
// assistant reply after the model answers, so the history a concurrent
// reader observes is always a prefix of a well-formed conversation.
//
// Two implementations are provided:
//
//   - Buffer: an in-process, mutex-guarded message slice
//   - Persistent: backed by a storage.ConversationRepository, so history
//     survives process restarts
package memory
