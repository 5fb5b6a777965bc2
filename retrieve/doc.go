// Package retrieve finds grounding-context nodes relevant to a chat message.
//
// The Retriever interface is the seam between chat engines and the node
// store: engines hand it the raw user message and receive scored nodes that
// become the documents payload of the model call.
package retrieve
