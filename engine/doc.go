// Package engine implements retrieval-grounded chat engines for Cohere's
// documents mode.
//
// Each chat turn runs the same pipeline: append the user message to
// conversation memory, retrieve grounding nodes for the message, adapt the
// nodes to the vendor's documents payload, call the chat model with the
// full history plus documents, and append the assistant reply to memory.
//
// Two variants differ only in the shape of the returned response:
//
//   - CohereEngine surfaces the vendor's citations and echoed documents as
//     top-level response fields.
//   - CohereCompatEngine keeps the generic response shape and folds the
//     citations and documents into the single source's RawOutput map, for
//     callers written against the generic contract.
//
// Streaming turns return immediately; a detached goroutine drains the
// vendor stream and appends the assistant reply to memory after the stream
// is fully consumed. The async entry points run on a worker pool and
// deliver their outcome on a channel.
package engine
