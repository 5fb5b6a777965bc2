package engine

import (
	"github.com/poiesic/citechat/ai"
	"github.com/poiesic/citechat/core"
)

// Keys in the folded RawOutput map produced by CohereCompatEngine.
const (
	RawPrefixMessageKey = "prefix_message"
	RawDocumentsListKey = "documents_list"
	RawCitationsKey     = "citations"
)

// retrieverToolName names the pseudo-tool that produced the grounding
// context of a chat turn.
const retrieverToolName = "retriever"

// ToolOutput describes the output of one tool invocation that contributed
// to a response. Chat engines emit exactly one, for the retriever.
type ToolOutput struct {
	ToolName  string
	Content   string
	RawInput  map[string]any
	RawOutput any
}

// AgentChatResponse is the generic blocking chat response.
type AgentChatResponse struct {
	// Response is the assistant's reply text.
	Response string

	// Sources lists the tool outputs that grounded the reply.
	Sources []ToolOutput

	// SourceNodes are the retrieved nodes the documents payload was built
	// from, in retriever order.
	SourceNodes []core.NodeWithScore
}

// CohereAgentChatResponse is the blocking chat response with the vendor's
// citation metadata surfaced as top-level fields.
type CohereAgentChatResponse struct {
	AgentChatResponse

	// Citations are the vendor's grounded spans, empty when the vendor
	// returned none.
	Citations []ai.Citation

	// Documents are the documents the vendor echoed back as actually used,
	// empty when the vendor returned none.
	Documents []ai.Document
}

// ChatResult carries one asynchronous chat outcome. Exactly one of
// Response and Err is meaningful.
type ChatResult[T any] struct {
	Response T
	Err      error
}
