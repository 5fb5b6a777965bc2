// Package cohere implements ai.ChatModel on Cohere's chat API.
//
// The implementation targets the API's document mode: grounding documents
// are forwarded on every call, and the reply's citations and echoed
// documents are surfaced through the ai.ChatResponse raw payload under
// ai.RawCitationsKey and ai.RawDocumentsKey.
package cohere
