// Package openai implements ai.Embedder using OpenAI-compatible APIs.
//
// The embedder works against any OpenAI-compatible embeddings endpoint
// (OpenAI, Ollama, LocalAI, vLLM). It feeds the vector retriever; chat
// generation lives in the ai/cohere package.
package openai
