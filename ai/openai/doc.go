// Package openai provides ai.Embedder and ai.Provider implementations
// backed by any OpenAI-compatible embedding API (OpenAI, Ollama,
// LocalAI, vLLM) via langchaingo.
package openai
