// Package ai defines the interfaces to external AI services: text embedding
// and streaming answer generation. Concrete implementations live in the
// openai subpackage (OpenAI-compatible APIs) and the mock subpackage
// (deterministic test doubles).
package ai
