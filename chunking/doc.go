// Package chunking turns document text into ordered sequences of chunks.
//
// Five interchangeable strategies are provided: fixed, recursive, document,
// semantic, and agentic. The strategy set is closed; New dispatches with a
// switch rather than a registry. All strategies are synchronous, CPU-bound,
// and deterministic: the same text and configuration always produce the same
// chunks. Emitted chunks are trimmed and never empty, and chunk indexes are
// consecutive starting at 0 within one document.
package chunking
