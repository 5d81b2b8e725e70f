// Package ragline is a retrieval-augmented generation pipeline core:
// multi-strategy text chunking, batched embedding with graceful degradation,
// vector retrieval, and streamed answer generation.
//
// The Service facade owns a registry of pipeline engines and a process-wide
// rate limiter. Callers create a pipeline from a validated configuration,
// ingest documents into it, then stream query answers back.
package ragline
