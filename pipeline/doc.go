// Package pipeline orchestrates the ingest and query stages of a single
// retrieval pipeline: chunk documents, embed the chunks, store them in a
// vector index, then answer questions by retrieving context and streaming a
// generated response.
//
// Each Engine owns its index and status exclusively. Ingest is serialized
// against itself and against index mutation; any number of queries may run
// concurrently against a ready index.
package pipeline
