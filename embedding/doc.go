// Package embedding provides the gateway between the pipeline and an
// external embedding provider. It partitions texts into provider-sized
// batches, runs batches concurrently on a worker pool under shared rate
// limiting, and degrades to deterministic fallback vectors when the provider
// fails, so ingestion never aborts on a flaky external call.
package embedding
