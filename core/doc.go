// Package core contains the domain model shared by every other package:
// documents, chunks and their metadata, the pipeline configuration surface,
// text metrics, vector math, and the error taxonomy.
//
// Types in this package are plain data. Components never mutate a caller's
// configuration; documents are read-only once created and chunks are
// immutable once produced.
package core
