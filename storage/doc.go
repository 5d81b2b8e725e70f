// Package storage defines the vector store contract the pipeline retrieves
// from, plus the binary serialization shared by persistent implementations.
// The memory subpackage provides the default in-memory retrieval index; the
// badger subpackage provides a persistent alternative behind the same
// interface. An external vector database would be another implementation of
// the same narrow contract.
package storage
