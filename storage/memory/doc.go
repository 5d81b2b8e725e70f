// Package memory provides the default in-memory retrieval index: an
// insertion-ordered set of embedded chunks ranked by cosine similarity.
package memory
