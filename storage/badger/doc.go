// Package badger implements a persistent VectorStore on BadgerDB.
//
// Chunks are stored under sequence-ordered keys so iteration order matches
// insertion order, which is what the similarity tie-break relies on. A
// secondary ID index maps chunk IDs back to their sequence slot so upserts
// overwrite in place instead of re-appending.
package badger
