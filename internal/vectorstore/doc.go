// Package vectorstore provides persistent vector storage for document chunks.
//
// The store is backed by chromem-go, an embeddable pure-Go vector database
// with gob-file persistence. All chunks live in a single collection and are
// isolated per workspace through metadata filtering: every chunk carries its
// workspace ID, and every query injects a workspace filter so results never
// cross workspace boundaries.
package vectorstore
