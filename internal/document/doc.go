// Package document handles uploaded context documents: text extraction,
// chunking, embedding, and retrieval.
//
// Uploads are validated as text (UTF-8, no NUL bytes), split into
// token-budgeted chunks, embedded, and written to the vector store under
// their workspace. The relational store keeps a provenance record per
// document so uploads can be listed and deleted.
package document
