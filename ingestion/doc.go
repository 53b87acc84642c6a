// Package ingestion provides pipeline orchestration for chunking and
// storing documents.
//
// The Pipeline type manages the ingestion workflow for a document:
//   - Splitting the source text into overlapping chunks
//   - Generating an embedding per chunk
//   - Writing the vector entry, then the relational row, per chunk
//
// Both writes are keyed by the chunk id and there is no cross-store
// transaction. A failure stops the document's run at the failing chunk;
// chunks already past their relational write stay stored.
package ingestion
