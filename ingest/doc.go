// Package ingest provides pipeline orchestration for loading verses into storage.
//
// The Loader type parses the corpus CSV export into verses. The Pipeline type
// manages the ingestion workflow, including:
//   - Validating and adding verses to storage
//   - Generating line embeddings asynchronously
//
// Processing is performed concurrently using worker pools to maximize throughput.
// Errors during async processing are logged but do not fail the ingestion operation.
package ingest
