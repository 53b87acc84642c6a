// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage defines the two store abstractions the ingestion
// pipeline writes to: a VectorIndex holding embeddings keyed by chunk
// id, and a ChunkStore holding the relational provenance row per chunk.
//
// The two stores are deliberately decoupled interfaces. The pipeline,
// not the stores, owns the cross-store contract: the chunk id written
// to the vector index must equal the row id and embedding id written to
// the chunk store.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return these
// interfaces to enforce abstraction and keep backends swappable:
//
//	index, err := badger.NewIndex(backend)    // returns storage.VectorIndex
//	chunks, err := sqlite.NewStore(dataDir)   // returns storage.ChunkStore
//
// Use the in-memory implementations in storage/memory for tests that
// need failure injection.
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific
// timeout requirements.
package storage
