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


package ingestion

import (
	"errors"

	"github.com/poiesic/textvault/ai"
	"github.com/poiesic/textvault/storage"
)

var (
	// ErrVectorIndexRequired is returned when a vector index is not provided.
	ErrVectorIndexRequired = errors.New("vector index required")

	// ErrChunkStoreRequired is returned when a chunk store is not provided.
	ErrChunkStoreRequired = errors.New("chunk store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmptyText is returned when the submitted text is empty or whitespace.
	ErrEmptyText = errors.New("text is empty")

	// ErrMissingDocumentID is returned when no document id is provided
	// and none can be derived.
	ErrMissingDocumentID = errors.New("document id required")

	// ErrEmptyFile is returned when the submitted file payload is empty.
	ErrEmptyFile = errors.New("file payload is empty")

	// ErrMissingFileName is returned when file ingestion is attempted
	// without a file name.
	ErrMissingFileName = errors.New("file name required")

	// ErrInvalidMaxAttempts is returned for non-positive retry attempt counts.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")
)

// isTransient reports whether a pipeline step error is worth retrying.
// Duplicate-key writes are permanent on top of the ai package's
// classification: re-running the insert can only conflict again.
func isTransient(err error) bool {
	if errors.Is(err, storage.ErrDuplicateKey) {
		return false
	}
	return ai.IsTransient(err)
}
