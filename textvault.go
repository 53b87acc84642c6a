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


package textvault

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/textvault/ai"
	"github.com/poiesic/textvault/ai/openai"
	"github.com/poiesic/textvault/ingestion"
	"github.com/poiesic/textvault/storage"
	"github.com/poiesic/textvault/storage/badger"
	"github.com/poiesic/textvault/storage/sqlite"
)

// Vault bundles the vector index, the relational chunk store and the
// embedding provider behind one handle rooted at a data directory.
type Vault struct {
	backend  *badger.Backend
	index    storage.VectorIndex
	chunks   storage.ChunkStore
	provider ai.Provider
	pipeline *ingestion.Pipeline
	logger   *slog.Logger
}

// VaultOption configures a Vault.
type VaultOption func(*vaultOptions)

type vaultOptions struct {
	aiConfig     *ai.Config
	provider     ai.Provider
	pipelineOpts []ingestion.Option
}

// WithAIConfig overrides the embedding service configuration.
func WithAIConfig(config *ai.Config) VaultOption {
	return func(o *vaultOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider supplies a pre-built AI provider instead of the default
// OpenAI-compatible one. WithAIConfig is ignored when a provider is set.
func WithProvider(provider ai.Provider) VaultOption {
	return func(o *vaultOptions) {
		o.provider = provider
	}
}

// WithPipelineOptions passes options through to the ingestion pipeline.
func WithPipelineOptions(opts ...ingestion.Option) VaultOption {
	return func(o *vaultOptions) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// Open creates or opens a vault at the given data directory. The vector
// index lives under vectors/, the relational store under chunks.db.
func Open(dataDir string, opts ...VaultOption) (*Vault, error) {
	options := &vaultOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filepath.Join(dataDir, "vectors"), false)
	if err != nil {
		return nil, err
	}

	index, err := badger.NewIndex(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunks, err := sqlite.NewStore(dataDir)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			chunks.Close()
			backend.Close()
			return nil, err
		}
	}

	pipeline, err := ingestion.NewPipeline(index, chunks, provider.Embedder(),
		append([]ingestion.Option{ingestion.WithExtractor(provider.Extractor())},
			options.pipelineOpts...)...)
	if err != nil {
		provider.Close()
		chunks.Close()
		backend.Close()
		return nil, err
	}

	return &Vault{
		backend:  backend,
		index:    index,
		chunks:   chunks,
		provider: provider,
		pipeline: pipeline,
		logger:   slog.Default(),
	}, nil
}

// Close releases the pipeline, the provider and both stores.
func (v *Vault) Close() error {
	v.pipeline.Release()

	if err := v.provider.Close(); err != nil {
		v.logger.Error("error closing AI provider", "err", err)
	}

	if err := v.chunks.Close(); err != nil {
		v.logger.Error("error closing chunk store", "err", err)
		return err
	}
	if err := v.backend.Close(); err != nil {
		v.logger.Error("error closing vector backend", "err", err)
		return err
	}
	return nil
}

// IngestText chunks, embeds and stores raw text.
func (v *Vault) IngestText(ctx context.Context, req *ingestion.TextRequest) (*ingestion.Result, error) {
	return v.pipeline.IngestText(ctx, req)
}

// IngestFile extracts text from a file payload and ingests it.
func (v *Vault) IngestFile(ctx context.Context, req *ingestion.FileRequest) (*ingestion.Result, error) {
	return v.pipeline.IngestFile(ctx, req)
}

// VectorIndex exposes the vault's vector index.
func (v *Vault) VectorIndex() storage.VectorIndex {
	return v.index
}

// ChunkStore exposes the vault's relational chunk store.
func (v *Vault) ChunkStore() storage.ChunkStore {
	return v.chunks
}
