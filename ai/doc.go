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


// Package ai defines the interfaces for external AI services consumed by
// the ingestion pipeline: text embedding and file text extraction.
//
// Production implementations live in subpackages (ai/openai); test
// doubles live in ai/mock. Constructors return interfaces to keep
// callers decoupled from any particular service.
//
// Errors from these services carry a transient-vs-permanent distinction:
// wrap ErrInvalidInput for rejections that retrying cannot fix, and use
// IsTransient to decide retry eligibility.
package ai
