// Copyright 2026 Coursetta Authors
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


// Package search provides hybrid semantic and keyword retrieval over
// course documents.
//
// The Retriever type implements a multi-stage ranking algorithm that combines:
//   - Semantic search using vector embeddings
//   - Keyword search using lexical term overlap
//   - Category-aware boosting of topically aligned documents
//
// Candidates from both searches are unioned by document ID and scored with
// a weighted sum (semantic-heavy by default). Documents containing every
// significant question word verbatim earn a small additive boost, then
// documents whose category matches the question's inferred category receive
// a multiplicative boost.
// Boosting rather than filtering keeps cross-category matches eligible: a
// highly relevant forum post still surfaces for an exam question even when
// it is tagged differently.
//
// Retrieval is stateless; failures of the embedder or store surface as
// tagged errors (ErrEmbedding, ErrStoreUnavailable, ErrTimeout) so callers
// can decide between retrying, degrading, and reporting. An empty result
// list is a valid outcome, never an error.
package search
