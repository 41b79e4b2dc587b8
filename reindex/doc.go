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


// Package reindex rebuilds the document corpus with a new embedding model.
//
// Switching embedding models invalidates every stored vector, so the
// corpus has to be re-embedded wholesale. Rather than mutating documents
// in place, the reindexer copies them into a fresh destination store:
// it iterates the source store in stable ID order, re-embeds each batch
// of document texts with retry and exponential backoff, normalizes the
// resulting vectors, and writes the copies to the destination. The
// source store stays untouched and serves queries throughout; the caller
// swaps the stores once Run returns successfully.
//
// Usage:
//
//	reindexer, err := reindex.NewReindexer(source, dest, embedder, nil, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	if err := reindexer.Run(ctx); err != nil {
//	    return err
//	}
//	// swap dest in for source
package reindex
