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


// Package hybrid provides combined semantic and keyword search over verses.
//
// The Searcher type implements a multi-stage search algorithm that combines:
//   - Semantic search using vector embeddings
//   - Keyword search using the live search index
//   - Verbatim match boosting on normalized Arabic text
//
// Search results are scored and ranked based on multiple signals to provide
// the most relevant results for a given query. Unlike the live search engine,
// which answers keystroke-by-keystroke from memory, this tier calls the
// embedding service and scans stored vectors, so it is meant for deliberate
// on-demand queries.
package hybrid
