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


// Package search provides the live-search engine over an indexed verse corpus.
//
// The Engine type implements the as-you-type query pipeline:
//   - Latin-script queries are transliterated to Arabic
//   - Text is normalized and near-miss tokens snap to the boosted vocabulary
//   - Candidates come from forward-prefix postings over title and line fields
//   - Candidates are deduplicated, scored additively, and ranked
//
// The engine holds an immutable index snapshot behind an atomic pointer:
// Rebuild swaps the snapshot wholesale and Search reads lock-free, so one
// writer and any number of concurrent readers are safe.
package search
