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


// Package arabic provides text normalization and correction for Arabic
// search queries and poetry text.
//
// Three concerns live here:
//   - Normalize strips tashkeel and tatweel, folds letter variants, and
//     canonicalizes punctuation and whitespace.
//   - Corrector snaps near-miss tokens onto a curated vocabulary using a
//     confusable-aware edit distance.
//   - Highlight wraps query matches in display text while tolerating the
//     diacritics that Normalize would remove.
//
// All functions are pure and safe for concurrent use. Normalize is
// idempotent: Normalize(Normalize(s)) == Normalize(s).
package arabic
