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


package core

import "fmt"

// ValidateVerse validates a Verse according to domain rules.
//
// Validation rules:
//   - PoemID must not be empty
//   - RowID must not be empty
//   - LineRaw must not be empty
//
// NOT validated (populated later):
//   - TitleClean/LineClean (derived at index build time when absent)
//   - Vector (can be empty until the embedding processor runs)
//   - Meta (optional; missing fields default to empty strings)
//   - ID (0 is valid before content hashing)
func ValidateVerse(verse *Verse) error {
	if verse == nil {
		return fmt.Errorf("%w: verse is nil", ErrInvalidVerse)
	}

	if verse.PoemID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, ErrEmptyPoemID)
	}

	if verse.RowID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, ErrEmptyRowID)
	}

	if verse.LineRaw == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVerse, ErrEmptyLine)
	}

	return nil
}
