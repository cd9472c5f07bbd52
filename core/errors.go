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

import "errors"

// Domain validation errors
var (
	// ErrInvalidVerse indicates a Verse failed validation.
	ErrInvalidVerse = errors.New("invalid verse")

	// ErrEmptyPoemID indicates the PoemID field is empty.
	ErrEmptyPoemID = errors.New("poem id cannot be empty")

	// ErrEmptyRowID indicates the RowID field is empty.
	ErrEmptyRowID = errors.New("row id cannot be empty")

	// ErrEmptyLine indicates the LineRaw field is empty.
	ErrEmptyLine = errors.New("poem line cannot be empty")
)
