// Copyright 2025 Proposive Systems
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

import (
	"fmt"
	"time"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Filename must not be empty
//   - Category must be one of the fixed set
//   - UploadDate must not be in the future
//
// NOT validated:
//   - ContentPreview (may be empty for empty source text)
//   - Description (free text, optional)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrEmptyContent)
	}

	if doc.Filename == "" {
		return ErrEmptyFilename
	}

	if err := ValidateCategory(doc.Category); err != nil {
		return err
	}

	if !IsValidTimestamp(doc.UploadDate) {
		return ErrInvalidTimestamp
	}

	return nil
}

// ValidateCategory validates that a category belongs to the fixed set.
// CategoryAll is not a storable category; it is only a filter sentinel.
func ValidateCategory(category Category) error {
	if _, ok := Categories[category]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
