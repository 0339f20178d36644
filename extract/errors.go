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


package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat indicates an unrecognized file extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrInvalidEncoding indicates a plain-text payload that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("content is not valid UTF-8")

	// ErrPDFToolNotFound indicates the pdftotext binary is not installed.
	ErrPDFToolNotFound = errors.New("pdftotext not found in PATH (install poppler-utils)")

	// ErrMalformedDocument indicates a payload that does not match its extension.
	ErrMalformedDocument = errors.New("malformed document")
)

// UnsupportedFormatError carries the offending filename alongside
// ErrUnsupportedFormat.
type UnsupportedFormatError struct {
	Filename  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q: %s", e.Extension, e.Filename)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}
