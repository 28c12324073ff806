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

// Document errors. None of these are transient, so callers should not retry them.
var (
	// ErrUnsupportedFileType indicates a path whose extension maps to no reader.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrDocumentNotFound indicates the source file does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrMalformedDocument indicates the source file could not be parsed.
	ErrMalformedDocument = errors.New("malformed document")
)

// Domain validation errors
var (
	// ErrInvalidDescriptor indicates a Descriptor failed validation.
	ErrInvalidDescriptor = errors.New("invalid descriptor")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyPath indicates the Path field is empty.
	ErrEmptyPath = errors.New("path cannot be empty")

	// ErrMissingMetadata indicates a required metadata key is absent.
	ErrMissingMetadata = errors.New("missing metadata")

	// ErrInvalidPageNo indicates page_no is not within 1..total_pages.
	ErrInvalidPageNo = errors.New("page_no out of range")
)
