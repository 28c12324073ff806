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

import (
	"fmt"
	"strconv"
)

// FileTypeFromPath maps the extension of path to a FileType.
// The match is case-insensitive and the file contents are never inspected.
func FileTypeFromPath(path string) (FileType, error) {
	ext := Extension(path)
	switch FileType(ext) {
	case FileTypePDF:
		return FileTypePDF, nil
	case FileTypeParquet:
		return FileTypeParquet, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
}

// ValidateDescriptor validates a Descriptor.
//
// Validation rules:
//   - Path must not be empty
//
// NOT validated:
//   - Category and SubCategory (free-form tags, may be empty)
//   - File type (resolved separately so callers can report it distinctly)
func ValidateDescriptor(desc Descriptor) error {
	if desc.Path == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDescriptor, ErrEmptyPath)
	}
	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - file_name, page_no and total_pages must be present
//   - page_no and total_pages must be integers with 1 <= page_no <= total_pages
//
// Empty content is allowed; the splitter never emits it but callers may.
func ValidateChunk(chunk Chunk) error {
	for _, key := range []string{MetaFileName, MetaPageNo, MetaTotalPages} {
		if _, ok := chunk.Metadata[key]; !ok {
			return fmt.Errorf("%w: %w: %s", ErrInvalidChunk, ErrMissingMetadata, key)
		}
	}

	pageNo, err := strconv.Atoi(chunk.Metadata[MetaPageNo])
	if err != nil {
		return fmt.Errorf("%w: page_no %q: %w", ErrInvalidChunk, chunk.Metadata[MetaPageNo], err)
	}
	total, err := strconv.Atoi(chunk.Metadata[MetaTotalPages])
	if err != nil {
		return fmt.Errorf("%w: total_pages %q: %w", ErrInvalidChunk, chunk.Metadata[MetaTotalPages], err)
	}
	if pageNo < 1 || pageNo > total {
		return fmt.Errorf("%w: %w: %d of %d", ErrInvalidChunk, ErrInvalidPageNo, pageNo, total)
	}
	return nil
}
