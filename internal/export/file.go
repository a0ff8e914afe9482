/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cropregion/internal/crop"
)

// ErrUnsupportedFormat is returned for output paths with an unknown extension.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// Formats lists the file extensions WriteFile understands.
var Formats = []string{".png", ".bmp", ".tif", ".tiff", ".svg", ".pdf"}

// Supported reports whether ext (with leading dot) names a known format.
func Supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range Formats {
		if e == ext {
			return true
		}
	}
	return false
}

// Write renders f to w in the format named by ext.
func Write(w io.Writer, ext string, f crop.Frame, st Style) error {
	switch strings.ToLower(ext) {
	case ".png":
		return WritePNG(w, f, st, 1)
	case ".bmp":
		return WriteBMP(w, f, st, 1)
	case ".tif", ".tiff":
		return WriteTIFF(w, f, st, 1)
	case ".svg":
		return WriteSVG(w, f, st)
	case ".pdf":
		return WritePDF(w, f, st, PDFOptions{})
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// WriteFile renders f to path, choosing the format from its extension. Missing
// parent directories are created.
func WriteFile(path string, f crop.Frame, st Style) (err error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", ext, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", ext, cerr)
		}
	}()
	if ext == ".pdf" {
		return WritePDF(out, f, st, PDFOptions{Title: filepath.Base(path)})
	}
	return Write(out, ext, f, st)
}
