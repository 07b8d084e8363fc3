/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package worker post-processes and persists generated worker source.
package worker

import (
	"fmt"
	"path/filepath"

	"bennypowers.dev/swgen/fs"
	"bennypowers.dev/swgen/generator"
	"bennypowers.dev/swgen/internal/logging"
	"bennypowers.dev/swgen/minify"
)

// Finalize returns the bytes to write for src. With minification off the
// source passes through unchanged. A failed minification logs a warning and
// falls back to src.
func Finalize(src string, minifier minify.Minifier, logger logging.Logger) []byte {
	data := []byte(src)
	if minifier == nil {
		return data
	}
	out, _ := minify.OrOriginal(minifier, data, generator.WorkerFile, logger)
	return out
}

// Path returns where the worker is written inside outputPath.
func Path(outputPath string) string {
	return filepath.Join(outputPath, generator.WorkerFile)
}

// Write persists data as the worker file inside outputPath and returns the
// written path.
func Write(fsys fs.FileSystem, outputPath string, data []byte) (string, error) {
	if err := fsys.MkdirAll(outputPath, 0755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", outputPath, err)
	}
	dest := Path(outputPath)
	if err := fsys.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("writing worker %s: %w", dest, err)
	}
	return dest, nil
}
