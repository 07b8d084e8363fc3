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

package generator

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"bennypowers.dev/swgen/config"
	"bennypowers.dev/swgen/fs"
)

// ManifestEntry is one precached asset.
type ManifestEntry struct {
	URL      string `json:"url"`
	Revision string `json:"revision"`
}

// Manifest is the ordered precache list embedded in the worker.
type Manifest []ManifestEntry

// ScanResult holds a manifest and anything worth warning about while building it.
type ScanResult struct {
	Manifest Manifest
	// Size is the total size in bytes of all precached assets.
	Size     int64
	Warnings []string
}

// BuildManifest scans cfg.GlobDirectory for files matching cfg.GlobPatterns,
// skipping cfg.GlobIgnores, oversized files and the worker itself.
// Entries are de-duplicated and sorted by URL; revisions are MD5 hex digests.
func BuildManifest(ctx context.Context, fsys fs.FileSystem, cfg *config.WorkerConfig) (*ScanResult, error) {
	if stat, err := fsys.Stat(cfg.GlobDirectory); err != nil || !stat.IsDir() {
		return nil, fmt.Errorf("glob directory %s is not a readable directory", cfg.GlobDirectory)
	}
	for _, pattern := range append(append([]string(nil), cfg.GlobPatterns...), cfg.GlobIgnores...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}

	dir := fs.Dir(fsys, cfg.GlobDirectory)
	workerPath := filepath.Join(cfg.OutputPath, WorkerFile)

	seen := make(map[string]struct{})
	result := &ScanResult{Manifest: Manifest{}}

	for _, pattern := range cfg.GlobPatterns {
		matches, err := doublestar.Glob(dir, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("globbing %q: %w", pattern, err)
		}

		for _, match := range matches {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}

			if ignored(cfg.GlobIgnores, match) {
				continue
			}
			if filepath.Join(cfg.GlobDirectory, filepath.FromSlash(match)) == workerPath {
				continue
			}

			info, err := iofs.Stat(dir, match)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", match, err)
			}
			if limit := cfg.MaximumFileSizeToCacheInBytes; limit > 0 && info.Size() > limit {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"%s is %d bytes, and won't be precached. Configure maximumFileSizeToCacheInBytes to change this limit.",
					match, info.Size()))
				continue
			}

			data, err := iofs.ReadFile(dir, match)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", match, err)
			}
			sum := md5.Sum(data)
			result.Manifest = append(result.Manifest, ManifestEntry{
				URL:      match,
				Revision: hex.EncodeToString(sum[:]),
			})
			result.Size += int64(len(data))
		}
	}

	sort.Slice(result.Manifest, func(i, j int) bool {
		return result.Manifest[i].URL < result.Manifest[j].URL
	})

	return result, nil
}

func ignored(patterns []string, match string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, match); ok {
			return true
		}
	}
	return false
}
