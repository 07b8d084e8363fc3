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

// Package packagejson reads the entry module's package.json, which carries the
// worker configuration under the "workbox" key.
package packagejson

import (
	"bytes"
	"encoding/json"

	"bennypowers.dev/swgen/fs"
)

// ConfigKey is the package.json key holding worker configuration.
const ConfigKey = "workbox"

// PackageJSON represents the subset of package.json relevant to worker generation.
type PackageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	// Workbox is kept raw so that scalar and list values survive until the
	// configuration resolver coerces them.
	Workbox json.RawMessage `json:"workbox,omitempty"`
}

// HasWorkerConfig returns true if the package declares a non-null workbox block.
func (pkg *PackageJSON) HasWorkerConfig() bool {
	if pkg == nil {
		return false
	}
	trimmed := bytes.TrimSpace(pkg.Workbox)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// WorkerConfig returns the raw workbox block, or nil when absent.
func (pkg *PackageJSON) WorkerConfig() json.RawMessage {
	if !pkg.HasWorkerConfig() {
		return nil
	}
	return pkg.Workbox
}

// Parse parses package.json data.
func Parse(data []byte) (*PackageJSON, error) {
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ParseFile parses a package.json file.
func ParseFile(fs fs.FileSystem, path string) (*PackageJSON, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
