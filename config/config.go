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

// Package config resolves the worker configuration for a build by merging the
// entry module's "workbox" settings over defaults derived from the build.
package config

import (
	"path/filepath"
	"slices"

	"bennypowers.dev/swgen/packagejson"
)

// DefaultGlobPatterns selects the common web asset types for precaching.
var DefaultGlobPatterns = []string{
	"**/*.{css,html,js,gif,ico,jpg,png,svg,webp,woff,woff2,ttf,otf}",
}

// DefaultGlobIgnores keeps installed dependencies out of the manifest.
var DefaultGlobIgnores = []string{"**/node_modules/**/*"}

// DefaultMaximumFileSizeToCacheInBytes matches Workbox's 2 MiB default.
const DefaultMaximumFileSizeToCacheInBytes int64 = 2 * 1024 * 1024

// PackageFunc returns the entry module's package metadata.
type PackageFunc func() (*packagejson.PackageJSON, error)

// BuildContext is the read-only snapshot of a finished build handed to the
// pipeline by the host build tool.
type BuildContext struct {
	// OutDir is the build output directory.
	OutDir string
	// Root is the directory relative paths are resolved against.
	// Defaults to the working directory when empty.
	Root string
	// Production is true when the build ran in production mode.
	Production bool
	// Minify is true when the build minifies its output.
	Minify bool
	// Package returns the entry module's package metadata. May be nil.
	Package PackageFunc
}

// WorkerConfig is the fully resolved configuration driving generation.
type WorkerConfig struct {
	// ImportScripts are loaded into the worker, in order, before precaching.
	ImportScripts []string `mapstructure:"importScripts"`
	// GlobDirectory is the absolute directory scanned for cacheable assets.
	GlobDirectory string `mapstructure:"globDirectory"`
	// GlobPatterns select which assets become precache entries.
	GlobPatterns []string `mapstructure:"globPatterns"`
	// GlobIgnores exclude assets matched by GlobPatterns.
	GlobIgnores []string `mapstructure:"globIgnores"`
	// OutputPath is the absolute directory receiving the worker, imported
	// scripts and the patched HTML entry point.
	OutputPath string `mapstructure:"pathOut"`

	MaximumFileSizeToCacheInBytes int64  `mapstructure:"maximumFileSizeToCacheInBytes"`
	CacheID                       string `mapstructure:"cacheId"`
	SkipWaiting                   bool   `mapstructure:"skipWaiting"`
	ClientsClaim                  bool   `mapstructure:"clientsClaim"`
	NavigateFallback              string `mapstructure:"navigateFallback"`
	// RuntimeURL is a {name}/{version} template for the runtime support module.
	RuntimeURL string `mapstructure:"runtimeURL"`

	// Ignored lists recognized keys whose values could not be coerced.
	Ignored []string `mapstructure:"-"`
}

// Defaults returns the configuration used when the package declares nothing.
func Defaults(bc BuildContext) *WorkerConfig {
	out := absPath(bc.Root, bc.OutDir)
	return &WorkerConfig{
		ImportScripts:                 []string{},
		GlobDirectory:                 out,
		GlobPatterns:                  slices.Clone(DefaultGlobPatterns),
		GlobIgnores:                   slices.Clone(DefaultGlobIgnores),
		OutputPath:                    out,
		MaximumFileSizeToCacheInBytes: DefaultMaximumFileSizeToCacheInBytes,
	}
}

// Clone returns a deep copy of the configuration.
func (c *WorkerConfig) Clone() *WorkerConfig {
	if c == nil {
		return nil
	}
	clone := *c
	clone.ImportScripts = slices.Clone(c.ImportScripts)
	clone.GlobPatterns = slices.Clone(c.GlobPatterns)
	clone.GlobIgnores = slices.Clone(c.GlobIgnores)
	clone.Ignored = slices.Clone(c.Ignored)
	return &clone
}

// absPath resolves p against root (or the working directory) and cleans it.
func absPath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	if root != "" {
		return filepath.Join(absPath("", root), p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
