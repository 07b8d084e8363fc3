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

// Package materialize copies the worker's import scripts into the build
// output, optionally minified, and rewrites their references to the names the
// generated worker loads them by.
package materialize

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"bennypowers.dev/swgen/config"
	"bennypowers.dev/swgen/fs"
	"bennypowers.dev/swgen/generator"
	"bennypowers.dev/swgen/internal/logging"
	"bennypowers.dev/swgen/minify"
)

// Result holds the outcome of materializing a single import script.
type Result struct {
	Source   string `json:"source"`
	Dest     string `json:"dest,omitempty"`
	Bytes    int    `json:"bytes"`
	Minified bool   `json:"minified,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ReadError reports an import script that could not be read or fetched.
// A missing declared script breaks the build.
type ReadError struct {
	Script string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading import script %s: %v", e.Script, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Materializer reads, optionally minifies and writes import scripts.
type Materializer struct {
	fs       fs.FileSystem
	fetcher  Fetcher
	minifier minify.Minifier
	logger   logging.Logger
	root     string
}

// New creates a Materializer that reads and writes through fsys.
// Minification is off until WithMinifier is called with a non-nil minifier.
func New(fsys fs.FileSystem) *Materializer {
	return &Materializer{
		fs:      fsys,
		fetcher: NewHTTPFetcher(),
		logger:  logging.Discard,
	}
}

// WithFetcher returns a copy using f for URL import scripts.
func (m *Materializer) WithFetcher(f Fetcher) *Materializer {
	clone := *m
	clone.fetcher = f
	return &clone
}

// WithMinifier returns a copy that minifies JavaScript with minifier. A nil
// minifier disables minification.
func (m *Materializer) WithMinifier(minifier minify.Minifier) *Materializer {
	clone := *m
	clone.minifier = minifier
	return &clone
}

// WithLogger returns a copy reporting to logger.
func (m *Materializer) WithLogger(logger logging.Logger) *Materializer {
	clone := *m
	clone.logger = logger
	return &clone
}

// WithRoot returns a copy resolving relative script paths against root.
func (m *Materializer) WithRoot(root string) *Materializer {
	clone := *m
	clone.root = root
	return &clone
}

// Materialize copies every import script in cfg into cfg.OutputPath under its
// base name. All scripts are processed concurrently and results follow the
// order of cfg.ImportScripts. A URL listed twice is fetched once. Read and
// write failures are returned joined, after every script has been attempted.
func (m *Materializer) Materialize(ctx context.Context, cfg *config.WorkerConfig) ([]Result, error) {
	if len(cfg.ImportScripts) == 0 {
		m.logger.Warning("No scripts set using workbox.importScripts")
		return nil, nil
	}

	if err := m.fs.MkdirAll(cfg.OutputPath, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", cfg.OutputPath, err)
	}
	m.warnDuplicateNames(cfg.ImportScripts)

	results := make([]Result, len(cfg.ImportScripts))
	errs := make([]error, len(cfg.ImportScripts))
	fetcher := NewFetchCache(m.fetcher, len(cfg.ImportScripts))

	var wg sync.WaitGroup
	for i, script := range cfg.ImportScripts {
		wg.Go(func() {
			results[i], errs[i] = m.materializeOne(ctx, fetcher, script, cfg.OutputPath)
		})
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

func (m *Materializer) materializeOne(ctx context.Context, fetcher Fetcher, script, outputPath string) (Result, error) {
	result := Result{Source: script}

	data, err := m.read(ctx, fetcher, script)
	if err != nil {
		readErr := &ReadError{Script: script, Err: err}
		result.Error = readErr.Error()
		m.logger.Error("%v", readErr)
		return result, readErr
	}

	if m.minifier != nil && isJavaScript(script) {
		data, result.Minified = minify.OrOriginal(m.minifier, data, script, m.logger)
	}

	dest := filepath.Join(outputPath, fs.BaseName(script))
	result.Dest = dest
	if err := m.fs.WriteFile(dest, data, 0644); err != nil {
		writeErr := fmt.Errorf("writing import script %s: %w", dest, err)
		result.Error = writeErr.Error()
		m.logger.Error("%v", writeErr)
		return result, writeErr
	}

	result.Bytes = len(data)
	m.logger.Success("Imported %s to %s", script, dest)
	return result, nil
}

func (m *Materializer) read(ctx context.Context, fetcher Fetcher, script string) ([]byte, error) {
	if IsURL(script) {
		return fetcher.Fetch(ctx, script)
	}
	return m.fs.ReadFile(m.resolve(script))
}

func (m *Materializer) resolve(script string) string {
	if filepath.IsAbs(script) {
		return filepath.Clean(script)
	}
	if m.root != "" {
		return filepath.Join(m.root, script)
	}
	if abs, err := filepath.Abs(script); err == nil {
		return abs
	}
	return script
}

func (m *Materializer) warnDuplicateNames(scripts []string) {
	seen := make(map[string]string)
	for _, script := range scripts {
		name := fs.BaseName(script)
		if first, ok := seen[name]; ok {
			m.logger.Warning("Import scripts %s and %s share the name %s; the last write wins", first, script, name)
			continue
		}
		seen[name] = script
	}
}

// RewriteImportScripts returns a copy of cfg whose ImportScripts hold the base
// names the materialized copies are written under, in order, followed by the
// runtime support module URL.
func RewriteImportScripts(cfg *config.WorkerConfig) (*config.WorkerConfig, error) {
	runtimeURL, err := generator.ModuleURL(cfg.RuntimeURL, generator.RuntimeModule)
	if err != nil {
		return nil, fmt.Errorf("resolving runtime module: %w", err)
	}

	rewritten := cfg.Clone()
	rewritten.ImportScripts = make([]string, 0, len(cfg.ImportScripts)+1)
	for _, script := range cfg.ImportScripts {
		rewritten.ImportScripts = append(rewritten.ImportScripts, fs.BaseName(script))
	}
	rewritten.ImportScripts = append(rewritten.ImportScripts, runtimeURL)
	return rewritten, nil
}

// IsURL reports whether an import script is fetched rather than read from disk.
func IsURL(script string) bool {
	return strings.HasPrefix(script, "http://") || strings.HasPrefix(script, "https://")
}

func isJavaScript(script string) bool {
	switch strings.ToLower(filepath.Ext(fs.BaseName(script))) {
	case ".js", ".mjs", ".cjs":
		return true
	case "":
		return IsURL(script)
	}
	return false
}
