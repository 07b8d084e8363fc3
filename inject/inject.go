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

// Package inject installs the service worker registration snippet into HTML
// entry points. Documents that already register a worker are left untouched.
package inject

import (
	"runtime"
	"sync"

	"bennypowers.dev/swgen/fs"
	"bennypowers.dev/swgen/internal/logging"
	"bennypowers.dev/swgen/minify"
)

// Reasons an HTML file is left unchanged.
const (
	ReasonRegistered = "already registered"
	ReasonNoBody     = "no closing body tag"
)

// Options configures injection.
type Options struct {
	// Minifier minifies the snippet into a single-line tag. Nil keeps the
	// multi-line, indented form.
	Minifier minify.Minifier
	// Logger receives per-file outcomes. Nil discards them.
	Logger logging.Logger
	// Parallel is the number of parallel workers for batch mode.
	Parallel int
	// DryRun prevents writing files when true.
	DryRun bool
}

func (o Options) logger() logging.Logger {
	if o.Logger == nil {
		return logging.Discard
	}
	return o.Logger
}

// Result holds the result of injecting into a single file.
type Result struct {
	File     string `json:"file"`
	Modified bool   `json:"modified"`
	Reason   string `json:"reason,omitempty"` // why an unmodified file was skipped
	Error    string `json:"error,omitempty"`
}

// Stats holds aggregate statistics from an inject operation.
type Stats struct {
	Total    int   `json:"total"`
	Modified int   `json:"modified"`
	Skipped  int   `json:"skipped"`
	Errors   int   `json:"errors"`
	Duration int64 `json:"duration_ms"`
}

// Add counts r into the statistics.
func (s *Stats) Add(r Result) {
	s.Total++
	switch {
	case r.Error != "":
		s.Errors++
	case r.Modified:
		s.Modified++
	default:
		s.Skipped++
	}
}

// Content returns content with the registration snippet inserted immediately
// before the first closing body tag. When nothing is inserted it returns
// content unchanged along with the reason.
func Content(content []byte, opts Options) ([]byte, string) {
	doc := scan(content)

	for _, script := range doc.scripts {
		if found, err := registers(script); err == nil && found {
			return content, ReasonRegistered
		}
	}
	if doc.bodyEnd < 0 {
		return content, ReasonNoBody
	}

	tag := snippet(doc.indent, opts.Minifier, opts.logger())
	out := make([]byte, 0, len(content)+len(tag))
	out = append(out, content[:doc.bodyEnd]...)
	out = append(out, tag...)
	out = append(out, content[doc.bodyEnd:]...)
	return out, ""
}

// File injects the registration snippet into the HTML file at path. The file
// is written only when its content changes and DryRun is off.
func File(fsys fs.FileSystem, path string, opts Options) Result {
	logger := opts.logger()
	result := Result{File: path}

	content, err := fsys.ReadFile(path)
	if err != nil {
		result.Error = err.Error()
		logger.Error("Reading %s: %v", path, err)
		return result
	}

	out, reason := Content(content, opts)
	if reason != "" {
		result.Reason = reason
		logger.Info("Skipping %s: %s", path, reason)
		return result
	}

	result.Modified = true
	if opts.DryRun {
		return result
	}
	if err := fsys.WriteFile(path, out, 0644); err != nil {
		result.Error = err.Error()
		logger.Error("Writing %s: %v", path, err)
		return result
	}

	logger.Success("Service worker injected into %s", path)
	return result
}

// Batch injects into multiple HTML files in parallel.
func Batch(fsys fs.FileSystem, files []string, opts Options) <-chan Result {
	results := make(chan Result, len(files))

	go func() {
		defer close(results)

		parallel := opts.Parallel
		if parallel <= 0 {
			parallel = runtime.NumCPU()
		}

		jobs := make(chan string, len(files))

		var wg sync.WaitGroup
		for range parallel {
			wg.Go(func() {
				for file := range jobs {
					results <- File(fsys, file, opts)
				}
			})
		}

		for _, file := range files {
			jobs <- file
		}
		close(jobs)

		wg.Wait()
	}()

	return results
}
