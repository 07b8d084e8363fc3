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

// Package pipeline runs the post-build steps that produce the offline worker:
// it materializes import scripts, writes the generated worker and injects
// its registration into the HTML entry point.
package pipeline

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"bennypowers.dev/swgen/config"
	"bennypowers.dev/swgen/fs"
	"bennypowers.dev/swgen/generator"
	"bennypowers.dev/swgen/inject"
	"bennypowers.dev/swgen/internal/logging"
	"bennypowers.dev/swgen/materialize"
	"bennypowers.dev/swgen/minify"
	"bennypowers.dev/swgen/worker"
)

// EntryFile is the HTML entry point patched with the registration snippet.
const EntryFile = "index.html"

// Artifact kinds.
const (
	KindScript = "script"
	KindWorker = "worker"
	KindHTML   = "html"
)

// Artifact statuses.
const (
	StatusWritten = "written"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Deps are the collaborators of a run. Nil fields take defaults: the OS
// filesystem, the Workbox generator, the esbuild minifier, the HTTP fetcher
// and a discarding logger.
type Deps struct {
	FS        fs.FileSystem
	Generator generator.Generator
	Minifier  minify.Minifier
	Fetcher   materialize.Fetcher
	Logger    logging.Logger
}

func (d Deps) withDefaults() Deps {
	if d.FS == nil {
		d.FS = fs.NewOSFileSystem()
	}
	if d.Logger == nil {
		d.Logger = logging.Discard
	}
	if d.Generator == nil {
		d.Generator = generator.NewWorkbox(d.FS).WithLogger(d.Logger)
	}
	if d.Minifier == nil {
		d.Minifier = minify.NewESBuild()
	}
	if d.Fetcher == nil {
		d.Fetcher = materialize.NewHTTPFetcher()
	}
	return d
}

// Artifact records one file the run produced or meant to produce.
type Artifact struct {
	Kind     string `json:"kind"`
	Path     string `json:"path,omitempty"`
	Source   string `json:"source,omitempty"`
	Bytes    int    `json:"bytes,omitempty"`
	Minified bool   `json:"minified,omitempty"`
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Report summarizes a run.
type Report struct {
	RunID      string     `json:"run_id"`
	Skipped    bool       `json:"skipped,omitempty"`
	OutputPath string     `json:"output_path,omitempty"`
	Ignored    []string   `json:"ignored,omitempty"`
	Scripts    []Artifact `json:"scripts,omitempty"`
	Worker     *Artifact  `json:"worker,omitempty"`
	HTML       *Artifact  `json:"html,omitempty"`
	Duration   int64      `json:"duration_ms"`
}

// Artifacts returns every artifact of the report in a stable order.
func (r *Report) Artifacts() []Artifact {
	out := append([]Artifact(nil), r.Scripts...)
	if r.Worker != nil {
		out = append(out, *r.Worker)
	}
	if r.HTML != nil {
		out = append(out, *r.HTML)
	}
	return out
}

// Failed counts artifacts that could not be produced.
func (r *Report) Failed() int {
	n := 0
	for _, a := range r.Artifacts() {
		if a.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Run executes the pipeline for a finished build. Outside production it logs
// and returns a skipped report. The three branches run concurrently and never
// wait on each other; generator, minifier and injection failures are logged
// and recorded in the report. Import script read failures are returned after
// every branch has finished.
func Run(ctx context.Context, bc config.BuildContext, deps Deps) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	deps.Logger = logging.WithField(loggerOrDiscard(deps.Logger), "run", report.RunID)
	deps = deps.withDefaults()
	logger := deps.Logger

	if !bc.Production {
		logger.Info("Production not enabled, skipping service worker generation")
		report.Skipped = true
		report.Duration = time.Since(start).Milliseconds()
		return report, nil
	}

	cfg := config.Resolve(bc, workerConfigBlock(bc, logger))
	for _, key := range cfg.Ignored {
		logger.Warning("Ignoring workbox.%s: value has an unsupported shape", key)
	}
	report.OutputPath = cfg.OutputPath
	report.Ignored = cfg.Ignored

	var minifier minify.Minifier
	if bc.Minify {
		minifier = deps.Minifier
	}

	var scriptsErr error
	var wg sync.WaitGroup
	wg.Go(func() {
		report.Scripts, scriptsErr = materializeScripts(ctx, cfg, bc.Root, minifier, deps)
	})
	wg.Go(func() {
		report.Worker = writeWorker(ctx, cfg, minifier, deps)
	})
	wg.Go(func() {
		report.HTML = injectEntry(cfg, minifier, deps)
	})
	wg.Wait()

	report.Duration = time.Since(start).Milliseconds()
	return report, scriptsErr
}

func loggerOrDiscard(l logging.Logger) logging.Logger {
	if l == nil {
		return logging.Discard
	}
	return l
}

// workerConfigBlock reads the raw worker configuration from the entry
// package. An unreadable package falls back to defaults with a warning.
func workerConfigBlock(bc config.BuildContext, logger logging.Logger) json.RawMessage {
	if bc.Package == nil {
		return nil
	}
	pkg, err := bc.Package()
	if err != nil {
		logger.Warning("Reading package metadata: %v; using default worker configuration", err)
		return nil
	}
	if pkg == nil {
		return nil
	}
	return pkg.WorkerConfig()
}

func materializeScripts(ctx context.Context, cfg *config.WorkerConfig, root string, minifier minify.Minifier, deps Deps) ([]Artifact, error) {
	m := materialize.New(deps.FS).
		WithFetcher(deps.Fetcher).
		WithMinifier(minifier).
		WithLogger(deps.Logger).
		WithRoot(root)

	results, err := m.Materialize(ctx, cfg)
	artifacts := make([]Artifact, 0, len(results))
	for _, r := range results {
		a := Artifact{
			Kind:     KindScript,
			Path:     r.Dest,
			Source:   r.Source,
			Bytes:    r.Bytes,
			Minified: r.Minified,
			Status:   StatusWritten,
			Error:    r.Error,
		}
		if r.Error != "" {
			a.Status = StatusFailed
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, err
}

func writeWorker(ctx context.Context, cfg *config.WorkerConfig, minifier minify.Minifier, deps Deps) *Artifact {
	logger := deps.Logger
	artifact := &Artifact{Kind: KindWorker, Path: worker.Path(cfg.OutputPath)}
	fail := func(err error) *Artifact {
		logger.Error("%v", err)
		artifact.Status = StatusFailed
		artifact.Error = err.Error()
		return artifact
	}

	rewritten, err := materialize.RewriteImportScripts(cfg)
	if err != nil {
		return fail(err)
	}
	src, err := deps.Generator.Generate(ctx, rewritten)
	if err != nil {
		return fail(err)
	}

	data := worker.Finalize(src, minifier, logger)
	path, err := worker.Write(deps.FS, cfg.OutputPath, data)
	if err != nil {
		return fail(err)
	}

	artifact.Path = path
	artifact.Bytes = len(data)
	artifact.Minified = minifier != nil && string(data) != src
	artifact.Status = StatusWritten
	logger.Success("Service worker written to %s", path)
	return artifact
}

func injectEntry(cfg *config.WorkerConfig, minifier minify.Minifier, deps Deps) *Artifact {
	entry := filepath.Join(cfg.OutputPath, EntryFile)
	result := inject.File(deps.FS, entry, inject.Options{
		Minifier: minifier,
		Logger:   deps.Logger,
	})

	artifact := &Artifact{Kind: KindHTML, Path: entry, Reason: result.Reason, Error: result.Error}
	switch {
	case result.Error != "":
		artifact.Status = StatusFailed
	case result.Modified:
		artifact.Status = StatusWritten
	default:
		artifact.Status = StatusSkipped
	}
	return artifact
}
