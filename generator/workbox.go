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
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"bennypowers.dev/swgen/config"
	"bennypowers.dev/swgen/fs"
	"bennypowers.dev/swgen/internal/logging"
)

var workerTemplate = template.Must(template.New("sw.js").Parse(`/**
 * Offline worker generated by swgen. Changes will be overwritten by the next build.
 */
{{- if .Imports}}

importScripts({{.Imports}});
{{- end}}
{{- if .CacheID}}

workbox.core.setCacheNameDetails({prefix: {{.CacheID}}});
{{- end}}
{{- if .SkipWaiting}}

self.skipWaiting();
{{- end}}
{{- if .ClientsClaim}}

workbox.core.clientsClaim();
{{- end}}

self.__precacheManifest = {{.Manifest}}.concat(self.__precacheManifest || []);
workbox.precaching.precacheAndRoute(self.__precacheManifest, {});
{{- if .NavigateFallback}}

workbox.routing.registerRoute(new workbox.routing.NavigationRoute(workbox.precaching.createHandlerBoundToURL({{.NavigateFallback}})));
{{- end}}
`))

// workerData holds pre-encoded JavaScript literals for workerTemplate.
type workerData struct {
	Imports          string
	CacheID          string
	SkipWaiting      bool
	ClientsClaim     bool
	Manifest         string
	NavigateFallback string
}

// Workbox is the default Generator. It builds the manifest from disk and
// renders a worker driven by the workbox-sw runtime.
type Workbox struct {
	fs     fs.FileSystem
	logger logging.Logger
}

// NewWorkbox creates a generator reading assets through fsys.
func NewWorkbox(fsys fs.FileSystem) *Workbox {
	return &Workbox{fs: fsys, logger: logging.Discard}
}

// WithLogger returns a copy of the generator that reports scan warnings to logger.
func (w *Workbox) WithLogger(logger logging.Logger) *Workbox {
	clone := *w
	clone.logger = logger
	return &clone
}

// Generate implements Generator.
func (w *Workbox) Generate(ctx context.Context, cfg *config.WorkerConfig) (string, error) {
	scan, err := BuildManifest(ctx, w.fs, cfg)
	if err != nil {
		return "", fmt.Errorf("building precache manifest: %w", err)
	}
	for _, warning := range scan.Warnings {
		w.logger.Warning("%s", warning)
	}
	w.logger.Info("Precaching %d files, totaling %d bytes", len(scan.Manifest), scan.Size)
	return Render(cfg, scan.Manifest)
}

// Render produces worker source for cfg and manifest.
func Render(cfg *config.WorkerConfig, manifest Manifest) (string, error) {
	if manifest == nil {
		manifest = Manifest{}
	}
	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding manifest: %w", err)
	}

	imports := make([]string, 0, len(cfg.ImportScripts))
	for _, script := range cfg.ImportScripts {
		imports = append(imports, jsString(script))
	}

	data := workerData{
		Imports:      strings.Join(imports, ", "),
		SkipWaiting:  cfg.SkipWaiting,
		ClientsClaim: cfg.ClientsClaim,
		Manifest:     string(manifestJSON),
	}
	if cfg.CacheID != "" {
		data.CacheID = jsString(cfg.CacheID)
	}
	if cfg.NavigateFallback != "" {
		data.NavigateFallback = jsString(cfg.NavigateFallback)
	}

	var out strings.Builder
	if err := workerTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("rendering worker: %w", err)
	}
	return out.String(), nil
}

// jsString encodes s as a JavaScript string literal.
func jsString(s string) string {
	encoded, _ := json.Marshal(s)
	return string(encoded)
}
