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

package generator_test

import (
	"strings"
	"testing"

	"bennypowers.dev/swgen/config"
	"bennypowers.dev/swgen/generator"
)

func TestRender(t *testing.T) {
	cfg := &config.WorkerConfig{
		ImportScripts: []string{"push.js", "https://cdn.example.com/workbox-sw.js"},
	}
	manifest := generator.Manifest{
		{URL: "index.html", Revision: "abc"},
	}

	got, err := generator.Render(cfg, manifest)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := `/**
 * Offline worker generated by swgen. Changes will be overwritten by the next build.
 */

importScripts("push.js", "https://cdn.example.com/workbox-sw.js");

self.__precacheManifest = [
  {
    "url": "index.html",
    "revision": "abc"
  }
].concat(self.__precacheManifest || []);
workbox.precaching.precacheAndRoute(self.__precacheManifest, {});
`
	if got != want {
		t.Errorf("Render() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderOptions(t *testing.T) {
	cfg := &config.WorkerConfig{
		ImportScripts:    []string{"workbox-sw.js"},
		CacheID:          "my-app",
		SkipWaiting:      true,
		ClientsClaim:     true,
		NavigateFallback: "/index.html",
	}

	got, err := generator.Render(cfg, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		`workbox.core.setCacheNameDetails({prefix: "my-app"});`,
		"self.skipWaiting();",
		"workbox.core.clientsClaim();",
		`self.__precacheManifest = [].concat(self.__precacheManifest || []);`,
		`createHandlerBoundToURL("/index.html")`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in:\n%s", want, got)
		}
	}

	// Options must appear before precaching starts
	if strings.Index(got, "self.skipWaiting()") > strings.Index(got, "precacheAndRoute") {
		t.Error("skipWaiting should precede precacheAndRoute")
	}
}

func TestRenderEscapesScriptNames(t *testing.T) {
	cfg := &config.WorkerConfig{ImportScripts: []string{`we"ird.js`}}

	got, err := generator.Render(cfg, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(got, `importScripts("we\"ird.js");`) {
		t.Errorf("Expected escaped script name in:\n%s", got)
	}
}

func TestRenderWithoutImports(t *testing.T) {
	got, err := generator.Render(&config.WorkerConfig{}, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(got, "importScripts") {
		t.Errorf("Expected no importScripts call in:\n%s", got)
	}
}
