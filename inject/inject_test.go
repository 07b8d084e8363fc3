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

package inject_test

import (
	"errors"
	"strings"
	"testing"

	"bennypowers.dev/swgen/inject"
	"bennypowers.dev/swgen/internal/logging"
	"bennypowers.dev/swgen/internal/mapfs"
	"bennypowers.dev/swgen/minify"
	"bennypowers.dev/swgen/testutil"
)

const registerCall = "navigator.serviceWorker.register('/sw.js')"

func TestContentGolden(t *testing.T) {
	input := testutil.LoadFixtureFile(t, "inject/basic.html")

	got, reason := inject.Content(input, inject.Options{})
	if reason != "" {
		t.Fatalf("reason = %q, want insertion", reason)
	}

	testutil.UpdateGoldenFile(t, "inject/basic.golden.html", got)
	want := testutil.LoadGoldenFile(t, "inject/basic.golden.html")
	if want != nil && string(got) != string(want) {
		t.Errorf("Content() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestContentInsertion(t *testing.T) {
	tests := []struct {
		name   string
		prefix string // input up to the real closing body tag
		input  string
	}{
		{
			name:   "single line document",
			prefix: "<html><body><p>hi</p>",
			input:  "<html><body><p>hi</p></body></html>",
		},
		{
			name:   "closing tag in comment is skipped",
			prefix: "<html><body><!-- </body> --><p>hi</p>",
			input:  "<html><body><!-- </body> --><p>hi</p></body></html>",
		},
		{
			name:   "closing tag in script text is skipped",
			prefix: "<html><body><script>document.write('</body>')</script>",
			input:  "<html><body><script>document.write('</body>')</script></body></html>",
		},
		{
			name:   "registration in a comment does not count",
			prefix: "<html><body><!-- navigator.serviceWorker.register('/sw.js') -->",
			input:  "<html><body><!-- navigator.serviceWorker.register('/sw.js') --></body></html>",
		},
		{
			name:   "registration in a string does not count",
			prefix: "<html><body><script>console.log(\"navigator.serviceWorker.register('/sw.js')\")</script>",
			input:  "<html><body><script>console.log(\"navigator.serviceWorker.register('/sw.js')\")</script></body></html>",
		},
		{
			name:   "registration in a JSON script does not count",
			prefix: "<html><body><script type=\"application/json\">{\"a\": \"navigator.serviceWorker.register('/x')\"}</script>",
			input:  "<html><body><script type=\"application/json\">{\"a\": \"navigator.serviceWorker.register('/x')\"}</script></body></html>",
		},
		{
			name:   "first of two closing tags",
			prefix: "<html><body><p>a</p>",
			input:  "<html><body><p>a</p></body><body></body></html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := inject.Content([]byte(tt.input), inject.Options{})
			if reason != "" {
				t.Fatalf("reason = %q, want insertion", reason)
			}

			out := string(got)
			if n := strings.Count(out, registerCall) - strings.Count(tt.input, registerCall); n != 1 {
				t.Errorf("inserted %d snippets, want 1:\n%s", n, out)
			}

			suffix := tt.input[len(tt.prefix):]
			if !strings.HasPrefix(out, tt.prefix) || !strings.HasSuffix(out, suffix) {
				t.Fatalf("document not byte-identical around the insertion:\n%s", out)
			}
			inserted := out[len(tt.prefix) : len(out)-len(suffix)]
			if !strings.HasPrefix(inserted, "<script>") || !strings.HasSuffix(strings.TrimRight(inserted, " \t\n"), "</script>") {
				t.Errorf("inserted text = %q, want a script tag right before </body>", inserted)
			}
		})
	}
}

func TestContentUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{
			name:   "registered through navigator",
			input:  string(testutil.LoadFixtureFile(t, "inject/registered.html")),
			reason: inject.ReasonRegistered,
		},
		{
			name:   "registered through window.navigator",
			input:  "<body><script>window.navigator.serviceWorker.register('/worker.js')</script></body>",
			reason: inject.ReasonRegistered,
		},
		{
			name:   "registered with optional chaining",
			input:  "<body><script>navigator.serviceWorker?.register('/sw.js')</script></body>",
			reason: inject.ReasonRegistered,
		},
		{
			name:   "no closing body",
			input:  string(testutil.LoadFixtureFile(t, "inject/no-body.html")),
			reason: inject.ReasonNoBody,
		},
		{
			name:   "closing body only inside a comment",
			input:  "<html><p>x</p><!-- </body> --></html>",
			reason: inject.ReasonNoBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := inject.Content([]byte(tt.input), inject.Options{})
			if reason != tt.reason {
				t.Errorf("reason = %q, want %q", reason, tt.reason)
			}
			if string(got) != tt.input {
				t.Errorf("content changed:\n%s", got)
			}
		})
	}
}

func TestContentMinified(t *testing.T) {
	input := "<html>\n  <body>\n  </body>\n</html>\n"
	opts := inject.Options{Minifier: minify.NewESBuild()}

	got, reason := inject.Content([]byte(input), opts)
	if reason != "" {
		t.Fatalf("reason = %q, want insertion", reason)
	}

	out := string(got)
	start := strings.Index(out, "<script>")
	end := strings.Index(out, "</script>")
	if start < 0 || end < start {
		t.Fatalf("no script tag in output:\n%s", out)
	}
	tag := out[start : end+len("</script>")]
	if strings.Contains(tag, "\n") {
		t.Errorf("minified tag spans lines: %q", tag)
	}
	if !strings.Contains(tag, "serviceWorker.register(") {
		t.Errorf("minified tag lost the registration call: %q", tag)
	}
	if !strings.HasSuffix(out, tag+"</body>\n</html>\n") {
		t.Errorf("tag not placed right before </body>:\n%s", out)
	}
}

func TestContentMinifyFailure(t *testing.T) {
	rec := logging.NewRecorder()
	opts := inject.Options{
		Minifier: minify.Func(func([]byte) ([]byte, error) { return nil, errors.New("boom") }),
		Logger:   rec,
	}

	got, _ := inject.Content([]byte("<body>\n</body>"), opts)
	if !strings.Contains(string(got), "\n  "+"if ('serviceWorker' in navigator) {") {
		t.Errorf("want multi-line fallback, got:\n%s", got)
	}
	if !rec.Contains("warning", "Failed to minify service worker registration") {
		t.Errorf("missing minify warning, got %v", rec.Lines())
	}
}

func TestFile(t *testing.T) {
	t.Run("inserts and writes once", func(t *testing.T) {
		mfs := testutil.NewFixtureFS(t, "inject", "/site")
		rec := logging.NewRecorder()

		result := inject.File(mfs, "/site/basic.html", inject.Options{Logger: rec})
		if !result.Modified || result.Error != "" {
			t.Fatalf("result = %+v, want modified", result)
		}
		if mfs.Writes("/site/basic.html") != 1 {
			t.Errorf("writes = %d, want 1", mfs.Writes("/site/basic.html"))
		}
		if !rec.Contains("success", "Service worker injected into /site/basic.html") {
			t.Errorf("missing success line, got %v", rec.Lines())
		}
	})

	t.Run("already registered is never written", func(t *testing.T) {
		mfs := testutil.NewFixtureFS(t, "inject", "/site")

		result := inject.File(mfs, "/site/registered.html", inject.Options{})
		if result.Modified || result.Reason != inject.ReasonRegistered {
			t.Errorf("result = %+v, want skipped as registered", result)
		}
		if n := mfs.Writes("/site/registered.html"); n != 0 {
			t.Errorf("writes = %d, want 0", n)
		}
	})

	t.Run("no closing body is never written", func(t *testing.T) {
		mfs := testutil.NewFixtureFS(t, "inject", "/site")
		rec := logging.NewRecorder()

		result := inject.File(mfs, "/site/no-body.html", inject.Options{Logger: rec})
		if result.Modified || result.Reason != inject.ReasonNoBody || result.Error != "" {
			t.Errorf("result = %+v, want skipped without error", result)
		}
		if n := mfs.Writes("/site/no-body.html"); n != 0 {
			t.Errorf("writes = %d, want 0", n)
		}
		if !rec.Contains("info", "no closing body tag") {
			t.Errorf("missing skip line, got %v", rec.Lines())
		}
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		mfs := testutil.NewFixtureFS(t, "inject", "/site")

		inject.File(mfs, "/site/basic.html", inject.Options{})
		result := inject.File(mfs, "/site/basic.html", inject.Options{})
		if result.Reason != inject.ReasonRegistered {
			t.Errorf("second run reason = %q, want %q", result.Reason, inject.ReasonRegistered)
		}
		if n := mfs.Writes("/site/basic.html"); n != 1 {
			t.Errorf("writes = %d, want 1", n)
		}
	})

	t.Run("dry run", func(t *testing.T) {
		mfs := testutil.NewFixtureFS(t, "inject", "/site")

		result := inject.File(mfs, "/site/basic.html", inject.Options{DryRun: true})
		if !result.Modified {
			t.Errorf("result = %+v, want modified", result)
		}
		if n := mfs.Writes("/site/basic.html"); n != 0 {
			t.Errorf("writes = %d, want 0", n)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		rec := logging.NewRecorder()
		result := inject.File(mapfs.New(), "/site/index.html", inject.Options{Logger: rec})
		if result.Error == "" {
			t.Error("expected a read error")
		}
		if rec.Count("error") != 1 {
			t.Errorf("error lines = %d, want 1", rec.Count("error"))
		}
	})
}

func TestBatch(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "inject", "/site")
	files := []string{"/site/basic.html", "/site/registered.html", "/site/no-body.html", "/site/missing.html"}

	var stats inject.Stats
	for result := range inject.Batch(mfs, files, inject.Options{Parallel: 2}) {
		stats.Add(result)
	}

	want := inject.Stats{Total: 4, Modified: 1, Skipped: 2, Errors: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}
