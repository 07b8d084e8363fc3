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

package minify_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"bennypowers.dev/swgen/internal/logging"
	"bennypowers.dev/swgen/minify"
)

func TestESBuildMinify(t *testing.T) {
	src := []byte(`
		// greets someone
		function greet(name) {
			const message = "hello, " + name;
			return message;
		}
		self.greet = greet;
	`)

	out, err := minify.NewESBuild().Minify(src)
	if err != nil {
		t.Fatalf("Minify failed: %v", err)
	}
	if len(out) >= len(src) {
		t.Errorf("Expected smaller output, got %d >= %d bytes", len(out), len(src))
	}
	if bytes.Contains(out, []byte("greets someone")) {
		t.Errorf("Expected comments removed, got %q", out)
	}
	if !bytes.Contains(out, []byte("self.greet")) {
		t.Errorf("Expected global assignment preserved, got %q", out)
	}
}

func TestESBuildMinifySyntaxError(t *testing.T) {
	_, err := minify.NewESBuild().Minify([]byte("function ( {"))
	if err == nil {
		t.Fatal("Expected error for invalid JavaScript")
	}
	if !strings.HasPrefix(err.Error(), "minify:") {
		t.Errorf("Unexpected error text: %v", err)
	}
}

func TestOrOriginal(t *testing.T) {
	src := []byte("var a = 1;")

	tests := []struct {
		name         string
		minifier     minify.Minifier
		wantOut      string
		wantMinified bool
		wantWarnings int
	}{
		{
			name:         "success",
			minifier:     minify.Func(func([]byte) ([]byte, error) { return []byte("var a=1;"), nil }),
			wantOut:      "var a=1;",
			wantMinified: true,
		},
		{
			name:         "error falls back",
			minifier:     minify.Func(func([]byte) ([]byte, error) { return nil, errors.New("boom") }),
			wantOut:      "var a = 1;",
			wantWarnings: 1,
		},
		{
			name:         "empty result falls back",
			minifier:     minify.Func(func([]byte) ([]byte, error) { return nil, nil }),
			wantOut:      "var a = 1;",
			wantWarnings: 1,
		},
		{
			name:         "panic falls back",
			minifier:     minify.Func(func([]byte) ([]byte, error) { panic("bad state") }),
			wantOut:      "var a = 1;",
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := logging.NewRecorder()
			out, minified := minify.OrOriginal(tt.minifier, src, "test.js", rec)
			if string(out) != tt.wantOut {
				t.Errorf("out = %q, want %q", out, tt.wantOut)
			}
			if minified != tt.wantMinified {
				t.Errorf("minified = %v, want %v", minified, tt.wantMinified)
			}
			if got := rec.Count("warning"); got != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d", got, tt.wantWarnings)
			}
			if tt.wantWarnings > 0 && !rec.Contains("warning", "test.js") {
				t.Errorf("Expected warning to name the artifact: %+v", rec.Lines())
			}
		})
	}
}
